package cli

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

// NewScalesCmd creates the scales command.
func NewScalesCmd() *cobra.Command {
	var withValues bool

	cmd := &cobra.Command{
		Use:   "scales",
		Short: "List the built-in hydrophobicity scales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			return PrintResult(cmd, &scaleTable{
				ScaleList:  cliCtx.Service.ListScales(withValues),
				withValues: withValues,
			})
		},
	}
	cmd.Flags().BoolVar(&withValues, "values", false, "include per-residue values")
	return cmd
}

type scaleTable struct {
	*htypes.ScaleList
	withValues bool
}

func (t *scaleTable) TableHeaders() []string {
	h := []string{"Name", "Min", "Max", "Reversed", "Default"}
	if t.withValues {
		h = append(h, "Values")
	}
	return h
}

func (t *scaleTable) TableRows() [][]string {
	rows := make([][]string, 0, len(t.Scales))
	for _, s := range t.Scales {
		def := ""
		if s.Default {
			def = "*"
		}
		row := []string{s.Name, f4(s.Min), f4(s.Max), strconv.FormatBool(s.Reversed), def}
		if t.withValues {
			row = append(row, formatValues(s.Values))
		}
		rows = append(rows, row)
	}
	return rows
}

func formatValues(values map[string]float64) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += k + "=" + strconv.FormatFloat(values[k], 'g', -1, 64)
	}
	return out
}

//Personal.AI order the ending
