package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/hydromoment/internal/application/moments"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

type classifyOptions struct {
	value    float64
	scale    string
	min      float64
	max      float64
	reversed bool
}

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	o := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Map a hydrophobicity value to its colour bucket",
		Long: `Splits [min, max] into ten equal buckets and prints the bucket and colour
of --value. The range defaults to the chosen scale's minimum and maximum.`,
		Example: `  hmoment classify --value 2.5
  hmoment classify --value 0.3 --min -1 --max 1 --reversed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd, o)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&o.value, "value", 0, "value to classify")
	f.StringVarP(&o.scale, "scale", "s", "", "hydrophobicity scale supplying the range")
	f.Float64Var(&o.min, "min", 0, "range minimum (requires --max)")
	f.Float64Var(&o.max, "max", 0, "range maximum (requires --min)")
	f.BoolVar(&o.reversed, "reversed", false, "use the mirrored palette")
	_ = cmd.MarkFlagRequired("value")
	cmd.MarkFlagsRequiredTogether("min", "max")

	return cmd
}

func runClassify(cmd *cobra.Command, o *classifyOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}

	in := &moments.ClassifyInput{Value: o.value, Scale: o.scale}
	if cmd.Flags().Changed("min") {
		in.Min, in.Max = &o.min, &o.max
	}
	if cmd.Flags().Changed("reversed") {
		in.Reversed = &o.reversed
	}

	resp, err := cliCtx.Service.Classify(cmd.Context(), in)
	if err != nil {
		return err
	}
	return PrintResult(cmd, &classification{resp})
}

type classification struct {
	*htypes.ClassifyResponse
}

func (c *classification) TableHeaders() []string {
	return []string{"Value", "Min", "Max", "Reversed", "Bucket", "Color"}
}

func (c *classification) TableRows() [][]string {
	return [][]string{{
		f4(c.Value), f4(c.Min), f4(c.Max),
		strconv.FormatBool(c.Reversed),
		strconv.Itoa(c.Bucket),
		c.Color,
	}}
}

func (c *classification) WriteText(w io.Writer) {
	if c.Scale != "" {
		fmt.Fprintf(w, "Scale:\t\t%s\n", c.Scale)
	}
	fmt.Fprintf(w, "Range:\t\t[%g, %g]\n", c.Min, c.Max)
	fmt.Fprintf(w, "Value:\t\t%g\n", c.Value)
	fmt.Fprintf(w, "Bucket:\t\t%s\n", bucketLabel(c.Bucket, c.Color, c.Reversed))
	fmt.Fprintf(w, "RGB:\t\t%.4f %.4f %.4f\n", c.RGB[0], c.RGB[1], c.RGB[2])
}

//Personal.AI order the ending
