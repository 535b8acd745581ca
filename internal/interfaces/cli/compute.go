package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/hydromoment/internal/application/moments"
	"github.com/turtacn/hydromoment/internal/domain/hydropathy"
	"github.com/turtacn/hydromoment/internal/infrastructure/coordinates"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

type computeOptions struct {
	input        string
	format       string
	radius       float64
	scale        string
	distanceMode string
	workers      int
	threshold    float64
	acc          string
	archive      bool
	noCache      bool
}

// NewComputeCmd creates the compute command.
func NewComputeCmd() *cobra.Command {
	o := &computeOptions{}

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute hydropathy moments for a residue coordinate file",
		Long: `Reads a map of residue identifier to (x, y, z) coordinates and prints,
for every residue, the hydropathy moment of the sphere of residues around it.

Coordinate files are YAML or JSON; "-" reads standard input:

  ALA1: [0.0, 0.0, 0.0]
  GLY2: {x: 3.0, y: 0.0, z: 0.0}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.input, "input", "i", "", "coordinate file (.yaml, .yml, .json) or - for stdin")
	f.StringVar(&o.format, "format", "", "input format: yaml|json (default: from extension)")
	f.Float64VarP(&o.radius, "radius", "r", 0, "sphere radius in ångströms (default: moment.radius)")
	f.StringVarP(&o.scale, "scale", "s", "", "hydrophobicity scale (see 'hmoment scales')")
	f.StringVar(&o.distanceMode, "distance-mode", "", "truncated|continuous")
	f.IntVar(&o.workers, "workers", 0, "residues computed concurrently (default: moment.workers)")
	f.Float64VarP(&o.threshold, "threshold", "t", 0, "RSA threshold recorded with the run (0.2-0.8)")
	f.StringVar(&o.acc, "acc", "", "ACC array recorded with the run: Sander|Miller|Wilke")
	f.BoolVar(&o.archive, "archive", false, "store the report in the object archive")
	f.BoolVar(&o.noCache, "no-cache", false, "skip the result cache lookup")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runCompute(cmd *cobra.Command, o *computeOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if o.workers < 0 {
		return errors.InvalidParam("workers must not be negative").WithDetail("workers=" + strconv.Itoa(o.workers))
	}

	coords, err := readCoordinates(cmd, o)
	if err != nil {
		return err
	}
	cliCtx.Logger.Info("Calculating hydropathy moments",
		logging.String("input", o.input),
		logging.Int("residues", len(coords)),
	)

	res, err := cliCtx.Service.Compute(cmd.Context(), &moments.Request{
		Coordinates:  coords,
		Radius:       o.radius,
		Scale:        o.scale,
		DistanceMode: o.distanceMode,
		RSAThreshold: o.threshold,
		ACCArray:     o.acc,
		Workers:      o.workers,
		Archive:      o.archive,
		NoCache:      o.noCache,
	})
	if err != nil {
		return err
	}

	if err := PrintResult(cmd, &momentReport{ComputeResponse: moments.ToResponse(res), input: o.input}); err != nil {
		return err
	}
	if cliCtx.OutputFormat != OutputJSON {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d hydropathy moments calculated.\n", len(res.Moments))
	}
	return nil
}

func readCoordinates(cmd *cobra.Command, o *computeOptions) (hydropathy.CoordinateMap, error) {
	format, err := coordinates.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	if o.input == "-" {
		return coordinates.Read(cmd.InOrStdin(), format)
	}
	return coordinates.ReadFileAs(o.input, format)
}

// ─────────────────────────────────────────────────────────────────────────────
// Rendering
// ─────────────────────────────────────────────────────────────────────────────

// momentReport renders a compute response for the terminal. JSON output is
// the embedded response unchanged.
type momentReport struct {
	*htypes.ComputeResponse
	input string
}

func (r *momentReport) TableHeaders() []string {
	return []string{"H moment", "Residue", "Origin(x)", "Origin(y)", "Origin(z)",
		"Vector(x)", "Vector(y)", "Vector(z)", "Mean", "Bucket", "Color", "Neighbors"}
}

func (r *momentReport) TableRows() [][]string {
	rows := make([][]string, len(r.Moments))
	for i, m := range r.Moments {
		rows[i] = []string{
			strconv.Itoa(i),
			m.Residue,
			f4(m.Origin[0]), f4(m.Origin[1]), f4(m.Origin[2]),
			f4(m.Vector[0]), f4(m.Vector[1]), f4(m.Vector[2]),
			f4(m.MeanIndex),
			strconv.Itoa(m.Bucket),
			m.Color,
			strconv.Itoa(m.Neighbors),
		}
	}
	return rows
}

func (r *momentReport) WriteText(w io.Writer) {
	p := r.Parameters
	if r.input != "" {
		fmt.Fprintf(w, "Input file:\t\t%s\n", r.input)
	}
	fmt.Fprintf(w, "Run id:\t\t\t%s\n", r.RunID)
	fmt.Fprintf(w, "ACC array:\t\t%s\n", p.ACCArray)
	fmt.Fprintf(w, "RSA threshold:\t\t%g\n", p.RSAThreshold)
	fmt.Fprintf(w, "Sphere radius:\t\t%g\n", p.Radius)
	fmt.Fprintf(w, "Distance mode:\t\t%s\n", p.DistanceMode)
	fmt.Fprintf(w, "Hydrophobicity scale:\t%s\n", p.Scale)
	if r.Cached {
		fmt.Fprintf(w, "Cached:\t\t\t%s\n", color.GreenString("yes"))
	}
	if r.ArchiveKey != "" {
		fmt.Fprintf(w, "Archived:\t\t%s\n", r.ArchiveKey)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%8s\t%-8s\t%9s\t%9s\t%9s\t%9s\t%9s\t%9s\t%s\n",
		"H moment", "Residue", "Origin(x)", "Origin(y)", "Origin(z)", "Vector(x)", "Vector(y)", "Vector(z)", "Color")
	for i, m := range r.Moments {
		fmt.Fprintf(w, "%8d\t%-8s\t%9.4f\t%9.4f\t%9.4f\t%9.4f\t%9.4f\t%9.4f\t%s\n",
			i, m.Residue,
			m.Origin[0], m.Origin[1], m.Origin[2],
			m.Vector[0], m.Vector[1], m.Vector[2],
			bucketLabel(m.Bucket, m.Color, p.Reversed))
	}
}

// bucketLabel colours the hex code towards the hydrophobic (red) or
// hydrophilic (blue) end of the palette.
func bucketLabel(bucket int, hex string, reversed bool) string {
	hydrophobic := bucket > hydropathy.BucketCount/2
	if reversed {
		hydrophobic = !hydrophobic
	}
	label := fmt.Sprintf("%s (%d)", hex, bucket)
	if hydrophobic {
		return color.RedString(label)
	}
	return color.BlueString(label)
}

func f4(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

//Personal.AI order the ending
