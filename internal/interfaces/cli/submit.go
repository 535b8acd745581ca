package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/client"
	"github.com/turtacn/hydromoment/pkg/errors"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

type submitOptions struct {
	computeOptions
	server string
	wait   bool
	poll   time.Duration
}

// NewSubmitCmd creates the submit command, which queues a run on a remote
// API server instead of computing it locally.
func NewSubmitCmd() *cobra.Command {
	o := &submitOptions{}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Queue a moment calculation on an hmoment API server",
		Long: `Sends a coordinate file to POST /api/v1/jobs. The job id doubles as the
run id of the archived report; with --wait the command polls the report
endpoint until the worker has stored it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.server, "server", "http://localhost:8080", "API server base URL")
	f.StringVarP(&o.input, "input", "i", "", "coordinate file (.yaml, .yml, .json) or - for stdin")
	f.StringVar(&o.format, "format", "", "input format: yaml|json (default: from extension)")
	f.Float64VarP(&o.radius, "radius", "r", 0, "sphere radius in ångströms (default: server moment.radius)")
	f.StringVarP(&o.scale, "scale", "s", "", "hydrophobicity scale")
	f.StringVar(&o.distanceMode, "distance-mode", "", "truncated|continuous")
	f.Float64VarP(&o.threshold, "threshold", "t", 0, "RSA threshold recorded with the run (0.2-0.8)")
	f.StringVar(&o.acc, "acc", "", "ACC array recorded with the run: Sander|Miller|Wilke")
	f.BoolVar(&o.noCache, "no-cache", false, "skip the server's result cache")
	f.BoolVar(&o.wait, "wait", false, "wait for the archived report and print it")
	f.DurationVar(&o.poll, "poll-interval", 2*time.Second, "report polling interval with --wait")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runSubmit(cmd *cobra.Command, o *submitOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if o.poll <= 0 {
		return errors.InvalidParam("poll-interval must be positive").WithDetail("poll-interval=" + o.poll.String())
	}

	coords, err := readCoordinates(cmd, &o.computeOptions)
	if err != nil {
		return err
	}
	points := make(map[string]htypes.Point, len(coords))
	for id, v := range coords {
		points[id] = htypes.Point{v.X, v.Y, v.Z}
	}

	c, err := client.NewClient(o.server, client.WithLogger(clientLogger{cliCtx.Logger}))
	if err != nil {
		return err
	}

	req := &htypes.ComputeRequest{
		Coordinates:  points,
		Radius:       o.radius,
		Scale:        o.scale,
		DistanceMode: o.distanceMode,
		RSAThreshold: o.threshold,
		ACCArray:     o.acc,
		NoCache:      o.noCache,
		Archive:      o.wait,
	}
	accepted, err := c.Moments().SubmitJob(cmd.Context(), req)
	if err != nil {
		return err
	}
	cliCtx.Logger.Info("Job queued",
		logging.String("job_id", accepted.JobID),
		logging.String("topic", accepted.Topic),
		logging.Int("residues", len(points)),
	)

	if !o.wait {
		return PrintResult(cmd, jobReceipt(*accepted))
	}

	report, err := waitForReport(cmd, c, accepted.JobID, o.poll)
	if err != nil {
		return err
	}
	return PrintResult(cmd, &momentReport{ComputeResponse: report, input: o.input})
}

// waitForReport polls until the run's report exists or the command context
// ends. Only 404s are retried; the client already retries 5xx.
func waitForReport(cmd *cobra.Command, c *client.Client, runID string, poll time.Duration) (*htypes.ComputeResponse, error) {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		report, err := c.Reports().Get(cmd.Context(), runID)
		if err == nil {
			return report, nil
		}
		if ctxErr := cmd.Context().Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, errors.ErrCodeTimeout, "report not ready").WithDetail(runID)
		}
		var apiErr *client.APIError
		if !stderrors.As(err, &apiErr) || !apiErr.IsNotFound() {
			return nil, err
		}

		select {
		case <-cmd.Context().Done():
			return nil, errors.Wrap(cmd.Context().Err(), errors.ErrCodeTimeout, "report not ready").WithDetail(runID)
		case <-ticker.C:
		}
	}
}

type jobReceipt htypes.JobAccepted

func (j jobReceipt) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Job id:\t\t%s\n", j.JobID)
	fmt.Fprintf(w, "Status:\t\t%s\n", j.Status)
	fmt.Fprintf(w, "Topic:\t\t%s\n", j.Topic)
}

// clientLogger forwards SDK logs to the structured logger.
type clientLogger struct {
	logging.Logger
}

func (l clientLogger) Debugf(format string, args ...interface{}) {
	l.Debug(fmt.Sprintf(format, args...), logging.String("component", "client"))
}

func (l clientLogger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...), logging.String("component", "client"))
}

func (l clientLogger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...), logging.String("component", "client"))
}

//Personal.AI order the ending
