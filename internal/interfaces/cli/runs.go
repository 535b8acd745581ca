package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/hydromoment/pkg/errors"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

// NewRunsCmd creates the runs command group for the run history.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the run history",
		Long:  "Reads the run history kept in Postgres. Requires postgres.enabled.",
	}
	cmd.AddCommand(newRunsListCmd(), newRunsGetCmd(), newRunsPruneCmd())
	return cmd
}

func newRunsListCmd() *cobra.Command {
	var (
		limit  int
		status string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.InvalidParam("limit must not be negative").WithDetail("limit=" + strconv.Itoa(limit))
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			list, err := cliCtx.Service.ListRuns(cmd.Context(), limit, status)
			if err != nil {
				return err
			}
			return PrintResult(cmd, (*runList)(list))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of runs")
	cmd.Flags().StringVar(&status, "status", "", "only runs with this status (queued, running, completed, failed)")
	return cmd
}

func newRunsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <run-id>",
		Short: "Print the history record of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			rec, err := cliCtx.Service.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, (*runDetail)(rec))
		},
	}
}

func newRunsPruneCmd() *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete finished runs and archived reports older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			res, err := cliCtx.Service.Prune(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			return PrintResult(cmd, (*pruneSummary)(res))
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "delete history created before now minus this duration")
	return cmd
}

type pruneSummary htypes.PruneResult

func (p *pruneSummary) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Cutoff:		%s\n", p.Cutoff.Format(time.RFC3339))
	fmt.Fprintf(w, "Runs deleted:	%d\n", p.Runs)
	fmt.Fprintf(w, "Reports deleted:	%d\n", p.Reports)
}

type runList htypes.RunList

func (l *runList) TableHeaders() []string {
	return []string{"Run ID", "Status", "Scale", "Radius", "Residues", "Cached", "Duration", "Created"}
}

func (l *runList) TableRows() [][]string {
	rows := make([][]string, len(l.Runs))
	for i, r := range l.Runs {
		rows[i] = []string{
			r.RunID,
			r.Status,
			r.Scale,
			strconv.FormatFloat(r.Radius, 'g', -1, 64),
			strconv.Itoa(r.Residues),
			strconv.FormatBool(r.Cached),
			(time.Duration(r.DurationMs) * time.Millisecond).String(),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return rows
}

type runDetail htypes.RunRecord

func (r *runDetail) WriteText(w io.Writer) {
	fmt.Fprintf(w, "Run id:\t\t%s\n", r.RunID)
	fmt.Fprintf(w, "Status:\t\t%s\n", statusLabel(r.Status))
	if r.Scale != "" {
		fmt.Fprintf(w, "Scale:\t\t%s\n", r.Scale)
		fmt.Fprintf(w, "Radius:\t\t%g\n", r.Radius)
		fmt.Fprintf(w, "Distance mode:\t%s\n", r.DistanceMode)
	}
	fmt.Fprintf(w, "Residues:\t%d\n", r.Residues)
	if r.ArchiveKey != "" {
		fmt.Fprintf(w, "Archived:\t%s\n", r.ArchiveKey)
	}
	if r.ErrorCode != "" {
		fmt.Fprintf(w, "Error:\t\t[%s] %s\n", r.ErrorCode, r.ErrorMessage)
	}
	fmt.Fprintf(w, "Duration:\t%s\n", time.Duration(r.DurationMs)*time.Millisecond)
	fmt.Fprintf(w, "Created:\t%s\n", r.CreatedAt.UTC().Format(time.RFC3339))
}

func statusLabel(status string) string {
	switch status {
	case htypes.StatusCompleted:
		return color.GreenString(status)
	case htypes.StatusFailed:
		return color.RedString(status)
	default:
		return color.YellowString(status)
	}
}

//Personal.AI order the ending
