package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/hydromoment/internal/infrastructure/storage/minio"
	"github.com/turtacn/hydromoment/pkg/errors"
)

// NewReportsCmd creates the reports command group for archived runs.
func NewReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Inspect archived moment reports",
		Long:  "Reads reports stored by 'hmoment compute --archive'. Requires minio.enabled.",
	}
	cmd.AddCommand(newReportsGetCmd(), newReportsListCmd(), newReportsURLCmd())
	return cmd
}

func newReportsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <run-id>",
		Short: "Print an archived report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			resp, err := cliCtx.Service.GetReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return PrintResult(cmd, &momentReport{ComputeResponse: resp})
		},
	}
}

func newReportsListCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.InvalidParam("limit must not be negative").WithDetail("limit=" + strconv.Itoa(limit))
			}
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			list, err := cliCtx.Service.ListReports(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return PrintResult(cmd, reportList(list))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of reports (0 = all)")
	return cmd
}

func newReportsURLCmd() *cobra.Command {
	var expiry time.Duration
	cmd := &cobra.Command{
		Use:   "url <run-id>",
		Short: "Print a presigned download URL for a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			u, err := cliCtx.Service.ReportURL(cmd.Context(), args[0], expiry)
			if err != nil {
				return err
			}
			if cliCtx.OutputFormat == OutputJSON {
				return printJSON(cmd.OutOrStdout(), map[string]string{"run_id": args[0], "url": u})
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().DurationVar(&expiry, "expiry", 0, "URL lifetime (default: minio.presign_expiry)")
	return cmd
}

type reportList []*minio.ArchivedReport

func (l reportList) TableHeaders() []string {
	return []string{"Run ID", "Scale", "Radius", "Residues", "Size", "Last modified"}
}

func (l reportList) TableRows() [][]string {
	rows := make([][]string, len(l))
	for i, r := range l {
		rows[i] = []string{
			r.RunID,
			r.Metadata["scale"],
			r.Metadata["radius"],
			r.Metadata["residues"],
			strconv.FormatInt(r.Size, 10),
			r.LastModified.UTC().Format(time.RFC3339),
		}
	}
	return rows
}

//Personal.AI order the ending
