package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/hydromoment/internal/application/moments"
	"github.com/turtacn/hydromoment/internal/bootstrap"
	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Output formats accepted by --output.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

type cliContextKey struct{}

// annotationNoComponents marks commands that must run without the service
// and its backends, such as schema migrations.
const annotationNoComponents = "hmoment/no-components"

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	NoColor      bool
	Timeout      time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	Logger       logging.Logger
	Service      moments.Service
	OutputFormat string
	Verbose      bool
	NoColor      bool

	components *bootstrap.Components
	cancel     context.CancelFunc
}

// buildComponents is replaced in tests.
var buildComponents = bootstrap.Build

// NewRootCommand creates the root command with its global flags and all
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "hmoment",
		Short: "Hydropathy moments of protein surface regions",
		Long: "hmoment computes, for every surface residue, the hydropathy moment of the\n" +
			"sphere of residues around it and classifies the neighbourhood's mean\n" +
			"hydrophobicity into one of ten colour buckets.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPostRun(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./hmoment.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error); overrides log.level")
	pf.StringVarP(&opts.OutputFormat, "output", "o", OutputText, "output format (text, json, table)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")
	pf.DurationVar(&opts.Timeout, "timeout", 5*time.Minute, "global operation timeout")

	cmd.AddCommand(
		NewComputeCmd(),
		NewClassifyCmd(),
		NewScalesCmd(),
		NewReportsCmd(),
		NewSubmitCmd(),
		NewRunsCmd(),
		NewMigrateCmd(),
	)
	return cmd
}

// persistentPreRun loads config, builds the logger and the service, then
// stores the CLIContext on the command context.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	switch strings.ToLower(opts.OutputFormat) {
	case OutputText, OutputJSON, OutputTable:
	default:
		return errors.InvalidParam("unsupported output format").WithDetail("output=" + opts.OutputFormat)
	}

	cfg, err := initConfig(opts)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg, opts)
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	var cancel context.CancelFunc = func() {}
	if opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
	}

	var comps *bootstrap.Components
	if needsComponents(cmd) {
		if comps, err = buildComponents(ctx, cfg, logger); err != nil {
			cancel()
			return err
		}
	}

	if opts.NoColor {
		color.NoColor = true
	}

	cliCtx := &CLIContext{
		Config:       cfg,
		Logger:       logger,
		OutputFormat: strings.ToLower(opts.OutputFormat),
		Verbose:      opts.Verbose,
		NoColor:      opts.NoColor,
		components:   comps,
		cancel:       cancel,
	}
	if comps != nil {
		cliCtx.Service = comps.Service
	}
	cmd.SetContext(context.WithValue(ctx, cliContextKey{}, cliCtx))
	return nil
}

func needsComponents(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoComponents] == "true" {
			return false
		}
	}
	return true
}

func persistentPostRun(cmd *cobra.Command) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil
	}
	cliCtx.cancel()
	_ = cliCtx.Logger.Sync()
	if cliCtx.components == nil {
		return nil
	}
	return cliCtx.components.Close()
}

// initConfig loads configuration with priority: flags > env > file > defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	searchPaths := []string{"./hmoment.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".hmoment", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/hmoment/config.yaml")

	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.Load(p)
		}
	}
	return config.LoadFromEnv()
}

// initLogger creates a console logger on stderr so stdout carries only
// command output. --log-level and --verbose override the file setting.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := opts.LogLevel
	if level == "" {
		level = cfg.Log.Level
	}
	if opts.Verbose {
		level = logging.LevelDebug
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// GetCLIContext extracts CLIContext from a cobra command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.Internal("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.Internal("CLIContext not found in command context")
	}
	return cliCtx, nil
}

// Execute is the main entry point for the CLI application.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		PrintError(rootCmd, err)
		return err
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Output
// ─────────────────────────────────────────────────────────────────────────────

// tableProvider is implemented by results that render as a table.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// textProvider is implemented by results with a human-readable rendering.
type textProvider interface {
	WriteText(w io.Writer)
}

// PrintResult outputs data in the format selected by --output.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := OutputJSON
	if cliCtx, err := GetCLIContext(cmd); err == nil {
		format = cliCtx.OutputFormat
	}

	switch format {
	case OutputJSON:
		return printJSON(cmd.OutOrStdout(), data)
	case OutputTable:
		return printTable(cmd.OutOrStdout(), data)
	default:
		return printText(cmd.OutOrStdout(), data)
	}
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case textProvider:
		v.WriteText(w)
	case tableProvider:
		fmt.Fprint(w, FormatTable(v.TableHeaders(), v.TableRows()))
	case string:
		fmt.Fprintln(w, v)
	case fmt.Stringer:
		fmt.Fprintln(w, v.String())
	default:
		fmt.Fprintf(w, "%+v\n", v)
	}
	return nil
}

func printTable(w io.Writer, data interface{}) error {
	if tp, ok := data.(tableProvider); ok {
		fmt.Fprint(w, FormatTable(tp.TableHeaders(), tp.TableRows()))
		return nil
	}
	return printText(w, data)
}

// PrintError writes a formatted error message to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// FormatTable renders headers and rows as an aligned ASCII table.
func FormatTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	var sb strings.Builder
	table := tablewriter.NewWriter(&sb)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, row := range rows {
		padded := make([]string, len(headers))
		copy(padded, row)
		table.Append(padded)
	}
	table.Render()
	return sb.String()
}

//Personal.AI order the ending
