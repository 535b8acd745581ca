package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hydromoment/internal/bootstrap"
	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/internal/testutil"
	"github.com/turtacn/hydromoment/pkg/errors"
	htypes "github.com/turtacn/hydromoment/pkg/types/hydropathy"
)

const testConfig = `
log:
  level: error
moment:
  workers: 2
`

// runCLI executes the root command with args and returns stdout and stderr.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := testutil.WriteFile(t, "hmoment.yaml", testConfig)

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", cfgPath, "--no-color"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "hmoment", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"compute", "classify", "scales", "reports", "submit", "runs", "migrate"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}

	for _, flag := range []string{"config", "log-level", "output", "verbose", "no-color", "timeout"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "missing flag %q", flag)
	}
	assert.Equal(t, OutputText, cmd.PersistentFlags().Lookup("output").DefValue)
}

func TestRoot_InvalidOutputFormat(t *testing.T) {
	_, _, err := runCLI(t, "", "-o", "xml", "scales")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestRoot_MissingConfigFile(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", "/nonexistent/hmoment.yaml", "scales"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config initialization failed")
}

func TestRoot_BuildFailurePropagates(t *testing.T) {
	orig := buildComponents
	t.Cleanup(func() { buildComponents = orig })
	buildComponents = func(ctx context.Context, cfg *config.Config, logger logging.Logger) (*bootstrap.Components, error) {
		return nil, errors.New(errors.ErrCodeServiceUnavailable, "redis down")
	}

	_, _, err := runCLI(t, "", "scales")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestGetCLIContext_Missing(t *testing.T) {
	_, err := GetCLIContext(NewScalesCmd())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestPrintError(t *testing.T) {
	cmd := NewRootCommand()
	var stderr bytes.Buffer
	cmd.SetErr(&stderr)

	PrintError(cmd, nil)
	assert.Empty(t, stderr.String())

	PrintError(cmd, errors.InvalidParam("bad radius"))
	assert.Contains(t, stderr.String(), "Error:")
	assert.Contains(t, stderr.String(), "bad radius")
}

func TestFormatTable(t *testing.T) {
	assert.Empty(t, FormatTable(nil, nil))

	out := FormatTable([]string{"Name", "Value"}, [][]string{{"alpha", "1"}, {"beta"}})
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "beta")
	assert.Equal(t, 6, strings.Count(out, "\n"), out)
}

// ─────────────────────────────────────────────────────────────────────────────
// compute
// ─────────────────────────────────────────────────────────────────────────────

const twoResidueYAML = `
ALA1: [0, 0, 0]
GLY2: {x: 3, y: 0, z: 0}
`

func decodeCompute(t *testing.T, out string) htypes.ComputeResponse {
	t.Helper()
	var resp htypes.ComputeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}

func momentFor(t *testing.T, resp htypes.ComputeResponse, residue string) htypes.Moment {
	t.Helper()
	for _, m := range resp.Moments {
		if m.Residue == residue {
			return m
		}
	}
	t.Fatalf("no moment for %s", residue)
	return htypes.Moment{}
}

func TestCompute_JSON(t *testing.T) {
	path := testutil.WriteFile(t, "coords.yaml", twoResidueYAML)

	out, stderr, err := runCLI(t, "", "-o", "json", "compute", "-i", path)
	require.NoError(t, err, stderr)

	resp := decodeCompute(t, out)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Kyte_Doolitle", resp.Parameters.Scale)
	assert.Equal(t, 6.0, resp.Parameters.Radius)
	assert.Equal(t, "truncated", resp.Parameters.DistanceMode)
	assert.NotEmpty(t, resp.RunID)

	ala := momentFor(t, resp, "ALA1")
	assert.InDelta(t, -0.4, ala.Vector[0], 1e-9)
	assert.InDelta(t, 0.7, ala.MeanIndex, 1e-9)
	assert.Equal(t, 2, ala.Neighbors)
	assert.NotContains(t, stderr, "hydropathy moments calculated")
}

func TestCompute_Stdin(t *testing.T) {
	out, _, err := runCLI(t, `{"ALA1": [0, 0, 0], "GLY2": [3, 0, 0]}`,
		"-o", "json", "compute", "-i", "-", "--format", "json", "--scale", "Eisenberg", "--radius", "8")
	require.NoError(t, err)

	resp := decodeCompute(t, out)
	assert.Equal(t, "Eisenberg", resp.Parameters.Scale)
	assert.Equal(t, 8.0, resp.Parameters.Radius)
	assert.Len(t, resp.Moments, 2)
}

func TestCompute_Text(t *testing.T) {
	path := testutil.WriteFile(t, "coords.yaml", twoResidueYAML)

	out, stderr, err := runCLI(t, "", "compute", "-i", path, "-t", "0.3", "--acc", "Miller")
	require.NoError(t, err)

	assert.Contains(t, out, "Input file:\t\t"+path)
	assert.Contains(t, out, "ACC array:\t\tMiller")
	assert.Contains(t, out, "RSA threshold:\t\t0.3")
	assert.Contains(t, out, "Hydrophobicity scale:\tKyte_Doolitle")
	assert.Contains(t, out, "ALA1")
	assert.Contains(t, out, "GLY2")
	assert.Contains(t, stderr, "2 hydropathy moments calculated.")
}

func TestCompute_Table(t *testing.T) {
	path := testutil.WriteFile(t, "coords.json", `{"ALA1": [0, 0, 0]}`)

	out, _, err := runCLI(t, "", "-o", "table", "compute", "-i", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Neighbors")
	assert.Contains(t, out, "ALA1")
}

func TestCompute_Errors(t *testing.T) {
	path := testutil.WriteFile(t, "coords.yaml", twoResidueYAML)

	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"radius out of window", []string{"-i", path, "--radius", "20"}, errors.ErrCodeInvalidRadius},
		{"unknown scale", []string{"-i", path, "--scale", "Nope"}, errors.ErrCodeUnknownScale},
		{"bad distance mode", []string{"-i", path, "--distance-mode", "cubic"}, errors.ErrCodeInvalidDistanceMode},
		{"negative workers", []string{"-i", path, "--workers", "-1"}, errors.ErrCodeBadRequest},
		{"missing file", []string{"-i", path + ".missing"}, errors.ErrCodeInvalidCoordinates},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "", append([]string{"compute"}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestCompute_InputRequired(t *testing.T) {
	_, _, err := runCLI(t, "", "compute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestCompute_ArchiveWithoutBackend(t *testing.T) {
	path := testutil.WriteFile(t, "coords.yaml", twoResidueYAML)
	_, _, err := runCLI(t, "", "compute", "-i", path, "--archive")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

// ─────────────────────────────────────────────────────────────────────────────
// classify / scales / reports
// ─────────────────────────────────────────────────────────────────────────────

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		bucket int
		color  string
	}{
		{"scale maximum", []string{"--value", "4.5"}, 10, "#ff0000"},
		{"scale minimum", []string{"--value", "-4.5"}, 1, "#0000ff"},
		{"explicit range reversed", []string{"--value", "1", "--min", "-1", "--max", "1", "--reversed"}, 10, "#0000ff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runCLI(t, "", append([]string{"-o", "json", "classify"}, tt.args...)...)
			require.NoError(t, err)

			var resp htypes.ClassifyResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, tt.bucket, resp.Bucket)
			assert.Equal(t, tt.color, resp.Color)
			assert.Len(t, resp.Thresholds, 10)
		})
	}
}

func TestClassify_Text(t *testing.T) {
	out, _, err := runCLI(t, "", "classify", "--value", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Range:\t\t[-4.5, 4.5]")
	assert.Contains(t, out, "Bucket:")
}

func TestClassify_MinRequiresMax(t *testing.T) {
	_, _, err := runCLI(t, "", "classify", "--value", "0", "--min", "-1")
	require.Error(t, err)
}

func TestScales(t *testing.T) {
	out, _, err := runCLI(t, "", "-o", "json", "scales")
	require.NoError(t, err)

	var list htypes.ScaleList
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Equal(t, len(list.Scales), list.Total)
	assert.GreaterOrEqual(t, list.Total, 17)

	out, _, err = runCLI(t, "", "-o", "table", "scales", "--values")
	require.NoError(t, err)
	assert.Contains(t, out, "Kyte_Doolitle")
	assert.Contains(t, out, "ALA=1.8")
}

func TestReports_WithoutArchive(t *testing.T) {
	for _, args := range [][]string{
		{"reports", "list"},
		{"reports", "get", "0b6a4c4e-6f0c-4a3c-8f0e-1a2b3c4d5e6f"},
		{"reports", "url", "0b6a4c4e-6f0c-4a3c-8f0e-1a2b3c4d5e6f"},
	} {
		_, _, err := runCLI(t, "", args...)
		require.Error(t, err, args)
		assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable), "%v: %v", args, err)
	}
}

func TestReports_NegativeLimit(t *testing.T) {
	_, _, err := runCLI(t, "", "reports", "list", "--limit", "-1")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

//Personal.AI order the ending
