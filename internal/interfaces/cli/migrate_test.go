package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hydromoment/internal/bootstrap"
	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/internal/testutil"
	"github.com/turtacn/hydromoment/pkg/errors"
)

const postgresConfigYAML = `
log:
  level: error
postgres:
  enabled: true
  host: db.internal
  database: hmoment
`

// fakeMigrator records calls and keeps a schema version.
type fakeMigrator struct {
	version uint
	ups     int
	steps   []int
	cfg     config.PostgresConfig
	err     error
}

func stubMigrator(t *testing.T, f *fakeMigrator) {
	t.Helper()
	up, down, status, build := migrateUp, migrateDown, migrateStatus, buildComponents
	t.Cleanup(func() {
		migrateUp, migrateDown, migrateStatus, buildComponents = up, down, status, build
	})

	migrateUp = func(cfg config.PostgresConfig, _ logging.Logger) error {
		f.cfg = cfg
		f.ups++
		if f.err != nil {
			return f.err
		}
		f.version = 1
		return nil
	}
	migrateDown = func(cfg config.PostgresConfig, steps int) error {
		f.steps = append(f.steps, steps)
		if steps <= 0 {
			return errors.InvalidParam("steps must be positive")
		}
		f.version = 0
		return nil
	}
	migrateStatus = func(config.PostgresConfig) (uint, bool, error) {
		return f.version, false, nil
	}
	buildComponents = func(context.Context, *config.Config, logging.Logger) (*bootstrap.Components, error) {
		t.Fatal("migrate must not build components")
		return nil, nil
	}
}

func runMigrateCLI(t *testing.T, cfgYAML string, args ...string) (string, error) {
	t.Helper()
	path := testutil.WriteFile(t, "hmoment.yaml", cfgYAML)
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", path, "--no-color"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrate_Up(t *testing.T) {
	f := &fakeMigrator{}
	stubMigrator(t, f)

	out, err := runMigrateCLI(t, postgresConfigYAML, "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, 1, f.ups)
	assert.Equal(t, "db.internal", f.cfg.Host)
	assert.Equal(t, "schema version 1\n", out)
}

func TestMigrate_UpFailure(t *testing.T) {
	f := &fakeMigrator{err: errors.New(errors.ErrCodeDatabaseError, "failed to run migrations")}
	stubMigrator(t, f)

	_, err := runMigrateCLI(t, postgresConfigYAML, "migrate", "up")
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func TestMigrate_DownAndStatus(t *testing.T) {
	f := &fakeMigrator{version: 1}
	stubMigrator(t, f)

	out, err := runMigrateCLI(t, postgresConfigYAML, "-o", "json", "migrate", "status")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": 1, "dirty": false}`, out)

	out, err = runMigrateCLI(t, postgresConfigYAML, "migrate", "down", "--steps", "1")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, f.steps)
	assert.Equal(t, "schema version 0\n", out)

	_, err = runMigrateCLI(t, postgresConfigYAML, "migrate", "down", "--steps", "0")
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestMigrate_RequiresPostgres(t *testing.T) {
	stubMigrator(t, &fakeMigrator{})

	_, err := runMigrateCLI(t, testConfig, "migrate", "status")
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestSchemaVersion_String(t *testing.T) {
	assert.Equal(t, "schema version 3 (dirty)", schemaVersion{Version: 3, Dirty: true}.String())
}

//Personal.AI order the ending
