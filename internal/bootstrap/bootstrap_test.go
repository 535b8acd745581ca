package bootstrap

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hydromoment/internal/application/moments"
	"github.com/turtacn/hydromoment/internal/config"
	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hydromoment/internal/testutil"
	"github.com/turtacn/hydromoment/pkg/errors"
)

func TestBuild_NoBackends(t *testing.T) {
	cfg := config.NewDefaultConfig()
	log := testutil.NewMockLogger()

	c, err := Build(context.Background(), cfg, log)
	require.NoError(t, err)
	defer c.Close()

	assert.Empty(t, c.Checkers)
	assert.Nil(t, c.Events)
	require.NotNil(t, c.Service)

	res, err := c.Service.Compute(context.Background(), &moments.Request{Coordinates: testutil.TwoResidueCoords()})
	require.NoError(t, err)
	assert.Len(t, res.Moments, 2)
	assert.False(t, res.Cached)

	_, err = c.Service.Compute(context.Background(), &moments.Request{Coordinates: testutil.TwoResidueCoords(), Archive: true})
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))

	assert.True(t, log.HasMessage("debug", "Components built"))
}

func TestBuild_MetricsEnabled(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.Namespace = "bootstrap_test"

	c, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Service.Compute(context.Background(), &moments.Request{Coordinates: testutil.SurfacePatch()})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.Collector.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `bootstrap_test_moment_runs_total{scale="Kyte_Doolitle",status="success"} 1`)
}

func TestBuild_UnreachableRedis(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Redis.DialTimeout = 200 * time.Millisecond

	_, err := Build(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestBuild_UnreachableKafka(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Kafka.Enabled = true
	cfg.Kafka.Brokers = []string{"127.0.0.1:1"}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Build(ctx, cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestBuild_PostgresMigrationFailureStopsBuild(t *testing.T) {
	orig := runMigrations
	t.Cleanup(func() { runMigrations = orig })

	var got config.PostgresConfig
	runMigrations = func(cfg config.PostgresConfig, _ logging.Logger) error {
		got = cfg
		return errors.New(errors.ErrCodeDatabaseError, "failed to run migrations")
	}

	cfg := config.NewDefaultConfig()
	cfg.Postgres.Enabled = true
	cfg.Postgres.Host = "db.internal"

	_, err := Build(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDatabaseError))
	assert.Equal(t, "db.internal", got.Host)
}

func TestBuild_PostgresSkipMigrationsUnreachable(t *testing.T) {
	orig := runMigrations
	t.Cleanup(func() { runMigrations = orig })
	runMigrations = func(config.PostgresConfig, logging.Logger) error {
		t.Fatal("migrations must be skipped")
		return nil
	}

	cfg := config.NewDefaultConfig()
	cfg.Postgres.Enabled = true
	cfg.Postgres.SkipMigrations = true
	cfg.Postgres.Host = "127.0.0.1"
	cfg.Postgres.Port = 1

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Build(ctx, cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestComponents_CloseIsIdempotent(t *testing.T) {
	calls := 0
	c := &Components{closers: []func() error{func() error { calls++; return nil }}}
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, calls)
}

func TestComponents_CloseJoinsErrors(t *testing.T) {
	var order []string
	c := &Components{closers: []func() error{
		func() error { order = append(order, "first"); return errors.New(errors.ErrCodeCacheError, "cache close failed") },
		func() error { order = append(order, "second"); return errors.New(errors.ErrCodeStorageError, "archive close failed") },
	}}
	err := c.Close()
	require.Error(t, err)
	assert.Equal(t, []string{"second", "first"}, order)
	assert.Contains(t, err.Error(), "cache close failed")
	assert.Contains(t, err.Error(), "archive close failed")
}

//Personal.AI order the ending
