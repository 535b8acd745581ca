package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/hydromoment/internal/config"
)

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, config.NewDefaultConfig().Validate())
}

func TestConfig_Validate_Failures(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantKey string
	}{
		{"radius below window", func(c *config.Config) { c.Moment.Radius = 3.9 }, "moment.radius"},
		{"radius above window", func(c *config.Config) { c.Moment.Radius = 10.5 }, "moment.radius"},
		{"non-positive radius_min", func(c *config.Config) { c.Moment.RadiusMin = -1 }, "moment.radius_min"},
		{"inverted window", func(c *config.Config) { c.Moment.RadiusMax = 3 }, "moment.radius_max"},
		{"unknown scale", func(c *config.Config) { c.Moment.Scale = "Nope" }, "moment.scale"},
		{"bad distance mode", func(c *config.Config) { c.Moment.DistanceMode = "fuzzy" }, "moment.distance_mode"},
		{"zero workers", func(c *config.Config) { c.Moment.Workers = 0 }, "moment.workers"},
		{"threshold too high", func(c *config.Config) { c.Moment.RSAThreshold = 0.9 }, "moment.rsa_threshold"},
		{"bad acc array", func(c *config.Config) { c.Moment.ACCArray = "Kabsch" }, "moment.acc_array"},
		{"zero max residues", func(c *config.Config) { c.Moment.MaxResidues = 0 }, "moment.max_residues"},
		{"port out of range", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"redis without addr", func(c *config.Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis.addr"},
		{"negative redis db", func(c *config.Config) { c.Redis.DB = -1 }, "redis.db"},
		{"minio without endpoint", func(c *config.Config) { c.MinIO.Enabled = true; c.MinIO.Endpoint = "" }, "minio.endpoint"},
		{"minio without bucket", func(c *config.Config) { c.MinIO.Enabled = true; c.MinIO.Bucket = "" }, "minio.bucket"},
		{"negative rate limit", func(c *config.Config) { c.Server.RateLimit = -1 }, "server.rate_limit"},
		{"rate limit without burst", func(c *config.Config) { c.Server.RateLimit = 5; c.Server.RateLimitBurst = 0 }, "server.rate_limit_burst"},
		{"negative retention", func(c *config.Config) { c.MinIO.RetentionDays = -1 }, "minio.retention_days"},
		{"kafka without brokers", func(c *config.Config) { c.Kafka.Enabled = true; c.Kafka.Brokers = nil }, "kafka.brokers"},
		{"bad kafka acks", func(c *config.Config) { c.Kafka.Acks = "some" }, "kafka.acks"},
		{"bad kafka compression", func(c *config.Config) { c.Kafka.Compression = "brotli" }, "kafka.compression"},
		{"sasl without credentials", func(c *config.Config) { c.Kafka.SASLMechanism = "PLAIN" }, "kafka.sasl_username"},
		{"unknown sasl", func(c *config.Config) { c.Kafka.SASLMechanism = "GSSAPI" }, "kafka.sasl_mechanism"},
		{"postgres without host", func(c *config.Config) { c.Postgres.Enabled = true; c.Postgres.Host = "" }, "postgres.host"},
		{"postgres port out of range", func(c *config.Config) { c.Postgres.Enabled = true; c.Postgres.Port = 0 }, "postgres.port"},
		{"bad ssl mode", func(c *config.Config) { c.Postgres.SSLMode = "maybe" }, "postgres.ssl_mode"},
		{"min conns above max", func(c *config.Config) { c.Postgres.MinConns = 20 }, "min_conns"},
		{"bad log level", func(c *config.Config) { c.Log.Level = "trace" }, "log.level"},
		{"bad log format", func(c *config.Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantKey)
		})
	}
}

func TestConfig_Validate_DisabledBackendsSkipChecks(t *testing.T) {
	t.Parallel()
	cfg := config.NewDefaultConfig()
	cfg.Redis.Addr = ""
	cfg.MinIO.Endpoint = ""
	assert.NoError(t, cfg.Validate())
}

//Personal.AI order the ending
