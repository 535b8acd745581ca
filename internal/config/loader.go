package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix for every setting.
const envPrefix = "HMOMENT"

// configKeys lists every leaf key so that AutomaticEnv can resolve
// HMOMENT_* variables for keys absent from the config file.
var configKeys = []string{
	"moment.radius", "moment.radius_min", "moment.radius_max", "moment.scale",
	"moment.distance_mode", "moment.workers", "moment.rsa_threshold", "moment.acc_array",
	"moment.max_residues",
	"server.host", "server.port", "server.read_timeout", "server.write_timeout",
	"server.shutdown_timeout", "server.max_body_size", "server.cors_origins",
	"server.rate_limit", "server.rate_limit_burst",
	"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout", "redis.default_ttl",
	"redis.key_prefix",
	"minio.enabled", "minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket",
	"minio.region", "minio.use_ssl", "minio.presign_expiry", "minio.retention_days",
	"kafka.enabled", "kafka.brokers", "kafka.client_id", "kafka.request_topic", "kafka.event_topic",
	"kafka.dead_letter_topic", "kafka.group_id", "kafka.acks", "kafka.compression", "kafka.max_retries",
	"kafka.replication_factor", "kafka.sasl_mechanism", "kafka.sasl_username", "kafka.sasl_password",
	"postgres.enabled", "postgres.host", "postgres.port", "postgres.database", "postgres.username",
	"postgres.password", "postgres.ssl_mode", "postgres.max_conns", "postgres.min_conns",
	"postgres.max_conn_lifetime", "postgres.max_conn_idle_time", "postgres.statement_timeout",
	"postgres.skip_migrations",
	"metrics.enabled", "metrics.namespace", "metrics.subsystem", "metrics.path",
	"log.level", "log.format",
}

// newViper builds a Viper instance reading YAML, with HMOMENT_ env binding and
// a "." → "_" key replacer so "redis.addr" resolves to HMOMENT_REDIS_ADDR.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range configKeys {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at configPath, merges HMOMENT_* overrides, applies
// defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromFile is Load with an empty path falling back to LoadFromEnv.
func LoadFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

// LoadFromEnv builds a Config from HMOMENT_* variables and defaults only.
//
//	HMOMENT_<SECTION>_<FIELD>   e.g.  HMOMENT_MOMENT_RADIUS, HMOMENT_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch re-reads configPath whenever it changes on disk and passes the new
// Config to onChange.  A change that fails to parse or validate is reported
// to onError (if non-nil) and onChange is not called.  Only the log level is
// safe to apply at runtime.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad wraps Load and panics on error.  Use only from main().
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
