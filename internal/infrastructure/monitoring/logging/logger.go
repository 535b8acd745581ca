// Package logging provides the structured logging interface shared by the
// hmoment CLI and API server, and its zap-backed implementation.  Components
// depend on Logger only; go.uber.org/zap is not imported outside this package.
//
// Start-up order in cmd/*/main.go:
//
//  1. Load configuration.
//  2. Build the logger with NewLogger(cfg.Log) and register it via SetDefault.
//  3. Construct the moment service and adapters, injecting the Logger.
package logging

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	apperrors "github.com/turtacn/hydromoment/pkg/errors"
)

// Accepted values for LogConfig.Level.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// Field
// ─────────────────────────────────────────────────────────────────────────────

// Field is a typed key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// String constructs a Field with a string value.
func String(key, val string) Field { return Field{Key: key, Value: val} }

// Int constructs a Field with an int value.
func Int(key string, val int) Field { return Field{Key: key, Value: val} }

// Int64 constructs a Field with an int64 value.
func Int64(key string, val int64) Field { return Field{Key: key, Value: val} }

// Float64 constructs a Field with a float64 value.
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }

// Bool constructs a Field with a bool value.
func Bool(key string, val bool) Field { return Field{Key: key, Value: val} }

// Duration constructs a Field with a time.Duration value.
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }

// Any constructs a Field with an arbitrary value.
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }

// Err records err under the key "error". A nil error is logged as "<nil>".
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err.Error()}
}

// ── Domain keys ──────────────────────────────────────────────────────────────

// Scale records the hydrophobicity scale name.
func Scale(name string) Field { return String("scale", name) }

// Radius records the neighbourhood radius.
func Radius(r float64) Field { return Float64("radius", r) }

// RunID records the identifier of a moment computation run.
func RunID(id string) Field { return String("run_id", id) }

// ─────────────────────────────────────────────────────────────────────────────
// Logger
// ─────────────────────────────────────────────────────────────────────────────

// Logger is the structured logging contract injected into every component.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Fatal logs at FATAL level and terminates the process.  Only main
	// packages may call it.
	Fatal(msg string, fields ...Field)

	// With returns a child Logger carrying fields on every entry.
	With(fields ...Field) Logger

	// WithError attaches err and, for AppErrors, its code.  A nil err
	// returns the receiver.
	WithError(err error) Logger

	// WithContext returns a child Logger tagged with the run id stored in
	// ctx, if any.
	WithContext(ctx context.Context) Logger

	// Named appends name to the logger name ("hmoment" → "hmoment.http").
	Named(name string) Logger

	// Sync flushes buffered entries.
	Sync() error
}

type runIDKey struct{}

// ContextWithRunID stores a run id in ctx for WithContext to pick up.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run id stored in ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// ─────────────────────────────────────────────────────────────────────────────
// LogConfig
// ─────────────────────────────────────────────────────────────────────────────

// LogConfig carries the parameters used to build a Logger.  It is filled from
// the "log" section of the configuration file.
type LogConfig struct {
	// Level is one of debug, info, warn, error (case-insensitive).  Unknown
	// values fall back to info.
	Level string `mapstructure:"level" yaml:"level" json:"level"`

	// Format is "json" or "console".  Anything else selects json.
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// OutputPaths lists sinks; "stdout" and "stderr" are special.  A nil slice
	// means stderr, keeping stdout free for command output.  An empty non-nil
	// slice is rejected.
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths" json:"output_paths"`

	// ErrorOutputPaths receives zap's internal errors.  Defaults to stderr.
	ErrorOutputPaths []string `mapstructure:"error_output_paths" yaml:"error_output_paths" json:"error_output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// zapLogger
// ─────────────────────────────────────────────────────────────────────────────

type zapLogger struct {
	z     *zap.Logger
	level *zap.AtomicLevel // nil for loggers wrapping an external core
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case int64:
			out = append(out, zap.Int64(f.Key, v))
		case float64:
			out = append(out, zap.Float64(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZapFields(fields)...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, toZapFields(fields)...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(toZapFields(fields)...), level: l.level}
}

func (l *zapLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	fields := []Field{Err(err)}
	if code := apperrors.GetCode(err); code != apperrors.CodeUnknown {
		fields = append(fields, String("error_code", code.String()))
	}
	return l.With(fields...)
}

func (l *zapLogger) WithContext(ctx context.Context) Logger {
	if id := RunIDFromContext(ctx); id != "" {
		return l.With(RunID(id))
	}
	return l
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name), level: l.level}
}

func (l *zapLogger) Sync() error {
	return l.z.Sync()
}

// ParseLevel converts a level name to a zapcore.Level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn, "warning":
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger builds a zap-backed Logger from cfg.
func NewLogger(cfg LogConfig) (Logger, error) {
	if cfg.OutputPaths == nil {
		cfg.OutputPaths = []string{"stderr"}
	}
	if len(cfg.OutputPaths) == 0 {
		return nil, fmt.Errorf("logging: at least one output path is required")
	}
	if len(cfg.ErrorOutputPaths) == 0 {
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	console := strings.EqualFold(cfg.Format, "console")
	encCfg := zap.NewProductionEncoderConfig()
	encoding := "json"
	if console {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoding = "console"
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))
	zapCfg := zap.Config{
		Level:            level,
		Development:      console,
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}

	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	return &zapLogger{z: z, level: &level}, nil
}

// SetLevel changes the level of l and every logger derived from the same
// NewLogger call. It reports false when l has no adjustable level.
func SetLevel(l Logger, level string) bool {
	zl, ok := l.(*zapLogger)
	if !ok || zl.level == nil {
		return false
	}
	zl.level.SetLevel(ParseLevel(level))
	return true
}

// NewDevelopmentLogger returns a console logger at debug level on stderr.
func NewDevelopmentLogger() Logger {
	l, err := NewLogger(LogConfig{Level: LevelDebug, Format: "console"})
	if err != nil {
		return NewNopLogger()
	}
	return l
}

// NewLoggerFromCore wraps an existing zapcore.Core; used with observed cores
// in tests.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{z: zap.New(core, zap.AddCallerSkip(1))}
}

// LogOperationDuration logs the time elapsed since start at info level, or at
// warn level once it exceeds slowOperationThreshold.
func LogOperationDuration(l Logger, op string, start time.Time, fields ...Field) {
	elapsed := time.Since(start)
	fields = append(fields, String("operation", op), Int64("duration_ms", elapsed.Milliseconds()))
	if elapsed > slowOperationThreshold {
		l.Warn("slow operation", fields...)
		return
	}
	l.Info("operation completed", fields...)
}

const slowOperationThreshold = 5 * time.Second

// ─────────────────────────────────────────────────────────────────────────────
// nopLogger
// ─────────────────────────────────────────────────────────────────────────────

type nopLogger struct{}

func (nopLogger) Debug(_ string, _ ...Field)             {}
func (nopLogger) Info(_ string, _ ...Field)              {}
func (nopLogger) Warn(_ string, _ ...Field)              {}
func (nopLogger) Error(_ string, _ ...Field)             {}
func (nopLogger) Fatal(_ string, _ ...Field)             {}
func (n nopLogger) With(_ ...Field) Logger               { return n }
func (n nopLogger) WithError(_ error) Logger             { return n }
func (n nopLogger) WithContext(_ context.Context) Logger { return n }
func (n nopLogger) Named(_ string) Logger                { return n }
func (nopLogger) Sync() error                            { return nil }

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

// ─────────────────────────────────────────────────────────────────────────────
// Process-wide default
// ─────────────────────────────────────────────────────────────────────────────

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// SetDefault replaces the process-wide Logger.  Nil is ignored.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide Logger.  Prefer constructor injection.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

//Personal.AI order the ending
