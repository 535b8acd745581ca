// Package testutil provides common test utilities for hydromoment.
package testutil

import (
	"context"
	"sync"

	"github.com/turtacn/hydromoment/internal/infrastructure/monitoring/logging"
)

// MockLogger implements logging.Logger for testing purposes.
// It records log messages and can be used to verify logging behavior.
// Children created by With, WithError, WithContext and Named share the
// parent's message buffer and prepend their bound fields.
type MockLogger struct {
	sink  *sink
	bound []logging.Field
	name  string
}

type sink struct {
	mu       sync.Mutex
	messages []LogMessage
}

// LogMessage represents a single log entry captured by MockLogger.
type LogMessage struct {
	Level   string
	Logger  string
	Message string
	Fields  []logging.Field
}

// Field returns the value of the last field named key, if present.
func (lm LogMessage) Field(key string) (interface{}, bool) {
	for i := len(lm.Fields) - 1; i >= 0; i-- {
		if lm.Fields[i].Key == key {
			return lm.Fields[i].Value, true
		}
	}
	return nil, false
}

// NewMockLogger creates a new MockLogger instance.
func NewMockLogger() *MockLogger {
	return &MockLogger{sink: &sink{}}
}

func (m *MockLogger) log(level, msg string, fields []logging.Field) {
	all := make([]logging.Field, 0, len(m.bound)+len(fields))
	all = append(all, m.bound...)
	all = append(all, fields...)

	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.messages = append(m.sink.messages, LogMessage{
		Level:   level,
		Logger:  m.name,
		Message: msg,
		Fields:  all,
	})
}

func (m *MockLogger) child(fields ...logging.Field) *MockLogger {
	bound := make([]logging.Field, 0, len(m.bound)+len(fields))
	bound = append(bound, m.bound...)
	bound = append(bound, fields...)
	return &MockLogger{sink: m.sink, bound: bound, name: m.name}
}

func (m *MockLogger) Debug(msg string, fields ...logging.Field) { m.log("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...logging.Field)  { m.log("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...logging.Field)  { m.log("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...logging.Field) { m.log("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...logging.Field) { m.log("fatal", msg, fields) }

func (m *MockLogger) With(fields ...logging.Field) logging.Logger {
	return m.child(fields...)
}

func (m *MockLogger) WithError(err error) logging.Logger {
	if err == nil {
		return m
	}
	return m.child(logging.Err(err))
}

func (m *MockLogger) WithContext(ctx context.Context) logging.Logger {
	if id := logging.RunIDFromContext(ctx); id != "" {
		return m.child(logging.RunID(id))
	}
	return m
}

func (m *MockLogger) Named(name string) logging.Logger {
	c := m.child()
	if c.name != "" {
		c.name += "." + name
	} else {
		c.name = name
	}
	return c
}

func (m *MockLogger) Sync() error {
	return nil
}

// GetMessages returns a copy of all logged messages.
func (m *MockLogger) GetMessages() []LogMessage {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	result := make([]LogMessage, len(m.sink.messages))
	copy(result, m.sink.messages)
	return result
}

// Clear removes all logged messages.
func (m *MockLogger) Clear() {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	m.sink.messages = m.sink.messages[:0]
}

// HasMessage checks if a message with the given level and content was logged.
func (m *MockLogger) HasMessage(level, msg string) bool {
	_, ok := m.Find(level, msg)
	return ok
}

// Find returns the first message with the given level and content.
func (m *MockLogger) Find(level, msg string) (LogMessage, bool) {
	m.sink.mu.Lock()
	defer m.sink.mu.Unlock()
	for _, logged := range m.sink.messages {
		if logged.Level == level && logged.Message == msg {
			return logged, true
		}
	}
	return LogMessage{}, false
}

//Personal.AI order the ending
