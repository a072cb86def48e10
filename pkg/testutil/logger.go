package testutil

import (
	"context"
	"sync"

	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
)

// MockLogger captures log entries for assertions. It is safe for concurrent use.
type MockLogger struct {
	mu   sync.Mutex
	logs []LogEntry
}

// LogEntry is a single captured entry.
type LogEntry struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
}

func (m *MockLogger) Debug(msg string, args ...any) { m.record("debug", msg, args) }
func (m *MockLogger) Info(msg string, args ...any)  { m.record("info", msg, args) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.record("warn", msg, args) }
func (m *MockLogger) Error(msg string, args ...any) { m.record("error", msg, args) }

// With returns the same logger; fields are not carried over.
func (m *MockLogger) With(args ...any) logger.Logger {
	return m
}

func (m *MockLogger) WithContext(ctx context.Context) logger.Logger {
	return m
}

// Entries returns a snapshot of the captured entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry(nil), m.logs...)
}

// Find returns the first entry with the given message.
func (m *MockLogger) Find(msg string) (LogEntry, bool) {
	for _, e := range m.Entries() {
		if e.Msg == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}

func (m *MockLogger) record(level, msg string, args []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, LogEntry{Level: level, Msg: msg, Fields: argsToMap(args)})
}

func argsToMap(args []any) map[string]interface{} {
	fields := make(map[string]interface{})
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	return fields
}
