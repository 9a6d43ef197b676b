// Package logger defines the structured logging contract for the GRC policy
// core. Implementations live in the infrastructure layer; domain and
// application code depend only on this interface.
package logger

import "context"

// Fields is a map of structured logging fields.
type Fields map[string]interface{}

// Logger defines the interface for context-aware structured logging.
// Logger 定义了上下文感知的结构化日志接口。
type Logger interface {
	// Debug logs a debug message.
	Debug(ctx context.Context, msg string, fields ...Fields)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, fields ...Fields)

	// Warn logs a warning message.
	Warn(ctx context.Context, msg string, fields ...Fields)

	// Error logs an error message with its cause.
	Error(ctx context.Context, msg string, err error, fields ...Fields)

	// Fatal logs a fatal message and terminates the process.
	Fatal(ctx context.Context, msg string, err error, fields ...Fields)

	// WithFields returns a logger that always carries the given fields.
	WithFields(fields Fields) Logger

	// WithComponent returns a logger tagged with a component name.
	WithComponent(component string) Logger
}
