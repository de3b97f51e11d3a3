// Package observability defines the logging hook used by the go-pluralkit
// client. The client logs request lifecycle events, rate-limit delays, and
// schema-drift warnings through the Logger interface; by default everything
// is discarded. Plug in Zerolog (or your own implementation) to see them.
package observability

// Field is a structured logging key-value pair.
type Field struct {
	Key   string
	Value any
}

// Logger receives diagnostic events from the client.
type Logger interface {
	// Debug logs request lifecycle details (URLs, durations, delays).
	Debug(msg string, fields ...Field)

	// Warn logs recoverable oddities, such as unknown keys in an API
	// response or a server-side 429.
	Warn(msg string, fields ...Field)

	// Error logs failed requests.
	Error(msg string, fields ...Field)

	// With returns a logger that attaches the given fields to every
	// subsequent event.
	With(fields ...Field) Logger
}

type noopLogger struct{}

// NoopLogger returns a Logger that discards everything. It is the default
// when no logger is configured.
//
//nolint:ireturn // Factory returns the interface by design
func NoopLogger() Logger { return noopLogger{} }

func (noopLogger) Debug(string, ...Field) {}
func (noopLogger) Warn(string, ...Field)  {}
func (noopLogger) Error(string, ...Field) {}

//nolint:ireturn // Satisfies Logger
func (l noopLogger) With(...Field) Logger { return l }
