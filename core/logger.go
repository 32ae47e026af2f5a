package core

// Logger is any service that can log messages at the usual levels.
// Error implementations are expected to report to an external tracker in production.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, err error, args ...interface{})
	Critical(msg string, err error, args ...interface{})
	Fatal(msg string, err error, args ...interface{})
}
