package logsvc

import (
	"log"

	"github.com/trezcool/darasa/core"
)

// StdLogger writes everything to a standard library logger. It is the
// development and test logger; production wires RollbarLogger instead.
type StdLogger struct {
	std *log.Logger
}

var _ core.Logger = (*StdLogger)(nil)

func NewStdLogger(std *log.Logger) *StdLogger {
	return &StdLogger{std: std}
}

func (l StdLogger) Enable(bool) {}

func (l StdLogger) print(lvl, msg string, err error, args []interface{}) {
	l.std.Printf("%s: %s", lvl, msg)
	if err != nil {
		l.std.Printf("%+v", err)
	}
	for _, arg := range args {
		l.std.Printf("%+v", arg)
	}
}

func (l StdLogger) Debug(msg string, args ...interface{}) {
	l.print("DEBUG", msg, nil, args)
}

func (l StdLogger) Info(msg string, args ...interface{}) {
	l.print("INFO", msg, nil, args)
}

func (l StdLogger) Warn(msg string, args ...interface{}) {
	l.print("WARN", msg, nil, args)
}

func (l StdLogger) Error(msg string, err error, args ...interface{}) {
	l.print("ERROR", msg, err, args)
}

func (l StdLogger) Critical(msg string, err error, args ...interface{}) {
	l.print("CRITICAL", msg, err, args)
}

func (l StdLogger) Fatal(msg string, err error, args ...interface{}) {
	l.print("CRITICAL", msg, err, args)
	l.std.Fatal(msg)
}
