package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	rberrors "github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(rberrors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// expected args: map[string]interface{}, user.User
func (l RollbarLogger) prepare(msg string, err error, args []interface{}) []interface{} {
	var usrSet bool
	newArgs := make([]interface{}, 0, len(args)+2)
	newArgs = append(newArgs, msg)
	if err != nil {
		newArgs = append(newArgs, err)
	}
	for _, arg := range args {
		// set logged in User
		if usr, ok := arg.(user.User); ok {
			if !usrSet { // only set one User
				rollbar.SetPerson(usr.ID, usr.Username, usr.Email)
				usrSet = true
			}
		} else {
			newArgs = append(newArgs, arg)
		}
	}
	if !usrSet {
		rollbar.ClearPerson()
	}
	return newArgs
}

func (l RollbarLogger) print(msg string, err error, args []interface{}) {
	l.std.Println(msg)
	if err != nil {
		l.std.Printf("%+v\n", err)
	}
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	rollbar.Debug(l.prepare(msg, nil, args)...)
	l.print(msg, nil, args)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, nil, args)...)
	l.print(msg, nil, args)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, nil, args)...)
	l.print(msg, nil, args)
}

func (l RollbarLogger) Error(msg string, err error, args ...interface{}) {
	rollbar.Error(l.prepare(msg, err, args)...)
	l.print(msg, err, args)
}

func (l RollbarLogger) Critical(msg string, err error, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, err, args)...)
	l.print(msg, err, args)
}

func (l RollbarLogger) Fatal(msg string, err error, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, err, args)...)
	l.print(msg, err, args)
	l.std.Fatal(msg)
}
