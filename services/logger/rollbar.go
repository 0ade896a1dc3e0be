// Package logsvc implements core.Logger on top of a std logger, reporting to rollbar when enabled.
package logsvc

import (
	"log"
	"net/http"
	"reflect"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/akademi/core"
)

// RollbarLogger prints through a std logger and reports to rollbar when enabled.
// Debug messages are only printed in debug mode.
type RollbarLogger struct {
	std   *log.Logger
	debug bool
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetEnabled(!conf.Debug && !conf.TestMode && conf.RollbarToken != "")
	return &RollbarLogger{std: std, debug: conf.Debug}
}

// Named returns a logger writing to the same output with another prefix, e.g. "DB : ".
func (l *RollbarLogger) Named(prefix string) *RollbarLogger {
	return &RollbarLogger{std: log.New(l.std.Writer(), prefix, l.std.Flags()), debug: l.debug}
}

// Close waits for the pending rollbar reports to be sent.
func (l *RollbarLogger) Close() {
	rollbar.Wait()
}

// args: error, *http.Request, and maps used as extras (map[string]int and the like are converted).
func (l *RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	prepared := make([]interface{}, 0, len(args)+1)
	prepared = append(prepared, msg)
	for _, arg := range args {
		prepared = append(prepared, extras(arg))
	}
	return prepared
}

func extras(arg interface{}) interface{} {
	if _, ok := arg.(map[string]interface{}); ok {
		return arg
	}
	v := reflect.ValueOf(arg)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return arg
	}
	m := make(map[string]interface{}, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m
}

func (l *RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		if req, ok := arg.(*http.Request); ok {
			l.std.Printf("%s %s\n", req.Method, req.URL.RequestURI())
			continue
		}
		l.std.Printf("%+v\n", arg)
	}
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	if !l.debug {
		return
	}
	rollbar.Debug(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	rollbar.Info(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	rollbar.Warning(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	rollbar.Error(l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	rollbar.Critical(l.prepare(msg, args)...)
	l.print(msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
