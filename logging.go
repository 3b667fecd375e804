package main

import "github.com/sirupsen/logrus"

// Logger is the injected logging seam every component takes a handle to:
// no process-wide singleton, a concrete no-op default, and a logrus-backed
// implementation for hosts that want structured output.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NoopLogger discards everything. It is the default handed to any
// component constructed without an explicit Logger.
type NoopLogger struct{}

func (NoopLogger) Debugf(string, ...interface{}) {}
func (NoopLogger) Infof(string, ...interface{})  {}
func (NoopLogger) Warnf(string, ...interface{})  {}
func (NoopLogger) Errorf(string, ...interface{}) {}

// LogrusLogger adapts *logrus.Logger to the Logger interface.
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger wraps l, attaching a "component" field so log lines from
// the atmosphere, winds, IC solver and trim engine are distinguishable.
func NewLogrusLogger(l *logrus.Logger, component string) *LogrusLogger {
	if l == nil {
		l = logrus.New()
	}
	return &LogrusLogger{entry: l.WithField("component", component)}
}

func (g *LogrusLogger) Debugf(format string, args ...interface{}) { g.entry.Debugf(format, args...) }
func (g *LogrusLogger) Infof(format string, args ...interface{})  { g.entry.Infof(format, args...) }
func (g *LogrusLogger) Warnf(format string, args ...interface{})  { g.entry.Warnf(format, args...) }
func (g *LogrusLogger) Errorf(format string, args ...interface{}) { g.entry.Errorf(format, args...) }

// logError logs err through logger, if non-nil, and returns err unchanged
// so call sites can write `return logError(logger, err)`. Only errors
// returned through it get a log record.
func logError(logger Logger, err error) error {
	if err != nil && logger != nil {
		logger.Errorf("%v", err)
	}
	return err
}
