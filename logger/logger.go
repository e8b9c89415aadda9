package logger

import (
	"io"
	"strings"

	"xrdpsink/build"
	"xrdpsink/logger/hooks"

	"github.com/sirupsen/logrus"
)

// Construct a new global logger with default configuration
func init() {
	global = New(NewConfig())
}

// Global logger with default configuration
var global *logger

// A short-form wrapper around logrus.Fields
type F logrus.Fields

// Common logger interface
type Logger interface {
	WithError(error) *logger
	WithField(string, interface{}) *logger
	WithFields(F) *logger
	Trace(string, ...interface{})
	Debug(string, ...interface{})
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// Logger
type logger struct {
	config Configurer
	entry  *logrus.Entry
	logger *logrus.Logger
}

// Sets up the logger according to configuration
func Setup() { global.Setup() }
func (l *logger) Setup() {
	l.DeleteHooks()
	l.SetLevel(l.config.Level())
	l.ConsoleOutput(l.config.ConsoleOutput())
	l.LogToFile(l.config.LogFile())
	l.SetFormat(l.config.Format())
}

// Removes all hooks from the logger, call this before each setup
func (l *logger) DeleteHooks() {
	for k := range l.logger.Hooks {
		delete(l.logger.Hooks, k)
	}
}

// Set the log level of the logger
func SetLevel(lvl string) { global.SetLevel(lvl) }
func (l *logger) SetLevel(lvl string) {
	switch strings.ToLower(lvl) {
	case "trace":
		l.logger.SetLevel(logrus.TraceLevel)
	case "debug":
		l.logger.SetLevel(logrus.DebugLevel)
	case "warn":
		l.logger.SetLevel(logrus.WarnLevel)
	case "error":
		l.logger.SetLevel(logrus.ErrorLevel)
	default:
		l.logger.SetLevel(logrus.InfoLevel)
	}
}

// Enable or disable console output
func ConsoleOutput(enable bool) { global.ConsoleOutput(enable) }
func (l *logger) ConsoleOutput(enable bool) {
	l.logger.Out = io.Discard
	if enable {
		l.logger.Hooks.Add(hooks.NewConsoleHook())
	}
}

// Log to a file
func LogToFile(path string) { global.LogToFile(path) }
func (l *logger) LogToFile(path string) {
	if path == "" {
		return
	}
	hook, err := hooks.NewFileHook(path)
	if err != nil {
		l.WithError(err).Error("unable to open log file %s", path)
		return
	}
	l.logger.Hooks.Add(hook)
}

// Set the format of the logger
func SetFormat(fmt string) { global.SetFormat(fmt) }
func (l *logger) SetFormat(fmt string) {
	switch fmt {
	case "json":
		l.logger.Formatter = &logrus.JSONFormatter{}
	default:
		l.logger.Formatter = &logrus.TextFormatter{
			FullTimestamp: true,
		}
	}
}

// Log a field and value
func WithField(k string, v interface{}) *logger { return global.WithField(k, v) }
func (l *logger) WithField(k string, v interface{}) *logger {
	return l.with(l.entry.WithField(k, v))
}

// Log with multiple fields
func WithFields(fields F) *logger { return global.WithFields(fields) }
func (l *logger) WithFields(fields F) *logger {
	return l.with(l.entry.WithFields(logrus.Fields(fields)))
}

// Log an error
func WithError(err error) *logger { return global.WithError(err) }
func (l *logger) WithError(err error) *logger {
	return l.with(l.entry.WithError(err))
}

func (l *logger) with(entry *logrus.Entry) *logger {
	return &logger{
		config: l.config,
		entry:  entry,
		logger: l.logger,
	}
}

// Tags every entry with the emitting part of the sink
func Component(name string) *logger { return global.WithField("component", name) }

// Log a per frame message, only shown at trace level
func Trace(msg string, v ...interface{}) { global.Trace(msg, v...) }
func (l *logger) Trace(msg string, v ...interface{}) {
	l.entry.Tracef(msg, v...)
}

// Log a debug message
func Debug(msg string, v ...interface{}) { global.Debug(msg, v...) }
func (l *logger) Debug(msg string, v ...interface{}) {
	l.entry.Debugf(msg, v...)
}

// Log an info message
func Info(msg string, v ...interface{}) { global.Info(msg, v...) }
func (l *logger) Info(msg string, v ...interface{}) {
	l.entry.Infof(msg, v...)
}

// Log a warning message
func Warn(msg string, v ...interface{}) { global.Warn(msg, v...) }
func (l *logger) Warn(msg string, v ...interface{}) {
	l.entry.Warnf(msg, v...)
}

// Log an error message
func Error(msg string, v ...interface{}) { global.Error(msg, v...) }
func (l *logger) Error(msg string, v ...interface{}) {
	l.entry.Errorf(msg, v...)
}

// Exported logger constructor, requiring a config type that
// implements the config interface
func New(config Configurer) *logger {
	log := logrus.New()
	l := &logger{
		config: config,
		logger: log,
		entry: logrus.NewEntry(log).WithFields(logrus.Fields{
			"version": build.Version(),
		}),
	}
	l.Setup()
	return l
}

// Update the global logger to a different logger
func SetGlobalLogger(l *logger) {
	global = l
}
