package logger

import "gitlab.com/answer-validator.net/internal/adapter/logging"

// Logger is the process-wide logger used during bootstrap
var Logger = logging.NewZapLogger()

// Configure replaces the global logger, e.g. to enable debug output
func Configure(debug bool) {
	Logger = logging.NewZapLoggerWithLevel(debug)
}

func Info(msg string, args ...interface{}) {
	Logger.Info(msg, args...)
}

func Error(msg string, args ...interface{}) {
	Logger.Error(msg, args...)
}

func Debug(msg string, args ...interface{}) {
	Logger.Debug(msg, args...)
}

func Warn(msg string, args ...interface{}) {
	Logger.Warn(msg, args...)
}
