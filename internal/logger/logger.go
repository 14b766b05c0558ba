package logger

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var std *log.Logger

// Init configures the process-wide logger. Call once from main before
// anything else logs.
func Init(appName string, level string) {
	std = log.New(os.Stdout)
	std.SetPrefix(appName)
	std.SetReportTimestamp(true)
	std.SetTimeFormat(time.DateTime)

	switch strings.ToLower(level) {
	case "debug":
		std.SetLevel(log.DebugLevel)
	case "warn":
		std.SetLevel(log.WarnLevel)
	case "error":
		std.SetLevel(log.ErrorLevel)
	default:
		std.SetLevel(log.InfoLevel)
	}
}

func get() *log.Logger {
	if std == nil {
		Init("poipoi", "info")
	}
	return std
}

func Debug(format string, args ...any) {
	get().Debugf(format, args...)
}

func Info(format string, args ...any) {
	get().Infof(format, args...)
}

func Warn(format string, args ...any) {
	get().Warnf(format, args...)
}

func Error(format string, args ...any) {
	get().Errorf(format, args...)
}

func Fatal(format string, args ...any) {
	get().Fatalf(format, args...)
}
