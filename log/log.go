// Package log provides logging utilities.
package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log level constants.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
	LevelFatal = "fatal"
)

var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	NameKey:        "name",
	CallerKey:      "caller",
	MessageKey:     "message",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalColorLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.SecondsDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Default borrows logging utilities from zap.
// You may replace it with whatever logger you like as long as it implements
// the log.Logger interface.
var Default Logger = zap.New(
	zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		zapLevel,
	),
	zap.AddCaller(),
	zap.AddCallerSkip(1),
).Sugar()

// SetLevel sets the log level to the specified level.
// Valid levels are: "debug", "info", "warn", "error", "fatal".
func SetLevel(level string) {
	switch level {
	case LevelDebug:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case LevelInfo:
		zapLevel.SetLevel(zapcore.InfoLevel)
	case LevelWarn:
		zapLevel.SetLevel(zapcore.WarnLevel)
	case LevelError:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	case LevelFatal:
		zapLevel.SetLevel(zapcore.FatalLevel)
	default:
		zapLevel.SetLevel(zapcore.InfoLevel)
	}
}

// Logger defines the logging interface used throughout voyager.
type Logger interface {
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
}

// Debug logs a message at debug level using the default logger.
func Debug(args ...any) { Default.Debug(args...) }

// Debugf logs a formatted message at debug level using the default logger.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

// Info logs a message at info level using the default logger.
func Info(args ...any) { Default.Info(args...) }

// Infof logs a formatted message at info level using the default logger.
func Infof(format string, args ...any) { Default.Infof(format, args...) }

// Warn logs a message at warn level using the default logger.
func Warn(args ...any) { Default.Warn(args...) }

// Warnf logs a formatted message at warn level using the default logger.
func Warnf(format string, args ...any) { Default.Warnf(format, args...) }

// Error logs a message at error level using the default logger.
func Error(args ...any) { Default.Error(args...) }

// Errorf logs a formatted message at error level using the default logger.
func Errorf(format string, args ...any) { Default.Errorf(format, args...) }

// Fatal logs a message at fatal level using the default logger.
func Fatal(args ...any) { Default.Fatal(args...) }

// Fatalf logs a formatted message at fatal level using the default logger.
func Fatalf(format string, args ...any) { Default.Fatalf(format, args...) }
