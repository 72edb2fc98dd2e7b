package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where and how much the logger writes
type Options struct {
	// Dir holds the JSON log files. Defaults to "logs".
	Dir string
	// ConsoleLevel is the minimum level echoed to Console. Defaults to Info.
	ConsoleLevel zapcore.Level
	// Console receives human-readable output. Defaults to stdout.
	Console io.Writer
}

// Option mutates Options
type Option func(*Options)

// WithDir writes log files to dir
func WithDir(dir string) Option {
	return func(o *Options) { o.Dir = dir }
}

// WithConsoleLevel sets the console threshold. The interactive editor raises it to Warn
// so request logging does not interleave with the form.
func WithConsoleLevel(level zapcore.Level) Option {
	return func(o *Options) { o.ConsoleLevel = level }
}

// WithConsole redirects console output
func WithConsole(w io.Writer) Option {
	return func(o *Options) { o.Console = w }
}

// InitLogger initializes a zap logger with console and file outputs
// env is used to prefix the log file name
func InitLogger(env string, opts ...Option) (*zap.Logger, error) {
	o := Options{
		Dir:          "logs",
		ConsoleLevel: zapcore.InfoLevel,
		Console:      os.Stdout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(o.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	if env == "" {
		env = "default"
	}
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logFileName := filepath.Join(o.Dir, fmt.Sprintf("%s_%s.log", env, timestamp))
	logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Console at the configured level, file always at Debug
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), zapcore.AddSync(o.Console), o.ConsoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("env", env))

	return logger, nil
}
