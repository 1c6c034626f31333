package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// EnvLogLevel names the environment variable holding the default log level.
const EnvLogLevel = "CUPI_LOG"

// Options controls logger construction.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means CUPI_LOG, then warn.
	Level string
	// File enables rotating JSON file output instead of console output on stderr.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ParseLevel maps a textual level to a zap level, falling back to warn.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// New builds a logger together with the atomic level that drives it, so the
// caller can raise verbosity at runtime.
func New(opts Options) (*zap.Logger, zap.AtomicLevel) {
	levelName := opts.Level
	if levelName == "" {
		levelName = os.Getenv(EnvLogLevel)
	}
	level := zap.NewAtomicLevelAt(ParseLevel(levelName))

	var core zapcore.Core
	if opts.File != "" {
		// Setup logger with file rotation (file-only, no console)
		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 2), // megabytes
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 15), // days
			Compress:   true,
		})
		cfg := zap.NewProductionConfig()
		core = zapcore.NewCore(zapcore.NewJSONEncoder(cfg.EncoderConfig), fileWriter, level)
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.Lock(os.Stderr), level)
	}
	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)), level
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
