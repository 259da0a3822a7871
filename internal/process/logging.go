// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package process

import (
	"os"
	"runtime"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig configures the process logger.
type LogConfig struct {
	Level       string
	Development bool
	Caller      bool
	Stack       bool
	Encoding    string
	Output      string
}

var logConfig LogConfig

func registerLogFlags(flags *pflag.FlagSet) {
	flags.StringVar(&logConfig.Level, "log.level", "info", "the minimum log level to log")
	flags.BoolVar(&logConfig.Development, "log.development", false, "if true, set logging to development mode")
	flags.BoolVar(&logConfig.Caller, "log.caller", false, "if true, log function filename and line number")
	flags.BoolVar(&logConfig.Stack, "log.stack", false, "if true, log stack traces")
	flags.StringVar(&logConfig.Encoding, "log.encoding", "console", "configures log encoding. can either be 'console' or 'json'")
	flags.StringVar(&logConfig.Output, "log.output", "stderr", "can be stdout, stderr, or a filename")
}

// NewLogger creates new logger configured by the process flags.
func NewLogger() (*zap.Logger, error) {
	return logConfig.NewLogger()
}

// NewLogger creates a logger from config.
func (config LogConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, Error.Wrap(err)
	}

	levelEncoder := zapcore.CapitalColorLevelEncoder
	if runtime.GOOS == "windows" || config.Encoding == "json" || config.Output != "stderr" {
		levelEncoder = zapcore.CapitalLevelEncoder
	}

	timeKey := "T"
	if os.Getenv("KMERDECON_LOG_NOTIME") != "" {
		// using environment variable KMERDECON_LOG_NOTIME to avoid additional flags
		timeKey = ""
	}

	logger, err := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       config.Development,
		DisableCaller:     !config.Caller,
		DisableStacktrace: !config.Stack,
		Encoding:          config.Encoding,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        timeKey,
			LevelKey:       "L",
			NameKey:        "N",
			CallerKey:      "C",
			MessageKey:     "M",
			StacktraceKey:  "S",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    levelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{config.Output},
		ErrorOutputPaths: []string{config.Output},
	}.Build()
	return logger, Error.Wrap(err)
}
