package main

import (
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// verbosityLevel maps the -v count to a log level: warnings only by
// default, -v adds progress, -vv adds per-table and per-statement detail.
func verbosityLevel(verbose int) zapcore.Level {
	switch {
	case verbose <= 0:
		return zapcore.WarnLevel
	case verbose == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// newLogger builds the console logger for one run, tagged with a fresh run id.
func newLogger(verbose int) (*zap.Logger, string) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(verbosityLevel(verbose)),
	)
	runID := uuid.NewString()
	return zap.New(core).With(zap.String("run_id", runID)), runID
}
