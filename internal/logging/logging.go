package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New instantiates the process-wide zap logger. Errors go to stderr,
// everything else to stdout.
func New() *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	enc := zapcore.NewConsoleEncoder(encCfg)
	belowError := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.InfoLevel && l < zapcore.ErrorLevel
	})
	core := zapcore.NewTee(
		zapcore.NewCore(enc, os.Stderr, zapcore.ErrorLevel),
		zapcore.NewCore(enc, os.Stdout, belowError),
	)
	return zap.New(core).Sugar()
}
