package pkg

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the shared zap instance, initialized once from main.
var Logger *zap.Logger

// InitLogger builds the global logger for the given environment.
func InitLogger(env string) error {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	Logger, err = config.Build()
	return err
}

// SyncLogger flushes any buffered log entries.
func SyncLogger() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// L returns the global logger, falling back to a development logger
// when main has not initialized one (tests mostly).
func L() *zap.Logger {
	if Logger == nil {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	return Logger
}
