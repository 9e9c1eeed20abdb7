package logger

import (
	"github.com/vzahanych/openweather-client/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger from the logging section of the configuration.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.OutputPath != "" {
		zapCfg.OutputPaths = []string{cfg.OutputPath}
	}

	return zapCfg.Build()
}

func NewDevelopment() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func NewProduction() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}
