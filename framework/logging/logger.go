// Package logging builds the application's zap logger from configuration.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/km-arc/go-force/framework/config"
)

// New returns a JSON production logger, or a colourised development logger
// at debug level when the application runs locally or with app.debug set.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsLocal() || cfg.App.Debug {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zc.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	}
	zc.OutputPaths = []string{"stdout"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("app", cfg.App.Name), zap.String("env", cfg.App.Env)), nil
}

// Level reports the minimum level New would enable for cfg.
func Level(cfg *config.Config) zapcore.Level {
	if cfg.IsLocal() || cfg.App.Debug {
		return zap.DebugLevel
	}
	return zap.InfoLevel
}
