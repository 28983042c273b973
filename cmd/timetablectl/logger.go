package main

import (
	"go.uber.org/zap"
)

// buildLogger mirrors the teacher's pkg/logger.New encoder/level choice,
// minus the config.Config dependency the CLI has no reason to load.
func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Encoding = "console"
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
