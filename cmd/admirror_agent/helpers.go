package main

import (
	"github.com/sirupsen/logrus"

	"github.com/jonathan/admirror/internal/config"
	"github.com/jonathan/admirror/internal/logging"
)

// loadRuntimeConfig resolves the effective configuration: file values (when a
// config path is given) merged over defaults, then environment overrides,
// then validation.
func loadRuntimeConfig(path string) (config.Config, error) {
	cfg := config.Defaults()

	if path != "" {
		fileCfg, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(config.Defaults())
	}

	if err := cfg.ApplyEnv(); err != nil {
		return config.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func newLogger(verbose bool) *logrus.Logger {
	return logging.New(verbose)
}
