// Package providers contains dependency injection providers for the StatLine server.
package providers

import (
	"flag"
	"os"

	"github.com/samber/do/v2"

	"github.com/akanel15/StatLine-sub001/internal/config"
	"github.com/akanel15/StatLine-sub001/internal/logger"
)

// ProvideConfig provides the application configuration from the process
// flags and environment.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.Load(flag.CommandLine, os.Args[1:])
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting StatLine",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.Path,
	)

	return log, nil
}
