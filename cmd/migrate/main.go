// Package main provides a one-shot repair tool that recomputes stored
// aggregates from play logs.
package main

import (
	"context"
	"encoding/json/v2"
	"encoding/json/jsontext"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akanel15/StatLine-sub001/internal/config"
	"github.com/akanel15/StatLine-sub001/internal/logger"
	"github.com/akanel15/StatLine-sub001/internal/service"
	"github.com/akanel15/StatLine-sub001/internal/store"
)

func main() {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dryRun := fs.Bool("dry-run", false, "Report changes without writing")
	rebuild := fs.String("rebuild", "", "Rebuild one game's aggregates from its play log instead of migrating set stats")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
		Writer:      os.Stderr,
	})

	st, err := store.New(cfg.Data.Path, log.Logger)
	if err != nil {
		log.Fatal("Failed to open database", "path", cfg.Data.Path, "error", err)
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var out any
	if *rebuild != "" {
		out, err = service.NewGameService(service.NewGameStore(st), log.Logger).Rebuild(ctx, *rebuild)
	} else {
		out, err = service.NewOfflineMigrationService(st, log.Logger).MigrateSetStats(ctx, *dryRun)
	}
	if err != nil {
		log.WithError(err).Error("Migration failed")
		st.Close()
		os.Exit(1)
	}

	if err := json.MarshalWrite(os.Stdout, out, jsontext.WithIndent("  ")); err != nil {
		log.WithError(err).Error("Failed to write report")
	}
	fmt.Println()
}
