package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/akanel15/StatLine-sub001/internal/replay"
	"github.com/akanel15/StatLine-sub001/internal/store"
)

// migrationBatchSize bounds how many rewritten games are buffered before
// a flush.
const migrationBatchSize = 100

// MigrationService runs bulk repairs of stored aggregates.
//
// With a GameService it is safe on a live server: each changed game is
// re-read and rewritten under that game's lock. Without one it assumes
// exclusive access to the store and rewrites games through a BatchWriter.
type MigrationService struct {
	store  *store.Store
	games  *GameService
	logger *slog.Logger
}

// NewMigrationService creates a migration service for a running server.
// Writes go through games so they serialise with live mutations.
func NewMigrationService(store *store.Store, games *GameService, logger *slog.Logger) *MigrationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MigrationService{store: store, games: games, logger: logger}
}

// NewOfflineMigrationService creates a migration service for a store no
// other process is writing, such as the one the migrate command opens.
func NewOfflineMigrationService(store *store.Store, logger *slog.Logger) *MigrationService {
	return NewMigrationService(store, nil, logger)
}

// MigrationFailure is one game the migration could not process.
type MigrationFailure struct {
	GameID string `json:"gameId"`
	Error  string `json:"error"`
}

// MigrationReport summarises a migration run.
type MigrationReport struct {
	Games    int                `json:"games"`
	Changed  []string           `json:"changed"`
	Failures []MigrationFailure `json:"failures"`
	DryRun   bool               `json:"dryRun"`
}

// MigrateSetStats recomputes every game's set stats from its play log and
// writes back the games whose stats changed. Running it again changes
// nothing. With dryRun nothing is written.
func (s *MigrationService) MigrateSetStats(ctx context.Context, dryRun bool) (*MigrationReport, error) {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	result := replay.MigrateAll(games)
	report := &MigrationReport{
		Games:    len(games),
		Changed:  []string{},
		Failures: []MigrationFailure{},
		DryRun:   dryRun,
	}
	for _, f := range result.Failures {
		report.addFailure(s.logger, f.GameID, f.Err)
	}

	switch {
	case dryRun:
		report.Changed = append(report.Changed, result.Changed...)
	case s.games != nil:
		err = s.writeLive(ctx, result.Changed, report)
	default:
		err = s.writeOffline(ctx, result, report)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("set stats migration complete", "games", report.Games, "changed", len(report.Changed), "failures", len(report.Failures), "dry_run", dryRun)
	return report, nil
}

// writeLive migrates each candidate again from its current stored copy.
// A game that a live mutation already fixed, or that was deleted, is not
// reported as changed.
func (s *MigrationService) writeLive(ctx context.Context, candidates []string, report *MigrationReport) error {
	for _, gameID := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		changed, err := s.games.MigrateSetStats(ctx, gameID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			report.addFailure(s.logger, gameID, err)
			continue
		}
		if changed {
			report.Changed = append(report.Changed, gameID)
		}
	}
	return nil
}

func (s *MigrationService) writeOffline(ctx context.Context, result replay.Report, report *MigrationReport) error {
	report.Changed = append(report.Changed, result.Changed...)
	if len(result.Changed) == 0 {
		return nil
	}

	changed := make(map[string]bool, len(result.Changed))
	for _, gameID := range result.Changed {
		changed[gameID] = true
	}

	w := s.store.NewBatchWriter(migrationBatchSize)
	for _, game := range result.Games {
		if game == nil || !changed[game.ID] {
			continue
		}
		if err := w.PutGame(ctx, game); err != nil {
			w.Cancel()
			return fmt.Errorf("write game %s: %w", game.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush migrated games: %w", err)
	}
	return nil
}

func (r *MigrationReport) addFailure(logger *slog.Logger, gameID string, err error) {
	logger.Error("set stats migration failed for game", "game_id", gameID, "error", err)
	r.Failures = append(r.Failures, MigrationFailure{GameID: gameID, Error: err.Error()})
}
