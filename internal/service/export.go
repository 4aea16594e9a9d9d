package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/akanel15/StatLine-sub001/internal/backup/export"
	"github.com/akanel15/StatLine-sub001/internal/backup/statfile"
	"github.com/akanel15/StatLine-sub001/internal/domain"
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
	"github.com/akanel15/StatLine-sub001/internal/store"
	"github.com/akanel15/StatLine-sub001/internal/validation"
)

// ExportService builds portable export files.
type ExportService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
	now       func() time.Time
}

// NewExportService creates a new export service.
func NewExportService(store *store.Store, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
		now:       time.Now,
	}
}

// ExportRequest selects the games to export.
type ExportRequest struct {
	TeamID string `json:"teamId" validate:"required"`
	// GameIDs limits the export to these games. Empty means every game of
	// the team.
	GameIDs      []string `json:"gameIds,omitempty" validate:"dive,required"`
	FinishedOnly bool     `json:"finishedOnly,omitempty"`
}

// ExportResult is a built package with its encoded file.
type ExportResult struct {
	Package *statfile.Package
	Data    []byte
	Summary export.Summary
}

// Export builds the export file for a team's games.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	team, err := s.store.GetTeam(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}
	games, err := s.store.ListGamesByTeam(ctx, req.TeamID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	games = slices.DeleteFunc(games, func(g *domain.Game) bool {
		if req.FinishedOnly && !g.IsFinished {
			return true
		}
		return len(req.GameIDs) > 0 && !slices.Contains(req.GameIDs, g.ID)
	})
	if len(games) == 0 {
		return nil, domainerrors.Validation("no games to export")
	}

	// Players may have moved teams since, so look up across all of them.
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	lookup := make(export.PlayerMap, len(players))
	for _, p := range players {
		lookup[p.ID] = p
	}

	pkg := export.BuildPackage(team.Name, games, lookup, s.now())
	data, err := statfile.Marshal(pkg)
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}

	summary := export.Summarize(pkg)
	if summary.UnknownPlayers > 0 {
		s.logger.Warn("export references deleted players", "team_id", team.ID, "unknown_players", summary.UnknownPlayers)
	}
	s.logger.Info("export built",
		"team_id", team.ID,
		"games", summary.Games,
		"players", summary.Players,
		"plays", summary.Plays,
		"bytes", len(data),
	)
	return &ExportResult{Package: pkg, Data: data, Summary: summary}, nil
}
