package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/akanel15/StatLine-sub001/internal/api/dto"
	"github.com/akanel15/StatLine-sub001/internal/service"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "migrateSetStats",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/migrations/set-stats",
		Summary:     "Recompute set stats",
		Description: "Rebuilds every game's per-set aggregates from its play log",
		Tags:        []string{"Admin"},
	}, s.handleMigrateSetStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "rebuildGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/games/{id}/rebuild",
		Summary:     "Rebuild game aggregates",
		Description: "Recomputes a game's totals, box score and scores from its play log",
		Tags:        []string{"Admin"},
	}, s.handleRebuildGame)
}

// MigrateInput holds migration options.
type MigrateInput struct {
	DryRun bool `query:"dryRun" doc:"Report changes without writing"`
}

// MigrateOutput wraps a migration report.
type MigrateOutput struct {
	Body *service.MigrationReport
}

// RebuildOutput wraps a rebuilt game and the problems found before repair.
type RebuildOutput struct {
	Body struct {
		Game     dto.Game `json:"game"`
		Problems []string `json:"problems"`
	}
}

func (s *Server) handleMigrateSetStats(ctx context.Context, input *MigrateInput) (*MigrateOutput, error) {
	report, err := s.services.Migration.MigrateSetStats(ctx, input.DryRun)
	if err != nil {
		return nil, apiError(err)
	}
	return &MigrateOutput{Body: report}, nil
}

func (s *Server) handleRebuildGame(ctx context.Context, input *IDInput) (*RebuildOutput, error) {
	result, err := s.services.Games.Rebuild(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	out := &RebuildOutput{}
	out.Body.Game = dto.FromGame(result.Game)
	out.Body.Problems = result.Problems
	if out.Body.Problems == nil {
		out.Body.Problems = []string{}
	}
	return out, nil
}
