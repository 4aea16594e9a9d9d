package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/akanel15/StatLine-sub001/internal/api/dto"
	"github.com/akanel15/StatLine-sub001/internal/domain"
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
	"github.com/akanel15/StatLine-sub001/internal/service"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/games",
		Summary:     "Start game",
		Tags:        []string{"Games"},
	}, s.handleCreateGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGame",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}",
		Summary:     "Get game",
		Tags:        []string{"Games"},
	}, s.handleGetGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "setLineup",
		Method:      http.MethodPut,
		Path:        "/api/v1/games/{id}/lineup",
		Summary:     "Set active players",
		Description: "Replaces the players on court. Everyone listed is marked as having played.",
		Tags:        []string{"Games"},
	}, s.handleSetLineup)

	huma.Register(s.api, huma.Operation{
		OperationID: "startPeriod",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/periods",
		Summary:     "Start next period",
		Tags:        []string{"Games"},
	}, s.handleStartPeriod)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectSet",
		Method:      http.MethodPut,
		Path:        "/api/v1/games/{id}/set",
		Summary:     "Activate a set",
		Description: "Selects the set being run. An empty setId clears the selection.",
		Tags:        []string{"Games"},
	}, s.handleSelectSet)

	huma.Register(s.api, huma.Operation{
		OperationID: "recordAction",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/actions",
		Summary:     "Record action",
		Description: "Records one or more stats for a player in the current period",
		Tags:        []string{"Games"},
	}, s.handleRecordAction)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePlay",
		Method:      http.MethodDelete,
		Path:        "/api/v1/games/{id}/plays/{playId}",
		Summary:     "Delete play",
		Description: "Removes a play and reverses its effect on every aggregate",
		Tags:        []string{"Games"},
	}, s.handleDeletePlay)

	huma.Register(s.api, huma.Operation{
		OperationID: "finishGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/finish",
		Summary:     "Finish game",
		Description: "Marks the game finished and rolls its stats into team and player totals",
		Tags:        []string{"Games"},
	}, s.handleFinishGame)
}

// CreateGameInput wraps the create game request.
type CreateGameInput struct {
	Body struct {
		TeamID           string `json:"teamId" doc:"Our team ID"`
		OpposingTeamName string `json:"opposingTeamName" doc:"Opponent name"`
		PeriodType       string `json:"periodType" enum:"quarters,halves" doc:"Period structure"`
	}
}

// GameOutput wraps a game response.
type GameOutput struct {
	Body dto.Game
}

// LineupInput wraps the lineup request.
type LineupInput struct {
	ID   string `path:"id" doc:"Game ID"`
	Body struct {
		PlayerIDs []string `json:"playerIds" maxItems:"5" doc:"Players on court"`
	}
}

// SelectSetInput wraps the set selection request.
type SelectSetInput struct {
	ID   string `path:"id" doc:"Game ID"`
	Body struct {
		SetID string `json:"setId" doc:"Team set ID, empty to clear"`
	}
}

// RecordActionInput wraps the record action request.
type RecordActionInput struct {
	ID   string `path:"id" doc:"Game ID"`
	Body struct {
		PlayerID string   `json:"playerId" doc:"Player id, or Opponent, or Team"`
		Actions  []string `json:"actions" minItems:"1" doc:"Stat names to record. A make already counts its attempt; Points and PlusMinus are derived and rejected"`
	}
}

// RecordActionOutput wraps the record action response.
type RecordActionOutput struct {
	Body struct {
		Game     dto.Game   `json:"game"`
		Plays    []dto.Play `json:"plays"`
		SetReset bool       `json:"setReset" doc:"Whether possession changed and the active set was cleared"`
	}
}

// DeletePlayInput addresses a play within a game.
type DeletePlayInput struct {
	ID     string `path:"id" doc:"Game ID"`
	PlayID string `path:"playId" doc:"Play ID"`
}

func (s *Server) handleCreateGame(ctx context.Context, input *CreateGameInput) (*GameOutput, error) {
	game, err := s.services.Games.CreateGame(ctx, service.CreateGameRequest{
		TeamID:           input.Body.TeamID,
		OpposingTeamName: input.Body.OpposingTeamName,
		PeriodType:       domain.PeriodType(input.Body.PeriodType),
	})
	return gameOutput(game, err)
}

func (s *Server) handleGetGame(ctx context.Context, input *IDInput) (*GameOutput, error) {
	return gameOutput(s.services.Games.GetGame(ctx, input.ID))
}

func (s *Server) handleSetLineup(ctx context.Context, input *LineupInput) (*GameOutput, error) {
	return gameOutput(s.services.Games.SetLineup(ctx, input.ID, service.LineupRequest{
		PlayerIDs: input.Body.PlayerIDs,
	}))
}

func (s *Server) handleStartPeriod(ctx context.Context, input *IDInput) (*GameOutput, error) {
	return gameOutput(s.services.Games.StartPeriod(ctx, input.ID))
}

func (s *Server) handleSelectSet(ctx context.Context, input *SelectSetInput) (*GameOutput, error) {
	return gameOutput(s.services.Games.SelectSet(ctx, input.ID, input.Body.SetID))
}

func (s *Server) handleRecordAction(ctx context.Context, input *RecordActionInput) (*RecordActionOutput, error) {
	actions, err := parseActions(input.Body.Actions)
	if err != nil {
		return nil, apiError(err)
	}

	result, err := s.services.Games.RecordAction(ctx, input.ID, domain.ParsePlayerRef(input.Body.PlayerID), actions)
	if err != nil {
		return nil, apiError(err)
	}

	out := &RecordActionOutput{}
	out.Body.Game = dto.FromGame(result.Game)
	out.Body.Plays = dto.FromPlays(result.Plays)
	out.Body.SetReset = result.SetReset
	return out, nil
}

func (s *Server) handleDeletePlay(ctx context.Context, input *DeletePlayInput) (*GameOutput, error) {
	return gameOutput(s.services.Games.DeletePlay(ctx, input.ID, input.PlayID))
}

func (s *Server) handleFinishGame(ctx context.Context, input *IDInput) (*GameOutput, error) {
	return gameOutput(s.services.Games.Finish(ctx, input.ID))
}

func gameOutput(game *domain.Game, err error) (*GameOutput, error) {
	if err != nil {
		return nil, apiError(err)
	}
	return &GameOutput{Body: dto.FromGame(game)}, nil
}

// parseActions resolves stat names, reporting every unknown one.
func parseActions(names []string) ([]domain.Stat, error) {
	actions := make([]domain.Stat, 0, len(names))
	var unknown []string
	for _, name := range names {
		stat, err := domain.ParseStat(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		actions = append(actions, stat)
	}
	if len(unknown) > 0 {
		return nil, domainerrors.ValidationWithDetails("unknown stat", unknown)
	}
	return actions, nil
}
