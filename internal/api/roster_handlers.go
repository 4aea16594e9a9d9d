package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/akanel15/StatLine-sub001/internal/api/dto"
	"github.com/akanel15/StatLine-sub001/internal/service"
)

func (s *Server) registerRosterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createTeam",
		Method:      http.MethodPost,
		Path:        "/api/v1/teams",
		Summary:     "Create team",
		Tags:        []string{"Roster"},
	}, s.handleCreateTeam)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTeamCard",
		Method:      http.MethodGet,
		Path:        "/api/v1/teams/{id}/card",
		Summary:     "Team stat card",
		Description: "Record, points per game and per-game averages for a team",
		Tags:        []string{"Roster"},
	}, s.handleTeamCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTeamPlayers",
		Method:      http.MethodGet,
		Path:        "/api/v1/teams/{id}/players",
		Summary:     "List team players",
		Tags:        []string{"Roster"},
	}, s.handleListPlayers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTeamSets",
		Method:      http.MethodGet,
		Path:        "/api/v1/teams/{id}/sets",
		Summary:     "List team sets",
		Description: "Sets with run counts and the stats credited while each was active",
		Tags:        []string{"Roster"},
	}, s.handleListSets)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPlayer",
		Method:      http.MethodPost,
		Path:        "/api/v1/players",
		Summary:     "Create player",
		Tags:        []string{"Roster"},
	}, s.handleCreatePlayer)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlayerCard",
		Method:      http.MethodGet,
		Path:        "/api/v1/players/{id}/card",
		Summary:     "Player stat card",
		Tags:        []string{"Roster"},
	}, s.handlePlayerCard)

	huma.Register(s.api, huma.Operation{
		OperationID: "createSet",
		Method:      http.MethodPost,
		Path:        "/api/v1/sets",
		Summary:     "Create set",
		Description: "Registers a named offensive set for a team",
		Tags:        []string{"Roster"},
	}, s.handleCreateSet)
}

// IDInput is a request addressed by a single path id.
type IDInput struct {
	ID string `path:"id" doc:"Resource ID"`
}

// CreateTeamInput wraps the create team request.
type CreateTeamInput struct {
	Body struct {
		Name string `json:"name" doc:"Team name"`
	}
}

// TeamOutput wraps a team response.
type TeamOutput struct {
	Body dto.Team
}

// CreatePlayerInput wraps the create player request.
type CreatePlayerInput struct {
	Body struct {
		TeamID string `json:"teamId" doc:"Owning team ID"`
		Name   string `json:"name" doc:"Player name"`
		Number string `json:"number,omitempty" doc:"Jersey number"`
	}
}

// PlayerOutput wraps a player response.
type PlayerOutput struct {
	Body dto.Player
}

// PlayerListOutput wraps a list of players.
type PlayerListOutput struct {
	Body struct {
		Players []dto.Player `json:"players"`
	}
}

// SetListOutput wraps a list of sets.
type SetListOutput struct {
	Body struct {
		Sets []dto.Set `json:"sets"`
	}
}

// CreateSetInput wraps the create set request.
type CreateSetInput struct {
	Body struct {
		TeamID string `json:"teamId" doc:"Owning team ID"`
		Name   string `json:"name" doc:"Set name"`
	}
}

// SetOutput wraps a set response.
type SetOutput struct {
	Body dto.Set
}

// TeamCardOutput wraps a team card.
type TeamCardOutput struct {
	Body *service.TeamCard
}

// PlayerCardOutput wraps a player card.
type PlayerCardOutput struct {
	Body *service.PlayerCard
}

func (s *Server) handleCreateTeam(ctx context.Context, input *CreateTeamInput) (*TeamOutput, error) {
	team, err := s.services.Roster.CreateTeam(ctx, service.CreateTeamRequest{Name: input.Body.Name})
	if err != nil {
		return nil, apiError(err)
	}
	return &TeamOutput{Body: dto.FromTeam(team)}, nil
}

func (s *Server) handleTeamCard(ctx context.Context, input *IDInput) (*TeamCardOutput, error) {
	card, err := s.services.Cards.TeamCard(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &TeamCardOutput{Body: card}, nil
}

func (s *Server) handleListPlayers(ctx context.Context, input *IDInput) (*PlayerListOutput, error) {
	players, err := s.services.Roster.ListPlayers(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	out := &PlayerListOutput{}
	out.Body.Players = dto.FromPlayers(players)
	return out, nil
}

func (s *Server) handleListSets(ctx context.Context, input *IDInput) (*SetListOutput, error) {
	sets, err := s.services.Roster.ListSets(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	out := &SetListOutput{}
	out.Body.Sets = make([]dto.Set, 0, len(sets))
	for _, set := range sets {
		out.Body.Sets = append(out.Body.Sets, dto.FromSet(set))
	}
	return out, nil
}

func (s *Server) handleCreatePlayer(ctx context.Context, input *CreatePlayerInput) (*PlayerOutput, error) {
	player, err := s.services.Roster.CreatePlayer(ctx, service.CreatePlayerRequest{
		TeamID: input.Body.TeamID,
		Name:   input.Body.Name,
		Number: input.Body.Number,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return &PlayerOutput{Body: dto.FromPlayer(player)}, nil
}

func (s *Server) handlePlayerCard(ctx context.Context, input *IDInput) (*PlayerCardOutput, error) {
	card, err := s.services.Cards.PlayerCard(ctx, input.ID)
	if err != nil {
		return nil, apiError(err)
	}
	return &PlayerCardOutput{Body: card}, nil
}

func (s *Server) handleCreateSet(ctx context.Context, input *CreateSetInput) (*SetOutput, error) {
	set, err := s.services.Roster.CreateSet(ctx, service.CreateSetRequest{
		TeamID: input.Body.TeamID,
		Name:   input.Body.Name,
	})
	if err != nil {
		return nil, apiError(err)
	}
	return &SetOutput{Body: dto.FromSet(set)}, nil
}
