package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/akanel15/StatLine-sub001/internal/domain"
	domainerrors "github.com/akanel15/StatLine-sub001/internal/errors"
	"github.com/akanel15/StatLine-sub001/internal/id"
	"github.com/akanel15/StatLine-sub001/internal/normalize"
	"github.com/akanel15/StatLine-sub001/internal/store"
	"github.com/akanel15/StatLine-sub001/internal/validation"
)

// RosterService manages teams, players and team sets.
type RosterService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
	ids       id.Generator
	now       func() time.Time
}

// NewRosterService creates a new roster service.
func NewRosterService(store *store.Store, logger *slog.Logger) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RosterService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
		ids:       id.Generate,
		now:       time.Now,
	}
}

// CreateTeamRequest contains fields for creating a team.
type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CreateTeam creates a team with zeroed stats.
func (s *RosterService) CreateTeam(ctx context.Context, req CreateTeamRequest) (*domain.Team, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	teamID, err := s.ids(id.PrefixTeam)
	if err != nil {
		return nil, err
	}
	team := &domain.Team{ID: teamID, Name: req.Name, CreatedAt: s.now()}
	if err := s.store.Teams.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	s.logger.Info("team created", "team_id", team.ID, "name", team.Name)
	return team, nil
}

// CreatePlayerRequest contains fields for adding a player to a team.
type CreatePlayerRequest struct {
	TeamID string `json:"teamId" validate:"required"`
	Name   string `json:"name" validate:"required,max=100"`
	Number string `json:"number" validate:"max=3"`
}

// CreatePlayer adds a player to an existing team.
func (s *RosterService) CreatePlayer(ctx context.Context, req CreatePlayerRequest) (*domain.Player, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Number = normalize.Number(req.Number)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireTeam(ctx, req.TeamID); err != nil {
		return nil, err
	}

	playerID, err := s.ids(id.PrefixPlayer)
	if err != nil {
		return nil, err
	}
	player := &domain.Player{
		ID:        playerID,
		TeamID:    req.TeamID,
		Name:      req.Name,
		Number:    req.Number,
		CreatedAt: s.now(),
	}
	if err := s.store.Players.Create(ctx, player); err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	s.logger.Info("player created", "player_id", player.ID, "team_id", player.TeamID, "name", player.Name)
	return player, nil
}

// CreateSetRequest contains fields for adding a set to a team's playbook.
type CreateSetRequest struct {
	TeamID string `json:"teamId" validate:"required"`
	Name   string `json:"name" validate:"required,max=100"`
}

// CreateSet adds a named play call to a team.
func (s *RosterService) CreateSet(ctx context.Context, req CreateSetRequest) (*domain.Set, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireTeam(ctx, req.TeamID); err != nil {
		return nil, err
	}

	setID, err := s.ids(id.PrefixSet)
	if err != nil {
		return nil, err
	}
	set := &domain.Set{ID: setID, Name: req.Name, TeamID: req.TeamID}
	if err := s.store.Sets.Create(ctx, set); err != nil {
		return nil, fmt.Errorf("create set: %w", err)
	}

	s.logger.Info("set created", "set_id", set.ID, "team_id", set.TeamID, "name", set.Name)
	return set, nil
}

// ListPlayers returns a team's players, oldest first.
func (s *RosterService) ListPlayers(ctx context.Context, teamID string) ([]*domain.Player, error) {
	if err := s.requireTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.store.ListPlayersByTeam(ctx, teamID)
}

// ListSets returns a team's sets with their accumulated stats.
func (s *RosterService) ListSets(ctx context.Context, teamID string) ([]*domain.Set, error) {
	if err := s.requireTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.store.ListSetsByTeam(ctx, teamID)
}

func (s *RosterService) requireTeam(ctx context.Context, teamID string) error {
	_, err := s.store.GetTeam(ctx, teamID)
	if domainerrors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFoundf("team %s not found", teamID)
	}
	return err
}
