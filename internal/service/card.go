package service

import (
	"context"

	"github.com/akanel15/StatLine-sub001/internal/domain"
	"github.com/akanel15/StatLine-sub001/internal/format"
	"github.com/akanel15/StatLine-sub001/internal/store"
)

// CardService builds the summary cards shown for teams and players.
type CardService struct {
	store *store.Store
}

// NewCardService creates a new card service.
func NewCardService(store *store.Store) *CardService {
	return &CardService{store: store}
}

// PlayerCard summarises a player's season.
type PlayerCard struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Number      string            `json:"number"`
	GamesPlayed int               `json:"gamesPlayed"`
	Record      string            `json:"record"`
	PPG         string            `json:"ppg"`
	PerGame     map[string]string `json:"perGame"`
}

// TeamCard summarises a team's season.
type TeamCard struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	GamesPlayed int               `json:"gamesPlayed"`
	Record      string            `json:"record"`
	PPG         string            `json:"ppg"`
	OpponentPPG string            `json:"opponentPpg"`
	PerGame     map[string]string `json:"perGame"`
}

// PlayerCard returns the card of one player.
func (s *CardService) PlayerCard(ctx context.Context, playerID string) (*PlayerCard, error) {
	p, err := s.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return BuildPlayerCard(p), nil
}

// TeamCard returns the card of one team.
func (s *CardService) TeamCard(ctx context.Context, teamID string) (*TeamCard, error) {
	t, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return BuildTeamCard(t), nil
}

// BuildPlayerCard renders a player's cumulative numbers.
func BuildPlayerCard(p *domain.Player) *PlayerCard {
	gp := p.GameNumbers.GamesPlayed
	return &PlayerCard{
		ID:          p.ID,
		Name:        p.Name,
		Number:      p.Number,
		GamesPlayed: gp,
		Record:      format.Record(p.GameNumbers),
		PPG:         format.PPG(p.Stats, gp),
		PerGame:     perGame(p.Stats, gp),
	}
}

// BuildTeamCard renders a team's cumulative numbers.
func BuildTeamCard(t *domain.Team) *TeamCard {
	gp := t.GameNumbers.GamesPlayed
	return &TeamCard{
		ID:          t.ID,
		Name:        t.Name,
		GamesPlayed: gp,
		Record:      format.Record(t.GameNumbers),
		PPG:         format.PPG(t.Stats.Us, gp),
		OpponentPPG: format.PPG(t.Stats.Opponent, gp),
		PerGame:     perGame(t.Stats.Us, gp),
	}
}

func perGame(stats domain.StatsBag, gamesPlayed int) map[string]string {
	avg := domain.Averages(stats, gamesPlayed)
	out := make(map[string]string, domain.NumStats)
	for _, s := range domain.AllStats() {
		out[s.String()] = format.Trim(avg.Get(s))
	}
	return out
}
