package dto

import (
	"time"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// Team is the API representation of a team.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Record    Record    `json:"record"`
	Stats     Totals    `json:"stats"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromTeam converts a domain team.
func FromTeam(t *domain.Team) Team {
	return Team{
		ID:        t.ID,
		Name:      t.Name,
		Record:    FromGameNumbers(t.GameNumbers),
		Stats:     FromTotals(t.Stats),
		CreatedAt: t.CreatedAt,
	}
}

// Player is the API representation of a player.
type Player struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"teamId"`
	Name      string    `json:"name"`
	Number    string    `json:"number"`
	Record    Record    `json:"record"`
	Stats     Stats     `json:"stats"`
	CreatedAt time.Time `json:"createdAt"`
}

// FromPlayer converts a domain player.
func FromPlayer(p *domain.Player) Player {
	return Player{
		ID:        p.ID,
		TeamID:    p.TeamID,
		Name:      p.Name,
		Number:    p.Number,
		Record:    FromGameNumbers(p.GameNumbers),
		Stats:     FromBag(p.Stats),
		CreatedAt: p.CreatedAt,
	}
}

// FromPlayers converts a list of domain players.
func FromPlayers(players []*domain.Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		out = append(out, FromPlayer(p))
	}
	return out
}

// Set is a named offensive play and its aggregate.
type Set struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	TeamID   string `json:"teamId"`
	RunCount int    `json:"runCount"`
	Stats    Stats  `json:"stats"`
}

// FromSet converts a domain set.
func FromSet(s *domain.Set) Set {
	return Set{
		ID:       s.ID,
		Name:     s.Name,
		TeamID:   s.TeamID,
		RunCount: s.RunCount,
		Stats:    FromBag(s.Stats),
	}
}
