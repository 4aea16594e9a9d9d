package dto

import (
	"maps"
	"slices"
	"time"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// Play is one recorded play-by-play entry.
type Play struct {
	ID            string   `json:"id"`
	PlayerID      string   `json:"playerId" doc:"Player id, or Opponent, or Team"`
	Action        string   `json:"action"`
	SetID         string   `json:"setId,omitempty"`
	ActivePlayers []string `json:"activePlayers,omitempty"`
}

// FromPlay converts a domain play entry.
func FromPlay(e *domain.PlayEntry) Play {
	return Play{
		ID:            e.ID,
		PlayerID:      e.PlayerID.String(),
		Action:        e.Action.String(),
		SetID:         e.SetID,
		ActivePlayers: e.ActivePlayers,
	}
}

// FromPlays converts a list of play entries.
func FromPlays(entries []*domain.PlayEntry) []Play {
	out := make([]Play, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromPlay(e))
	}
	return out
}

// Period is one period's score and plays, newest first.
type Period struct {
	Us         int    `json:"us"`
	Opponent   int    `json:"opponent"`
	PlayByPlay []Play `json:"playByPlay"`
}

// Game is the API representation of a game.
type Game struct {
	ID               string           `json:"id"`
	TeamID           string           `json:"teamId"`
	OpposingTeamName string           `json:"opposingTeamName"`
	PeriodType       string           `json:"periodType" enum:"quarters,halves"`
	IsFinished       bool             `json:"isFinished"`
	Score            Score            `json:"score"`
	StatTotals       Totals           `json:"statTotals"`
	BoxScore         map[string]Stats `json:"boxScore" doc:"Per-player lines keyed by player id, Opponent or Team"`
	Periods          []Period         `json:"periods"`
	GamePlayedList   []string         `json:"gamePlayedList"`
	ActivePlayers    []string         `json:"activePlayers"`
	ActiveSetID      string           `json:"activeSetId,omitempty"`
	Sets             []Set            `json:"sets"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Score is the running score.
type Score struct {
	Us       int `json:"us"`
	Opponent int `json:"opponent"`
}

// FromGame converts a domain game.
func FromGame(g *domain.Game) Game {
	out := Game{
		ID:               g.ID,
		TeamID:           g.TeamID,
		OpposingTeamName: g.OpposingTeamName,
		PeriodType:       string(g.PeriodType),
		IsFinished:       g.IsFinished,
		Score:            Score{Us: g.Points(domain.SideUs), Opponent: g.Points(domain.SideOpponent)},
		StatTotals:       FromTotals(g.StatTotals),
		BoxScore:         make(map[string]Stats, len(g.BoxScore)),
		Periods:          make([]Period, 0, len(g.Periods)),
		GamePlayedList:   nonNil(g.GamePlayedList),
		ActivePlayers:    nonNil(g.ActivePlayers),
		ActiveSetID:      g.ActiveSetID,
		Sets:             make([]Set, 0, len(g.Sets)),
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
	for ref, bag := range g.BoxScore {
		out.BoxScore[ref.String()] = FromBag(bag)
	}
	for _, p := range g.Periods {
		if p == nil {
			continue
		}
		out.Periods = append(out.Periods, Period{
			Us:         p.Us,
			Opponent:   p.Opponent,
			PlayByPlay: FromPlays(p.PlayByPlay),
		})
	}
	for _, id := range slices.Sorted(maps.Keys(g.Sets)) {
		out.Sets = append(out.Sets, FromSet(g.Sets[id]))
	}
	return out
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
