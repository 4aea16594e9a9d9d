// Package dto provides request and response types for the StatLine API.
// These types are used by huma to generate OpenAPI documentation and perform validation.
package dto

import (
	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// Stats is a stat bag keyed by stat name. Zero counters are omitted.
type Stats map[string]int

// FromBag converts a domain stat bag.
func FromBag(b domain.StatsBag) Stats {
	out := Stats{}
	b.NonZero(func(s domain.Stat, n int) {
		out[s.String()] = n
	})
	return out
}

// Totals holds the per-side aggregates of a team or game.
type Totals struct {
	Us       Stats `json:"us" doc:"Our team's aggregate"`
	Opponent Stats `json:"opponent" doc:"Opponent aggregate"`
}

// FromTotals converts domain team totals.
func FromTotals(t domain.TeamTotals) Totals {
	return Totals{Us: FromBag(t.Us), Opponent: FromBag(t.Opponent)}
}

// Record is a win/loss/draw tally.
type Record struct {
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Draws       int `json:"draws"`
	GamesPlayed int `json:"gamesPlayed"`
}

// FromGameNumbers converts a domain tally.
func FromGameNumbers(n domain.GameNumbers) Record {
	return Record(n)
}
