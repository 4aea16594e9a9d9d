// Package statfile defines the portable export file exchanged between
// independent StatLine installations.
package statfile

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// FormatVersion is the only file version this build reads or writes.
const FormatVersion = 1

// UnknownPlayerName is exported for player ids no longer in the roster.
const UnknownPlayerName = "Unknown Player"

// Package is the exported file. It carries player identities under their
// original ids and never carries images.
type Package struct {
	Version    int      `json:"version"`
	ExportDate string   `json:"exportDate"`
	Team       Team     `json:"team"`
	Players    []Player `json:"players"`
	Games      []Game   `json:"games"`
}

// Team is the exporting team.
type Team struct {
	Name string `json:"name"`
}

// Player is one player identity referenced by the exported games.
type Player struct {
	OriginalID string `json:"originalId"`
	Name       string `json:"name"`
	Number     string `json:"number"`
}

// Game is the portable part of a game.
type Game struct {
	OriginalID       string                               `json:"originalId"`
	OpposingTeamName string                               `json:"opposingTeamName"`
	PeriodType       domain.PeriodType                    `json:"periodType"`
	IsFinished       bool                                 `json:"isFinished"`
	StatTotals       domain.TeamTotals                    `json:"statTotals"`
	BoxScore         map[domain.PlayerRef]domain.StatsBag `json:"boxScore"`
	Periods          []*domain.Period                     `json:"periods"`
	GamePlayedList   []string                             `json:"gamePlayedList"`
	ActivePlayers    []string                             `json:"activePlayers"`
}

// Points returns the game's total for a side.
func (g *Game) Points(side domain.TeamSide) int {
	totals := g.StatTotals
	return totals.Side(side).Get(domain.Points)
}

// Marshal encodes a package as indented JSON.
func Marshal(pkg *Package) ([]byte, error) {
	data, err := json.Marshal(pkg, jsontext.WithIndent("  "))
	if err != nil {
		return nil, fmt.Errorf("encode export file: %w", err)
	}
	return data, nil
}

// Decode performs the typed decode of a file. It does not check the
// package's semantic rules; import validation does.
func Decode(data []byte) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("decode export file: %w", err)
	}
	return &pkg, nil
}
