// Package backupimport reconciles an export file from another installation
// into the local store: validation, duplicate detection, player matching
// and a single-transaction execution.
package backupimport

import (
	"context"
	"time"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// Store is the read side of the local store plus its unit of work.
type Store interface {
	ListTeams(ctx context.Context) ([]*domain.Team, error)
	ListPlayers(ctx context.Context) ([]*domain.Player, error)
	ListGames(ctx context.Context) ([]*domain.Game, error)
	// WithTx runs fn in one transaction. Nothing fn wrote is kept if it
	// returns an error.
	WithTx(ctx context.Context, fn func(Tx) error) error
}

// Tx is the set of mutations an import performs.
type Tx interface {
	ListTeams(ctx context.Context) ([]*domain.Team, error)
	TeamExists(ctx context.Context, id string) (bool, error)
	PlayerExists(ctx context.Context, id string) (bool, error)
	CreateTeam(ctx context.Context, team *domain.Team) error
	CreatePlayer(ctx context.Context, player *domain.Player) error
	InsertGame(ctx context.Context, game *domain.Game) error
	UpdateGamesPlayed(ctx context.Context, batch *domain.GamesPlayedBatch) error
	BatchUpdateStats(ctx context.Context, batch *domain.StatsBatch) error
}

// PlayerAction is what to do with one incoming player.
type PlayerAction string

// Player actions.
const (
	PlayerCreate PlayerAction = "create"
	PlayerLink   PlayerAction = "link"
)

// Valid returns true if the action is recognized.
func (a PlayerAction) Valid() bool {
	return a == PlayerCreate || a == PlayerLink
}

// PlayerDecision is the caller's choice for one incoming player.
type PlayerDecision struct {
	Action     PlayerAction `json:"action"`
	ExistingID string       `json:"existingId,omitempty"`
}

// Decisions are the caller-approved choices an import executes.
type Decisions struct {
	// TeamID imports into an existing team. When empty the team is
	// resolved by name and created if absent.
	TeamID string `json:"teamId,omitempty"`
	// TeamName overrides the package team name when resolving by name.
	TeamName string `json:"teamName,omitempty"`
	// Players maps original player ids to decisions. Players without a
	// decision are created.
	Players map[string]PlayerDecision `json:"players,omitempty"`
	// SkipGames lists original ids of games not to import.
	SkipGames []string `json:"skipGames,omitempty"`
}

// DefaultDecisions links every matched player, creates the rest and skips
// every detected duplicate game.
func DefaultDecisions(matches []PlayerMatch, duplicates []DuplicateMatch) Decisions {
	d := Decisions{Players: make(map[string]PlayerDecision, len(matches))}
	for _, m := range matches {
		if m.Existing != nil {
			d.Players[m.Incoming.OriginalID] = PlayerDecision{Action: PlayerLink, ExistingID: m.Existing.ID}
		} else {
			d.Players[m.Incoming.OriginalID] = PlayerDecision{Action: PlayerCreate}
		}
	}
	for _, dup := range duplicates {
		d.SkipGames = append(d.SkipGames, dup.OriginalID)
	}
	return d
}

// Preview is the read-only analysis shown before an import executes.
type Preview struct {
	Validation ValidationResult `json:"validation"`
	Duplicates []DuplicateMatch `json:"duplicates"`
	Matches    []PlayerMatch    `json:"matches"`
}

// Result reports what an import wrote.
type Result struct {
	ImportID       string            `json:"importId"`
	TeamID         string            `json:"teamId"`
	TeamCreated    bool              `json:"teamCreated"`
	PlayersCreated int               `json:"playersCreated"`
	PlayersLinked  int               `json:"playersLinked"`
	GamesImported  int               `json:"gamesImported"`
	GamesSkipped   int               `json:"gamesSkipped"`
	FinishedGames  int               `json:"finishedGames"`
	PlayerIDs      map[string]string `json:"playerIds"`
	GameIDs        map[string]string `json:"gameIds"`
	Warnings       []string          `json:"warnings,omitempty"`
	Duration       time.Duration     `json:"duration"`
}

// Analyze runs the read-only stages against the local store.
func Analyze(ctx context.Context, s Store, raw []byte) (*Preview, error) {
	preview := &Preview{Validation: ValidateBytes(raw)}
	if !preview.Validation.Valid {
		return preview, nil
	}
	pkg := preview.Validation.Package

	games, err := s.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	players, err := s.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	preview.Duplicates = FindDuplicates(pkg, games)
	preview.Matches = MatchPlayers(pkg.Players, players)
	return preview, nil
}
