// Package store persists teams, players, games and sets in BadgerDB.
package store

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// Key prefixes.
const (
	teamPrefix   = "team:"
	playerPrefix = "player:"
	gamePrefix   = "game:"
	setPrefix    = "set:"

	indexTeam = "team"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	Teams   *Entity[domain.Team]
	Players *Entity[domain.Player]
	Games   *Entity[domain.Game]
	Sets    *Entity[domain.Set]
}

// New opens the database at path. An empty path opens an in-memory
// database, used by tests and dry runs.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	} else {
		opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
		opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup
	}
	opts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{db: db, logger: logger}
	s.initEntities()

	logger.Info("Badger database opened successfully", "path", path, "in_memory", path == "")
	return s, nil
}

// NewInMemory opens a throwaway in-memory store.
func NewInMemory(logger *slog.Logger) (*Store, error) {
	return New("", logger)
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}

func (s *Store) initEntities() {
	s.Teams = NewEntity(s, teamPrefix, func(t *domain.Team) string { return t.ID })
	s.Players = NewEntity(s, playerPrefix, func(p *domain.Player) string { return p.ID }).
		WithIndex(indexTeam, func(p *domain.Player) []string { return []string{p.TeamID} })
	s.Games = NewEntity(s, gamePrefix, func(g *domain.Game) string { return g.ID }).
		WithIndex(indexTeam, func(g *domain.Game) []string { return []string{g.TeamID} })
	s.Sets = NewEntity(s, setPrefix, func(st *domain.Set) string { return st.ID }).
		WithIndex(indexTeam, func(st *domain.Set) []string { return []string{st.TeamID} })
}

// Update runs fn in one read-write transaction. Nothing fn wrote is kept
// if it returns an error.
func (s *Store) Update(ctx context.Context, fn func(*Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return fn(&Txn{store: s, txn: txn})
	})
}

// GetTeam returns a team by id.
func (s *Store) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	return s.Teams.Get(ctx, id)
}

// ListTeams returns every team, oldest first.
func (s *Store) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	teams, err := s.Teams.List(ctx)
	sortByCreation(teams, func(t *domain.Team) (int64, string) { return t.CreatedAt.UnixNano(), t.ID })
	return teams, err
}

// GetPlayer returns a player by id.
func (s *Store) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	return s.Players.Get(ctx, id)
}

// ListPlayers returns every player, oldest first.
func (s *Store) ListPlayers(ctx context.Context) ([]*domain.Player, error) {
	players, err := s.Players.List(ctx)
	sortByCreation(players, playerOrder)
	return players, err
}

// ListPlayersByTeam returns a team's players, oldest first.
func (s *Store) ListPlayersByTeam(ctx context.Context, teamID string) ([]*domain.Player, error) {
	players, err := s.Players.ListByIndex(ctx, indexTeam, teamID)
	sortByCreation(players, playerOrder)
	return players, err
}

// GetGame returns a game by id.
func (s *Store) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	return s.Games.Get(ctx, id)
}

// ListGames returns every game, oldest first.
func (s *Store) ListGames(ctx context.Context) ([]*domain.Game, error) {
	games, err := s.Games.List(ctx)
	sortByCreation(games, gameOrder)
	return games, err
}

// ListGamesByTeam returns a team's games, oldest first.
func (s *Store) ListGamesByTeam(ctx context.Context, teamID string) ([]*domain.Game, error) {
	games, err := s.Games.ListByIndex(ctx, indexTeam, teamID)
	sortByCreation(games, gameOrder)
	return games, err
}

// ListSetsByTeam returns a team's sets ordered by name.
func (s *Store) ListSetsByTeam(ctx context.Context, teamID string) ([]*domain.Set, error) {
	sets, err := s.Sets.ListByIndex(ctx, indexTeam, teamID)
	slices.SortStableFunc(sets, func(a, b *domain.Set) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sets, err
}

func playerOrder(p *domain.Player) (int64, string) { return p.CreatedAt.UnixNano(), p.ID }
func gameOrder(g *domain.Game) (int64, string)     { return g.CreatedAt.UnixNano(), g.ID }

// sortByCreation orders entities by creation time, then id, so callers
// relying on "first in input order" see a stable sequence.
func sortByCreation[T any](items []*T, key func(*T) (int64, string)) {
	slices.SortStableFunc(items, func(a, b *T) int {
		at, aid := key(a)
		bt, bid := key(b)
		if c := cmp.Compare(at, bt); c != 0 {
			return c
		}
		return cmp.Compare(aid, bid)
	})
}
