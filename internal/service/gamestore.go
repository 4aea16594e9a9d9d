package service

import (
	"context"

	"github.com/akanel15/StatLine-sub001/internal/domain"
	"github.com/akanel15/StatLine-sub001/internal/store"
)

// GameStore is what the live game path needs from persistence.
type GameStore interface {
	GetGame(ctx context.Context, id string) (*domain.Game, error)
	WithTx(ctx context.Context, fn func(GameTx) error) error
}

// GameTx is one unit of work on the live path. SaveGame persists box
// score, totals, periods and set stats together.
type GameTx interface {
	GetGame(ctx context.Context, id string) (*domain.Game, error)
	InsertGame(ctx context.Context, game *domain.Game) error
	SaveGame(ctx context.Context, game *domain.Game) error
	GetSet(ctx context.Context, id string) (*domain.Set, error)
	SaveSet(ctx context.Context, set *domain.Set) error
	TeamExists(ctx context.Context, id string) (bool, error)
	GetPlayer(ctx context.Context, id string) (*domain.Player, error)
	UpdateGamesPlayed(ctx context.Context, batch *domain.GamesPlayedBatch) error
	BatchUpdateStats(ctx context.Context, batch *domain.StatsBatch) error
}

// NewGameStore adapts the badger store to GameStore.
func NewGameStore(s *store.Store) GameStore {
	return badgerGames{s}
}

type badgerGames struct {
	*store.Store
}

func (s badgerGames) WithTx(ctx context.Context, fn func(GameTx) error) error {
	return s.Update(ctx, func(tx *store.Txn) error { return fn(tx) })
}
