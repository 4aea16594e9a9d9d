package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	backupimport "github.com/akanel15/StatLine-sub001/internal/backup/import"
	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// Txn is one Badger transaction with typed accessors.
type Txn struct {
	store *Store
	txn   *badger.Txn
}

// GetTeam returns a team by id.
func (t *Txn) GetTeam(_ context.Context, id string) (*domain.Team, error) {
	return t.store.Teams.getTxn(t.txn, id)
}

// ListTeams returns every team, oldest first.
func (t *Txn) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	teams, err := t.store.Teams.listTxn(ctx, t.txn)
	sortByCreation(teams, func(tm *domain.Team) (int64, string) { return tm.CreatedAt.UnixNano(), tm.ID })
	return teams, err
}

// TeamExists reports whether a team id is present.
func (t *Txn) TeamExists(_ context.Context, id string) (bool, error) {
	return t.store.Teams.existsTxn(t.txn, id)
}

// CreateTeam stores a new team.
func (t *Txn) CreateTeam(_ context.Context, team *domain.Team) error {
	return t.store.Teams.createTxn(t.txn, team)
}

// GetPlayer returns a player by id.
func (t *Txn) GetPlayer(_ context.Context, id string) (*domain.Player, error) {
	return t.store.Players.getTxn(t.txn, id)
}

// PlayerExists reports whether a player id is present.
func (t *Txn) PlayerExists(_ context.Context, id string) (bool, error) {
	return t.store.Players.existsTxn(t.txn, id)
}

// CreatePlayer stores a new player.
func (t *Txn) CreatePlayer(_ context.Context, player *domain.Player) error {
	return t.store.Players.createTxn(t.txn, player)
}

// GetGame returns a game by id.
func (t *Txn) GetGame(_ context.Context, id string) (*domain.Game, error) {
	return t.store.Games.getTxn(t.txn, id)
}

// InsertGame stores a new game.
func (t *Txn) InsertGame(_ context.Context, game *domain.Game) error {
	return t.store.Games.createTxn(t.txn, game)
}

// SaveGame persists a game with its box score, totals, periods and set
// stats in one write.
func (t *Txn) SaveGame(_ context.Context, game *domain.Game) error {
	return t.store.Games.putTxn(t.txn, game)
}

// GetSet returns a team-level set by id.
func (t *Txn) GetSet(_ context.Context, id string) (*domain.Set, error) {
	return t.store.Sets.getTxn(t.txn, id)
}

// SaveSet creates or replaces a team-level set.
func (t *Txn) SaveSet(_ context.Context, set *domain.Set) error {
	return t.store.Sets.putTxn(t.txn, set)
}

// UpdateGamesPlayed adds game counters to teams and players. Ids that no
// longer exist are skipped.
func (t *Txn) UpdateGamesPlayed(ctx context.Context, batch *domain.GamesPlayedBatch) error {
	for id, n := range batch.Teams {
		err := t.updateTeam(ctx, id, func(team *domain.Team) { team.GameNumbers.Add(n) })
		if err != nil {
			return err
		}
	}
	for id, n := range batch.Players {
		err := t.updatePlayer(ctx, id, func(p *domain.Player) { p.GameNumbers.Add(n) })
		if err != nil {
			return err
		}
	}
	return nil
}

// BatchUpdateStats adds cumulative stat increments to teams and players in
// one pass. Ids that no longer exist are skipped.
func (t *Txn) BatchUpdateStats(ctx context.Context, batch *domain.StatsBatch) error {
	for id, totals := range batch.Teams {
		err := t.updateTeam(ctx, id, func(team *domain.Team) {
			team.Stats.Us.Merge(totals.Us, 1)
			team.Stats.Opponent.Merge(totals.Opponent, 1)
		})
		if err != nil {
			return err
		}
	}
	for id, bag := range batch.Players {
		err := t.updatePlayer(ctx, id, func(p *domain.Player) { p.Stats.Merge(bag, 1) })
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Txn) updateTeam(ctx context.Context, id string, fn func(*domain.Team)) error {
	team, err := t.GetTeam(ctx, id)
	if errors.Is(err, ErrNotFound) {
		t.store.logger.Warn("skipping update of missing team", "team_id", id)
		return nil
	}
	if err != nil {
		return err
	}
	fn(team)
	if err := t.store.Teams.putTxn(t.txn, team); err != nil {
		return fmt.Errorf("update team %s: %w", id, err)
	}
	return nil
}

func (t *Txn) updatePlayer(ctx context.Context, id string, fn func(*domain.Player)) error {
	player, err := t.GetPlayer(ctx, id)
	if errors.Is(err, ErrNotFound) {
		t.store.logger.Warn("skipping update of missing player", "player_id", id)
		return nil
	}
	if err != nil {
		return err
	}
	fn(player)
	if err := t.store.Players.putTxn(t.txn, player); err != nil {
		return fmt.Errorf("update player %s: %w", id, err)
	}
	return nil
}

// ImportStore adapts the store to the import engine's contracts.
func (s *Store) ImportStore() backupimport.Store {
	return importStore{s}
}

type importStore struct {
	*Store
}

func (s importStore) WithTx(ctx context.Context, fn func(backupimport.Tx) error) error {
	return s.Update(ctx, func(tx *Txn) error { return fn(tx) })
}
