package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/akanel15/StatLine-sub001/internal/domain"
)

// BatchWriter provides efficient bulk write operations using BadgerDB's WriteBatch.
// Writes are not transactional as a whole; it is meant for idempotent
// rewrites such as set-stat migrations, which can simply be run again.
type BatchWriter struct {
	store     *Store
	batch     *badger.WriteBatch
	maxSize   int
	count     int
	autoFlush bool
}

// NewBatchWriter creates a new batch writer that will auto-flush when maxSize is reached
func (s *Store) NewBatchWriter(maxSize int) *BatchWriter {
	return &BatchWriter{
		store:     s,
		batch:     s.db.NewWriteBatch(),
		maxSize:   maxSize,
		autoFlush: maxSize > 0,
	}
}

// PutGame adds a rewritten game to the batch. The game's team must not
// have changed since it was read.
func (b *BatchWriter) PutGame(ctx context.Context, game *domain.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}

	if err := b.batch.Set([]byte(gamePrefix+game.ID), data); err != nil {
		return fmt.Errorf("batch set game: %w", err)
	}
	indexKey := b.store.Games.indexPrefix(indexTeam, game.TeamID) + game.ID
	if err := b.batch.Set([]byte(indexKey), nil); err != nil {
		return fmt.Errorf("batch set team index: %w", err)
	}

	b.count++

	if b.autoFlush && b.count >= b.maxSize {
		if err := b.Flush(); err != nil {
			return fmt.Errorf("auto flush: %w", err)
		}
	}
	return nil
}

// Flush commits all pending writes in the batch
func (b *BatchWriter) Flush() error {
	if b.count == 0 {
		return nil
	}

	if err := b.batch.Flush(); err != nil {
		return fmt.Errorf("flush batch: %w", err)
	}

	b.store.logger.LogAttrs(context.Background(), slog.LevelInfo, "batch flushed",
		slog.Int("count", b.count),
	)

	b.count = 0
	b.batch = b.store.db.NewWriteBatch()
	return nil
}

// Cancel discards all pending writes in the batch
func (b *BatchWriter) Cancel() {
	b.batch.Cancel()
	b.count = 0
}

// Count returns the number of operations in the current batch
func (b *BatchWriter) Count() int {
	return b.count
}
