package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Entity provides generic CRUD operations for any domain type.
type Entity[T any] struct {
	store   *Store
	prefix  string
	idOf    func(*T) string
	indexes []Index[T]
}

// Index defines a non-unique secondary index on an entity. Each index entry
// is its own key (prefix + "idx:" + name + ":" + value + ":" + id) so many
// entities can share a value.
type Index[T any] struct {
	name   string
	keyGen func(*T) []string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Store, prefix string, idOf func(*T) string) *Entity[T] {
	return &Entity[T]{
		store:  s,
		prefix: prefix,
		idOf:   idOf,
	}
}

// WithIndex adds a secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, keyGen: keyGen})
	return e
}

func (e *Entity[T]) key(id string) []byte {
	return []byte(e.prefix + id)
}

func (e *Entity[T]) indexPrefix(name, value string) string {
	return e.prefix + "idx:" + name + ":" + value + ":"
}

// Create creates a new entity. Returns ErrAlreadyExists if the id is taken.
func (e *Entity[T]) Create(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.store.db.Update(func(txn *badger.Txn) error {
		return e.createTxn(txn, entity)
	})
}

// Get retrieves an entity by ID. Returns ErrNotFound if it does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out *T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = e.getTxn(txn, id)
		return err
	})
	return out, err
}

// Put creates or replaces an entity, keeping its indexes in step.
func (e *Entity[T]) Put(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.store.db.Update(func(txn *badger.Txn) error {
		return e.putTxn(txn, entity)
	})
}

// Delete deletes an entity by ID.
// This operation is idempotent - it does not return an error if the entity does not exist.
func (e *Entity[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.store.db.Update(func(txn *badger.Txn) error {
		return e.deleteTxn(txn, id)
	})
}

// List returns every entity.
func (e *Entity[T]) List(ctx context.Context) ([]*T, error) {
	var out []*T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = e.listTxn(ctx, txn)
		return err
	})
	return out, err
}

// ListByIndex returns every entity whose index name carries value.
func (e *Entity[T]) ListByIndex(ctx context.Context, name, value string) ([]*T, error) {
	var out []*T
	err := e.store.db.View(func(txn *badger.Txn) error {
		var err error
		out, err = e.listByIndexTxn(ctx, txn, name, value)
		return err
	})
	return out, err
}

func (e *Entity[T]) createTxn(txn *badger.Txn, entity *T) error {
	id := e.idOf(entity)
	if id == "" {
		return fmt.Errorf("entity id is empty: %w", ErrInvalidInput)
	}
	_, err := txn.Get(e.key(id))
	if err == nil {
		return fmt.Errorf("%s%s: %w", e.prefix, id, ErrAlreadyExists)
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("failed to check existing key: %w", err)
	}
	return e.writeTxn(txn, id, entity, nil)
}

func (e *Entity[T]) getTxn(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get(e.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%s%s: %w", e.prefix, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var entity T
	err = item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, &entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (e *Entity[T]) existsTxn(txn *badger.Txn, id string) (bool, error) {
	_, err := txn.Get(e.key(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (e *Entity[T]) putTxn(txn *badger.Txn, entity *T) error {
	id := e.idOf(entity)
	if id == "" {
		return fmt.Errorf("entity id is empty: %w", ErrInvalidInput)
	}
	old, err := e.getTxn(txn, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return e.writeTxn(txn, id, entity, old)
}

// writeTxn stores entity and replaces the index entries of old, if any.
func (e *Entity[T]) writeTxn(txn *badger.Txn, id string, entity, old *T) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	if old != nil {
		if err := e.deleteIndexesTxn(txn, id, old); err != nil {
			return err
		}
	}

	if err := txn.Set(e.key(id), data); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	for _, idx := range e.indexes {
		for _, value := range idx.keyGen(entity) {
			if err := txn.Set([]byte(e.indexPrefix(idx.name, value)+id), nil); err != nil {
				return fmt.Errorf("failed to set index key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) deleteIndexesTxn(txn *badger.Txn, id string, entity *T) error {
	for _, idx := range e.indexes {
		for _, value := range idx.keyGen(entity) {
			if err := txn.Delete([]byte(e.indexPrefix(idx.name, value) + id)); err != nil {
				return fmt.Errorf("failed to delete index key: %w", err)
			}
		}
	}
	return nil
}

func (e *Entity[T]) deleteTxn(txn *badger.Txn, id string) error {
	entity, err := e.getTxn(txn, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := e.deleteIndexesTxn(txn, id, entity); err != nil {
		return err
	}
	if err := txn.Delete(e.key(id)); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}

func (e *Entity[T]) listTxn(ctx context.Context, txn *badger.Txn) ([]*T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(e.prefix)

	it := txn.NewIterator(opts)
	defer it.Close()

	var out []*T
	for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Skip index keys
		key := string(it.Item().Key())
		if strings.HasPrefix(key[len(e.prefix):], "idx:") {
			continue
		}

		var entity T
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &entity)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", key, err)
		}
		out = append(out, &entity)
	}
	return out, nil
}

func (e *Entity[T]) listByIndexTxn(ctx context.Context, txn *badger.Txn, name, value string) ([]*T, error) {
	prefix := []byte(e.indexPrefix(name, value))
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	it := txn.NewIterator(opts)
	var ids []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		ids = append(ids, string(it.Item().Key()[len(prefix):]))
	}
	it.Close()

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entity, err := e.getTxn(txn, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}
