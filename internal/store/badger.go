package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/user/streamflix-go/internal/config"
)

// BadgerStore is the on-device fallback backend: an embedded key-value
// database holding a non-authoritative mirror of the remote tree plus
// device-only state (watchlist, selected entry).
type BadgerStore struct {
	db *badger.DB
	*notifier
}

// NewBadgerStore opens (or creates) the local store
func NewBadgerStore(cfg *config.LocalConfig) (*BadgerStore, error) {
	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	s := &BadgerStore{db: db}
	s.notifier = newNotifier(snapshotWith(s))
	return s, nil
}

// Get returns the value stored at an exact path
func (s *BadgerStore) Get(ctx context.Context, p string) (json.RawMessage, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(p))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get local record: %w", err)
	}
	return json.RawMessage(value), nil
}

// Set writes the full value at a path, creating or replacing it
func (s *BadgerStore) Set(ctx context.Context, p string, value json.RawMessage) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(p), value)
	})
	if err != nil {
		return fmt.Errorf("failed to set local record: %w", err)
	}

	s.dispatch(ctx, p)
	return nil
}

// Merge shallow-merges fields into the object stored at a path
func (s *BadgerStore) Merge(ctx context.Context, p string, fields map[string]json.RawMessage) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(p))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		merged, err := mergeRaw(raw, fields)
		if err != nil {
			return err
		}
		return txn.Set([]byte(p), merged)
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to merge local record: %w", err)
	}

	s.dispatch(ctx, p)
	return nil
}

// SetField sets one field of the object stored at a path
func (s *BadgerStore) SetField(ctx context.Context, p string, field string, value json.RawMessage) error {
	if err := s.Merge(ctx, p, map[string]json.RawMessage{field: value}); err != nil {
		return err
	}
	s.dispatch(ctx, p+"/"+field)
	return nil
}

// Delete removes the record at a path and any descendants. Deleting a
// missing path succeeds, so deletes stay idempotent on the fallback side.
func (s *BadgerStore) Delete(ctx context.Context, p string) error {
	prefix := []byte(p + "/")
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(p)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix})
		defer it.Close()

		var descendants [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			descendants = append(descendants, it.Item().KeyCopy(nil))
		}
		for _, key := range descendants {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete local record: %w", err)
	}

	s.dispatch(ctx, p)
	return nil
}

// List returns the direct children of a path
func (s *BadgerStore) List(ctx context.Context, prefix string) ([]Record, error) {
	keyPrefix := []byte(prefix + "/")
	var records []Record

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         keyPrefix,
			PrefetchValues: true,
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)

			// Direct children only
			rest := bytes.TrimPrefix(key, keyPrefix)
			if bytes.ContainsRune(rest, '/') {
				continue
			}

			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			records = append(records, Record{
				Key:   string(rest),
				Path:  string(key),
				Value: json.RawMessage(value),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list local records: %w", err)
	}
	return records, nil
}

// Push inserts a value under a collection path. Local keys follow the
// <hint>_<unix-ms>_<random> pattern so they never collide with
// server-generated keys.
func (s *BadgerStore) Push(ctx context.Context, prefix string, hint string, value json.RawMessage) (string, error) {
	if hint == "" {
		hint = lastSegment(prefix)
	}
	key := NewLocalID(hint, time.Now())
	if err := s.Set(ctx, prefix+"/"+key, value); err != nil {
		return "", err
	}
	return key, nil
}

// Ping reports whether the local store is usable
func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return fmt.Errorf("local store is closed")
	}
	return nil
}

// Close closes the local store
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func lastSegment(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
