// Package store wraps a Pebble database behind the small key-value surface
// the rest of the system needs: point reads/writes, ordered prefix scans,
// and an atomic multi-key commit with optimistic checks. A Store handle is
// constructed once and passed to its consumers explicitly.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"yawt/pkg/apperr"
	"yawt/pkg/logger"
)

type Store struct {
	db   *pebble.DB
	path string

	// mu serializes Commit so its check-then-apply is atomic with respect
	// to other commits on this handle.
	mu sync.Mutex
}

// KV is one scanned key/value pair.
type KV struct {
	Key   string
	Value []byte
}

// Op is one write inside a Commit: a set when Delete is false, otherwise a
// deletion of Key.
type Op struct {
	Key    string
	Value  []byte
	Delete bool
}

// Check is an optimistic precondition for a Commit. A nil Value requires
// the key to be absent; otherwise the stored bytes must equal Value.
type Check struct {
	Key   string
	Value []byte
}

// Open opens (or creates) a Pebble database at the given path.
func Open(path string) (*Store, error) {
	logger.Info("opening_pebble_db", "path", path)
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		logger.Error("pebble_open_failed", "path", path, "error", err)
		return nil, err
	}
	logger.Info("pebble_opened", "path", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	logger.Info("pebble_closed", "path", s.path)
	return nil
}

// Ready reports whether the store is open.
func (s *Store) Ready() bool { return s != nil && s.db != nil }

// Get returns the value for key, or apperr.ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	v, closer, err := s.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("key %s: %w", key, apperr.ErrNotFound)
		}
		return nil, err
	}
	defer closer.Close()
	opsTotal.WithLabelValues("get").Inc()
	return append([]byte(nil), v...), nil
}

// Set stores value under key with a synced write.
func (s *Store) Set(key string, value []byte) error {
	if err := s.db.Set([]byte(key), value, pebble.Sync); err != nil {
		logger.Error("store_set_failed", "key", key, "error", err)
		return err
	}
	opsTotal.WithLabelValues("set").Inc()
	return nil
}

// Delete removes key with a synced write. Deleting an absent key is not an
// error.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		logger.Error("store_delete_failed", "key", key, "error", err)
		return err
	}
	opsTotal.WithLabelValues("delete").Inc()
	return nil
}

// ListPrefix returns all pairs whose key starts with prefix, in key order.
func (s *Store) ListPrefix(prefix string) ([]KV, error) {
	iter, err := s.newPrefixIter(prefix)
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []KV
	for iter.First(); iter.Valid(); iter.Next() {
		out = append(out, KV{
			Key:   string(iter.Key()),
			Value: append([]byte(nil), iter.Value()...),
		})
	}
	opsTotal.WithLabelValues("scan").Inc()
	return out, iter.Error()
}

// Keys returns all keys starting with prefix, in key order.
func (s *Store) Keys(prefix string) ([]string, error) {
	iter, err := s.newPrefixIter(prefix)
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var out []string
	for iter.First(); iter.Valid(); iter.Next() {
		out = append(out, string(iter.Key()))
	}
	opsTotal.WithLabelValues("scan").Inc()
	return out, iter.Error()
}

// LastKey returns the greatest key under prefix, reverse iteration limited
// to one result. ok is false when the prefix is empty.
func (s *Store) LastKey(prefix string) (key string, ok bool, err error) {
	iter, err := s.newPrefixIter(prefix)
	if err != nil {
		return "", false, err
	}
	defer iter.Close()
	if !iter.Last() {
		return "", false, iter.Error()
	}
	opsTotal.WithLabelValues("scan").Inc()
	return string(iter.Key()), true, iter.Error()
}

// HasPrefix reports whether at least one key starts with prefix.
func (s *Store) HasPrefix(prefix string) (bool, error) {
	iter, err := s.newPrefixIter(prefix)
	if err != nil {
		return false, err
	}
	defer iter.Close()
	return iter.First(), iter.Error()
}

// Commit applies ops as one synced atomic batch after verifying every
// check. A failed check returns apperr.ErrConflict and nothing is applied.
// Partial application is never observable: Pebble batches are atomic and
// the check+apply runs under the store's commit lock.
func (s *Store) Commit(checks []Check, ops []Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range checks {
		cur, closer, err := s.db.Get([]byte(c.Key))
		switch {
		case errors.Is(err, pebble.ErrNotFound):
			if c.Value != nil {
				commitConflicts.Inc()
				return fmt.Errorf("key %s vanished: %w", c.Key, apperr.ErrConflict)
			}
		case err != nil:
			return err
		default:
			match := c.Value != nil && bytes.Equal(cur, c.Value)
			closer.Close()
			if !match {
				commitConflicts.Inc()
				return fmt.Errorf("key %s changed: %w", c.Key, apperr.ErrConflict)
			}
		}
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	for _, op := range ops {
		if op.Delete {
			if err := batch.Delete([]byte(op.Key), nil); err != nil {
				return err
			}
			continue
		}
		if err := batch.Set([]byte(op.Key), op.Value, nil); err != nil {
			return err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		logger.Error("store_commit_failed", "ops", len(ops), "error", err)
		return err
	}
	opsTotal.WithLabelValues("commit").Inc()
	return nil
}

func (s *Store) newPrefixIter(prefix string) (*pebble.Iterator, error) {
	if s.db == nil {
		return nil, fmt.Errorf("store not opened; call store.Open first")
	}
	lo := []byte(prefix)
	return s.db.NewIter(&pebble.IterOptions{
		LowerBound: lo,
		UpperBound: prefixUpperBound(lo),
	})
}

// prefixUpperBound returns the smallest key greater than every key with the
// given prefix, or nil when no such bound exists (all-0xff prefix).
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
