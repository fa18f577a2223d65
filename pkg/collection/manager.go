// Package collection maintains parent-scoped ordered sequences: a primary
// record per item plus a secondary order index keyed by (rank, id), kept
// consistent through the store's atomic multi-key commits. The set of ids
// reachable via the order index always equals the set of primary records in
// the scope.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"yawt/pkg/apperr"
	"yawt/pkg/keys"
	"yawt/pkg/logger"
	"yawt/pkg/rank"
	"yawt/pkg/store"
)

// orderMarker is the value stored under order index keys; the key itself
// carries all the information.
var orderMarker = []byte("1")

// Ordered is implemented by every record type that participates in a
// manually ordered sequence.
type Ordered[T any] interface {
	OrderID() string
	OrderRank() string
	// WithRank returns a copy of the record carrying a new rank and update
	// timestamp (ms).
	WithRank(rank string, updatedAt int64) T
}

// Manager runs create/list/reorder/delete for one scope's sequence. It does
// no locking of its own; concurrent writers are resolved by the store's
// optimistic commit checks.
type Manager[T Ordered[T]] struct {
	st    *store.Store
	scope keys.Scope
	now   func() int64
}

// New returns a manager for the given scope backed by st.
func New[T Ordered[T]](st *store.Store, scope keys.Scope) *Manager[T] {
	return &Manager[T]{
		st:    st,
		scope: scope,
		now:   func() int64 { return time.Now().UnixMilli() },
	}
}

// Scope returns the scope this manager operates on.
func (m *Manager[T]) Scope() keys.Scope { return m.scope }

// lastRank returns the scope's current maximum rank, found by taking the
// greatest key in the order index.
func (m *Manager[T]) lastRank() (string, error) {
	key, ok, err := m.st.LastKey(m.scope.OrderPrefix())
	if err != nil || !ok {
		return "", err
	}
	r, _, ok := keys.SplitOrderKey(key)
	if !ok {
		return "", fmt.Errorf("malformed order key %q", key)
	}
	return r, nil
}

// Create appends item to the end of the sequence: its rank becomes
// after(last) (or the initial rank for an empty scope) and the record and
// order entry are written atomically. Fails with apperr.ErrConflict when a
// concurrent writer got there first.
func (m *Manager[T]) Create(item T) (T, error) {
	var zero T
	last, err := m.lastRank()
	if err != nil {
		return zero, err
	}
	r := rank.Initial()
	if last != "" {
		if r, err = rank.After(last); err != nil {
			return zero, err
		}
	}
	item = item.WithRank(r, m.now())

	data, err := json.Marshal(item)
	if err != nil {
		return zero, err
	}
	recKey := m.scope.RecordKey(item.OrderID())
	ordKey := m.scope.OrderKey(r, item.OrderID())
	err = m.st.Commit(
		[]store.Check{{Key: recKey}, {Key: ordKey}},
		[]store.Op{
			{Key: recKey, Value: data},
			{Key: ordKey, Value: orderMarker},
		},
	)
	if err != nil {
		return zero, err
	}
	return item, nil
}

// Get returns the item with the given id.
func (m *Manager[T]) Get(id string) (T, error) {
	item, _, err := m.load(id)
	return item, err
}

// Put overwrites the item's primary record without touching its order
// entry. The caller must not have changed the rank; reordering goes through
// Reorder.
func (m *Manager[T]) Put(item T) error {
	cur, raw, err := m.load(item.OrderID())
	if err != nil {
		return err
	}
	if cur.OrderRank() != item.OrderRank() {
		return fmt.Errorf("rank changed outside reorder: %w", apperr.ErrValidation)
	}
	data, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return m.st.Commit(
		[]store.Check{{Key: m.scope.RecordKey(item.OrderID()), Value: raw}},
		[]store.Op{{Key: m.scope.RecordKey(item.OrderID()), Value: data}},
	)
}

// List returns the scope's items in rank order. Index entries whose record
// is missing are skipped; under correct atomic usage that should never
// happen, so each skip is logged and counted.
func (m *Manager[T]) List() ([]T, error) {
	ordKeys, err := m.st.Keys(m.scope.OrderPrefix())
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(ordKeys))
	for _, k := range ordKeys {
		_, id, ok := keys.SplitOrderKey(k)
		if !ok {
			continue
		}
		item, _, err := m.load(id)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				orphanSkips.Inc()
				logger.Warn("order_index_orphan_skipped", "entity", m.scope.Entity, "id", id, "key", k)
				continue
			}
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Reorder moves the item with the given id between its referenced
// neighbours: afterID supplies the lower bound and beforeID the upper
// bound. The old order entry, the updated record, and the new order entry
// are committed as one transaction.
func (m *Manager[T]) Reorder(id, beforeID, afterID string) (T, error) {
	var zero T
	if beforeID == "" && afterID == "" {
		return zero, fmt.Errorf("beforeId or afterId is required: %w", apperr.ErrValidation)
	}
	if beforeID == id || afterID == id {
		return zero, fmt.Errorf("reorder reference cannot equal the moving item: %w", apperr.ErrValidation)
	}

	item, raw, err := m.load(id)
	if err != nil {
		return zero, err
	}

	var lower, upper string
	if afterID != "" {
		after, _, err := m.load(afterID)
		if err != nil {
			return zero, fmt.Errorf("afterId: %w", err)
		}
		lower = after.OrderRank()
	}
	if beforeID != "" {
		before, _, err := m.load(beforeID)
		if err != nil {
			return zero, fmt.Errorf("beforeId: %w", err)
		}
		upper = before.OrderRank()
	}

	// With a single anchor the open side must close on the anchor's
	// neighbour in the order index, otherwise the item could land past
	// unrelated entries instead of adjacent to the anchor.
	if afterID == "" {
		prev, _, err := m.adjacent(upper, beforeID, id)
		if err != nil {
			return zero, err
		}
		lower = prev
	} else if beforeID == "" {
		_, next, err := m.adjacent(lower, afterID, id)
		if err != nil {
			return zero, err
		}
		upper = next
	}

	newRank, err := rank.Between(lower, upper)
	if err != nil {
		return zero, err
	}
	updated := item.WithRank(newRank, m.now())
	data, err := json.Marshal(updated)
	if err != nil {
		return zero, err
	}

	recKey := m.scope.RecordKey(id)
	err = m.st.Commit(
		[]store.Check{{Key: recKey, Value: raw}},
		[]store.Op{
			{Key: m.scope.OrderKey(item.OrderRank(), id), Delete: true},
			{Key: recKey, Value: data},
			{Key: m.scope.OrderKey(newRank, id), Value: orderMarker},
		},
	)
	if err != nil {
		return zero, err
	}
	return updated, nil
}

// Delete removes the item's record and order entry atomically. Deleted ids
// are terminal; they are never reused.
func (m *Manager[T]) Delete(id string) error {
	item, raw, err := m.load(id)
	if err != nil {
		return err
	}
	recKey := m.scope.RecordKey(id)
	return m.st.Commit(
		[]store.Check{{Key: recKey, Value: raw}},
		[]store.Op{
			{Key: recKey, Delete: true},
			{Key: m.scope.OrderKey(item.OrderRank(), id), Delete: true},
		},
	)
}

// Empty reports whether the scope's order index has no entries. Parent
// deletes use this as their not-empty guard.
func (m *Manager[T]) Empty() (bool, error) {
	has, err := m.st.HasPrefix(m.scope.OrderPrefix())
	return !has, err
}

// adjacent returns the ranks of the order entries directly before and after
// the anchor's entry, skipping the item being moved. Either side is "" when
// the anchor borders the edge of the sequence (or when the anchor's index
// entry is missing, which degrades to the open bound).
func (m *Manager[T]) adjacent(anchorRank, anchorID, movingID string) (prev, next string, err error) {
	ks, err := m.st.Keys(m.scope.OrderPrefix())
	if err != nil {
		return "", "", err
	}
	anchorKey := m.scope.OrderKey(anchorRank, anchorID)
	for i, k := range ks {
		if k != anchorKey {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if r, sid, ok := keys.SplitOrderKey(ks[j]); ok && sid != movingID {
				prev = r
				break
			}
		}
		for j := i + 1; j < len(ks); j++ {
			if r, sid, ok := keys.SplitOrderKey(ks[j]); ok && sid != movingID {
				next = r
				break
			}
		}
		break
	}
	return prev, next, nil
}

func (m *Manager[T]) load(id string) (T, []byte, error) {
	var zero T
	raw, err := m.st.Get(m.scope.RecordKey(id))
	if err != nil {
		return zero, nil, err
	}
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return zero, nil, fmt.Errorf("decode %s %s: %w", m.scope.Entity, id, err)
	}
	return item, raw, nil
}
