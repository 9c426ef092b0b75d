// Package memory holds process-local implementations of the repository
// interfaces. State lives as long as the process does.
package memory

import (
	"context"
	"sync"
)

// table is a generic id-keyed store. Records keep insertion order and are
// copied on the way in and out, so callers never share memory with it.
type table[T any] struct {
	mu     sync.RWMutex
	rows   map[uint]*T
	order  []uint
	nextID uint
	id     func(*T) *uint
	clone  func(*T) *T
}

func newTable[T any](id func(*T) *uint, clone func(*T) *T) *table[T] {
	return &table[T]{
		rows:  make(map[uint]*T),
		id:    id,
		clone: clone,
	}
}

// insert assigns the next id and runs assign under the same lock before
// storing, so derived values such as codes are allocated atomically.
func (t *table[T]) insert(v *T, assign func(v *T, id uint)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	*t.id(v) = t.nextID
	if assign != nil {
		assign(v, t.nextID)
	}
	t.rows[t.nextID] = t.clone(v)
	t.order = append(t.order, t.nextID)
}

func (t *table[T]) get(id uint) (*T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	if !ok {
		return nil, false
	}
	return t.clone(v), true
}

// replace overwrites an existing record; assign may fill in nested ids
func (t *table[T]) replace(v *T, assign func(v *T)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := *t.id(v)
	if _, ok := t.rows[id]; !ok {
		return false
	}
	if assign != nil {
		assign(v)
	}
	t.rows[id] = t.clone(v)
	return true
}

func (t *table[T]) remove(id uint) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, have := range t.order {
		if have == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// find returns copies of matching records in insertion order
func (t *table[T]) find(match func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		v := t.rows[id]
		if match == nil || match(v) {
			out = append(out, *t.clone(v))
		}
	}
	return out
}

// first returns a copy of the first record satisfying match
func (t *table[T]) first(match func(*T) bool) (*T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, id := range t.order {
		if v := t.rows[id]; match(v) {
			return t.clone(v), true
		}
	}
	return nil, false
}

func (t *table[T]) count() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return int64(len(t.rows))
}

// TransactionManager runs fn directly. The memory driver has no rollback;
// services finish all checks before their first write.
type TransactionManager struct{}

func NewTransactionManager() *TransactionManager {
	return &TransactionManager{}
}

func (TransactionManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}
