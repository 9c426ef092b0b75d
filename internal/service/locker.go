package service

import "sync"

// IDLocker serializes work per solicitud id. Unrelated ids never block each other.
type IDLocker struct {
	mu    sync.Mutex
	locks map[uint]*idLock
}

type idLock struct {
	mu   sync.Mutex
	refs int
}

func NewIDLocker() *IDLocker {
	return &IDLocker{locks: make(map[uint]*idLock)}
}

// Lock blocks until id is free and returns the matching unlock func
func (l *IDLocker) Lock(id uint) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &idLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
