package store

import "sync"

// Keyed hands out one mutex per key; different keys never block each other.
type Keyed[K comparable] struct {
	mu    sync.Mutex
	byKey map[K]*sync.Mutex
}

func NewKeyed[K comparable]() *Keyed[K] {
	return &Keyed[K]{byKey: make(map[K]*sync.Mutex)}
}

// Lock blocks until key is free and returns the unlock func.
func (l *Keyed[K]) Lock(key K) func() {
	l.mu.Lock()
	m, ok := l.byKey[key]
	if !ok {
		m = &sync.Mutex{}
		l.byKey[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return func() { m.Unlock() }
}

// KeyLocks serialises read-modify-write cycles on one collection key.
type KeyLocks = Keyed[string]

func NewKeyLocks() *KeyLocks { return NewKeyed[string]() }
