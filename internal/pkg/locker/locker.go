// Package locker provides a mutex keyed by string, used to serialise
// read-decide-write sequences per (store, employee, day).
package locker

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// Lock blocks until key is free and returns the matching unlock func.
// Entries are dropped once no goroutine holds or waits on them.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// Len returns the number of live keys.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
