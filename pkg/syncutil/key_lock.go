// Package syncutil provides synchronization primitives keyed by string.
package syncutil

import "sync"

// KeyLock provides mutual exclusion per string key. Locks are allocated
// lazily and retained for the lifetime of the KeyLock.
type KeyLock struct {
	locks map[string]*sync.RWMutex
	guard sync.Mutex
}

func NewKeyLock() *KeyLock {
	return &KeyLock{
		locks: map[string]*sync.RWMutex{},
	}
}

func (l *KeyLock) getLock(key string) *sync.RWMutex {
	l.guard.Lock()
	defer l.guard.Unlock()

	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.RWMutex{}
		l.locks[key] = lock
	}

	return lock
}

// Acquire locks key for writing and returns the function that releases it.
func (l *KeyLock) Acquire(key string) func() {
	lock := l.getLock(key)
	lock.Lock()

	return lock.Unlock
}

// AcquireShared locks key for reading and returns the function that releases
// it. Multiple readers may hold the same key concurrently.
func (l *KeyLock) AcquireShared(key string) func() {
	lock := l.getLock(key)
	lock.RLock()

	return lock.RUnlock
}
