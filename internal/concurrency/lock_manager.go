package concurrency

import (
	"sync"
)

// LockManager hands out named mutexes. The session layer takes one lock
// per profile so every engine operation for that profile runs serialized,
// which is the concurrency model the progression engine assumes.
type LockManager struct {
	locks sync.Map
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLock returns the mutex for the given key, creating it on first use.
// Locks are never discarded; the live key set is bounded by the number of
// profiles seen during the process lifetime.
func (lm *LockManager) GetLock(key string) *sync.Mutex {
	lock, _ := lm.locks.LoadOrStore(key, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// WithLock runs fn while holding the key's mutex.
func (lm *LockManager) WithLock(key string, fn func()) {
	lock := lm.GetLock(key)
	lock.Lock()
	defer lock.Unlock()
	fn()
}
