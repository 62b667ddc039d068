package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/GameDevClicker_Go/internal/concurrency"
	"github.com/osse101/GameDevClicker_Go/internal/game"
	"github.com/osse101/GameDevClicker_Go/internal/logger"
	"github.com/osse101/GameDevClicker_Go/internal/worker"
)

// ErrClosed is returned for any session operation after Close.
var ErrClosed = errors.New(ErrMsgManagerClosed)

// Factory builds a fresh engine for a profile. The manager calls it on
// cache miss and then loads the profile's saved progress into it.
type Factory func(profileID string) *game.Engine

// Config sizes the session cache.
type Config struct {
	// MaxSessions bounds how many engines stay resident. The least
	// recently used one is saved and dropped when the bound is hit.
	MaxSessions int
	// TTL is how long an idle session stays resident before it is saved
	// and dropped.
	TTL time.Duration
}

// Manager keeps one live engine per active profile. Engines are cached in
// an expiring LRU; whatever falls out of the cache is saved before it is
// forgotten, so an eviction is never data loss. All engine access goes
// through WithSession, which serializes operations per profile.
type Manager struct {
	factory Factory
	pool    *worker.Pool
	locks   *concurrency.LockManager
	lru     *expirable.LRU[string, *game.Engine]

	// mu guards pending and closed. Never held across lru calls: the
	// eviction callback runs inside the lru's own lock and takes mu.
	mu      sync.Mutex
	pending map[string]*game.Engine
	closed  bool
}

// NewManager creates a session manager. Evicted sessions are saved on the
// given worker pool.
func NewManager(cfg Config, factory Factory, pool *worker.Pool) *Manager {
	m := &Manager{
		factory: factory,
		pool:    pool,
		locks:   concurrency.NewLockManager(),
		pending: make(map[string]*game.Engine),
	}
	m.lru = expirable.NewLRU[string, *game.Engine](cfg.MaxSessions, m.onEvict, cfg.TTL)
	return m
}

// WithSession runs fn against the profile's engine while holding the
// profile's lock. The session is created and loaded on first use.
func (m *Manager) WithSession(ctx context.Context, profileID string, fn func(*game.Engine) error) error {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return ErrClosed
	}

	var err error
	m.locks.WithLock(profileID, func() {
		var eng *game.Engine
		eng, err = m.engine(ctx, profileID)
		if err != nil {
			return
		}
		err = fn(eng)
	})
	return err
}

// Len reports how many sessions are resident.
func (m *Manager) Len() int {
	return m.lru.Len()
}

// engine returns the profile's live engine, creating and loading one on
// miss. Caller must hold the profile lock.
func (m *Manager) engine(ctx context.Context, profileID string) (*game.Engine, error) {
	if eng, ok := m.lru.Get(profileID); ok {
		return eng, nil
	}

	// An engine evicted moments ago may not have been saved yet. Re-adopt
	// it instead of loading a stale copy from storage.
	m.mu.Lock()
	if eng, ok := m.pending[profileID]; ok {
		delete(m.pending, profileID)
		m.mu.Unlock()
		logger.FromContext(ctx).Debug(LogMsgSessionReadopted, "profile_id", profileID)
		m.lru.Add(profileID, eng)
		return eng, nil
	}
	m.mu.Unlock()

	eng := m.factory(profileID)
	if _, err := eng.Load(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadSession, err)
	}
	m.lru.Add(profileID, eng)
	logger.FromContext(ctx).Info(LogMsgSessionOpened,
		"profile_id", profileID,
		"resident", m.lru.Len())
	return eng, nil
}

// onEvict queues a save for an engine dropped by the LRU. Runs inside the
// lru's internal lock, so it must not call back into the lru or block.
func (m *Manager) onEvict(profileID string, eng *game.Engine) {
	m.mu.Lock()
	if m.closed {
		// Close saves every session itself.
		m.mu.Unlock()
		return
	}
	m.pending[profileID] = eng
	m.mu.Unlock()

	job := worker.JobFunc(func(ctx context.Context) error {
		return m.flushPending(ctx, profileID, eng)
	})
	if !m.pool.Enqueue(job) {
		// Queue full or pool stopped. Save on a throwaway goroutine
		// rather than drop progress.
		go func() {
			if err := m.flushPending(context.Background(), profileID, eng); err != nil {
				logger.FromContext(context.Background()).Error(LogMsgEvictionSaveError,
					"profile_id", profileID, "error", err)
			}
		}()
		return
	}
	logger.FromContext(context.Background()).Debug(LogMsgSessionEvicted, "profile_id", profileID)
}

// flushPending writes an evicted engine's state, unless a live session
// re-adopted it first.
func (m *Manager) flushPending(ctx context.Context, profileID string, eng *game.Engine) error {
	var err error
	m.locks.WithLock(profileID, func() {
		m.mu.Lock()
		cur, ok := m.pending[profileID]
		if !ok || cur != eng {
			// Re-adopted; the live session's own saves cover it now.
			m.mu.Unlock()
			return
		}
		delete(m.pending, profileID)
		m.mu.Unlock()

		if err = eng.Save(ctx); err != nil {
			logger.FromContext(ctx).Error(LogMsgEvictionSaveError,
				"profile_id", profileID, "error", err)
		}
	})
	return err
}

// Sweep saves every resident session. Scheduled as the periodic autosave;
// also safe to call ad hoc.
func (m *Manager) Sweep(ctx context.Context) (saved, failed int) {
	for _, profileID := range m.lru.Keys() {
		eng, ok := m.lru.Peek(profileID)
		if !ok {
			continue
		}
		var err error
		m.locks.WithLock(profileID, func() {
			err = eng.Save(ctx)
		})
		if err != nil {
			failed++
			logger.FromContext(ctx).Warn(LogMsgSweepSaveError,
				"profile_id", profileID, "error", err)
			continue
		}
		saved++
	}
	if saved > 0 || failed > 0 {
		logger.FromContext(ctx).Debug(LogMsgSweepDone, "saved", saved, "failed", failed)
	}
	return saved, failed
}

// Refresh rebuilds every resident session's derived values against the
// currently loaded balance tables. Called after a balance reload so live
// sessions pick up the new numbers without waiting for their next unlock.
func (m *Manager) Refresh(ctx context.Context) int {
	refreshed := 0
	for _, profileID := range m.lru.Keys() {
		eng, ok := m.lru.Peek(profileID)
		if !ok {
			continue
		}
		m.locks.WithLock(profileID, func() {
			eng.RefreshDerived(ctx)
		})
		refreshed++
	}
	return refreshed
}

// Close saves every resident and pending session synchronously and stops
// the manager. Call after the HTTP server has stopped accepting requests.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	var firstErr error
	for _, profileID := range m.lru.Keys() {
		eng, ok := m.lru.Peek(profileID)
		if !ok {
			continue
		}
		var err error
		m.locks.WithLock(profileID, func() {
			err = eng.Save(ctx)
		})
		if err != nil {
			logger.FromContext(ctx).Error(LogMsgCloseSaveError,
				"profile_id", profileID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	// Evictions that raced with shutdown may still be waiting on the pool.
	m.mu.Lock()
	leftover := make(map[string]*game.Engine, len(m.pending))
	for profileID, eng := range m.pending {
		leftover[profileID] = eng
	}
	m.mu.Unlock()
	for profileID, eng := range leftover {
		if err := m.flushPending(ctx, profileID, eng); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	m.lru.Purge()
	return firstErr
}
