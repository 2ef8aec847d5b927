package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/statewrap/internal/logging"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a fingerprint lock.
const DefaultLockTTL = 30 * time.Second

// GenerateFunc produces the unit for a key on a cache miss.
type GenerateFunc func(ctx context.Context) (*domain.CompilationUnit, error)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager guards a UnitStore with per-key locks.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.UnitStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the distributed lock expiry (default: DefaultLockTTL).
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a cache manager over store.
func NewManager(store ports.UnitStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(key) after unlocking.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// LoadOrGenerate returns the unit stored under key, calling generate on a miss
// and storing its result. hit reports whether the store already held the unit.
// Failed generations are not stored.
func (m *Manager) LoadOrGenerate(ctx context.Context, key string, generate GenerateFunc) (unit *domain.CompilationUnit, hit bool, err error) {
	err = m.WithLock(ctx, key, func(ctx context.Context) error {
		unit, err = m.store.Load(ctx, key)
		if err == nil {
			hit = true
			return nil
		}
		if !errors.Is(err, domain.ErrUnitNotFound) {
			return fmt.Errorf("failed to check unit cache: %w", err)
		}

		unit, err = generate(ctx)
		if err != nil {
			return err
		}
		if err := m.store.Save(ctx, key, unit); err != nil {
			return fmt.Errorf("failed to cache unit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return unit, hit, nil
}

// Invalidate removes the unit stored under key.
func (m *Manager) Invalidate(ctx context.Context, key string) error {
	return m.WithLock(ctx, key, func(ctx context.Context) error {
		return m.store.Delete(ctx, key)
	})
}

// Keys delegates to the store.
func (m *Manager) Keys(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying unit store.
func (m *Manager) Store() ports.UnitStore {
	return m.store
}

// WithLock executes fn while holding the lock for key.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	entry := m.acquire(key)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(key)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, key, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"key", key,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
