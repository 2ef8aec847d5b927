// Package middleware wraps unit stores with extra behavior.
package middleware

import (
	"context"
	"log/slog"

	"github.com/aretw0/statewrap/internal/logging"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/ports"
)

// Middleware allows wrapping a UnitStore to add behavior.
type Middleware func(ports.UnitStore) ports.UnitStore

// Chain applies mws to store so that the first middleware is the outermost.
func Chain(store ports.UnitStore, mws ...Middleware) ports.UnitStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

type verifyMiddleware struct {
	next   ports.UnitStore
	logger *slog.Logger
}

// Verify drops entries that cannot be trusted: a unit whose fingerprint differs
// from the key it was stored under, or one without wrappers. Such an entry is
// deleted and reported as domain.ErrUnitNotFound so that it gets regenerated.
func Verify(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = logging.NewNop()
	}
	return func(next ports.UnitStore) ports.UnitStore {
		return &verifyMiddleware{next: next, logger: logger}
	}
}

func (m *verifyMiddleware) Save(ctx context.Context, key string, unit *domain.CompilationUnit) error {
	return m.next.Save(ctx, key, unit)
}

func (m *verifyMiddleware) Load(ctx context.Context, key string) (*domain.CompilationUnit, error) {
	unit, err := m.next.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	reason := ""
	switch {
	case unit.Fingerprint != "" && unit.Fingerprint != key:
		reason = "fingerprint mismatch"
	case len(unit.Wrappers) == 0:
		reason = "no wrappers"
	}
	if reason == "" {
		return unit, nil
	}

	m.logger.Warn("Discarding cached unit", "key", key, "entity", unit.Entity, "reason", reason)
	if err := m.next.Delete(ctx, key); err != nil {
		m.logger.Warn("Failed to delete cached unit", "key", key, "err", err)
	}
	return nil, domain.ErrUnitNotFound
}

func (m *verifyMiddleware) Delete(ctx context.Context, key string) error {
	return m.next.Delete(ctx, key)
}

func (m *verifyMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
