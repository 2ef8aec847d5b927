package ports

import (
	"context"

	"github.com/aretw0/statewrap/pkg/domain"
)

// UnitStore defines the interface for caching generated compilation units.
// Keys are description fingerprints, so a stored unit never goes stale.
type UnitStore interface {
	// Save persists the unit under key.
	Save(ctx context.Context, key string, unit *domain.CompilationUnit) error

	// Load retrieves the unit stored under key.
	// Returns domain.ErrUnitNotFound if nothing is stored.
	Load(ctx context.Context, key string) (*domain.CompilationUnit, error)

	// Delete removes the unit stored under key.
	Delete(ctx context.Context, key string) error

	// List returns every stored key.
	List(ctx context.Context) ([]string, error)
}
