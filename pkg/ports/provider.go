package ports

import (
	"context"

	"github.com/aretw0/statewrap/pkg/domain"
)

// DescriptionProvider defines how the engine retrieves entity descriptions.
// This allows the description source (Loam, files, Memory) to be decoupled.
type DescriptionProvider interface {
	// Describe returns the description of the named entity.
	// Returns domain.ErrEntityNotFound if the provider does not know it.
	Describe(ctx context.Context, name string) (*domain.Entity, error)

	// List returns the names of every entity the provider can describe, sorted.
	// This is used for batch generation and introspection (e.g. 'statewrap list').
	List(ctx context.Context) ([]string, error)
}
