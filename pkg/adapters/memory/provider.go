package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Provider implements ports.DescriptionProvider using an in-memory map.
type Provider struct {
	entities map[string][]byte
}

// NewProvider creates a Provider from domain objects.
// Descriptions are serialized on the way in so later edits by the caller do not leak.
func NewProvider(entities ...domain.Entity) (*Provider, error) {
	data := make(map[string][]byte, len(entities))
	for _, e := range entities {
		if e.Name == "" {
			return nil, fmt.Errorf("entity missing name")
		}
		if _, dup := data[e.Name]; dup {
			return nil, fmt.Errorf("entity %s registered twice", e.Name)
		}
		bytes, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal entity %s: %w", e.Name, err)
		}
		data[e.Name] = bytes
	}
	return &Provider{entities: data}, nil
}

// Describe returns a fresh copy of the named entity.
func (p *Provider) Describe(ctx context.Context, name string) (*domain.Entity, error) {
	raw, ok := p.entities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntityNotFound, name)
	}
	var e domain.Entity
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity %s: %w", name, err)
	}
	return &e, nil
}

// List returns all entity names.
func (p *Provider) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(p.entities))
	for k := range p.entities {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
