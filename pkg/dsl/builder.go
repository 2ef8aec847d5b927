package dsl

import (
	"fmt"

	"github.com/aretw0/statewrap/pkg/adapters/memory"
	"github.com/aretw0/statewrap/pkg/domain"
)

// Builder manages the construction of one entity description.
type Builder struct {
	entity       domain.Entity
	capabilities map[string]*CapabilityBuilder
	order        []string
}

// New creates a builder for the entity called name.
func New(name string) *Builder {
	return &Builder{
		entity:       domain.Entity{Name: name},
		capabilities: make(map[string]*CapabilityBuilder),
	}
}

// Package sets the package the wrappers are generated into.
func (b *Builder) Package(name string) *Builder {
	b.entity.Package = name
	return b
}

// Doc sets the entity documentation.
func (b *Builder) Doc(doc string) *Builder {
	b.entity.Doc = doc
	return b
}

// Import adds packages referenced by parameter or result types, as "path" or "alias path".
func (b *Builder) Import(imports ...string) *Builder {
	b.entity.Imports = append(b.entity.Imports, imports...)
	return b
}

// TypeParam adds a type parameter forwarded to every wrapper.
// An empty constraint means any.
func (b *Builder) TypeParam(name, constraint string) *Builder {
	b.entity.TypeParams = append(b.entity.TypeParams, domain.TypeParam{Name: name, Constraint: constraint})
	return b
}

// Group declares a group of mutually exclusive states.
// Groups are enumerated in declaration order.
func (b *Builder) Group(name string, states ...string) *Builder {
	b.entity.Groups = append(b.entity.Groups, domain.StateGroup{Name: name, States: states})
	return b
}

// Capability starts the named capability.
// If the capability already exists, it returns the existing builder.
func (b *Builder) Capability(name string) *CapabilityBuilder {
	if cb, ok := b.capabilities[name]; ok {
		return cb
	}
	cb := &CapabilityBuilder{
		capability: domain.Capability{Name: name},
		builder:    b,
	}
	b.capabilities[name] = cb
	b.order = append(b.order, name)
	return cb
}

// Entity returns the description built so far. Capabilities keep declaration order.
func (b *Builder) Entity() domain.Entity {
	e := b.entity
	e.Groups = append([]domain.StateGroup(nil), b.entity.Groups...)
	e.Capabilities = make([]domain.Capability, 0, len(b.order))
	for _, name := range b.order {
		e.Capabilities = append(e.Capabilities, b.capabilities[name].Build())
	}
	return e
}

// Provider compiles builders into an in-memory description provider.
func Provider(builders ...*Builder) (*memory.Provider, error) {
	entities := make([]domain.Entity, 0, len(builders))
	for _, b := range builders {
		entities = append(entities, b.Entity())
	}

	provider, err := memory.NewProvider(entities...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory provider: %w", err)
	}
	return provider, nil
}
