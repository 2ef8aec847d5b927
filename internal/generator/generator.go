// Package generator drives the whole expansion of an entity description into a
// compilation unit: group validation, permutation enumeration, per-permutation
// assembly and successor linking.
package generator

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/statewrap/internal/assembler"
	"github.com/aretw0/statewrap/internal/permutation"
	"github.com/aretw0/statewrap/internal/resolver"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/relation"
)

// Generator expands entity descriptions. It holds no per-entity state and is safe for concurrent use.
type Generator struct {
	relations *relation.Registry
	workers   int
	suffix    string
	limit     int
	hooks     domain.LifecycleHooks
}

// DefaultMaxPermutations bounds the wrappers generated for a single entity.
const DefaultMaxPermutations = 1 << 16

// Option configures a Generator.
type Option func(*Generator)

// WithRelations sets the relation registry (default: relation.Default()).
func WithRelations(r *relation.Registry) Option {
	return func(g *Generator) {
		if r != nil {
			g.relations = r
		}
	}
}

// WithWorkers bounds the number of permutations assembled concurrently.
// One reproduces the sequential reference behavior.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithNameSuffix sets the suffix of wrapper names (default: domain.DefaultNameSuffix).
func WithNameSuffix(suffix string) Option {
	return func(g *Generator) {
		if suffix != "" {
			g.suffix = suffix
		}
	}
}

// WithMaxPermutations bounds the number of wrappers a single entity may expand to
// (default: DefaultMaxPermutations). Larger descriptions are rejected before any allocation.
func WithMaxPermutations(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.limit = n
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Generator) {
		g.hooks = hooks
	}
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		relations: relation.Default(),
		workers:   runtime.GOMAXPROCS(0),
		suffix:    domain.DefaultNameSuffix,
		limit:     DefaultMaxPermutations,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Suffix returns the wrapper name suffix in use.
func (g *Generator) Suffix() string {
	return g.suffix
}

// Generate expands entity into a compilation unit whose wrappers follow enumeration order.
// Any invalid state representation aborts the whole entity: no partial unit is returned.
func (g *Generator) Generate(ctx context.Context, entity *domain.Entity) (*domain.CompilationUnit, error) {
	if entity == nil {
		return nil, fmt.Errorf("entity description is nil")
	}

	start := time.Now()
	total, countErr := permutation.Count(entity.Groups)
	if g.hooks.OnGenerateStart != nil {
		g.hooks.OnGenerateStart(ctx, &domain.GenerationEvent{
			EventBase:    domain.EventBase{Timestamp: start, Type: domain.EventGenerateStart, Entity: entity.Name},
			Permutations: total,
		})
	}

	unit, err := g.generate(ctx, entity, total, countErr)

	if g.hooks.OnGenerateEnd != nil {
		ev := &domain.GenerationEvent{
			EventBase:    domain.EventBase{Timestamp: time.Now(), Type: domain.EventGenerateEnd, Entity: entity.Name},
			Permutations: total,
			Duration:     time.Since(start),
			Err:          err,
		}
		if unit != nil {
			ev.Wrappers = len(unit.Wrappers)
		}
		g.hooks.OnGenerateEnd(ctx, ev)
	}
	return unit, err
}

func (g *Generator) generate(ctx context.Context, entity *domain.Entity, total int, countErr error) (*domain.CompilationUnit, error) {
	groups, err := domain.NewStateGroupMap(entity.Groups)
	if err != nil {
		return nil, domain.WithEntity(err, entity.Name)
	}
	if countErr != nil || total > g.limit {
		msg := fmt.Sprintf("%d permutations exceed the limit of %d", total, g.limit)
		if countErr != nil {
			msg = fmt.Sprintf("%v; limit is %d", countErr, g.limit)
		}
		return nil, &domain.InvalidStateRepresentationError{
			Reason:  domain.ReasonTooManyPermutations,
			Entity:  entity.Name,
			Message: msg,
		}
	}

	asm := assembler.New(entity, resolver.New(groups, g.relations), g.suffix)
	wrappers := make([]domain.WrapperDescription, total)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	i := 0
	for p := range permutation.Enumerate(entity.Groups) {
		if egCtx.Err() != nil {
			break
		}
		slot := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			w, err := asm.Assemble(p)
			if err != nil {
				return err
			}
			wrappers[slot] = w
			g.wrapperAssembled(egCtx, entity.Name, &w)
			return nil
		})
		i++
	}

	if err := eg.Wait(); err != nil {
		return nil, domain.WithEntity(err, entity.Name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unit := &domain.CompilationUnit{
		Entity:     entity.Name,
		Package:    entity.Package,
		EntityType: entity.TypeRef(),
		Imports:    entity.Imports,
		TypeParams: entity.TypeParams,
		Groups:     groups.Groups(),
		Wrappers:   wrappers,
	}
	if err := unit.Link(); err != nil {
		return nil, fmt.Errorf("link %s: %w", entity.Name, err)
	}
	return unit, nil
}

func (g *Generator) wrapperAssembled(ctx context.Context, entity string, w *domain.WrapperDescription) {
	if g.hooks.OnWrapperAssembled == nil {
		return
	}
	transitions := 0
	for _, m := range w.Members {
		if m.IsTransition() {
			transitions++
		}
	}
	g.hooks.OnWrapperAssembled(ctx, &domain.WrapperEvent{
		EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventWrapperAssembled, Entity: entity},
		Wrapper:     w.Name,
		Members:     len(w.Members),
		Transitions: transitions,
	})
}
