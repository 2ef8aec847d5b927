package statewrap

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/statewrap/internal/emitter/golang"
	"github.com/aretw0/statewrap/internal/emitter/jsonunit"
	"github.com/aretw0/statewrap/internal/generator"
	"github.com/aretw0/statewrap/internal/logging"
	"github.com/aretw0/statewrap/internal/presentation/graph"
	loamAdapter "github.com/aretw0/statewrap/pkg/adapters/loam"
	"github.com/aretw0/statewrap/pkg/cache"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/persistence/middleware"
	"github.com/aretw0/statewrap/pkg/ports"
	"github.com/aretw0/statewrap/pkg/registry"
	"github.com/aretw0/statewrap/pkg/relation"
)

// Engine is the high-level entry point for the statewrap library.
// It reads descriptions from a provider, expands them into compilation units
// and hands the units to emitters.
type Engine struct {
	provider        ports.DescriptionProvider
	store           ports.UnitStore
	locker          ports.DistributedLocker
	lockTTL         time.Duration
	relations       *relation.Registry
	workers         int
	suffix          string
	maxPermutations int
	hooks           domain.LifecycleHooks
	emitters        []ports.Emitter
	logger          *slog.Logger

	generator *generator.Generator
	cache     *cache.Manager
	registry  *registry.Registry
	Name      string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithProvider injects a description provider, bypassing the default Loam initialization.
func WithProvider(p ports.DescriptionProvider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithRelations replaces the relation evaluators (default: and, or, xor).
func WithRelations(r *relation.Registry) Option {
	return func(e *Engine) {
		e.relations = r
	}
}

// WithWorkers bounds the permutations assembled concurrently (default: GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithMaxPermutations bounds the wrappers one entity may expand to (default: 65536).
func WithMaxPermutations(n int) Option {
	return func(e *Engine) {
		e.maxPermutations = n
	}
}

// WithNameSuffix sets the wrapper name suffix (default: "State").
func WithNameSuffix(suffix string) Option {
	return func(e *Engine) {
		e.suffix = suffix
	}
}

// WithStore caches compilation units by description fingerprint.
func WithStore(s ports.UnitStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLocker serializes generations of one fingerprint across replicas sharing the store.
// It has no effect without WithStore.
func WithLocker(l ports.DistributedLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = l
		e.lockTTL = ttl
	}
}

// WithEmitter registers an output format, replacing any emitter with the same format.
func WithEmitter(em ports.Emitter) Option {
	return func(e *Engine) {
		e.emitters = append(e.emitters, em)
	}
}

// New initializes a new Engine.
// By default, it reads descriptions from a Loam repository at the given path.
// If WithProvider is given, dir can be empty and Loam is skipped.
func New(dir string, opts ...Option) (*Engine, error) {
	eng := &Engine{}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.provider == nil {
		if dir == "" {
			return nil, fmt.Errorf("dir is required when no custom provider is given")
		}

		absPath, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		eng.Name = filepath.Base(absPath)

		provider, err := loamAdapter.Open(absPath)
		if err != nil {
			return nil, err
		}
		eng.provider = provider
	} else if dir != "" {
		eng.Name = filepath.Base(dir)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("repo", eng.Name)
	}
	if eng.relations == nil {
		eng.relations = relation.Default()
	}

	eng.generator = generator.New(
		generator.WithRelations(eng.relations),
		generator.WithWorkers(eng.workers),
		generator.WithNameSuffix(eng.suffix),
		generator.WithMaxPermutations(eng.maxPermutations),
		generator.WithLifecycleHooks(eng.hooks),
	)

	if eng.store != nil {
		cacheOpts := []cache.Option{cache.WithLogger(eng.logger)}
		if eng.locker != nil {
			cacheOpts = append(cacheOpts, cache.WithLocker(eng.locker), cache.WithLockTTL(eng.lockTTL))
		}
		eng.cache = cache.NewManager(middleware.Verify(eng.logger)(eng.store), cacheOpts...)
	}

	eng.registry = registry.NewRegistry(golang.New(), jsonunit.New(), &graph.Emitter{})
	for _, em := range eng.emitters {
		eng.registry.Register(em)
	}

	return eng, nil
}

// List returns the names of the entities the provider describes.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	return e.provider.List(ctx)
}

// Describe returns the description of the named entity.
func (e *Engine) Describe(ctx context.Context, name string) (*domain.Entity, error) {
	return e.provider.Describe(ctx, name)
}

// Generate expands the named entity into its compilation unit.
func (e *Engine) Generate(ctx context.Context, name string) (*domain.CompilationUnit, error) {
	entity, err := e.provider.Describe(ctx, name)
	if err != nil {
		return nil, err
	}
	return e.GenerateEntity(ctx, entity)
}

// GenerateEntity expands entity. With a store configured, a unit generated earlier
// from an identical description is returned instead of regenerating it.
func (e *Engine) GenerateEntity(ctx context.Context, entity *domain.Entity) (*domain.CompilationUnit, error) {
	if entity == nil {
		return nil, fmt.Errorf("entity description is nil")
	}
	logger := e.logger.With("entity", entity.Name)

	fingerprint, err := e.Fingerprint(entity)
	if err != nil {
		return nil, err
	}

	generate := func(ctx context.Context) (*domain.CompilationUnit, error) {
		unit, err := e.generator.Generate(ctx, entity)
		if err != nil {
			return nil, err
		}
		unit.Fingerprint = fingerprint
		return unit, nil
	}

	if e.cache == nil {
		unit, err := generate(ctx)
		if err != nil {
			logger.Error("Generation failed", "err", err)
			return nil, err
		}
		logger.Debug("Generated", "wrappers", len(unit.Wrappers))
		return unit, nil
	}

	unit, hit, err := e.cache.LoadOrGenerate(ctx, fingerprint, generate)
	if err != nil {
		logger.Error("Generation failed", "err", err)
		return nil, err
	}
	if hit {
		logger.Debug("Cache hit", "fingerprint", fingerprint)
	} else {
		logger.Debug("Generated", "wrappers", len(unit.Wrappers), "fingerprint", fingerprint)
	}
	return unit, nil
}

// Validate runs the whole pipeline for the named entity without caching or emitting.
// It returns the description together with the unit it expands to.
func (e *Engine) Validate(ctx context.Context, name string) (*domain.Entity, *domain.CompilationUnit, error) {
	entity, err := e.provider.Describe(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	unit, err := e.generator.Generate(ctx, entity)
	if err != nil {
		return entity, nil, err
	}
	return entity, unit, nil
}

// Emit writes unit to w in the given format.
func (e *Engine) Emit(w io.Writer, unit *domain.CompilationUnit, format string) error {
	em, err := e.registry.Lookup(format)
	if err != nil {
		return err
	}
	return em.Emit(w, unit)
}

// Fingerprint identifies what a generation depends on: the description,
// the wrapper name suffix and the registered relation kinds.
func (e *Engine) Fingerprint(entity *domain.Entity) (string, error) {
	payload, err := json.Marshal(struct {
		Entity    *domain.Entity        `json:"entity"`
		Suffix    string                `json:"suffix"`
		Relations []domain.RelationKind `json:"relations"`
	}{entity, e.generator.Suffix(), e.relations.Kinds()})
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint %s: %w", entity.Name, err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// Watch returns a channel that signals when descriptions change.
// Returns error if the provider does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.provider.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current provider does not support watching")
}

// Emitters returns the registry of output formats.
func (e *Engine) Emitters() *registry.Registry {
	return e.registry
}

// Provider returns the underlying description provider.
func (e *Engine) Provider() ports.DescriptionProvider {
	return e.provider
}
