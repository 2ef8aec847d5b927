package loam

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/schema"
)

// Provider adapts a Loam repository to the DescriptionProvider interface.
// Each document describes one entity: the frontmatter is the description,
// the body becomes the entity documentation.
type Provider struct {
	Repo *loam.TypedRepository[schema.Document]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[schema.Document]) *Provider {
	return &Provider{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Provider, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric types consistent across Markdown and JSON documents.
	// The generator never writes descriptions, hence read-only.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[schema.Document](repo)), nil
}

// Describe returns the entity declared under name.
func (p *Provider) Describe(ctx context.Context, name string) (*domain.Entity, error) {
	entities, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := entities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntityNotFound, name)
	}
	return e, nil
}

// List lists all entities in the repository.
func (p *Provider) List(ctx context.Context) ([]string, error) {
	entities, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (p *Provider) load(ctx context.Context) (map[string]*domain.Entity, error) {
	docs, err := p.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	entities := make(map[string]*domain.Entity, len(docs))

	for _, doc := range docs {
		if schema.IsReserved(doc.ID) {
			continue
		}
		data := doc.Data
		// Use the name from metadata if available, otherwise the file name
		if data.Name == "" {
			data.Name = path.Base(trimExtension(doc.ID))
		}

		e, err := data.Entity()
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}
		if e.Doc == "" {
			e.Doc = strings.TrimSpace(doc.Content)
		}

		// Collision Detection
		if existing, ok := seen[e.Name]; ok {
			return nil, fmt.Errorf("collision detected: entity '%s' is defined in both '%s' and '%s'", e.Name, existing, doc.ID)
		}
		seen[e.Name] = doc.ID
		entities[e.Name] = e
	}
	return entities, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (p *Provider) Watch(ctx context.Context) (<-chan string, error) {
	events, err := p.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
