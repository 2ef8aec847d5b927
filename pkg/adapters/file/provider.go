package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Extensions lists the description file extensions the provider reads.
var Extensions = []string{".yaml", ".yml", ".json"}

// Provider implements ports.DescriptionProvider over a directory of YAML or JSON
// description documents, one entity per file.
// The directory is re-read on every call, so edits are picked up without a restart.
type Provider struct {
	BasePath string
}

// NewProvider creates a Provider reading from basePath.
// If basePath is empty, it defaults to the current directory.
func NewProvider(basePath string) *Provider {
	if basePath == "" {
		basePath = "."
	}
	return &Provider{BasePath: basePath}
}

// Describe returns the entity declared under name.
func (p *Provider) Describe(ctx context.Context, name string) (*domain.Entity, error) {
	entities, err := p.scan(ctx)
	if err != nil {
		return nil, err
	}
	e, ok := entities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEntityNotFound, name)
	}
	return e, nil
}

// List returns the names of all entities found under the base path.
func (p *Provider) List(ctx context.Context) ([]string, error) {
	entities, err := p.scan(ctx)
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

func (p *Provider) scan(ctx context.Context) (map[string]*domain.Entity, error) {
	entities := make(map[string]*domain.Entity)
	seen := make(map[string]string)

	err := filepath.WalkDir(p.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != p.BasePath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isDescription(path) {
			return nil
		}

		e, err := ReadDocument(path)
		if err != nil {
			return err
		}
		if existing, ok := seen[e.Name]; ok {
			return fmt.Errorf("collision detected: entity '%s' is defined in both '%s' and '%s'", e.Name, existing, path)
		}
		seen[e.Name] = path
		entities[e.Name] = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

func isDescription(path string) bool {
	if schema.IsReserved(path) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ReadDocument parses a single description file.
// A document without a name is named after its file.
func ReadDocument(path string) (*domain.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}

	var raw map[string]any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: empty description", path)
	}
	if _, ok := raw["name"]; !ok {
		base := filepath.Base(path)
		raw["name"] = strings.TrimSuffix(base, filepath.Ext(base))
	}

	e, err := schema.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}
