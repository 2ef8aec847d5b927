package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/statewrap/pkg/domain"
)

// DefaultCacheDir holds cached units when no directory is given.
var DefaultCacheDir = filepath.Join(".statewrap", "cache")

// Store implements ports.UnitStore using the local filesystem.
// It stores each compilation unit as a JSON file named after its key.
type Store struct {
	BasePath string
}

// NewStore creates a Store under basePath, defaulting to DefaultCacheDir.
func NewStore(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultCacheDir
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.BasePath, key+".json"), nil
}

// Save persists the unit atomically.
func (s *Store) Save(ctx context.Context, key string, unit *domain.CompilationUnit) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(unit, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal unit: %w", err)
	}
	return WriteAtomic(path, data)
}

// Load reads the unit stored under key and restores its successor links.
func (s *Store) Load(ctx context.Context, key string) (*domain.CompilationUnit, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to read unit file: %w", err)
	}

	var unit domain.CompilationUnit
	if err := json.Unmarshal(data, &unit); err != nil {
		return nil, fmt.Errorf("failed to unmarshal unit: %w", err)
	}
	if err := unit.Link(); err != nil {
		return nil, fmt.Errorf("stored unit %s: %w", key, err)
	}
	return &unit, nil
}

// Delete removes the unit file. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete unit file: %w", err)
	}
	return nil
}

// List returns the stored keys, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list units: %w", err)
	}

	keys := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}
