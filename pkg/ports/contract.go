package ports

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunUnitStoreContract runs a suite of tests to verify that a UnitStore implementation
// adheres to the defined interface contract.
func RunUnitStoreContract(t *testing.T, store UnitStore) {
	ctx := context.Background()
	key := "contract-test-unit-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		unit := contractUnit()

		err := store.Save(ctx, key, unit)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, unit.Entity, loaded.Entity)
		assert.Equal(t, unit.Fingerprint, loaded.Fingerprint)
		require.Len(t, loaded.Wrappers, 2)

		// Successor linkage must survive the round trip.
		on, ok := loaded.Wrapper("OnState")
		require.True(t, ok)
		m, ok := on.Member("Toggle")
		require.True(t, ok)
		next, ok := loaded.Successor(m)
		require.True(t, ok)
		assert.Equal(t, "OffState", next.Name)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, contractUnit()))

		first, err := store.Load(ctx, key)
		require.NoError(t, err)
		first.Wrappers[0].Name = "Mutated"

		second, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "OnState", second.Wrappers[0].Name)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrUnitNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, contractUnit()))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrUnitNotFound, "Load after Delete should return ErrUnitNotFound")
	})

	t.Run("List", func(t *testing.T) {
		k1 := key + "-1"
		k2 := key + "-2"
		_ = store.Save(ctx, k1, contractUnit())
		_ = store.Save(ctx, k2, contractUnit())

		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}

// RunDescriptionProviderContract verifies that a DescriptionProvider serves exactly
// the expected entities. want maps entity names to the group count they declare.
func RunDescriptionProviderContract(t *testing.T, provider DescriptionProvider, want map[string]int) {
	t.Helper()
	ctx := context.Background()

	t.Run("Describe_Success", func(t *testing.T) {
		for name, groups := range want {
			entity, err := provider.Describe(ctx, name)
			require.NoError(t, err, "unexpected error describing %s", name)
			assert.Equal(t, name, entity.Name)
			assert.Len(t, entity.Groups, groups, "group count mismatch for %s", name)
		}
	})

	t.Run("Describe_NotFound", func(t *testing.T) {
		_, err := provider.Describe(ctx, "NonExistentEntity")
		assert.ErrorIs(t, err, domain.ErrEntityNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := provider.List(ctx)
		require.NoError(t, err)
		assert.Len(t, names, len(want))
		assert.True(t, slices.IsSorted(names), "names must be sorted: %v", names)
		for name := range want {
			assert.Contains(t, names, name)
		}
	})
}

func contractUnit() *domain.CompilationUnit {
	unit := &domain.CompilationUnit{
		Entity:      "Switch",
		Package:     "light",
		EntityType:  domain.TypeRef{Name: "Switch"},
		Groups:      []domain.StateGroup{{Name: "Power", States: []string{"On", "Off"}}},
		Fingerprint: "contract",
		Wrappers: []domain.WrapperDescription{
			{
				Name:        "OnState",
				Permutation: domain.Permutation{"On"},
				Members: []domain.Member{{
					Name:          "Toggle",
					Result:        domain.Result{Kind: domain.ResultTransition, Successor: domain.Permutation{"Off"}},
					SuccessorName: "OffState",
				}},
			},
			{
				Name:        "OffState",
				Permutation: domain.Permutation{"Off"},
				Members: []domain.Member{{
					Name:          "Toggle",
					Result:        domain.Result{Kind: domain.ResultTransition, Successor: domain.Permutation{"On"}},
					SuccessorName: "OnState",
				}},
			},
		},
	}
	if err := unit.Link(); err != nil {
		panic(err)
	}
	return unit
}
