package relation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/relation"
)

func testGroups(t *testing.T) *domain.StateGroupMap {
	t.Helper()
	groups, err := domain.NewStateGroupMap([]domain.StateGroup{
		{Name: "Group1", States: []string{"State1", "State2", "State3"}},
		{Name: "Group2", States: []string{"State4", "State5"}},
		{Name: "Group3", States: []string{"State6", "State7"}},
	})
	require.NoError(t, err)
	return groups
}

func TestEvaluators(t *testing.T) {
	groups := testGroups(t)

	tests := []struct {
		name        string
		evaluator   relation.Evaluator
		permutation domain.Permutation
		states      []string
		want        bool
	}{
		{"or two states fit", relation.Or{}, domain.Permutation{"State1", "State4", "State6"}, []string{"State1", "State2", "State4"}, true},
		{"or one state fits", relation.Or{}, domain.Permutation{"State1", "State5", "State6"}, []string{"State1", "State2", "State4"}, true},
		{"or no state fits", relation.Or{}, domain.Permutation{"State3", "State5", "State6"}, []string{"State1", "State2", "State4"}, false},
		{"or empty condition", relation.Or{}, domain.Permutation{"State1", "State4", "State6"}, nil, false},

		{"xor two states fit", relation.Xor{}, domain.Permutation{"State1", "State4", "State6"}, []string{"State1", "State2", "State4"}, false},
		{"xor one state fits", relation.Xor{}, domain.Permutation{"State1", "State5", "State6"}, []string{"State1", "State2", "State4"}, true},
		{"xor no state fits", relation.Xor{}, domain.Permutation{"State3", "State5", "State6"}, []string{"State1", "State2", "State4"}, false},
		{"xor repeated state counts once", relation.Xor{}, domain.Permutation{"State1", "State5", "State6"}, []string{"State1", "State1"}, true},

		{"and empty condition", relation.And{}, domain.Permutation{"State1", "State4", "State6"}, nil, true},
		{"and one state fits", relation.And{}, domain.Permutation{"State1", "State4", "State6"}, []string{"State1"}, true},
		{"and two states fit", relation.And{}, domain.Permutation{"State1", "State4", "State6"}, []string{"State1", "State4"}, true},
		{"and one state missing", relation.And{}, domain.Permutation{"State1", "State5", "State6"}, []string{"State1", "State4"}, false},
		{"and unknown state", relation.And{}, domain.Permutation{"State1", "State5", "State6"}, []string{"Nowhere"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.evaluator.Validate(groups, tt.permutation, tt.states)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "permutation %v, states %v", tt.permutation, tt.states)
		})
	}
}

func TestAnd_TwoStatesOfSameGroup(t *testing.T) {
	groups := testGroups(t)

	// The precondition is static: it fails whatever the permutation holds.
	for _, perm := range []domain.Permutation{
		{"State1", "State5", "State6"},
		{"State3", "State4", "State7"},
	} {
		ok, err := relation.And{}.Validate(groups, perm, []string{"State1", "State2", "State4"})
		assert.False(t, ok)
		require.ErrorIs(t, err, domain.ErrInvalidStateRepresentation)

		isr, found := domain.AsInvalidStateRepresentation(err)
		require.True(t, found)
		assert.Equal(t, domain.ReasonContradictoryAnd, isr.Reason)
		assert.ElementsMatch(t, []string{"State1", "State2"}, isr.States)
	}
}

func TestEvaluators_SharedGroupsFixture(t *testing.T) {
	groups, err := domain.NewStateGroupMap([]domain.StateGroup{
		{Name: "G1", States: []string{"A", "B", "C"}},
		{Name: "G2", States: []string{"D", "E"}},
	})
	require.NoError(t, err)
	perm := domain.Permutation{"A", "D"}

	ok, _ := relation.Or{}.Validate(groups, perm, []string{"A", "E"})
	assert.True(t, ok)
	ok, _ = relation.Or{}.Validate(groups, perm, []string{"B", "E"})
	assert.False(t, ok)

	ok, _ = relation.Xor{}.Validate(groups, perm, []string{"A", "D"})
	assert.False(t, ok)
	ok, _ = relation.Xor{}.Validate(groups, perm, []string{"A", "E"})
	assert.True(t, ok)

	ok, err = relation.And{}.Validate(groups, perm, []string{"A"})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = relation.And{}.Validate(groups, perm, []string{"A", "B"})
	assert.ErrorIs(t, err, domain.ErrInvalidStateRepresentation)
}
