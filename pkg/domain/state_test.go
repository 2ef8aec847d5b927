package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statewrap/pkg/domain"
)

func TestValidateGroups(t *testing.T) {
	tests := []struct {
		name   string
		groups []domain.StateGroup
		reason domain.Reason
		states []string
	}{
		{
			name: "valid",
			groups: []domain.StateGroup{
				{Name: "G1", States: []string{"A", "B"}},
				{Name: "G2", States: []string{"C"}},
			},
		},
		{
			name: "repeated across groups",
			groups: []domain.StateGroup{
				{Name: "G1", States: []string{"A", "B"}},
				{Name: "G2", States: []string{"B", "C"}},
			},
			reason: domain.ReasonDuplicateState,
			states: []string{"B"},
		},
		{
			name: "repeated within a group",
			groups: []domain.StateGroup{
				{Name: "G1", States: []string{"A", "A", "A"}},
			},
			reason: domain.ReasonDuplicateState,
			states: []string{"A"},
		},
		{
			name: "duplicate group name",
			groups: []domain.StateGroup{
				{Name: "G1", States: []string{"A"}},
				{Name: "G1", States: []string{"B"}},
			},
			reason: domain.ReasonDuplicateGroup,
			states: []string{"G1"},
		},
		{
			name:   "unnamed group",
			groups: []domain.StateGroup{{States: []string{"A"}}},
			reason: domain.ReasonEmptyName,
		},
		{
			name:   "empty state",
			groups: []domain.StateGroup{{Name: "G1", States: []string{" "}}},
			reason: domain.ReasonEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateGroups(tt.groups)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, domain.ErrInvalidStateRepresentation)
			isr, ok := domain.AsInvalidStateRepresentation(err)
			require.True(t, ok)
			assert.Equal(t, tt.reason, isr.Reason)
			if tt.states != nil {
				assert.Equal(t, tt.states, isr.States)
			}
		})
	}
}

func TestStateGroupMap(t *testing.T) {
	groups := []domain.StateGroup{
		{Name: "Position", States: []string{"Left", "Right"}},
		{Name: "Power", States: []string{"On", "Off"}},
	}
	m, err := domain.NewStateGroupMap(groups)
	require.NoError(t, err)

	// The map owns its copy.
	groups[0].States[0] = "Changed"
	states, ok := m.States("Position")
	require.True(t, ok)
	assert.Equal(t, []string{"Left", "Right"}, states)

	gi, ok := m.GroupOf("Off")
	assert.True(t, ok)
	assert.Equal(t, 1, gi)
	assert.Equal(t, "Power", m.GroupName("On"))
	assert.Equal(t, "", m.GroupName("Nowhere"))
	assert.False(t, m.Has("Nowhere"))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"Left", "Off", "On", "Right"}, m.AllStates())
}

func TestPermutation(t *testing.T) {
	p := domain.Permutation{"Middle", "On"}

	assert.Equal(t, "MiddleOnState", p.Name(domain.DefaultNameSuffix))
	assert.Equal(t, "[Middle, On]", p.String())
	assert.True(t, p.Contains("On"))
	assert.False(t, p.Contains("Off"))
	assert.True(t, p.Equal(domain.Permutation{"Middle", "On"}))
	assert.False(t, p.Equal(domain.Permutation{"Middle"}))

	c := p.Clone()
	c[0] = "Up"
	assert.Equal(t, "Middle", p[0])
}
