package assembler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statewrap/internal/assembler"
	"github.com/aretw0/statewrap/internal/resolver"
	"github.com/aretw0/statewrap/pkg/domain"
)

func robot() *domain.Entity {
	return &domain.Entity{
		Name: "Robot",
		Groups: []domain.StateGroup{
			{Name: "Position", States: []string{"Left", "Middle", "Right", "Up", "Down"}},
			{Name: "Movable", States: []string{"On", "Off"}},
		},
		Capabilities: []domain.Capability{
			{
				Name: "MoveUp",
				Availability: []domain.ConditionSet{
					{Relation: domain.RelationAnd, States: []string{"On", "Middle"}},
					{Relation: domain.RelationAnd, States: []string{"On", "Down"}},
				},
				Transitions: []domain.TransitionRule{
					{Target: "Up", When: domain.ConditionSet{States: []string{"Middle"}}},
					{Target: "Middle", When: domain.ConditionSet{States: []string{"Down"}}},
				},
			},
			{Name: "Stay", AvailableForAll: true},
			{Name: "Position", Result: "string", AvailableForAll: true},
			{Name: "Speak", Params: []domain.Parameter{{Name: "words", Type: "...string"}}, Result: "int", Availability: []domain.ConditionSet{{States: []string{"On"}}}},
		},
	}
}

func newAssembler(t *testing.T, e *domain.Entity, suffix string) *assembler.Assembler {
	t.Helper()
	groups, err := domain.NewStateGroupMap(e.Groups)
	require.NoError(t, err)
	return assembler.New(e, resolver.New(groups, nil), suffix)
}

func TestAssemble_Members(t *testing.T) {
	a := newAssembler(t, robot(), "")

	w, err := a.Assemble(domain.Permutation{"Middle", "On"})
	require.NoError(t, err)

	assert.Equal(t, "MiddleOnState", w.Name)
	assert.Equal(t, domain.Permutation{"Middle", "On"}, w.Permutation)
	assert.Equal(t, "NewMiddleOnState", w.Constructor.Name)
	assert.Equal(t, domain.Parameter{Name: "entity", Type: "Robot"}, w.Constructor.Param)
	assert.Equal(t, domain.Field{Name: "wrapped", Type: domain.TypeRef{Name: "Robot"}}, w.Field)

	names := make([]string, len(w.Members))
	for i, m := range w.Members {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"MoveUp", "Stay", "Position", "Speak"}, names)

	up, _ := w.Member("MoveUp")
	assert.True(t, up.IsTransition())
	assert.Equal(t, "UpOnState", up.SuccessorName)
	assert.Equal(t, domain.NoSuccessor, up.SuccessorIndex)

	stay, _ := w.Member("Stay")
	assert.Equal(t, "MiddleOnState", stay.SuccessorName, "a mutation without transitions returns its own wrapper")

	pos, _ := w.Member("Position")
	assert.False(t, pos.IsTransition())
	assert.Equal(t, "string", pos.Result.Type)
	assert.Empty(t, pos.SuccessorName)
}

func TestAssemble_ExcludesUnavailable(t *testing.T) {
	a := newAssembler(t, robot(), "")

	w, err := a.Assemble(domain.Permutation{"Left", "Off"})
	require.NoError(t, err)

	_, ok := w.Member("MoveUp")
	assert.False(t, ok)
	_, ok = w.Member("Speak")
	assert.False(t, ok)
	assert.Len(t, w.Members, 2)
}

func TestAssemble_NamingIsDeterministic(t *testing.T) {
	e := robot()
	first, err := newAssembler(t, e, "Wrapper").Assemble(domain.Permutation{"Up", "Off"})
	require.NoError(t, err)
	second, err := newAssembler(t, robot(), "Wrapper").Assemble(domain.Permutation{"Up", "Off"})
	require.NoError(t, err)

	assert.Equal(t, "UpOffWrapper", first.Name)
	assert.Equal(t, first, second)
}

func TestAssemble_GenericEntity(t *testing.T) {
	e := robot()
	e.TypeParams = []domain.TypeParam{{Name: "T", Constraint: "any"}}

	w, err := newAssembler(t, e, "").Assemble(domain.Permutation{"Middle", "On"})
	require.NoError(t, err)

	assert.Equal(t, "Robot[T]", w.Constructor.Param.Type)
	assert.Equal(t, "MiddleOnState[T]", w.Ref().String())
}

func TestAssemble_PropagatesErrors(t *testing.T) {
	e := robot()
	e.Capabilities = append(e.Capabilities, domain.Capability{
		Name:         "Teleport",
		Transitions:  []domain.TransitionRule{{Target: "Mars"}},
		Availability: []domain.ConditionSet{{States: []string{"On"}}},
	})

	_, err := newAssembler(t, e, "").Assemble(domain.Permutation{"Left", "On"})
	assert.ErrorIs(t, err, domain.ErrInvalidStateRepresentation)

	// Unavailable capabilities are never resolved further.
	_, err = newAssembler(t, e, "").Assemble(domain.Permutation{"Left", "Off"})
	assert.NoError(t, err)
}
