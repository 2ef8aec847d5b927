package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/statewrap/pkg/domain"
)

func twoWrapperUnit() *domain.CompilationUnit {
	return &domain.CompilationUnit{
		Entity: "Door",
		Wrappers: []domain.WrapperDescription{
			{
				Name:        "OpenState",
				Permutation: domain.Permutation{"Open"},
				Members: []domain.Member{
					{Name: "Close", Result: domain.Result{Kind: domain.ResultTransition, Successor: domain.Permutation{"Closed"}}, SuccessorName: "ClosedState"},
					{Name: "Width", Result: domain.Result{Kind: domain.ResultValue, Type: "int"}},
				},
			},
			{
				Name:        "ClosedState",
				Permutation: domain.Permutation{"Closed"},
				Members: []domain.Member{
					{Name: "Open", Result: domain.Result{Kind: domain.ResultTransition, Successor: domain.Permutation{"Open"}}, SuccessorName: "OpenState"},
				},
			},
		},
	}
}

func TestCompilationUnit_Link(t *testing.T) {
	u := twoWrapperUnit()
	require.NoError(t, u.Link())

	open, ok := u.Wrapper("OpenState")
	require.True(t, ok)
	closeMember, _ := open.Member("Close")
	assert.Equal(t, 1, closeMember.SuccessorIndex)

	next, ok := u.Successor(closeMember)
	require.True(t, ok)
	assert.Equal(t, "ClosedState", next.Name)

	width, _ := open.Member("Width")
	assert.Equal(t, domain.NoSuccessor, width.SuccessorIndex)
	_, ok = u.Successor(width)
	assert.False(t, ok)
}

func TestCompilationUnit_LinkDanglingSuccessor(t *testing.T) {
	u := twoWrapperUnit()
	u.Wrappers = u.Wrappers[:1]
	err := u.Link()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ClosedState")
}

func TestCompilationUnit_LookupWithoutIndex(t *testing.T) {
	u := twoWrapperUnit()
	i, ok := u.Lookup("ClosedState")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = u.Lookup("Ajar")
	assert.False(t, ok)
}

func TestTypeRef(t *testing.T) {
	assert.Equal(t, "Box", domain.TypeRef{Name: "Box"}.String())
	assert.Equal(t, "Box[K, V]", domain.TypeRef{Name: "Box", Args: []string{"K", "V"}}.String())

	e := domain.Entity{Name: "Box", TypeParams: []domain.TypeParam{{Name: "K", Constraint: "comparable"}, {Name: "V"}}}
	assert.Equal(t, "Box[K, V]", e.TypeRef().String())
}

func TestInvalidStateRepresentationError(t *testing.T) {
	base := &domain.InvalidStateRepresentationError{
		Reason:     domain.ReasonUnknownTarget,
		Capability: "Fly",
		Message:    "transition targets states which do not exist: Sky",
	}
	wrapped := fmt.Errorf("generate: %w", domain.WithEntity(base, "Robot"))

	assert.True(t, errors.Is(wrapped, domain.ErrInvalidStateRepresentation))
	assert.Equal(t,
		"generate: invalid state representation in Robot (capability Fly): transition targets states which do not exist: Sky",
		wrapped.Error())
	assert.Empty(t, base.Entity, "WithEntity must not mutate the original")

	plain := errors.New("boom")
	assert.Same(t, plain, domain.WithEntity(plain, "Robot"))
	assert.False(t, errors.Is(plain, domain.ErrInvalidStateRepresentation))
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnGenerateStart: func(context.Context, *domain.GenerationEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{
		OnGenerateStart: func(context.Context, *domain.GenerationEvent) { calls = append(calls, "b") },
		OnGenerateEnd:   func(context.Context, *domain.GenerationEvent) { calls = append(calls, "end") },
	}

	merged := a.Merge(b)
	merged.OnGenerateStart(context.Background(), &domain.GenerationEvent{})
	merged.OnGenerateEnd(context.Background(), &domain.GenerationEvent{})
	assert.Nil(t, merged.OnWrapperAssembled)
	assert.Equal(t, []string{"a", "b", "end"}, calls)
}
