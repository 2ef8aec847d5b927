package golang_test

import (
	"bytes"
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/aretw0/statewrap/internal/emitter/golang"
	"github.com/aretw0/statewrap/internal/generator"
	"github.com/aretw0/statewrap/internal/testutils"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, e *domain.Entity) *domain.CompilationUnit {
	t.Helper()
	unit, err := generator.New().Generate(context.Background(), e)
	require.NoError(t, err)
	return unit
}

func box() *domain.Entity {
	return &domain.Entity{
		Name:       "Box",
		Package:    "storage",
		Imports:    []string{"time", "ctx context", "example.com/unused"},
		TypeParams: []domain.TypeParam{{Name: "T", Constraint: "any"}},
		Groups:     []domain.StateGroup{{Name: "Fill", States: []string{"Empty", "Full"}}},
		Capabilities: []domain.Capability{
			{
				Name:            "Put",
				Doc:             "Put stores items.\nExisting items are kept.",
				Params:          []domain.Parameter{{Name: "items", Type: "...T"}},
				AvailableForAll: true,
				Transitions:     []domain.TransitionRule{{Target: "Full"}},
			},
			{
				Name:         "Peek",
				Params:       []domain.Parameter{{Name: "timeout", Type: "time.Duration"}},
				Result:       "T",
				Availability: []domain.ConditionSet{{States: []string{"Full"}}},
			},
			{
				Name:         "Clear",
				Availability: []domain.ConditionSet{{States: []string{"Full"}}},
				Transitions:  []domain.TransitionRule{{Target: "Empty"}},
			},
		},
	}
}

func parse(t *testing.T, src []byte) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "generated.go", src, parser.ParseComments)
	require.NoError(t, err, "generated source must parse:\n%s", src)
	return f
}

func TestEmit_Robot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, golang.New().Emit(&buf, generate(t, testutils.Robot())))
	src := buf.String()

	assert.Contains(t, src, "// Code generated by statewrap. DO NOT EDIT.\n\npackage robot\n")
	assert.Contains(t, src, "type LeftOnState struct {\n\twrapped *Robot\n}")
	assert.Contains(t, src, "func NewLeftOnState(entity *Robot) LeftOnState {\n\treturn LeftOnState{wrapped: entity}\n}")
	assert.Contains(t, src, "func (s MiddleOnState) MoveUp() UpOnState {\n\ts.wrapped.MoveUp()\n\treturn NewUpOnState(s.wrapped)\n}")
	assert.Contains(t, src, "func (s LeftOnState) Position() string {\n\treturn s.wrapped.Position()\n}")
	assert.Contains(t, src, "func (s LeftOffState) TurnOn() LeftOnState {")
	assert.NotContains(t, src, "func (s LeftOnState) MoveUp()")
	assert.NotContains(t, src, "import")

	f := parse(t, buf.Bytes())
	types, funcs := 0, 0
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				types++
			}
		case *ast.FuncDecl:
			funcs++
		}
	}
	assert.Equal(t, 10, types)
	assert.Greater(t, funcs, 20)
}

func TestEmit_GenericVariadicAndImports(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, golang.New().Emit(&buf, generate(t, box())))
	src := buf.String()

	assert.Contains(t, src, "package storage")
	assert.Contains(t, src, "import (\n\t\"time\"\n)")
	assert.NotContains(t, src, "example.com/unused")
	assert.NotContains(t, src, "context")

	assert.Contains(t, src, "type FullState[T any] struct {\n\twrapped *Box[T]\n}")
	assert.Contains(t, src, "func NewFullState[T any](entity *Box[T]) FullState[T] {\n\treturn FullState[T]{wrapped: entity}\n}")
	assert.Contains(t, src, "// Put stores items.\n// Existing items are kept.\nfunc (s EmptyState[T]) Put(items ...T) FullState[T] {\n\ts.wrapped.Put(items...)\n\treturn NewFullState(s.wrapped)\n}")
	assert.Contains(t, src, "func (s FullState[T]) Peek(timeout time.Duration) T {\n\treturn s.wrapped.Peek(timeout)\n}")
	assert.Contains(t, src, "func (s FullState[T]) Clear() EmptyState[T] {")
	assert.NotContains(t, src, "func (s EmptyState[T]) Clear()")

	parse(t, buf.Bytes())
}

func TestFiles_Split(t *testing.T) {
	unit := generate(t, box())

	files, err := golang.New(golang.WithSplit(true), golang.WithPackage("boxes")).Files(unit)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "empty_state.go", files[0].Name)
	assert.Equal(t, "full_state.go", files[1].Name)

	// Only the file declaring Peek needs the time package.
	assert.NotContains(t, string(files[0].Content), "import")
	assert.Contains(t, string(files[1].Content), "import (\n\t\"time\"\n)")
	for _, f := range files {
		assert.Contains(t, string(f.Content), "package boxes")
		parse(t, f.Content)
	}

	single, err := golang.New().Files(unit)
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, "box_states.go", single[0].Name)
}

func TestEmit_ReceiverAvoidsParameters(t *testing.T) {
	e := &domain.Entity{
		Name:   "Counter",
		Groups: []domain.StateGroup{{Name: "Mode", States: []string{"Idle"}}},
		Capabilities: []domain.Capability{
			{Name: "Add", Params: []domain.Parameter{{Name: "s", Type: "int"}}, Result: "int", AvailableForAll: true},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, golang.New().Emit(&buf, generate(t, e)))
	assert.Contains(t, buf.String(), "func (w IdleState) Add(s int) int {\n\treturn w.wrapped.Add(s)\n}")
	assert.Contains(t, buf.String(), "package counter")
}

func TestEmit_RejectsUnrepresentable(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(e *domain.Entity)
	}{
		{"state name with space", func(e *domain.Entity) {
			e.Groups[0].States[0] = "Not Valid"
			e.Capabilities[2].Transitions[0].Target = "Not Valid"
		}},
		{"keyword member", func(e *domain.Entity) { e.Capabilities[0].Name = "func" }},
		{"bad parameter type", func(e *domain.Entity) { e.Capabilities[1].Params[0].Type = "map[" }},
		{"variadic not last", func(e *domain.Entity) {
			e.Capabilities[0].Params = []domain.Parameter{{Name: "a", Type: "...int"}, {Name: "b", Type: "int"}}
		}},
		{"duplicate member", func(e *domain.Entity) { e.Capabilities[2].Name = "Put" }},
		{"member shadows field", func(e *domain.Entity) { e.Capabilities[2].Name = domain.WrappedFieldName }},
		{"bad package", func(e *domain.Entity) { e.Package = "my-pkg" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := box()
			tt.mutate(e)
			unit := generate(t, e)

			var buf bytes.Buffer
			err := golang.New().Emit(&buf, unit)
			assert.ErrorIs(t, err, golang.ErrNotRepresentable)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"MiddleOnState":   "middle_on_state",
		"Robot":           "robot",
		"HTTPServerState": "http_server_state",
		"S1_0S2_3State":   "s1_0_s2_3_state",
	}
	for in, want := range tests {
		assert.Equal(t, want, golang.FileName(in), in)
	}
}
