package relation

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Registry maps relation identifiers to evaluators.
// Safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	evaluators map[domain.RelationKind]Evaluator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		evaluators: make(map[domain.RelationKind]Evaluator),
	}
}

// Default returns a registry holding the built-in and/or/xor relations.
func Default() *Registry {
	r := NewRegistry()
	r.MustRegister(domain.RelationAnd, And{})
	r.MustRegister(domain.RelationOr, Or{})
	r.MustRegister(domain.RelationXor, Xor{})
	return r
}

// Register adds an evaluator under kind, replacing any previous one.
// The identifier must be non-empty and the evaluator non-nil.
func (r *Registry) Register(kind domain.RelationKind, ev Evaluator) error {
	k := kind.Normalize()
	if k == "" {
		return fmt.Errorf("relation identifier must not be empty")
	}
	if ev == nil {
		return fmt.Errorf("relation %q: evaluator must not be nil", k)
	}
	if fn, ok := ev.(EvaluatorFunc); ok && fn == nil {
		return fmt.Errorf("relation %q: evaluator must not be nil", k)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluators[k] = ev
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind domain.RelationKind, ev Evaluator) {
	if err := r.Register(kind, ev); err != nil {
		panic(err)
	}
}

// Lookup returns the evaluator registered under kind.
func (r *Registry) Lookup(kind domain.RelationKind) (Evaluator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.evaluators[kind.Normalize()]
	return ev, ok
}

// Kinds returns the registered identifiers, sorted.
func (r *Registry) Kinds() []domain.RelationKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]domain.RelationKind, 0, len(r.evaluators))
	for k := range r.evaluators {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Evaluate resolves kind and validates permutation against states.
// An identifier without a registered evaluator is an invalid state representation.
func (r *Registry) Evaluate(kind domain.RelationKind, groups *domain.StateGroupMap, permutation domain.Permutation, states []string) (bool, error) {
	ev, ok := r.Lookup(kind)
	if !ok {
		return false, &domain.InvalidStateRepresentationError{
			Reason:  domain.ReasonUnknownRelation,
			Message: fmt.Sprintf("relation %q does not resolve to a registered evaluator (known: %v)", kind, r.Kinds()),
		}
	}
	return ev.Validate(groups, permutation, states)
}

// EvaluateSet is Evaluate for a condition set, using def when the set declares no relation.
func (r *Registry) EvaluateSet(set domain.ConditionSet, def domain.RelationKind, groups *domain.StateGroupMap, permutation domain.Permutation) (bool, error) {
	return r.Evaluate(set.RelationOrDefault(def), groups, permutation, set.States)
}
