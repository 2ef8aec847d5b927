package relation

import (
	"fmt"
	"strings"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Evaluator decides whether permutation satisfies the condition states.
type Evaluator interface {
	Validate(groups *domain.StateGroupMap, permutation domain.Permutation, states []string) (bool, error)
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(groups *domain.StateGroupMap, permutation domain.Permutation, states []string) (bool, error)

// Validate calls f.
func (f EvaluatorFunc) Validate(groups *domain.StateGroupMap, permutation domain.Permutation, states []string) (bool, error) {
	return f(groups, permutation, states)
}

// Or holds when the condition states and the permutation share at least one state.
type Or struct{}

func (Or) Validate(_ *domain.StateGroupMap, permutation domain.Permutation, states []string) (bool, error) {
	return intersection(permutation, states) >= 1, nil
}

// Xor holds when the condition states and the permutation share exactly one state.
type Xor struct{}

func (Xor) Validate(_ *domain.StateGroupMap, permutation domain.Permutation, states []string) (bool, error) {
	return intersection(permutation, states) == 1, nil
}

// And holds when every condition state is in the permutation. An empty set holds vacuously.
type And struct{}

// Validate first rejects condition sets naming two states of one group, regardless
// of the permutation: a permutation holds one state per group, so such a set can never hold.
func (And) Validate(groups *domain.StateGroupMap, permutation domain.Permutation, states []string) (bool, error) {
	if err := checkOnePerGroup(groups, states); err != nil {
		return false, err
	}
	for _, s := range distinct(states) {
		if !permutation.Contains(s) {
			return false, nil
		}
	}
	return true, nil
}

func checkOnePerGroup(groups *domain.StateGroupMap, states []string) error {
	if groups == nil {
		return nil
	}
	perGroup := make(map[int][]string)
	for _, s := range distinct(states) {
		if gi, ok := groups.GroupOf(s); ok {
			perGroup[gi] = append(perGroup[gi], s)
		}
	}
	for gi, members := range perGroup {
		if len(members) > 1 {
			return &domain.InvalidStateRepresentationError{
				Reason: domain.ReasonContradictoryAnd,
				States: members,
				Message: fmt.Sprintf("an and relation cannot require two states of the same state group %q: %s",
					groups.Groups()[gi].Name, strings.Join(members, ", ")),
			}
		}
	}
	return nil
}

// intersection counts the distinct condition states present in the permutation.
func intersection(permutation domain.Permutation, states []string) int {
	n := 0
	for _, s := range distinct(states) {
		if permutation.Contains(s) {
			n++
		}
	}
	return n
}

func distinct(states []string) []string {
	if len(states) < 2 {
		return states
	}
	seen := make(map[string]bool, len(states))
	out := make([]string, 0, len(states))
	for _, s := range states {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
