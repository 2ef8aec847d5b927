// Package permutation enumerates the state combinations of an entity.
package permutation

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Enumerate yields the Cartesian product of the groups' states, one state per group,
// preserving group declaration order. The last group varies fastest, so the sequence
// is deterministic and repeatable. No groups, or any empty group, yields nothing.
// Every yielded permutation is a fresh slice owned by the caller.
func Enumerate(groups []domain.StateGroup) iter.Seq[domain.Permutation] {
	return func(yield func(domain.Permutation) bool) {
		if empty(groups) {
			return
		}

		// Odometer over state indexes.
		idx := make([]int, len(groups))
		for {
			p := make(domain.Permutation, len(groups))
			for g, i := range idx {
				p[g] = groups[g].States[i]
			}
			if !yield(p) {
				return
			}

			g := len(groups) - 1
			for ; g >= 0; g-- {
				idx[g]++
				if idx[g] < len(groups[g].States) {
					break
				}
				idx[g] = 0
			}
			if g < 0 {
				return
			}
		}
	}
}

// ErrTooManyPermutations is returned by Count when the product of the group sizes
// does not fit in an int.
var ErrTooManyPermutations = errors.New("too many permutations")

// Count returns the number of permutations Enumerate yields: the product of the group sizes,
// or zero when there are no groups.
func Count(groups []domain.StateGroup) (int, error) {
	if empty(groups) {
		return 0, nil
	}
	n := 1
	for _, g := range groups {
		size := len(g.States)
		if n > math.MaxInt/size {
			return 0, fmt.Errorf("%w: %d groups overflow at group %s", ErrTooManyPermutations, len(groups), g.Name)
		}
		n *= size
	}
	return n, nil
}

func empty(groups []domain.StateGroup) bool {
	if len(groups) == 0 {
		return true
	}
	for _, g := range groups {
		if len(g.States) == 0 {
			return true
		}
	}
	return false
}

// Collect drains Enumerate into a slice.
func Collect(groups []domain.StateGroup) []domain.Permutation {
	n, err := Count(groups)
	if err != nil {
		n = 0
	}
	out := make([]domain.Permutation, 0, n)
	for p := range Enumerate(groups) {
		out = append(out, p)
	}
	return out
}
