package domain

import "strings"

// Permutation is one concrete combination of states, one per group,
// ordered by group declaration. Transitions build new permutations; existing ones are never edited.
type Permutation []string

// Contains reports whether state is part of the permutation.
func (p Permutation) Contains(state string) bool {
	for _, s := range p {
		if s == state {
			return true
		}
	}
	return false
}

// Equal reports whether both permutations hold the same state sequence.
func (p Permutation) Equal(other Permutation) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (p Permutation) Clone() Permutation {
	return append(Permutation(nil), p...)
}

// Name is the canonical wrapper type name: the state names concatenated in
// group order followed by suffix. Equal permutations always yield equal names.
func (p Permutation) Name(suffix string) string {
	return strings.Join(p, "") + suffix
}

func (p Permutation) String() string {
	return "[" + strings.Join(p, ", ") + "]"
}
