package domain

import "strings"

// RelationKind is the stable identifier of a logical relation evaluator.
type RelationKind string

const (
	// RelationAnd holds when every condition state is in the permutation.
	RelationAnd RelationKind = "and"
	// RelationOr holds when at least one condition state is in the permutation.
	RelationOr RelationKind = "or"
	// RelationXor holds when exactly one condition state is in the permutation.
	RelationXor RelationKind = "xor"
)

// Normalize lower-cases and trims the identifier so "AND" and " and" resolve alike.
func (k RelationKind) Normalize() RelationKind {
	return RelationKind(strings.ToLower(strings.TrimSpace(string(k))))
}

// ConditionSet is a set of states tested against a permutation under a relation.
type ConditionSet struct {
	Relation RelationKind `json:"relation,omitempty" yaml:"relation,omitempty" mapstructure:"relation"`
	States   []string     `json:"states" yaml:"states" mapstructure:"states"`
}

// RelationOrDefault returns the set's relation, or def when none was declared.
func (c ConditionSet) RelationOrDefault(def RelationKind) RelationKind {
	if k := c.Relation.Normalize(); k != "" {
		return k
	}
	return def
}

// TransitionRule moves the capability's caller to Target when When validates.
// When defaults to an AND relation.
type TransitionRule struct {
	Target string       `json:"target" yaml:"target" mapstructure:"target"`
	When   ConditionSet `json:"when" yaml:"when" mapstructure:"when"`
}
