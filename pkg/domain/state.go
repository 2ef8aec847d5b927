package domain

import (
	"fmt"
	"sort"
	"strings"
)

// StateGroup is a named set of mutually exclusive states.
// Exactly one state of each group is active in any permutation.
type StateGroup struct {
	Name   string   `json:"name" yaml:"name" mapstructure:"name"`
	States []string `json:"states" yaml:"states" mapstructure:"states"`
}

// StateGroupMap is the read-only view of an entity's groups used by the whole pipeline.
// It keeps declaration order and indexes every state by the group holding it.
// Safe for concurrent reads; it is never mutated after construction.
type StateGroupMap struct {
	groups  []StateGroup
	byName  map[string]int
	byState map[string]int
}

// NewStateGroupMap validates groups and builds the lookup indexes.
// It fails with an InvalidStateRepresentationError when a state name appears twice
// (in one group or across groups), when two groups share a name, or when a name is empty.
func NewStateGroupMap(groups []StateGroup) (*StateGroupMap, error) {
	if err := ValidateGroups(groups); err != nil {
		return nil, err
	}

	m := &StateGroupMap{
		groups:  make([]StateGroup, len(groups)),
		byName:  make(map[string]int, len(groups)),
		byState: make(map[string]int),
	}
	for i, g := range groups {
		m.groups[i] = StateGroup{Name: g.Name, States: append([]string(nil), g.States...)}
		m.byName[g.Name] = i
		for _, s := range g.States {
			m.byState[s] = i
		}
	}
	return m, nil
}

// ValidateGroups checks the global naming invariants of a group declaration.
// Every offending state name is reported once, in first-seen order.
func ValidateGroups(groups []StateGroup) error {
	seenGroups := make(map[string]bool, len(groups))
	for _, g := range groups {
		if strings.TrimSpace(g.Name) == "" {
			return &InvalidStateRepresentationError{
				Reason:  ReasonEmptyName,
				Message: "state groups must be named",
			}
		}
		if seenGroups[g.Name] {
			return &InvalidStateRepresentationError{
				Reason:  ReasonDuplicateGroup,
				States:  []string{g.Name},
				Message: fmt.Sprintf("state group %q is declared more than once", g.Name),
			}
		}
		seenGroups[g.Name] = true
	}

	counts := make(map[string]int)
	var order []string
	for _, g := range groups {
		for _, s := range g.States {
			if strings.TrimSpace(s) == "" {
				return &InvalidStateRepresentationError{
					Reason:  ReasonEmptyName,
					Message: fmt.Sprintf("state group %q contains an empty state name", g.Name),
				}
			}
			if counts[s] == 0 {
				order = append(order, s)
			}
			counts[s]++
		}
	}

	var dup []string
	for _, s := range order {
		if counts[s] > 1 {
			dup = append(dup, s)
		}
	}
	if len(dup) > 0 {
		return &InvalidStateRepresentationError{
			Reason: ReasonDuplicateState,
			States: dup,
			Message: fmt.Sprintf("a state cannot appear twice, neither in the same group nor in a different one, problematic states: %s",
				strings.Join(dup, ", ")),
		}
	}
	return nil
}

// Groups returns the groups in declaration order.
func (m *StateGroupMap) Groups() []StateGroup {
	return m.groups
}

// Len returns the number of groups.
func (m *StateGroupMap) Len() int {
	return len(m.groups)
}

// States returns the states of the named group.
func (m *StateGroupMap) States(group string) ([]string, bool) {
	i, ok := m.byName[group]
	if !ok {
		return nil, false
	}
	return m.groups[i].States, true
}

// GroupOf returns the declaration index of the group holding state.
func (m *StateGroupMap) GroupOf(state string) (int, bool) {
	i, ok := m.byState[state]
	return i, ok
}

// GroupName returns the name of the group holding state, or "" if unknown.
func (m *StateGroupMap) GroupName(state string) string {
	i, ok := m.byState[state]
	if !ok {
		return ""
	}
	return m.groups[i].Name
}

// Has reports whether state belongs to any group.
func (m *StateGroupMap) Has(state string) bool {
	_, ok := m.byState[state]
	return ok
}

// AllStates returns every declared state, sorted.
func (m *StateGroupMap) AllStates() []string {
	out := make([]string, 0, len(m.byState))
	for s := range m.byState {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
