package domain

import "fmt"

// ResultKind tells how a member's result was resolved.
type ResultKind string

const (
	// ResultValue forwards the capability's declared value type.
	ResultValue ResultKind = "value"
	// ResultTransition returns the wrapper of the successor permutation.
	ResultTransition ResultKind = "transition"
)

// Result is the resolved return position of a capability in one permutation.
type Result struct {
	Kind ResultKind `json:"kind"`
	// Type is the declared value type; empty for transitions and for value-less capabilities.
	Type string `json:"type,omitempty"`
	// Successor is the permutation reached by a transition.
	Successor Permutation `json:"successor,omitempty"`
}

// ResolvedCapability is the outcome of resolving one capability against one permutation.
type ResolvedCapability struct {
	Capability *Capability `json:"-"`
	Available  bool        `json:"available"`
	Result     Result      `json:"result"`
}

// Field is the single data member of a wrapper.
type Field struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// Constructor builds a wrapper from the wrapped entity.
type Constructor struct {
	Name  string    `json:"name"`
	Param Parameter `json:"param"`
}

// Member is a capability exposed by a wrapper.
type Member struct {
	Name   string      `json:"name"`
	Doc    string      `json:"doc,omitempty"`
	Params []Parameter `json:"params,omitempty"`
	Result Result      `json:"result"`
	// SuccessorName is the canonical name of the successor wrapper, set for transitions.
	SuccessorName string `json:"successor_name,omitempty"`
	// SuccessorIndex points into CompilationUnit.Wrappers; NoSuccessor for values.
	SuccessorIndex int `json:"successor_index"`
}

// IsTransition reports whether invoking the member moves to another wrapper.
func (m Member) IsTransition() bool {
	return m.Result.Kind == ResultTransition
}

// WrapperDescription is the generated type for one permutation.
type WrapperDescription struct {
	Name        string      `json:"name"`
	Permutation Permutation `json:"permutation"`
	TypeParams  []TypeParam `json:"type_params,omitempty"`
	Entity      TypeRef     `json:"entity"`
	Field       Field       `json:"field"`
	Constructor Constructor `json:"constructor"`
	Members     []Member    `json:"members"`
}

// Ref returns the reference to this wrapper, with the entity's type arguments.
func (w *WrapperDescription) Ref() TypeRef {
	return TypeRef{Name: w.Name, Args: typeParamNames(w.TypeParams)}
}

// Member returns the named member.
func (w *WrapperDescription) Member(name string) (Member, bool) {
	for _, m := range w.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// CompilationUnit aggregates every wrapper of an entity in enumeration order.
type CompilationUnit struct {
	Entity     string               `json:"entity"`
	Package    string               `json:"package,omitempty"`
	EntityType TypeRef              `json:"entity_type"`
	Imports    []string             `json:"imports,omitempty"`
	TypeParams []TypeParam          `json:"type_params,omitempty"`
	Groups     []StateGroup         `json:"groups"`
	Wrappers   []WrapperDescription `json:"wrappers"`
	// Fingerprint identifies the description the unit was generated from.
	Fingerprint string `json:"fingerprint,omitempty"`

	index map[string]int
}

// Lookup returns the index of the wrapper named name.
func (u *CompilationUnit) Lookup(name string) (int, bool) {
	if u.index != nil {
		i, ok := u.index[name]
		return i, ok
	}
	for i := range u.Wrappers {
		if u.Wrappers[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// Wrapper returns the wrapper named name.
func (u *CompilationUnit) Wrapper(name string) (*WrapperDescription, bool) {
	i, ok := u.Lookup(name)
	if !ok {
		return nil, false
	}
	return &u.Wrappers[i], true
}

// Successor returns the wrapper a transition member leads to.
func (u *CompilationUnit) Successor(m Member) (*WrapperDescription, bool) {
	if !m.IsTransition() || m.SuccessorIndex < 0 || m.SuccessorIndex >= len(u.Wrappers) {
		return nil, false
	}
	return &u.Wrappers[m.SuccessorIndex], true
}

// Link resolves every transition member's successor to an index into Wrappers.
// It fails if a successor is not part of the unit.
func (u *CompilationUnit) Link() error {
	u.reindex()
	for wi := range u.Wrappers {
		w := &u.Wrappers[wi]
		for mi := range w.Members {
			m := &w.Members[mi]
			if !m.IsTransition() {
				m.SuccessorIndex = NoSuccessor
				continue
			}
			i, ok := u.index[m.SuccessorName]
			if !ok {
				return fmt.Errorf("wrapper %s: member %s references unknown successor %s", w.Name, m.Name, m.SuccessorName)
			}
			m.SuccessorIndex = i
		}
	}
	return nil
}

func (u *CompilationUnit) reindex() {
	u.index = make(map[string]int, len(u.Wrappers))
	for i, w := range u.Wrappers {
		u.index[w.Name] = i
	}
}
