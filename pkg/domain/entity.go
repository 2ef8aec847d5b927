package domain

import "strings"

// Parameter is a named, typed argument of a capability.
// A variadic parameter carries a "..." type prefix.
type Parameter struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Type string `json:"type" yaml:"type" mapstructure:"type"`
}

// Variadic reports whether the parameter collects the trailing arguments.
func (p Parameter) Variadic() bool {
	return strings.HasPrefix(p.Type, "...")
}

// TypeParam is a type parameter of a generic entity, forwarded to every wrapper.
type TypeParam struct {
	Name       string `json:"name" yaml:"name" mapstructure:"name"`
	Constraint string `json:"constraint,omitempty" yaml:"constraint,omitempty" mapstructure:"constraint"`
}

// Capability is a public instance operation of the stateful entity.
type Capability struct {
	Name   string      `json:"name" yaml:"name" mapstructure:"name"`
	Doc    string      `json:"doc,omitempty" yaml:"doc,omitempty" mapstructure:"doc"`
	Params []Parameter `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`

	// Result is the declared value type. Empty means the capability is a pure
	// mutation, which transition rules re-express as "return the successor wrapper".
	Result string `json:"result,omitempty" yaml:"result,omitempty" mapstructure:"result"`

	// AvailableForAll makes the capability available in every permutation.
	AvailableForAll bool `json:"available_for_all,omitempty" yaml:"available_for_all,omitempty" mapstructure:"available_for_all"`

	// Availability lists condition sets combined with an implicit OR.
	// A set without a relation defaults to RelationOr.
	Availability []ConditionSet `json:"availability,omitempty" yaml:"availability,omitempty" mapstructure:"availability"`

	// Transitions are only honoured when Result is empty.
	Transitions []TransitionRule `json:"transitions,omitempty" yaml:"transitions,omitempty" mapstructure:"transitions"`
}

// HasValue reports whether invoking the capability yields a value.
func (c *Capability) HasValue() bool {
	return strings.TrimSpace(c.Result) != ""
}

// Entity is the declarative description of a stateful type, as handed over by a
// DescriptionProvider. It is plain data: nothing here executes the entity.
// Imports lists the packages referenced by parameter and result types, as
// "path" or "alias path".
type Entity struct {
	Name         string       `json:"name" yaml:"name" mapstructure:"name"`
	Package      string       `json:"package,omitempty" yaml:"package,omitempty" mapstructure:"package"`
	Doc          string       `json:"doc,omitempty" yaml:"doc,omitempty" mapstructure:"doc"`
	Imports      []string     `json:"imports,omitempty" yaml:"imports,omitempty" mapstructure:"imports"`
	TypeParams   []TypeParam  `json:"type_params,omitempty" yaml:"type_params,omitempty" mapstructure:"type_params"`
	Groups       []StateGroup `json:"groups" yaml:"groups" mapstructure:"groups"`
	Capabilities []Capability `json:"capabilities" yaml:"capabilities" mapstructure:"capabilities"`
}

// TypeRef returns the reference to the wrapped entity type, with its type arguments.
func (e *Entity) TypeRef() TypeRef {
	return TypeRef{Name: e.Name, Args: typeParamNames(e.TypeParams)}
}

// Capability returns the named capability.
func (e *Entity) Capability(name string) (*Capability, bool) {
	for i := range e.Capabilities {
		if e.Capabilities[i].Name == name {
			return &e.Capabilities[i], true
		}
	}
	return nil, false
}

func typeParamNames(params []TypeParam) []string {
	if len(params) == 0 {
		return nil
	}
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

// TypeRef names a type together with its type arguments.
type TypeRef struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty"`
}

func (t TypeRef) String() string {
	if len(t.Args) == 0 {
		return t.Name
	}
	return t.Name + "[" + strings.Join(t.Args, ", ") + "]"
}
