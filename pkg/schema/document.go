package schema

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Document is the serialized shape of an entity description.
// Polymorphic fields stay untyped until Entity resolves their shorthands.
type Document struct {
	Name         string               `json:"name" yaml:"name" mapstructure:"name"`
	Package      string               `json:"package,omitempty" yaml:"package,omitempty" mapstructure:"package"`
	Doc          string               `json:"doc,omitempty" yaml:"doc,omitempty" mapstructure:"doc"`
	Imports      []string             `json:"imports,omitempty" yaml:"imports,omitempty" mapstructure:"imports"`
	TypeParams   []any                `json:"type_params,omitempty" yaml:"type_params,omitempty" mapstructure:"type_params"`
	Groups       []any                `json:"groups" yaml:"groups" mapstructure:"groups"`
	Capabilities []CapabilityDocument `json:"capabilities" yaml:"capabilities" mapstructure:"capabilities"`
}

// CapabilityDocument is the serialized shape of one capability.
type CapabilityDocument struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Doc         string `json:"doc,omitempty" yaml:"doc,omitempty" mapstructure:"doc"`
	Params      []any  `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
	Result      string `json:"result,omitempty" yaml:"result,omitempty" mapstructure:"result"`
	Available   any    `json:"available,omitempty" yaml:"available,omitempty" mapstructure:"available"`
	Transitions any    `json:"transitions,omitempty" yaml:"transitions,omitempty" mapstructure:"transitions"`
}

// AvailableAll is the availability shorthand for "every permutation".
const AvailableAll = "all"

// ReservedStem is the file stem of the CLI configuration, which providers never read as a description.
const ReservedStem = "statewrap"

// IsReserved reports whether the file at p is the configuration file rather than a description.
func IsReserved(p string) bool {
	base := filepath.Base(filepath.FromSlash(p))
	return strings.TrimSuffix(base, filepath.Ext(base)) == ReservedStem
}

// Decode converts a generic map (as produced by YAML or JSON unmarshaling) into an Entity.
// Unknown keys are rejected.
func Decode(raw map[string]any) (*domain.Entity, error) {
	var doc Document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode description: %w", err)
	}
	return doc.Entity()
}

// Entity resolves the document into a domain.Entity, collecting every structural problem.
func (d *Document) Entity() (*domain.Entity, error) {
	var errs []error
	fail := func(key, reason string, value any) {
		errs = append(errs, &ValidationError{Key: key, Reason: reason, Value: value})
	}

	e := &domain.Entity{
		Name:    d.Name,
		Package: d.Package,
		Doc:     d.Doc,
		Imports: d.Imports,
	}
	if e.Name == "" {
		fail("name", "required", nil)
	}

	for i, raw := range d.TypeParams {
		tp, err := decodeTypeParam(raw)
		if err != nil {
			fail(fmt.Sprintf("type_params[%d]", i), err.Error(), raw)
			continue
		}
		e.TypeParams = append(e.TypeParams, tp)
	}

	if len(d.Groups) == 0 {
		fail("groups", "at least one state group is required", nil)
	}
	for i, raw := range d.Groups {
		g, err := decodeGroup(raw)
		if err != nil {
			fail(fmt.Sprintf("groups[%d]", i), err.Error(), raw)
			continue
		}
		e.Groups = append(e.Groups, g)
	}

	for i, cd := range d.Capabilities {
		key := fmt.Sprintf("capabilities[%d]", i)
		c := domain.Capability{Name: cd.Name, Doc: cd.Doc, Result: cd.Result}
		if c.Name == "" {
			fail(key+".name", "required", nil)
		}

		for j, raw := range cd.Params {
			p, err := decodeParam(raw)
			if err != nil {
				fail(fmt.Sprintf("%s.params[%d]", key, j), err.Error(), raw)
				continue
			}
			c.Params = append(c.Params, p)
		}

		all, sets, err := decodeAvailability(cd.Available)
		if err != nil {
			fail(key+".available", err.Error(), cd.Available)
		}
		c.AvailableForAll, c.Availability = all, sets

		rules, err := decodeTransitions(cd.Transitions)
		if err != nil {
			fail(key+".transitions", err.Error(), cd.Transitions)
		}
		c.Transitions = rules

		e.Capabilities = append(e.Capabilities, c)
	}

	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return e, nil
}

// FromEntity returns the long-form document of e.
func FromEntity(e *domain.Entity) Document {
	d := Document{Name: e.Name, Package: e.Package, Doc: e.Doc, Imports: e.Imports}
	for _, tp := range e.TypeParams {
		d.TypeParams = append(d.TypeParams, map[string]any{"name": tp.Name, "constraint": tp.Constraint})
	}
	for _, g := range e.Groups {
		d.Groups = append(d.Groups, map[string]any{"name": g.Name, "states": append([]string(nil), g.States...)})
	}
	for _, c := range e.Capabilities {
		cd := CapabilityDocument{Name: c.Name, Doc: c.Doc, Result: c.Result}
		for _, p := range c.Params {
			cd.Params = append(cd.Params, map[string]any{"name": p.Name, "type": p.Type})
		}
		if c.AvailableForAll {
			cd.Available = AvailableAll
		} else if len(c.Availability) > 0 {
			sets := make([]any, 0, len(c.Availability))
			for _, s := range c.Availability {
				sets = append(sets, conditionMap(s))
			}
			cd.Available = sets
		}
		if len(c.Transitions) > 0 {
			rules := make([]any, 0, len(c.Transitions))
			for _, r := range c.Transitions {
				rule := map[string]any{"target": r.Target}
				if len(r.When.States) > 0 || r.When.Relation != "" {
					rule["when"] = conditionMap(r.When)
				}
				rules = append(rules, rule)
			}
			cd.Transitions = rules
		}
		d.Capabilities = append(d.Capabilities, cd)
	}
	return d
}

func conditionMap(c domain.ConditionSet) map[string]any {
	m := map[string]any{"states": append([]string{}, c.States...)}
	if c.Relation != "" {
		m["relation"] = string(c.Relation)
	}
	return m
}

// sortedKeys returns the keys of m in lexical order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
