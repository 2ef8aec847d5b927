package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// asMap normalizes the two map flavours YAML decoders produce.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// stringList accepts a single string or a list of strings.
func stringList(v any) ([]string, bool) {
	switch s := v.(type) {
	case string:
		return []string{s}, true
	case []string:
		return s, true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}

// singleKey returns the only entry of m.
func singleKey(m map[string]any) (string, any, bool) {
	if len(m) != 1 {
		return "", nil, false
	}
	for k, v := range m {
		return k, v, true
	}
	return "", nil, false
}

func decodeTypeParam(raw any) (domain.TypeParam, error) {
	if s, ok := raw.(string); ok {
		fields := strings.Fields(s)
		switch len(fields) {
		case 0:
			return domain.TypeParam{}, errors.New("empty type parameter")
		case 1:
			return domain.TypeParam{Name: fields[0]}, nil
		default:
			return domain.TypeParam{Name: fields[0], Constraint: strings.Join(fields[1:], " ")}, nil
		}
	}
	m, ok := asMap(raw)
	if !ok {
		return domain.TypeParam{}, errors.New("expected \"Name constraint\" or {name, constraint}")
	}
	var tp domain.TypeParam
	if err := mapstructure.Decode(m, &tp); err != nil {
		return domain.TypeParam{}, err
	}
	if tp.Name == "" {
		return domain.TypeParam{}, errors.New("type parameter missing name")
	}
	return tp, nil
}

func decodeParam(raw any) (domain.Parameter, error) {
	if s, ok := raw.(string); ok {
		name, typ, found := strings.Cut(strings.TrimSpace(s), " ")
		if !found || strings.TrimSpace(typ) == "" {
			return domain.Parameter{}, errors.New("expected \"name type\"")
		}
		return domain.Parameter{Name: name, Type: strings.TrimSpace(typ)}, nil
	}
	m, ok := asMap(raw)
	if !ok {
		return domain.Parameter{}, errors.New("expected \"name type\" or {name, type}")
	}
	var p domain.Parameter
	if err := mapstructure.Decode(m, &p); err != nil {
		return domain.Parameter{}, err
	}
	if p.Name == "" || p.Type == "" {
		return domain.Parameter{}, errors.New("parameter needs both name and type")
	}
	return p, nil
}

func decodeGroup(raw any) (domain.StateGroup, error) {
	m, ok := asMap(raw)
	if !ok {
		return domain.StateGroup{}, errors.New("expected {name, states} or {Name: [states]}")
	}
	if _, long := m["states"]; long {
		var g domain.StateGroup
		if err := mapstructure.Decode(m, &g); err != nil {
			return domain.StateGroup{}, err
		}
		return g, nil
	}
	name, value, ok := singleKey(m)
	if !ok {
		return domain.StateGroup{}, errors.New("shorthand group must have exactly one key")
	}
	states, ok := stringList(value)
	if !ok {
		return domain.StateGroup{}, fmt.Errorf("group %s: states must be a list of names", name)
	}
	return domain.StateGroup{Name: name, States: states}, nil
}

// decodeCondition accepts a state list, {relation, states}, or {<relation>: states}.
// An absent value is the empty set.
func decodeCondition(raw any) (domain.ConditionSet, error) {
	if raw == nil {
		return domain.ConditionSet{}, nil
	}
	if states, ok := stringList(raw); ok {
		return domain.ConditionSet{States: states}, nil
	}
	m, ok := asMap(raw)
	if !ok {
		return domain.ConditionSet{}, errors.New("expected a state list or a condition map")
	}
	if _, long := m["states"]; long {
		var c domain.ConditionSet
		if err := mapstructure.Decode(m, &c); err != nil {
			return domain.ConditionSet{}, err
		}
		return c, nil
	}
	relation, value, ok := singleKey(m)
	if !ok {
		return domain.ConditionSet{}, errors.New("shorthand condition must have exactly one relation key")
	}
	states, ok := stringList(value)
	if !ok {
		return domain.ConditionSet{}, fmt.Errorf("relation %s: states must be a list of names", relation)
	}
	return domain.ConditionSet{Relation: domain.RelationKind(relation), States: states}, nil
}

func decodeAvailability(raw any) (bool, []domain.ConditionSet, error) {
	switch v := raw.(type) {
	case nil:
		return false, nil, nil
	case bool:
		return v, nil, nil
	case string:
		if strings.EqualFold(strings.TrimSpace(v), AvailableAll) {
			return true, nil, nil
		}
		return false, []domain.ConditionSet{{States: []string{v}}}, nil
	case []any:
		if states, ok := stringList(v); ok {
			return false, []domain.ConditionSet{{States: states}}, nil
		}
		sets := make([]domain.ConditionSet, 0, len(v))
		for i, item := range v {
			c, err := decodeCondition(item)
			if err != nil {
				return false, nil, fmt.Errorf("rule %d: %w", i, err)
			}
			sets = append(sets, c)
		}
		return false, sets, nil
	default:
		c, err := decodeCondition(raw)
		if err != nil {
			return false, nil, err
		}
		return false, []domain.ConditionSet{c}, nil
	}
}

// decodeTransitions accepts a {Target: condition} map, ordered by target,
// or a list of {target, when} / {Target: condition} entries.
func decodeTransitions(raw any) ([]domain.TransitionRule, error) {
	if raw == nil {
		return nil, nil
	}
	if m, ok := asMap(raw); ok {
		rules := make([]domain.TransitionRule, 0, len(m))
		for _, target := range sortedKeys(m) {
			when, err := decodeCondition(m[target])
			if err != nil {
				return nil, fmt.Errorf("target %s: %w", target, err)
			}
			rules = append(rules, domain.TransitionRule{Target: target, When: when})
		}
		return rules, nil
	}

	list, ok := raw.([]any)
	if !ok {
		return nil, errors.New("expected a map of targets or a list of rules")
	}
	rules := make([]domain.TransitionRule, 0, len(list))
	for i, item := range list {
		m, ok := asMap(item)
		if !ok {
			return nil, fmt.Errorf("rule %d: expected a map", i)
		}
		if target, long := m["target"]; long {
			name, ok := target.(string)
			if !ok || name == "" {
				return nil, fmt.Errorf("rule %d: target must be a state name", i)
			}
			when, err := decodeCondition(m["when"])
			if err != nil {
				return nil, fmt.Errorf("rule %d: %w", i, err)
			}
			rules = append(rules, domain.TransitionRule{Target: name, When: when})
			continue
		}
		target, value, ok := singleKey(m)
		if !ok {
			return nil, fmt.Errorf("rule %d: shorthand rule must have exactly one target key", i)
		}
		when, err := decodeCondition(value)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		rules = append(rules, domain.TransitionRule{Target: target, When: when})
	}
	return rules, nil
}
