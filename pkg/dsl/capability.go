package dsl

import "github.com/aretw0/statewrap/pkg/domain"

// CapabilityBuilder provides a fluent API for configuring a capability.
type CapabilityBuilder struct {
	capability domain.Capability
	builder    *Builder
}

// And matches permutations holding every listed state.
func And(states ...string) domain.ConditionSet {
	return domain.ConditionSet{Relation: domain.RelationAnd, States: states}
}

// Or matches permutations holding at least one listed state.
func Or(states ...string) domain.ConditionSet {
	return domain.ConditionSet{Relation: domain.RelationOr, States: states}
}

// Xor matches permutations holding exactly one listed state.
func Xor(states ...string) domain.ConditionSet {
	return domain.ConditionSet{Relation: domain.RelationXor, States: states}
}

// Doc sets the capability documentation, copied onto every generated member.
func (c *CapabilityBuilder) Doc(doc string) *CapabilityBuilder {
	c.capability.Doc = doc
	return c
}

// Param appends a parameter. A "..." type prefix makes it variadic.
func (c *CapabilityBuilder) Param(name, typ string) *CapabilityBuilder {
	c.capability.Params = append(c.capability.Params, domain.Parameter{Name: name, Type: typ})
	return c
}

// Returns declares the value type. Capabilities with a value never transition.
func (c *CapabilityBuilder) Returns(typ string) *CapabilityBuilder {
	c.capability.Result = typ
	return c
}

// Always makes the capability available in every permutation.
func (c *CapabilityBuilder) Always() *CapabilityBuilder {
	c.capability.AvailableForAll = true
	return c
}

// AvailableIn makes the capability available in permutations holding any of states.
func (c *CapabilityBuilder) AvailableIn(states ...string) *CapabilityBuilder {
	return c.AvailableWhen(domain.ConditionSet{States: states})
}

// AvailableWhen adds availability rules; the capability is available when any of them holds.
func (c *CapabilityBuilder) AvailableWhen(sets ...domain.ConditionSet) *CapabilityBuilder {
	c.capability.Availability = append(c.capability.Availability, sets...)
	return c
}

// To adds a transition to target, taken when the permutation holds every state in from.
// Without from the transition is unconditional.
func (c *CapabilityBuilder) To(target string, from ...string) *CapabilityBuilder {
	return c.ToWhen(target, domain.ConditionSet{States: from})
}

// ToWhen adds a transition to target guarded by an explicit condition.
func (c *CapabilityBuilder) ToWhen(target string, when domain.ConditionSet) *CapabilityBuilder {
	c.capability.Transitions = append(c.capability.Transitions, domain.TransitionRule{Target: target, When: when})
	return c
}

// Capability continues with another capability of the same entity.
func (c *CapabilityBuilder) Capability(name string) *CapabilityBuilder {
	return c.builder.Capability(name)
}

// Build returns the underlying domain.Capability.
// This is primarily used by the Builder, but exposed for advanced usage.
func (c *CapabilityBuilder) Build() domain.Capability {
	cp := c.capability
	cp.Params = append([]domain.Parameter(nil), c.capability.Params...)
	cp.Availability = append([]domain.ConditionSet(nil), c.capability.Availability...)
	cp.Transitions = append([]domain.TransitionRule(nil), c.capability.Transitions...)
	return cp
}
