// Package resolver decides, per permutation, whether a capability is available
// and which permutation a transition-bearing capability leads to.
package resolver

import (
	"fmt"
	"strings"

	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/aretw0/statewrap/pkg/relation"
)

// Resolver resolves capabilities against permutations of one entity.
// It only reads its inputs and is safe for concurrent use.
type Resolver struct {
	groups    *domain.StateGroupMap
	relations *relation.Registry
}

// New creates a resolver over groups. A nil registry means relation.Default().
func New(groups *domain.StateGroupMap, relations *relation.Registry) *Resolver {
	if relations == nil {
		relations = relation.Default()
	}
	return &Resolver{
		groups:    groups,
		relations: relations,
	}
}

// Resolve computes the availability and result of c in permutation p.
func (r *Resolver) Resolve(c *domain.Capability, p domain.Permutation) (domain.ResolvedCapability, error) {
	available, err := r.Available(c, p)
	if err != nil {
		return domain.ResolvedCapability{}, err
	}
	resolved := domain.ResolvedCapability{Capability: c, Available: available}
	if !available {
		return resolved, nil
	}

	if c.HasValue() {
		resolved.Result = domain.Result{Kind: domain.ResultValue, Type: c.Result}
		return resolved, nil
	}

	successor, err := r.Successor(c, p)
	if err != nil {
		return domain.ResolvedCapability{}, err
	}
	resolved.Result = domain.Result{Kind: domain.ResultTransition, Successor: successor}
	return resolved, nil
}

// Available reports whether c may be invoked in p.
func (r *Resolver) Available(c *domain.Capability, p domain.Permutation) (bool, error) {
	if c.AvailableForAll && len(c.Availability) > 0 {
		return false, &domain.InvalidStateRepresentationError{
			Reason:     domain.ReasonConflictingAvailability,
			Capability: c.Name,
			Message:    "a capability cannot be available for all states and for specific states at once",
		}
	}
	if c.AvailableForAll {
		return true, nil
	}

	for _, set := range c.Availability {
		ok, err := r.relations.EvaluateSet(set, domain.RelationOr, r.groups, p)
		if err != nil {
			return false, withCapability(err, c.Name)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Successor computes the permutation reached by invoking the value-less capability c in p.
// Groups not targeted by a validated transition keep their current state; with no
// validated transition the successor equals p.
func (r *Resolver) Successor(c *domain.Capability, p domain.Permutation) (domain.Permutation, error) {
	var targets []string
	for _, rule := range c.Transitions {
		ok, err := r.relations.EvaluateSet(rule.When, domain.RelationAnd, r.groups, p)
		if err != nil {
			return nil, withCapability(err, c.Name)
		}
		if ok {
			targets = append(targets, rule.Target)
		}
	}

	var unknown []string
	for _, t := range targets {
		if !r.groups.Has(t) {
			unknown = append(unknown, t)
		}
	}
	if len(unknown) > 0 {
		return nil, &domain.InvalidStateRepresentationError{
			Reason:     domain.ReasonUnknownTarget,
			Capability: c.Name,
			States:     unknown,
			Message:    fmt.Sprintf("transition targets states which do not exist: %s", strings.Join(unknown, ", ")),
		}
	}

	// Distinct targets per group, in first-seen order.
	byGroup := make(map[int][]string)
	var order []int
	for _, t := range targets {
		gi, _ := r.groups.GroupOf(t)
		if _, seen := byGroup[gi]; !seen {
			order = append(order, gi)
		}
		if !contains(byGroup[gi], t) {
			byGroup[gi] = append(byGroup[gi], t)
		}
	}

	var conflicts []string
	var conflicting []string
	for _, gi := range order {
		if len(byGroup[gi]) > 1 {
			conflicts = append(conflicts, "["+strings.Join(byGroup[gi], ", ")+"]")
			conflicting = append(conflicting, byGroup[gi]...)
		}
	}
	if len(conflicts) > 0 {
		return nil, &domain.InvalidStateRepresentationError{
			Reason:     domain.ReasonAmbiguousTransition,
			Capability: c.Name,
			States:     conflicting,
			Message: fmt.Sprintf("transitions change to different states of the same group in %s: %s",
				p, strings.Join(conflicts, " and ")),
		}
	}

	next := p.Clone()
	for gi, states := range byGroup {
		next[gi] = states[0]
	}
	return next, nil
}

func withCapability(err error, capability string) error {
	if isr, ok := domain.AsInvalidStateRepresentation(err); ok && isr.Capability == "" {
		cp := *isr
		cp.Capability = capability
		return &cp
	}
	return err
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
