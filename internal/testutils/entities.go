// Package testutils holds shared fixtures for tests.
package testutils

import (
	"fmt"

	"github.com/aretw0/statewrap/pkg/domain"
)

// Robot returns the reference description: a robot moving on a cross-shaped board
// that can be switched on and off.
func Robot() *domain.Entity {
	and := func(states ...string) domain.ConditionSet {
		return domain.ConditionSet{Relation: domain.RelationAnd, States: states}
	}
	to := func(target string, from ...string) domain.TransitionRule {
		return domain.TransitionRule{Target: target, When: domain.ConditionSet{States: from}}
	}

	return &domain.Entity{
		Name:    "Robot",
		Package: "robot",
		Groups: []domain.StateGroup{
			{Name: "Position", States: []string{"Left", "Middle", "Right", "Up", "Down"}},
			{Name: "Movable", States: []string{"On", "Off"}},
		},
		Capabilities: []domain.Capability{
			{
				Name:         "MoveUp",
				Availability: []domain.ConditionSet{and("On", "Middle"), and("On", "Down")},
				Transitions:  []domain.TransitionRule{to("Up", "Middle"), to("Middle", "Down")},
			},
			{
				Name:         "MoveDown",
				Availability: []domain.ConditionSet{and("On", "Middle"), and("On", "Up")},
				Transitions:  []domain.TransitionRule{to("Middle", "Up"), to("Down", "Middle")},
			},
			{
				Name:         "MoveLeft",
				Availability: []domain.ConditionSet{and("On", "Middle"), and("On", "Right")},
				Transitions:  []domain.TransitionRule{to("Middle", "Right"), to("Left", "Middle")},
			},
			{
				Name:         "MoveRight",
				Availability: []domain.ConditionSet{and("On", "Middle"), and("On", "Left")},
				Transitions:  []domain.TransitionRule{to("Middle", "Left"), to("Right", "Middle")},
			},
			{Name: "Stay", AvailableForAll: true},
			{
				Name:         "TurnOff",
				Availability: []domain.ConditionSet{{States: []string{"On"}}},
				Transitions:  []domain.TransitionRule{to("Off")},
			},
			{
				Name:         "TurnOn",
				Availability: []domain.ConditionSet{{States: []string{"Off"}}},
				Transitions:  []domain.TransitionRule{to("On")},
			},
			{Name: "Position", Result: "string", AvailableForAll: true},
		},
	}
}

// Grid returns an entity with n groups of size states each and one capability
// cycling the first group, to exercise large expansions.
func Grid(n, size int) *domain.Entity {
	e := &domain.Entity{Name: "Grid"}
	for g := 0; g < n; g++ {
		group := domain.StateGroup{Name: fmt.Sprintf("G%d", g)}
		for s := 0; s < size; s++ {
			group.States = append(group.States, fmt.Sprintf("S%d_%d", g, s))
		}
		e.Groups = append(e.Groups, group)
	}

	step := domain.Capability{Name: "Step", AvailableForAll: true}
	first := e.Groups[0].States
	for i, s := range first {
		step.Transitions = append(step.Transitions, domain.TransitionRule{
			Target: first[(i+1)%len(first)],
			When:   domain.ConditionSet{States: []string{s}},
		})
	}
	e.Capabilities = []domain.Capability{
		step,
		{Name: "Peek", Result: "int", Availability: []domain.ConditionSet{{Relation: domain.RelationXor, States: []string{"S1_0", "S2_0"}}}},
	}
	return e
}
