package dsl

import (
	"context"
	"testing"

	"github.com/aretw0/statewrap/internal/testutils"
	"github.com/aretw0/statewrap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func robot() *Builder {
	b := New("Robot").Package("robot")
	b.Group("Position", "Left", "Middle", "Right", "Up", "Down")
	b.Group("Movable", "On", "Off")

	b.Capability("MoveUp").
		AvailableWhen(And("On", "Middle"), And("On", "Down")).
		To("Up", "Middle").
		To("Middle", "Down").
		Capability("MoveDown").
		AvailableWhen(And("On", "Middle"), And("On", "Up")).
		To("Middle", "Up").
		To("Down", "Middle")
	b.Capability("MoveLeft").
		AvailableWhen(And("On", "Middle"), And("On", "Right")).
		To("Middle", "Right").
		To("Left", "Middle")
	b.Capability("MoveRight").
		AvailableWhen(And("On", "Middle"), And("On", "Left")).
		To("Middle", "Left").
		To("Right", "Middle")
	b.Capability("Stay").Always()
	b.Capability("TurnOff").AvailableIn("On").To("Off")
	b.Capability("TurnOn").AvailableIn("Off").To("On")
	b.Capability("Position").Returns("string").Always()
	return b
}

func TestBuilder_Robot(t *testing.T) {
	entity := robot().Entity()
	assert.Equal(t, *testutils.Robot(), entity)
}

func TestBuilder_CapabilityReuse(t *testing.T) {
	b := New("Lamp")
	b.Capability("Toggle").Doc("Flips the switch.")
	b.Capability("Name").Returns("string")
	b.Capability("Toggle").AvailableIn("On")

	e := b.Entity()
	require.Len(t, e.Capabilities, 2)
	assert.Equal(t, "Toggle", e.Capabilities[0].Name, "declaration order is kept")
	assert.Equal(t, "Flips the switch.", e.Capabilities[0].Doc)
	assert.Len(t, e.Capabilities[0].Availability, 1)
}

func TestBuilder_GenericEntity(t *testing.T) {
	b := New("Box").
		Package("box").
		Doc("A box of values.").
		Import("time").
		TypeParam("T", "").
		TypeParam("K", "comparable").
		Group("Fill", "Empty", "Full")
	b.Capability("Put").
		Param("items", "...T").
		Param("ttl", "time.Duration").
		AvailableIn("Empty").
		ToWhen("Full", Xor("Empty"))

	e := b.Entity()
	assert.Equal(t, []domain.TypeParam{{Name: "T"}, {Name: "K", Constraint: "comparable"}}, e.TypeParams)
	assert.Equal(t, []string{"time"}, e.Imports)
	put := e.Capabilities[0]
	assert.True(t, put.Params[0].Variadic())
	assert.Equal(t, domain.RelationXor, put.Transitions[0].When.Relation)
}

func TestBuilder_EntityIsSnapshot(t *testing.T) {
	b := New("Lamp").Group("Power", "On", "Off")
	cb := b.Capability("Toggle").To("Off", "On")

	first := b.Entity()
	cb.To("On", "Off")
	b.Group("Color", "Red")

	assert.Len(t, first.Capabilities[0].Transitions, 1)
	assert.Len(t, first.Groups, 1)
}

func TestProvider(t *testing.T) {
	lamp := New("Lamp").Group("Power", "On", "Off")
	lamp.Capability("Toggle").To("Off", "On").To("On", "Off")

	provider, err := Provider(robot(), lamp)
	require.NoError(t, err)

	names, err := provider.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Lamp", "Robot"}, names)

	e, err := provider.Describe(context.Background(), "Robot")
	require.NoError(t, err)
	assert.Equal(t, testutils.Robot(), e)

	_, err = Provider(New("Lamp"), New("Lamp"))
	assert.Error(t, err, "duplicate names are rejected")
}
