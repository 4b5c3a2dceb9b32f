package automat_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	automat "github.com/MeineLaterne/zustands-automat"
)

func TestBuilderBasic(t *testing.T) {
	b := automat.NewBuilder[*world]("patrol")
	b.State("walk").
		OnEnter(func(w *world) { w.record("enter walk") }).
		PermitIf("turn", func(w *world) bool { return w.flag })
	b.State("turn").
		OnEnter(func(w *world) { w.record("enter turn") }).
		Permit("walk")

	m, err := b.Initial("walk").Build()
	require.NoError(t, err)

	w := &world{}
	m.Start(w)
	assert.Equal(t, "walk", m.Current().Name())

	w.flag = true
	m.Tick()
	assert.Equal(t, "turn", m.Current().Name())

	m.Tick()
	assert.Equal(t, "walk", m.Current().Name())
	assert.Equal(t, []string{"enter walk", "enter turn", "enter walk"}, w.log)
}

func TestBuilderForwardReference(t *testing.T) {
	b := automat.NewBuilder[*world]("forward")
	// "later" is referenced before it is declared.
	b.State("first").Permit("later")
	b.State("later")

	m, err := b.Initial("first").Build()
	require.NoError(t, err)

	m.Start(&world{})
	m.Tick()
	assert.Equal(t, "later", m.Current().Name())
}

func TestBuilderStateIsGetOrCreate(t *testing.T) {
	b := automat.NewBuilder[*world]("idempotent")
	first := b.State("a")
	second := b.State("a")
	assert.Same(t, first, second)
}

func TestBuilderRequiresInitial(t *testing.T) {
	b := automat.NewBuilder[*world]("no-initial")
	b.State("a")

	_, err := b.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, automat.ErrInvalidConfiguration))
}

func TestBuilderUnknownInitial(t *testing.T) {
	b := automat.NewBuilder[*world]("bad-initial")
	b.State("a")

	_, err := b.Initial("missing").Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, automat.ErrUnknownInitialState))
}

func TestBuilderBrokenTarget(t *testing.T) {
	b := automat.NewBuilder[*world]("broken")
	b.State("a").Permit("nowhere")

	_, err := b.Initial("a").Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, automat.ErrBrokenTransitionTarget))
}

func TestBuilderNested(t *testing.T) {
	b := automat.NewBuilder[*world]("outer")
	a := b.State("a")
	a.PermitIf("b", func(w *world) bool { return w.flag })

	sub := a.Nested()
	sub.State("x").Permit("y")
	sub.State("y").OnEnter(func(w *world) { w.flag = true })

	b.State("b")

	m, err := b.Initial("a").Build()
	require.NoError(t, err)

	w := &world{}
	m.Start(w)
	aNode, _ := m.Lookup("a")
	assert.Equal(t, "x", aNode.Nested().Current().Name())
	assert.Equal(t, "outer/a", aNode.Nested().ID())

	m.Tick() // nested x→y arms the flag
	assert.Equal(t, "a", m.Current().Name())

	m.Tick()
	assert.Equal(t, "b", m.Current().Name())
	assert.Nil(t, aNode.Nested().Current())
}

func TestBuilderNestedInitialOverride(t *testing.T) {
	b := automat.NewBuilder[*world]("outer")
	sub := b.State("a").Nested()
	sub.State("x")
	sub.State("y")
	sub.Initial("y")

	m, err := b.Initial("a").Build()
	require.NoError(t, err)

	m.Start(&world{})
	a, _ := m.Lookup("a")
	assert.Equal(t, "y", a.Nested().Current().Name())
}
