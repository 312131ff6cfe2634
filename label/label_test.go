package label_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jublebi/ostnu/label"
)

func TestConjunction_Consistent(t *testing.T) {
	a := label.Literal(0, true)  // p
	b := label.Literal(1, false) // ¬q
	got, ok := label.Conjunction(a, b)
	require.True(t, ok)
	assert.Equal(t, label.Straight, got.State(0))
	assert.Equal(t, label.Negated, got.State(1))
	assert.Equal(t, 2, got.Size())
}

func TestConjunction_Contradiction(t *testing.T) {
	a := label.Literal(0, true)
	b := label.Literal(0, false)
	_, ok := label.Conjunction(a, b)
	assert.False(t, ok)
	assert.False(t, label.Consistent(a, b))
}

func TestConjunction_KnownBeatsUnknown(t *testing.T) {
	a := label.UnknownLiteral(2)
	b := label.Literal(2, true)
	got, ok := label.Conjunction(a, b)
	require.True(t, ok)
	assert.Equal(t, label.Straight, got.State(2))
}

func TestSubsumption(t *testing.T) {
	p, _ := label.Conjunction(label.Literal(0, true), label.Literal(1, false))
	q := label.Literal(0, true)
	assert.True(t, p.Subsumes(q), "p∧¬q should subsume p")
	assert.False(t, q.Subsumes(p), "p should not subsume p∧¬q")
	assert.True(t, label.Empty().Subsumes(label.Empty()))
	assert.True(t, p.Subsumes(label.Empty()), "everything subsumes the empty label")
}

func TestNegate(t *testing.T) {
	a := label.Literal(3, true)
	b, err := a.Negate(3)
	require.NoError(t, err)
	assert.Equal(t, label.Negated, b.State(3))

	_, err = a.Negate(4)
	assert.ErrorIs(t, err, label.ErrLiteralNotPresent)

	u := label.UnknownLiteral(5)
	_, err = u.Negate(5)
	assert.ErrorIs(t, err, label.ErrLiteralUnknown)
}

func TestRemove(t *testing.T) {
	a, _ := label.Conjunction(label.Literal(0, true), label.Literal(1, true))
	b := a.Remove(0)
	assert.False(t, b.IsPresent(0))
	assert.True(t, b.IsPresent(1))
}

func TestRegistry(t *testing.T) {
	reg := label.NewRegistry()
	p, err := reg.Intern('p')
	require.NoError(t, err)
	q, err := reg.Intern('q')
	require.NoError(t, err)
	assert.NotEqual(t, p, q)

	again, err := reg.Intern('p')
	require.NoError(t, err)
	assert.Equal(t, p, again)

	r, ok := reg.Rune(p)
	require.True(t, ok)
	assert.Equal(t, 'p', r)
}

func TestRegistry_TooMany(t *testing.T) {
	reg := label.NewRegistry()
	for i := 0; i < label.MaxPropositions; i++ {
		_, err := reg.Intern(rune('A' + i))
		require.NoError(t, err)
	}
	_, err := reg.Intern(rune('A' + label.MaxPropositions))
	assert.ErrorIs(t, err, label.ErrTooManyPropositions)
}
