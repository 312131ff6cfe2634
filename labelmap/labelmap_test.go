package labelmap_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jublebi/ostnu/label"
	"github.com/jublebi/ostnu/labelmap"
	"github.com/jublebi/ostnu/satint"
)

// Per spec §3.3, (β,w) dominates (α,v) iff β subsumes α (β is at least as
// specific as α) AND w≤v: a more-specific-or-equal label with an
// equal-or-better value evicts a less specific one, never the reverse.

func TestMerge_SameLabelBetterValueReplaces(t *testing.T) {
	m := labelmap.New()
	p := label.Literal(0, true)

	assert.True(t, m.Merge(p, satint.Finite(10)))
	assert.True(t, m.Merge(p, satint.Finite(3)), "strictly better value for the same label must replace it")
	v, ok := m.ValueFor(p)
	require.True(t, ok)
	val, _ := v.Value()
	assert.Equal(t, int64(3), val)
	assert.Equal(t, 1, m.Len())
	require.True(t, m.NoDominatedPair())
}

func TestMerge_SameLabelWorseValueRejected(t *testing.T) {
	m := labelmap.New()
	p := label.Literal(0, true)

	assert.True(t, m.Merge(p, satint.Finite(10)))
	assert.False(t, m.Merge(p, satint.Finite(15)), "worse value for an already-stored label must be rejected")
	v, ok := m.ValueFor(p)
	require.True(t, ok)
	val, _ := v.Value()
	assert.Equal(t, int64(10), val)
}

func TestMerge_MoreSpecificEvictsGeneral(t *testing.T) {
	m := labelmap.New()
	p := label.Literal(0, true)
	empty := label.Empty()

	m.Merge(empty, satint.Finite(5))
	// p subsumes empty and 3<=5, so (p,3) dominates (empty,5).
	assert.True(t, m.Merge(p, satint.Finite(3)))
	assert.Equal(t, 1, m.Len())
	_, ok := m.ValueFor(empty)
	assert.False(t, ok, "the dominated empty-label entry must be gone")
	require.True(t, m.NoDominatedPair())
}

func TestMerge_GeneralDoesNotEvictSpecific(t *testing.T) {
	m := labelmap.New()
	p := label.Literal(0, true)
	empty := label.Empty()

	m.Merge(p, satint.Finite(10))
	// empty does not subsume p, so even though 3<10, (empty,3) cannot
	// dominate (p,10): both entries must coexist.
	assert.True(t, m.Merge(empty, satint.Finite(3)))
	assert.Equal(t, 2, m.Len())
	require.True(t, m.NoDominatedPair())
}

func TestWasSuperseded(t *testing.T) {
	m := labelmap.New()
	p := label.Literal(0, true)
	m.Merge(p, satint.Finite(2))
	assert.True(t, m.WasSuperseded(p, satint.Finite(5)))
	assert.False(t, m.WasSuperseded(p, satint.Finite(1)))
}

func TestMinValueConsistentWith(t *testing.T) {
	m := labelmap.New()
	p := label.Literal(0, true)
	notP := label.Literal(0, false)
	m.Merge(p, satint.Finite(5))
	m.Merge(notP, satint.Finite(2))

	v, ok := m.MinValueConsistentWith(p)
	require.True(t, ok)
	val, _ := v.Value()
	assert.Equal(t, int64(5), val)
}

func TestMinValueSubsumedBy(t *testing.T) {
	m := labelmap.New()
	empty := label.Empty()
	p := label.Literal(0, true)
	m.Merge(empty, satint.Finite(5))

	_, ok := m.MinValueSubsumedBy(p)
	require.True(t, ok, "p subsumes empty, so empty's value is visible")

	m.Merge(p, satint.Finite(1))
	v, ok := m.MinValueSubsumedBy(p)
	require.True(t, ok)
	val, _ := v.Value()
	assert.Equal(t, int64(1), val)
}

func TestClone_Independent(t *testing.T) {
	m := labelmap.New()
	p := label.Literal(0, true)
	m.Merge(p, satint.Finite(5))
	c := m.Clone()
	c.Merge(label.Empty(), satint.Finite(1))
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, 2, c.Len())
}
