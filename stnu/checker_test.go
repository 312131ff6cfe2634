package stnu_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/status"
	"github.com/jublebi/ostnu/stnu"
	"github.com/jublebi/ostnu/tnet"
)

// buildContingentSTNU constructs Z, A (activation), C (contingent, [x,y]).
func buildContingentSTNU(t *testing.T, x, y int64) *tnet.Graph {
	t.Helper()
	g := tnet.NewGraph()
	for _, n := range []string{"Z", "A", "C"} {
		require.NoError(t, g.AddNode(&tnet.Node{Name: n}))
	}
	_, err := g.AddEdge(&tnet.Edge{From: "A", To: "C", Type: tnet.ContingentConstraint, Kind: tnet.KindOrdinary, Weight: satint.Finite(y)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "C", To: "A", Type: tnet.ContingentConstraint, Kind: tnet.KindLowerCase, ALetter: 'c', Weight: satint.Finite(x)})
	require.NoError(t, err)
	return g
}

func TestDynamicControllabilityCheck_SimpleDCSTNU(t *testing.T) {
	g := buildContingentSTNU(t, 1, 10)
	require.NoError(t, tnet.InitAndCheck(g, zerolog.Nop()))

	c := stnu.NewChecker(g, zerolog.Nop())
	st, err := c.DynamicControllabilityCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Controllable)
	assert.True(t, st.Finished)
	assert.Nil(t, st.SRNCWitness)
}

func TestDynamicControllabilityCheck_NonDC_ProducesSRNC(t *testing.T) {
	g := buildContingentSTNU(t, 1, 10)
	// C->R (-9) puts R at least 9 ticks before C while R->C (0) keeps C
	// no later than R: the ordinary cycle C->R->C of weight -9 is the
	// negative cycle the engine reports.
	require.NoError(t, g.AddNode(&tnet.Node{Name: "R"}))
	_, err := g.AddEdge(&tnet.Edge{From: "A", To: "R", Kind: tnet.KindOrdinary, Weight: satint.Finite(0)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "C", To: "R", Kind: tnet.KindOrdinary, Weight: satint.Finite(-9)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "R", To: "C", Kind: tnet.KindOrdinary, Weight: satint.Finite(0)})
	require.NoError(t, err)

	require.NoError(t, tnet.InitAndCheck(g, zerolog.Nop()))

	c := stnu.NewChecker(g, zerolog.Nop())
	st, err := c.DynamicControllabilityCheck(context.Background())
	require.Error(t, err)
	assert.False(t, st.Controllable)
	require.NotNil(t, st.SRNCWitness)
	assert.NotEmpty(t, st.SRNCWitness.Cycle)
}

// TestDynamicControllabilityCheck_NonDCWitnessedBySRNC builds the
// "non-DC STNU witnessed by SRNC" scenario: contingent (A,1,10,C) plus a
// parallel ordinary A->C(-2) edge tightening the activation's outgoing
// bound below the contingent's lower bound. The lower-case rule then
// combines (C,A,lower-case,1) with the tightened (A,C,ordinary,-2) into
// the self-loop (C,C,ordinary,-1).
func TestDynamicControllabilityCheck_NonDCWitnessedBySRNC(t *testing.T) {
	g := buildContingentSTNU(t, 1, 10)
	_, err := g.AddEdge(&tnet.Edge{From: "A", To: "C", Kind: tnet.KindOrdinary, Weight: satint.Finite(-2)})
	require.NoError(t, err)

	require.NoError(t, tnet.InitAndCheck(g, zerolog.Nop()))

	c := stnu.NewChecker(g, zerolog.Nop())
	st, err := c.DynamicControllabilityCheck(context.Background())
	require.Error(t, err)
	assert.False(t, st.Controllable)
	require.NotNil(t, st.SRNCWitness)

	w := st.SRNCWitness
	assert.Equal(t, int64(-1), w.Sum)
	assert.Equal(t, status.SRNCLowerCase, w.EdgeType)
	assert.True(t, w.IsSimple)
	assert.NotEmpty(t, w.Cycle)
}

func TestReset_ClearsStatus(t *testing.T) {
	g := buildContingentSTNU(t, 1, 10)
	require.NoError(t, tnet.InitAndCheck(g, zerolog.Nop()))
	c := stnu.NewChecker(g, zerolog.Nop())
	_, err := c.DynamicControllabilityCheck(context.Background())
	require.NoError(t, err)
	c.Reset()
	assert.False(t, c.GetCheckStatus().Finished)
}
