package pstn_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jublebi/ostnu/pstn"
	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/tnet"
)

// buildLogNormalSTNU constructs Z, A (activation), C (contingent, log-normal(mu,sigma)).
func buildLogNormalSTNU(t *testing.T, mu, sigma float64) *tnet.Graph {
	t.Helper()
	g := tnet.NewGraph()
	require.NoError(t, g.AddNode(&tnet.Node{Name: "Z"}))
	require.NoError(t, g.AddNode(&tnet.Node{Name: "A"}))
	require.NoError(t, g.AddNode(&tnet.Node{
		Name:                 "C",
		HasContingentALetter: true,
		ContingentALetter:    'c',
		LogNormal:            &tnet.LogNormalParams{Mu: mu, Sigma: sigma},
	}))
	_, err := g.AddEdge(&tnet.Edge{From: "Z", To: "A", Kind: tnet.KindOrdinary, Weight: satint.Finite(0)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "A", To: "Z", Kind: tnet.KindOrdinary, Weight: satint.Finite(0)})
	require.NoError(t, err)
	// Placeholder bound; BuildApproxSTNU overwrites both with the
	// range-factor-derived [lower,upper] before the first DC check.
	_, err = g.AddEdge(&tnet.Edge{From: "A", To: "C", Type: tnet.ContingentConstraint, Kind: tnet.KindOrdinary, Weight: satint.Finite(2)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "C", To: "A", Type: tnet.ContingentConstraint, Kind: tnet.KindLowerCase, ALetter: 'c', Weight: satint.Finite(1)})
	require.NoError(t, err)
	return g
}

func TestBuildApproxSTNU_UnconflictedNetworkSucceedsFirstIteration(t *testing.T) {
	g := buildLogNormalSTNU(t, 2.0, 0.3)
	require.NoError(t, tnet.InitAndCheck(g, zerolog.Nop()))

	c := pstn.NewChecker(g, zerolog.Nop())
	st, err := c.BuildApproxSTNU(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Finished)
	assert.True(t, st.Controllable)
	assert.Equal(t, 1, st.ExitFlag)
	assert.Equal(t, 1, st.Iterations)
	assert.Greater(t, st.ProbabilityMass, 0.0)
	assert.LessOrEqual(t, st.ProbabilityMass, 1.0)
}

func TestBuildApproxSTNU_OrdinaryOnlyCycleReportsNoFreeVariable(t *testing.T) {
	g := buildLogNormalSTNU(t, 2.0, 0.3)
	// An ordinary-only negative cycle unrelated to the contingent link: no
	// SRNC participant can be shrunk, per spec §4.5 step 3.
	require.NoError(t, g.AddNode(&tnet.Node{Name: "R"}))
	_, err := g.AddEdge(&tnet.Edge{From: "A", To: "R", Kind: tnet.KindOrdinary, Weight: satint.Finite(0)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "R", To: "A", Kind: tnet.KindOrdinary, Weight: satint.Finite(-1)})
	require.NoError(t, err)

	require.NoError(t, tnet.InitAndCheck(g, zerolog.Nop()))

	c := pstn.NewChecker(g, zerolog.Nop())
	st, err := c.BuildApproxSTNU(context.Background())
	require.Error(t, err)
	assert.False(t, st.Controllable)
	assert.Equal(t, -10, st.ExitFlag)
}

func TestReset_ClearsStatus(t *testing.T) {
	g := buildLogNormalSTNU(t, 2.0, 0.3)
	require.NoError(t, tnet.InitAndCheck(g, zerolog.Nop()))
	c := pstn.NewChecker(g, zerolog.Nop())
	_, err := c.BuildApproxSTNU(context.Background())
	require.NoError(t, err)
	c.Reset()
	assert.False(t, c.GetCheckStatus().Finished)
}
