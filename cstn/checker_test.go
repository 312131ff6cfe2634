package cstn_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jublebi/ostnu/cstn"
	"github.com/jublebi/ostnu/label"
	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/tnet"
)

// buildObservationCSTN constructs Z, P (observes proposition p), Q, each
// reachable from Z, with a labeled edge from P to Q conditioned on p.
func buildObservationCSTN(t *testing.T) (*tnet.Graph, label.Proposition) {
	t.Helper()
	g := tnet.NewGraph()
	prop, err := g.Propositions().Intern('p')
	require.NoError(t, err)

	require.NoError(t, g.AddNode(&tnet.Node{Name: "Z"}))
	require.NoError(t, g.AddNode(&tnet.Node{Name: "P", HasObserves: true, Observes: prop}))
	require.NoError(t, g.AddNode(&tnet.Node{Name: "Q"}))

	_, err = g.AddEdge(&tnet.Edge{From: "Z", To: "P", Kind: tnet.KindOrdinary, Weight: satint.Finite(10)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "P", To: "Z", Kind: tnet.KindOrdinary, Weight: satint.Finite(0)})
	require.NoError(t, err)

	qp := tnet.NewLabeledPayload()
	qp.Values.Merge(label.Literal(prop, true), satint.Finite(5))
	_, err = g.AddEdge(&tnet.Edge{From: "P", To: "Q", Kind: tnet.KindOrdinary, Labeled: qp})
	require.NoError(t, err)

	zq := tnet.NewLabeledPayload()
	zq.Values.Merge(label.Literal(prop, true), satint.Finite(0))
	_, err = g.AddEdge(&tnet.Edge{From: "Q", To: "Z", Kind: tnet.KindOrdinary, Labeled: zq})
	require.NoError(t, err)

	return g, prop
}

func TestDynamicConsistencyCheck_ObservationNetworkIsConsistent(t *testing.T) {
	g, _ := buildObservationCSTN(t)

	c := cstn.NewChecker(g, zerolog.Nop())
	st, err := c.DynamicConsistencyCheck(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Consistency)
	assert.True(t, st.Finished)
	assert.Nil(t, st.CSTNWitness)
}

func TestDynamicConsistencyCheck_NegativeSelfLoopIsInconsistent(t *testing.T) {
	g := tnet.NewGraph()
	require.NoError(t, g.AddNode(&tnet.Node{Name: "Z"}))
	require.NoError(t, g.AddNode(&tnet.Node{Name: "A"}))
	_, err := g.AddEdge(&tnet.Edge{From: "Z", To: "A", Kind: tnet.KindOrdinary, Weight: satint.Finite(3)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "A", To: "Z", Kind: tnet.KindOrdinary, Weight: satint.Finite(-5)})
	require.NoError(t, err)

	c := cstn.NewChecker(g, zerolog.Nop())
	st, err := c.DynamicConsistencyCheck(context.Background())
	require.Error(t, err)
	assert.False(t, st.Consistency)
	require.NotNil(t, st.CSTNWitness)
}

func TestValidate_RejectsStdWithOnlyToZ(t *testing.T) {
	opts := cstn.DefaultOptions()
	opts.Semantics = cstn.Std
	opts.OnlyToZ = true
	assert.ErrorIs(t, opts.Validate(), cstn.ErrInvalidSemantics)
}

func TestReset_ClearsStatus(t *testing.T) {
	g, _ := buildObservationCSTN(t)
	c := cstn.NewChecker(g, zerolog.Nop())
	_, err := c.DynamicConsistencyCheck(context.Background())
	require.NoError(t, err)
	c.Reset()
	assert.False(t, c.GetCheckStatus().Finished)
}

func TestDynamicConsistencyCheck_PotentialUpdateCountsOnlyUnderIR(t *testing.T) {
	gStd, _ := buildObservationCSTN(t)
	cStd := cstn.NewChecker(gStd, zerolog.Nop(), cstn.WithSemantics(cstn.Std))
	stStd, err := cStd.DynamicConsistencyCheck(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stStd.Counters.PotentialUpdate)

	gIR, _ := buildObservationCSTN(t)
	cIR := cstn.NewChecker(gIR, zerolog.Nop(), cstn.WithSemantics(cstn.IR))
	stIR, err := cIR.DynamicConsistencyCheck(context.Background())
	require.NoError(t, err)
	assert.Greater(t, stIR.Counters.PotentialUpdate, int64(0))
}

func TestPrototypalLinks_ReportsContingentBounds(t *testing.T) {
	g := tnet.NewGraph()
	require.NoError(t, g.AddNode(&tnet.Node{Name: "Z"}))
	require.NoError(t, g.AddNode(&tnet.Node{Name: "A"}))
	require.NoError(t, g.AddNode(&tnet.Node{Name: "C", HasContingentALetter: true, ContingentALetter: 'C'}))

	_, err := g.AddEdge(&tnet.Edge{From: "A", To: "C", Type: tnet.ContingentConstraint, Kind: tnet.KindOrdinary, Weight: satint.Finite(10)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "C", To: "A", Type: tnet.ContingentConstraint, Kind: tnet.KindLowerCase, ALetter: 'C', Weight: satint.Finite(3)})
	require.NoError(t, err)
	require.NoError(t, g.RegisterContingentPair("A", "C"))

	links := cstn.PrototypalLinks(g)
	require.Len(t, links, 1)
	assert.Equal(t, "A", links[0].Activation)
	assert.Equal(t, "C", links[0].Contingent)
	assert.Equal(t, int64(3), links[0].X)
	assert.Equal(t, int64(10), links[0].Y)

	c := cstn.NewChecker(g, zerolog.Nop())
	assert.Equal(t, links, c.PrototypalLinks())
}
