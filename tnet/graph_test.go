package tnet_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/tnet"
)

func buildSimpleSTN(t *testing.T) *tnet.Graph {
	t.Helper()
	g := tnet.NewGraph()
	for _, name := range []string{"Z", "A", "B"} {
		require.NoError(t, g.AddNode(&tnet.Node{Name: name}))
	}
	mustEdge := func(from, to string, w int64) {
		_, err := g.AddEdge(&tnet.Edge{From: from, To: to, Weight: satint.Finite(w)})
		require.NoError(t, err)
	}
	mustEdge("A", "B", 5)
	mustEdge("B", "A", -2)
	mustEdge("A", "Z", 0)
	mustEdge("B", "Z", 0)
	return g
}

func TestAddNode_DuplicateRejected(t *testing.T) {
	g := tnet.NewGraph()
	require.NoError(t, g.AddNode(&tnet.Node{Name: "A"}))
	err := g.AddNode(&tnet.Node{Name: "A"})
	assert.ErrorIs(t, err, tnet.ErrNodeAlreadyExists)
}

func TestAddEdge_RejectsSelfLoop(t *testing.T) {
	g := tnet.NewGraph()
	require.NoError(t, g.AddNode(&tnet.Node{Name: "A"}))
	_, err := g.AddEdge(&tnet.Edge{From: "A", To: "A", Weight: satint.Zero})
	assert.ErrorIs(t, err, tnet.ErrSameEndpoints)
}

func TestAddEdge_RejectsMissingEndpoint(t *testing.T) {
	g := tnet.NewGraph()
	require.NoError(t, g.AddNode(&tnet.Node{Name: "A"}))
	_, err := g.AddEdge(&tnet.Edge{From: "A", To: "B", Weight: satint.Zero})
	assert.ErrorIs(t, err, tnet.ErrNodeNotFound)
}

func TestInitAndCheck_CreatesZAndZeroEdges(t *testing.T) {
	g := buildSimpleSTN(t)
	err := tnet.InitAndCheck(g, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, tnet.SourceName, g.Source())
	for _, name := range []string{"A", "B"} {
		found := false
		for _, e := range g.OutEdges(name) {
			if e.To == tnet.SourceName {
				found = true
				v, ok := e.Weight.Value()
				require.True(t, ok)
				assert.LessOrEqual(t, v, int64(0))
			}
		}
		assert.True(t, found, "expected a %s->Z edge", name)
	}
}

func TestInitAndCheck_CreatesZWhenAbsent(t *testing.T) {
	g := tnet.NewGraph()
	require.NoError(t, g.AddNode(&tnet.Node{Name: "A"}))
	require.NoError(t, tnet.InitAndCheck(g, zerolog.Nop()))
	assert.Equal(t, 2, g.NodeCount()) // A and Z
	assert.True(t, g.HasNode(tnet.SourceName))
}

func TestInitAndCheck_MissingContingentCompanion(t *testing.T) {
	g := tnet.NewGraph()
	for _, name := range []string{"Z", "A", "C"} {
		require.NoError(t, g.AddNode(&tnet.Node{Name: name}))
	}
	_, err := g.AddEdge(&tnet.Edge{From: "A", To: "C", Type: tnet.ContingentConstraint, Kind: tnet.KindOrdinary, Weight: satint.Finite(5)})
	require.NoError(t, err)
	err = tnet.InitAndCheck(g, zerolog.Nop())
	assert.ErrorIs(t, err, tnet.ErrNotWellDefined)
}

func TestInitAndCheck_ValidContingentLink(t *testing.T) {
	g := tnet.NewGraph()
	for _, name := range []string{"Z", "A", "C"} {
		require.NoError(t, g.AddNode(&tnet.Node{Name: name}))
	}
	_, err := g.AddEdge(&tnet.Edge{From: "A", To: "C", Type: tnet.ContingentConstraint, Kind: tnet.KindOrdinary, Weight: satint.Finite(5)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "C", To: "A", Type: tnet.ContingentConstraint, Kind: tnet.KindLowerCase, ALetter: 'C', Weight: satint.Finite(2)})
	require.NoError(t, err)

	require.NoError(t, tnet.InitAndCheck(g, zerolog.Nop()))
	act, ok := g.ActivationOf("C")
	require.True(t, ok)
	assert.Equal(t, "A", act)

	cNode, err := g.NodeByName("C")
	require.NoError(t, err)
	assert.True(t, cNode.HasContingentALetter)
	assert.Equal(t, 'C', cNode.ContingentALetter)
}

func TestClone_Independent(t *testing.T) {
	g := buildSimpleSTN(t)
	c := g.Clone()
	_, err := c.AddEdge(&tnet.Edge{From: "A", To: "B", Weight: satint.Finite(99)})
	require.NoError(t, err)
	assert.Equal(t, 4, g.EdgeCount())
	assert.Equal(t, 5, c.EdgeCount())
}

func TestHorizon(t *testing.T) {
	g := buildSimpleSTN(t)
	// max |weight| = 5, |V|-1 = 2 -> horizon = 10
	assert.Equal(t, int64(10), tnet.Horizon(g))
}
