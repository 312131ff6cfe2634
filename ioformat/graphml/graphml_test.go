package graphml_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jublebi/ostnu/ioformat/graphml"
	"github.com/jublebi/ostnu/label"
	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/tnet"
)

func buildSampleGraph(t *testing.T) *tnet.Graph {
	t.Helper()
	g := tnet.NewGraph()
	require.NoError(t, g.AddNode(&tnet.Node{Name: "Z"}))
	require.NoError(t, g.AddNode(&tnet.Node{Name: "A", X: 1.5, Y: -2}))
	require.NoError(t, g.AddNode(&tnet.Node{
		Name:                 "C",
		HasContingentALetter: true,
		ContingentALetter:    'c',
		LogNormal:            &tnet.LogNormalParams{Mu: 1.2, Sigma: 0.5},
	}))
	_, err := g.AddEdge(&tnet.Edge{From: "Z", To: "A", Kind: tnet.KindOrdinary, Weight: satint.Finite(-3)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "A", To: "Z", Kind: tnet.KindOrdinary, Weight: satint.Finite(5)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "A", To: "C", Type: tnet.ContingentConstraint, Kind: tnet.KindOrdinary, Weight: satint.Finite(4)})
	require.NoError(t, err)
	_, err = g.AddEdge(&tnet.Edge{From: "C", To: "A", Type: tnet.ContingentConstraint, Kind: tnet.KindLowerCase, ALetter: 'c', Weight: satint.Finite(1)})
	require.NoError(t, err)
	return g
}

func TestWriteRead_RoundTripsNodesAndEdges(t *testing.T) {
	g := buildSampleGraph(t)

	var buf bytes.Buffer
	require.NoError(t, graphml.Write(g, &buf))

	got, err := graphml.Read(&buf)
	require.NoError(t, err)

	assert.ElementsMatch(t, g.Nodes(), got.Nodes())
	assert.Equal(t, g.EdgeCount(), got.EdgeCount())

	a, err := got.NodeByName("C")
	require.NoError(t, err)
	require.NotNil(t, a.LogNormal)
	assert.InDelta(t, 1.2, a.LogNormal.Mu, 1e-9)
	assert.InDelta(t, 0.5, a.LogNormal.Sigma, 1e-9)
	assert.True(t, a.HasContingentALetter)
	assert.Equal(t, 'c', a.ContingentALetter)

	var lowerCaseSeen, ordinarySeen bool
	for _, e := range got.Edges() {
		switch {
		case e.From == "C" && e.To == "A":
			lowerCaseSeen = true
			assert.Equal(t, tnet.KindLowerCase, e.Kind)
			v, ok := e.Weight.Value()
			require.True(t, ok)
			assert.Equal(t, int64(1), v)
		case e.From == "A" && e.To == "C":
			ordinarySeen = true
			v, ok := e.Weight.Value()
			require.True(t, ok)
			assert.Equal(t, int64(4), v)
			assert.Equal(t, tnet.ContingentConstraint, e.Type)
		}
	}
	assert.True(t, lowerCaseSeen)
	assert.True(t, ordinarySeen)
}

func TestWrite_IsDeterministicAcrossCalls(t *testing.T) {
	g := buildSampleGraph(t)

	var first, second bytes.Buffer
	require.NoError(t, graphml.Write(g, &first))
	require.NoError(t, graphml.Write(g, &second))

	assert.Equal(t, first.String(), second.String())
}

func TestRoundTrip_PreservesLabeledPayload(t *testing.T) {
	g := tnet.NewGraph()
	require.NoError(t, g.AddNode(&tnet.Node{Name: "Z"}))
	require.NoError(t, g.AddNode(&tnet.Node{Name: "P", HasObserves: true}))
	p, err := g.Propositions().Intern('p')
	require.NoError(t, err)
	node, err := g.NodeByName("P")
	require.NoError(t, err)
	node.Observes = p

	require.NoError(t, g.AddNode(&tnet.Node{Name: "Q"}))
	edge, err := g.AddEdge(&tnet.Edge{From: "P", To: "Q", Type: tnet.Internal, Kind: tnet.KindOrdinary})
	require.NoError(t, err)
	edge.Labeled = tnet.NewLabeledPayload()
	edge.Labeled.Values.Merge(label.Literal(p, true), satint.Finite(-2))

	var buf bytes.Buffer
	require.NoError(t, graphml.Write(g, &buf))

	got, err := graphml.Read(&buf)
	require.NoError(t, err)

	gotP, err := got.NodeByName("P")
	require.NoError(t, err)
	assert.True(t, gotP.HasObserves)

	var found bool
	for _, e := range got.Edges() {
		if e.From == "P" && e.To == "Q" {
			require.NotNil(t, e.Labeled)
			entries := e.Labeled.Values.Entries()
			require.Len(t, entries, 1)
			v, ok := entries[0].Value.Value()
			require.True(t, ok)
			assert.Equal(t, int64(-2), v)
			found = true
		}
	}
	assert.True(t, found)
}

func TestRead_RejectsMissingName(t *testing.T) {
	const doc = `<graphml><graph><node></node></graph></graphml>`
	_, err := graphml.Read(bytes.NewBufferString(doc))
	require.Error(t, err)
}
