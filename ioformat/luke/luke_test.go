package luke_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jublebi/ostnu/ioformat/luke"
)

const sampleSTNU = `# KIND OF NETWORK
STNU
# Num Time-Points
3
# Time-Point Names
Z A C
# Ordinary Edges
Z 0 A
A -5 Z
# Contingent Links
A 1 4 C
`

func TestRead_ParsesSTNUSample(t *testing.T) {
	doc, err := luke.Read(strings.NewReader(sampleSTNU))
	require.NoError(t, err)
	assert.Equal(t, "STNU", doc.Kind)
	assert.Equal(t, 3, doc.Graph.NodeCount())
	assert.Equal(t, 1, doc.Graph.ContingentNodeCount())

	act, ok := doc.Graph.ActivationOf("C")
	require.True(t, ok)
	assert.Equal(t, "A", act)
}

func TestRead_RejectsINFInOrdinaryEdge(t *testing.T) {
	const withInf = `# KIND OF NETWORK
STN
# Num Time-Points
2
# Time-Point Names
Z A
# Ordinary Edges
Z INF A
`
	_, err := luke.Read(strings.NewReader(withInf))
	require.Error(t, err)
}

func TestRead_AcceptsQuotedNames(t *testing.T) {
	const quoted = `# KIND OF NETWORK
STN
# Num Time-Points
2
# Time-Point Names
"node one" "node two"
# Ordinary Edges
"node one" 3 "node two"
`
	doc, err := luke.Read(strings.NewReader(quoted))
	require.NoError(t, err)
	assert.True(t, doc.Graph.HasNode("node one"))
	assert.True(t, doc.Graph.HasNode("node two"))
}

func TestRead_ParsesOraclesSection(t *testing.T) {
	const withOracle = `# KIND OF NETWORK
OSTNU
# Num Time-Points
3
# Time-Point Names
Z A O
# Ordinary Edges
Z 0 A
# Oracles
O --> p
`
	doc, err := luke.Read(strings.NewReader(withOracle))
	require.NoError(t, err)
	n, err := doc.Graph.NodeByName("O")
	require.NoError(t, err)
	assert.True(t, n.HasOracleFor)
}

func TestWriteRead_RoundTripsContingentLink(t *testing.T) {
	doc, err := luke.Read(strings.NewReader(sampleSTNU))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, luke.Write(doc, &buf))

	got, err := luke.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.Kind, got.Kind)
	assert.Equal(t, doc.Graph.NodeCount(), got.Graph.NodeCount())
	assert.Equal(t, doc.Graph.ContingentNodeCount(), got.Graph.ContingentNodeCount())

	act, ok := got.Graph.ActivationOf("C")
	require.True(t, ok)
	assert.Equal(t, "A", act)
}

func TestRead_RejectsMismatchedTimePointCount(t *testing.T) {
	const bad = `# KIND OF NETWORK
STN
# Num Time-Points
3
# Time-Point Names
Z A
# Ordinary Edges
`
	_, err := luke.Read(strings.NewReader(bad))
	require.Error(t, err)
}
