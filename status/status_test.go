package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jublebi/ostnu/status"
)

func TestReset_ClearsInPlace(t *testing.T) {
	s := &status.CheckStatus{
		Finished:     true,
		Consistency:  true,
		Counters:     status.RuleCounters{NoCase: 3},
		NegativeCycle: &status.NegativeCycleWitness{Nodes: []string{"A", "B"}, TotalWeight: -1},
	}
	s.Reset()
	assert.False(t, s.Finished)
	assert.False(t, s.Consistency)
	assert.Equal(t, int64(0), s.Counters.NoCase)
	assert.Nil(t, s.NegativeCycle)
}

func TestUpperCaseDecomposition_SumsToTotal(t *testing.T) {
	c := status.RuleCounters{
		Decomposition: status.UpperCaseDecomposition{
			ActivationKnown: 2,
			EmptyLabel:      1,
			EndsAtZ:         4,
		},
	}
	c.UpperCase = c.Decomposition.ActivationKnown + c.Decomposition.EmptyLabel + c.Decomposition.EndsAtZ
	assert.Equal(t, int64(7), c.UpperCase)
}

func TestSRNCEdge_ProvenanceKindString(t *testing.T) {
	assert.Equal(t, "ordinary", status.SRNCOrdinary.String())
	assert.Equal(t, "uppercase", status.SRNCUpperCase.String())
	assert.Equal(t, "lowercase", status.SRNCLowerCase.String())
	assert.Equal(t, "mixed", status.SRNCMixed.String())
}

func TestPSTNCheckStatus_EmbedsCheckStatus(t *testing.T) {
	var p status.PSTNCheckStatus
	p.Finished = true
	p.ProbabilityMass = 0.95
	assert.True(t, p.CheckStatus.Finished)
	assert.InDelta(t, 0.95, p.ProbabilityMass, 1e-9)
}
