package stnu

import (
	"github.com/jublebi/ostnu/status"
	"github.com/jublebi/ostnu/tnet"
)

// findSRNC reconstructs the semi-reducible negative cycle witnessed by the
// arena record at selfLoopIdx (a derived self-loop with negative weight),
// per spec §4.3. It walks the provenance arena backward from the
// offending record, expanding every derived edge into its two parents
// until only base edges remain, and reports both the as-found cycle (one
// hop per rule application on the path to the self-loop) and the fully
// expanded cycle (every derived edge inlined to base edges).
func (e *engine) findSRNC(selfLoopIdx int) *status.SRNC {
	asFound := e.collectRuleHops(selfLoopIdx)
	expanded := e.expandToBase(selfLoopIdx)

	srnc := &status.SRNC{
		Cycle:            toStatusEdges(asFound),
		Expanded:         toStatusEdges(expanded),
		LowerCaseTallies: make(map[rune]int),
		UpperCaseTallies: make(map[rune]int),
	}

	kindSet := make(map[status.EdgeProvenanceKind]bool)
	for _, rec := range e.walk(selfLoopIdx) {
		switch rec.key.Kind {
		case tnet.KindUpperCase:
			kindSet[status.SRNCUpperCase] = true
			srnc.UpperCaseTallies[rec.key.ALetter]++
		case tnet.KindLowerCase:
			kindSet[status.SRNCLowerCase] = true
			srnc.LowerCaseTallies[rec.key.ALetter]++
		}
	}
	switch {
	case kindSet[status.SRNCUpperCase] && kindSet[status.SRNCLowerCase]:
		srnc.EdgeType = status.SRNCMixed
	case kindSet[status.SRNCUpperCase]:
		srnc.EdgeType = status.SRNCUpperCase
	case kindSet[status.SRNCLowerCase]:
		srnc.EdgeType = status.SRNCLowerCase
	default:
		srnc.EdgeType = status.SRNCOrdinary
	}

	seen := make(map[edgeKey]int, len(expanded))
	var sum int64
	for _, r := range expanded {
		seen[r.key]++
		sum += r.weight
	}
	maxMult, simple := 0, true
	for _, count := range seen {
		if count > maxMult {
			maxMult = count
		}
		if count > 1 {
			simple = false
		}
	}
	srnc.MaxMultiplicity = maxMult
	srnc.IsSimple = simple
	srnc.Sum = sum

	return srnc
}

// walk returns every arena record reachable from idx (including idx
// itself): each derived record's two parents are visited before the
// record itself, so the result mixes base edges and every intermediate
// rule application that contributed to the cycle.
func (e *engine) walk(idx int) []record {
	var out []record
	visited := make(map[int]bool)
	var visit func(i int)
	visit = func(i int) {
		if i < 0 || visited[i] {
			return
		}
		visited[i] = true
		r := e.arena.at(i)
		if r.parent1 >= 0 {
			visit(r.parent1)
		}
		if r.parent2 >= 0 {
			visit(r.parent2)
		}
		out = append(out, r)
	}
	visit(idx)
	return out
}

// collectRuleHops returns the chain of records that directly compose the
// self-loop, as found rather than fully expanded: it recurses down
// parent1 (the running accumulated path) to a base edge, and appends
// parent2 (the other edge combined in at that step) as a single hop
// without recursing into it, since parent2 may itself be a derived edge.
// The closing self-loop record itself is never appended, only its
// parents are.
func (e *engine) collectRuleHops(idx int) []record {
	r := e.arena.at(idx)
	if r.rule == ruleBase {
		return []record{r}
	}
	var out []record
	if r.parent1 >= 0 {
		out = append(out, e.collectRuleHops(r.parent1)...)
	}
	if r.parent2 >= 0 {
		out = append(out, e.arena.at(r.parent2))
	}
	return out
}

// expandToBase recursively inlines every derived record into its base
// (rule==ruleBase) constituents, in left-to-right order.
func (e *engine) expandToBase(idx int) []record {
	r := e.arena.at(idx)
	if r.rule == ruleBase {
		return []record{r}
	}
	var out []record
	if r.parent1 >= 0 {
		out = append(out, e.expandToBase(r.parent1)...)
	}
	if r.parent2 >= 0 {
		out = append(out, e.expandToBase(r.parent2)...)
	}
	return out
}

func toStatusEdges(recs []record) []status.SRNCEdge {
	out := make([]status.SRNCEdge, 0, len(recs))
	for _, r := range recs {
		kind := status.SRNCOrdinary
		switch r.key.Kind {
		case tnet.KindUpperCase:
			kind = status.SRNCUpperCase
		case tnet.KindLowerCase:
			kind = status.SRNCLowerCase
		}
		out = append(out, status.SRNCEdge{
			From:    r.key.From,
			To:      r.key.To,
			Weight:  r.weight,
			ALetter: r.key.ALetter,
			Kind:    kind,
		})
	}
	return out
}
