package cstn

import (
	"fmt"

	"github.com/jublebi/ostnu/label"
	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/tnet"
)

// syntheticRune maps a contingent link's ALetter into the Unicode Private
// Use Area, so a proposition interned for a CSTNU2CSTN/CSTN2CSTN0 rewrite
// can never collide with a proposition the original graph already uses.
func syntheticRune(aLetter rune) rune {
	return rune(0xE000) + aLetter
}

// CSTNU2CSTN rewrites g into a plain CSTN whose IR-DC check coincides with
// g's CSTNU-DC, per spec.md §4.4. Every contingent link gets a synthetic
// observation node coincident with its activation, observing a freshly
// interned proposition; every upper-case labeled value keyed by that
// link's ALetter is folded into an ordinary labeled value guarded by the
// new proposition (straight), and its lower-case companion folds the same
// way. The link's scalar activation<->contingent edges lose their
// ContingentConstraint tagging and become Normal ordinary edges that keep
// their scalar weights, without the guard. Other scalar upper-/lower-case
// edges keep their Kind, and the result still registers the
// activation/contingent pairs (ContingentPairs, ActivationOf), though the
// contingent nodes no longer carry an ALetter. Run DynamicConsistencyCheck
// with WithSemantics(IR) on the result.
func CSTNU2CSTN(g *tnet.Graph) (*tnet.Graph, error) {
	out := g.Clone()

	for _, pair := range out.ContingentPairs() {
		activation, contingent := pair[0], pair[1]
		cNode, err := out.NodeByName(contingent)
		if err != nil {
			return nil, fmt.Errorf("cstn: CSTNU2CSTN: %w", err)
		}
		if !cNode.HasContingentALetter {
			continue
		}
		aLetter := cNode.ContingentALetter

		guard, err := observeContingent(out, activation, contingent, aLetter)
		if err != nil {
			return nil, fmt.Errorf("cstn: CSTNU2CSTN: %w", err)
		}

		for _, ed := range out.Edges() {
			if ed.Labeled == nil {
				continue
			}
			if m, ok := ed.Labeled.UpperCase[aLetter]; ok {
				for _, entry := range m.Entries() {
					if conj, ok := label.Conjunction(entry.Label, guard); ok {
						ed.Labeled.Values.Merge(conj, entry.Value)
					}
				}
				delete(ed.Labeled.UpperCase, aLetter)
			}
			if lc, ok := ed.Labeled.LowerCase[aLetter]; ok {
				if conj, ok := label.Conjunction(lc.Alpha, guard); ok {
					ed.Labeled.Values.Merge(conj, lc.Value)
				}
				delete(ed.Labeled.LowerCase, aLetter)
			}
		}

		declassify(out, activation, contingent)
		cNode.HasContingentALetter = false
	}

	return out, nil
}

// CSTN2CSTN0 rewrites g, intended for checking under Epsilon semantics,
// into an equivalent instance checkable under plain IR semantics on an
// enlarged graph, per spec.md §4.4: one synthetic observation node is
// added per contingent link, pinned eps ticks after its activation, so the
// ε reaction delay is realized statically in the graph rather than applied
// as a per-rule guard adjustment at check time. Run
// DynamicConsistencyCheck with WithSemantics(IR) (not Epsilon) on the
// result.
func CSTN2CSTN0(g *tnet.Graph, eps int64) (*tnet.Graph, error) {
	if eps <= 0 {
		return nil, fmt.Errorf("cstn: CSTN2CSTN0: epsilon must be positive")
	}
	out := g.Clone()

	for _, pair := range out.ContingentPairs() {
		activation, contingent := pair[0], pair[1]
		cNode, err := out.NodeByName(contingent)
		if err != nil {
			return nil, fmt.Errorf("cstn: CSTN2CSTN0: %w", err)
		}
		if !cNode.HasContingentALetter {
			continue
		}

		obsName := "Eps_" + contingent
		if out.HasNode(obsName) {
			continue
		}
		prop, err := out.Propositions().Intern(syntheticRune(cNode.ContingentALetter))
		if err != nil {
			return nil, fmt.Errorf("cstn: CSTN2CSTN0: %w", err)
		}
		if err := out.AddNode(&tnet.Node{Name: obsName, HasObserves: true, Observes: prop}); err != nil {
			return nil, fmt.Errorf("cstn: CSTN2CSTN0: %w", err)
		}
		if _, err := out.AddEdge(&tnet.Edge{From: activation, To: obsName, Type: tnet.Internal, Kind: tnet.KindOrdinary, Weight: satint.Finite(eps)}); err != nil {
			return nil, fmt.Errorf("cstn: CSTN2CSTN0: %w", err)
		}
		if _, err := out.AddEdge(&tnet.Edge{From: obsName, To: activation, Type: tnet.Internal, Kind: tnet.KindOrdinary, Weight: satint.Finite(-eps)}); err != nil {
			return nil, fmt.Errorf("cstn: CSTN2CSTN0: %w", err)
		}
	}

	return out, nil
}

// observeContingent adds (if not already present) a synthetic observation
// node coincident with activation, returning the straight literal over its
// freshly interned proposition that other edges should be guarded by.
func observeContingent(g *tnet.Graph, activation, contingent string, aLetter rune) (label.Label, error) {
	obsName := "Obs_" + contingent
	prop, err := g.Propositions().Intern(syntheticRune(aLetter))
	if err != nil {
		return label.Label{}, err
	}
	if !g.HasNode(obsName) {
		if err := g.AddNode(&tnet.Node{Name: obsName, HasObserves: true, Observes: prop}); err != nil {
			return label.Label{}, err
		}
		if _, err := g.AddEdge(&tnet.Edge{From: activation, To: obsName, Type: tnet.Internal, Kind: tnet.KindOrdinary, Weight: satint.Finite(0)}); err != nil {
			return label.Label{}, err
		}
		if _, err := g.AddEdge(&tnet.Edge{From: obsName, To: activation, Type: tnet.Internal, Kind: tnet.KindOrdinary, Weight: satint.Finite(0)}); err != nil {
			return label.Label{}, err
		}
	}
	return label.Literal(prop, true), nil
}

// declassify strips the ContingentConstraint tag off the activation<->
// contingent edge pair, leaving them as plain ordinary bounds.
func declassify(g *tnet.Graph, activation, contingent string) {
	for _, ed := range g.OutEdges(activation) {
		if ed.To == contingent && ed.Type == tnet.ContingentConstraint {
			ed.Type = tnet.Normal
			ed.Kind = tnet.KindOrdinary
		}
	}
	for _, ed := range g.OutEdges(contingent) {
		if ed.To == activation && ed.Type == tnet.ContingentConstraint {
			ed.Type = tnet.Normal
			ed.Kind = tnet.KindOrdinary
		}
	}
}
