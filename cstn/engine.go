package cstn

import (
	"github.com/jublebi/ostnu/label"
	"github.com/jublebi/ostnu/labelmap"
	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/status"
	"github.com/jublebi/ostnu/tnet"
)

// engine runs the labeled-value propagation fixpoint over one graph, per
// spec §4.4. Unlike stnu's engine (which owns a private provenance
// arena), cstn mutates the graph's own tnet.LabeledPayload maps directly:
// labelmap.Map already enforces the no-dominated-pair invariant that
// bounds the fixpoint, so no separate arena is needed to guarantee
// termination.
type engine struct {
	g      *tnet.Graph
	opts   Options
	counts status.RuleCounters

	// selfLoop holds the labeled values derived for (v,v) pairs.
	// tnet.Graph.AddEdge rejects same-endpoint edges by design (a node's
	// distance to itself is not a graph edge), so self-loop candidates
	// produced by LP/R3/the CSTNU liftings are tracked here instead.
	selfLoop map[string]*labelmap.Map
}

func newEngine(g *tnet.Graph, opts Options) *engine {
	return &engine{g: g, opts: opts, selfLoop: make(map[string]*labelmap.Map)}
}

// ensureLabeled lifts every scalar (STN/STNU-shaped) edge into an
// equivalent CSTNU labeled payload under the empty label, so the
// propagation loop only ever has to deal with one representation.
func (e *engine) ensureLabeled() {
	for _, ed := range e.g.Edges() {
		if ed.Labeled == nil {
			ed.Labeled = tnet.NewLabeledPayload()
		}
		if w, ok := ed.Weight.Value(); ok {
			switch ed.Kind {
			case tnet.KindOrdinary:
				ed.Labeled.Values.Merge(label.Empty(), satint.Finite(w))
			case tnet.KindLowerCase:
				ed.Labeled.LowerCase[ed.ALetter] = tnet.LowerCaseLabeled{Alpha: label.Empty(), Value: satint.Finite(w)}
			case tnet.KindUpperCase:
				m, ok := ed.Labeled.UpperCase[ed.ALetter]
				if !ok {
					m = labelmap.New()
					ed.Labeled.UpperCase[ed.ALetter] = m
				}
				m.Merge(label.Empty(), satint.Finite(w))
			}
		}
	}
}

// edgeFor returns the Values map of the ordinary labeled edge from->to,
// creating an Internal edge if none exists yet. from==to is handled via
// the engine's own selfLoop table rather than a graph edge.
func (e *engine) edgeFor(from, to string) *labelmap.Map {
	if from == to {
		m, ok := e.selfLoop[from]
		if !ok {
			m = labelmap.New()
			e.selfLoop[from] = m
		}
		return m
	}
	for _, ed := range e.g.OutEdges(from) {
		if ed.To == to && ed.Kind == tnet.KindOrdinary {
			if ed.Labeled == nil {
				ed.Labeled = tnet.NewLabeledPayload()
			}
			return ed.Labeled.Values
		}
	}
	ed, err := e.g.AddEdge(&tnet.Edge{From: from, To: to, Type: tnet.Internal, Kind: tnet.KindOrdinary, Weight: satint.Null, Labeled: tnet.NewLabeledPayload()})
	if err != nil {
		return labelmap.New() // unreachable in practice: from/to already exist as graph nodes
	}
	return ed.Labeled.Values
}

// run drains the fixpoint until no pass changes any map, or a negative
// value surfaces under the empty label on a self-loop (inconsistency),
// per spec §4.4 "Termination".
func (e *engine) run() *status.CSTNWitness {
	e.ensureLabeled()

	nodes := e.g.Nodes()
	maxIter := (len(nodes)+1)*(e.g.EdgeCount()+1)*label.MaxPropositions + 64

	for iter := 0; iter < maxIter; iter++ {
		changed := false

		for _, v := range nodes {
			if w := e.applyLP(v); w != nil {
				return w
			}
			if e.applyLPRound(v) {
				changed = true
			}
			if n, err := e.g.NodeByName(v); err == nil && n.HasObserves {
				if e.applyR0(v, n.Observes) {
					changed = true
				}
				if e.applyR3(v, n.Observes) {
					changed = true
				}
			}
			if e.applyUpperCaseLiftings(v) {
				changed = true
			}
			if e.applyLowerCaseLiftings(v) {
				changed = true
			}
		}

		// The CSTNPotential view of this fixpoint is a Bellman-Ford-style
		// relaxation over labeled distances; Std semantics folds it into
		// LP/R0/R3 without a separate pass, so the counter only applies
		// under IR/ε, matching the source's own documented behavior.
		if changed && e.opts.Semantics != Std {
			e.counts.PotentialUpdate++
		}

		if !changed {
			break
		}
	}

	return nil
}

// applyLP checks whether v already carries a negative self-loop entry
// under the empty label, returning a witness if so.
func (e *engine) applyLP(v string) *status.CSTNWitness {
	m := e.edgeFor(v, v)
	if val, ok := m.ValueFor(label.Empty()); ok {
		if w, finite := val.Value(); finite && w < 0 {
			return &status.CSTNWitness{Node: v, Value: w}
		}
	}
	return nil
}

// applyLPRound fires the LP rule for every (u,v)-(v,z) pair through v.
func (e *engine) applyLPRound(v string) bool {
	changed := false
	for _, in := range e.g.InEdges(v) {
		if in.Kind != tnet.KindOrdinary || in.Labeled == nil {
			continue
		}
		for _, out := range e.g.OutEdges(v) {
			if out.Kind != tnet.KindOrdinary || out.Labeled == nil {
				continue
			}
			for _, a := range in.Labeled.Values.Entries() {
				for _, b := range out.Labeled.Values.Entries() {
					conj, ok := label.Conjunction(a.Label, b.Label)
					if !ok {
						continue
					}
					sum := satint.Add(a.Value, b.Value)
					dst := e.edgeFor(in.From, out.To)
					if dst.Merge(conj, sum) {
						changed = true
						e.counts.LabelPropagation++
					}
				}
			}
		}
	}
	return changed
}

// applyR0 implements the R0 rule at observation node p: any labeled value
// on an edge out of p whose label mentions the observed proposition may
// drop it, per spec §4.4, guarded by the configured semantics.
func (e *engine) applyR0(p string, prop label.Proposition) bool {
	changed := false
	guard := e.opts.guard()
	for _, out := range e.g.OutEdges(p) {
		if out.Kind != tnet.KindOrdinary || out.Labeled == nil {
			continue
		}
		for _, entry := range out.Labeled.Values.Entries() {
			if entry.Label.State(prop) == label.Absent {
				continue
			}
			w, ok := entry.Value.Value()
			if !ok || w > guard {
				continue
			}
			reduced := entry.Label.Remove(prop)
			if out.Labeled.Values.Merge(reduced, entry.Value) {
				changed = true
				e.counts.R0++
			}
		}
	}
	return changed
}

// applyR3 implements R3/qR3: an edge into observer p and an edge out of p
// combine, dropping the observed proposition, per spec §4.4.
func (e *engine) applyR3(p string, prop label.Proposition) bool {
	changed := false
	guard := e.opts.guard()
	for _, in := range e.g.InEdges(p) {
		if in.Kind != tnet.KindOrdinary || in.Labeled == nil {
			continue
		}
		for _, out := range e.g.OutEdges(p) {
			if out.Kind != tnet.KindOrdinary || out.Labeled == nil || out.To == in.From {
				continue
			}
			for _, a := range in.Labeled.Values.Entries() {
				w1, ok := a.Value.Value()
				if !ok || w1 > guard {
					continue
				}
				for _, b := range out.Labeled.Values.Entries() {
					conj, ok := label.Conjunction(a.Label, b.Label)
					if !ok {
						continue
					}
					reduced := conj.Remove(prop)
					sum := satint.Add(a.Value, b.Value)
					dst := e.edgeFor(in.From, out.To)
					if dst.Merge(reduced, sum) {
						changed = true
						e.counts.R3++
					}
				}
			}
		}
	}
	return changed
}

// applyUpperCaseLiftings implements the CSTNU liftings LUC/FLUC/LCUC: an
// ordinary labeled edge combined with an upper-case labeled map produces
// (or, if u is the activation, collapses to ordinary) an upper-case
// labeled entry, per spec §4.4.
func (e *engine) applyUpperCaseLiftings(v string) bool {
	changed := false
	for _, in := range e.g.InEdges(v) {
		if in.Kind != tnet.KindOrdinary || in.Labeled == nil {
			continue
		}
		for _, out := range e.g.OutEdges(v) {
			if out.Labeled == nil {
				continue
			}
			for c, ucMap := range out.Labeled.UpperCase {
				contingent := contingentForALetter(e.g, c)
				activation, _ := e.g.ActivationOf(contingent)
				for _, a := range in.Labeled.Values.Entries() {
					for _, b := range ucMap.Entries() {
						conj, ok := label.Conjunction(a.Label, b.Label)
						if !ok {
							continue
						}
						sum := satint.Add(a.Value, b.Value)
						if in.From == activation {
							dst := e.edgeFor(in.From, out.To)
							if dst.Merge(conj, sum) {
								changed = true
								e.counts.Decomposition.ActivationKnown++
								e.counts.UpperCase++
							}
							continue
						}
						dstMap, ok := e.upperCaseMapFor(in.From, out.To, c)
						if ok && dstMap.Merge(conj, sum) {
							changed = true
							e.counts.UpperCase++
						}
					}
				}
			}
		}
	}
	return changed
}

// applyLowerCaseLiftings implements LLC: a lower-case labeled value
// combined with an ordinary labeled edge out of the activation produces
// an ordinary labeled entry, provided the ordinary value is negative
// (mirroring stnu's LOWER-CASE condition).
func (e *engine) applyLowerCaseLiftings(v string) bool {
	changed := false
	for _, in := range e.g.InEdges(v) {
		if in.Labeled == nil || len(in.Labeled.LowerCase) == 0 {
			continue
		}
		for _, lc := range in.Labeled.LowerCase {
			for _, out := range e.g.OutEdges(v) {
				if out.Kind != tnet.KindOrdinary || out.Labeled == nil {
					continue
				}
				for _, b := range out.Labeled.Values.Entries() {
					w, ok := b.Value.Value()
					if !ok || w >= 0 {
						continue
					}
					conj, ok := label.Conjunction(lc.Alpha, b.Label)
					if !ok {
						continue
					}
					sum := satint.Add(lc.Value, b.Value)
					dst := e.edgeFor(in.From, out.To)
					if dst.Merge(conj, sum) {
						changed = true
						e.counts.LowerCase++
					}
				}
			}
		}
	}
	return changed
}

func (e *engine) upperCaseMapFor(from, to string, aLetter rune) (*labelmap.Map, bool) {
	for _, ed := range e.g.OutEdges(from) {
		if ed.To != to {
			continue
		}
		if ed.Labeled == nil {
			ed.Labeled = tnet.NewLabeledPayload()
		}
		m, ok := ed.Labeled.UpperCase[aLetter]
		if !ok {
			m = labelmap.New()
			ed.Labeled.UpperCase[aLetter] = m
		}
		return m, true
	}
	ed, err := e.g.AddEdge(&tnet.Edge{From: from, To: to, Type: tnet.Internal, Kind: tnet.KindOrdinary, Weight: satint.Null, Labeled: tnet.NewLabeledPayload()})
	if err != nil {
		return nil, false
	}
	m := labelmap.New()
	ed.Labeled.UpperCase[aLetter] = m
	return m, true
}

func contingentForALetter(g *tnet.Graph, aLetter rune) string {
	for _, name := range g.Nodes() {
		n, err := g.NodeByName(name)
		if err == nil && n.HasContingentALetter && n.ContingentALetter == aLetter {
			return name
		}
	}
	return ""
}
