package stnu

import (
	"container/heap"

	"github.com/jublebi/ostnu/status"
	"github.com/jublebi/ostnu/tnet"
)

// engine runs the RUL-family fixpoint over one graph, per spec §4.3. It
// owns the provenance arena and the current best (tightest) weight known
// for every edge slot.
type engine struct {
	g      *tnet.Graph
	opts   Options
	arena  *arena
	best   map[edgeKey]int // edgeKey -> arena index of the current tightest record
	inOut  map[string][]edgeKey
	inIn   map[string][]edgeKey
	pq     recencyPQ
	seq    int
	queued map[edgeKey]bool

	selfLoopOffender *edgeKey
}

func newEngine(g *tnet.Graph, opts Options) *engine {
	return &engine{
		g:      g,
		opts:   opts,
		arena:  newArena(),
		best:   make(map[edgeKey]int),
		inOut:  make(map[string][]edgeKey),
		inIn:   make(map[string][]edgeKey),
		queued: make(map[edgeKey]bool),
	}
}

// seed loads every graph edge as a base arena record and enqueues it.
func (e *engine) seed() {
	for _, ed := range e.g.Edges() {
		switch ed.Kind {
		case tnet.KindOrdinary:
			w, ok := ed.Weight.Value()
			if !ok {
				continue
			}
			e.load(edgeKey{From: ed.From, To: ed.To, Kind: tnet.KindOrdinary}, w)
			// The ordinary half of a contingent link also implies its
			// upper-case conditional constraint C:-y (spec section 4.3): "if C
			// takes its upper bound y, the guaranteed distance is -y".
			if ed.Type == tnet.ContingentConstraint {
				if cNode, err := e.g.NodeByName(ed.To); err == nil && cNode.HasContingentALetter {
					e.load(edgeKey{From: ed.From, To: ed.To, Kind: tnet.KindUpperCase, ALetter: cNode.ContingentALetter}, -w)
				}
			}
		case tnet.KindLowerCase:
			w, ok := ed.Weight.Value()
			if !ok {
				continue
			}
			e.load(edgeKey{From: ed.From, To: ed.To, Kind: tnet.KindLowerCase, ALetter: ed.ALetter}, w)
		case tnet.KindWait:
			w, ok := ed.Weight.Value()
			if !ok {
				continue
			}
			e.load(edgeKey{From: ed.From, To: ed.To, Kind: tnet.KindWait, ALetter: ed.ALetter}, w)
		}
		if ed.Labeled != nil {
			for c, m := range ed.Labeled.UpperCase {
				for _, entry := range m.Entries() {
					if v, ok := entry.Value.Value(); ok {
						e.load(edgeKey{From: ed.From, To: ed.To, Kind: tnet.KindUpperCase, ALetter: c}, v)
					}
				}
			}
		}
	}
}

// load records a base edge's weight for key, only replacing a prior
// entry for the same key (two parallel base edges between the same
// endpoints, e.g. the multigraph case in spec §3.6) if the new weight
// strictly improves on it, mirroring tighten's guard below.
func (e *engine) load(key edgeKey, weight int64) {
	idx := e.arena.addBase(key, weight)
	if cur, ok := e.best[key]; ok && e.arena.at(cur).weight <= weight {
		return
	}
	e.best[key] = idx
	e.index(key)
	e.enqueue(key)
}

func (e *engine) index(key edgeKey) {
	e.inOut[key.From] = appendUnique(e.inOut[key.From], key)
	e.inIn[key.To] = appendUnique(e.inIn[key.To], key)
}

func appendUnique(list []edgeKey, key edgeKey) []edgeKey {
	for _, k := range list {
		if k == key {
			return list
		}
	}
	return append(list, key)
}

func (e *engine) enqueue(key edgeKey) {
	if e.queued[key] {
		return
	}
	e.queued[key] = true
	e.seq++
	heap.Push(&e.pq, &pqItem{key: key, seq: e.seq})
}

// tighten records a candidate (rule-derived) weight for key if it
// strictly improves the current best, returning true if it did.
func (e *engine) tighten(kind ruleKind, key edgeKey, weight int64, p1, p2 int) bool {
	if cur, ok := e.best[key]; ok && e.arena.at(cur).weight <= weight {
		return false
	}
	idx := e.arena.derive(kind, key, weight, p1, p2)
	e.best[key] = idx
	e.index(key)
	e.enqueue(key)
	return true
}

// run drains the queue, applying every applicable rule to each popped
// edge's neighborhood, until fixpoint or a negative self-loop is derived.
// Per spec §4.3 "Termination", weights are monotone non-increasing and
// (source,target,label) triples are finite, so the loop always halts.
func (e *engine) run() *status.SRNC {
	heap.Init(&e.pq)
	for e.pq.Len() > 0 {
		item := heap.Pop(&e.pq).(*pqItem)
		key := item.key
		e.queued[key] = false

		cur, ok := e.best[key]
		if !ok {
			continue
		}
		w := e.arena.at(cur).weight

		if key.From == key.To {
			if w < 0 {
				k := key
				e.selfLoopOffender = &k
				return e.findSRNC(cur)
			}
			continue
		}

		e.applyForward(key, w, cur)
		e.applyBackward(key, w, cur)
	}
	return nil
}

// applyForward combines the popped edge (key: u->v) as edge1 with every
// known edge v->z as edge2, producing candidate edges u->z.
func (e *engine) applyForward(key edgeKey, w int64, idx int) {
	for _, k2 := range e.inOut[key.To] {
		if k2.To == key.From && k2 == key {
			continue
		}
		e.combine(key, idx, k2)
	}
}

// applyBackward combines the popped edge (key: v->z) as edge2 with every
// known edge u->v as edge1, producing candidate edges u->z.
func (e *engine) applyBackward(key edgeKey, w int64, idx int) {
	for _, k1 := range e.inIn[key.From] {
		e.combine(k1, -1, key)
	}
}

// combine applies whichever RUL-family rule matches (key1,key2)'s kinds,
// if any, and tightens the resulting edge. idx1 may be -1, meaning "look
// up key1's current best index" (used by applyBackward, where the caller
// only has the key, not the index, of the first edge).
func (e *engine) combine(key1 edgeKey, idx1 int, key2 edgeKey) {
	if key1.To != key2.From {
		return
	}
	// to-Z-only mode restricts propagation to derived edges whose target
	// is Z (or which close a self-loop), per spec §4.3.
	if e.opts.Mode == ToZOnly && key2.To != tnet.SourceName && key2.To != key1.From {
		return
	}
	if idx1 < 0 {
		var ok bool
		idx1, ok = e.best[key1]
		if !ok {
			return
		}
	}
	idx2, ok := e.best[key2]
	if !ok {
		return
	}
	r1, r2 := e.arena.at(idx1), e.arena.at(idx2)
	u, _, z := key1.From, key1.To, key2.To
	// u == z produces a self-loop candidate; it is not special-cased here
	// so that a negative weight on it is tightened into the arena like any
	// other edge and then caught by the main loop's popped-key fast path
	// (key.From == key.To), which triggers the SRNC finder.

	switch {
	case r1.key.Kind == tnet.KindOrdinary && r2.key.Kind == tnet.KindOrdinary:
		// NO-CASE (relax).
		e.tighten(ruleNoCase, edgeKey{From: u, To: z, Kind: tnet.KindOrdinary}, r1.weight+r2.weight, idx1, idx2)

	case r1.key.Kind == tnet.KindOrdinary && r2.key.Kind == tnet.KindUpperCase:
		// UPPER-CASE.
		newWeight := r1.weight + r2.weight
		if act, ok := e.g.ActivationOf(contingentForALetter(e.g, r2.key.ALetter)); ok && act == u {
			e.tighten(ruleUpperCase, edgeKey{From: u, To: z, Kind: tnet.KindOrdinary}, newWeight, idx1, idx2)
		} else {
			e.tighten(ruleUpperCase, edgeKey{From: u, To: z, Kind: tnet.KindUpperCase, ALetter: r2.key.ALetter}, newWeight, idx1, idx2)
		}

	case r1.key.Kind == tnet.KindLowerCase && r2.key.Kind == tnet.KindOrdinary:
		// LOWER-CASE: (u,A,c:x) composed with (A,z,w) -> (u,z,x+w), only if w<0.
		if r2.weight < 0 {
			e.tighten(ruleLowerCase, edgeKey{From: u, To: z, Kind: tnet.KindOrdinary}, r1.weight+r2.weight, idx1, idx2)
		}

	case r1.key.Kind == tnet.KindWait && r2.key.Kind == tnet.KindUpperCase && r1.key.ALetter == r2.key.ALetter:
		// CROSS-CASE: combine a wait and an upper-case sharing a letter
		// into a new wait.
		newKey := edgeKey{From: u, To: z, Kind: tnet.KindWait, ALetter: r1.key.ALetter}
		if e.tighten(ruleCrossCase, newKey, r1.weight+r2.weight, idx1, idx2) {
			e.maybeRemoveLetter(newKey)
		}

	case r1.key.Kind == tnet.KindWait && r2.key.Kind == tnet.KindOrdinary:
		// A wait relaxes like an ordinary edge through a non-contingent hop.
		newKey := edgeKey{From: u, To: z, Kind: tnet.KindWait, ALetter: r1.key.ALetter}
		if e.tighten(ruleNoCase, newKey, r1.weight+r2.weight, idx1, idx2) {
			e.maybeRemoveLetter(newKey)
		}
	}
}

// maybeRemoveLetter implements LETTER-REMOVAL: a wait (u,A,C:w) with
// w >= -x, x the lower bound of C's contingent link, can be stripped of
// its label and treated as an ordinary edge.
func (e *engine) maybeRemoveLetter(waitKey edgeKey) {
	idx, ok := e.best[waitKey]
	if !ok {
		return
	}
	w := e.arena.at(idx).weight
	x, ok := e.lowerBoundFor(waitKey.ALetter)
	if !ok || w < -x {
		return
	}
	ordinary := edgeKey{From: waitKey.From, To: waitKey.To, Kind: tnet.KindOrdinary}
	e.tighten(ruleLetterRemoval, ordinary, w, idx, -1)
}

// lowerBoundFor returns the lower bound x of the contingent link whose
// contingent node carries ALetter aLetter.
func (e *engine) lowerBoundFor(aLetter rune) (int64, bool) {
	for _, name := range e.g.Nodes() {
		n, err := e.g.NodeByName(name)
		if err != nil || !n.HasContingentALetter || n.ContingentALetter != aLetter {
			continue
		}
		act, ok := e.g.ActivationOf(name)
		if !ok {
			continue
		}
		for _, ed := range e.g.OutEdges(name) {
			if ed.To == act && ed.Kind == tnet.KindLowerCase {
				if v, ok := ed.Weight.Value(); ok {
					return v, true
				}
			}
		}
	}
	return 0, false
}

// contingentForALetter finds the contingent node name carrying aLetter.
func contingentForALetter(g *tnet.Graph, aLetter rune) string {
	for _, name := range g.Nodes() {
		n, err := g.NodeByName(name)
		if err == nil && n.HasContingentALetter && n.ContingentALetter == aLetter {
			return name
		}
	}
	return ""
}

// pqItem is a pending edge key ordered by recency (insertion sequence),
// tie-broken lexicographically on (From,To) per spec §5.
type pqItem struct {
	key edgeKey
	seq int
}

type recencyPQ []*pqItem

func (pq recencyPQ) Len() int { return len(pq) }
func (pq recencyPQ) Less(i, j int) bool {
	if pq[i].seq != pq[j].seq {
		return pq[i].seq < pq[j].seq
	}
	if pq[i].key.From != pq[j].key.From {
		return pq[i].key.From < pq[j].key.From
	}
	return pq[i].key.To < pq[j].key.To
}
func (pq recencyPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *recencyPQ) Push(x interface{}) { *pq = append(*pq, x.(*pqItem)) }
func (pq *recencyPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
