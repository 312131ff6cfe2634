package stn

import (
	"math"

	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/tnet"
)

// minimalDispatchable builds the Muscettola minimal-dispatchable form of an
// APSP-consistent network: starting from the all-pairs distance matrix,
// keep only the edges (u,v,w=d[u][v]) that are NOT dominated by some
// two-hop path u->x->v of equal total weight, per spec §4.2. Ties are
// broken deterministically by iterating candidate x in node-id order, so
// repeated runs on the same graph always drop the same edges.
func minimalDispatchable(g *tnet.Graph, m *DistanceMatrix) error {
	nodes := m.Nodes()

	type essential struct {
		from, to string
		weight   int64
	}
	var keep []essential

	for _, u := range nodes {
		for _, v := range nodes {
			if u == v {
				continue
			}
			w, ok := m.At(u, v)
			if !ok || w >= math.MaxInt64/4 {
				continue // unknown node or no path: no edge to keep
			}
			dominated := false
			for _, x := range nodes {
				if x == u || x == v {
					continue
				}
				dux, ok1 := m.At(u, x)
				dxv, ok2 := m.At(x, v)
				if ok1 && ok2 && dux+dxv == w {
					dominated = true
					break
				}
			}
			if !dominated {
				keep = append(keep, essential{u, v, w})
			}
		}
	}

	for _, e := range g.Edges() {
		if e.Kind == tnet.KindOrdinary && e.Type != tnet.ContingentConstraint {
			if err := g.RemoveEdge(e.ID); err != nil {
				return err
			}
		}
	}
	for _, e := range keep {
		if _, err := g.AddEdge(&tnet.Edge{
			From:   e.from,
			To:     e.to,
			Type:   tnet.Normal,
			Kind:   tnet.KindOrdinary,
			Weight: satint.Finite(e.weight),
		}); err != nil {
			return err
		}
	}
	return nil
}
