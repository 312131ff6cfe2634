package stn

import (
	"math"

	"github.com/jublebi/ostnu/satint"
	"github.com/jublebi/ostnu/tnet"
)

// DistanceMatrix is the all-pairs shortest-distance table produced by
// AllPairsShortestPaths, keyed by node name on both axes.
type DistanceMatrix struct {
	nodes []string
	index map[string]int
	d     [][]int64
}

// At returns the shortest distance from -> to. ok is false if either node
// is unknown to the matrix.
func (m *DistanceMatrix) At(from, to string) (dist int64, ok bool) {
	i, iok := m.index[from]
	j, jok := m.index[to]
	if !iok || !jok {
		return 0, false
	}
	return m.d[i][j], true
}

// Nodes returns the matrix's node ordering.
func (m *DistanceMatrix) Nodes() []string { return append([]string(nil), m.nodes...) }

// allPairsShortestPaths computes the full distance matrix via
// Floyd-Warshall, in O(V^3) time. Absent edges start at +Inf
// (math.MaxInt64/4 acts as the sentinel internally; a path through an
// absent edge is skipped, so the sentinel never overflows or turns finite).
func allPairsShortestPaths(g *tnet.Graph) *DistanceMatrix {
	nodes := g.Nodes()
	n := len(nodes)
	index := make(map[string]int, n)
	for i, name := range nodes {
		index[name] = i
	}

	const inf = math.MaxInt64 / 4
	d := make([][]int64, n)
	for i := range d {
		d[i] = make([]int64, n)
		for j := range d[i] {
			if i == j {
				d[i][j] = 0
			} else {
				d[i][j] = inf
			}
		}
	}
	for _, e := range g.Edges() {
		if e.Kind != tnet.KindOrdinary {
			continue
		}
		w, ok := e.Weight.Value()
		if !ok {
			continue
		}
		i, j := index[e.From], index[e.To]
		if w < d[i][j] {
			d[i][j] = w
		}
	}

	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			if d[i][k] >= inf {
				continue
			}
			for j := 0; j < n; j++ {
				if d[k][j] >= inf {
					continue
				}
				if cand := d[i][k] + d[k][j]; cand < d[i][j] {
					d[i][j] = cand
				}
			}
		}
	}

	return &DistanceMatrix{nodes: nodes, index: index, d: d}
}

// replaceWithMinimalForm rewrites g in place to its minimal-distance form:
// every ordinary edge is removed and replaced by at most one edge per
// ordered pair whose weight is the all-pairs shortest distance, per
// spec §4.2 ("the graph is replaced by its minimal-distance form").
func replaceWithMinimalForm(g *tnet.Graph, m *DistanceMatrix) error {
	for _, e := range g.Edges() {
		if e.Kind == tnet.KindOrdinary && e.Type != tnet.ContingentConstraint {
			if err := g.RemoveEdge(e.ID); err != nil {
				return err
			}
		}
	}
	const inf = math.MaxInt64 / 4
	for _, from := range m.nodes {
		for _, to := range m.nodes {
			if from == to {
				continue
			}
			dist, _ := m.At(from, to)
			if dist >= inf {
				continue
			}
			if _, err := g.AddEdge(&tnet.Edge{
				From:   from,
				To:     to,
				Type:   tnet.Normal,
				Kind:   tnet.KindOrdinary,
				Weight: satint.Finite(dist),
			}); err != nil {
				return err
			}
		}
	}
	return nil
}
