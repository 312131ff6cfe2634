package stn

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/jublebi/ostnu/tnet"
)

// dijkstra computes shortest distances from g's source node to every other
// node, refusing if any ordinary edge carries a negative weight. It uses
// the lazy-decrease-key pattern: stale heap entries are skipped via a
// finalized set rather than removed in place.
func dijkstra(g *tnet.Graph) (map[string]int64, error) {
	source := g.Source()
	for _, e := range g.Edges() {
		if e.Kind != tnet.KindOrdinary {
			continue
		}
		if w, ok := e.Weight.Value(); ok && w < 0 {
			return nil, fmt.Errorf("stn: dijkstra: edge %s->%s weight=%d: %w", e.From, e.To, w, ErrNegativeWeight)
		}
	}

	nodes := g.Nodes()
	dist := make(map[string]int64, len(nodes))
	finalized := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		dist[n] = math.MaxInt64
	}
	dist[source] = 0

	pq := make(distPQ, 0, len(nodes))
	heap.Init(&pq)
	heap.Push(&pq, &distItem{id: source, dist: 0})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(*distItem)
		u := item.id
		if finalized[u] {
			continue
		}
		finalized[u] = true

		for _, e := range g.OutEdges(u) {
			if e.Kind != tnet.KindOrdinary {
				continue
			}
			w, ok := e.Weight.Value()
			if !ok {
				continue
			}
			cand := dist[u] + w
			if cand < dist[e.To] {
				dist[e.To] = cand
				heap.Push(&pq, &distItem{id: e.To, dist: cand})
			}
		}
	}

	return dist, nil
}

type distItem struct {
	id   string
	dist int64
}

type distPQ []*distItem

func (pq distPQ) Len() int            { return len(pq) }
func (pq distPQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq distPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *distPQ) Push(x interface{}) { *pq = append(*pq, x.(*distItem)) }
func (pq *distPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
