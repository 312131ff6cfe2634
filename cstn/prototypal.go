package cstn

import "github.com/jublebi/ostnu/tnet"

// PrototypalLink is the CSTNPSU "prototypal link" view of one contingent
// constraint: its activation/contingent endpoints and the [x,y] bound the
// well-definedness check already validated, read back from the graph
// rather than tracked separately.
type PrototypalLink struct {
	Activation string
	Contingent string
	X, Y       int64
}

// PrototypalLinks reports the (activation, x, y, contingent) four-tuple
// for every registered contingent link in g.
func PrototypalLinks(g *tnet.Graph) []PrototypalLink {
	var out []PrototypalLink
	for _, pair := range g.ContingentPairs() {
		activation, contingent := pair[0], pair[1]
		x, y, ok := contingentBounds(g, activation, contingent)
		if !ok {
			continue
		}
		out = append(out, PrototypalLink{Activation: activation, Contingent: contingent, X: x, Y: y})
	}
	return out
}

func contingentBounds(g *tnet.Graph, activation, contingent string) (x, y int64, ok bool) {
	for _, e := range g.OutEdges(activation) {
		if e.To == contingent && e.Kind == tnet.KindOrdinary {
			if v, vok := e.Weight.Value(); vok {
				y = v
				ok = true
			}
		}
	}
	for _, e := range g.OutEdges(contingent) {
		if e.To == activation && e.Kind == tnet.KindLowerCase {
			if v, vok := e.Weight.Value(); vok {
				x = v
			}
		}
	}
	return x, y, ok
}

// PrototypalLinks returns the CSTNPSU view of every contingent link in
// the owned graph.
func (c *Checker) PrototypalLinks() []PrototypalLink {
	return PrototypalLinks(c.g)
}
