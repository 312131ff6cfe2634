package tnet

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jublebi/ostnu/label"
)

// Graph is a directed multigraph keyed by unique node name. It maintains
// O(1) lookup tables for nodes, edges and adjacency, and tracks
// contingent-link pairing and which propositions/observers/contingents
// are in use, per spec §3.6.
//
// Graph uses a single sync.RWMutex: unlike the general-purpose teacher
// library this type descends from, the core here is explicitly
// single-threaded per algorithm object (spec §5) — the lock exists to
// make accidental concurrent access fail safely (the race detector will
// still catch true concurrent mutation), not to support it.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]*Node
	edges map[string]*Edge

	outEdges map[string][]string // node name -> edge IDs, insertion order
	inEdges  map[string][]string

	source string // name of the designated Z node, usually SourceName

	propositions *label.Registry

	// activationOf[contingentName] = activationName
	activationOf map[string]string
	// contingentOf[activationName] = contingentName
	contingentOf map[string]string

	nextEdgeSeq int
}

// NewGraph returns an empty Graph with no nodes or edges and no source
// designated yet (InitAndCheck will create/designate "Z").
func NewGraph() *Graph {
	return &Graph{
		nodes:        make(map[string]*Node),
		edges:        make(map[string]*Edge),
		outEdges:     make(map[string][]string),
		inEdges:      make(map[string][]string),
		propositions: label.NewRegistry(),
		activationOf: make(map[string]string),
		contingentOf: make(map[string]string),
	}
}

// Propositions returns the graph's proposition registry, shared by every
// label-bearing node/edge in g.
func (g *Graph) Propositions() *label.Registry { return g.propositions }

// Source returns the name of the designated Z node ("" if none yet).
func (g *Graph) Source() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.source
}

// SetSource designates name as the Z node. The node must already exist.
func (g *Graph) SetSource(name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[name]; !ok {
		return fmt.Errorf("tnet: SetSource(%q): %w", name, ErrNodeNotFound)
	}
	g.source = name
	return nil
}

// AddNode inserts n into g. It errors on an empty name or a duplicate.
func (g *Graph) AddNode(n *Node) error {
	if n == nil || n.Name == "" {
		return ErrEmptyNodeName
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.nodes[n.Name]; exists {
		return fmt.Errorf("tnet: AddNode(%q): %w", n.Name, ErrNodeAlreadyExists)
	}
	g.nodes[n.Name] = n
	if n.HasContingentALetter {
		// Registration of the (activation, contingent) pair itself
		// happens through RegisterContingentPair (called by InitAndCheck
		// or by a reader), where both endpoints are known together.
	}
	return nil
}

// HasNode reports whether g contains a node named name.
func (g *Graph) HasNode(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[name]
	return ok
}

// NodeByName returns the node named name.
func (g *Graph) NodeByName(name string) (*Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[name]
	if !ok {
		return nil, fmt.Errorf("tnet: NodeByName(%q): %w", name, ErrNodeNotFound)
	}
	return n, nil
}

// Nodes returns all node names, sorted for deterministic iteration.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NodeCount returns the number of nodes in g.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// nextEdgeID generates a collision-free edge name "e1", "e2", ... The
// caller must hold g.mu for writing.
func (g *Graph) nextEdgeID() string {
	for {
		g.nextEdgeSeq++
		id := fmt.Sprintf("e%d", g.nextEdgeSeq)
		if _, exists := g.edges[id]; !exists {
			return id
		}
	}
}

// AddEdge inserts e into g. If e.ID is empty, a fresh ID is generated. It
// errors if either endpoint is missing, if the endpoints coincide
// (self-loops are rejected outright; InitAndCheck also strips any that
// slip through from I/O), or if e.ID already names another edge.
func (g *Graph) AddEdge(e *Edge) (*Edge, error) {
	if e == nil {
		return nil, fmt.Errorf("tnet: AddEdge: %w", ErrEmptyEdgeName)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[e.From]; !ok {
		return nil, fmt.Errorf("tnet: AddEdge: endpoint %q: %w", e.From, ErrNodeNotFound)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return nil, fmt.Errorf("tnet: AddEdge: endpoint %q: %w", e.To, ErrNodeNotFound)
	}
	if e.From == e.To {
		return nil, fmt.Errorf("tnet: AddEdge(%q->%q): %w", e.From, e.To, ErrSameEndpoints)
	}
	if e.ID == "" {
		e.ID = g.nextEdgeID()
	} else if _, exists := g.edges[e.ID]; exists {
		return nil, fmt.Errorf("tnet: AddEdge(%q): %w", e.ID, ErrEdgeAlreadyExists)
	}

	g.edges[e.ID] = e
	g.outEdges[e.From] = append(g.outEdges[e.From], e.ID)
	g.inEdges[e.To] = append(g.inEdges[e.To], e.ID)
	return e, nil
}

// RemoveEdge deletes the edge named id from g.
func (g *Graph) RemoveEdge(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.edges[id]
	if !ok {
		return fmt.Errorf("tnet: RemoveEdge(%q): %w", id, ErrEdgeNotFound)
	}
	delete(g.edges, id)
	g.outEdges[e.From] = removeString(g.outEdges[e.From], id)
	g.inEdges[e.To] = removeString(g.inEdges[e.To], id)
	return nil
}

func removeString(list []string, target string) []string {
	out := list[:0:0]
	for _, s := range list {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}

// EdgeByName returns the edge named id.
func (g *Graph) EdgeByName(id string) (*Edge, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.edges[id]
	if !ok {
		return nil, fmt.Errorf("tnet: EdgeByName(%q): %w", id, ErrEdgeNotFound)
	}
	return e, nil
}

// Edges returns all edges, sorted by ID for deterministic iteration.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EdgeCount returns the number of edges in g.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// OutEdges returns the edges whose From is name, sorted by ID.
func (g *Graph) OutEdges(name string) []*Edge {
	return g.edgesFrom(name, g.outEdges)
}

// InEdges returns the edges whose To is name, sorted by ID.
func (g *Graph) InEdges(name string) []*Edge {
	return g.edgesFrom(name, g.inEdges)
}

func (g *Graph) edgesFrom(name string, index map[string][]string) []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := index[name]
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if e, ok := g.edges[id]; ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RegisterContingentPair records that contingentName is the contingent
// endpoint of the link activated by activationName. It errors if
// contingentName already has a different registered activation
// (spec §4.1 step 4: "verify uniqueness of activation per contingent").
func (g *Graph) RegisterContingentPair(activationName, contingentName string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.activationOf[contingentName]; ok && existing != activationName {
		return fmt.Errorf("tnet: RegisterContingentPair: contingent %q already activated by %q, not %q: %w",
			contingentName, existing, activationName, ErrNotWellDefined)
	}
	g.activationOf[contingentName] = activationName
	g.contingentOf[activationName] = contingentName
	return nil
}

// ActivationOf returns the activation node name for contingent node
// contingentName, if registered.
func (g *Graph) ActivationOf(contingentName string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	a, ok := g.activationOf[contingentName]
	return a, ok
}

// ContingentOf returns the contingent node name activated by
// activationName, if registered.
func (g *Graph) ContingentOf(activationName string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	c, ok := g.contingentOf[activationName]
	return c, ok
}

// ContingentPairs returns a snapshot of all registered (activation,
// contingent) pairs, sorted by activation name.
func (g *Graph) ContingentPairs() [][2]string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([][2]string, 0, len(g.contingentOf))
	for a, c := range g.contingentOf {
		out = append(out, [2]string{a, c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

// ContingentNodeCount returns the number of nodes flagged as contingent
// endpoints.
func (g *Graph) ContingentNodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, node := range g.nodes {
		if node.HasContingentALetter {
			n++
		}
	}
	return n
}

// ObserverCount returns the number of observation time-points in g.
func (g *Graph) ObserverCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, node := range g.nodes {
		if node.HasObserves {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of g, including a fresh proposition registry
// backed by the same interned runes (so Proposition indices are
// preserved).
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	c := NewGraph()
	c.source = g.source
	c.nextEdgeSeq = g.nextEdgeSeq
	for name, n := range g.nodes {
		c.nodes[name] = n.Clone()
	}
	for id, e := range g.edges {
		c.edges[id] = e.Clone()
	}
	for k, v := range g.outEdges {
		c.outEdges[k] = append([]string(nil), v...)
	}
	for k, v := range g.inEdges {
		c.inEdges[k] = append([]string(nil), v...)
	}
	for k, v := range g.activationOf {
		c.activationOf[k] = v
	}
	for k, v := range g.contingentOf {
		c.contingentOf[k] = v
	}
	// The proposition registry interns in first-seen order; reconstruct it
	// identically so every Proposition index is preserved across the clone.
	for i := 0; i < g.propositions.Len(); i++ {
		r, _ := g.propositions.Rune(label.Proposition(i))
		_, _ = c.propositions.Intern(r)
	}
	return c
}
