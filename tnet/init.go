package tnet

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jublebi/ostnu/label"
	"github.com/jublebi/ostnu/satint"
)

// Structural-error sentinels, per spec §7.
var (
	// ErrNotWellDefined means a structural repair was impossible: a
	// missing contingent companion, a non-unique activation, or a
	// contingent link violating 0 < x < y.
	ErrNotWellDefined = errors.New("tnet: network is not well-defined")

	// ErrOverflow means the computed horizon or an edge weight exceeds
	// the representable magnitude (spec §3.1, §4.1 step 5).
	ErrOverflow = errors.New("tnet: horizon overflow")
)

// MaxAbsEdgeWeight returns the largest |Weight| among g's ordinary edges
// (Kind == KindOrdinary), 0 if g has none.
func MaxAbsEdgeWeight(g *Graph) int64 {
	var max int64
	for _, e := range g.Edges() {
		if e.Kind != KindOrdinary {
			continue
		}
		v, ok := e.Weight.Value()
		if !ok {
			continue
		}
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}

// Horizon computes max|weight| × (|V|-1), per spec §3.1.
func Horizon(g *Graph) int64 {
	n := int64(g.NodeCount())
	if n <= 1 {
		return 0
	}
	return MaxAbsEdgeWeight(g) * (n - 1)
}

// InitAndCheck normalizes g in place so propagation can assume the
// standard form, per spec §4.1:
//
//  1. Ensure a node named "Z" exists (create at the origin if missing).
//  2. Clear Z's label to empty (warn if it was non-empty).
//  3. Validate every edge's endpoints are distinct; self-loops are
//     dropped, not repaired.
//  4. For every contingent edge, locate its companion, enforce
//     0 < x < y, and register the (activation,contingent) pair,
//     rejecting a non-unique activation. A pair missing either half is
//     rejected; the missing half is not inferred.
//  5. Compute the horizon; reject on overflow.
//  6. Insert or tighten a 0-weight edge v->Z for every non-Z node.
//
// Structural failures are returned as ErrNotWellDefined/ErrOverflow,
// wrapped with context; repairs are logged at Debug/Warn via logger.
func InitAndCheck(g *Graph, logger zerolog.Logger) error {
	if g == nil {
		return ErrNilGraph
	}

	// Step 1-2: ensure Z exists with an empty label.
	if !g.HasNode(SourceName) {
		logger.Debug().Msg("tnet: creating missing source node Z")
		if err := g.AddNode(&Node{Name: SourceName}); err != nil {
			return fmt.Errorf("tnet: InitAndCheck: create Z: %w", err)
		}
	}
	zNode, err := g.NodeByName(SourceName)
	if err != nil {
		return fmt.Errorf("tnet: InitAndCheck: %w", err)
	}
	if !zNode.Label.IsEmpty() {
		logger.Warn().Str("node", SourceName).Msg("tnet: Z had a non-empty label; clearing it")
		zNode.Label = label.Empty()
	}
	if err := g.SetSource(SourceName); err != nil {
		return fmt.Errorf("tnet: InitAndCheck: %w", err)
	}

	// Step 3: drop self-loops, validate endpoints.
	for _, e := range g.Edges() {
		if e.From == e.To {
			logger.Warn().Str("edge", e.ID).Msg("tnet: dropping self-loop edge")
			if err := g.RemoveEdge(e.ID); err != nil {
				return fmt.Errorf("tnet: InitAndCheck: drop self-loop %q: %w", e.ID, err)
			}
		}
	}

	// Step 4: contingent-link validation/inference/registration.
	if err := validateContingentLinks(g, logger); err != nil {
		return err
	}

	// Step 5: horizon overflow check.
	h := Horizon(g)
	if !satint.InRange(h) {
		return fmt.Errorf("tnet: InitAndCheck: horizon %d: %w", h, ErrOverflow)
	}

	// Step 6: insert/tighten v->Z zero edges.
	for _, name := range g.Nodes() {
		if name == SourceName {
			continue
		}
		if err := ensureZeroEdgeToZ(g, name); err != nil {
			return fmt.Errorf("tnet: InitAndCheck: %w", err)
		}
	}

	return nil
}

func ensureZeroEdgeToZ(g *Graph, name string) error {
	for _, e := range g.OutEdges(name) {
		if e.To == SourceName && e.Kind == KindOrdinary {
			if v, ok := e.Weight.Value(); ok && v > 0 {
				e.Weight = satint.Zero
			} else if !ok {
				e.Weight = satint.Zero
			}
			return nil
		}
	}
	_, err := g.AddEdge(&Edge{From: name, To: SourceName, Type: Normal, Kind: KindOrdinary, Weight: satint.Zero})
	return err
}
