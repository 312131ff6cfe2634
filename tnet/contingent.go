package tnet

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jublebi/ostnu/satint"
)

// contingentPair is the in-progress view of one contingent link while
// validateContingentLinks assembles it from whichever half(s) are present.
type contingentPair struct {
	activation, contingent string
	hasLower, hasUpper     bool
	lowerEdgeID, upperEdgeID string
	x, y                   satint.SatInt // x = lower bound (>0), y = upper bound (>0)
	aLetter                rune
}

// validateContingentLinks implements spec §4.1 step 4: pair each
// contingent edge with its companion, enforce 0 < x < y, and register the
// (activation,contingent) pair (rejecting a non-unique activation). A pair
// missing either half is rejected with ErrNotWellDefined; the missing half
// is not inferred.
func validateContingentLinks(g *Graph, logger zerolog.Logger) error {
	pairs := make(map[string]*contingentPair) // key: activation+"\x00"+contingent

	for _, e := range g.Edges() {
		if e.Type != ContingentConstraint {
			continue
		}
		switch e.Kind {
		case KindOrdinary:
			// Ordinary half: From=activation, To=contingent, Weight=y (upper bound).
			key := e.From + "\x00" + e.To
			p := pairs[key]
			if p == nil {
				p = &contingentPair{activation: e.From, contingent: e.To}
				pairs[key] = p
			}
			p.hasUpper = true
			p.y = e.Weight
			p.upperEdgeID = e.ID
		case KindLowerCase:
			// Lower-case half: From=contingent, To=activation, Weight=x.
			key := e.To + "\x00" + e.From
			p := pairs[key]
			if p == nil {
				p = &contingentPair{activation: e.To, contingent: e.From}
				pairs[key] = p
			}
			p.hasLower = true
			p.x = e.Weight
			p.aLetter = e.ALetter
			p.lowerEdgeID = e.ID
		}
	}

	for key, p := range pairs {
		if !p.hasLower && !p.hasUpper {
			continue
		}
		if !p.hasUpper {
			// Neither the ordinary bound y nor the upper-case value −y can
			// be derived from the lower-case edge alone: this pair is not
			// well-defined (spec §4.1 step 4 "infer the missing side" only
			// applies when one side carries enough information to rebuild
			// the other, which an isolated lower-case value does not).
			logger.Warn().Str("activation", p.activation).Str("contingent", p.contingent).Str("key", key).
				Msg("tnet: contingent pair missing its ordinary (upper-bound) companion")
			return fmt.Errorf("tnet: InitAndCheck: contingent pair (%s,%s) missing its ordinary companion: %w",
				p.activation, p.contingent, ErrNotWellDefined)
		}
		if !p.hasLower {
			logger.Warn().Str("activation", p.activation).Str("contingent", p.contingent).
				Msg("tnet: contingent pair has no lower-case companion; it is not well-defined")
			return fmt.Errorf("tnet: InitAndCheck: contingent pair (%s,%s) missing its lower-case companion: %w",
				p.activation, p.contingent, ErrNotWellDefined)
		}

		xv, xok := p.x.Value()
		yv, yok := p.y.Value()
		if !xok || !yok || !(xv > 0 && xv < yv) {
			return fmt.Errorf("tnet: InitAndCheck: contingent pair (%s,%s) violates 0<x<y (x=%s,y=%s): %w",
				p.activation, p.contingent, p.x, p.y, ErrNotWellDefined)
		}

		cNode, err := g.NodeByName(p.contingent)
		if err != nil {
			return fmt.Errorf("tnet: InitAndCheck: %w", err)
		}
		if !cNode.HasContingentALetter {
			cNode.HasContingentALetter = true
			cNode.ContingentALetter = p.aLetter
		}

		if err := g.RegisterContingentPair(p.activation, p.contingent); err != nil {
			return fmt.Errorf("tnet: InitAndCheck: %w", err)
		}
	}

	return nil
}
