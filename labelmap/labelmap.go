// Package labelmap implements the labeled-integer map used by conditional
// edges: a set of (Label, SatInt) pairs maintaining the invariant that no
// stored pair is dominated by a stronger-label, equal-or-better-weight
// pair, per spec §3.3.
package labelmap

import (
	"sort"

	"github.com/jublebi/ostnu/label"
	"github.com/jublebi/ostnu/satint"
)

// Entry is one (label, value) pair stored in a Map.
type Entry struct {
	Label label.Label
	Value satint.SatInt
}

// Map is a labeled-integer map. The zero value is an empty map ready to
// use. Iteration order (Entries) is insertion order; semantics never
// depend on it, per spec §3.3.
//
// Map additionally maintains a "previously-removed" shadow — the best
// value ever inserted for each label, kept even after a later entry
// dominates and removes it — so CSTN propagation (spec §4.4) can recognize and skip re-deriving an
// equal-or-worse value it has already produced and discarded.
type Map struct {
	entries  []Entry
	bestEver map[label.Label]satint.SatInt
}

// New returns an empty Map.
func New() *Map {
	return &Map{bestEver: make(map[label.Label]satint.SatInt)}
}

// Len returns the number of stored pairs.
func (m *Map) Len() int { return len(m.entries) }

// Entries returns a snapshot slice of the stored pairs. Callers must not
// mutate the returned slice's Label/Value fields to affect m; the slice
// itself is a copy.
func (m *Map) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// dominates reports whether (β,w) dominates (α,v): β subsumes α and w≤v.
func dominates(betaLabel label.Label, w satint.SatInt, alphaLabel label.Label, v satint.SatInt) bool {
	return betaLabel.Subsumes(alphaLabel) && !satint.Less(v, w)
}

// Merge inserts (α,v), honoring the no-dominated-pair invariant: the pair
// is inserted only if no existing pair dominates it; any existing pairs
// it dominates are removed. Returns true if the map changed (insertion
// and/or removals occurred).
//
// Every inserted (α,v) also updates the "previously-removed" shadow with
// the best value inserted for α so far, so a later equal-or-worse
// derivation for α is rejected up front and can be short-circuited via
// WasSuperseded. A rejected pair is not recorded in the shadow.
func (m *Map) Merge(alpha label.Label, v satint.SatInt) bool {
	if prev, ok := m.bestEver[alpha]; ok && !satint.Less(v, prev) {
		// We have already stored, at some point, an equal-or-better value
		// for exactly this label; re-deriving an equal-or-worse one is a
		// no-op for the invariant (it would be immediately dominated).
		return false
	}

	for _, e := range m.entries {
		if dominates(e.Label, e.Value, alpha, v) {
			return false
		}
	}

	kept := m.entries[:0:0]
	for _, e := range m.entries {
		if !dominates(alpha, v, e.Label, e.Value) {
			kept = append(kept, e)
		}
	}
	kept = append(kept, Entry{Label: alpha, Value: v})
	m.entries = kept

	if m.bestEver == nil {
		m.bestEver = make(map[label.Label]satint.SatInt)
	}
	if prev, ok := m.bestEver[alpha]; !ok || satint.Less(v, prev) {
		m.bestEver[alpha] = v
	}
	return true
}

// WasSuperseded reports whether merging (α,v) would be rejected as
// equal-or-worse than a value this map has merged for α before (even if
// that earlier entry has since been removed by a stronger dominator).
func (m *Map) WasSuperseded(alpha label.Label, v satint.SatInt) bool {
	prev, ok := m.bestEver[alpha]
	return ok && !satint.Less(v, prev)
}

// MinValueConsistentWith returns the minimum v over all stored (β,v) with
// β consistent with α, and whether any such pair exists.
func (m *Map) MinValueConsistentWith(alpha label.Label) (satint.SatInt, bool) {
	var best satint.SatInt
	found := false
	for _, e := range m.entries {
		if !label.Consistent(e.Label, alpha) {
			continue
		}
		if !found || satint.Less(e.Value, best) {
			best = e.Value
			found = true
		}
	}
	return best, found
}

// MinValueSubsumedBy returns the minimum v over all stored (β,v) with α
// subsuming β, and whether any such pair exists.
func (m *Map) MinValueSubsumedBy(alpha label.Label) (satint.SatInt, bool) {
	var best satint.SatInt
	found := false
	for _, e := range m.entries {
		if !alpha.Subsumes(e.Label) {
			continue
		}
		if !found || satint.Less(e.Value, best) {
			best = e.Value
			found = true
		}
	}
	return best, found
}

// ValueFor returns the exact value stored for label alpha, if any.
func (m *Map) ValueFor(alpha label.Label) (satint.SatInt, bool) {
	for _, e := range m.entries {
		if label.Equal(e.Label, alpha) {
			return e.Value, true
		}
	}
	return satint.SatInt{}, false
}

// NoDominatedPair reports whether the invariant holds: no stored pair is
// dominated by another stored pair. Exposed for the testable property in
// spec §8 ("A labeled-integer map contains no dominated pair").
func (m *Map) NoDominatedPair() bool {
	for i, a := range m.entries {
		for j, b := range m.entries {
			if i == j {
				continue
			}
			if dominates(b.Label, b.Value, a.Label, a.Value) {
				return false
			}
		}
	}
	return true
}

// Sorted returns Entries sorted by label size then by value, for
// deterministic display/serialization.
func (m *Map) Sorted() []Entry {
	out := m.Entries()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label.Size() != out[j].Label.Size() {
			return out[i].Label.Size() < out[j].Label.Size()
		}
		return satint.Less(out[i].Value, out[j].Value)
	})
	return out
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	c := New()
	c.entries = append(c.entries, m.entries...)
	for k, v := range m.bestEver {
		c.bestEver[k] = v
	}
	return c
}
