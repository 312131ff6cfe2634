package label

import "fmt"

// Registry assigns stable bit indices to proposition letters as they are
// first seen, so graph I/O and construction code can work with the
// human-readable rune while the kernels work with a Proposition index.
// Not safe for concurrent use; a Graph owns one Registry internally (see
// tnet.Graph.Propositions).
type Registry struct {
	index map[rune]Proposition
	names []rune
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[rune]Proposition)}
}

// Intern returns the Proposition for r, assigning a new bit index if r has
// not been seen before. It errors once 64 distinct propositions have been
// interned.
func (reg *Registry) Intern(r rune) (Proposition, error) {
	if p, ok := reg.index[r]; ok {
		return p, nil
	}
	if len(reg.names) >= MaxPropositions {
		return 0, fmt.Errorf("label: Intern(%q): %w", r, ErrTooManyPropositions)
	}
	p := Proposition(len(reg.names))
	reg.names = append(reg.names, r)
	reg.index[r] = p
	return p, nil
}

// Lookup returns the Proposition already assigned to r, if any.
func (reg *Registry) Lookup(r rune) (Proposition, bool) {
	p, ok := reg.index[r]
	return p, ok
}

// Rune returns the letter originally interned for p.
func (reg *Registry) Rune(p Proposition) (rune, bool) {
	if int(p) >= len(reg.names) {
		return 0, false
	}
	return reg.names[p], true
}

// Len returns how many distinct propositions have been interned.
func (reg *Registry) Len() int { return len(reg.names) }
