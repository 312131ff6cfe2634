package stnu

import "github.com/jublebi/ostnu/tnet"

// ruleKind names which RUL-family rule produced a derived edge, or marks
// a record as a base edge taken directly from the input graph.
type ruleKind uint8

const (
	ruleBase ruleKind = iota
	ruleNoCase
	ruleUpperCase
	ruleLowerCase
	ruleCrossCase
	ruleLetterRemoval
)

// edgeKey identifies an edge slot in the working set: an (from,to,kind)
// triple, qualified by ALetter for upper-case/lower-case/wait edges.
type edgeKey struct {
	From, To string
	Kind     tnet.EdgeKind
	ALetter  rune
}

// record is one entry in the provenance arena: either a base edge (Parent1
// and Parent2 both -1) or a derived edge naming the rule and the two arena
// indices it was derived from. Recording provenance this way — as an
// append-only arena indexed by int, rather than direct pointers between
// edges — means a later tightening of one edge can never retroactively
// turn an earlier record into part of a cycle; the arena is a DAG by
// construction since every record's parents have strictly smaller index.
type record struct {
	key     edgeKey
	weight  int64
	rule    ruleKind
	parent1 int
	parent2 int
}

// arena is the append-only provenance log for one Engine run.
type arena struct {
	records []record
}

func newArena() *arena { return &arena{} }

func (a *arena) addBase(key edgeKey, weight int64) int {
	a.records = append(a.records, record{key: key, weight: weight, rule: ruleBase, parent1: -1, parent2: -1})
	return len(a.records) - 1
}

func (a *arena) derive(kind ruleKind, key edgeKey, weight int64, p1, p2 int) int {
	a.records = append(a.records, record{key: key, weight: weight, rule: kind, parent1: p1, parent2: p2})
	return len(a.records) - 1
}

func (a *arena) at(idx int) record { return a.records[idx] }
