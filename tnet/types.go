package tnet

import (
	"errors"

	"github.com/jublebi/ostnu/label"
	"github.com/jublebi/ostnu/labelmap"
	"github.com/jublebi/ostnu/satint"
)

// SourceName is the designated source node every well-defined network
// contains, per spec §3.6 ("Designated source node Z whose label is
// always empty").
const SourceName = "Z"

// Sentinel errors for graph construction and lookup.
var (
	ErrEmptyNodeName     = errors.New("tnet: node name is empty")
	ErrNodeNotFound      = errors.New("tnet: node not found")
	ErrNodeAlreadyExists = errors.New("tnet: node already exists")
	ErrEmptyEdgeName     = errors.New("tnet: edge name is empty")
	ErrEdgeNotFound      = errors.New("tnet: edge not found")
	ErrEdgeAlreadyExists = errors.New("tnet: edge already exists")
	ErrSelfLoop          = errors.New("tnet: self-loop edge")
	ErrSameEndpoints     = errors.New("tnet: edge endpoints must be distinct")
	ErrNilGraph          = errors.New("tnet: graph is nil")
)

// ConstraintType classifies an Edge's role, per spec §3.5.
type ConstraintType uint8

const (
	// Normal is a plain user-supplied constraint.
	Normal ConstraintType = iota
	// ContingentConstraint is one half of a contingent link (activation->contingent
	// ordinary bound, or its c:/C: companion).
	ContingentConstraint
	// Internal marks an edge derived by propagation rather than supplied
	// by the user.
	Internal
	// Requirement marks a user-authored requirement edge (as opposed to a
	// contingent one), mirroring the GraphML "requirement" edge type.
	Requirement
)

// LogNormalParams is the PSTN-only per-contingent-node duration
// distribution, per spec §3.4.
type LogNormalParams struct {
	Mu    float64
	Sigma float64
}

// Node is a time-point in the network.
type Node struct {
	// Name uniquely identifies the node within its Graph.
	Name string

	// HasObserves reports whether this node is an observation time-point;
	// Observes is the proposition it reveals when it executes.
	HasObserves bool
	Observes    label.Proposition

	// HasContingentALetter reports whether this node is the contingent
	// endpoint of a contingent link; ContingentALetter is its ALetter.
	HasContingentALetter bool
	ContingentALetter    rune

	// Label restricts the scenarios in which this node participates.
	// Streamlined CSTN instances leave every node's Label empty and push
	// all conditioning onto edges (spec §3.4, glossary "Streamlined CSTN").
	Label label.Label

	// X, Y are an opaque layout position, carried through but never
	// interpreted by any kernel.
	X, Y float64

	// LogNormal is set only for PSTN contingent nodes.
	LogNormal *LogNormalParams

	// HasOracleFor / OracleFor support OSTNU: an oracle node announces a
	// proposition ahead of its associated contingent link's outcome.
	HasOracleFor bool
	OracleFor    rune
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	cp := *n
	if n.LogNormal != nil {
		ln := *n.LogNormal
		cp.LogNormal = &ln
	}
	return &cp
}

// EdgeKind tags which STNU-level qualifier, if any, an Edge's scalar
// Weight field represents.
type EdgeKind uint8

const (
	// KindOrdinary is a plain integer bound.
	KindOrdinary EdgeKind = iota
	// KindUpperCase is an upper-case edge (u,v,C:y), y ≤ 0.
	KindUpperCase
	// KindLowerCase is a lower-case edge (u,v,c:x), x > 0.
	KindLowerCase
	// KindWait is a wait edge (u,A,C:w), w ≤ 0.
	KindWait
)

func (k EdgeKind) String() string {
	switch k {
	case KindUpperCase:
		return "upper-case"
	case KindLowerCase:
		return "lower-case"
	case KindWait:
		return "wait"
	default:
		return "ordinary"
	}
}

// LowerCaseLabeled is one labeled lower-case value (α,v) qualified by an
// ALetter, for CSTNU edges (spec §3.5).
type LowerCaseLabeled struct {
	Alpha label.Label
	Value satint.SatInt
}

// LabeledPayload holds the CSTN/CSTNU labeled-weight fields of an Edge.
// Only populated for conditional networks; nil otherwise.
type LabeledPayload struct {
	// Values is the general labeled weight map α→w (CSTN "requirement").
	Values *labelmap.Map

	// UpperCase maps a contingent ALetter to its labeled upper-case map
	// (ALetter,α)→w, for CSTNU.
	UpperCase map[rune]*labelmap.Map

	// LowerCase maps a contingent ALetter to its single labeled
	// lower-case value, for CSTNU.
	LowerCase map[rune]LowerCaseLabeled
}

// NewLabeledPayload returns an empty LabeledPayload ready to use.
func NewLabeledPayload() *LabeledPayload {
	return &LabeledPayload{
		Values:    labelmap.New(),
		UpperCase: make(map[rune]*labelmap.Map),
		LowerCase: make(map[rune]LowerCaseLabeled),
	}
}

// Clone returns a deep copy of p (nil-safe).
func (p *LabeledPayload) Clone() *LabeledPayload {
	if p == nil {
		return nil
	}
	c := &LabeledPayload{
		Values:    p.Values.Clone(),
		UpperCase: make(map[rune]*labelmap.Map, len(p.UpperCase)),
		LowerCase: make(map[rune]LowerCaseLabeled, len(p.LowerCase)),
	}
	for k, v := range p.UpperCase {
		c.UpperCase[k] = v.Clone()
	}
	for k, v := range p.LowerCase {
		c.LowerCase[k] = v
	}
	return c
}

// Edge is a directed connection between two named nodes. Its payload is a
// tagged union over weight shape: a plain STN/STNU scalar Weight tagged by
// Kind/ALetter, and/or a CSTN/CSTNU Labeled payload, per spec §3.5.
type Edge struct {
	// ID uniquely identifies this edge within its Graph.
	ID string

	// From, To are the endpoint node names. From is the tail (source),
	// To the head (target) of the directed constraint v-u<=w / To-From<=w.
	From, To string

	// Type classifies the edge's provenance/role (spec §3.5).
	Type ConstraintType

	// Kind and ALetter tag the scalar Weight's STNU role. ALetter is
	// meaningful only when Kind != KindOrdinary.
	Kind    EdgeKind
	ALetter rune

	// Weight is the scalar bound: the ordinary weight w, or (depending on
	// Kind) the upper-case y, lower-case x, or wait w.
	Weight satint.SatInt

	// Labeled is non-nil for CSTN/CSTNU edges.
	Labeled *LabeledPayload
}

// IsContingentOrdinary reports whether e is the activation->contingent
// ordinary half of a contingent link.
func (e *Edge) IsContingentOrdinary() bool {
	return e.Type == ContingentConstraint && e.Kind == KindOrdinary
}

// Clone returns a deep copy of e.
func (e *Edge) Clone() *Edge {
	cp := *e
	cp.Labeled = e.Labeled.Clone()
	return &cp
}
