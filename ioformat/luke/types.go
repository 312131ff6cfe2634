package luke

import (
	"errors"

	"github.com/jublebi/ostnu/tnet"
)

// Sentinel errors for malformed Luke documents.
var (
	ErrMissingSection  = errors.New("luke: missing required section header")
	ErrBadTimePointCnt = errors.New("luke: time-point name count does not match declared count")
	ErrBadOrdinaryEdge = errors.New("luke: malformed ordinary edge line")
	ErrBadContingent   = errors.New("luke: malformed contingent link line")
	ErrBadOracle       = errors.New("luke: malformed oracle line")
	ErrINFNotAllowed   = errors.New("luke: INF sentinel is not allowed in an ordinary edge")
)

// Document is a parsed Luke file: the declared network kind alongside the
// graph built from its sections. Kind is free text (STN, STNU, CSTN, …);
// the reader does not validate it against any enum, since that decision
// belongs to whichever algorithm package ends up consuming Graph.
type Document struct {
	Kind  string
	Graph *tnet.Graph
}
