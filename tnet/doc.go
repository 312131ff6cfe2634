// Package tnet provides the graph model shared by every temporal-network
// kernel in this module: Node, Edge and Graph, plus the InitAndCheck
// well-definedness pass run before any consistency/controllability check.
//
// Graph is a directed multigraph keyed by unique node name, adapted from
// katalvlaran/lvlath's core.Graph (sentinel errors, deterministic sorted
// iteration; one sync.RWMutex instead of the teacher's separate ones) but with an edge payload shaped
// for temporal constraints: an ordinary weight, an optional STNU
// upper-/lower-case/wait qualifier, and an optional CSTN/CSTNU labeled
// weight map — a tagged union over weight shape rather than a family of
// graph types, per spec §9's design note.
package tnet
