// Package stnu implements dynamic-controllability checking for Simple
// Temporal Networks with Uncertainty, per spec §4.3.
//
// The engine applies the RUL-family rules (NO-CASE, UPPER-CASE,
// LOWER-CASE, CROSS-CASE, LETTER-REMOVAL) to a priority queue of pending
// edges until a fixpoint is reached or a negative self-loop is derived.
// Every derived edge's provenance (its two parents and the rule that
// produced it) is recorded in an arena rather than as direct edge-to-edge
// pointers, so that the provenance graph cannot become cyclic the way a
// bidirectional parent pointer could: reconstructing a semi-reducible
// negative cycle (SRNC) witness is then a backward walk over arena
// indices instead of over live graph edges that may later be replaced.
package stnu
