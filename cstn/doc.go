// Package cstn implements labeled-value propagation for Conditional
// Simple Temporal Networks (CSTN) and their CSTNU extension, per
// spec §4.4.
//
// Every edge carries a labelmap.Map of (label, value) pairs instead of a
// single scalar weight. The propagation kernel fires LP, R0 and R3/qR3 on
// every pair of adjacent labeled edges, plus the CSTNU liftings of the
// STNU upper-case rule (LUC/FLUC/LCUC) and lower-case rule (LLC) when
// upper-/lower-case maps are present, until a fixpoint is reached or a
// negative value appears under the empty label on a self-loop. The
// cross-case (LCC) and letter-removal (LLR) liftings are not applied. Three DC semantics — Std, IR, ε —
// parameterize the per-rule guard adjustment via a single Semantics value
// threaded through every rule function, rather than three separate rule
// sets.
package cstn
