// Package ostnu is a library for checking and reasoning about temporal
// constraint networks with uncertainty and conditioning.
//
// It implements a family of related models built on a shared integer
// constraint graph:
//
//   - STN   — Simple Temporal Network: consistency, all-pairs shortest
//     paths, minimal-dispatchable form.
//   - STNU  — STN with Uncertainty: dynamic-controllability (DC) checking
//     via RUL-family label propagation, semi-reducible negative cycle
//     (SRNC) witnesses, dispatchability minimization.
//   - CSTN / CSTNU — Conditional (with Uncertainty): labeled-value
//     propagation under Std / IR / ε semantics.
//   - PSTN  — Probabilistic STN: iteratively shrinks contingent ranges
//     against log-normal durations until the approximating STNU is DC.
//
// Package layout, leaves first:
//
//	satint/    saturating signed-integer arithmetic
//	label/     propositional label algebra (≤64 propositions)
//	labelmap/  labeled-integer maps with the no-dominated-pair invariant
//	tnet/      the shared graph model (Node, Edge, Graph)
//	stn/       STN consistency / APSP / dispatchability kernel
//	stnu/      STNU dynamic-controllability kernel
//	cstn/      CSTN / CSTNU propagation kernel
//	pstn/      PSTN approximation loop
//	status/    shared check-status records
//
// Every checker is single-threaded and owns its graph exclusively for the
// duration of a check (see each package's Checker type); running two
// checks concurrently over the same graph is not supported. Running many
// checks concurrently over distinct graphs, one per goroutine, is safe.
package ostnu
