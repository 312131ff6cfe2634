// Package stn implements consistency checking and the minimal
// dispatchable transform for Simple Temporal Networks, per spec §4.2
// and §6.3.
//
// Complexity:
//
//   - ConsistencyCheck: O(V*E) via Bellman-Ford with a virtual source
//     (every node's distance starts at 0, as a virtual source with a
//     0-weight edge to every node would give; no separate virtual node
//     is allocated).
//   - allPairsShortestPaths: O(V^3) via Floyd-Warshall.
//   - ApplyMinDispatchable: O(V^3), built on top of the all-pairs
//     distance matrix (Muscettola's "minimal dispatchable graph"
//     construction collapses to "keep the all-pairs matrix and prune
//     non-essential edges").
package stn
