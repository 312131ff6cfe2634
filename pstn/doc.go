// Package pstn implements the probabilistic-STN approximation loop, per
// spec §4.5: given a PSTN (an STNU whose contingent links carry a
// log-normal duration distribution instead of a fixed range), repeatedly
// bind contingent ranges from a quantile of (μ,σ), delegate the dynamic
// controllability check to stnu, and on failure shrink the offending
// contingent ranges via a non-linear optimizer until the network is DC or
// the optimizer can no longer improve.
package pstn
