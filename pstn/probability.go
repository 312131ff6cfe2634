package pstn

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// defaultBounds computes the initial contingent range for a log-normal
// duration, per spec §4.5 step 1: [ceil(exp(mu-f*sigma)), floor(exp(mu+f*sigma))].
func defaultBounds(mu, sigma, f float64) (lower, upper int64) {
	lower = int64(math.Ceil(math.Exp(mu - f*sigma)))
	upper = int64(math.Floor(math.Exp(mu + f*sigma)))
	if lower < 1 {
		lower = 1
	}
	if upper < lower {
		upper = lower
	}
	return lower, upper
}

// probabilityMass returns the log-normal probability captured by
// [lower, upper], Φ((ln upper - μ)/σ) - Φ((ln lower - μ)/σ), per spec §4.5
// step 2.
func probabilityMass(mu, sigma float64, lower, upper int64) float64 {
	dist := distuv.LogNormal{Mu: mu, Sigma: sigma}
	return dist.CDF(float64(upper)) - dist.CDF(float64(lower))
}
