package neat

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// WeightDistribution samples a connection weight, either from a fixed
// constant or from a normal distribution backed by gonum's distuv.
type WeightDistribution struct {
	fixed     bool
	fixedVal  float64
	mu, sigma float64
}

// FixedWeight returns a distribution that always samples w.
func FixedWeight(w float64) WeightDistribution {
	return WeightDistribution{fixed: true, fixedVal: w}
}

// NormalWeight returns a distribution sampling N(mean, stdDev).
func NormalWeight(mean, stdDev float64) WeightDistribution {
	return WeightDistribution{mu: mean, sigma: stdDev}
}

// Sample draws one value from the distribution using rng as the
// entropy source. The engine is single-threaded, so a single shared
// *rand.Rand can be threaded through every Sample call without a data
// race.
func (d WeightDistribution) Sample(rng *rand.Rand) float64 {
	if d.fixed {
		return d.fixedVal
	}
	n := distuv.Normal{Mu: d.mu, Sigma: d.sigma, Src: rng}
	return n.Rand()
}

// IsFixed reports whether this distribution always returns a constant.
func (d WeightDistribution) IsFixed() bool { return d.fixed }
