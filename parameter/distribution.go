package parameter

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Mean returns the mean of the parameter's distribution in physical space,
// or Value for a deterministic parameter. Unsupported distributions yield NaN.
func (p *Parameter) Mean() float64 {
	if p.Type == Deterministic {
		return p.Value
	}
	switch p.Distribution {
	case Normal:
		return distuv.Normal{Mu: p.DistParams["mu"], Sigma: p.DistParams["sigma"]}.Mean()
	case Uniform:
		return distuv.Uniform{Min: p.DistParams["a"], Max: p.DistParams["b"]}.Mean()
	case Exponential:
		return p.DistParams["mu"] + distuv.Exponential{Rate: 1 / p.DistParams["beta"]}.Mean()
	default:
		return math.NaN()
	}
}

// Variance returns the variance of the parameter's distribution, zero for a
// deterministic parameter. Unsupported distributions yield NaN.
func (p *Parameter) Variance() float64 {
	if p.Type == Deterministic {
		return 0
	}
	switch p.Distribution {
	case Normal:
		return distuv.Normal{Mu: p.DistParams["mu"], Sigma: p.DistParams["sigma"]}.Variance()
	case Uniform:
		return distuv.Uniform{Min: p.DistParams["a"], Max: p.DistParams["b"]}.Variance()
	case Exponential:
		return distuv.Exponential{Rate: 1 / p.DistParams["beta"]}.Variance()
	default:
		return math.NaN()
	}
}

// PDF evaluates the probability density at the physical value y. A
// deterministic parameter has no density and yields NaN.
func (p *Parameter) PDF(y float64) float64 {
	if p.Type == Deterministic {
		return math.NaN()
	}
	switch p.Distribution {
	case Normal:
		return distuv.Normal{Mu: p.DistParams["mu"], Sigma: p.DistParams["sigma"]}.Prob(y)
	case Uniform:
		return distuv.Uniform{Min: p.DistParams["a"], Max: p.DistParams["b"]}.Prob(y)
	case Exponential:
		return distuv.Exponential{Rate: 1 / p.DistParams["beta"]}.Prob(y - p.DistParams["mu"])
	default:
		return math.NaN()
	}
}
