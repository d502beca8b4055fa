package parameter

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/notargets/gpc/polynomial"
	"gonum.org/v1/gonum/floats"
)

// WeightTolerance bounds |Σw - 1| for a well formed quadrature rule
const WeightTolerance = 1.e-12

var (
	ErrInvalidPointCount       = errors.New("quadrature point count must be positive")
	ErrInvalidDegree           = errors.New("basis degree must be non-negative")
	ErrQuadratureIntegrity     = errors.New("quadrature rule is malformed")
	ErrUnsupportedDistribution = errors.New("distribution is not supported")
)

// Type distinguishes fixed parameters from random ones
type Type uint8

const (
	Deterministic Type = iota
	Probabilistic
)

func (t Type) String() string {
	switch t {
	case Deterministic:
		return "Deterministic"
	case Probabilistic:
		return "Probabilistic"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Distribution is the probability law of a parameter
type Distribution uint8

const (
	None Distribution = iota
	Normal
	Uniform
	Exponential
	Poisson  // Not implemented
	Binormal // Not implemented
)

func (d Distribution) String() string {
	switch d {
	case None:
		return "None"
	case Normal:
		return "Normal"
	case Uniform:
		return "Uniform"
	case Exponential:
		return "Exponential"
	case Poisson:
		return "Poisson"
	case Binormal:
		return "Binormal"
	default:
		return fmt.Sprintf("Distribution(%d)", uint8(d))
	}
}

// Family returns the orthonormal polynomial family matched to the distribution
func (d Distribution) Family() (polynomial.Family, error) {
	switch d {
	case Normal:
		return polynomial.Hermite, nil
	case Uniform:
		return polynomial.Legendre, nil
	case Exponential:
		return polynomial.Laguerre, nil
	default:
		return 0, fmt.Errorf("%w: no polynomial family for %v", ErrUnsupportedDistribution, d)
	}
}

// QuadratureRule is a one dimensional rule in both physical and standard
// coordinates. Rules are shared through the parameter cache and must not be
// modified by callers.
type QuadratureRule struct {
	Y []float64 // Physical points
	Z []float64 // Standard points
	W []float64 // Weights, summing to one
}

// Len returns the number of nodes in the rule
func (qr *QuadratureRule) Len() int { return len(qr.W) }

// Parameter is one deterministic or random input. The distribution specific
// behaviour is selected by Distribution. Parameters are compared by ID only.
// A Parameter holds locks and must be passed by pointer.
type Parameter struct {
	ID             int
	Name           string
	Type           Type
	Distribution   Distribution
	MonomialDegree int                // Number of retained 1-D basis degrees, 0 for deterministic
	DistParams     map[string]float64 // e.g. {mu, sigma} or {a, b}
	Value          float64            // Deterministic value

	basis      basisCache
	quadrature quadratureCache
}

// Equal reports whether both parameters carry the same ID
func (p *Parameter) Equal(o *Parameter) bool {
	return o != nil && p.ID == o.ID
}

// IsDeterministic reports whether the parameter is excluded from the
// stochastic basis
func (p *Parameter) IsDeterministic() bool {
	return p.Type == Deterministic
}

// QuadraturePointsWeights returns the n point rule for the parameter,
// computing it on first use. Repeated calls with the same n return the same
// rule. Deterministic parameters always return a single node at Value.
func (p *Parameter) QuadraturePointsWeights(n int) (*QuadratureRule, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: parameter %d (%s) requested %d points",
			ErrInvalidPointCount, p.ID, p.Name, n)
	}
	return p.quadrature.getOrCompute(n, func() (*QuadratureRule, error) {
		return p.computeQuadrature(n)
	})
}

// QuadratureBuilds is the number of rules computed so far
func (p *Parameter) QuadratureBuilds() int {
	return p.quadrature.computed()
}

// EvalOrthoNormalBasis evaluates the degree d orthonormal polynomial matched
// to the distribution at the standard coordinate z
func (p *Parameter) EvalOrthoNormalBasis(z float64, d int) (float64, error) {
	if d < 0 {
		return 0, fmt.Errorf("%w: parameter %d (%s) requested degree %d",
			ErrInvalidDegree, p.ID, p.Name, d)
	}
	return p.basis.getOrCompute(basisKey{degree: d, z: z}, func() (float64, error) {
		if p.Type == Deterministic {
			return 1., nil
		}
		fam, err := p.Distribution.Family()
		if err != nil {
			return 0, err
		}
		return fam.Eval(z, d), nil
	})
}

func (p *Parameter) computeQuadrature(n int) (qr *QuadratureRule, err error) {
	if p.Type == Deterministic {
		return &QuadratureRule{
			Y: []float64{p.Value},
			Z: []float64{p.Value},
			W: []float64{1.},
		}, nil
	}

	var (
		x, w []float64
		y    = make([]float64, n)
		z    = make([]float64, n)
	)
	switch p.Distribution {
	case Normal:
		// Physicists' rule for exp(-x²), rescaled onto the normal density
		mu, sigma := p.DistParams["mu"], p.DistParams["sigma"]
		x, w = polynomial.HermiteGQ(n)
		floats.Scale(1/math.Sqrt(math.Pi), w)
		for i := range x {
			y[i] = mu + sigma*math.Sqrt2*x[i]
			z[i] = (y[i] - mu) / sigma
		}
	case Uniform:
		a, b := p.DistParams["a"], p.DistParams["b"]
		x, w = polynomial.LegendreGQ(n)
		floats.Scale(0.5, w)
		for i := range x {
			y[i] = (b-a)*x[i]/2 + (b+a)/2
			z[i] = (y[i] - a) / (b - a)
		}
	case Exponential:
		// exp(-x) on [0,inf) is already the unit exponential density
		mu, beta := p.DistParams["mu"], p.DistParams["beta"]
		x, w = polynomial.LaguerreGQ(n)
		for i := range x {
			y[i] = mu + beta*x[i]
			z[i] = x[i]
		}
	default:
		return nil, fmt.Errorf("%w: parameter %d (%s) has distribution %v",
			ErrUnsupportedDistribution, p.ID, p.Name, p.Distribution)
	}

	qr = &QuadratureRule{Y: y, Z: z, W: w}
	if err = qr.checkIntegrity(); err != nil {
		return nil, fmt.Errorf("parameter %d (%s) %v rule with %d points: %w",
			p.ID, p.Name, p.Distribution, n, err)
	}
	return
}

func (qr *QuadratureRule) checkIntegrity() error {
	sum := floats.Sum(qr.W)
	if math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("%w: weights sum to %.17g", ErrQuadratureIntegrity, sum)
	}
	for i := range qr.W {
		for _, v := range [3]float64{qr.Y[i], qr.Z[i], qr.W[i]} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: node %d is not finite", ErrQuadratureIntegrity, i)
			}
		}
	}
	return nil
}

func (p *Parameter) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Parameter %d %q: %v %v", p.ID, p.Name, p.Type, p.Distribution))
	if p.Type == Deterministic {
		sb.WriteString(fmt.Sprintf(" value=%g", p.Value))
		return sb.String()
	}
	keys := make([]string, 0, len(p.DistParams))
	for k := range p.DistParams {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf(" %s=%g", k, p.DistParams[k]))
	}
	sb.WriteString(fmt.Sprintf(" degree=%d", p.MonomialDegree))
	return sb.String()
}
