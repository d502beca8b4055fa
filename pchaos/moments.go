package pchaos

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ProjectFunction returns the gPC coefficients of a scalar function of the
// physical parameter values. fdeg is the polynomial degree of f in each
// random parameter and sizes the rule for every term; parameters missing
// from fdeg are treated as degree zero.
func (c *ParameterContainer) ProjectFunction(f func(y map[int]float64) float64, fdeg map[int]int) (coeffs []float64, err error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	if err = c.checkParameterIDs(fdeg, "degree"); err != nil {
		return nil, err
	}
	defer c.observe(opFunction)()
	a := make(map[int]int)
	for _, p := range c.randomParameters() {
		a[p.ID] = fdeg[p.ID]
	}
	coeffs = make([]float64, c.numTerms)
	for k := range coeffs {
		tq, err := c.BuildQuadrature(c.pointsFor(a, k))
		if err != nil {
			return nil, err
		}
		for _, node := range tq.Nodes {
			psi, err := c.Psi(k, node.Z)
			if err != nil {
				return nil, err
			}
			coeffs[k] += node.W * psi * f(node.Y)
		}
	}
	return
}

// Mean is the expected value of a blocked gPC vector with n entries per
// block: the coefficient block of the constant term
func (c *ParameterContainer) Mean(coeffs []float64, n int) ([]float64, error) {
	if err := c.checkCoefficients(coeffs, n); err != nil {
		return nil, err
	}
	mean := make([]float64, n)
	copy(mean, coeffs[:n])
	return mean, nil
}

// Variance is the entrywise variance of a blocked gPC vector, the sum of the
// squared coefficients of every non-constant term
func (c *ParameterContainer) Variance(coeffs []float64, n int) ([]float64, error) {
	if err := c.checkCoefficients(coeffs, n); err != nil {
		return nil, err
	}
	var (
		variance = make([]float64, n)
		sq       = make([]float64, n)
	)
	for k := 1; k < c.numTerms; k++ {
		floats.MulTo(sq, coeffs[k*n:(k+1)*n], coeffs[k*n:(k+1)*n])
		floats.Add(variance, sq)
	}
	return variance, nil
}

func (c *ParameterContainer) checkCoefficients(coeffs []float64, n int) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if n < 1 || len(coeffs) != c.numTerms*n {
		return fmt.Errorf("%w: %d coefficients for %d terms of %d entries",
			ErrDimensionMismatch, len(coeffs), c.numTerms, n)
	}
	return nil
}
