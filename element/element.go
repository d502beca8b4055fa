package element

import "gonum.org/v1/gonum/mat"

// Operator is the deterministic element contract consumed by the stochastic
// projections. The state vectors v, dv, ddv each have NumDisplacements
// entries; X holds the element node coordinates and is passed through.
type Operator interface {
	NumDisplacements() int // State size, constant for the element

	// GetInitConditions fills the initial state
	GetInitConditions(v, dv, ddv, X []float64)

	// AddResidual accumulates R(t, u, u', u'') into res
	AddResidual(time float64, res, X, v, dv, ddv []float64)

	// AddJacobian accumulates α∂R/∂u + β∂R/∂u' + γ∂R/∂u'' into the
	// NumDisplacements x NumDisplacements matrix J
	AddJacobian(time float64, J *mat.Dense, alpha, beta, gamma float64, X, v, dv, ddv []float64)
}

// Element is an Operator whose physical constants can be set by parameter ID
type Element interface {
	Operator

	// SetParameters configures the physical constants used by subsequent
	// operator calls; values maps parameter ID to physical value
	SetParameters(values map[int]float64)
}

// WithParameterDegrees defines elements that declare the polynomial degree of
// their operators in each parameter at fixed state. Declaring it asserts the
// residual is at most linear in the state, so the Jacobian does not depend on
// it. Parameters absent from the map are treated as degree zero.
type WithParameterDegrees interface {
	ParameterDegrees() map[int]int
}

// Cloner defines elements that can be copied so independent copies can be
// driven concurrently with different parameter values
type Cloner interface {
	Clone() Element
}
