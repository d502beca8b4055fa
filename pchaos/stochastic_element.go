package pchaos

import (
	"fmt"

	"github.com/notargets/gpc/element"
	"gonum.org/v1/gonum/mat"
)

// StochasticElement presents the Galerkin projected system of a
// deterministic element as an ordinary element.Operator, so a solver written
// against deterministic elements can integrate the stochastic system. Its
// state holds NumBasisTerms blocks of the wrapped element's state.
type StochasticElement struct {
	elem element.Element
	pc   *ParameterContainer
}

var _ element.Operator = (*StochasticElement)(nil)

// NewStochasticElement wraps elem. Every quadrature rule the projections will
// need is built here, so malformed parameters fail now rather than inside a
// solver callback.
func NewStochasticElement(elem element.Element, pc *ParameterContainer) (se *StochasticElement, err error) {
	if !pc.initialized {
		return nil, ErrNotInitialized
	}
	a, err := pc.operatorDegrees(elem)
	if err != nil {
		return nil, fmt.Errorf("stochastic element: %w", err)
	}
	for i := 0; i < pc.numTerms; i++ {
		if _, err = pc.BuildQuadrature(pc.pointsFor(a, i, i)); err != nil {
			return nil, fmt.Errorf("stochastic element term %d: %w", i, err)
		}
	}
	se = &StochasticElement{elem: elem, pc: pc}
	return
}

// Deterministic is the wrapped element
func (se *StochasticElement) Deterministic() element.Element { return se.elem }

func (se *StochasticElement) NumDisplacements() int {
	return se.pc.NumBasisTerms() * se.elem.NumDisplacements()
}

// The operator methods panic on projection errors, which after the checks in
// NewStochasticElement can only come from wrongly sized arguments.

func (se *StochasticElement) GetInitConditions(v, dv, ddv, X []float64) {
	clear(v)
	clear(dv)
	clear(ddv)
	if err := se.pc.ProjectInitCond(se.elem, v, dv, ddv, X); err != nil {
		panic(err)
	}
}

func (se *StochasticElement) AddResidual(time float64, res, X, v, dv, ddv []float64) {
	if err := se.pc.ProjectResidual(se.elem, time, res, X, v, dv, ddv); err != nil {
		panic(err)
	}
}

func (se *StochasticElement) AddJacobian(time float64, J *mat.Dense, alpha, beta, gamma float64, X, v, dv, ddv []float64) {
	if err := se.pc.ProjectJacobian(se.elem, time, J, alpha, beta, gamma, X, v, dv, ddv); err != nil {
		panic(err)
	}
}
