// Package smd implements a single degree of freedom spring-mass-damper
//
//	m u'' + c u' + k u = 0,  u(0) = 1, u'(0) = -1
package smd

import (
	"fmt"

	"github.com/notargets/gpc/element"
	"gonum.org/v1/gonum/mat"
)

const unbound = -1

// SMD is a spring-mass-damper element. Each physical constant can be bound to
// a parameter ID so SetParameters updates it.
type SMD struct {
	M, C, K float64 // Mass, damping and stiffness

	mID, cID, kID int
}

var (
	_ element.Element              = (*SMD)(nil)
	_ element.WithParameterDegrees = (*SMD)(nil)
	_ element.Cloner               = (*SMD)(nil)
)

func NewSMD(m, c, k float64) *SMD {
	return &SMD{M: m, C: c, K: k, mID: unbound, cID: unbound, kID: unbound}
}

// Bind associates the mass, damping and stiffness with parameter IDs. Pass a
// negative ID to leave a constant fixed.
func (s *SMD) Bind(mID, cID, kID int) *SMD {
	s.mID, s.cID, s.kID = mID, cID, kID
	return s
}

func (s *SMD) NumDisplacements() int { return 1 }

func (s *SMD) SetParameters(values map[int]float64) {
	for id, val := range values {
		switch {
		case id < 0:
		case id == s.mID:
			s.M = val
		case id == s.cID:
			s.C = val
		case id == s.kID:
			s.K = val
		}
	}
}

func (s *SMD) GetInitConditions(v, dv, ddv, X []float64) {
	clear(v[:1])
	clear(dv[:1])
	clear(ddv[:1])
	v[0] = 1.0
	dv[0] = -1.0
}

func (s *SMD) AddResidual(time float64, res, X, v, dv, ddv []float64) {
	res[0] += s.M*ddv[0] + s.C*dv[0] + s.K*v[0]
}

func (s *SMD) AddJacobian(time float64, J *mat.Dense, alpha, beta, gamma float64, X, v, dv, ddv []float64) {
	J.Set(0, 0, J.At(0, 0)+gamma*s.M+beta*s.C+alpha*s.K)
}

// ParameterDegrees reports that residual and Jacobian are linear in every
// bound constant
func (s *SMD) ParameterDegrees() map[int]int {
	degrees := make(map[int]int, 3)
	for _, id := range []int{s.mID, s.cID, s.kID} {
		if id >= 0 {
			degrees[id] = 1
		}
	}
	return degrees
}

func (s *SMD) Clone() element.Element {
	cp := *s
	return &cp
}

func (s *SMD) String() string {
	return fmt.Sprintf("SMD m=%g c=%g k=%g", s.M, s.C, s.K)
}
