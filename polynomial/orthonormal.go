package polynomial

import (
	"fmt"
	"math"
)

// JacobiP evaluates the normalised Jacobi polynomial of type (alpha,beta) at
// points x for order n. The result is orthonormal on [-1,1] with respect to
// the weight (1-x)^alpha (1+x)^beta.
func JacobiP(x []float64, alpha, beta float64, n int) []float64 {
	checkDegree(n)
	Np := len(x)
	P := make([]float64, Np)

	// Initial values P_0(x) and P_1(x)
	gamma0 := Gamma0(alpha, beta)
	for i := range P {
		P[i] = 1.0 / math.Sqrt(gamma0)
	}
	if n == 0 {
		return P
	}

	Pold := P
	P = make([]float64, Np)
	gamma1 := Gamma1(alpha, beta)
	for i := range P {
		P[i] = ((alpha+beta+2)*x[i] + (alpha - beta)) / 2 / math.Sqrt(gamma1)
	}
	if n == 1 {
		return P
	}

	aold := 2.0 / (2.0 + alpha + beta) * math.Sqrt((alpha+1)*(beta+1)/(alpha+beta+3))
	for i := 1; i < n; i++ {
		h1 := 2*float64(i) + alpha + beta
		anew := 2.0 / (h1 + 2) * math.Sqrt((float64(i)+1)*(float64(i)+1+alpha+beta)*
			(float64(i)+1+alpha)*(float64(i)+1+beta)/(h1+1)/(h1+3))
		bnew := -(alpha*alpha - beta*beta) / h1 / (h1 + 2)

		Pnew := make([]float64, Np)
		for j := range P {
			Pnew[j] = 1 / anew * (-aold*Pold[j] + (x[j]-bnew)*P[j])
		}
		Pold, P = P, Pnew
		aold = anew
	}

	return P
}

// JacobiPSingle evaluates the normalised Jacobi polynomial at a single point
func JacobiPSingle(x, alpha, beta float64, n int) float64 {
	return JacobiP([]float64{x}, alpha, beta, n)[0]
}

// UnitHermite evaluates the orthonormal (probabilists') Hermite polynomial of
// degree d at z. Orthonormal with respect to the standard normal density.
func UnitHermite(z float64, d int) float64 {
	checkDegree(d)
	hm, h := 0., 1.
	for k := 0; k < d; k++ {
		kk := float64(k)
		hm, h = h, (z*h-math.Sqrt(kk)*hm)/math.Sqrt(kk+1)
	}
	return h
}

// UnitLegendre evaluates the orthonormal Legendre polynomial of degree d at
// z in [0,1]. Orthonormal with respect to the uniform density on [0,1].
func UnitLegendre(z float64, d int) float64 {
	checkDegree(d)
	return math.Sqrt2 * JacobiPSingle(2*z-1, 0, 0, d)
}

// UnitLaguerre evaluates the Laguerre polynomial of degree d at z, which is
// orthonormal with respect to the unit exponential density exp(-z) on [0,inf)
func UnitLaguerre(z float64, d int) float64 {
	checkDegree(d)
	lm, l := 0., 1.
	for k := 0; k < d; k++ {
		kk := float64(k)
		lm, l = l, ((2*kk+1-z)*l-kk*lm)/(kk+1)
	}
	return l
}

// Family selects one of the orthonormal polynomial families
type Family uint8

const (
	Hermite Family = iota
	Legendre
	Laguerre
)

func (f Family) String() string {
	switch f {
	case Hermite:
		return "Hermite"
	case Legendre:
		return "Legendre"
	case Laguerre:
		return "Laguerre"
	default:
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
}

// Eval evaluates the unit polynomial of the family at z for degree d
func (f Family) Eval(z float64, d int) float64 {
	switch f {
	case Hermite:
		return UnitHermite(z, d)
	case Legendre:
		return UnitLegendre(z, d)
	case Laguerre:
		return UnitLaguerre(z, d)
	default:
		panic(fmt.Sprintf("unknown polynomial family %v", f))
	}
}

func checkDegree(d int) {
	if d < 0 {
		panic(fmt.Sprintf("polynomial degree must be non-negative, got %d", d))
	}
}
