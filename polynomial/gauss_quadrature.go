package polynomial

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// GolubWelsch computes the Gauss quadrature nodes and weights from the
// three-term recurrence of a family of monic orthogonal polynomials.
//
//	d0: main diagonal of the Jacobi matrix (recurrence a_k, k = 0..n-1)
//	d1: first off diagonal (sqrt(b_k), k = 1..n-1)
//	mu0: integral of the weight function over its support
//
// The nodes are the eigenvalues of the Jacobi matrix, returned in ascending
// order, the weights are mu0 times the squared first component of each
// normalised eigenvector.
func GolubWelsch(d0, d1 []float64, mu0 float64) (X, W []float64) {
	if len(d1) != len(d0)-1 {
		panic("off diagonal must have one entry fewer than the diagonal")
	}
	if len(d0) == 1 {
		return []float64{d0[0]}, []float64{mu0}
	}

	JJ := NewSymTriDiagonal(d0, d1)

	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	X = eig.Values(nil)

	VVr := mat.NewDense(len(X), len(X), nil)
	eig.VectorsTo(VVr)
	W = make([]float64, len(X))
	copy(W, VVr.RawRowView(0))
	for i := range W {
		W[i] *= W[i] * mu0
	}
	return X, W
}

// JacobiGQ computes the N+1 point Gauss quadrature for the Jacobi weight
// (1-x)^alpha (1+x)^beta on [-1,1]
func JacobiGQ(alpha, beta float64, N int) (X, W []float64) {
	if N == 0 {
		return []float64{-(alpha - beta) / (alpha + beta + 2.)}, []float64{Gamma0(alpha, beta)}
	}

	h1 := make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: d0[i] = -(α²-β²)/((2i+α+β)*(2i+α+β+2))
	d0 := make([]float64, N+1)
	fac := (beta*beta - alpha*alpha)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}

	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	d1 := make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		val := h1[i]
		d1[i] = 2.0 / (val + 2.0) * math.Sqrt(
			ip1*(ip1+alpha+beta)*(ip1+alpha)*(ip1+beta)/(val+1)/(val+3),
		)
	}

	return GolubWelsch(d0, d1, Gamma0(alpha, beta))
}

// LegendreGQ returns the n point Gauss-Legendre rule on [-1,1], weights sum to 2
func LegendreGQ(n int) (X, W []float64) {
	checkPoints(n)
	return JacobiGQ(0, 0, n-1)
}

// HermiteGQ returns the n point Gauss-Hermite rule for the physicists' weight
// exp(-x²) on (-inf, inf), weights sum to sqrt(pi)
func HermiteGQ(n int) (X, W []float64) {
	checkPoints(n)
	d0 := make([]float64, n)
	d1 := make([]float64, n-1)
	for k := 1; k < n; k++ {
		d1[k-1] = math.Sqrt(float64(k) / 2.)
	}
	return GolubWelsch(d0, d1, math.Sqrt(math.Pi))
}

// LaguerreGQ returns the n point Gauss-Laguerre rule for the weight exp(-x)
// on [0, inf), weights sum to 1
func LaguerreGQ(n int) (X, W []float64) {
	checkPoints(n)
	d0 := make([]float64, n)
	d1 := make([]float64, n-1)
	for k := 0; k < n; k++ {
		d0[k] = 2*float64(k) + 1
	}
	for k := 1; k < n; k++ {
		d1[k-1] = float64(k)
	}
	return GolubWelsch(d0, d1, 1.)
}

func Gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func Gamma1(alpha, beta float64) float64 {
	ab := alpha + beta
	a1 := alpha + 1.
	b1 := beta + 1.
	return a1 * b1 * Gamma0(alpha, beta) / (ab + 3.0)
}

// NewSymTriDiagonal assembles the symmetric tridiagonal matrix with main
// diagonal d0 and off diagonal d1
func NewSymTriDiagonal(d0, d1 []float64) (Tri *mat.SymDense) {
	n := len(d0)
	dd := make([]float64, n*n)
	for i := 0; i < n; i++ {
		dd[i+i*n] = d0[i]
		if i != n-1 {
			dd[i+1+i*n] = d1[i]
			dd[i+(i+1)*n] = d1[i]
		}
	}
	Tri = mat.NewSymDense(n, dd)
	return
}

func checkPoints(n int) {
	if n < 1 {
		panic("quadrature requires at least one point")
	}
}
