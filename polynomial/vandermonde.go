package polynomial

import (
	"gonum.org/v1/gonum/mat"
)

// Vandermonde1D initializes the 1D Vandermonde matrix of a unit polynomial
// family: row q holds degrees 0..N evaluated at z[q]. With GramMatrix it
// checks a quadrature rule against the family it is paired with.
func Vandermonde1D(f Family, z []float64, N int) *mat.Dense {
	V1D := mat.NewDense(len(z), N+1, nil)
	for j := 0; j <= N; j++ {
		for row, zz := range z {
			V1D.Set(row, j, f.Eval(zz, j))
		}
	}
	return V1D
}

// GramMatrix returns V^T diag(w) V, which is the identity when the rule
// integrates products of the basis up to degree N exactly
func GramMatrix(V *mat.Dense, w []float64) *mat.Dense {
	nr, nc := V.Dims()
	if nr != len(w) {
		panic("weight count must match the Vandermonde row count")
	}
	WV := mat.NewDense(nr, nc, nil)
	WV.Apply(func(i, j int, v float64) float64 { return v * w[i] }, V)
	G := mat.NewDense(nc, nc, nil)
	G.Mul(V.T(), WV)
	return G
}
