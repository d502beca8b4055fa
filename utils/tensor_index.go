package utils

import (
	"fmt"

	"gonum.org/v1/gonum/stat/combin"
)

// RequiredQuadraturePoints returns the minimum number of Gauss points that
// integrate a univariate polynomial of the given degree exactly. An n point
// Gauss rule is exact through degree 2n-1.
func RequiredQuadraturePoints(degree int) int {
	if degree < 0 {
		panic(fmt.Sprintf("polynomial degree must be non-negative, got %d", degree))
	}
	return degree/2 + 1
}

// CartesianProduct visits every multi-index of the mixed-radix space defined
// by radices in lexicographic order: the first axis varies slowest, the last
// axis fastest. The idx slice passed to visit is reused between calls.
// A zero length radices visits the single empty index once.
func CartesianProduct(radices []int, visit func(idx []int)) {
	if len(radices) == 0 {
		visit([]int{})
		return
	}
	for _, r := range radices {
		if r <= 0 {
			return
		}
	}
	var (
		gen = combin.NewCartesianGenerator(radices)
		idx = make([]int, len(radices))
	)
	for gen.Next() {
		visit(gen.Product(idx))
	}
}

// ProductOf returns the number of multi-indices in the mixed-radix space
func ProductOf(radices []int) (n int) {
	n = 1
	for _, r := range radices {
		n *= r
	}
	return
}

// DegreeAxis is one axis of the tensor product basis
type DegreeAxis struct {
	ParamID    int // Parameter owning the axis
	NumDegrees int // Degrees 0..NumDegrees-1 are retained
}

// BuildTensorDegreeIndex enumerates the full tensor product of per-parameter
// degrees. Term k carries the mixed-radix digits of k over axes, with the
// first axis the slowest varying, so term 0 is always the all zero degree
// term. Each entry maps parameter ID to that parameter's degree in the term.
func BuildTensorDegreeIndex(axes []DegreeAxis) (index []map[int]int) {
	radices := make([]int, len(axes))
	for i, ax := range axes {
		if ax.NumDegrees < 1 {
			panic(fmt.Sprintf("parameter %d retains no degrees", ax.ParamID))
		}
		radices[i] = ax.NumDegrees
	}
	index = make([]map[int]int, 0, ProductOf(radices))
	CartesianProduct(radices, func(idx []int) {
		term := make(map[int]int, len(axes))
		for i, ax := range axes {
			term[ax.ParamID] = idx[i]
		}
		index = append(index, term)
	})
	return
}
