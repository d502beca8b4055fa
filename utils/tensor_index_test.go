package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredQuadraturePoints(t *testing.T) {
	tests := []struct {
		degree, points int
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {7, 4}, {10, 6},
	}
	for _, tt := range tests {
		np := RequiredQuadraturePoints(tt.degree)
		assert.Equal(t, tt.points, np, "degree %d", tt.degree)
		assert.GreaterOrEqual(t, 2*np-1, tt.degree)
	}
	assert.Panics(t, func() { RequiredQuadraturePoints(-1) })
}

func TestCartesianProductOrder(t *testing.T) {
	var got [][]int
	CartesianProduct([]int{2, 3}, func(idx []int) {
		got = append(got, append([]int(nil), idx...))
	})
	expected := [][]int{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
	}
	assert.Equal(t, expected, got)
}

func TestCartesianProductEdgeCases(t *testing.T) {
	var count int
	CartesianProduct(nil, func(idx []int) {
		assert.Empty(t, idx)
		count++
	})
	assert.Equal(t, 1, count)

	count = 0
	CartesianProduct([]int{3, 0, 2}, func([]int) { count++ })
	assert.Zero(t, count)
	assert.Equal(t, 0, ProductOf([]int{3, 0, 2}))
	assert.Equal(t, 1, ProductOf(nil))
}

func TestBuildTensorDegreeIndex(t *testing.T) {
	axes := []DegreeAxis{{ParamID: 4, NumDegrees: 3}, {ParamID: 1, NumDegrees: 2}, {ParamID: 7, NumDegrees: 2}}
	index := BuildTensorDegreeIndex(axes)
	require.Len(t, index, 12)

	assert.Equal(t, map[int]int{4: 0, 1: 0, 7: 0}, index[0])
	assert.Equal(t, map[int]int{4: 0, 1: 0, 7: 1}, index[1])
	assert.Equal(t, map[int]int{4: 0, 1: 1, 7: 0}, index[2])
	assert.Equal(t, map[int]int{4: 1, 1: 0, 7: 0}, index[4])
	assert.Equal(t, map[int]int{4: 2, 1: 1, 7: 1}, index[11])

	// Every degree combination appears exactly once
	seen := make(map[[3]int]bool)
	for _, term := range index {
		key := [3]int{term[4], term[1], term[7]}
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestBuildTensorDegreeIndexNoAxes(t *testing.T) {
	index := BuildTensorDegreeIndex(nil)
	require.Len(t, index, 1)
	assert.Empty(t, index[0])
	assert.Panics(t, func() { BuildTensorDegreeIndex([]DegreeAxis{{ParamID: 0, NumDegrees: 0}}) })
}
