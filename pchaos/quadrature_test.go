package pchaos

import (
	"testing"

	"github.com/notargets/gpc/parameter"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreeParameterQuadrature(t *testing.T) {
	c := newContainer(t, threeParameters())
	require.Equal(t, 27, c.NumBasisTerms())

	before := testutil.ToFloat64(quadratureBuilds)
	tq, err := c.BuildQuadrature(map[int]int{0: 3, 1: 3, 2: 3})
	require.NoError(t, err)
	assert.Equal(t, 27, tq.Len())
	assert.InDelta(t, 1., tq.WeightSum(), 1.e-12)
	assert.Equal(t, map[int]int{0: 3, 1: 3, 2: 3}, tq.PointCounts)
	assert.Equal(t, before+1, testutil.ToFloat64(quadratureBuilds))

	// BuildQuadrature leaves the current rule alone
	assert.Nil(t, c.Quadrature())
	assert.Zero(t, c.NumQuadraturePoints())
}

func TestQuadratureNodeOrder(t *testing.T) {
	params := threeParameters()[:2]
	c := newContainer(t, params)
	tq, err := c.BuildQuadrature(map[int]int{0: 2, 1: 3})
	require.NoError(t, err)
	require.Equal(t, 6, tq.Len())

	r0, err := params[0].QuadraturePointsWeights(2)
	require.NoError(t, err)
	r1, err := params[1].QuadraturePointsWeights(3)
	require.NoError(t, err)
	for q, node := range tq.Nodes {
		i, j := q/3, q%3
		assert.Equal(t, r0.Y[i], node.Y[0])
		assert.Equal(t, r1.Y[j], node.Y[1])
		assert.Equal(t, r0.Z[i], node.Z[0])
		assert.Equal(t, r1.Z[j], node.Z[1])
		assert.InDelta(t, r0.W[i]*r1.W[j], node.W, 1.e-16)
	}
}

func TestQuadratureNodeCountIsProduct(t *testing.T) {
	c := newContainer(t, threeParameters())
	for _, nq := range [][3]int{{1, 1, 1}, {2, 3, 4}, {5, 1, 2}, {4, 4, 4}} {
		tq, err := c.BuildQuadrature(map[int]int{0: nq[0], 1: nq[1], 2: nq[2]})
		require.NoError(t, err)
		assert.Equal(t, nq[0]*nq[1]*nq[2], tq.Len())
		assert.InDelta(t, 1., tq.WeightSum(), 1.e-12)
	}
}

func TestDeterministicQuadratureAxis(t *testing.T) {
	f := parameter.NewFactory()
	x := f.CreateDeterministicParameter("x", 2.0)
	y := f.CreateNormalParameter("y", parameter.NormalParams{Mu: 1, Sigma: 0.1}, 2)
	c := newContainer(t, []*parameter.Parameter{x, y})

	// The deterministic key is optional and its count ignored
	for _, nqpts := range []map[int]int{{y.ID: 4}, {x.ID: 3, y.ID: 4}} {
		tq, err := c.BuildQuadrature(nqpts)
		require.NoError(t, err)
		assert.Equal(t, 4, tq.Len())
		assert.Equal(t, 1, tq.PointCounts[x.ID])
		for _, node := range tq.Nodes {
			assert.Equal(t, 2.0, node.Y[x.ID])
		}
	}
}

func TestQuadratureErrors(t *testing.T) {
	c := newContainer(t, threeParameters())

	_, err := c.BuildQuadrature(map[int]int{0: 2, 1: 2})
	assert.ErrorIs(t, err, ErrParameterMismatch)
	_, err = c.BuildQuadrature(map[int]int{0: 2, 1: 2, 2: 2, 5: 2})
	assert.ErrorIs(t, err, ErrParameterMismatch)
	_, err = c.BuildQuadrature(map[int]int{0: 2, 1: 0, 2: 2})
	assert.ErrorIs(t, err, parameter.ErrInvalidPointCount)
	_, err = c.BuildQuadrature(map[int]int{0: 300, 1: 300, 2: 300})
	assert.ErrorIs(t, err, ErrUnsupportedConfiguration)
	// Counts whose product overflows int
	for _, nqpts := range []map[int]int{
		{0: 4, 1: 1 << 62, 2: 1},
		{0: 1 << 62, 1: 4, 2: 4},
		{0: 1 << 31, 1: 1 << 31, 2: 1 << 31},
	} {
		_, err = c.BuildQuadrature(nqpts)
		assert.ErrorIs(t, err, ErrUnsupportedConfiguration, "%v", nqpts)
	}

	bad := parameter.NewFactory().CreateNormalParameter("s", parameter.NormalParams{Mu: 1, Sigma: 0}, 2)
	c = newContainer(t, []*parameter.Parameter{bad})
	err = c.InitializeQuadrature(map[int]int{bad.ID: 3})
	assert.ErrorIs(t, err, parameter.ErrQuadratureIntegrity)
	assert.Nil(t, c.Quadrature())

	_, err = c.EvalOrthoNormalBasis(0, 0)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestTensorBasisOrthonormality(t *testing.T) {
	c := newContainer(t, threeParameters())
	nqpts, err := c.NumQuadraturePointsFromDegree(map[int]int{0: 4, 1: 4, 2: 4})
	require.NoError(t, err)
	require.NoError(t, c.InitializeQuadrature(nqpts))
	require.Equal(t, 27, c.NumQuadraturePoints())

	N := c.NumBasisTerms()
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			var sum float64
			for q := 0; q < c.NumQuadraturePoints(); q++ {
				pi, err := c.EvalOrthoNormalBasis(i, q)
				require.NoError(t, err)
				pj, err := c.EvalOrthoNormalBasis(j, q)
				require.NoError(t, err)
				sum += c.W(q) * pi * pj
			}
			expected := 0.
			if i == j {
				expected = 1.
			}
			assert.InDelta(t, expected, sum, 1.e-10, "i=%d j=%d", i, j)
		}
	}
}

func TestQuadratureAccessors(t *testing.T) {
	params := threeParameters()
	c := newContainer(t, params)
	require.NoError(t, c.InitializeQuadrature(map[int]int{0: 2, 1: 1, 2: 2}))
	require.Equal(t, 4, c.NumQuadraturePoints())

	var sum float64
	for q := 0; q < c.NumQuadraturePoints(); q++ {
		sum += c.W(q)
		assert.Len(t, c.Y(q), 3)
		assert.Len(t, c.Z(q), 3)
		assert.InDelta(t, 4.0+0.5*c.Z(q)[0], c.Y(q)[0], 1.e-14)
	}
	assert.InDelta(t, 1., sum, 1.e-12)
}

func TestNumQuadraturePointsFromDegree(t *testing.T) {
	c := newContainer(t, threeParameters())
	for _, tc := range []struct{ degrees, points map[int]int }{
		{map[int]int{0: 0, 1: 1, 2: 2}, map[int]int{0: 1, 1: 1, 2: 2}},
		{map[int]int{0: 3, 1: 4, 2: 10}, map[int]int{0: 2, 1: 3, 2: 6}},
		{map[int]int{1: 5}, map[int]int{1: 3}},
	} {
		nqpts, err := c.NumQuadraturePointsFromDegree(tc.degrees)
		require.NoError(t, err)
		assert.Equal(t, tc.points, nqpts)
	}

	_, err := c.NumQuadraturePointsFromDegree(map[int]int{0: 2, 7: 2})
	assert.ErrorIs(t, err, ErrParameterMismatch)
}
