package pchaos

import (
	"io"
	"log/slog"
	"testing"

	"github.com/notargets/gpc/parameter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newContainer registers params in order and initializes the container
func newContainer(t *testing.T, params []*parameter.Parameter, opts ...Option) *ParameterContainer {
	t.Helper()
	c := NewParameterContainer(append([]Option{WithLogger(quietLogger())}, opts...)...)
	for _, p := range params {
		require.NoError(t, c.AddParameter(p))
	}
	require.NoError(t, c.Initialize())
	return c
}

// threeParameters is c ~ N(4, 0.5), k ~ Exp(4, 0.5), m ~ U(-5, 4), three
// degrees each
func threeParameters() []*parameter.Parameter {
	f := parameter.NewFactory()
	return []*parameter.Parameter{
		f.CreateNormalParameter("c", parameter.NormalParams{Mu: 4.0, Sigma: 0.5}, 3),
		f.CreateExponentialParameter("k", parameter.ExponentialParams{Mu: 4.0, Beta: 0.5}, 3),
		f.CreateUniformParameter("m", parameter.UniformParams{A: -5.0, B: 4.0}, 3),
	}
}

func TestNumBasisTerms(t *testing.T) {
	f := parameter.NewFactory()
	c := NewParameterContainer(WithLogger(quietLogger()))
	assert.Equal(t, 1, c.NumBasisTerms())

	require.NoError(t, c.AddParameter(f.CreateNormalParameter("a", parameter.NormalParams{Mu: 0, Sigma: 1}, 2)))
	assert.Equal(t, 2, c.NumBasisTerms())
	require.NoError(t, c.AddParameter(f.CreateDeterministicParameter("x", 2.0)))
	assert.Equal(t, 2, c.NumBasisTerms())
	require.NoError(t, c.AddParameter(f.CreateUniformParameter("b", parameter.UniformParams{A: 0, B: 1}, 3)))
	assert.Equal(t, 6, c.NumBasisTerms())
	require.NoError(t, c.AddParameter(f.CreateDeterministicParameter("y", -1.0)))
	assert.Equal(t, 6, c.NumBasisTerms())
	assert.Equal(t, 4, c.NumParameters())

	require.NoError(t, c.Initialize())
	assert.True(t, c.IsInitialized())
	assert.Equal(t, 6, c.NumBasisTerms())
}

func TestTermwiseDegreeOrdering(t *testing.T) {
	f := parameter.NewFactory()
	a := f.CreateNormalParameter("a", parameter.NormalParams{Mu: 0, Sigma: 1}, 2)
	x := f.CreateDeterministicParameter("x", 1.0)
	b := f.CreateUniformParameter("b", parameter.UniformParams{A: 0, B: 1}, 3)
	c := newContainer(t, []*parameter.Parameter{a, x, b})

	require.Equal(t, 6, c.NumBasisTerms())
	for k := 0; k < 6; k++ {
		degrees, err := c.BasisTermDegrees(k)
		require.NoError(t, err)
		assert.Equal(t, map[int]int{a.ID: k / 3, b.ID: k % 3}, degrees, "term %d", k)

		d, err := c.ParameterDegreeForBasisTerm(x.ID, k)
		require.NoError(t, err)
		assert.Zero(t, d)
	}

	// Returned maps are copies
	degrees, _ := c.BasisTermDegrees(0)
	degrees[a.ID] = 9
	d, err := c.ParameterDegreeForBasisTerm(a.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, d)

	assert.Equal(t, map[int]int{a.ID: 2, b.ID: 3}, c.ParameterHighestDegreeMap(parameter.Deterministic))
	assert.Equal(t, map[int]int{x.ID: 0}, c.ParameterHighestDegreeMap(parameter.Probabilistic))
	assert.Equal(t, []*parameter.Parameter{a, x, b}, c.Parameters())
}

func TestRegistrationErrors(t *testing.T) {
	f := parameter.NewFactory()
	p := f.CreateNormalParameter("a", parameter.NormalParams{Mu: 0, Sigma: 1}, 2)

	c := NewParameterContainer(WithLogger(quietLogger()))
	assert.ErrorIs(t, c.Initialize(), ErrNoParameters)
	require.NoError(t, c.AddParameter(p))
	assert.ErrorIs(t, c.AddParameter(p), ErrDuplicateParameter)
	assert.ErrorIs(t, c.AddParameter(&parameter.Parameter{ID: 7, Type: parameter.Probabilistic,
		Distribution: parameter.Normal}), parameter.ErrInvalidDegree)

	require.NoError(t, c.Initialize())
	assert.ErrorIs(t, c.Initialize(), ErrAlreadyInitialized)
	assert.ErrorIs(t, c.AddParameter(f.CreateDeterministicParameter("x", 1)), ErrAlreadyInitialized)
	assert.Equal(t, 2, c.NumBasisTerms())
}

func TestAccessorsBeforeInitialize(t *testing.T) {
	c := NewParameterContainer(WithLogger(quietLogger()))
	require.NoError(t, c.AddParameter(threeParameters()[0]))

	_, err := c.Psi(0, map[int]float64{0: 0})
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = c.BasisTermDegrees(0)
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = c.BuildQuadrature(map[int]int{0: 2})
	assert.ErrorIs(t, err, ErrNotInitialized)
	_, err = c.SparsityPattern(nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestPsi(t *testing.T) {
	params := threeParameters()
	c := newContainer(t, params)
	z := map[int]float64{0: 0.3, 1: 1.7, 2: 0.25}

	for k := 0; k < c.NumBasisTerms(); k++ {
		expected := 1.0
		for _, p := range params {
			d, err := c.ParameterDegreeForBasisTerm(p.ID, k)
			require.NoError(t, err)
			val, err := p.EvalOrthoNormalBasis(z[p.ID], d)
			require.NoError(t, err)
			expected *= val
		}
		psi, err := c.Psi(k, z)
		require.NoError(t, err)
		assert.InDelta(t, expected, psi, 1.e-14, "term %d", k)
	}

	psi, err := c.Psi(0, z)
	require.NoError(t, err)
	assert.Equal(t, 1.0, psi)

	_, err = c.Psi(27, z)
	assert.ErrorIs(t, err, ErrBasisTermRange)
	_, err = c.Psi(-1, z)
	assert.ErrorIs(t, err, ErrBasisTermRange)
	_, err = c.Psi(1, map[int]float64{0: 0.3})
	assert.ErrorIs(t, err, ErrParameterMismatch)
}

func TestMeanParameterValues(t *testing.T) {
	params := append(threeParameters(), &parameter.Parameter{ID: 3, Name: "x", Value: 2.0})
	c := newContainer(t, params)
	means := c.MeanParameterValues()
	assert.InDelta(t, 4.0, means[0], 1.e-14)
	assert.InDelta(t, 4.5, means[1], 1.e-14)
	assert.InDelta(t, -0.5, means[2], 1.e-14)
	assert.Equal(t, 2.0, means[3])
}
