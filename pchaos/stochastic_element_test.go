package pchaos

import (
	"testing"

	"github.com/notargets/gpc/element/library/smd"
	"github.com/notargets/gpc/parameter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestStochasticElement(t *testing.T) {
	c, elem := newSMDContainer(t)
	se, err := NewStochasticElement(elem, c)
	require.NoError(t, err)
	assert.Same(t, elem, se.Deterministic())
	require.Equal(t, 3, se.NumDisplacements())

	v := []float64{9, 9, 9}
	dv := []float64{9, 9, 9}
	ddv := []float64{9, 9, 9}
	se.GetInitConditions(v, dv, ddv, nil)
	assert.InDeltaSlice(t, []float64{1, 0, 0}, v, 1.e-12)
	assert.InDeltaSlice(t, []float64{-1, 0, 0}, dv, 1.e-12)
	assert.InDeltaSlice(t, []float64{0, 0, 0}, ddv, 1.e-12)

	res := make([]float64, 3)
	se.AddResidual(0, res, nil, v, dv, ddv)
	expected := make([]float64, 3)
	require.NoError(t, c.ProjectResidual(elem, 0, expected, nil, v, dv, ddv))
	assert.Equal(t, expected, res)

	J := mat.NewDense(3, 3, nil)
	se.AddJacobian(0, J, 1, 0.5, 0.25, nil, v, dv, ddv)
	JE := mat.NewDense(3, 3, nil)
	require.NoError(t, c.ProjectJacobian(elem, 0, JE, 1, 0.5, 0.25, nil, v, dv, ddv))
	assert.True(t, mat.Equal(JE, J))

	assert.Panics(t, func() { se.AddResidual(0, make([]float64, 2), nil, v, dv, ddv) })
}

func TestNewStochasticElementErrors(t *testing.T) {
	f := parameter.NewFactory()
	bad := f.CreateUniformParameter("m", parameter.UniformParams{A: 1, B: 1}, 2)
	elem := smd.NewSMD(1, 0.1, 5).Bind(bad.ID, -1, -1)

	c := NewParameterContainer(WithLogger(quietLogger()))
	require.NoError(t, c.AddParameter(bad))
	_, err := NewStochasticElement(elem, c)
	assert.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, c.Initialize())
	_, err = NewStochasticElement(elem, c)
	assert.ErrorIs(t, err, parameter.ErrQuadratureIntegrity)

	good, _ := newSMDContainer(t)
	_, err = NewStochasticElement(smd.NewSMD(1, 0.1, 5).Bind(-1, 42, -1), good)
	assert.ErrorIs(t, err, ErrParameterMismatch)
}
