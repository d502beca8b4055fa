package parameter

// NormalParams are the constants of N(Mu, Sigma²)
type NormalParams struct {
	Mu, Sigma float64
}

// UniformParams are the bounds of U(A, B)
type UniformParams struct {
	A, B float64
}

// ExponentialParams describe the shifted exponential Mu + Beta·Exp(1)
type ExponentialParams struct {
	Mu, Beta float64
}

// Factory creates parameters with sequential IDs starting at zero. IDs are
// never reused by a factory; a fresh factory starts over. Distribution
// constants are not validated here.
type Factory struct {
	nextID int
}

func NewFactory() *Factory {
	return &Factory{}
}

// NextID is the ID the next created parameter will receive
func (f *Factory) NextID() int {
	return f.nextID
}

func (f *Factory) getParameterID() (pid int) {
	pid = f.nextID
	f.nextID++
	return
}

func (f *Factory) CreateDeterministicParameter(name string, value float64) *Parameter {
	return &Parameter{
		ID:             f.getParameterID(),
		Name:           name,
		Type:           Deterministic,
		Distribution:   None,
		MonomialDegree: 0,
		Value:          value,
	}
}

func (f *Factory) CreateNormalParameter(name string, dp NormalParams, degree int) *Parameter {
	return &Parameter{
		ID:             f.getParameterID(),
		Name:           name,
		Type:           Probabilistic,
		Distribution:   Normal,
		MonomialDegree: degree,
		DistParams:     map[string]float64{"mu": dp.Mu, "sigma": dp.Sigma},
	}
}

func (f *Factory) CreateUniformParameter(name string, dp UniformParams, degree int) *Parameter {
	return &Parameter{
		ID:             f.getParameterID(),
		Name:           name,
		Type:           Probabilistic,
		Distribution:   Uniform,
		MonomialDegree: degree,
		DistParams:     map[string]float64{"a": dp.A, "b": dp.B},
	}
}

func (f *Factory) CreateExponentialParameter(name string, dp ExponentialParams, degree int) *Parameter {
	return &Parameter{
		ID:             f.getParameterID(),
		Name:           name,
		Type:           Probabilistic,
		Distribution:   Exponential,
		MonomialDegree: degree,
		DistParams:     map[string]float64{"mu": dp.Mu, "beta": dp.Beta},
	}
}
