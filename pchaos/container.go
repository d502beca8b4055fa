// Package pchaos projects deterministic element operators onto a generalized
// polynomial chaos basis.
//
// A ParameterContainer owns the random and deterministic parameters of a
// problem. After Initialize it defines the tensor product stochastic basis:
// basis term k is the product of one orthonormal polynomial per random
// parameter, with per-parameter degrees given by the mixed-radix digits of k
// over the parameters in registration order (first registered varies
// slowest, term 0 is the constant). Global state and residual vectors are
// laid out as NumBasisTerms contiguous blocks of the element's
// NumDisplacements entries, block k holding the coefficient of term k.
//
// Registration and Initialize are not safe for concurrent use. Once
// initialized, the read paths (quadrature construction, Psi, projections)
// may be called from multiple goroutines; InitializeQuadrature may not.
package pchaos

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/notargets/gpc/parameter"
	"github.com/notargets/gpc/utils"
)

var (
	ErrNotInitialized           = errors.New("parameter container is not initialized")
	ErrAlreadyInitialized       = errors.New("parameter container is already initialized")
	ErrNoParameters             = errors.New("parameter container holds no parameters")
	ErrDuplicateParameter       = errors.New("parameter ID already registered")
	ErrParameterMismatch        = errors.New("parameter IDs do not match the registered parameters")
	ErrBasisTermRange           = errors.New("basis term index out of range")
	ErrDimensionMismatch        = errors.New("array dimensions do not match the stochastic system")
	ErrUnsupportedConfiguration = errors.New("configuration is not supported")
)

// MaxQuadratureNodes caps the size of one tensor product rule
const MaxQuadratureNodes = 1 << 24

// Option configures a ParameterContainer
type Option func(*ParameterContainer)

// WithLogger sets the structured logger, slog.Default() otherwise
func WithLogger(logger *slog.Logger) Option {
	return func(c *ParameterContainer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithWorkers sets how many basis terms are projected concurrently. Values
// above one only take effect for elements implementing element.Cloner.
func WithWorkers(n int) Option {
	return func(c *ParameterContainer) {
		if n > 0 {
			c.workers = n
		}
	}
}

// ParameterContainer holds the parameters of a stochastic problem and the
// tensor product basis built over them
type ParameterContainer struct {
	parameters map[int]*parameter.Parameter
	order      []int // Registration order, fixes tensor axis order
	numTerms   int   // Product of MonomialDegree over random parameters

	initialized              bool
	termwiseParameterDegrees []map[int]int // [basis term] parameter ID -> degree

	quadrature *TensorQuadrature // Most recent InitializeQuadrature result

	logger  *slog.Logger
	workers int
}

func NewParameterContainer(opts ...Option) (c *ParameterContainer) {
	c = &ParameterContainer{
		parameters: make(map[int]*parameter.Parameter),
		numTerms:   1,
		logger:     slog.Default(),
		workers:    1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return
}

// AddParameter registers p under its ID. Random parameters multiply the
// number of basis terms by their MonomialDegree; deterministic parameters
// leave it unchanged.
func (c *ParameterContainer) AddParameter(p *parameter.Parameter) error {
	if c.initialized {
		return fmt.Errorf("add parameter %d: %w", p.ID, ErrAlreadyInitialized)
	}
	if _, exists := c.parameters[p.ID]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateParameter, p.ID)
	}
	if !p.IsDeterministic() && p.MonomialDegree < 1 {
		return fmt.Errorf("%w: random parameter %d (%s) retains %d degrees",
			parameter.ErrInvalidDegree, p.ID, p.Name, p.MonomialDegree)
	}
	c.parameters[p.ID] = p
	c.order = append(c.order, p.ID)
	if !p.IsDeterministic() {
		c.numTerms *= p.MonomialDegree
	}
	return nil
}

// Initialize builds the termwise degree map. It must be called once, after
// every parameter is registered and before any quadrature or projection.
func (c *ParameterContainer) Initialize() error {
	if c.initialized {
		return ErrAlreadyInitialized
	}
	if len(c.order) == 0 {
		return ErrNoParameters
	}
	var axes []utils.DegreeAxis
	for _, pid := range c.order {
		p := c.parameters[pid]
		if p.IsDeterministic() {
			continue
		}
		axes = append(axes, utils.DegreeAxis{ParamID: pid, NumDegrees: p.MonomialDegree})
	}
	c.termwiseParameterDegrees = utils.BuildTensorDegreeIndex(axes)
	if len(c.termwiseParameterDegrees) != c.numTerms {
		return fmt.Errorf("tensor index has %d terms, expected %d",
			len(c.termwiseParameterDegrees), c.numTerms)
	}
	c.initialized = true
	c.logger.Info("initialized parameter container",
		"parameters", len(c.order),
		"random_parameters", len(axes),
		"basis_terms", c.numTerms)
	return nil
}

// IsInitialized reports whether Initialize has completed
func (c *ParameterContainer) IsInitialized() bool { return c.initialized }

func (c *ParameterContainer) NumParameters() int { return len(c.order) }

// NumBasisTerms is the number of stochastic basis terms
func (c *ParameterContainer) NumBasisTerms() int { return c.numTerms }

// Parameters returns the registered parameters in registration order
func (c *ParameterContainer) Parameters() []*parameter.Parameter {
	params := make([]*parameter.Parameter, len(c.order))
	for i, pid := range c.order {
		params[i] = c.parameters[pid]
	}
	return params
}

func (c *ParameterContainer) Parameter(pid int) (p *parameter.Parameter, ok bool) {
	p, ok = c.parameters[pid]
	return
}

// ParameterHighestDegreeMap maps each parameter whose type is not exclude to
// its MonomialDegree
func (c *ParameterContainer) ParameterHighestDegreeMap(exclude parameter.Type) map[int]int {
	degrees := make(map[int]int)
	for _, pid := range c.order {
		p := c.parameters[pid]
		if p.Type != exclude {
			degrees[pid] = p.MonomialDegree
		}
	}
	return degrees
}

// ParameterDegreeForBasisTerm is the degree of parameter pid in basis term k.
// Deterministic parameters have degree zero in every term.
func (c *ParameterContainer) ParameterDegreeForBasisTerm(pid, k int) (int, error) {
	if err := c.checkTerm(k); err != nil {
		return 0, err
	}
	p, ok := c.parameters[pid]
	if !ok {
		return 0, fmt.Errorf("%w: unknown parameter %d", ErrParameterMismatch, pid)
	}
	if p.IsDeterministic() {
		return 0, nil
	}
	return c.termwiseParameterDegrees[k][pid], nil
}

// BasisTermDegrees returns a copy of the degree map of basis term k, keyed by
// random parameter ID
func (c *ParameterContainer) BasisTermDegrees(k int) (map[int]int, error) {
	if err := c.checkTerm(k); err != nil {
		return nil, err
	}
	degrees := make(map[int]int, len(c.termwiseParameterDegrees[k]))
	for pid, d := range c.termwiseParameterDegrees[k] {
		degrees[pid] = d
	}
	return degrees, nil
}

// Psi evaluates multivariate basis term k at standard coordinates z, keyed by
// parameter ID. Deterministic parameters contribute a factor of one.
func (c *ParameterContainer) Psi(k int, z map[int]float64) (float64, error) {
	if err := c.checkTerm(k); err != nil {
		return 0, err
	}
	ans := 1.0
	for _, pid := range c.order {
		p := c.parameters[pid]
		if p.IsDeterministic() {
			continue
		}
		zz, ok := z[pid]
		if !ok {
			return 0, fmt.Errorf("%w: no standard coordinate for parameter %d", ErrParameterMismatch, pid)
		}
		val, err := p.EvalOrthoNormalBasis(zz, c.termwiseParameterDegrees[k][pid])
		if err != nil {
			return 0, err
		}
		ans *= val
	}
	return ans, nil
}

// MeanParameterValues maps every parameter to the mean of its distribution,
// or its value when deterministic
func (c *ParameterContainer) MeanParameterValues() map[int]float64 {
	values := make(map[int]float64, len(c.order))
	for _, pid := range c.order {
		values[pid] = c.parameters[pid].Mean()
	}
	return values
}

func (c *ParameterContainer) randomParameters() (params []*parameter.Parameter) {
	for _, pid := range c.order {
		if p := c.parameters[pid]; !p.IsDeterministic() {
			params = append(params, p)
		}
	}
	return
}

// checkParameterIDs rejects any key of m that is not a registered parameter
func (c *ParameterContainer) checkParameterIDs(m map[int]int, what string) error {
	for pid := range m {
		if _, ok := c.parameters[pid]; !ok {
			return fmt.Errorf("%w: %s given for unknown parameter %d", ErrParameterMismatch, what, pid)
		}
	}
	return nil
}

func (c *ParameterContainer) checkTerm(k int) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if k < 0 || k >= c.numTerms {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrBasisTermRange, k, c.numTerms)
	}
	return nil
}
