package pchaos

import (
	"fmt"

	"github.com/notargets/gpc/parameter"
	"github.com/notargets/gpc/utils"
)

// QuadratureNode is one point of a tensor product rule. Y and Z are keyed by
// parameter ID and hold every registered parameter, deterministic ones
// included. Nodes are shared and must not be modified.
type QuadratureNode struct {
	Y map[int]float64 // Physical coordinates
	Z map[int]float64 // Standard coordinates
	W float64         // Product of the one dimensional weights
}

// TensorQuadrature is the tensor product of one dimensional rules, one per
// parameter. Node order is lexicographic over the parameters in registration
// order, the last registered varying fastest.
type TensorQuadrature struct {
	Nodes       []QuadratureNode
	PointCounts map[int]int // Points used per parameter ID
}

func (tq *TensorQuadrature) Len() int { return len(tq.Nodes) }

// WeightSum is the sum of all node weights, one for a well formed rule
func (tq *TensorQuadrature) WeightSum() (sum float64) {
	for _, node := range tq.Nodes {
		sum += node.W
	}
	return
}

// NumQuadraturePointsFromDegree maps each parameter ID in dmap to the number
// of Gauss points integrating a polynomial of that degree exactly. Every key
// must be a registered parameter.
func (c *ParameterContainer) NumQuadraturePointsFromDegree(dmap map[int]int) (map[int]int, error) {
	if err := c.checkParameterIDs(dmap, "degree"); err != nil {
		return nil, err
	}
	nqpts := make(map[int]int, len(dmap))
	for pid, d := range dmap {
		nqpts[pid] = utils.RequiredQuadraturePoints(d)
	}
	return nqpts, nil
}

// BuildQuadrature forms the tensor product rule with nqpts[pid] points along
// each random parameter. Deterministic parameters contribute a single node
// at their value whatever count, if any, nqpts gives them. The container is
// not modified.
func (c *ParameterContainer) BuildQuadrature(nqpts map[int]int) (tq *TensorQuadrature, err error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	if err = c.checkParameterIDs(nqpts, "point count"); err != nil {
		return nil, err
	}

	var (
		counts = make([]int, len(c.order))
		total  = 1
	)
	for a, pid := range c.order {
		p := c.parameters[pid]
		counts[a] = 1
		if !p.IsDeterministic() {
			var ok bool
			if counts[a], ok = nqpts[pid]; !ok {
				return nil, fmt.Errorf("%w: no point count for random parameter %d (%s)",
					ErrParameterMismatch, pid, p.Name)
			}
		}
		if counts[a] > 0 {
			if counts[a] > MaxQuadratureNodes/total {
				return nil, fmt.Errorf("%w: tensor rule exceeds %d nodes", ErrUnsupportedConfiguration, MaxQuadratureNodes)
			}
			total *= counts[a]
		}
	}

	var (
		rules   = make([]*parameter.QuadratureRule, len(c.order))
		radices = make([]int, len(c.order))
	)
	tq = &TensorQuadrature{PointCounts: make(map[int]int, len(c.order))}
	for a, pid := range c.order {
		if rules[a], err = c.parameters[pid].QuadraturePointsWeights(counts[a]); err != nil {
			return nil, err
		}
		radices[a] = rules[a].Len()
		tq.PointCounts[pid] = radices[a]
	}

	tq.Nodes = make([]QuadratureNode, 0, total)
	utils.CartesianProduct(radices, func(idx []int) {
		node := QuadratureNode{
			Y: make(map[int]float64, len(c.order)),
			Z: make(map[int]float64, len(c.order)),
			W: 1.,
		}
		for a, pid := range c.order {
			qr := rules[a]
			node.Y[pid] = qr.Y[idx[a]]
			node.Z[pid] = qr.Z[idx[a]]
			node.W *= qr.W[idx[a]]
		}
		tq.Nodes = append(tq.Nodes, node)
	})
	quadratureBuilds.Inc()
	c.logger.Debug("built tensor quadrature", "points", tq.PointCounts, "nodes", len(tq.Nodes))
	return
}

// InitializeQuadrature builds the rule for nqpts and keeps it as the current
// rule for the indexed accessors below
func (c *ParameterContainer) InitializeQuadrature(nqpts map[int]int) error {
	tq, err := c.BuildQuadrature(nqpts)
	if err != nil {
		return err
	}
	c.quadrature = tq
	return nil
}

// Quadrature returns the current rule, nil before InitializeQuadrature
func (c *ParameterContainer) Quadrature() *TensorQuadrature { return c.quadrature }

// NumQuadraturePoints is the node count of the current rule
func (c *ParameterContainer) NumQuadraturePoints() int {
	if c.quadrature == nil {
		return 0
	}
	return c.quadrature.Len()
}

// W is the weight of node q of the current rule
func (c *ParameterContainer) W(q int) float64 { return c.node(q).W }

// Y is the physical coordinate map of node q of the current rule
func (c *ParameterContainer) Y(q int) map[int]float64 { return c.node(q).Y }

// Z is the standard coordinate map of node q of the current rule
func (c *ParameterContainer) Z(q int) map[int]float64 { return c.node(q).Z }

// EvalOrthoNormalBasis evaluates basis term k at node q of the current rule
func (c *ParameterContainer) EvalOrthoNormalBasis(k, q int) (float64, error) {
	if c.quadrature == nil {
		return 0, fmt.Errorf("evaluate basis term %d: %w", k, ErrNotInitialized)
	}
	return c.Psi(k, c.node(q).Z)
}

func (c *ParameterContainer) node(q int) *QuadratureNode {
	if c.quadrature == nil {
		panic("quadrature is not initialized")
	}
	return &c.quadrature.Nodes[q]
}

// nodeBasis evaluates every basis term at one node. The one dimensional
// values are tabulated per parameter first so each term is a plain product,
// taken in registration order.
func (c *ParameterContainer) nodeBasis(z map[int]float64, psi []float64) error {
	random := c.randomParameters()
	table := make([][]float64, len(random))
	for a, p := range random {
		table[a] = make([]float64, p.MonomialDegree)
		for d := range table[a] {
			var err error
			if table[a][d], err = p.EvalOrthoNormalBasis(z[p.ID], d); err != nil {
				return err
			}
		}
	}
	for k := range psi {
		psi[k] = 1.
		for a, p := range random {
			psi[k] *= table[a][c.termwiseParameterDegrees[k][p.ID]]
		}
	}
	return nil
}
