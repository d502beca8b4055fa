package pchaos

import (
	"context"
	"fmt"
	"time"

	"github.com/notargets/gpc/element"
	"github.com/notargets/gpc/utils"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ProjectResidual accumulates the Galerkin projection of the element residual
// into res. Block i of res receives Σ_q w_q ψ_i(z_q) R(t, u_q, y_q), where u_q
// is the state reconstructed from all blocks of v, dv, ddv at node q and the
// rule for term i is exact for the degree of ψ_i times the operator.
func (c *ParameterContainer) ProjectResidual(elem element.Element, t float64, res, X, v, dv, ddv []float64) (err error) {
	if err = c.checkProjection(elem, res, v, dv, ddv); err != nil {
		return
	}
	a, err := c.operatorDegrees(elem)
	if err != nil {
		return
	}
	a = c.withState(a)
	defer c.observe(opResidual)()
	n := elem.NumDisplacements()
	return c.forEachTerm(elem, func(e element.Element, i int) error {
		tq, err := c.BuildQuadrature(c.pointsFor(a, i))
		if err != nil {
			return err
		}
		var (
			psi                 = make([]float64, c.numTerms)
			uq, udq, uddq, resq = make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
			block               = res[i*n : (i+1)*n]
		)
		for _, node := range tq.Nodes {
			if err = c.nodeBasis(node.Z, psi); err != nil {
				return err
			}
			c.reconstruct(psi, n, v, uq)
			c.reconstruct(psi, n, dv, udq)
			c.reconstruct(psi, n, ddv, uddq)
			e.SetParameters(node.Y)
			clear(resq)
			e.AddResidual(t, resq, X, uq, udq, uddq)
			floats.AddScaled(block, node.W*psi[i], resq)
		}
		return nil
	})
}

// ProjectJacobian accumulates the Galerkin projection of the element Jacobian
// into J, which must be (NumBasisTerms·n) square. Block (i, j) receives
// Σ_q w_q ψ_i(z_q) ψ_j(z_q) J(t, u_q, y_q). When the element declares its
// parameter degrees, blocks that vanish identically are skipped.
func (c *ParameterContainer) ProjectJacobian(elem element.Element, t float64, J *mat.Dense,
	alpha, beta, gamma float64, X, v, dv, ddv []float64) (err error) {
	if err = c.checkProjection(elem, v, dv, ddv); err != nil {
		return
	}
	var (
		n    = elem.NumDisplacements()
		size = c.numTerms * n
	)
	if r, cc := J.Dims(); r != size || cc != size {
		return fmt.Errorf("%w: Jacobian is %dx%d, expected %dx%d", ErrDimensionMismatch, r, cc, size, size)
	}
	a, err := c.operatorDegrees(elem)
	if err != nil {
		return
	}
	defer c.observe(opJacobian)()
	_, sparse := elem.(element.WithParameterDegrees)
	qa := a
	if !sparse {
		qa = c.withState(a)
	}
	return c.forEachTerm(elem, func(e element.Element, i int) error {
		var (
			psi           = make([]float64, c.numTerms)
			uq, udq, uddq = make([]float64, n), make([]float64, n), make([]float64, n)
			Jq            = mat.NewDense(n, n, nil)
		)
		for j := 0; j < c.numTerms; j++ {
			if sparse && !c.nonzeroBlock(i, j, a) {
				continue
			}
			tq, err := c.BuildQuadrature(c.pointsFor(qa, i, j))
			if err != nil {
				return err
			}
			block := J.Slice(i*n, (i+1)*n, j*n, (j+1)*n).(*mat.Dense)
			for _, node := range tq.Nodes {
				if err = c.nodeBasis(node.Z, psi); err != nil {
					return err
				}
				c.reconstruct(psi, n, v, uq)
				c.reconstruct(psi, n, dv, udq)
				c.reconstruct(psi, n, ddv, uddq)
				e.SetParameters(node.Y)
				Jq.Zero()
				e.AddJacobian(t, Jq, alpha, beta, gamma, X, uq, udq, uddq)
				Jq.Scale(node.W*psi[i]*psi[j], Jq)
				block.Add(block, Jq)
			}
		}
		return nil
	})
}

// ProjectInitCond accumulates the projection of the element initial
// conditions onto each basis term into v, dv and ddv
func (c *ParameterContainer) ProjectInitCond(elem element.Element, v, dv, ddv, X []float64) (err error) {
	if err = c.checkProjection(elem, v, dv, ddv); err != nil {
		return
	}
	a, err := c.operatorDegrees(elem)
	if err != nil {
		return
	}
	defer c.observe(opInitCond)()
	n := elem.NumDisplacements()
	return c.forEachTerm(elem, func(e element.Element, k int) error {
		tq, err := c.BuildQuadrature(c.pointsFor(a, k))
		if err != nil {
			return err
		}
		vq, dvq, ddvq := make([]float64, n), make([]float64, n), make([]float64, n)
		for _, node := range tq.Nodes {
			psi, err := c.Psi(k, node.Z)
			if err != nil {
				return err
			}
			e.SetParameters(node.Y)
			clear(vq)
			clear(dvq)
			clear(ddvq)
			e.GetInitConditions(vq, dvq, ddvq, X)
			scale := node.W * psi
			floats.AddScaled(v[k*n:(k+1)*n], scale, vq)
			floats.AddScaled(dv[k*n:(k+1)*n], scale, dvq)
			floats.AddScaled(ddv[k*n:(k+1)*n], scale, ddvq)
		}
		return nil
	})
}

// operatorDegrees is the polynomial degree of the element operators in each
// random parameter. Elements that do not declare it are assumed to carry the
// full retained degree of every parameter. A declared degree for a parameter
// the container does not hold is an error.
func (c *ParameterContainer) operatorDegrees(elem element.Operator) (map[int]int, error) {
	var (
		random = c.randomParameters()
		a      = make(map[int]int, len(random))
	)
	if wd, ok := elem.(element.WithParameterDegrees); ok {
		declared := wd.ParameterDegrees()
		if err := c.checkParameterIDs(declared, "element degree"); err != nil {
			return nil, err
		}
		for _, p := range random {
			a[p.ID] = declared[p.ID]
		}
		return a, nil
	}
	for _, p := range random {
		a[p.ID] = p.MonomialDegree
	}
	return a, nil
}

// withState adds the degree of the reconstructed state, MonomialDegree-1 in
// each parameter, for integrands linear in the state
func (c *ParameterContainer) withState(a map[int]int) map[int]int {
	sa := make(map[int]int, len(a))
	for pid, deg := range a {
		sa[pid] = deg + c.parameters[pid].MonomialDegree - 1
	}
	return sa
}

// pointsFor sizes the rule for an integrand of degree a(p) plus the degrees
// of the given basis terms in each random parameter
func (c *ParameterContainer) pointsFor(a map[int]int, terms ...int) map[int]int {
	nqpts := make(map[int]int, len(a))
	for pid, deg := range a {
		for _, k := range terms {
			deg += c.termwiseParameterDegrees[k][pid]
		}
		nqpts[pid] = utils.RequiredQuadraturePoints(deg)
	}
	return nqpts
}

// reconstruct evaluates the state expansion Σ_k ψ_k blocks[k] into u
func (c *ParameterContainer) reconstruct(psi []float64, n int, blocks, u []float64) {
	clear(u)
	for k, pk := range psi {
		floats.AddScaled(u, pk, blocks[k*n:(k+1)*n])
	}
}

// forEachTerm runs task once per basis term. With more than one worker and a
// cloneable element the terms run concurrently, each on its own copy; the
// first failure cancels the terms not yet started.
func (c *ParameterContainer) forEachTerm(elem element.Element, task func(e element.Element, k int) error) error {
	cl, ok := elem.(element.Cloner)
	if c.workers <= 1 || !ok || c.numTerms == 1 {
		for k := 0; k < c.numTerms; k++ {
			if err := task(elem, k); err != nil {
				return err
			}
		}
		return nil
	}
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(c.workers)
	for k := 0; k < c.numTerms; k++ {
		k := k
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return task(cl.Clone(), k)
		})
	}
	return g.Wait()
}

// checkProjection verifies every vector holds one block per basis term
func (c *ParameterContainer) checkProjection(elem element.Operator, vectors ...[]float64) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	size := c.numTerms * elem.NumDisplacements()
	for _, vec := range vectors {
		if len(vec) != size {
			return fmt.Errorf("%w: vector has length %d, expected %d", ErrDimensionMismatch, len(vec), size)
		}
	}
	return nil
}

// observe counts a projection and returns the func recording its duration
func (c *ParameterContainer) observe(op string) func() {
	start := time.Now()
	projectionsTotal.WithLabelValues(op).Inc()
	c.logger.Debug("projection started", "operator", op, "terms", c.numTerms, "workers", c.workers)
	return func() {
		elapsed := time.Since(start)
		projectionDuration.WithLabelValues(op).Observe(elapsed.Seconds())
		c.logger.Debug("projection finished", "operator", op, "elapsed", elapsed)
	}
}
