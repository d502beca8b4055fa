package pchaos

// NonzeroBlock reports whether E[f ψ_i ψ_j] can be nonzero for an integrand f
// of degree fdeg[p] in each random parameter p. Orthogonality makes the
// block vanish as soon as the degrees of ψ_i and ψ_j differ by more than
// fdeg[p] along any parameter. Parameters missing from fdeg have degree zero.
func (c *ParameterContainer) NonzeroBlock(i, j int, fdeg map[int]int) (bool, error) {
	if err := c.checkTerm(i); err != nil {
		return false, err
	}
	if err := c.checkTerm(j); err != nil {
		return false, err
	}
	return c.nonzeroBlock(i, j, fdeg), nil
}

func (c *ParameterContainer) nonzeroBlock(i, j int, fdeg map[int]int) bool {
	di, dj := c.termwiseParameterDegrees[i], c.termwiseParameterDegrees[j]
	for pid, d := range di {
		gap := d - dj[pid]
		if gap < 0 {
			gap = -gap
		}
		if gap > fdeg[pid] {
			return false
		}
	}
	return true
}

// SparsityPattern is the NonzeroBlock pattern over all basis term pairs
func (c *ParameterContainer) SparsityPattern(fdeg map[int]int) ([][]bool, error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	if err := c.checkParameterIDs(fdeg, "degree"); err != nil {
		return nil, err
	}
	pattern := make([][]bool, c.numTerms)
	for i := range pattern {
		pattern[i] = make([]bool, c.numTerms)
		for j := range pattern[i] {
			pattern[i][j] = c.nonzeroBlock(i, j, fdeg)
		}
	}
	return pattern, nil
}

// NumNonzeroBlocks counts the true entries of a sparsity pattern
func NumNonzeroBlocks(pattern [][]bool) (nnz int) {
	for _, row := range pattern {
		for _, nz := range row {
			if nz {
				nnz++
			}
		}
	}
	return
}
