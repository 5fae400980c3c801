package implicit

import (
	"fmt"
	"sync"

	"github.com/flowsolve/gofvm/InputParameters"
	"github.com/flowsolve/gofvm/multiblock"
	"github.com/flowsolve/gofvm/physics"
	"github.com/flowsolve/gofvm/utils"
)

// IJK is one cell of a reorder table
type IJK struct {
	I, J, K int
}

/*
	HyperplaneReorder produces a permutation of block cell indices ordered by
	the hyperplanes i+j+k = const, ascending. On the forward sweep every
	lower neighbor of a visited cell lies on an earlier hyperplane and has
	already been updated this sweep, so the action of L uses n+1/2 values
	with no stored lower triangle; the reverse traversal gives U the same
	property on the backward sweep. Ties within a hyperplane break in
	natural k, then j order.
*/
func HyperplaneReorder(ni, nj, nk int) (reorder []IJK) {
	reorder = make([]IJK, 0, ni*nj*nk)
	for s := 0; s <= ni+nj+nk-3; s++ {
		for k := 0; k < nk; k++ {
			for j := 0; j < nj; j++ {
				i := s - j - k
				if i >= 0 && i < ni {
					reorder = append(reorder, IJK{I: i, J: j, K: k})
				}
			}
		}
	}
	return
}

type lusgs struct {
	linearSolver
	reorder [][]IJK // one table per block, built once at construction
}

func newLUSGS(base linearSolver, level *multiblock.GridLevel) (s *lusgs) {
	s = &lusgs{
		linearSolver: base,
		reorder:      make([][]IJK, level.NumBlocks()),
	}
	for bb := 0; bb < level.NumBlocks(); bb++ {
		blk := level.Block(bb)
		s.reorder[bb] = HyperplaneReorder(blk.NumI(), blk.NumJ(), blk.NumK())
	}
	return
}

func (s *lusgs) forward(blk *multiblock.Block, reorder []IJK,
	phys physics.Models, inp *InputParameters.InputParameters,
	aInv *multiblock.MatMultiArray3D, sweep int, x *multiblock.MultiArray3D) {
	for nn := 0; nn < blk.NumCells(); nn++ {
		var (
			ii = reorder[nn].I
			jj = reorder[nn].J
			kk = reorder[nn].K
		)
		// lower and upper off diagonals computed on the fly; the normal at
		// lower faces is reversed, so L is added instead of subtracted
		offDiagonal := blk.ImplicitLower(ii, jj, kk, x, phys, inp)
		if sweep > 0 || inp.MatrixRequiresInitialization() {
			U := blk.ImplicitUpper(ii, jj, kk, x, phys, inp)
			for e := range offDiagonal {
				offDiagonal[e] -= U[e]
			}
		}

		b := rhsTerms(blk, inp, phys, ii, jj, kk)
		for e := range b {
			b[e] += offDiagonal[e]
		}
		x.Insert(ii, jj, kk, aInv.ArrayMult(ii, jj, kk, b))
	}
}

func (s *lusgs) backward(blk *multiblock.Block, reorder []IJK,
	phys physics.Models, inp *InputParameters.InputParameters,
	aInv *multiblock.MatMultiArray3D, sweep int,
	x *multiblock.MultiArray3D) (l2Error float64) {
	for nn := blk.NumCells() - 1; nn >= 0; nn-- {
		var (
			ii = reorder[nn].I
			jj = reorder[nn].J
			kk = reorder[nn].K
		)
		U := blk.ImplicitUpper(ii, jj, kk, x, phys, inp)

		xold := x.GetCopy(ii, jj, kk)
		if sweep > 0 || inp.MatrixRequiresInitialization() {
			L := blk.ImplicitLower(ii, jj, kk, x, phys, inp)
			b := rhsTerms(blk, inp, phys, ii, jj, kk)
			for e := range b {
				b[e] += L[e] - U[e]
			}
			x.Insert(ii, jj, kk, aInv.ArrayMult(ii, jj, kk, b))
		} else {
			// on sweep zero of an uninitialized update the forward result
			// already holds b*Ainv, only the upper term is new
			corr := aInv.ArrayMult(ii, jj, kk, U)
			xnew := x.At(ii, jj, kk)
			for e := range xnew {
				xnew[e] = xold[e] - corr[e]
			}
		}
		xnew := x.At(ii, jj, kk)
		for e := range xnew {
			diff := xnew[e] - xold[e]
			l2Error += diff * diff
		}
	}
	return
}

func (s *lusgs) Relax(level *multiblock.GridLevel, phys physics.Models,
	inp *InputParameters.InputParameters, rank, sweeps int,
	du []*multiblock.MultiArray3D) (matrixError float64, err error) {
	if level.NumBlocks() != len(du) {
		panic(fmt.Errorf("have %d blocks but %d update arrays", level.NumBlocks(), len(du)))
	}
	if len(du) != len(s.reorder) {
		panic(fmt.Errorf("have %d update arrays but %d reorder tables", len(du), len(s.reorder)))
	}
	if sweeps <= 0 {
		return
	}

	var (
		numG = level.Block(0).NumGhosts()
		pm   = utils.NewPartitionMap(s.parallelDegree, level.NumBlocks())
		errs = make([]float64, s.parallelDegree)
		wg   sync.WaitGroup
	)
	for ii := 0; ii < sweeps; ii++ {
		if err = s.swap(du, level.Connections(), rank, numG); err != nil {
			return
		}

		// per-block forward sweeps only read their own ghost snapshot, so
		// blocks relax concurrently between exchanges
		for np := 0; np < s.parallelDegree; np++ {
			wg.Add(1)
			go func(np int) {
				defer wg.Done()
				bMin, bMax := pm.GetBucketRange(np)
				for bb := bMin; bb < bMax; bb++ {
					s.forward(level.Block(bb), s.reorder[bb], phys, inp,
						level.Diagonal(bb), ii, du[bb])
				}
			}(np)
		}
		wg.Wait()

		if err = s.swap(du, level.Connections(), rank, numG); err != nil {
			return
		}

		for np := 0; np < s.parallelDegree; np++ {
			wg.Add(1)
			go func(np int) {
				defer wg.Done()
				bMin, bMax := pm.GetBucketRange(np)
				for bb := bMin; bb < bMax; bb++ {
					errs[np] += s.backward(level.Block(bb), s.reorder[bb], phys, inp,
						level.Diagonal(bb), ii, du[bb])
				}
			}(np)
		}
		wg.Wait()
	}
	for _, e := range errs {
		matrixError += e
	}
	return
}
