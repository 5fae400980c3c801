package implicit

import (
	"fmt"
	"runtime"

	"github.com/flowsolve/gofvm/InputParameters"
	"github.com/flowsolve/gofvm/multiblock"
	"github.com/flowsolve/gofvm/physics"
)

/*
	The implicit operator A of a first-order flux-jacobian stencil is block
	pentadiagonal over each block of the grid. Only the main diagonal is
	stored; the off-diagonal action is evaluated matrix-free during the
	sweeps. A is factored approximately as

		A ~ (D + L) * D^-1 * (D + U)

	and relaxed with symmetric Gauss-Seidel sweeps over hyperplanes (LU-SGS)
	or point-Jacobi sweeps (DP-LUR). The outer Newton / dual-time loop
	tolerates the approximation through defect correction, so no exact
	linear solve is attempted here.
*/
type LinearSolver interface {
	// InvertDiagonal folds the temporal, spectral-radius and relaxation
	// terms into the main diagonal and replaces each cell block by its
	// inverse. Called once per block per outer subiteration.
	InvertDiagonal(blk *multiblock.Block, inp *InputParameters.InputParameters,
		mainDiagonal *multiblock.MatMultiArray3D) error
	// InitializeMatrixUpdate seeds the update field for one block
	InitializeMatrixUpdate(blk *multiblock.Block, inp *InputParameters.InputParameters,
		phys physics.Models, aInv *multiblock.MatMultiArray3D) *multiblock.MultiArray3D
	// Relax runs the configured number of sweeps over all local blocks,
	// mutating du in place, and returns the accumulated L2 update-change
	Relax(level *multiblock.GridLevel, phys physics.Models,
		inp *InputParameters.InputParameters, rank, sweeps int,
		du []*multiblock.MultiArray3D) (float64, error)
}

// GhostSwapper is the transport that exchanges ghost update layers between
// blocks. The in-process implementation is multiblock.SwapImplicitUpdate; a
// distributed transport satisfies the same contract.
type GhostSwapper func(du []*multiblock.MultiArray3D,
	connections []multiblock.Connection, rank, numGhosts int) error

// SingularDiagonalError reports a non-invertible main-diagonal block. It
// aborts the subiteration; in practice the relaxation factor and the
// spectral-radius augmentation keep the diagonal dominant.
type SingularDiagonalError struct {
	I, J, K, BlockID int
}

func (e *SingularDiagonalError) Error() string {
	return fmt.Sprintf("singular main diagonal block at cell (%d,%d,%d) of block %d",
		e.I, e.J, e.K, e.BlockID)
}

func NewLinearSolver(solverType string, level *multiblock.GridLevel) (LinearSolver, error) {
	base := linearSolver{
		swap:           multiblock.SwapImplicitUpdate,
		parallelDegree: parallelDegree(level.NumBlocks()),
	}
	switch solverType {
	case "lusgs":
		return newLUSGS(base, level), nil
	case "dplur":
		return &dplur{linearSolver: base}, nil
	default:
		return nil, fmt.Errorf("unknown linear solver type %q", solverType)
	}
}

func parallelDegree(numBlocks int) (np int) {
	np = runtime.NumCPU()
	if np > numBlocks {
		np = numBlocks
	}
	if np < 1 {
		np = 1
	}
	return
}

// linearSolver carries the behavior shared by the solver variants
type linearSolver struct {
	swap           GhostSwapper
	parallelDegree int
}

func (ls *linearSolver) InvertDiagonal(blk *multiblock.Block,
	inp *InputParameters.InputParameters, mainDiagonal *multiblock.MatMultiArray3D) error {
	for kk := blk.StartK(); kk < blk.EndK(); kk++ {
		for jj := blk.StartJ(); jj < blk.EndJ(); jj++ {
			for ii := blk.StartI(); ii < blk.EndI(); ii++ {
				diagVolTime := blk.SolDeltaNCoeff(ii, jj, kk, inp)
				if inp.DualTimeCFL > 0 { // dual time stepping, equal to volume / tau
					diagVolTime += blk.SpectralRadius(ii, jj, kk).Max() / inp.DualTimeCFL
				}

				mainDiagonal.MultiplyOnDiagonal(ii, jj, kk, inp.MatrixRelaxation)
				mainDiagonal.AddOnDiagonal(ii, jj, kk, diagVolTime)
				if err := mainDiagonal.Inverse(ii, jj, kk); err != nil {
					return &SingularDiagonalError{I: ii, J: jj, K: kk, BlockID: blk.ID}
				}
			}
		}
	}
	return nil
}

func (ls *linearSolver) InitializeMatrixUpdate(blk *multiblock.Block,
	inp *InputParameters.InputParameters, phys physics.Models,
	aInv *multiblock.MatMultiArray3D) (x *multiblock.MultiArray3D) {
	x = multiblock.NewMultiArray3D(blk.NumI(), blk.NumJ(), blk.NumK(),
		blk.NumGhosts(), inp.NumVariables())

	if inp.MatrixRequiresInitialization() {
		for kk := blk.StartK(); kk < blk.EndK(); kk++ {
			for jj := blk.StartJ(); jj < blk.EndJ(); jj++ {
				for ii := blk.StartI(); ii < blk.EndI(); ii++ {
					x.Insert(ii, jj, kk,
						aInv.ArrayMult(ii, jj, kk, rhsTerms(blk, inp, phys, ii, jj, kk)))
				}
			}
		}
	}
	return
}

// rhsTerms builds the 'b' vector -R/theta + dNm1 - dMmN, which changes at
// the subiteration level
func rhsTerms(blk *multiblock.Block, inp *InputParameters.InputParameters,
	phys physics.Models, ii, jj, kk int) (b []float64) {
	var (
		thetaInv    = 1.0 / inp.Theta
		resid       = blk.Residual(ii, jj, kk)
		solDeltaNm1 = blk.SolDeltaNm1(ii, jj, kk, inp)
		solDeltaMmN = blk.SolDeltaMmN(ii, jj, kk, inp, phys)
	)
	b = make([]float64, len(resid))
	for e := range b {
		b[e] = -thetaInv*resid[e] + solDeltaNm1[e] - solDeltaMmN[e]
	}
	return
}
