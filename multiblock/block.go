package multiblock

import (
	"github.com/flowsolve/gofvm/InputParameters"
	"github.com/flowsolve/gofvm/physics"
)

// SpectralRadii carries the per-direction spectral radius estimates of a cell
type SpectralRadii struct {
	I, J, K float64
}

func (sr SpectralRadii) Max() (max float64) {
	max = sr.I
	if sr.J > max {
		max = sr.J
	}
	if sr.K > max {
		max = sr.K
	}
	return
}

func (sr SpectralRadii) Dir(d int) float64 {
	switch d {
	case 0:
		return sr.I
	case 1:
		return sr.J
	default:
		return sr.K
	}
}

/*
	Block is one logically-Cartesian region of the multiblock grid as seen by
	the implicit solver. The outer driver assembles the residual, the
	subiteration deltas, the temporal coefficients and the spectral radii
	before each subiteration; the solver only reads them.

	Face geometry is uniform per direction within a block. The general metric
	terms live with the mesh machinery, outside this subsystem.
*/
type Block struct {
	ID                  int
	ni, nj, nk, ng, l   int
	State               *MultiArray3D // conservative variables, used to linearize the flux
	Resid               *MultiArray3D // physical residual R
	DeltaNm1            *MultiArray3D // previous physical step delta
	DeltaMmN            *MultiArray3D // current Newton subiteration delta
	VolOverDt           []float64     // V/dt per interior cell
	SpecRad             []SpectralRadii
	AreaI, AreaJ, AreaK [3]float64 // face area vectors per direction
}

func NewBlock(id, ni, nj, nk, ng, l int) (b *Block) {
	b = &Block{
		ID: id,
		ni: ni, nj: nj, nk: nk, ng: ng, l: l,
		State:     NewMultiArray3D(ni, nj, nk, ng, l),
		Resid:     NewMultiArray3D(ni, nj, nk, ng, l),
		DeltaNm1:  NewMultiArray3D(ni, nj, nk, ng, l),
		DeltaMmN:  NewMultiArray3D(ni, nj, nk, ng, l),
		VolOverDt: make([]float64, ni*nj*nk),
		SpecRad:   make([]SpectralRadii, ni*nj*nk),
		AreaI:     [3]float64{1, 0, 0},
		AreaJ:     [3]float64{0, 1, 0},
		AreaK:     [3]float64{0, 0, 1},
	}
	return
}

func (b *Block) NumI() int      { return b.ni }
func (b *Block) NumJ() int      { return b.nj }
func (b *Block) NumK() int      { return b.nk }
func (b *Block) NumGhosts() int { return b.ng }
func (b *Block) NumCells() int  { return b.ni * b.nj * b.nk }
func (b *Block) NumVars() int   { return b.l }

func (b *Block) StartI() int { return 0 }
func (b *Block) StartJ() int { return 0 }
func (b *Block) StartK() int { return 0 }
func (b *Block) EndI() int   { return b.ni }
func (b *Block) EndJ() int   { return b.nj }
func (b *Block) EndK() int   { return b.nk }

func (b *Block) cell(i, j, k int) int {
	return (k*b.nj+j)*b.ni + i
}

func (b *Block) Residual(i, j, k int) []float64 {
	return b.Resid.At(i, j, k)
}

func (b *Block) SolDeltaNm1(i, j, k int, inp *InputParameters.InputParameters) []float64 {
	return b.DeltaNm1.At(i, j, k)
}

func (b *Block) SolDeltaMmN(i, j, k int, inp *InputParameters.InputParameters,
	phys physics.Models) []float64 {
	return b.DeltaMmN.At(i, j, k)
}

// SolDeltaNCoeff is the V/dt coefficient of the temporal term
func (b *Block) SolDeltaNCoeff(i, j, k int, inp *InputParameters.InputParameters) float64 {
	return b.VolOverDt[b.cell(i, j, k)]
}

func (b *Block) SpectralRadius(i, j, k int) SpectralRadii {
	return b.SpecRad[b.cell(i, j, k)]
}

func (b *Block) area(d int) []float64 {
	switch d {
	case 0:
		return b.AreaI[:]
	case 1:
		return b.AreaJ[:]
	default:
		return b.AreaK[:]
	}
}

/*
	ImplicitLower and ImplicitUpper evaluate the matrix-free action of the
	off-diagonal blocks at (i,j,k):

		A*S*du = 0.5 * (dF(du)*S + K*du)

	summed over the three lower (upper) faces. The normal at a lower face is
	reversed, so lower contributions carry +K and are added to the RHS while
	upper contributions carry -K and are subtracted. Neighbor updates come
	from x, which holds already-updated interior cells or ghost values from
	the last exchange.
*/
func (b *Block) ImplicitLower(i, j, k int, x *MultiArray3D,
	phys physics.Models, inp *InputParameters.InputParameters) (R []float64) {
	return b.implicitAction(i, j, k, x, phys, -1)
}

func (b *Block) ImplicitUpper(i, j, k int, x *MultiArray3D,
	phys physics.Models, inp *InputParameters.InputParameters) (R []float64) {
	return b.implicitAction(i, j, k, x, phys, +1)
}

func (b *Block) implicitAction(i, j, k int, x *MultiArray3D,
	phys physics.Models, side int) (R []float64) {
	var (
		relax = phys.SpectralRadiusRelaxation()
		kSign = -float64(side) // +K for lower faces, -K for upper faces
		tmp   = make([]float64, b.l)
	)
	R = make([]float64, b.l)
	for d := 0; d < 3; d++ {
		ni, nj, nk := i, j, k
		switch d {
		case 0:
			ni += side
		case 1:
			nj += side
		case 2:
			nk += side
		}
		var (
			dqn = x.At(ni, nj, nk)
			qn  = b.State.At(ni, nj, nk)
			kf  = relax * b.SpectralRadius(i, j, k).Dir(d)
		)
		phys.ConvectiveFluxDelta(qn, dqn, b.area(d), tmp)
		for e := 0; e < b.l; e++ {
			R[e] += 0.5 * (tmp[e] + kSign*kf*dqn[e])
		}
	}
	return
}
