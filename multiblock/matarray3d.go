package multiblock

import (
	"fmt"

	"github.com/flowsolve/gofvm/utils"
)

// MatMultiArray3D stores an LxL matrix block per interior cell, the main
// diagonal of the implicit operator. No ghost layers, physical indices only.
type MatMultiArray3D struct {
	ni, nj, nk, l int
	data          []float64
}

func NewMatMultiArray3D(ni, nj, nk, l int) (m *MatMultiArray3D) {
	m = &MatMultiArray3D{
		ni: ni, nj: nj, nk: nk, l: l,
		data: make([]float64, ni*nj*nk*l*l),
	}
	return
}

func (m *MatMultiArray3D) NumI() int    { return m.ni }
func (m *MatMultiArray3D) NumJ() int    { return m.nj }
func (m *MatMultiArray3D) NumK() int    { return m.nk }
func (m *MatMultiArray3D) NumVars() int { return m.l }

func (m *MatMultiArray3D) block(i, j, k int) []float64 {
	if i < 0 || j < 0 || k < 0 || i >= m.ni || j >= m.nj || k >= m.nk {
		panic(fmt.Errorf("index (%d,%d,%d) out of range for %dx%dx%d diagonal",
			i, j, k, m.ni, m.nj, m.nk))
	}
	ind := ((k*m.nj+j)*m.ni + i) * m.l * m.l
	return m.data[ind : ind+m.l*m.l]
}

// Insert overwrites the LxL block at (i,j,k), vals in row-major order
func (m *MatMultiArray3D) Insert(i, j, k int, vals []float64) {
	if len(vals) != m.l*m.l {
		panic(fmt.Errorf("block length mismatch: have %d, need %d", len(vals), m.l*m.l))
	}
	copy(m.block(i, j, k), vals)
}

// SetIdentity makes every cell block the identity matrix
func (m *MatMultiArray3D) SetIdentity() {
	for k := 0; k < m.nk; k++ {
		for j := 0; j < m.nj; j++ {
			for i := 0; i < m.ni; i++ {
				blk := m.block(i, j, k)
				for ii := range blk {
					blk[ii] = 0
				}
				for n := 0; n < m.l; n++ {
					blk[n*m.l+n] = 1
				}
			}
		}
	}
}

// MultiplyOnDiagonal scales the whole cell block at (i,j,k), the block
// sitting on the main diagonal of the implicit operator
func (m *MatMultiArray3D) MultiplyOnDiagonal(i, j, k int, factor float64) {
	blk := m.block(i, j, k)
	for ii := range blk {
		blk[ii] *= factor
	}
}

// AddOnDiagonal adds a scalar to the diagonal entries of the cell block
func (m *MatMultiArray3D) AddOnDiagonal(i, j, k int, val float64) {
	blk := m.block(i, j, k)
	for n := 0; n < m.l; n++ {
		blk[n*m.l+n] += val
	}
}

// Inverse replaces the cell block by its matrix inverse
func (m *MatMultiArray3D) Inverse(i, j, k int) (err error) {
	var (
		blk = m.block(i, j, k)
		A   = utils.NewMatrix(m.l, m.l, append([]float64{}, blk...))
		R   utils.Matrix
	)
	if R, err = A.Inverse(); err != nil {
		return
	}
	copy(blk, R.Data())
	return
}

// ArrayMult multiplies the cell block at (i,j,k) with vec
func (m *MatMultiArray3D) ArrayMult(i, j, k int, vec []float64) (R []float64) {
	var (
		blk = m.block(i, j, k)
		l   = m.l
	)
	if len(vec) != l {
		panic(fmt.Errorf("vector length mismatch: have %d, need %d", len(vec), l))
	}
	R = make([]float64, l)
	for r := 0; r < l; r++ {
		var sum float64
		for c := 0; c < l; c++ {
			sum += blk[r*l+c] * vec[c]
		}
		R[r] = sum
	}
	return
}
