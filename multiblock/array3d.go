package multiblock

import (
	"fmt"
)

/*
	MultiArray3D stores an L-vector per cell over a logically-Cartesian block
	of (ni, nj, nk) physical cells surrounded by ng ghost layers. Physical
	cells are addressed 0..ni-1; ghost cells are reached with negative
	indices on the lower side and ni..ni+ng-1 on the upper side, matching
	the sweep code which walks across block faces without special cases.
*/
type MultiArray3D struct {
	ni, nj, nk, ng, l int
	data              []float64
}

func NewMultiArray3D(ni, nj, nk, ng, l int) (a *MultiArray3D) {
	var (
		di = ni + 2*ng
		dj = nj + 2*ng
		dk = nk + 2*ng
	)
	a = &MultiArray3D{
		ni: ni, nj: nj, nk: nk, ng: ng, l: l,
		data: make([]float64, di*dj*dk*l),
	}
	return
}

func (a *MultiArray3D) NumI() int      { return a.ni }
func (a *MultiArray3D) NumJ() int      { return a.nj }
func (a *MultiArray3D) NumK() int      { return a.nk }
func (a *MultiArray3D) NumGhosts() int { return a.ng }
func (a *MultiArray3D) NumVars() int   { return a.l }

func (a *MultiArray3D) index(i, j, k int) int {
	var (
		ii = i + a.ng
		jj = j + a.ng
		kk = k + a.ng
		di = a.ni + 2*a.ng
		dj = a.nj + 2*a.ng
	)
	if ii < 0 || jj < 0 || kk < 0 ||
		ii >= di || jj >= dj || kk >= a.nk+2*a.ng {
		panic(fmt.Errorf("index (%d,%d,%d) out of range for %dx%dx%d block with %d ghosts",
			i, j, k, a.ni, a.nj, a.nk, a.ng))
	}
	return ((kk*dj+jj)*di + ii) * a.l
}

// At returns the L-vector at (i,j,k) aliased to the underlying storage
func (a *MultiArray3D) At(i, j, k int) []float64 {
	ind := a.index(i, j, k)
	return a.data[ind : ind+a.l]
}

func (a *MultiArray3D) GetCopy(i, j, k int) (R []float64) {
	R = make([]float64, a.l)
	copy(R, a.At(i, j, k))
	return
}

func (a *MultiArray3D) Insert(i, j, k int, vals []float64) {
	if len(vals) != a.l {
		panic(fmt.Errorf("vector length mismatch: have %d, need %d", len(vals), a.l))
	}
	copy(a.At(i, j, k), vals)
}

func (a *MultiArray3D) Copy() (R *MultiArray3D) {
	R = NewMultiArray3D(a.ni, a.nj, a.nk, a.ng, a.l)
	copy(R.data, a.data)
	return
}

func (a *MultiArray3D) Zero() {
	for i := range a.data {
		a.data[i] = 0
	}
}

// SameShape reports whether two arrays agree in extents, ghosts and vector length
func (a *MultiArray3D) SameShape(b *MultiArray3D) bool {
	return a.ni == b.ni && a.nj == b.nj && a.nk == b.nk &&
		a.ng == b.ng && a.l == b.l
}
