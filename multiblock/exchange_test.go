package multiblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fillLinear writes a value unique per (block, cell) into every interior cell
func fillLinear(a *MultiArray3D, base float64) {
	for kk := 0; kk < a.NumK(); kk++ {
		for jj := 0; jj < a.NumJ(); jj++ {
			for ii := 0; ii < a.NumI(); ii++ {
				v := a.At(ii, jj, kk)
				for e := range v {
					v[e] = base + float64((kk*a.NumJ()+jj)*a.NumI()+ii) + 0.01*float64(e)
				}
			}
		}
	}
}

func TestSwapImplicitUpdate(t *testing.T) {
	// All three face directions, two ghost layers
	for dir := 0; dir < 3; dir++ {
		var (
			lo = NewMultiArray3D(3, 3, 3, 2, 2)
			up = NewMultiArray3D(3, 3, 3, 2, 2)
			du = []*MultiArray3D{lo, up}
		)
		fillLinear(lo, 100)
		fillLinear(up, 200)
		conns := []Connection{{LowerBlock: 0, UpperBlock: 1, Dir: dir}}
		assert.NoError(t, SwapImplicitUpdate(du, conns, 0, 2))

		at := func(a *MultiArray3D, n, t1, t2 int) []float64 {
			switch dir {
			case 0:
				return a.At(n, t1, t2)
			case 1:
				return a.At(t2, n, t1)
			default:
				return a.At(t1, t2, n)
			}
		}
		for g := 0; g < 2; g++ {
			for t2 := 0; t2 < 3; t2++ {
				for t1 := 0; t1 < 3; t1++ {
					assert.Equal(t, at(up, g, t1, t2), at(lo, 3+g, t1, t2))
					assert.Equal(t, at(lo, 2-g, t1, t2), at(up, -1-g, t1, t2))
				}
			}
		}
	}
	// Interior cells are never written by the exchange
	{
		var (
			lo = NewMultiArray3D(2, 2, 2, 1, 1)
			up = NewMultiArray3D(2, 2, 2, 1, 1)
		)
		fillLinear(lo, 10)
		fillLinear(up, 20)
		want := lo.Copy()
		conns := []Connection{{LowerBlock: 0, UpperBlock: 1, Dir: 0}}
		assert.NoError(t, SwapImplicitUpdate([]*MultiArray3D{lo, up}, conns, 0, 1))
		for kk := 0; kk < 2; kk++ {
			for jj := 0; jj < 2; jj++ {
				for ii := 0; ii < 2; ii++ {
					assert.Equal(t, want.At(ii, jj, kk), lo.At(ii, jj, kk))
				}
			}
		}
	}
}

func TestSwapImplicitUpdateErrors(t *testing.T) {
	// Transverse extent mismatch
	{
		du := []*MultiArray3D{
			NewMultiArray3D(2, 3, 3, 1, 1),
			NewMultiArray3D(2, 2, 3, 1, 1),
		}
		err := SwapImplicitUpdate(du, []Connection{{LowerBlock: 0, UpperBlock: 1, Dir: 0}}, 0, 1)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "transverse extents differ")
	}
	// Connection referencing a missing block
	{
		du := []*MultiArray3D{NewMultiArray3D(2, 2, 2, 1, 1)}
		err := SwapImplicitUpdate(du, []Connection{{LowerBlock: 0, UpperBlock: 1, Dir: 0}}, 0, 1)
		assert.Error(t, err)
	}
	// Requesting more layers than the arrays store
	{
		du := []*MultiArray3D{
			NewMultiArray3D(2, 2, 2, 1, 1),
			NewMultiArray3D(2, 2, 2, 1, 1),
		}
		err := SwapImplicitUpdate(du, []Connection{{LowerBlock: 0, UpperBlock: 1, Dir: 0}}, 0, 2)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ghost storage")
	}
}
