package multiblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatMultiArray3D(t *testing.T) {
	// Identity, scaling and diagonal augmentation compose as expected
	{
		m := NewMatMultiArray3D(2, 1, 1, 2)
		m.SetIdentity()
		m.MultiplyOnDiagonal(0, 0, 0, 3)
		m.AddOnDiagonal(0, 0, 0, 0.5)
		assert.Equal(t, []float64{3.5, 7}, m.ArrayMult(0, 0, 0, []float64{1, 2}))
		// the second cell is untouched
		assert.Equal(t, []float64{1, 2}, m.ArrayMult(1, 0, 0, []float64{1, 2}))
	}
	// Inverse composed with ArrayMult recovers the input vector
	{
		m := NewMatMultiArray3D(1, 1, 1, 2)
		m.Insert(0, 0, 0, []float64{
			2, 1,
			1, 3,
		})
		y := m.ArrayMult(0, 0, 0, []float64{1, -1})
		assert.NoError(t, m.Inverse(0, 0, 0))
		x := m.ArrayMult(0, 0, 0, y)
		assert.InDelta(t, 1, x[0], 1.e-14)
		assert.InDelta(t, -1, x[1], 1.e-14)
	}
	// A singular block reports an error and leaves no NaNs behind
	{
		m := NewMatMultiArray3D(1, 1, 1, 2)
		m.Insert(0, 0, 0, []float64{
			1, 2,
			2, 4,
		})
		assert.Error(t, m.Inverse(0, 0, 0))
	}
	// Out of range and length mismatches panic
	{
		m := NewMatMultiArray3D(2, 2, 2, 1)
		assert.Panics(t, func() { m.ArrayMult(2, 0, 0, []float64{1}) })
		assert.Panics(t, func() { m.ArrayMult(0, -1, 0, []float64{1}) })
		assert.Panics(t, func() { m.ArrayMult(0, 0, 0, []float64{1, 2}) })
		assert.Panics(t, func() { m.Insert(0, 0, 0, []float64{1, 2}) })
	}
}
