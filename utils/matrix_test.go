package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixInverse(t *testing.T) {
	// A * Ainv = I
	{
		A := NewMatrix(3, 3, []float64{
			2, 0, 1,
			1, 3, 0,
			0, 1, 4,
		})
		Ainv, err := A.Inverse()
		assert.NoError(t, err)
		I := A.Mul(Ainv)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				var want float64
				if i == j {
					want = 1
				}
				assert.InDelta(t, want, I.At(i, j), 1.e-12)
			}
		}
	}
	// Inverse does not change the receiver
	{
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		_, err := A.Inverse()
		assert.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3, 4}, A.Data())
	}
	// Singular matrix errors
	{
		A := NewMatrix(2, 2, []float64{1, 2, 2, 4})
		_, err := A.Inverse()
		assert.Error(t, err)
	}
}

func TestMatrixOps(t *testing.T) {
	{
		A := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.Equal(t, []float64{14, 32}, A.MulVec([]float64{1, 2, 3}))
		assert.Panics(t, func() { A.MulVec([]float64{1, 2}) })

		At := A.Transpose()
		nr, nc := At.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 2, nc)
		assert.Equal(t, 4.0, At.At(0, 1))
	}
	{
		A := NewMatrix(2, 2, []float64{1, 0, 0, 1})
		B := A.Copy().Scale(3).Add(NewMatrix(2, 2, []float64{0, 1, 1, 0}))
		assert.Equal(t, []float64{3, 1, 1, 3}, B.Data())
		assert.Equal(t, []float64{1, 0, 0, 1}, A.Data()) // receiver untouched
	}
	{
		assert.Panics(t, func() { NewMatrix(2, 2, []float64{1, 2, 3}) })
	}
}

func TestPartitionMap(t *testing.T) {
	// Buckets cover the index range exactly with imbalance at most one
	for _, tc := range [][2]int{{4, 10}, {3, 3}, {5, 17}, {1, 7}, {6, 4}} {
		var (
			np, max = tc[0], tc[1]
			pm      = NewPartitionMap(np, max)
			next    = 0
		)
		for n := 0; n < np; n++ {
			kMin, kMax := pm.GetBucketRange(n)
			assert.Equal(t, next, kMin)
			assert.True(t, kMax >= kMin)
			assert.True(t, pm.GetBucketDimension(n) <= max/np+1)
			next = kMax
		}
		assert.Equal(t, max, next)
		assert.Equal(t, max, pm.GetBucketDimension(-1))
	}
}

func TestSparseMulVec(t *testing.T) {
	// DOK assembly, CSR apply
	A := NewDOK(3, 3)
	A.Set(0, 0, 2)
	A.Set(0, 2, 1)
	A.Set(1, 1, 3)
	A.Accumulate(2, 2, 4)
	A.Accumulate(2, 2, 0.5)
	R := A.ToCSR().MulVec([]float64{1, 2, 3})
	assert.Equal(t, []float64{5, 6, 13.5}, R)
}
