package multiblock

import (
	"fmt"
)

/*
	Connection describes one matched-face interface between two local blocks:
	the upper face of LowerBlock in direction Dir abuts the lower face of
	UpperBlock. Both blocks must agree in the two transverse extents. General
	orientation changes between blocks belong to the mesh connectivity layer,
	not to this subsystem.
*/
type Connection struct {
	LowerBlock, UpperBlock int
	Dir                    int // 0, 1, 2 for I, J, K
}

/*
	SwapImplicitUpdate is the collective ghost exchange between sweeps: for
	every connection, the outermost numGhosts interior layers of each side
	are copied into the ghost layers of the other side. All local blocks
	live in this process; rank is carried so a distributed transport can
	implement the same contract.
*/
func SwapImplicitUpdate(du []*MultiArray3D, connections []Connection,
	rank, numGhosts int) error {
	for _, conn := range connections {
		if conn.LowerBlock < 0 || conn.LowerBlock >= len(du) ||
			conn.UpperBlock < 0 || conn.UpperBlock >= len(du) {
			return fmt.Errorf("connection references block %d/%d, have %d blocks",
				conn.LowerBlock, conn.UpperBlock, len(du))
		}
		var (
			lo = du[conn.LowerBlock]
			up = du[conn.UpperBlock]
		)
		if err := swapFace(lo, up, conn.Dir, numGhosts); err != nil {
			return fmt.Errorf("connection %d->%d dir %d: %w",
				conn.LowerBlock, conn.UpperBlock, conn.Dir, err)
		}
	}
	return nil
}

func swapFace(lo, up *MultiArray3D, dir, numGhosts int) error {
	var (
		nLo  = extent(lo, dir)
		t1Lo = extent(lo, (dir+1)%3)
		t2Lo = extent(lo, (dir+2)%3)
		t1Up = extent(up, (dir+1)%3)
		t2Up = extent(up, (dir+2)%3)
	)
	if t1Lo != t1Up || t2Lo != t2Up {
		return fmt.Errorf("transverse extents differ: %dx%d vs %dx%d", t1Lo, t2Lo, t1Up, t2Up)
	}
	if numGhosts > lo.NumGhosts() || numGhosts > up.NumGhosts() {
		return fmt.Errorf("exchange of %d layers exceeds ghost storage", numGhosts)
	}
	for g := 0; g < numGhosts; g++ {
		for t2 := 0; t2 < t2Lo; t2++ {
			for t1 := 0; t1 < t1Lo; t1++ {
				// upper ghost of the lower block gets the upper block interior
				i, j, k := faceIndex(dir, nLo+g, t1, t2)
				si, sj, sk := faceIndex(dir, g, t1, t2)
				copy(lo.At(i, j, k), up.At(si, sj, sk))
				// lower ghost of the upper block gets the lower block interior
				i, j, k = faceIndex(dir, -1-g, t1, t2)
				si, sj, sk = faceIndex(dir, nLo-1-g, t1, t2)
				copy(up.At(i, j, k), lo.At(si, sj, sk))
			}
		}
	}
	return nil
}

func extent(a *MultiArray3D, dir int) int {
	switch dir {
	case 0:
		return a.NumI()
	case 1:
		return a.NumJ()
	default:
		return a.NumK()
	}
}

// faceIndex maps (normal, transverse1, transverse2) back to (i,j,k)
func faceIndex(dir, n, t1, t2 int) (i, j, k int) {
	switch dir {
	case 0:
		return n, t1, t2
	case 1:
		return t2, n, t1
	default:
		return t1, t2, n
	}
}
