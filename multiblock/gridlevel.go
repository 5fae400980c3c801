package multiblock

import (
	"fmt"
)

// GridLevel aggregates the blocks of one grid level, their main diagonals
// and the connection table used for ghost exchange. Owned by the outer
// driver, borrowed by the implicit solver.
type GridLevel struct {
	blocks      []*Block
	diagonals   []*MatMultiArray3D
	connections []Connection
}

func NewGridLevel(blocks []*Block, diagonals []*MatMultiArray3D,
	connections []Connection) (gl *GridLevel) {
	if len(blocks) != len(diagonals) {
		panic(fmt.Errorf("have %d blocks but %d diagonals", len(blocks), len(diagonals)))
	}
	for bb, blk := range blocks {
		d := diagonals[bb]
		if d.NumI() != blk.NumI() || d.NumJ() != blk.NumJ() ||
			d.NumK() != blk.NumK() || d.NumVars() != blk.NumVars() {
			panic(fmt.Errorf("diagonal %d does not match its block extents", bb))
		}
	}
	gl = &GridLevel{
		blocks:      blocks,
		diagonals:   diagonals,
		connections: connections,
	}
	return
}

func (gl *GridLevel) NumBlocks() int                 { return len(gl.blocks) }
func (gl *GridLevel) Block(bb int) *Block            { return gl.blocks[bb] }
func (gl *GridLevel) Diagonal(bb int) *MatMultiArray3D { return gl.diagonals[bb] }
func (gl *GridLevel) Connections() []Connection      { return gl.connections }
