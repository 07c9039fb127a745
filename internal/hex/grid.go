package hex

import (
	"fmt"

	"github.com/vovakirdan/hexfall/internal/core"
)

// Column is one vertical strip of slots. base caches the placement point of
// row 0.
type Column struct {
	slots []*Piece
	base  core.Vec2
}

// Grid owns which piece sits in which slot. SetSlot is the only way to change
// occupancy, so a piece's Col/Row always agree with the slot holding it.
type Grid struct {
	width  int
	height int
	cols   []Column
}

// NewGrid creates an empty width x height grid.
func NewGrid(width, height int) (*Grid, error) {
	if width < 2 || height < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	g := &Grid{
		width:  width,
		height: height,
		cols:   make([]Column, width),
	}
	for x := range g.cols {
		g.cols[x] = Column{
			slots: make([]*Piece, height),
			base:  columnBase(x),
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.height
}

// Size returns the bounding box of the board in world units.
func (g *Grid) Size() core.Vec2 {
	return BoardSize(g.width, g.height)
}

// InBounds reports whether (col, row) addresses a slot.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.width && row >= 0 && row < g.height
}

// At returns the piece in a slot, or nil for an empty or out-of-range slot.
func (g *Grid) At(col, row int) *Piece {
	if !g.InBounds(col, row) {
		return nil
	}
	return g.cols[col].slots[row]
}

// SetSlot puts p (or nothing, when p is nil) into a slot and updates the
// piece's coordinate in the same step.
func (g *Grid) SetSlot(col, row int, p *Piece) {
	if !g.InBounds(col, row) {
		panic(fmt.Sprintf("hex: SetSlot(%d, %d) outside %dx%d grid", col, row, g.width, g.height))
	}
	g.cols[col].slots[row] = p
	if p != nil {
		p.Col, p.Row = col, row
	}
}

// PositionOf returns the placement point of a slot's center.
func (g *Grid) PositionOf(col, row int) core.Vec2 {
	base := columnBase(col)
	if col >= 0 && col < g.width {
		base = g.cols[col].base
	}
	return base.Add(core.V(0, float64(row)*PieceHeight))
}

// Adjacent reports whether two slots share an edge.
func (g *Grid) Adjacent(a, b Coord) bool {
	dx := b.Col - a.Col
	dy := b.Row - a.Row
	switch {
	case dx == 0:
		return dy == 1 || dy == -1
	case dx == 1 || dx == -1:
		// Odd columns sit half a row higher than even ones.
		if a.Col%2 == 0 {
			return dy == 0 || dy == -1
		}
		return dy == 0 || dy == 1
	default:
		return false
	}
}

// Each calls fn for every occupied slot, column by column, bottom to top.
func (g *Grid) Each(fn func(p *Piece)) {
	for x := range g.cols {
		for _, p := range g.cols[x].slots {
			if p != nil {
				fn(p)
			}
		}
	}
}

// Occupancy returns the piece IDs per slot, indexed [col][row]; 0 marks an
// empty slot.
func (g *Grid) Occupancy() [][]PieceID {
	out := make([][]PieceID, g.width)
	for x := range g.cols {
		out[x] = make([]PieceID, g.height)
		for y, p := range g.cols[x].slots {
			if p != nil {
				out[x][y] = p.ID
			}
		}
	}
	return out
}

// Colors returns the color per slot, indexed [col][row]; -1 marks an empty slot.
func (g *Grid) Colors() [][]int {
	out := make([][]int, g.width)
	for x := range g.cols {
		out[x] = make([]int, g.height)
		for y, p := range g.cols[x].slots {
			out[x][y] = -1
			if p != nil {
				out[x][y] = p.Color
			}
		}
	}
	return out
}

// Verify checks that every piece reports the slot it occupies.
func (g *Grid) Verify() error {
	for x := range g.cols {
		for y, p := range g.cols[x].slots {
			if p != nil && (p.Col != x || p.Row != y) {
				return fmt.Errorf("hex: piece %s stored at (%d,%d)", p, x, y)
			}
		}
	}
	return nil
}
