package hex

import (
	"fmt"

	"github.com/vovakirdan/hexfall/internal/core"
)

// Group is the clockwise triple of pieces sharing one corner. It is a
// transient value: recompute it rather than keeping it across mutations of
// other slots.
type Group struct {
	Pieces [3]*Piece
	grid   *Grid
}

// Empty reports whether the group is missing any piece.
func (g Group) Empty() bool {
	return g.grid == nil || g.Pieces[0] == nil || g.Pieces[1] == nil || g.Pieces[2] == nil
}

// Matching reports whether all three pieces share a color.
func (g Group) Matching() bool {
	if g.Empty() {
		return false
	}
	c := g.Pieces[0].Color
	return g.Pieces[1].Color == c && g.Pieces[2].Color == c
}

// Contains reports whether p is part of the group.
func (g Group) Contains(p *Piece) bool {
	return p != nil && (g.Pieces[0] == p || g.Pieces[1] == p || g.Pieces[2] == p)
}

// IDs returns the piece IDs in clockwise order.
func (g Group) IDs() [3]PieceID {
	var ids [3]PieceID
	for i, p := range g.Pieces {
		if p != nil {
			ids[i] = p.ID
		}
	}
	return ids
}

// Centroid returns the average placement point of the three slots.
func (g Group) Centroid() core.Vec2 {
	var sum core.Vec2
	for _, p := range g.Pieces {
		sum = sum.Add(g.grid.PositionOf(p.Col, p.Row))
	}
	return sum.Scale(1.0 / 3.0)
}

// LoneOnRight reports whether the piece outside the vertical pair sits to
// the right of the pair.
func (g Group) LoneOnRight() bool {
	p1, p2, p3 := g.Pieces[0], g.Pieces[1], g.Pieces[2]
	switch {
	case p1.Col == p2.Col:
		return p3.Col > p1.Col
	case p2.Col == p3.Col:
		return p1.Col > p3.Col
	default:
		return p2.Col > p1.Col
	}
}

// RotateClockwise cycles the pieces n steps through the group's slots.
// Negative n rotates counterclockwise. Only occupancy changes; moving the
// pieces on screen is up to the caller.
func (g Group) RotateClockwise(n int) {
	if g.Empty() {
		panic(fmt.Sprintf("hex: rotate of empty group %v", g.Pieces))
	}
	n %= 3
	if n < 0 {
		n += 3
	}
	p1, p2, p3 := g.Pieces[0], g.Pieces[1], g.Pieces[2]
	first := p1.Coord()

	switch n {
	case 1:
		g.grid.SetSlot(p2.Col, p2.Row, p1)
		g.grid.SetSlot(p3.Col, p3.Row, p2)
		g.grid.SetSlot(first.Col, first.Row, p3)
	case 2:
		g.grid.SetSlot(p3.Col, p3.Row, p1)
		g.grid.SetSlot(p2.Col, p2.Row, p3)
		g.grid.SetSlot(first.Col, first.Row, p2)
	}
}

// GroupAt returns the group around corner c of the piece at (col, row).
// Corners that HandleEdge would redirect yield an empty group.
func (g *Grid) GroupAt(col, row int, c Corner) Group {
	if !g.InBounds(col, row) || g.HandleEdge(col, row, c) != c {
		return Group{}
	}

	x, y := col, row
	y2 := y
	if x%2 == 1 {
		y2 = y + 1
	}

	var cells [3]Coord
	switch c {
	case BottomLeft:
		cells = [3]Coord{{x, y}, {x, y - 1}, {x - 1, y2 - 1}}
	case BottomRight:
		cells = [3]Coord{{x, y}, {x + 1, y2 - 1}, {x, y - 1}}
	case Left:
		cells = [3]Coord{{x, y}, {x - 1, y2 - 1}, {x - 1, y2}}
	case Right:
		cells = [3]Coord{{x, y}, {x + 1, y2}, {x + 1, y2 - 1}}
	case TopLeft:
		cells = [3]Coord{{x, y}, {x - 1, y2}, {x, y + 1}}
	case TopRight:
		cells = [3]Coord{{x, y}, {x, y + 1}, {x + 1, y2}}
	default:
		return Group{}
	}

	grp := Group{grid: g}
	for i, cell := range cells {
		grp.Pieces[i] = g.At(cell.Col, cell.Row)
	}
	return grp
}
