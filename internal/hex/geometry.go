package hex

import (
	"math"

	"github.com/vovakirdan/hexfall/internal/core"
)

// Board geometry in world units. Pieces are flat-top hexagons laid out in
// columns; neighbouring columns overlap by a quarter of a piece and odd
// columns sit half a piece higher than even ones.
const (
	PieceWidth  = 1.0
	PieceHeight = PieceWidth * 0.866025

	columnPitch  = PieceWidth * 0.75
	columnInset  = PieceWidth * 0.25
	halfHeight   = PieceHeight * 0.5
	quarterWidth = PieceWidth * 0.25
	halfWidth    = PieceWidth * 0.5
)

// Corner names one of the six corners of a hex piece. Every corner is shared
// by three pieces, which together form the Group at that corner.
type Corner int

const (
	BottomLeft Corner = iota
	Left
	TopLeft
	TopRight
	Right
	BottomRight
)

// Corners lists every corner in scan order.
var Corners = [6]Corner{BottomLeft, Left, TopLeft, TopRight, Right, BottomRight}

func (c Corner) String() string {
	switch c {
	case BottomLeft:
		return "BottomLeft"
	case Left:
		return "Left"
	case TopLeft:
		return "TopLeft"
	case TopRight:
		return "TopRight"
	case Right:
		return "Right"
	case BottomRight:
		return "BottomRight"
	default:
		return "Unknown"
	}
}

// Next returns the following corner in scan order, wrapping around.
func (c Corner) Next() Corner {
	return Corner((int(c) + 1) % len(Corners))
}

// Offset returns the position of the corner relative to its piece center.
func (c Corner) Offset() core.Vec2 {
	switch c {
	case BottomLeft:
		return core.V(-quarterWidth, -halfHeight)
	case Left:
		return core.V(-halfWidth, 0)
	case TopLeft:
		return core.V(-quarterWidth, halfHeight)
	case TopRight:
		return core.V(quarterWidth, halfHeight)
	case Right:
		return core.V(halfWidth, 0)
	default:
		return core.V(quarterWidth, -halfHeight)
	}
}

// BoardSize returns the bounding box of a width x height board.
func BoardSize(width, height int) core.Vec2 {
	return core.V(
		float64(width)*PieceWidth-float64(width-1)*columnInset,
		float64(height)*PieceHeight+halfHeight,
	)
}

// columnBase is the center of the bottom piece of column col.
func columnBase(col int) core.Vec2 {
	y := halfHeight
	if col%2 == 1 {
		y = PieceHeight
	}
	return core.V(halfWidth+float64(col)*columnPitch, y)
}

// ClosestCorner picks the corner nearest to local, a point relative to the
// piece center. The comparison order below decides ties and HandleEdge
// relies on it.
func ClosestCorner(local core.Vec2) Corner {
	left := local.X < 0
	sx := quarterWidth
	mx := halfWidth
	if left {
		sx, mx = -sx, -mx
	}

	d1 := local.Sub(core.V(sx, -halfHeight)).LenSq()
	d2 := local.Sub(core.V(mx, 0)).LenSq()
	d3 := local.Sub(core.V(sx, halfHeight)).LenSq()

	if d1 < d2 {
		if d1 < d3 {
			return pick(left, BottomLeft, BottomRight)
		}
		return pick(left, TopLeft, TopRight)
	}
	if d2 < d3 {
		return pick(left, Left, Right)
	}
	return pick(left, TopLeft, TopRight)
}

func pick(left bool, l, r Corner) Corner {
	if left {
		return l
	}
	return r
}

// CellAt maps a board-space point to the piece whose cell contains it.
// Points on or outside the bounding box are rejected.
func (g *Grid) CellAt(p core.Vec2) (col, row int, ok bool) {
	size := g.Size()
	if p.X <= 0 || p.X >= size.X || p.Y <= 0 || p.Y >= size.Y {
		return 0, 0, false
	}

	col = int(math.RoundToEven((p.X - halfWidth) / columnPitch))
	col = core.Clamp(col, 0, g.width-1)

	y := p.Y
	if col%2 == 1 {
		y -= halfHeight
	}
	row = core.Clamp(int(y/PieceHeight), 0, g.height-1)
	return col, row, true
}

// CornerAt resolves a point to a piece and its nearest corner, with the
// corner already corrected for the board edges.
func (g *Grid) CornerAt(p core.Vec2) (col, row int, c Corner, ok bool) {
	col, row, ok = g.CellAt(p)
	if !ok {
		return 0, 0, 0, false
	}
	local := p.Sub(g.PositionOf(col, row))
	c = g.HandleEdge(col, row, ClosestCorner(local))
	return col, row, c, true
}

// HandleEdge redirects corners that point off the board to the nearest
// corner whose group lies fully inside it.
func (g *Grid) HandleEdge(col, row int, c Corner) Corner {
	switch {
	case col == 0:
		switch c {
		case BottomLeft:
			c = BottomRight
		case Left:
			c = Right
		case TopLeft:
			c = TopRight
		}
	case col == g.width-1:
		switch c {
		case BottomRight:
			c = BottomLeft
		case Right:
			c = Left
		case TopRight:
			c = TopLeft
		}
	}

	switch {
	case row == 0:
		switch c {
		case BottomLeft:
			c = Left
		case BottomRight:
			c = Right
		}
		// Even columns sit lower, so their side corners at the bottom row
		// have no neighbour below either.
		if col%2 == 0 {
			switch c {
			case Left:
				c = TopLeft
			case Right:
				c = TopRight
			}
		}
	case row == g.height-1:
		switch c {
		case TopLeft:
			c = Left
		case TopRight:
			c = Right
		}
		if col%2 == 1 {
			switch c {
			case Left:
				c = BottomLeft
			case Right:
				c = BottomRight
			}
		}
	}
	return c
}
