package hex

import (
	"fmt"

	"github.com/vovakirdan/hexfall/internal/pool"
)

// PieceID identifies a piece for the lifetime of a board. IDs are never
// reused, even when the pool recycles the struct behind them.
type PieceID uint64

// Coord addresses a slot of the grid.
type Coord struct {
	Col, Row int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// Piece is a single hex on the board. Its color is fixed for its lifetime;
// Col and Row are written only by Grid.SetSlot.
type Piece struct {
	ID    PieceID
	Color int
	Col   int
	Row   int

	handle pool.Handle
}

// Coord returns the slot the piece occupies.
func (p *Piece) Coord() Coord {
	return Coord{Col: p.Col, Row: p.Row}
}

func (p *Piece) String() string {
	return fmt.Sprintf("#%d c%d %s", p.ID, p.Color, p.Coord())
}

func resetPiece(p *Piece) {
	*p = Piece{handle: pool.NoHandle}
}
