// Package hex implements the hexfall board: brick-offset hex geometry, corner
// groups and their rotation, flood-fill match detection, deadlock search,
// board generation and gravity refills.
package hex

import (
	"fmt"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/hexfall/internal/pool"
)

// Source yields random color indices. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Board couples a Grid with the piece and match pools and the scratch state
// shared by match queries. A Board is owned by a single session and is not
// safe for concurrent use.
type Board struct {
	grid   *Grid
	colors int

	pieces  *pool.Pool[Piece]
	matches *pool.Pool[Match]
	visited *intmap.Map[PieceID, struct{}]
	lastID  PieceID
}

// NewBoard creates an empty board. Use Generate or Load to fill it.
func NewBoard(width, height, colors int) (*Board, error) {
	if colors < 3 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewColors, colors)
	}
	grid, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}

	b := &Board{
		grid:   grid,
		colors: colors,
		pieces: pool.New(
			pool.WithFactory(func() *Piece { return &Piece{handle: pool.NoHandle} }),
			pool.WithReset(resetPiece),
		),
		matches: pool.New(
			pool.WithFactory(func() *Match { return &Match{Pieces: make([]*Piece, 0, 8)} }),
			pool.WithReset(resetMatch),
		),
		visited: intmap.New[PieceID, struct{}](width * height),
	}
	b.pieces.Populate(width * height)
	return b, nil
}

// Grid returns the board's grid.
func (b *Board) Grid() *Grid {
	return b.grid
}

// ColorCount returns the number of piece colors in play.
func (b *Board) ColorCount() int {
	return b.colors
}

// PoolStats reports piece pool usage.
func (b *Board) PoolStats() pool.Stats {
	return b.pieces.Stats()
}

func (b *Board) newPiece(color int) *Piece {
	p, h := b.pieces.Acquire()
	b.lastID++
	p.ID = b.lastID
	p.Color = color
	p.handle = h
	return p
}

// Remove empties the slot holding p and returns p to the pool. p must not be
// used afterwards.
func (b *Board) Remove(p *Piece) {
	if b.grid.At(p.Col, p.Row) == p {
		b.grid.SetSlot(p.Col, p.Row, nil)
	}
	b.pieces.Release(p.handle)
}

func (b *Board) clear() {
	for x := 0; x < b.grid.width; x++ {
		for y := 0; y < b.grid.height; y++ {
			if p := b.grid.At(x, y); p != nil {
				b.Remove(p)
			}
		}
	}
}

// Load replaces the board contents with a fixed layout indexed [col][row].
// A negative color leaves the slot empty. No match or deadlock checks are
// applied.
func (b *Board) Load(layout [][]int) error {
	if len(layout) != b.grid.width {
		return fmt.Errorf("%w: %d columns for width %d", ErrLayout, len(layout), b.grid.width)
	}
	for x, col := range layout {
		if len(col) != b.grid.height {
			return fmt.Errorf("%w: column %d has %d rows for height %d", ErrLayout, x, len(col), b.grid.height)
		}
		for y, c := range col {
			if c >= b.colors {
				return fmt.Errorf("%w: color %d at (%d,%d) exceeds %d colors", ErrLayout, c, x, y, b.colors)
			}
		}
	}

	b.clear()
	for x, col := range layout {
		for y, c := range col {
			if c >= 0 {
				b.grid.SetSlot(x, y, b.newPiece(c))
			}
		}
	}
	return nil
}
