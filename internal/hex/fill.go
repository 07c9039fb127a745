package hex

import "github.com/vovakirdan/hexfall/internal/core"

// Drop records a piece that fell to a lower slot of its column.
type Drop struct {
	Piece *Piece
	From  Coord
}

// Spawn records a new piece created to fill the top of a column. Start is a
// point above the board from which it falls into place.
type Spawn struct {
	Piece *Piece
	Start core.Vec2
}

// Refill is the outcome of FillBlanks.
type Refill struct {
	Drops  []Drop
	Spawns []Spawn
}

// Empty reports whether nothing moved or spawned.
func (r Refill) Empty() bool {
	return len(r.Drops) == 0 && len(r.Spawns) == 0
}

// FillBlanks lets pieces fall into the empty slots below them, keeping their
// order, then tops up every column with new pieces of unconstrained random
// color. Columns are processed left to right, slots bottom to top.
func (b *Board) FillBlanks(src Source) Refill {
	var out Refill
	h := b.grid.height
	for x := 0; x < b.grid.width; x++ {
		write := 0
		for read := 0; read < h; read++ {
			p := b.grid.At(x, read)
			if p == nil {
				continue
			}
			if read != write {
				b.grid.SetSlot(x, read, nil)
				b.grid.SetSlot(x, write, p)
				out.Drops = append(out.Drops, Drop{Piece: p, From: Coord{Col: x, Row: read}})
			}
			write++
		}

		for y := write; y < h; y++ {
			p := b.newPiece(src.Intn(b.colors))
			b.grid.SetSlot(x, y, p)
			// Stack new pieces above the board in the order they will land.
			start := b.grid.PositionOf(x, h+y-write)
			out.Spawns = append(out.Spawns, Spawn{Piece: p, Start: start})
		}
	}
	return out
}
