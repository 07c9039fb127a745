package hex

// IsDeadlocked reports whether no single group rotation by one or two steps
// produces a match. Every probed group is rotated back, so the board is
// unchanged on return.
func (b *Board) IsDeadlocked() bool {
	for x := 0; x < b.grid.width; x += 2 {
		for y := 0; y < b.grid.height; y++ {
			for _, c := range Corners {
				g := b.grid.GroupAt(x, y, c)
				if g.Empty() {
					continue
				}
				for step := 0; step < 2; step++ {
					g.RotateClockwise(1)
					if m := b.MatchAnyOf(g); m != nil {
						b.ReleaseMatch(m)
						g.RotateClockwise(2 - step)
						return false
					}
				}
				g.RotateClockwise(1)
			}
		}
	}
	return true
}

// Move is a single rotation that produces a match.
type Move struct {
	Col, Row  int
	Corner    Corner
	Clockwise bool
	Removed   int // size of the first match the rotation produces
}

// Moves lists every rotation of one or two clockwise steps that yields a
// match, in the same scan order IsDeadlocked uses. A clockwise rotation by
// two steps is reported as one counterclockwise step. The board is unchanged
// on return.
func (b *Board) Moves() []Move {
	var out []Move
	for x := 0; x < b.grid.width; x += 2 {
		for y := 0; y < b.grid.height; y++ {
			for _, c := range Corners {
				g := b.grid.GroupAt(x, y, c)
				if g.Empty() {
					continue
				}
				for step := 1; step <= 2; step++ {
					g.RotateClockwise(1)
					if m := b.MatchAnyOf(g); m != nil {
						mv := Move{Col: x, Row: y, Corner: c, Clockwise: step == 1, Removed: m.Len()}
						out = append(out, mv)
						b.ReleaseMatch(m)
					}
				}
				g.RotateClockwise(1)
			}
		}
	}
	return out
}
