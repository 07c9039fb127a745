package hex

// Generate fills the board with random colors such that no monochrome group
// exists, regenerating from scratch until the board is not deadlocked. It
// returns the number of boards built.
func (b *Board) Generate(src Source) int {
	for attempt := 1; ; attempt++ {
		b.clear()
		for x := 0; x < b.grid.width; x++ {
			for y := 0; y < b.grid.height; y++ {
				b.grid.SetSlot(x, y, b.newPiece(b.pickColor(src, x, y)))
			}
		}
		if !b.IsDeadlocked() {
			return attempt
		}
	}
}

// pickColor draws a color for (x, y) that does not complete a monochrome
// group with the pieces created before it. Creation runs column by column,
// bottom to top, so only the previous column and the slot below are filled.
func (b *Board) pickColor(src Source, x, y int) int {
	c := src.Intn(b.colors)
	for b.completesGroup(x, y, c) {
		c = (c + 1 + src.Intn(b.colors-1)) % b.colors
	}
	return c
}

func (b *Board) completesGroup(x, y, c int) bool {
	if x == 0 {
		return false
	}
	at := func(col, row int) bool {
		p := b.grid.At(col, row)
		return p != nil && p.Color == c
	}

	if x%2 == 0 {
		if y == 0 {
			return false
		}
		return (at(x, y-1) && at(x-1, y-1)) || (at(x-1, y-1) && at(x-1, y))
	}
	if y > 0 && at(x, y-1) && at(x-1, y) {
		return true
	}
	return y < b.grid.height-1 && at(x-1, y) && at(x-1, y+1)
}
