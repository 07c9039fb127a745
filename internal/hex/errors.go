package hex

import "errors"

var (
	// ErrInvalidSize is returned when a board is narrower or shorter than 2.
	ErrInvalidSize = errors.New("hex: board must be at least 2x2")
	// ErrTooFewColors is returned when fewer than 3 colors are requested.
	ErrTooFewColors = errors.New("hex: at least 3 colors are required")
	// ErrLayout is returned when a fixed color layout does not fit the board.
	ErrLayout = errors.New("hex: color layout does not match board")
)
