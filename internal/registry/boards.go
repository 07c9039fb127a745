package registry

// DefaultBoard is the variant used when none is given.
const DefaultBoard = "classic"

func init() {
	Register(Board{
		ID:          "classic",
		Title:       "Classic",
		Description: "The original 8x9 board with five colors",
		Width:       8,
		Height:      9,
		Colors:      5,
	})
	Register(Board{
		ID:          "compact",
		Title:       "Compact",
		Description: "A small board for quick games",
		Width:       6,
		Height:      7,
		Colors:      4,
	})
	Register(Board{
		ID:          "wide",
		Title:       "Wide",
		Description: "Twelve columns, room for long cascades",
		Width:       12,
		Height:      9,
		Colors:      5,
	})
	Register(Board{
		ID:          "prism",
		Title:       "Prism",
		Description: "Seven colors make every match count",
		Width:       8,
		Height:      9,
		Colors:      7,
	})
}
