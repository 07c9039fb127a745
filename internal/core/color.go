package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for board and HUD elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// pieceColors is the palette piece color indices are drawn with.
var pieceColors = []Color{
	ColorRed,
	ColorGreen,
	ColorYellow,
	ColorBlue,
	ColorMagenta,
	ColorCyan,
	ColorOrange,
	ColorBrightWhite,
}

// MaxPieceColors is the number of distinct piece colors a board may use.
var MaxPieceColors = len(pieceColors)

// PieceColor maps a piece color index to its screen color.
func PieceColor(index int) Color {
	if index < 0 || index >= len(pieceColors) {
		return ColorGray
	}
	return pieceColors[index]
}
