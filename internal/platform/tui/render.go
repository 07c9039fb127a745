package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/hex"
	"github.com/vovakirdan/hexfall/internal/session"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Board units to terminal cells. A column pitch of 0.75 becomes 3 cells and
// a piece height becomes 2 rows, so odd columns sit exactly one row higher.
const (
	cellsPerUnit = 4.0
	rowsPerPiece = 2.0
	hudRows      = 3
)

// layout places the board on the screen.
type layout struct {
	ox, oy int // cell of board point (0, top)
	size   core.Vec2
	frame  core.Rect
}

func newLayout(screenW int, size core.Vec2) layout {
	w := int(math.Round(size.X * cellsPerUnit))
	h := int(math.Round(size.Y / hex.PieceHeight * rowsPerPiece))
	ox := (screenW - w) / 2
	if ox < 1 {
		ox = 1
	}
	oy := hudRows + 1
	return layout{
		ox:    ox,
		oy:    oy,
		size:  size,
		frame: core.NewRect(ox-1, oy-1, w+2, h+2),
	}
}

// toCell maps a board point to a screen cell.
func (l layout) toCell(p core.Vec2) (x, y int) {
	x = l.ox + int(math.Round(p.X*cellsPerUnit))
	y = l.oy + int(math.Round((l.size.Y-p.Y)/hex.PieceHeight*rowsPerPiece))
	return x, y
}

// toBoard maps the center of a screen cell to a board point.
func (l layout) toBoard(x, y int) core.Vec2 {
	return core.V(
		float64(x-l.ox)/cellsPerUnit,
		l.size.Y-float64(y-l.oy)/rowsPerPiece*hex.PieceHeight,
	)
}

// inside reports whether a cell lies strictly inside the board frame.
func (l layout) inside(x, y int) bool {
	f := l.frame
	return x > f.X && x < f.Right()-1 && y > f.Y && y < f.Bottom()-1
}

// numbers groups digits in HUD figures.
var numbers = message.NewPrinter(language.English)

// hud is everything drawn around the board.
type hud struct {
	title  string
	score  int
	high   int
	moves  int
	bombs  int
	status string
	over   bool
}

// drawGame renders the board, sprites, selection and HUD.
func drawGame(scr *core.Screen, l layout, sprites map[hex.PieceID]*Sprite, sel *session.Selection, h hud) {
	scr.Clear()

	scr.DrawText(1, 0, "HEXFALL", core.ColorBrightCyan)
	if h.title != "" {
		scr.DrawText(9, 0, "· "+h.title, core.ColorGray)
	}
	stats := numbers.Sprintf("Score %d  Best %d  Moves %d", h.score, h.high, h.moves)
	scr.DrawText(scr.Width()-len(stats)-1, 0, stats, core.ColorBrightWhite)
	if h.bombs > 0 {
		scr.DrawText(1, 1, fmt.Sprintf("Bombs %d", h.bombs), core.ColorBrightRed)
	}
	if h.status != "" {
		scr.DrawTextCentered(1, h.status, core.ColorYellow)
	}

	scr.DrawBox(l.frame, core.ColorGray)

	selected := make(map[hex.PieceID]bool, 3)
	if sel != nil {
		for _, id := range sel.Pieces {
			selected[id] = true
		}
	}

	for _, sp := range sprites {
		x, y := l.toCell(sp.Pos)
		if !l.inside(x, y) {
			continue
		}
		r := '⬢'
		color := core.PieceColor(sp.Color)
		switch {
		case sp.Fading:
			r = '·'
		case selected[sp.ID]:
			r = '⬡'
		}
		scr.SetCell(x, y, r, color)
		if sp.Countdown > 0 && !sp.Fading {
			scr.SetCell(x+1, y, countdownRune(sp.Countdown), core.ColorBrightRed)
		}
	}

	if sel != nil {
		x, y := l.toCell(sel.Anchor)
		if l.inside(x, y) {
			scr.SetCell(x, y, '+', core.ColorBrightWhite)
		}
	}

	if h.over {
		y := l.frame.Y + l.frame.H/2
		scr.DrawTextCentered(y-1, " GAME OVER ", core.ColorBrightRed)
		scr.DrawTextCentered(y, numbers.Sprintf(" Final %d  Best %d ", h.score, h.high), core.ColorBrightWhite)
		scr.DrawTextCentered(y+1, " R: restart  Esc: quit ", core.ColorGray)
	}
}

func countdownRune(n int) rune {
	if n > 9 {
		return '*'
	}
	return rune('0' + n)
}
