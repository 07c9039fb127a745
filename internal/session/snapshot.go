package session

import (
	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/hex"
)

// PieceState is the model view of one piece.
type PieceState struct {
	ID        hex.PieceID
	Color     int
	Col, Row  int
	Pos       core.Vec2 // placement point of the slot
	Countdown int       // bomb countdown, 0 when unarmed
}

// Snapshot is a copy of the session's observable state.
type Snapshot struct {
	Phase        Phase
	Score        int
	Moves        int
	MaxCascade   int
	NextHazardAt int
	Colors       [][]int // [col][row]
	Hazards      []Hazard
	Selection    *Selection
}
