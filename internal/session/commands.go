package session

import (
	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/hex"
)

// Command is one instruction to the presentation layer. The concrete types
// are Move, Rotate, Destroy, Spawn, Arm and Disarm.
type Command interface {
	command()
}

// Move slides a piece to a placement point.
type Move struct {
	Piece hex.PieceID
	To    core.Vec2
}

// Rotate turns three pieces around Anchor by Degrees (negative is
// clockwise); each piece ends on its entry in Targets.
type Rotate struct {
	Pieces  [3]hex.PieceID
	Anchor  core.Vec2
	Degrees float64
	Targets [3]core.Vec2
}

// Destroy removes a piece.
type Destroy struct {
	Piece hex.PieceID
}

// Spawn creates a piece at a start point, usually above the board. A Move
// for the same piece follows in the same batch.
type Spawn struct {
	Piece hex.PieceID
	Color int
	At    core.Vec2
}

// Arm attaches a bomb to a piece or updates its countdown.
type Arm struct {
	Piece     hex.PieceID
	Countdown int
}

// Disarm removes the bomb from a piece.
type Disarm struct {
	Piece hex.PieceID
}

func (Move) command()    {}
func (Rotate) command()  {}
func (Destroy) command() {}
func (Spawn) command()   {}
func (Arm) command()     {}
func (Disarm) command()  {}

// Batch is the ordered list of commands emitted by one phase.
type Batch struct {
	Phase    Phase
	Commands []Command
}

// Presenter plays command batches. Present must close the returned channel
// once every command in the batch has finished; the session does not start
// the next phase before that.
type Presenter interface {
	Present(b Batch) <-chan struct{}
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Headless completes every batch immediately. Set Record to keep a copy of
// the batches, which tests and the simulator inspect.
type Headless struct {
	Record  bool
	Batches []Batch
}

// Present implements Presenter.
func (h *Headless) Present(b Batch) <-chan struct{} {
	if h.Record {
		h.Batches = append(h.Batches, b)
	}
	return closedDone
}

// Phases returns the phase of every recorded batch.
func (h *Headless) Phases() []Phase {
	out := make([]Phase, len(h.Batches))
	for i, b := range h.Batches {
		out[i] = b.Phase
	}
	return out
}
