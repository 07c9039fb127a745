// Package session runs a hexfall game: it owns the board, turns selections
// and swipes into rotations and drives the resolution state machine through
// matching, refills, cascades, bomb countdowns and deadlock detection. Every
// board mutation is followed by a batch of presentation commands, and the
// next phase waits until the presenter reports that batch as played.
package session

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/hex"
)

var (
	// ErrBusy is returned for input that arrives while a move resolves.
	ErrBusy = errors.New("session: busy")
	// ErrGameOver is returned for input after the session ended.
	ErrGameOver = errors.New("session: game over")
	// ErrNoSelection is returned when rotating without a selected group.
	ErrNoSelection = errors.New("session: no selection")
)

// Selection is the group highlighted for rotation.
type Selection struct {
	Col, Row int
	Corner   hex.Corner
	Pieces   [3]hex.PieceID
	Anchor   core.Vec2 // shared corner point, the rotation center
	OnRight  bool      // the piece outside the vertical pair is on the right
}

// Outcome summarizes one rotation request.
type Outcome struct {
	Matched  bool
	Steps    int // rotation steps played, 3 for a full spin
	Removed  int
	Gained   int
	Cascades int
	Defused  int
	Armed    int // bombs spawned during the move
	GameOver bool
	Reason   EndReason
}

// Session is a single game. Input methods may be called from any goroutine;
// Rotate and Swipe block until the move is fully resolved and presented.
type Session struct {
	mu sync.Mutex

	cfg       config.HexfallConfig
	board     *hex.Board
	rng       *rand.Rand
	colors    hex.Source
	presenter Presenter
	listener  Listener
	book      ScoreBook
	logger    *log.Logger
	seed      int64
	layout    [][]int

	phase      Phase
	busy       bool
	sel        *Selection
	score      int
	high       int
	moves      int
	maxCascade int
	nextHazard int
	hazards    hazardSet
	reason     EndReason
}

// New builds a session with a generated board, or the layout given by
// WithBoard.
func New(cfg config.HexfallConfig, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	s := &Session{
		cfg:       cfg,
		presenter: &Headless{},
		listener:  ListenerFuncs{},
		logger:    log.New(io.Discard),
		seed:      time.Now().UnixNano(),
		hazards:   newHazardSet(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rng = rand.New(rand.NewSource(s.seed))
	if s.colors == nil {
		s.colors = s.rng
	}

	board, err := hex.NewBoard(cfg.Board.Width, cfg.Board.Height, cfg.Board.Colors)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if s.layout != nil {
		if err := board.Load(s.layout); err != nil {
			return nil, fmt.Errorf("session: %w", err)
		}
	} else {
		attempts := board.Generate(s.rng)
		s.logger.Debug("board generated", "width", cfg.Board.Width, "height", cfg.Board.Height,
			"colors", cfg.Board.Colors, "attempts", attempts, "seed", s.seed)
	}
	s.board = board
	s.nextHazard = cfg.Hazard.Interval
	s.phase = Idle
	return s, nil
}

// Config returns the configuration the session was built with.
func (s *Session) Config() config.HexfallConfig {
	return s.cfg
}

// Seed returns the seed driving the session's randomness.
func (s *Session) Seed() int64 {
	return s.seed
}

// Bounds returns the board size in board units.
func (s *Session) Bounds() core.Vec2 {
	return hex.BoardSize(s.cfg.Board.Width, s.cfg.Board.Height)
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Score returns the current score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// HighScore returns the best score known when the session ended, or 0
// before that.
func (s *Session) HighScore() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.high
}

// Busy reports whether a move is being resolved.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Over reports whether the session has ended.
func (s *Session) Over() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase == GameOver
}

// Reason returns why the session ended.
func (s *Session) Reason() EndReason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}

// Selection returns the current selection, if any.
func (s *Session) Selection() (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel == nil {
		return Selection{}, false
	}
	return *s.sel, true
}

// Pieces returns every piece on the board, column by column.
func (s *Session) Pieces() []PieceState {
	s.mu.Lock()
	defer s.mu.Unlock()

	grid := s.board.Grid()
	out := make([]PieceState, 0, grid.Width()*grid.Height())
	grid.Each(func(p *hex.Piece) {
		ps := PieceState{
			ID:    p.ID,
			Color: p.Color,
			Col:   p.Col,
			Row:   p.Row,
			Pos:   grid.PositionOf(p.Col, p.Row),
		}
		if h, ok := s.hazards.get(p.ID); ok {
			ps.Countdown = h.Countdown
		}
		out = append(out, ps)
	})
	return out
}

// Hazards returns the armed bombs in arming order.
func (s *Session) Hazards() []Hazard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hazards.list()
}

// Moves lists the rotations that currently produce a match. It returns nil
// while a move is resolving.
func (s *Session) Moves() []hex.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy || s.phase == GameOver {
		return nil
	}
	return s.board.Moves()
}

// Snapshot returns a copy of the observable state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Phase:        s.phase,
		Score:        s.score,
		Moves:        s.moves,
		MaxCascade:   s.maxCascade,
		NextHazardAt: s.nextHazard,
		Colors:       s.board.Grid().Colors(),
		Hazards:      s.hazards.list(),
	}
	if s.sel != nil {
		sel := *s.sel
		snap.Selection = &sel
	}
	return snap
}

// Tap selects the group whose shared corner is nearest to p. A tap outside
// the board or on a corner without a full group clears the selection and
// returns false.
func (s *Session) Tap(p core.Vec2) (Selection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.acceptLocked(); err != nil {
		return Selection{}, false, err
	}

	s.setPhaseLocked(Selecting)
	ok := s.selectAtLocked(p)
	s.setPhaseLocked(Idle)
	if !ok {
		return Selection{}, false, nil
	}
	return *s.sel, true, nil
}

// Select selects the group at corner c of the piece at (col, row). Edge
// corners are redirected inward first.
func (s *Session) Select(col, row int, c hex.Corner) (Selection, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.acceptLocked(); err != nil {
		return Selection{}, false, err
	}

	s.setPhaseLocked(Selecting)
	ok := s.selectLocked(col, row, c)
	s.setPhaseLocked(Idle)
	if !ok {
		return Selection{}, false, nil
	}
	return *s.sel, true, nil
}

// ClearSelection hides the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = nil
}

// Swipe rotates the selected group in the direction of the drag from press
// to release around the selection's anchor: clockwise when the signed angle
// between the two is negative.
func (s *Session) Swipe(press, release core.Vec2) (Outcome, error) {
	s.mu.Lock()
	if err := s.acceptLocked(); err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	if s.sel == nil {
		s.mu.Unlock()
		return Outcome{}, ErrNoSelection
	}
	a := s.sel.Anchor
	clockwise := core.SignedAngle(press.Sub(a), release.Sub(a)) < 0
	s.busy = true
	s.mu.Unlock()

	return s.move(clockwise), nil
}

// Rotate rotates the selected group in the given direction.
func (s *Session) Rotate(clockwise bool) (Outcome, error) {
	s.mu.Lock()
	if err := s.acceptLocked(); err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	if s.sel == nil {
		s.mu.Unlock()
		return Outcome{}, ErrNoSelection
	}
	s.busy = true
	s.mu.Unlock()

	return s.move(clockwise), nil
}

func (s *Session) acceptLocked() error {
	switch {
	case s.phase == GameOver:
		return ErrGameOver
	case s.busy:
		return ErrBusy
	}
	return nil
}

func (s *Session) setPhaseLocked(p Phase) {
	if s.phase == p {
		return
	}
	s.logger.Debug("phase", "from", s.phase, "to", p)
	s.phase = p
}

func (s *Session) selectAtLocked(p core.Vec2) bool {
	col, row, c, ok := s.board.Grid().CornerAt(p)
	if !ok {
		s.sel = nil
		return false
	}
	return s.selectLocked(col, row, c)
}

func (s *Session) selectLocked(col, row int, c hex.Corner) bool {
	grid := s.board.Grid()
	if !grid.InBounds(col, row) {
		s.sel = nil
		return false
	}
	c = grid.HandleEdge(col, row, c)
	g := grid.GroupAt(col, row, c)
	if g.Empty() {
		s.sel = nil
		return false
	}
	s.sel = &Selection{
		Col:     col,
		Row:     row,
		Corner:  c,
		Pieces:  g.IDs(),
		Anchor:  g.Centroid(),
		OnRight: g.LoneOnRight(),
	}
	return true
}

// await blocks until the presenter has played b.
func (s *Session) await(b Batch) {
	if len(b.Commands) == 0 {
		return
	}
	<-s.presenter.Present(b)
}
