package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/hex"
)

func stripes(w, h int) [][]int {
	out := make([][]int, w)
	for x := range out {
		out[x] = make([]int, h)
		for y := range out[x] {
			out[x][y] = 1 + (x+y)%3
		}
	}
	return out
}

type fixedSource struct {
	values []int
	i      int
}

func (f *fixedSource) Intn(n int) int {
	v := f.values[f.i%len(f.values)]
	f.i++
	return v % n
}

type recorder struct {
	mu     sync.Mutex
	scores []int
	final  int
	high   int
	ended  int
}

func (r *recorder) ScoreChanged(score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = append(r.scores, score)
}

func (r *recorder) GameOver(final, high int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.final, r.high = final, high
	r.ended++
}

type memoryBook struct {
	best int
	runs []RunSummary
}

func (b *memoryBook) HighScore() (int, error) {
	return b.best, nil
}

func (b *memoryBook) Record(run RunSummary) error {
	b.runs = append(b.runs, run)
	if run.Score > b.best {
		b.best = run.Score
	}
	return nil
}

func testConfig(w, h, colors int) config.HexfallConfig {
	cfg := config.DefaultHexfallConfig()
	cfg.Board = config.BoardConfig{Width: w, Height: h, Colors: colors}
	return cfg
}

// swipeBoard is an 8x9 striped board where rotating the top-right group of
// (2,4) clockwise once moves the color 0 piece at (2,5) onto (3,4), completing
// the triangle (3,4) (3,5) (4,5).
func swipeBoard() [][]int {
	layout := stripes(8, 9)
	layout[2][5] = 0
	layout[3][5] = 0
	layout[4][5] = 0
	return layout
}

// swipeRefill colors the three pieces spawned after the swipeBoard match so
// that nothing cascades.
func swipeRefill() hex.Source {
	return &fixedSource{values: []int{0, 3, 0}}
}

func newSwipeSession(t *testing.T, cfg config.HexfallConfig, opts ...Option) (*Session, *Headless) {
	t.Helper()
	pres := &Headless{Record: true}
	opts = append([]Option{
		WithBoard(swipeBoard()),
		WithColorSource(swipeRefill()),
		WithPresenter(pres),
		WithSeed(7),
	}, opts...)
	s, err := New(cfg, opts...)
	require.NoError(t, err)
	return s, pres
}

func TestNewGeneratesPlayableBoard(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 42} {
		s, err := New(config.DefaultHexfallConfig(), WithSeed(seed))
		require.NoError(t, err)

		assert.Equal(t, Idle, s.Phase())
		assert.Empty(t, s.board.AllMatches(), "seed %d", seed)
		assert.False(t, s.board.IsDeadlocked(), "seed %d", seed)
		assert.Len(t, s.Pieces(), 8*9)
		assert.Equal(t, 0, s.Score())
		assert.False(t, s.Busy())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultHexfallConfig()
	cfg.Board.Colors = 2
	_, err := New(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)

	_, err = New(testConfig(3, 3, 4), WithBoard([][]int{{0, 1}}))
	assert.ErrorIs(t, err, hex.ErrLayout)
}

func TestSameSeedSameBoard(t *testing.T) {
	a, err := New(config.DefaultHexfallConfig(), WithSeed(99))
	require.NoError(t, err)
	b, err := New(config.DefaultHexfallConfig(), WithSeed(99))
	require.NoError(t, err)
	assert.Equal(t, a.Snapshot().Colors, b.Snapshot().Colors)
}

func TestPiecesSitOnPlacementPoints(t *testing.T) {
	s, err := New(config.DefaultHexfallConfig(), WithSeed(5))
	require.NoError(t, err)

	grid := s.board.Grid()
	seen := make(map[hex.PieceID]bool)
	for _, p := range s.Pieces() {
		assert.Equal(t, grid.PositionOf(p.Col, p.Row), p.Pos)
		assert.False(t, seen[p.ID], "duplicate piece %d", p.ID)
		seen[p.ID] = true
	}
}

func TestTapSelectsGroup(t *testing.T) {
	s, _ := newSwipeSession(t, testConfig(8, 9, 5))
	grid := s.board.Grid()

	p := grid.PositionOf(2, 4).Add(hex.TopRight.Offset().Scale(0.8))
	sel, ok, err := s.Tap(p)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, sel.Col)
	assert.Equal(t, 4, sel.Row)
	assert.Equal(t, hex.TopRight, sel.Corner)
	assert.True(t, sel.OnRight)

	g := grid.GroupAt(2, 4, hex.TopRight)
	assert.Equal(t, g.IDs(), sel.Pieces)
	assert.InDelta(t, g.Centroid().X, sel.Anchor.X, 1e-9)
	assert.InDelta(t, g.Centroid().Y, sel.Anchor.Y, 1e-9)

	_, ok, err = s.Tap(core.V(-1, -1))
	require.NoError(t, err)
	assert.False(t, ok)
	_, has := s.Selection()
	assert.False(t, has, "tap outside the board clears the selection")
}

func TestSelectRedirectsEdgeCorners(t *testing.T) {
	s, _ := newSwipeSession(t, testConfig(8, 9, 5))

	sel, ok, err := s.Select(0, 4, hex.Left)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, hex.Right, sel.Corner)
}

func TestRotateWithoutSelection(t *testing.T) {
	s, _ := newSwipeSession(t, testConfig(8, 9, 5))

	_, err := s.Rotate(true)
	assert.ErrorIs(t, err, ErrNoSelection)
	_, err = s.Swipe(core.V(1, 1), core.V(2, 2))
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestSwipeResolvesMatch(t *testing.T) {
	rec := &recorder{}
	s, pres := newSwipeSession(t, testConfig(8, 9, 5), WithListener(rec))

	sel, ok, err := s.Select(2, 4, hex.TopRight)
	require.NoError(t, err)
	require.True(t, ok)

	// Dragging from above the anchor to its right turns clockwise.
	a := sel.Anchor
	out, err := s.Swipe(a.Add(core.V(0, 1)), a.Add(core.V(1, 0)))
	require.NoError(t, err)

	assert.True(t, out.Matched)
	assert.Equal(t, 1, out.Steps)
	assert.Equal(t, 3, out.Removed)
	assert.Equal(t, 15, out.Gained)
	assert.Equal(t, 0, out.Cascades)
	assert.False(t, out.GameOver)

	assert.Equal(t, 15, s.Score())
	assert.Equal(t, []int{15}, rec.scores)
	assert.Equal(t, Idle, s.Phase())
	assert.False(t, s.Busy())
	_, has := s.Selection()
	assert.True(t, has, "selection is restored at the anchor")

	assert.Equal(t, []Phase{RotationProbe, Resolving, FillingBlanks}, pres.Phases())

	rot, ok := pres.Batches[0].Commands[0].(Rotate)
	require.True(t, ok)
	assert.Equal(t, -120.0, rot.Degrees)
	assert.Equal(t, sel.Pieces, rot.Pieces)

	destroyed := 0
	for _, c := range pres.Batches[1].Commands {
		if _, ok := c.(Destroy); ok {
			destroyed++
		}
	}
	assert.Equal(t, 3, destroyed)

	spawns := 0
	for _, c := range pres.Batches[2].Commands {
		if sp, ok := c.(Spawn); ok {
			spawns++
			assert.Greater(t, sp.At.Y, s.Bounds().Y-hex.PieceHeight, "spawns start above the top row")
		}
	}
	assert.Equal(t, 3, spawns)

	assert.NoError(t, s.board.Grid().Verify())
	assert.Empty(t, s.board.AllMatches())
}

func TestRotateFullSpinWithoutMatch(t *testing.T) {
	pres := &Headless{Record: true}
	s, err := New(testConfig(2, 2, 4), WithBoard([][]int{{0, 1}, {2, 3}}), WithPresenter(pres))
	require.NoError(t, err)

	before := s.board.Grid().Occupancy()
	_, ok, err := s.Select(0, 0, hex.TopRight)
	require.NoError(t, err)
	require.True(t, ok)

	out, err := s.Rotate(false)
	require.NoError(t, err)
	assert.False(t, out.Matched)
	assert.Equal(t, 3, out.Steps)
	assert.Equal(t, before, s.board.Grid().Occupancy())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, Idle, s.Phase())

	require.Len(t, pres.Batches, 1)
	assert.Equal(t, CosmeticSpin, pres.Batches[0].Phase)
	rot := pres.Batches[0].Commands[0].(Rotate)
	assert.Equal(t, 360.0, rot.Degrees)

	_, has := s.Selection()
	assert.True(t, has, "a spin keeps the selection")
}

func TestCascadesAreScored(t *testing.T) {
	layout := stripes(8, 9)
	layout[6][8] = 0
	layout[7][7] = 0
	layout[7][8] = 0
	// Two refills recreate the triangle, the third breaks it.
	src := &fixedSource{values: []int{0, 0, 0, 0, 0, 0, 0, 4, 0}}

	rec := &recorder{}
	s, err := New(testConfig(8, 9, 5), WithBoard(layout), WithColorSource(src),
		WithListener(rec), WithSeed(3))
	require.NoError(t, err)

	ms := s.board.AllMatches()
	require.Len(t, ms, 1)
	require.Equal(t, 3, ms[0].Len())

	s.busy = true
	out := s.resolve(ms[0], core.Vec2{})

	assert.Equal(t, 2, out.Cascades)
	assert.Equal(t, 9, out.Removed)
	assert.Equal(t, 45, out.Gained)
	assert.Equal(t, 45, s.Score())
	assert.Equal(t, []int{15, 30, 45}, rec.scores)
	assert.Empty(t, s.board.AllMatches())
	assert.Equal(t, 2, s.maxCascade)
}

func TestMatchDefusesBomb(t *testing.T) {
	s, _ := newSwipeSession(t, testConfig(8, 9, 5))

	victim := s.board.Grid().At(3, 5)
	s.hazards.arm(victim.ID, 5)
	require.Len(t, s.Hazards(), 1)

	_, _, err := s.Select(2, 4, hex.TopRight)
	require.NoError(t, err)
	out, err := s.Rotate(true)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Defused)
	assert.Empty(t, s.Hazards())
	assert.Equal(t, 15, s.Score(), "defusing does not change scoring")
	assert.False(t, out.GameOver)
}

func TestBombArmsOnScoreThreshold(t *testing.T) {
	cfg := testConfig(8, 9, 5)
	cfg.Hazard.Interval = 10
	s, pres := newSwipeSession(t, cfg)

	_, _, err := s.Select(2, 4, hex.TopRight)
	require.NoError(t, err)
	out, err := s.Rotate(true)
	require.NoError(t, err)

	assert.Equal(t, 1, out.Armed)
	hz := s.Hazards()
	require.Len(t, hz, 1)
	// Armed during the fill, then ticked once at the end of the move.
	assert.Equal(t, cfg.Hazard.InitialCountdown-1, hz[0].Countdown)
	assert.Equal(t, 20, s.Snapshot().NextHazardAt)

	var armed *PieceState
	for _, p := range s.Pieces() {
		if p.ID == hz[0].Piece {
			armed = &p
			break
		}
	}
	require.NotNil(t, armed)
	assert.Equal(t, 8, armed.Row, "bombs spawn on the top row")
	assert.Contains(t, []int{3, 4}, armed.Col, "bombs spawn in a column that lost a piece")
	assert.Equal(t, hz[0].Countdown, armed.Countdown)

	assert.Equal(t, []Phase{RotationProbe, Resolving, FillingBlanks, HazardTick}, pres.Phases())
}

func TestBombExplodesAfterCountdown(t *testing.T) {
	rec := &recorder{}
	book := &memoryBook{best: 100}
	s, _ := newSwipeSession(t, testConfig(8, 9, 5), WithListener(rec), WithScoreBook(book))

	s.hazards.arm(s.board.Grid().At(0, 0).ID, 8)
	for i := 1; i < 8; i++ {
		require.False(t, s.hazardTick(), "tick %d", i)
		require.False(t, s.Over())
	}
	assert.True(t, s.hazardTick())

	assert.True(t, s.Over())
	assert.Equal(t, GameOver, s.Phase())
	assert.Equal(t, ReasonHazard, s.Reason())
	assert.Equal(t, 1, rec.ended)
	assert.Equal(t, 0, rec.final)
	assert.Equal(t, 100, rec.high)
	assert.Equal(t, 100, s.HighScore())
	require.Len(t, book.runs, 1)
	assert.Equal(t, ReasonHazard, book.runs[0].Reason)
	assert.Equal(t, int64(7), book.runs[0].Seed)

	_, _, err := s.Tap(core.V(1, 1))
	assert.ErrorIs(t, err, ErrGameOver)
	_, err = s.Rotate(true)
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestDeadlockEndsGame(t *testing.T) {
	rec := &recorder{}
	book := &memoryBook{}
	s, err := New(testConfig(2, 2, 4), WithBoard([][]int{{0, 1}, {2, 3}}),
		WithListener(rec), WithScoreBook(book))
	require.NoError(t, err)
	s.score = 30

	var out Outcome
	s.settle(core.Vec2{}, &out)

	assert.True(t, out.GameOver)
	assert.Equal(t, ReasonDeadlock, out.Reason)
	assert.Equal(t, GameOver, s.Phase())
	assert.Equal(t, 30, rec.final)
	assert.Equal(t, 30, rec.high, "a new best is reported as the high score")
	assert.Equal(t, 30, book.best)
}

// gate holds every batch until release is closed.
type gate struct {
	got     chan Batch
	release chan struct{}
}

func (g *gate) Present(b Batch) <-chan struct{} {
	g.got <- b
	done := make(chan struct{})
	go func() {
		<-g.release
		close(done)
	}()
	return done
}

func TestInputRejectedWhileBusy(t *testing.T) {
	g := &gate{got: make(chan Batch, 16), release: make(chan struct{})}
	s, err := New(testConfig(8, 9, 5), WithBoard(swipeBoard()), WithColorSource(swipeRefill()),
		WithPresenter(g), WithSeed(7))
	require.NoError(t, err)
	_, _, err = s.Select(2, 4, hex.TopRight)
	require.NoError(t, err)

	done := make(chan Outcome)
	go func() {
		out, err := s.Rotate(true)
		assert.NoError(t, err)
		done <- out
	}()

	select {
	case b := <-g.got:
		assert.Equal(t, RotationProbe, b.Phase)
	case <-time.After(2 * time.Second):
		t.Fatal("rotation batch was not presented")
	}

	assert.True(t, s.Busy())
	_, _, err = s.Tap(core.V(1, 1))
	assert.ErrorIs(t, err, ErrBusy)
	_, err = s.Rotate(false)
	assert.ErrorIs(t, err, ErrBusy)
	_, _, err = s.Select(1, 1, hex.Right)
	assert.ErrorIs(t, err, ErrBusy)
	assert.Nil(t, s.Moves())

	close(g.release)
	select {
	case out := <-done:
		assert.True(t, out.Matched)
	case <-time.After(2 * time.Second):
		t.Fatal("move did not finish")
	}
	assert.False(t, s.Busy())
	assert.Equal(t, Idle, s.Phase())
}

func TestMovesListsMatchingRotations(t *testing.T) {
	s, _ := newSwipeSession(t, testConfig(8, 9, 5))

	moves := s.Moves()
	require.NotEmpty(t, moves)
	for _, mv := range moves {
		assert.GreaterOrEqual(t, mv.Removed, 3)
	}
	// Listing moves leaves the board as it was.
	assert.Equal(t, swipeBoard(), s.Snapshot().Colors)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "cascade-check", CascadeCheck.String())
	assert.Equal(t, "game-over", GameOver.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
