package hex

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripes colors every column 1,2,3,1,... shifted by the column index, using
// colors 1..3 only. Every group contains two vertically adjacent pieces of
// the same column, so no group is monochrome.
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

func loadBoard(t *testing.T, colors int, layout [][]int) *Board {
	t.Helper()
	b, err := NewBoard(len(layout), len(layout[0]), colors)
	require.NoError(t, err)
	require.NoError(t, b.Load(layout))
	return b
}

func TestNewBoardValidates(t *testing.T) {
	_, err := NewBoard(8, 9, 2)
	assert.ErrorIs(t, err, ErrTooFewColors)

	_, err = NewBoard(1, 9, 5)
	assert.ErrorIs(t, err, ErrInvalidSize)

	b, err := NewBoard(8, 9, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, b.ColorCount())
}

func TestLoadRejectsBadLayout(t *testing.T) {
	b, err := NewBoard(3, 3, 4)
	require.NoError(t, err)

	assert.ErrorIs(t, b.Load([][]int{{0, 1, 2}}), ErrLayout)
	assert.ErrorIs(t, b.Load([][]int{{0, 1, 2}, {0, 1}, {0, 1, 2}}), ErrLayout)
	assert.ErrorIs(t, b.Load([][]int{{0, 1, 2}, {0, 1, 9}, {0, 1, 2}}), ErrLayout)
}

func TestGenerateProducesPlayableBoards(t *testing.T) {
	sizes := []struct {
		w, h, colors int
	}{
		{8, 9, 5},
		{8, 9, 3},
		{2, 2, 3},
		{3, 4, 3},
		{11, 7, 6},
	}
	for _, sz := range sizes {
		for seed := int64(1); seed <= 10; seed++ {
			b, err := NewBoard(sz.w, sz.h, sz.colors)
			require.NoError(t, err)

			attempts := b.Generate(rand.New(rand.NewSource(seed)))
			assert.GreaterOrEqual(t, attempts, 1)

			matches := b.AllMatches()
			assert.Empty(t, matches, "%dx%d/%d seed %d has matches", sz.w, sz.h, sz.colors, seed)
			b.ReleaseMatches(matches)
			assert.False(t, b.IsDeadlocked(), "%dx%d/%d seed %d is deadlocked", sz.w, sz.h, sz.colors, seed)
			require.NoError(t, b.Grid().Verify())

			for _, col := range b.Grid().Colors() {
				for _, c := range col {
					assert.True(t, c >= 0 && c < sz.colors)
				}
			}
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, _ := NewBoard(8, 9, 5)
	b, _ := NewBoard(8, 9, 5)
	a.Generate(rand.New(rand.NewSource(99)))
	b.Generate(rand.New(rand.NewSource(99)))
	assert.Equal(t, a.Grid().Colors(), b.Grid().Colors())
}

func TestRotateClockwise(t *testing.T) {
	b := loadBoard(t, 4, stripes(8, 9))
	g := b.Grid()

	grp := g.GroupAt(2, 4, TopRight)
	p1, p2, p3 := grp.Pieces[0], grp.Pieces[1], grp.Pieces[2]

	grp.RotateClockwise(1)
	assert.Same(t, p1, g.At(2, 5))
	assert.Same(t, p2, g.At(3, 4))
	assert.Same(t, p3, g.At(2, 4))
	assert.Equal(t, Coord{2, 5}, p1.Coord())
	require.NoError(t, g.Verify())

	grp.RotateClockwise(1)
	assert.Same(t, p1, g.At(3, 4))
	assert.Same(t, p2, g.At(2, 4))
	assert.Same(t, p3, g.At(2, 5))

	grp.RotateClockwise(1)
	assert.Same(t, p1, g.At(2, 4))
	assert.Same(t, p2, g.At(2, 5))
	assert.Same(t, p3, g.At(3, 4))
}

func TestRotationRoundTrip(t *testing.T) {
	b, err := NewBoard(8, 9, 5)
	require.NoError(t, err)
	b.Generate(rand.New(rand.NewSource(7)))
	g := b.Grid()

	before := g.Occupancy()
	for x := 0; x < g.Width(); x++ {
		for y := 0; y < g.Height(); y++ {
			for _, c := range Corners {
				grp := g.GroupAt(x, y, c)
				if grp.Empty() {
					continue
				}
				for n := -4; n <= 4; n++ {
					grp.RotateClockwise(n)
					grp.RotateClockwise(-n)
					require.Equal(t, before, g.Occupancy(), "rotate %d at %v of (%d,%d)", n, c, x, y)
				}
			}
		}
	}
	require.NoError(t, g.Verify())
}

func TestRotateEmptyGroupPanics(t *testing.T) {
	b := loadBoard(t, 4, stripes(4, 4))
	assert.Panics(t, func() { b.Grid().GroupAt(0, 2, Left).RotateClockwise(1) })
	assert.Panics(t, func() { Group{}.RotateClockwise(1) })
}

func TestMatchAtTriangle(t *testing.T) {
	layout := stripes(8, 9)
	// BottomLeft group of (2,4): (2,4), (2,3), (1,3).
	layout[2][4], layout[2][3], layout[1][3] = 0, 0, 0
	b := loadBoard(t, 4, layout)
	g := b.Grid()

	m := b.MatchAt(g.At(2, 3))
	require.NotNil(t, m)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 0, m.Color())
	assert.ElementsMatch(t, []*Piece{g.At(2, 4), g.At(2, 3), g.At(1, 3)}, m.Pieces)
	b.ReleaseMatch(m)

	assert.Nil(t, b.MatchAt(g.At(5, 5)))
}

func TestMatchFloodFillsConnectedGroups(t *testing.T) {
	layout := stripes(8, 9)
	// BottomLeft and Left groups of (2,4) share (2,4) and (1,3).
	layout[2][4], layout[2][3], layout[1][3], layout[1][4] = 0, 0, 0, 0
	b := loadBoard(t, 4, layout)
	g := b.Grid()

	m := b.MatchAnyOf(g.GroupAt(2, 4, BottomLeft))
	require.NotNil(t, m)
	assert.Equal(t, 4, m.Len())
	assert.Same(t, g.At(2, 4), m.Pieces[0], "seed piece comes first")
	b.ReleaseMatch(m)

	matches := b.AllMatches()
	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].Len())
}

func TestAllMatchesFindsDisjointClusters(t *testing.T) {
	layout := stripes(8, 9)
	layout[2][4], layout[2][3], layout[1][3] = 0, 0, 0
	// TopRight group of (5,6): (5,6), (5,7), (6,7).
	layout[5][6], layout[5][7], layout[6][7] = 0, 0, 0
	b := loadBoard(t, 4, layout)

	matches := b.AllMatches()
	require.Len(t, matches, 2)

	seen := map[PieceID]bool{}
	for _, m := range matches {
		assert.Equal(t, 3, m.Len())
		for _, p := range m.Pieces {
			assert.False(t, seen[p.ID], "piece %s in two matches", p)
			seen[p.ID] = true
		}
	}
	b.ReleaseMatches(matches)
}

func TestMatchWellFormedOnRandomBoards(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		rng := rand.New(rand.NewSource(seed))
		layout := make([][]int, 8)
		for x := range layout {
			layout[x] = make([]int, 9)
			for y := range layout[x] {
				layout[x][y] = rng.Intn(3)
			}
		}
		b := loadBoard(t, 3, layout)
		g := b.Grid()

		matches := b.AllMatches()
		inMatch := map[PieceID]bool{}
		for _, m := range matches {
			require.GreaterOrEqual(t, m.Len(), 3)
			for _, p := range m.Pieces {
				require.False(t, inMatch[p.ID], "seed %d: duplicate piece %s", seed, p)
				inMatch[p.ID] = true
				assert.Equal(t, m.Color(), p.Color)

				hasNeighbour := false
				for _, q := range m.Pieces {
					if q != p && q.Color == p.Color && g.Adjacent(p.Coord(), q.Coord()) {
						hasNeighbour = true
						break
					}
				}
				assert.True(t, hasNeighbour, "seed %d: piece %s has no matching neighbour", seed, p)
			}
		}

		// Every piece of a monochrome group belongs to some match.
		for x := 0; x < g.Width(); x++ {
			for y := 0; y < g.Height(); y++ {
				for _, c := range Corners {
					grp := g.GroupAt(x, y, c)
					if !grp.Matching() {
						continue
					}
					for _, p := range grp.Pieces {
						assert.True(t, inMatch[p.ID], "seed %d: %s missed", seed, p)
					}
				}
			}
		}
		b.ReleaseMatches(matches)
	}
}

func TestIsDeadlockedLeavesBoardUntouched(t *testing.T) {
	// Four distinct colors on a 2x2 board can never line up.
	b := loadBoard(t, 4, [][]int{{0, 1}, {2, 3}})
	before := b.Grid().Occupancy()

	assert.True(t, b.IsDeadlocked())
	assert.Equal(t, before, b.Grid().Occupancy())
	assert.Empty(t, b.Moves())
	assert.Equal(t, before, b.Grid().Occupancy())
}

func TestIsDeadlockedFindsRotation(t *testing.T) {
	b := loadBoard(t, 3, [][]int{{0, 0}, {1, 0}})
	before := b.Grid().Occupancy()

	assert.Empty(t, b.AllMatches())
	assert.False(t, b.IsDeadlocked())
	assert.Equal(t, before, b.Grid().Occupancy(), "probe must restore the board")

	moves := b.Moves()
	require.NotEmpty(t, moves)
	assert.Equal(t, 3, moves[0].Removed)
	assert.Equal(t, before, b.Grid().Occupancy())
}

func TestFillBlanksCompactsAndSpawns(t *testing.T) {
	b := loadBoard(t, 4, [][]int{
		{0, -1, 1, -1},
		{1, 2, 3, 0},
		{2, 3, 0, 1},
	})
	g := b.Grid()
	bottom := g.At(0, 0)
	dropped := g.At(0, 2)
	maxID := PieceID(0)
	g.Each(func(p *Piece) {
		if p.ID > maxID {
			maxID = p.ID
		}
	})

	refill := b.FillBlanks(&fixedSource{values: []int{3}})

	require.Len(t, refill.Drops, 1)
	assert.Same(t, dropped, refill.Drops[0].Piece)
	assert.Equal(t, Coord{0, 2}, refill.Drops[0].From)
	assert.Same(t, bottom, g.At(0, 0))
	assert.Same(t, dropped, g.At(0, 1))

	require.Len(t, refill.Spawns, 2)
	for i, s := range refill.Spawns {
		assert.Equal(t, 3, s.Piece.Color)
		assert.Greater(t, s.Piece.ID, maxID, "piece ids are never reused")
		assert.Equal(t, Coord{0, 2 + i}, s.Piece.Coord())
		assert.Equal(t, g.PositionOf(0, 4+i), s.Start)
	}
	require.NoError(t, g.Verify())
	assert.False(t, refill.Empty())
}

func TestFillBlanksPreservesOrder(t *testing.T) {
	b := loadBoard(t, 4, [][]int{
		{-1, 0, 1, 2},
		{1, 2, 3, 0},
	})
	g := b.Grid()
	a, c, d := g.At(0, 1), g.At(0, 2), g.At(0, 3)

	refill := b.FillBlanks(&fixedSource{values: []int{1}})
	assert.Len(t, refill.Drops, 3)
	assert.Len(t, refill.Spawns, 1)
	assert.Same(t, a, g.At(0, 0))
	assert.Same(t, c, g.At(0, 1))
	assert.Same(t, d, g.At(0, 2))

	again := b.FillBlanks(&fixedSource{values: []int{1}})
	assert.True(t, again.Empty())
}

func TestRemoveReturnsPieceToPool(t *testing.T) {
	b := loadBoard(t, 4, stripes(3, 3))
	before := b.PoolStats()

	b.Remove(b.Grid().At(1, 1))
	assert.Nil(t, b.Grid().At(1, 1))
	assert.Equal(t, before.InUse-1, b.PoolStats().InUse)

	b.FillBlanks(&fixedSource{values: []int{0}})
	after := b.PoolStats()
	assert.Equal(t, before.InUse, after.InUse)
	assert.Equal(t, before.Capacity, after.Capacity, "refill reuses the released slot")
}
