package hex

import "github.com/vovakirdan/hexfall/internal/pool"

// Match is a connected cluster of same-colored pieces, each reached through
// a monochrome group. Pieces appear once, in discovery order.
type Match struct {
	Pieces []*Piece
	handle pool.Handle
}

// Len returns the number of pieces in the match.
func (m *Match) Len() int {
	return len(m.Pieces)
}

// Color returns the shared color of the match, or -1 when empty.
func (m *Match) Color() int {
	if len(m.Pieces) == 0 {
		return -1
	}
	return m.Pieces[0].Color
}

func resetMatch(m *Match) {
	clear(m.Pieces)
	m.Pieces = m.Pieces[:0]
}

func (b *Board) newMatch() *Match {
	m, h := b.matches.Acquire()
	m.handle = h
	return m
}

// ReleaseMatch hands a match back to the pool once its pieces were consumed.
func (b *Board) ReleaseMatch(m *Match) {
	if m != nil {
		b.matches.Release(m.handle)
	}
}

// ReleaseMatches releases every match in ms.
func (b *Board) ReleaseMatches(ms []*Match) {
	for _, m := range ms {
		b.ReleaseMatch(m)
	}
}

// MatchAt flood-fills from p as a single query. It returns nil when p is not
// part of any monochrome group.
func (b *Board) MatchAt(p *Piece) *Match {
	b.visited.Clear()
	return b.matchAt(p)
}

// MatchAnyOf returns the first match found from the group's pieces, in
// clockwise order.
func (b *Board) MatchAnyOf(g Group) *Match {
	b.visited.Clear()
	for _, p := range g.Pieces {
		if m := b.matchAt(p); m != nil {
			return m
		}
	}
	return nil
}

// AllMatches returns every disjoint match on the board. Every group touches
// an even column, so seeding from even columns covers the whole board.
func (b *Board) AllMatches() []*Match {
	b.visited.Clear()
	var out []*Match
	for x := 0; x < b.grid.width; x += 2 {
		for y := 0; y < b.grid.height; y++ {
			if m := b.matchAt(b.grid.At(x, y)); m != nil {
				out = append(out, m)
			}
		}
	}
	return out
}

// matchAt shares the visited set with the rest of the current batch, so a
// piece already claimed by an earlier match yields nil.
func (b *Board) matchAt(p *Piece) *Match {
	if p == nil {
		return nil
	}
	if _, seen := b.visited.Get(p.ID); seen {
		return nil
	}
	b.visited.Put(p.ID, struct{}{})

	m := b.newMatch()
	b.expand(p, m)
	if len(m.Pieces) > 0 {
		return m
	}
	b.ReleaseMatch(m)
	return nil
}

func (b *Board) expand(p *Piece, m *Match) {
	added := false
	for _, c := range Corners {
		g := b.grid.GroupAt(p.Col, p.Row, c)
		if !g.Matching() {
			continue
		}
		if !added {
			m.Pieces = append(m.Pieces, p)
			added = true
		}
		for _, q := range g.Pieces {
			if _, seen := b.visited.Get(q.ID); seen {
				continue
			}
			b.visited.Put(q.ID, struct{}{})
			b.expand(q, m)
		}
	}
}
