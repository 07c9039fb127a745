package session

import (
	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/hexfall/internal/hex"
)

// Hazard is a bomb attached to a piece.
type Hazard struct {
	Piece     hex.PieceID
	Countdown int
}

// hazardSet keeps hazards in arming order with an index by piece ID.
type hazardSet struct {
	order []*Hazard
	index *intmap.Map[hex.PieceID, *Hazard]
}

func newHazardSet() hazardSet {
	return hazardSet{index: intmap.New[hex.PieceID, *Hazard](8)}
}

// arm attaches a bomb to id, or resets the countdown of an existing one.
func (hs *hazardSet) arm(id hex.PieceID, countdown int) *Hazard {
	if h, ok := hs.index.Get(id); ok {
		h.Countdown = countdown
		return h
	}
	h := &Hazard{Piece: id, Countdown: countdown}
	hs.order = append(hs.order, h)
	hs.index.Put(id, h)
	return h
}

// disarm removes the bomb on id and reports whether there was one.
func (hs *hazardSet) disarm(id hex.PieceID) bool {
	h, ok := hs.index.Get(id)
	if !ok {
		return false
	}
	hs.index.Del(id)
	for i, o := range hs.order {
		if o == h {
			hs.order = append(hs.order[:i], hs.order[i+1:]...)
			break
		}
	}
	return true
}

func (hs *hazardSet) get(id hex.PieceID) (*Hazard, bool) {
	return hs.index.Get(id)
}

func (hs *hazardSet) len() int {
	return len(hs.order)
}

// tick decrements every countdown and reports whether any reached zero.
func (hs *hazardSet) tick() bool {
	exploded := false
	for _, h := range hs.order {
		h.Countdown--
		if h.Countdown <= 0 {
			exploded = true
		}
	}
	return exploded
}

func (hs *hazardSet) list() []Hazard {
	out := make([]Hazard, len(hs.order))
	for i, h := range hs.order {
		out[i] = *h
	}
	return out
}
