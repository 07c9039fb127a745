// Package sim plays hexfall sessions with a bot and summarizes the results.
// It is used to tune board presets and hazard settings.
package sim

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vovakirdan/hexfall/internal/hex"
)

// Strategy picks one move from a non-empty list of matching rotations.
type Strategy interface {
	Name() string
	Choose(moves []hex.Move) hex.Move
}

// Greedy takes the move with the largest immediate match, breaking ties at
// random.
type Greedy struct {
	rng *rand.Rand
}

// NewGreedy creates a greedy strategy.
func NewGreedy(seed int64) *Greedy {
	return &Greedy{rng: rand.New(rand.NewSource(seed))}
}

func (g *Greedy) Name() string { return "greedy" }

func (g *Greedy) Choose(moves []hex.Move) hex.Move {
	best := moves[0].Removed
	for _, m := range moves[1:] {
		if m.Removed > best {
			best = m.Removed
		}
	}
	var top []hex.Move
	for _, m := range moves {
		if m.Removed == best {
			top = append(top, m)
		}
	}
	return top[g.rng.Intn(len(top))]
}

// Random takes any matching move.
type Random struct {
	rng *rand.Rand
}

// NewRandom creates a random strategy.
func NewRandom(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Choose(moves []hex.Move) hex.Move {
	return moves[r.rng.Intn(len(moves))]
}

// Strategies lists the known strategy names.
var Strategies = []string{"greedy", "random"}

// NewStrategy builds the named strategy.
func NewStrategy(name string, seed int64) (Strategy, error) {
	switch strings.ToLower(name) {
	case "greedy", "":
		return NewGreedy(seed), nil
	case "random":
		return NewRandom(seed), nil
	default:
		return nil, fmt.Errorf("sim: unknown strategy %q (valid: %s)", name, strings.Join(Strategies, ", "))
	}
}
