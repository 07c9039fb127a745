package tui

import (
	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/hex"
	"github.com/vovakirdan/hexfall/internal/session"
)

// Sprite is the on-screen state of one piece.
type Sprite struct {
	ID        hex.PieceID
	Color     int
	Pos       core.Vec2
	Countdown int
	Fading    bool
}

type moveJob struct {
	id     hex.PieceID
	target core.Vec2
}

type spinJob struct {
	ids     [3]hex.PieceID
	anchor  core.Vec2
	from    [3]core.Vec2
	targets [3]core.Vec2
	degrees float64
	done    float64 // degrees played so far, same sign as degrees
}

type fadeJob struct {
	id   hex.PieceID
	left float64
}

// Animator plays command batches on a set of sprites. It is driven by Step
// from the UI loop and is not safe for concurrent use.
type Animator struct {
	anim    config.AnimationConfig
	sprites map[hex.PieceID]*Sprite

	moves []moveJob
	spins []spinJob
	fades []fadeJob
	done  chan<- struct{}
}

// NewAnimator creates an animator showing pieces at rest.
func NewAnimator(anim config.AnimationConfig, pieces []session.PieceState) *Animator {
	a := &Animator{anim: anim}
	a.Reset(pieces)
	return a
}

// Reset drops running animations and shows pieces at rest. A pending batch
// is reported as finished.
func (a *Animator) Reset(pieces []session.PieceState) {
	a.Finish()
	a.sprites = make(map[hex.PieceID]*Sprite, len(pieces))
	for _, p := range pieces {
		a.sprites[p.ID] = &Sprite{ID: p.ID, Color: p.Color, Pos: p.Pos, Countdown: p.Countdown}
	}
}

// Play starts a batch. done is closed once every command has finished.
// Commands without duration apply immediately.
func (a *Animator) Play(b session.Batch, done chan<- struct{}) {
	a.Finish()
	a.done = done

	for _, cmd := range b.Commands {
		switch c := cmd.(type) {
		case session.Spawn:
			a.sprites[c.Piece] = &Sprite{ID: c.Piece, Color: c.Color, Pos: c.At}
		case session.Move:
			if _, ok := a.sprites[c.Piece]; ok {
				a.moves = append(a.moves, moveJob{id: c.Piece, target: c.To})
			}
		case session.Rotate:
			job := spinJob{ids: c.Pieces, anchor: c.Anchor, targets: c.Targets, degrees: c.Degrees}
			for i, id := range c.Pieces {
				if sp, ok := a.sprites[id]; ok {
					job.from[i] = sp.Pos
				}
			}
			a.spins = append(a.spins, job)
		case session.Destroy:
			if sp, ok := a.sprites[c.Piece]; ok {
				sp.Fading = true
				a.fades = append(a.fades, fadeJob{id: c.Piece, left: a.anim.DestroySeconds})
			}
		case session.Arm:
			if sp, ok := a.sprites[c.Piece]; ok {
				sp.Countdown = c.Countdown
			}
		case session.Disarm:
			if sp, ok := a.sprites[c.Piece]; ok {
				sp.Countdown = 0
			}
		}
	}
	a.complete()
}

// Step advances every running animation by dt seconds.
func (a *Animator) Step(dt float64) {
	if a.Idle() {
		return
	}

	moves := a.moves[:0]
	for _, j := range a.moves {
		sp, ok := a.sprites[j.id]
		if !ok {
			continue
		}
		sp.Pos = core.MoveTowards(sp.Pos, j.target, a.anim.MoveSpeed*dt)
		if sp.Pos != j.target {
			moves = append(moves, j)
		}
	}
	a.moves = moves

	spins := a.spins[:0]
	for _, j := range a.spins {
		step := a.anim.SpinSpeed * dt
		if j.degrees < 0 {
			step = -step
		}
		j.done += step
		finished := (j.degrees < 0 && j.done <= j.degrees) || (j.degrees >= 0 && j.done >= j.degrees)
		for i, id := range j.ids {
			sp, ok := a.sprites[id]
			if !ok {
				continue
			}
			if finished {
				sp.Pos = j.targets[i]
			} else {
				sp.Pos = j.from[i].RotateAround(j.anchor, j.done)
			}
		}
		if !finished {
			spins = append(spins, j)
		}
	}
	a.spins = spins

	fades := a.fades[:0]
	for _, j := range a.fades {
		j.left -= dt
		if j.left <= 0 {
			delete(a.sprites, j.id)
			continue
		}
		fades = append(fades, j)
	}
	a.fades = fades

	a.complete()
}

// Finish jumps every running animation to its end state.
func (a *Animator) Finish() {
	for _, j := range a.moves {
		if sp, ok := a.sprites[j.id]; ok {
			sp.Pos = j.target
		}
	}
	for _, j := range a.spins {
		for i, id := range j.ids {
			if sp, ok := a.sprites[id]; ok {
				sp.Pos = j.targets[i]
			}
		}
	}
	for _, j := range a.fades {
		delete(a.sprites, j.id)
	}
	a.moves, a.spins, a.fades = nil, nil, nil
	a.complete()
}

// Idle reports whether no animation is running.
func (a *Animator) Idle() bool {
	return len(a.moves) == 0 && len(a.spins) == 0 && len(a.fades) == 0
}

// Sprites returns the live sprites.
func (a *Animator) Sprites() map[hex.PieceID]*Sprite {
	return a.sprites
}

func (a *Animator) complete() {
	if a.done != nil && a.Idle() {
		close(a.done)
		a.done = nil
	}
}
