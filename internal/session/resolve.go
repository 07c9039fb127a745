package session

import (
	"fmt"

	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/hex"
)

// move plays one rotation request. The caller has set busy.
func (s *Session) move(clockwise bool) Outcome {
	dir := 1
	if !clockwise {
		dir = -1
	}

	s.mu.Lock()
	s.setPhaseLocked(RotationProbe)
	sel := *s.sel
	g := s.board.Grid().GroupAt(sel.Col, sel.Row, sel.Corner)
	if g.Empty() {
		panic(fmt.Sprintf("session: selection %d,%d %s has no group", sel.Col, sel.Row, sel.Corner))
	}

	var m *hex.Match
	steps := 0
	for steps < 2 {
		g.RotateClockwise(dir)
		steps++
		if m = s.board.MatchAnyOf(g); m != nil {
			break
		}
	}
	if m == nil {
		// Third step restores the original occupancy.
		g.RotateClockwise(dir)
		steps++
		s.setPhaseLocked(CosmeticSpin)
	}
	batch := Batch{Phase: s.phase, Commands: []Command{s.rotateCommand(g, sel.Anchor, dir*steps)}}
	s.mu.Unlock()

	s.await(batch)

	if m == nil {
		s.mu.Lock()
		s.busy = false
		s.setPhaseLocked(Idle)
		s.mu.Unlock()
		return Outcome{Steps: steps}
	}

	s.mu.Lock()
	s.moves++
	s.sel = nil
	s.logger.Debug("match", "col", sel.Col, "row", sel.Row, "corner", sel.Corner,
		"clockwise", clockwise, "steps", steps, "size", m.Len())
	s.mu.Unlock()

	out := s.resolve(m, sel.Anchor)
	out.Steps = steps
	return out
}

// rotateCommand describes the rotation of g by steps (clockwise positive)
// after the occupancy change has been applied.
func (s *Session) rotateCommand(g hex.Group, anchor core.Vec2, steps int) Rotate {
	grid := s.board.Grid()
	cmd := Rotate{
		Pieces:  g.IDs(),
		Anchor:  anchor,
		Degrees: -120 * float64(steps),
	}
	for i, p := range g.Pieces {
		cmd.Targets[i] = grid.PositionOf(p.Col, p.Row)
	}
	return cmd
}

// resolve removes m and everything it sets off, then ticks the bombs and
// checks for deadlock. anchor is where the selection is restored.
func (s *Session) resolve(m *hex.Match, anchor core.Vec2) Outcome {
	out := Outcome{Matched: true}

	col := s.removeMatches([]*hex.Match{m}, &out)
	s.fill(col, &out)

	for {
		s.mu.Lock()
		s.setPhaseLocked(CascadeCheck)
		ms := s.board.AllMatches()
		s.mu.Unlock()
		if len(ms) == 0 {
			break
		}
		out.Cascades++
		col = s.removeMatches(ms, &out)
		s.fill(col, &out)
	}

	s.mu.Lock()
	if out.Cascades > s.maxCascade {
		s.maxCascade = out.Cascades
	}
	s.mu.Unlock()

	s.settle(anchor, &out)
	return out
}

// removeMatches scores and removes every piece of ms. It returns the column
// of one removed piece, chosen at random, where a bomb may spawn.
func (s *Session) removeMatches(ms []*hex.Match, out *Outcome) int {
	s.mu.Lock()
	s.setPhaseLocked(Resolving)

	total := 0
	for _, m := range ms {
		total += m.Len()
	}
	pick := s.rng.Intn(total)
	col := -1

	var cmds []Command
	for _, m := range ms {
		gained := m.Len() * s.cfg.Scoring.Multiplier
		s.score += gained
		out.Gained += gained
		out.Removed += m.Len()

		for _, p := range m.Pieces {
			if pick == 0 {
				col = p.Col
			}
			pick--
			if s.hazards.disarm(p.ID) {
				out.Defused++
				cmds = append(cmds, Disarm{Piece: p.ID})
				s.logger.Info("bomb defused", "piece", p.ID)
			}
			cmds = append(cmds, Destroy{Piece: p.ID})
			s.board.Remove(p)
		}
	}
	s.board.ReleaseMatches(ms)
	score := s.score
	s.mu.Unlock()

	s.listener.ScoreChanged(score)
	s.await(Batch{Phase: Resolving, Commands: cmds})
	return col
}

// fill applies gravity and spawns new pieces. When the score has passed the
// next bomb threshold, the top piece of col is armed.
func (s *Session) fill(col int, out *Outcome) {
	s.mu.Lock()
	s.setPhaseLocked(FillingBlanks)

	grid := s.board.Grid()
	refill := s.board.FillBlanks(s.colors)

	cmds := make([]Command, 0, len(refill.Drops)+2*len(refill.Spawns)+1)
	for _, d := range refill.Drops {
		cmds = append(cmds, Move{Piece: d.Piece.ID, To: grid.PositionOf(d.Piece.Col, d.Piece.Row)})
	}
	for _, sp := range refill.Spawns {
		p := sp.Piece
		cmds = append(cmds,
			Spawn{Piece: p.ID, Color: p.Color, At: sp.Start},
			Move{Piece: p.ID, To: grid.PositionOf(p.Col, p.Row)},
		)
	}

	if col >= 0 && s.score >= s.nextHazard {
		s.nextHazard += s.cfg.Hazard.Interval
		target := grid.At(col, grid.Height()-1)
		h := s.hazards.arm(target.ID, s.cfg.Hazard.InitialCountdown)
		cmds = append(cmds, Arm{Piece: h.Piece, Countdown: h.Countdown})
		out.Armed++
		s.logger.Info("bomb armed", "piece", target.ID, "col", col, "countdown", h.Countdown,
			"next", s.nextHazard)
	}
	s.mu.Unlock()

	s.await(Batch{Phase: FillingBlanks, Commands: cmds})
}

// settle runs the end of a successful move: bomb countdowns, then the
// deadlock check. If the game continues the selection is restored at anchor
// and the session becomes idle.
func (s *Session) settle(anchor core.Vec2, out *Outcome) {
	if s.hazardTick() {
		out.GameOver = true
		out.Reason = ReasonHazard
		return
	}

	s.mu.Lock()
	s.setPhaseLocked(DeadlockCheck)
	dead := s.board.IsDeadlocked()
	s.mu.Unlock()
	if dead {
		s.end(ReasonDeadlock)
		out.GameOver = true
		out.Reason = ReasonDeadlock
		return
	}

	s.mu.Lock()
	s.selectAtLocked(anchor)
	s.busy = false
	s.setPhaseLocked(Idle)
	s.mu.Unlock()
}

// hazardTick decrements every bomb and ends the game when one explodes.
func (s *Session) hazardTick() bool {
	s.mu.Lock()
	if s.hazards.len() == 0 {
		s.mu.Unlock()
		return false
	}
	s.setPhaseLocked(HazardTick)
	exploded := s.hazards.tick()
	cmds := make([]Command, 0, s.hazards.len())
	for _, h := range s.hazards.order {
		cmds = append(cmds, Arm{Piece: h.Piece, Countdown: h.Countdown})
	}
	s.mu.Unlock()

	s.await(Batch{Phase: HazardTick, Commands: cmds})
	if exploded {
		s.end(ReasonHazard)
	}
	return exploded
}

// end moves the session to GameOver, records the run and notifies the
// listener. The session stays busy so no further input is accepted.
func (s *Session) end(reason EndReason) {
	s.mu.Lock()
	s.busy = true
	s.sel = nil
	s.reason = reason
	s.setPhaseLocked(GameOver)
	run := RunSummary{
		Score:      s.score,
		Moves:      s.moves,
		MaxCascade: s.maxCascade,
		Reason:     reason,
		Seed:       s.seed,
	}
	s.mu.Unlock()

	high := run.Score
	if s.book != nil {
		best, err := s.book.HighScore()
		if err != nil {
			s.logger.Warn("read high score", "err", err)
		} else if best > high {
			high = best
		}
		if err := s.book.Record(run); err != nil {
			s.logger.Warn("record run", "err", err)
		}
	}

	s.mu.Lock()
	s.high = high
	s.mu.Unlock()

	s.logger.Info("game over", "score", run.Score, "high", high, "reason", reason, "moves", run.Moves)
	s.listener.GameOver(run.Score, high)
}
