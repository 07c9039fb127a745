package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cheggaaa/pb/v3"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/session"
)

// ReasonLimit marks games stopped at the move limit.
const ReasonLimit session.EndReason = "limit"

// Options controls a simulation run.
type Options struct {
	Games    int
	Workers  int // 0 uses GOMAXPROCS
	MaxMoves int // per game, 0 means 500
	Seed     int64
	Strategy string

	Progress io.Writer // nil hides the progress bar
	Book     session.ScoreBook
	Logger   *log.Logger
}

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed       int64
	Score      int
	Moves      int
	MaxCascade int
	Defused    int
	Armed      int
	Reason     session.EndReason
}

// Run plays opts.Games sessions of cfg concurrently. Game i uses seed
// opts.Seed+i, so results do not depend on the worker count.
func Run(ctx context.Context, cfg config.HexfallConfig, opts Options) (*Report, error) {
	if opts.Games < 1 {
		return nil, errors.New("sim: games must be positive")
	}
	if _, err := NewStrategy(opts.Strategy, 0); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxMoves <= 0 {
		opts.MaxMoves = 500
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	bar := pb.New(opts.Games)
	if opts.Progress != nil {
		bar.SetWriter(opts.Progress)
	} else {
		bar.SetWriter(io.Discard)
	}
	bar.Start()

	results := make([]GameResult, opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < opts.Games; i++ {
		seed := opts.Seed + int64(i)
		g.Go(func() error {
			res, err := playGame(ctx, cfg, seed, opts)
			if err != nil {
				return err
			}
			results[i] = res
			bar.Increment()
			return nil
		})
	}
	err := g.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()
	if err != nil {
		return nil, err
	}

	opts.Logger.Info("simulation finished", "games", opts.Games, "workers", opts.Workers, "elapsed", used)
	return newReport(opts.Strategy, results, used), nil
}

func playGame(ctx context.Context, cfg config.HexfallConfig, seed int64, opts Options) (GameResult, error) {
	strategy, err := NewStrategy(opts.Strategy, seed)
	if err != nil {
		return GameResult{}, err
	}

	sopts := []session.Option{session.WithSeed(seed), session.WithLogger(opts.Logger)}
	if opts.Book != nil {
		sopts = append(sopts, session.WithScoreBook(opts.Book))
	}
	s, err := session.New(cfg, sopts...)
	if err != nil {
		return GameResult{}, err
	}

	res := GameResult{Seed: seed}
	for !s.Over() && res.Moves < opts.MaxMoves {
		if err := ctx.Err(); err != nil {
			return GameResult{}, err
		}
		moves := s.Moves()
		if len(moves) == 0 {
			return GameResult{}, fmt.Errorf("sim: seed %d: no moves on a live board", seed)
		}
		mv := strategy.Choose(moves)
		if _, ok, err := s.Select(mv.Col, mv.Row, mv.Corner); err != nil || !ok {
			return GameResult{}, fmt.Errorf("sim: seed %d: select %d,%d %s: ok=%v err=%v", seed, mv.Col, mv.Row, mv.Corner, ok, err)
		}
		out, err := s.Rotate(mv.Clockwise)
		if err != nil {
			return GameResult{}, fmt.Errorf("sim: seed %d: rotate: %w", seed, err)
		}
		if !out.Matched {
			return GameResult{}, fmt.Errorf("sim: seed %d: move %+v did not match", seed, mv)
		}
		res.Moves++
		res.Defused += out.Defused
		res.Armed += out.Armed
	}

	snap := s.Snapshot()
	res.Score = snap.Score
	res.MaxCascade = snap.MaxCascade
	res.Reason = s.Reason()
	if res.Reason == session.ReasonNone {
		res.Reason = ReasonLimit
	}
	return res, nil
}
