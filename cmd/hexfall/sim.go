package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/sim"
	"github.com/vovakirdan/hexfall/internal/storage"
)

var (
	flagSimGames    int
	flagSimWorkers  int
	flagSimMaxMoves int
	flagSimStrategy string
	flagSimRecord   bool
	flagSimQuiet    bool
)

var simCmd = &cobra.Command{
	Use:   "sim [board]",
	Short: "Let a bot play and report statistics",
	Long: `Play many headless games with a bot and print score statistics.

Game i uses seed --seed + i, so a run is reproducible regardless of
the number of workers. Games that reach --max-moves are cut off.

Strategies: ` + strings.Join(sim.Strategies, ", ") + `

Examples:
  hexfall sim
  hexfall sim blitz --games 1000 --workers 8
  hexfall sim --strategy random --difficulty hard
  hexfall sim --seed 1 --record`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSim,
}

func init() {
	addGameFlags(simCmd)
	simCmd.Flags().IntVar(&flagSimGames, "games", 100, "Number of games to play")
	simCmd.Flags().IntVar(&flagSimWorkers, "workers", 0, "Parallel games (0 = number of CPUs)")
	simCmd.Flags().IntVar(&flagSimMaxMoves, "max-moves", 500, "Move limit per game")
	simCmd.Flags().StringVar(&flagSimStrategy, "strategy", "greedy", "Bot strategy")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Save finished games to the scores database")
	simCmd.Flags().BoolVar(&flagSimQuiet, "quiet", false, "Hide the progress bar")
}

func runSim(cmd *cobra.Command, args []string) {
	board, err := boardArg(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rules, preset, err := loadRules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	board.Apply(&rules)
	config.ApplyPreset(&rules, preset)

	opts := sim.Options{
		Games:    flagSimGames,
		Workers:  flagSimWorkers,
		MaxMoves: flagSimMaxMoves,
		Seed:     core.RuntimeConfig{Seed: flagSeed}.ResolvedSeed(),
		Strategy: flagSimStrategy,
		Logger:   logger,
	}
	if !flagSimQuiet {
		opts.Progress = os.Stderr
	}

	var store *storage.Store
	if flagSimRecord {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		opts.Book = store.Book(board.ID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Debug("simulating", "board", board.ID, "games", opts.Games, "strategy", opts.Strategy)
	report, err := sim.Run(ctx, rules, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s (%s), seed %d\n\n", board.Title, board.Size(), opts.Seed)
	if err := report.Format(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
