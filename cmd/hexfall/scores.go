package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hexfall/internal/platform/tui"
	"github.com/vovakirdan/hexfall/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [board]",
	Short: "Show high scores",
	Long: `Display the best runs for a board variant.

Without a board argument on a terminal, opens the interactive
scoreboard for every board. Otherwise prints the table for the
given board (default: classic).

Examples:
  hexfall scores
  hexfall scores wide --limit 20
  hexfall scores blitz --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all runs of the board")
}

func runScores(cmd *cobra.Command, args []string) {
	board, err := boardArg(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(board.ID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared all runs for %s.\n", board.Title)
		return
	}

	if len(args) == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		cfg := runtimeConfig()
		if _, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	runs, err := store.TopRuns(board.ID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s (%s)\n", board.Title, board.Size())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'hexfall play %s' to set the first high score!\n", board.ID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-8s  %s\n", "Rank", "Score", "Moves", "Chain", "End", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-8s  %s\n", "----", "-----", "-----", "-----", "---", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-8d  %-5d  %-5d  %-8s  %s\n",
			i+1, r.Score, r.Moves, r.MaxCascade, r.EndReason, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if st, err := store.Stats(board.ID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Average: %.0f\n", st.HighScore, st.Runs, st.AvgScore)
	}
}
