package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/hexfall/internal/core"
	"github.com/vovakirdan/hexfall/internal/platform/tui"
	"github.com/vovakirdan/hexfall/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [board]",
	Short: "Play a board",
	Long: `Start playing the given board variant (default: classic).

Controls:
  Arrows/hjkl  - Move the selection
  Tab/Space    - Pick another corner of the piece
  X/E          - Rotate clockwise
  Z/Q          - Rotate counterclockwise
  Mouse        - Click to select, drag around the selection to rotate
  R            - Restart (after game over)
  Esc/Ctrl+C   - Quit

Difficulty options:
  easy   - Bombs arrive later and tick longer
  normal - The configured values
  hard   - Bombs arrive sooner, tick faster, one more color

Examples:
  hexfall play
  hexfall play wide --difficulty hard
  hexfall play --seed 42
  hexfall play --config ./my-hexfall.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	addGameFlags(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) {
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

	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}

	runErr := tui.Run(tui.Options{
		Config:     rules,
		Board:      board,
		Difficulty: preset,
		Runtime:    runtimeConfig(),
		Store:      store,
		Logger:     logger,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
