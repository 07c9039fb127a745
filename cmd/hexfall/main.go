// hexfall is a hexagonal match-three puzzle for the terminal.
//
// Usage:
//
//	hexfall list              - List board variants
//	hexfall play [board]      - Play a board
//	hexfall menu              - Pick boards interactively
//	hexfall scores [board]    - Show high scores
//	hexfall sim               - Autoplay games and print statistics
//	hexfall serve             - Host games over SSH
//
// Global flags:
//
//	--fps <rate>          - Set animation frame rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible boards
//	--db <path>           - Set database path (default: ~/.hexfall/scores.db)
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/hexfall/internal/config"
	"github.com/vovakirdan/hexfall/internal/registry"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string

	// Game flags shared by play, menu, sim and serve
	flagConfig     string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "hexfall",
	Short: "Hexfall - hexagonal match-three in your terminal",
	Long: `Hexfall is a match-three puzzle on a hexagonal grid. Select three
touching pieces and rotate them until three or more of one color meet.
Cleared pieces fall and refill from the top. Defuse bombs before they
count down to zero.

Available commands:
  list     - Show all board variants
  play     - Play a board directly
  menu     - Interactive board picker
  scores   - View high scores
  sim      - Let a bot play and report statistics
  serve    - Start SSH server for remote play

Examples:
  hexfall list
  hexfall play
  hexfall play wide --difficulty hard
  hexfall sim --games 200
  hexfall serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Animation frame rate")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.hexfall/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
}

// addGameFlags registers the rule set flags on commands that start games.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom hexfall config YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

// newLogger builds the command logger. fallback receives logs when no
// --log-file is set; interactive commands pass io.Discard because the
// terminal belongs to the UI. The returned func closes the log file.
func newLogger(fallback io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	w, closeFn := fallback, func() {}
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "hexfall",
		Level:           level,
	})
	return logger, closeFn, nil
}

// loadRules loads the config file and parses the difficulty flag.
func loadRules() (config.HexfallConfig, config.DifficultyPreset, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, "", err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, "", err
	}
	return cfg, preset, nil
}

// boardArg returns the board named by args, or the default board.
func boardArg(args []string) (registry.Board, error) {
	id := registry.DefaultBoard
	if len(args) > 0 {
		id = args[0]
	}
	board, err := registry.Lookup(id)
	if err != nil {
		return board, fmt.Errorf("%w\nRun 'hexfall list' to see available boards", err)
	}
	return board, nil
}
