// Package config provides YAML-based game configuration loading, validation
// and difficulty presets for hexfall.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/hexfall/internal/core"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// HexfallConfig contains all configuration for a hexfall session.
type HexfallConfig struct {
	Board     BoardConfig     `yaml:"board"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Hazard    HazardConfig    `yaml:"hazard"`
	Input     InputConfig     `yaml:"input"`
	Animation AnimationConfig `yaml:"animation"`
}

// BoardConfig defines the board dimensions and palette size.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Colors int `yaml:"colors"`
}

// ScoringConfig defines how removed pieces are scored.
type ScoringConfig struct {
	Multiplier int `yaml:"multiplier"` // Points per removed piece
}

// HazardConfig defines bomb spawning.
type HazardConfig struct {
	Interval         int `yaml:"interval"`          // Score between two bomb spawns
	InitialCountdown int `yaml:"initial_countdown"` // Successful moves before a bomb explodes
}

// InputConfig defines pointer handling in the terminal.
type InputConfig struct {
	SwipeThreshold float64 `yaml:"swipe_threshold"` // Cells a drag must travel to count as a swipe
}

// AnimationConfig defines presentation speeds.
type AnimationConfig struct {
	MoveSpeed      float64 `yaml:"move_speed"`      // Board units per second
	SpinSpeed      float64 `yaml:"spin_speed"`      // Degrees per second
	DestroySeconds float64 `yaml:"destroy_seconds"` // Duration of the removal effect
}

// Validate checks the configuration before any board is built.
func (c HexfallConfig) Validate() error {
	switch {
	case c.Board.Width < 2 || c.Board.Height < 2:
		return fmt.Errorf("%w: board must be at least 2x2, got %dx%d", ErrInvalid, c.Board.Width, c.Board.Height)
	case c.Board.Colors < 3:
		return fmt.Errorf("%w: at least 3 colors required, got %d", ErrInvalid, c.Board.Colors)
	case c.Board.Colors > core.MaxPieceColors:
		return fmt.Errorf("%w: at most %d colors supported, got %d", ErrInvalid, core.MaxPieceColors, c.Board.Colors)
	case c.Scoring.Multiplier < 1:
		return fmt.Errorf("%w: scoring multiplier must be positive, got %d", ErrInvalid, c.Scoring.Multiplier)
	case c.Hazard.Interval < 1:
		return fmt.Errorf("%w: hazard interval must be positive, got %d", ErrInvalid, c.Hazard.Interval)
	case c.Hazard.InitialCountdown < 1:
		return fmt.Errorf("%w: hazard countdown must be positive, got %d", ErrInvalid, c.Hazard.InitialCountdown)
	}
	return nil
}
