package config

import (
	_ "embed"
)

//go:embed defaults/hexfall.yaml
var defaultHexfallYAML []byte

// DefaultHexfallConfig returns the hardcoded default configuration, used when
// the embedded YAML cannot be parsed.
func DefaultHexfallConfig() HexfallConfig {
	return HexfallConfig{
		Board: BoardConfig{
			Width:  8,
			Height: 9,
			Colors: 5,
		},
		Scoring: ScoringConfig{
			Multiplier: 5,
		},
		Hazard: HazardConfig{
			Interval:         1000,
			InitialCountdown: 8,
		},
		Input: InputConfig{
			SwipeThreshold: 2.0,
		},
		Animation: AnimationConfig{
			MoveSpeed:      12.0,
			SpinSpeed:      720.0,
			DestroySeconds: 0.25,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultHexfallYAML
}
