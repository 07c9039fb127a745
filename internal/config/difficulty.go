package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the known difficulty presets, easiest first.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}

// ParsePreset converts a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown difficulty %q (want easy, normal or hard)", ErrInvalid, s)
}

// ApplyPreset tunes bomb pressure. Normal leaves the loaded values alone.
func ApplyPreset(cfg *HexfallConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Hazard.Interval = cfg.Hazard.Interval * 3 / 2
		cfg.Hazard.InitialCountdown += 3
	case DifficultyHard:
		cfg.Hazard.Interval = max(1, cfg.Hazard.Interval*3/5)
		cfg.Hazard.InitialCountdown = max(2, cfg.Hazard.InitialCountdown-2)
		if cfg.Board.Colors < 7 {
			cfg.Board.Colors++
		}
	}
}
