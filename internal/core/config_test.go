package core

import (
	"testing"
	"time"
)

func TestResolvedSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	if got := cfg.ResolvedSeed(); got != 42 {
		t.Errorf("ResolvedSeed() = %d, expected 42", got)
	}

	cfg.Seed = 0
	if got := cfg.ResolvedSeed(); got == 0 {
		t.Error("ResolvedSeed() should derive a seed when Seed is 0")
	}
}

func TestFrameDuration(t *testing.T) {
	tests := []struct {
		rate     int
		expected time.Duration
	}{
		{60, time.Second / 60},
		{30, time.Second / 30},
		{0, time.Second / 60},
	}

	for _, tc := range tests {
		cfg := RuntimeConfig{TickRate: tc.rate}
		if got := cfg.FrameDuration(); got != tc.expected {
			t.Errorf("FrameDuration() with rate %d = %v, expected %v", tc.rate, got, tc.expected)
		}
	}
}

func TestPieceColor(t *testing.T) {
	if PieceColor(0) != ColorRed {
		t.Errorf("PieceColor(0) = %v, expected %v", PieceColor(0), ColorRed)
	}
	if PieceColor(-1) != ColorGray || PieceColor(MaxPieceColors) != ColorGray {
		t.Error("PieceColor() out of range should be gray")
	}
}
