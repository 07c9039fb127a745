// Package registry provides a global registry of board variants.
// Variants register themselves in init() functions, allowing the CLI and the
// menu to discover them without hardcoded lists.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/hexfall/internal/config"
)

// Board describes a named board variant. High scores are kept per variant.
type Board struct {
	ID          string // Used for CLI arguments and score storage
	Title       string
	Description string
	Width       int
	Height      int
	Colors      int
}

// Apply overrides the board section of cfg with the variant's dimensions.
func (b Board) Apply(cfg *config.HexfallConfig) {
	cfg.Board.Width = b.Width
	cfg.Board.Height = b.Height
	cfg.Board.Colors = b.Colors
}

// Size returns a short "WxH/C" description of the variant.
func (b Board) Size() string {
	return fmt.Sprintf("%dx%d/%d", b.Width, b.Height, b.Colors)
}

var (
	boards = make(map[string]Board)
	mu     sync.RWMutex
)

// Register adds a board variant to the registry.
// Panics if a variant with the same ID is already registered.
func Register(b Board) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := boards[b.ID]; exists {
		panic(fmt.Sprintf("registry: board %q already registered", b.ID))
	}
	boards[b.ID] = b
}

// List returns every registered variant, sorted by ID.
func List() []Board {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Board, 0, len(boards))
	for _, b := range boards {
		result = append(result, b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Lookup returns the variant with the given ID.
func Lookup(id string) (Board, error) {
	mu.RLock()
	defer mu.RUnlock()

	b, ok := boards[id]
	if !ok {
		return Board{}, fmt.Errorf("registry: unknown board %q", id)
	}
	return b, nil
}

// Exists checks if a variant with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := boards[id]
	return ok
}
