package session

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hexfall/internal/hex"
)

// Option configures a Session.
type Option func(*Session)

// WithPresenter sets the presentation layer. The default completes every
// batch immediately.
func WithPresenter(p Presenter) Option {
	return func(s *Session) {
		s.presenter = p
	}
}

// WithListener sets the receiver of score and game-over events.
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listener = l
	}
}

// WithScoreBook sets where finished runs are recorded.
func WithScoreBook(b ScoreBook) Option {
	return func(s *Session) {
		s.book = b
	}
}

// WithLogger sets the logger. Sessions log nothing by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithSeed fixes the random seed used for generation, refills and bomb
// placement.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.seed = seed
	}
}

// WithColorSource overrides the source of refill colors.
func WithColorSource(src hex.Source) Option {
	return func(s *Session) {
		s.colors = src
	}
}

// WithBoard starts from a fixed layout indexed [col][row] instead of a
// generated board. The layout must match the configured board size.
func WithBoard(layout [][]int) Option {
	return func(s *Session) {
		s.layout = layout
	}
}
