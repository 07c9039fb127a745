package storage

import (
	"github.com/vovakirdan/hexfall/internal/session"
)

// Book is the score book of one board. It lets a session record runs
// without a direct storage dependency.
type Book struct {
	store   *Store
	boardID string
}

// Book returns the score book for boardID.
func (s *Store) Book(boardID string) *Book {
	return &Book{store: s, boardID: boardID}
}

// HighScore implements session.ScoreBook.
func (b *Book) HighScore() (int, error) {
	return b.store.HighScore(b.boardID)
}

// Record implements session.ScoreBook.
func (b *Book) Record(run session.RunSummary) error {
	_, err := b.store.SaveRun(Run{
		BoardID:    b.boardID,
		Score:      run.Score,
		Moves:      run.Moves,
		MaxCascade: run.MaxCascade,
		EndReason:  string(run.Reason),
		Seed:       run.Seed,
	})
	return err
}

// Ensure Book implements ScoreBook
var _ session.ScoreBook = (*Book)(nil)
