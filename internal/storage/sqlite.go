// Package storage persists finished hexfall runs in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one finished session on a board.
type Run struct {
	ID         int64
	BoardID    string
	Score      int
	Moves      int
	MaxCascade int
	EndReason  string // "hazard" or "deadlock"
	Seed       int64
	CreatedAt  time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			max_cascade INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL DEFAULT '',
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_board_id ON runs(board_id);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(board_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and returns its ID.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (board_id, score, moves, max_cascade, end_reason, seed)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.BoardID, r.Score, r.Moves, r.MaxCascade, r.EndReason, r.Seed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves the best N runs for the given board.
// Results are ordered by score descending.
func (s *Store) TopRuns(boardID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, board_id, score, moves, max_cascade, end_reason, seed, created_at
		 FROM runs
		 WHERE board_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		boardID, limit,
	)
}

// RecentRuns retrieves the latest N runs across all boards, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, board_id, score, moves, max_cascade, end_reason, seed, created_at
		 FROM runs
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.BoardID, &r.Score, &r.Moves, &r.MaxCascade,
			&r.EndReason, &r.Seed, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// HighScore returns the highest score for the given board.
// Returns 0 if no runs exist.
func (s *Store) HighScore(boardID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE board_id = ?",
		boardID,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearRuns deletes all runs for the given board.
func (s *Store) ClearRuns(boardID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE board_id = ?", boardID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// BoardStats contains aggregated statistics for a board.
type BoardStats struct {
	BoardID    string
	Runs       int
	HighScore  int
	AvgScore   float64
	TotalMoves int64
	MaxCascade int
	LastPlayed time.Time
}

// Stats retrieves aggregated statistics for a specific board.
func (s *Store) Stats(boardID string) (*BoardStats, error) {
	stats := &BoardStats{BoardID: boardID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(moves), 0), COALESCE(MAX(max_cascade), 0)
		 FROM runs WHERE board_id = ?`,
		boardID,
	).Scan(&stats.Runs, &stats.HighScore, &stats.AvgScore, &stats.TotalMoves, &stats.MaxCascade)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get board stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE board_id = ? ORDER BY id DESC LIMIT 1`,
		boardID,
	).Scan(&lastPlayed)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}

// AllStats retrieves statistics for every board that has been played.
func (s *Store) AllStats() (map[string]*BoardStats, error) {
	rows, err := s.db.Query(
		`SELECT board_id, COUNT(*), MAX(score), AVG(score), SUM(moves), MAX(max_cascade), MAX(created_at)
		 FROM runs
		 GROUP BY board_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all board stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*BoardStats)
	for rows.Next() {
		var bs BoardStats
		var lastPlayed any
		if err := rows.Scan(&bs.BoardID, &bs.Runs, &bs.HighScore, &bs.AvgScore,
			&bs.TotalMoves, &bs.MaxCascade, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		bs.LastPlayed = parseTime(lastPlayed)
		stats[bs.BoardID] = &bs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles the driver returning either time.Time or a string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
