package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/hexfall/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{BoardID: "classic", Score: 100, Moves: 7, MaxCascade: 1, EndReason: "hazard", Seed: 1},
		{BoardID: "classic", Score: 50, Moves: 3, EndReason: "deadlock", Seed: 2},
		{BoardID: "classic", Score: 200, Moves: 12, MaxCascade: 3, EndReason: "hazard", Seed: 3},
		{BoardID: "compact", Score: 500, Moves: 30, EndReason: "deadlock", Seed: 4},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopRuns("classic", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(top))
	}

	// Should be sorted descending
	if top[0].Score != 200 || top[1].Score != 100 || top[2].Score != 50 {
		t.Errorf("Runs not in expected order: %v", top)
	}
	if top[0].Moves != 12 || top[0].MaxCascade != 3 || top[0].EndReason != "hazard" || top[0].Seed != 3 {
		t.Errorf("Run fields not stored: %+v", top[0])
	}
	if top[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	compact, err := store.TopRuns("compact", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(compact) != 1 {
		t.Errorf("Expected 1 compact run, got %d", len(compact))
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveRun(Run{BoardID: "test", Score: (i + 1) * 100})
	}

	runs, err := store.TopRuns("test", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("Expected 3 runs with limit, got %d", len(runs))
	}
	if runs[0].Score != 500 || runs[1].Score != 400 || runs[2].Score != 300 {
		t.Errorf("Runs not in expected order: %v", runs)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i, board := range []string{"classic", "wide", "classic"} {
		store.SaveRun(Run{BoardID: board, Score: i})
	}

	runs, err := store.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].Score != 2 || runs[1].BoardID != "wide" {
		t.Errorf("RecentRuns should be newest first, got %v", runs)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("classic")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty board, got %d", high)
	}

	store.SaveRun(Run{BoardID: "classic", Score: 100})
	store.SaveRun(Run{BoardID: "classic", Score: 300})
	store.SaveRun(Run{BoardID: "classic", Score: 200})

	high, err = store.HighScore("classic")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{BoardID: "classic", Score: 100})
	store.SaveRun(Run{BoardID: "classic", Score: 200})
	store.SaveRun(Run{BoardID: "wide", Score: 300})

	if err := store.ClearRuns("classic"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	classic, _ := store.TopRuns("classic", 10)
	if len(classic) != 0 {
		t.Errorf("Expected 0 classic runs after clear, got %d", len(classic))
	}

	wide, _ := store.TopRuns("wide", 10)
	if len(wide) != 1 {
		t.Errorf("Wide runs should not be affected by clearing classic")
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats("classic")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	store.SaveRun(Run{BoardID: "classic", Score: 100, Moves: 4, MaxCascade: 2})
	store.SaveRun(Run{BoardID: "classic", Score: 300, Moves: 6, MaxCascade: 1})
	store.SaveRun(Run{BoardID: "wide", Score: 50, Moves: 1})

	stats, err = store.Stats("classic")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.HighScore != 300 || stats.AvgScore != 200 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.TotalMoves != 10 || stats.MaxCascade != 2 {
		t.Errorf("Unexpected move stats: %+v", stats)
	}
	if time.Since(stats.LastPlayed) > 24*time.Hour {
		t.Errorf("LastPlayed looks wrong: %v", stats.LastPlayed)
	}

	all, err := store.AllStats()
	if err != nil {
		t.Fatalf("AllStats() failed: %v", err)
	}
	if len(all) != 2 || all["wide"].Runs != 1 {
		t.Errorf("Unexpected all stats: %v", all)
	}
}

func TestBookRecordsRuns(t *testing.T) {
	store := openTestStore(t)
	book := store.Book("classic")

	err := book.Record(session.RunSummary{Score: 120, Moves: 9, MaxCascade: 2, Reason: session.ReasonDeadlock, Seed: 42})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}

	high, err := book.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 120 {
		t.Errorf("Expected high score of 120, got %d", high)
	}

	runs, _ := store.TopRuns("classic", 1)
	if len(runs) != 1 || runs[0].EndReason != "deadlock" || runs[0].Seed != 42 {
		t.Errorf("Book should store the run summary, got %v", runs)
	}

	other, _ := store.Book("wide").HighScore()
	if other != 0 {
		t.Errorf("Books are per board, got %d for wide", other)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
