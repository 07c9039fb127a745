package registry

import (
	"testing"

	"github.com/vovakirdan/hexfall/internal/config"
)

func TestBuiltinBoardsAreValid(t *testing.T) {
	list := List()
	if len(list) < 4 {
		t.Fatalf("List() returned %d boards, expected at least 4", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted: %q before %q", list[i-1].ID, list[i].ID)
		}
	}

	for _, b := range list {
		cfg := config.DefaultHexfallConfig()
		b.Apply(&cfg)
		if err := cfg.Validate(); err != nil {
			t.Errorf("board %q does not validate: %v", b.ID, err)
		}
	}
}

func TestLookup(t *testing.T) {
	b, err := Lookup(DefaultBoard)
	if err != nil {
		t.Fatalf("Lookup(%q) error = %v", DefaultBoard, err)
	}
	if b.Size() != "8x9/5" {
		t.Errorf("Size() = %q, expected %q", b.Size(), "8x9/5")
	}

	if _, err := Lookup("nope"); err == nil {
		t.Error("Lookup() of an unknown board should fail")
	}
	if Exists("nope") {
		t.Error("Exists(nope) = true, expected false")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Register() of a duplicate ID should panic")
		}
	}()
	Register(Board{ID: DefaultBoard})
}
