package app

import (
	"path/filepath"
	"testing"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/config"
)

func testConfig(t *testing.T, dir string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Engine.Workers = 2
	cfg.Engine.Palette = "three"
	cfg.Storage.Dir = dir
	cfg.Log.Level = "error"
	return cfg
}

func TestSessionSurvivesRestart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")

	a, err := New(testConfig(t, dir))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Store == nil {
		t.Fatal("storage should be open")
	}
	if a.Palette.Name != "three" {
		t.Errorf("palette = %q, want three", a.Palette.Name)
	}
	sess, err := a.Session()
	if err != nil {
		t.Fatal(err)
	}
	for _, uci := range []string{"e2e4", "e7e5", "g1f3"} {
		if _, err := sess.PlayUCI(uci); err != nil {
			t.Fatalf("%s: %v", uci, err)
		}
	}
	sess.Undo()
	sess.Rotate()
	a.Save(sess)
	a.Close()

	b, err := New(testConfig(t, dir))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()
	if b.Prefs.Palette != "three" || b.Prefs.Resolution != 800 {
		t.Errorf("preferences = %+v", b.Prefs)
	}
	resumed, err := b.Session()
	if err != nil {
		t.Fatal(err)
	}
	if got := resumed.Position().ToFEN(); got != sess.Position().ToFEN() {
		t.Errorf("resumed at %s, want %s", got, sess.Position().ToFEN())
	}
	if !resumed.Rotated() {
		t.Error("orientation was not restored")
	}
	if !resumed.Redo() || resumed.Position().PieceAt(board.F3) != board.WhiteKnight {
		t.Error("redo entry was not restored")
	}
}

func TestStorageDisabled(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Storage.Enabled = false
	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	if a.Store != nil {
		t.Error("storage should stay closed when disabled")
	}
	sess, err := a.Session()
	if err != nil {
		t.Fatal(err)
	}
	if sess.Position().ToFEN() != board.StartFEN {
		t.Errorf("fresh session at %s", sess.Position().ToFEN())
	}
	a.Save(sess) // no-op
}

func TestRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.Engine.Palette = "rainbow"
	if _, err := New(cfg); err == nil {
		t.Fatal("an unknown palette should be rejected")
	}
}
