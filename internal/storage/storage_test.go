package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hailam/chesslens/internal/board"
	"github.com/hailam/chesslens/internal/session"
)

func openTemp(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db"), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPreferences(t *testing.T) {
	s := openTemp(t)

	t.Run("DefaultsWhenEmpty", func(t *testing.T) {
		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatal(err)
		}
		if prefs.Palette != "four" || prefs.Resolution != 800 {
			t.Errorf("defaults = %+v", prefs)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		if err := s.SavePreferences(&Preferences{Palette: "three", Resolution: 640}); err != nil {
			t.Fatal(err)
		}
		prefs, err := s.LoadPreferences()
		if err != nil {
			t.Fatal(err)
		}
		if prefs.Palette != "three" || prefs.Resolution != 640 || prefs.LastOpened.IsZero() {
			t.Errorf("loaded %+v", prefs)
		}
	})
}

func TestSession(t *testing.T) {
	s := openTemp(t)

	if _, found, err := s.LoadSession(); err != nil || found {
		t.Fatalf("LoadSession on empty db = %v, %v", found, err)
	}

	snap := session.Snapshot{
		Start:   board.StartFEN,
		Moves:   []string{"e2e4", "e7e5"},
		Redo:    []string{"g1f3"},
		Rotated: true,
	}
	if err := s.SaveSession(snap); err != nil {
		t.Fatal(err)
	}
	got, found, err := s.LoadSession()
	if err != nil || !found {
		t.Fatalf("LoadSession = %v, %v", found, err)
	}
	if got.Start != snap.Start || len(got.Moves) != 2 || got.Moves[1] != "e7e5" || len(got.Redo) != 1 || !got.Rotated {
		t.Errorf("loaded %+v, want %+v", got, snap)
	}

	if err := s.ClearSession(); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := s.LoadSession(); found {
		t.Error("session survived ClearSession")
	}
}

func TestFirstLaunch(t *testing.T) {
	s := openTemp(t)
	first, err := s.IsFirstLaunch()
	if err != nil || !first {
		t.Fatalf("IsFirstLaunch = %v, %v", first, err)
	}
	if err := s.MarkFirstLaunchComplete(); err != nil {
		t.Fatal(err)
	}
	if first, _ = s.IsFirstLaunch(); first {
		t.Error("still first launch after marking complete")
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	s, err := Open(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSession(session.Snapshot{Start: board.StartFEN, Moves: []string{"d2d4"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, found, err := s.LoadSession()
	if err != nil || !found || len(got.Moves) != 1 {
		t.Errorf("after reopen: %+v, %v, %v", got, found, err)
	}
}

func TestDataPaths(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	dataDir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir failed: %v", err)
	}
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		t.Errorf("Data directory was not created: %s", dataDir)
	}

	dbDir, err := DatabaseDir("")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(dbDir) != "db" {
		t.Errorf("DatabaseDir = %s", dbDir)
	}
	t.Logf("Data directory: %s", dataDir)
}
