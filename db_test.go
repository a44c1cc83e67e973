package farkle

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/go-cmp/cmp"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	fileStore, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	pebbleStore, err := NewPebbleStore("", &pebble.Options{FS: vfs.NewMem()})
	if err != nil {
		t.Fatal(err)
	}
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"pebble": pebbleStore,
	}
	t.Cleanup(func() {
		for name, s := range stores {
			if err := s.Close(); err != nil {
				t.Errorf("close %s store: %v", name, err)
			}
		}
	})
	return stores
}

func TestStores(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := store.LoadGame(); !errors.Is(err, ErrNotFound) {
				t.Errorf("LoadGame on empty store: err = %v", err)
			}
			if _, err := store.LoadSettings(); !errors.Is(err, ErrNotFound) {
				t.Errorf("LoadSettings on empty store: err = %v", err)
			}
			if _, err := store.LoadLog(); !errors.Is(err, ErrNotFound) {
				t.Errorf("LoadLog on empty store: err = %v", err)
			}

			cfg := Config{MinEntry: 300, WinScore: 5000, HotDice: false, Style: Aggressive, MaxCycles: 6}
			if err := store.SaveSettings(cfg); err != nil {
				t.Fatal(err)
			}
			gotCfg, err := store.LoadSettings()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(cfg, gotCfg); diff != "" {
				t.Errorf("settings mismatch (-want +got):\n%s", diff)
			}

			g := NewGame(cfg, script(t, []uint8{1, 5, 3, 3, 3, 5}), nil)
			mustRoll(t, g, Human)
			if err := store.SaveGame(g.Snapshot()); err != nil {
				t.Fatal(err)
			}
			snap, err := store.LoadGame()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(g.Snapshot(), snap); diff != "" {
				t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
			}

			entries := []LogEntry{
				{Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), Who: "you", Text: "You rolled: 1, 5"},
			}
			if err := store.SaveLog(entries); err != nil {
				t.Fatal(err)
			}
			gotEntries, err := store.LoadLog()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(entries, gotEntries); diff != "" {
				t.Errorf("log mismatch (-want +got):\n%s", diff)
			}

			if err := store.Reset(); err != nil {
				t.Fatal(err)
			}
			if _, err := store.LoadGame(); !errors.Is(err, ErrNotFound) {
				t.Errorf("LoadGame after Reset: err = %v", err)
			}
			if err := store.Reset(); err != nil {
				t.Errorf("second Reset: %v", err)
			}
		})
	}
}

func TestFileStoreReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSettings(DefaultConfig()); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	cfg, err := s.LoadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}
