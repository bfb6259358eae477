package kvstore

import (
	"errors"
	"path/filepath"
	"testing"
)

type store interface {
	Get(group, key string) (string, bool, error)
	Set(group, key, value string) error
	Unset(group, key string) error
	List(group, prefix string) ([]Entry, error)
}

func openSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "config.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStores_GetSetUnsetList(t *testing.T) {
	stores := map[string]store{
		"sqlite": openSQLite(t),
		"memory": NewMemory(),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get("lastSeen", "lastSeen_Bob"); err != nil || ok {
				t.Fatalf("expected missing value, ok=%v err=%v", ok, err)
			}
			if err := s.Set("lastSeen", "lastSeen_Bob", "100"); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := s.Set("lastSeen", "lastSeen_Bob", "200"); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			if err := s.Set("lastSeen", "lastSeen_Alice", "50"); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := s.Set("other", "lastSeen_Carol", "1"); err != nil {
				t.Fatalf("set: %v", err)
			}
			if err := s.Set("lastSeen", "version", "2"); err != nil {
				t.Fatalf("set: %v", err)
			}

			v, ok, err := s.Get("lastSeen", "lastSeen_Bob")
			if err != nil || !ok || v != "200" {
				t.Fatalf("expected 200, got %q ok=%v err=%v", v, ok, err)
			}

			entries, err := s.List("lastSeen", "lastSeen_")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(entries) != 2 || entries[0].Key != "lastSeen_Alice" || entries[1].Key != "lastSeen_Bob" {
				t.Fatalf("unexpected entries: %#v", entries)
			}
			if entries[1].Value != "200" || entries[1].Group != "lastSeen" {
				t.Fatalf("unexpected entry: %#v", entries[1])
			}

			all, err := s.List("lastSeen", "")
			if err != nil || len(all) != 3 {
				t.Fatalf("expected 3 entries with empty prefix, got %d err=%v", len(all), err)
			}

			if err := s.Unset("lastSeen", "lastSeen_Bob"); err != nil {
				t.Fatalf("unset: %v", err)
			}
			if _, ok, _ := s.Get("lastSeen", "lastSeen_Bob"); ok {
				t.Fatalf("expected value removed")
			}
			if err := s.Unset("lastSeen", "lastSeen_Bob"); err != nil {
				t.Fatalf("unset missing: %v", err)
			}
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.sqlite")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set("lastSeen", "lastSeen_Bob", "1234"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	v, ok, err := s.Get("lastSeen", "lastSeen_Bob")
	if err != nil || !ok || v != "1234" {
		t.Fatalf("expected persisted value, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestSQLiteStore_Closed(t *testing.T) {
	s := openSQLite(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, _, err := s.Get("a", "b"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := s.Set("a", "b", "c"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestOpenSQLite_EmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
