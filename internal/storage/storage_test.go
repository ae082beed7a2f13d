package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/timeprojec/internal/storage"
)

func TestOpenFileNotExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	kv, err := storage.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile on missing file: %v", err)
	}
	if _, ok, _ := kv.Get("anything"); ok {
		t.Error("expected empty store")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("OpenFile must not create the file before the first write")
	}
}

func TestFileSetAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	kv, err := storage.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("timetracker-projects", `[{"id":"a"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := storage.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, ok, err := reopened.Get("timetracker-projects")
	if err != nil || !ok {
		t.Fatalf("Get after reopen = %q, %v, %v", got, ok, err)
	}
	if got != `[{"id":"a"}]` {
		t.Errorf("Get = %q", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after write")
	}
}

func TestOpenFileCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	kv, err := storage.OpenFile(path)
	if !errors.Is(err, storage.ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
	if kv == nil {
		t.Fatal("expected a usable store alongside ErrCorrupt")
	}
	if _, err := os.Stat(path + ".corrupt"); os.IsNotExist(err) {
		t.Error("expected backup file to exist after corrupt JSON")
	}
	if err := kv.Set("k", "v"); err != nil {
		t.Errorf("Set after recovery: %v", err)
	}
}

func TestFileSharedBetweenHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	a, err := storage.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	b, err := storage.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := a.Set("first", "1"); err != nil {
		t.Fatal(err)
	}
	if err := b.Set("second", "2"); err != nil {
		t.Fatal(err)
	}
	if v, ok, err := a.Get("second"); err != nil || !ok || v != "2" {
		t.Errorf("a.Get(second) = %q, %v, %v", v, ok, err)
	}
	if err := a.Set("first", "one"); err != nil {
		t.Fatal(err)
	}

	reopened, err := storage.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for key, want := range map[string]string{"first": "one", "second": "2"} {
		if v, _, _ := reopened.Get(key); v != want {
			t.Errorf("%s = %q, want %q", key, v, want)
		}
	}
}

func TestSQLiteSetGet(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	kv, err := storage.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() {
		if err := kv.Close(); err != nil {
			t.Errorf("closing sqlite store: %v", err)
		}
	})

	if _, ok, err := kv.Get("missing"); err != nil || ok {
		t.Fatalf("Get missing = %v, %v", ok, err)
	}
	if err := kv.Set("subscription-tier", "free"); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("subscription-tier", "pro"); err != nil {
		t.Fatal(err)
	}
	got, ok, err := kv.Get("subscription-tier")
	if err != nil || !ok || got != "pro" {
		t.Errorf("Get = %q, %v, %v; want pro", got, ok, err)
	}
}

func TestSQLiteMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	first, err := storage.OpenSQLite(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := storage.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("reopening migrated db: %v", err)
	}
	defer second.Close()
	if got, ok, _ := second.Get("k"); !ok || got != "v" {
		t.Errorf("Get after reopen = %q, %v", got, ok)
	}
}

func TestOpenBackends(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{storage.BackendFile, storage.BackendSQLite, storage.BackendMemory} {
		b, err := storage.Open(name, dir)
		if err != nil {
			t.Errorf("Open(%q): %v", name, err)
			continue
		}
		if err := b.Set("k", name); err != nil {
			t.Errorf("%s Set: %v", name, err)
		}
		b.Close()
	}
	if _, err := storage.Open("etcd", dir); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := storage.Open(storage.BackendPostgres, dir); err == nil {
		t.Error("postgres needs a DSN and should not open from a directory")
	}
}

func TestOpenPostgresNeedsDSN(t *testing.T) {
	if _, err := storage.OpenPostgres(context.Background(), ""); err == nil {
		t.Error("expected an error without a DSN")
	}
}

func TestMemoryFailWrites(t *testing.T) {
	m := storage.NewMemory()
	m.FailWrites = true
	if err := m.Set("k", "v"); err == nil {
		t.Error("expected write failure")
	}
	if len(m.Keys()) != 0 {
		t.Error("failed write must not store the value")
	}
}

func TestMemoryFailReads(t *testing.T) {
	m := storage.NewMemory()
	_ = m.Set("k", "v")
	m.FailReads = true
	if _, ok, err := m.Get("k"); err == nil || ok {
		t.Errorf("Get = %v, %v, want a read failure", ok, err)
	}
}
