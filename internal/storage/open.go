package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// BaseDir returns the default data directory (~/.timeprojec).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".timeprojec"), nil
}

// Open returns the named local backend rooted at dir. As with OpenFile, an
// error wrapping ErrCorrupt comes with a usable empty store. The postgres
// backend needs a DSN and is opened with OpenPostgres.
func Open(backend, dir string) (Backend, error) {
	switch backend {
	case BackendFile, "":
		f, err := OpenFile(filepath.Join(dir, "state.json"))
		if err != nil && !errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		return f, err
	case BackendSQLite:
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("storage error creating directories: %w", err)
		}
		return OpenSQLite(filepath.Join(dir, "state.db"))
	case BackendMemory:
		return NewMemory(), nil
	case BackendPostgres:
		return nil, fmt.Errorf("the postgres backend is opened with OpenPostgres")
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want file, sqlite, postgres or memory)", backend)
	}
}
