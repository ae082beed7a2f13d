package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV keeps every key in a single JSON object file.
type FileKV struct {
	path string
	mu   sync.Mutex
	data map[string]string
}

// OpenFile loads the store at path. A missing file yields an empty store.
// A corrupt file is moved aside to path+".corrupt" and an error wrapping
// ErrCorrupt is returned together with an empty, writable store.
func OpenFile(path string) (*FileKV, error) {
	f := &FileKV{path: path, data: map[string]string{}}
	if err := f.reloadLocked(); err != nil {
		if errors.Is(err, ErrCorrupt) {
			return f, err
		}
		return nil, err
	}
	return f, nil
}

// Path returns the backing file location.
func (f *FileKV) Path() string { return f.path }

// Get implements KV. The file is re-read so writes by another process are
// seen.
func (f *FileKV) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.reloadLocked(); err != nil {
		return "", false, err
	}
	v, ok := f.data[key]
	return v, ok, nil
}

// Set implements KV and rewrites the whole file, keeping the keys another
// process wrote since the last read.
func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.reloadLocked(); err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	f.data[key] = value
	return f.flushLocked()
}

// Close implements Backend.
func (f *FileKV) Close() error { return nil }

// reloadLocked replaces the cached map with the file contents. A missing
// file is an empty store. A corrupt file is moved aside and leaves the
// store empty.
func (f *FileKV) reloadLocked() error {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		f.data = map[string]string{}
		return nil
	}
	if err != nil {
		return fmt.Errorf("storage error reading %s: %w", f.path, err)
	}

	fresh := map[string]string{}
	if err := json.Unmarshal(data, &fresh); err != nil {
		f.data = map[string]string{}
		backupPath := f.path + ".corrupt"
		_ = os.Rename(f.path, backupPath)
		return fmt.Errorf("%w: %s (backed up to %s): %v", ErrCorrupt, f.path, backupPath, err)
	}
	f.data = fresh
	return nil
}

// flushLocked atomically writes the map to disk.
func (f *FileKV) flushLocked() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(f.data, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
