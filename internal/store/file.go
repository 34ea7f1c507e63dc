package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// File persists the slots as one JSON object. Every write replaces the file
// through a temp file and rename, so a reader sees either the old or the new
// set of slots. A file that does not decode reads as empty and is replaced
// by the next write.
type File struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewFile creates a store backed by path. The file is created on first write.
func NewFile(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.Default()
	}
	return &File{path: path, logger: logger}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, _, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := slots[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, _, err := f.read()
	if err != nil {
		return err
	}
	slots[key] = value
	return f.write(slots)
}

func (f *File) Clear(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, corrupt, err := f.read()
	if err != nil {
		return err
	}

	changed := corrupt
	for _, k := range keys {
		if _, ok := slots[k]; ok {
			delete(slots, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.write(slots)
}

// read returns the stored slots. corrupt reports a file that exists but does
// not decode; its contents are dropped.
func (f *File) read() (slots map[string]string, corrupt bool, err error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading session file: %w", err)
	}

	slots = make(map[string]string)
	if len(data) == 0 {
		return slots, false, nil
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		f.logger.Warn("discarding unreadable session file", "path", f.path, "error", err)
		return make(map[string]string), true, nil
	}
	return slots, false, nil
}

func (f *File) write(slots map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}

	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("creating temp session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("securing temp session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp session file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}
