// Package pkg provides shared utilities for smite.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileSpill accumulates items of type T on disk instead of in memory. Large
// mutation runs can produce many classified results; spilling keeps the
// resident set flat while preserving append order.
type FileSpill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	Get(index uint64) (T, error)
	Range(f func(index uint64, item T) error) error
	Close() error
}

type fileSpill[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// NewFileSpill creates a FileSpill backed by a gob stream in a temp file.
func NewFileSpill[T any]() (FileSpill[T], error) {
	dir := filepath.Join(os.TempDir(), "smite-spill")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create spill directory: %w", err)
	}

	file, err := os.CreateTemp(dir, "spill-*.gob")
	if err != nil {
		return nil, fmt.Errorf("failed to create spill file: %w", err)
	}

	slog.Debug("created filespill", "path", file.Name())

	return &fileSpill[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}

// Append encodes one item at the end of the spill. Safe for concurrent use.
func (f *fileSpill[T]) Append(item T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.encoder.Encode(item); err != nil {
		slog.Error("failed to encode spill item", "path", f.path, "index", f.length, "error", err)
		return fmt.Errorf("failed to encode item: %w", err)
	}

	f.length++

	return nil
}

// Len returns the number of appended items.
func (f *fileSpill[T]) Len() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.length
}

// Path returns the backing file path.
func (f *fileSpill[T]) Path() string {
	return f.path
}

// Get decodes the item at index. Linear in index; prefer Range for scans.
func (f *fileSpill[T]) Get(index uint64) (T, error) {
	var zero T

	f.mu.Lock()
	defer f.mu.Unlock()

	if index >= f.length {
		return zero, fmt.Errorf("index %d out of bounds (length %d)", index, f.length)
	}

	file, err := os.Open(f.path)
	if err != nil {
		return zero, fmt.Errorf("failed to open spill file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := gob.NewDecoder(file)

	// Each iteration decodes into a fresh value: gob omits zero-valued
	// fields, so reusing the target would leak fields from earlier items.
	for i := uint64(0); i < index; i++ {
		var skipped T
		if err := decoder.Decode(&skipped); err != nil {
			return zero, fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}
	}

	var item T
	if err := decoder.Decode(&item); err != nil {
		return zero, fmt.Errorf("failed to decode item at index %d: %w", index, err)
	}

	return item, nil
}

// Range decodes every item in append order, stopping at the first callback
// error.
func (f *fileSpill[T]) Range(fn func(index uint64, item T) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("failed to open spill file: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := gob.NewDecoder(file)

	for i := uint64(0); i < f.length; i++ {
		// Fresh target per item: gob omits zero-valued fields, so a reused
		// target would keep stale fields from the previous item.
		var item T
		if err := decoder.Decode(&item); err != nil {
			return fmt.Errorf("failed to decode item at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

// Close closes and removes the backing file.
func (f *fileSpill[T]) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		return nil
	}

	if err := f.file.Close(); err != nil {
		slog.Error("failed to close spill file", "path", f.path, "error", err)
		return err
	}

	f.file = nil

	return os.Remove(f.path)
}
