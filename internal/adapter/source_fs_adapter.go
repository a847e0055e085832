package adapter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	m "smite.dev/pkg/smite/internal/model"
)

// SourceFSAdapter abstracts the filesystem operations the pipeline relies
// on: scanning a project for mutable sources and materializing the isolated
// snapshots each worker mutates. Hiding direct os access keeps the
// orchestrator testable without touching the disk.
type SourceFSAdapter interface {
	// ResolveSources expands each path into the Solidity sources under it.
	// Test sources (*.t.sol) and vendored code are excluded.
	ResolveSources(paths []m.Path) ([]m.Path, error)

	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// FindProjectRoot walks up from startPath to the enclosing Foundry
	// project (the directory holding foundry.toml).
	FindProjectRoot(startPath m.Path) (m.Path, error)

	// CreateTempDir creates a directory for one mutant's project snapshot.
	CreateTempDir(pattern string) (m.Path, error)

	// RemoveAll removes a directory and all its contents.
	RemoveAll(path m.Path) error

	// CopyDir recursively copies a project tree into a snapshot directory.
	CopyDir(src, dst m.Path) error

	// WriteFile writes content to a file with the given permissions.
	WriteFile(path m.Path, content []byte, perm os.FileMode) error

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalSourceFSAdapter is the os-backed SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// skippedDirs are never scanned or copied: build outputs, vendored
// dependencies and VCS metadata.
var skippedDirs = map[string]bool{
	".git":         true,
	"out":          true,
	"cache":        true,
	"node_modules": true,
}

// ResolveSources expands files and directories into mutable Solidity files.
func (a *LocalSourceFSAdapter) ResolveSources(paths []m.Path) ([]m.Path, error) {
	var sources []m.Path

	for _, path := range paths {
		info, err := os.Stat(string(path))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}

		if !info.IsDir() {
			if mutableSource(string(path)) {
				sources = append(sources, path)
			}

			continue
		}

		err = filepath.Walk(string(path), func(p string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if fi.IsDir() {
				if skippedDirs[filepath.Base(p)] || filepath.Base(p) == "lib" {
					return filepath.SkipDir
				}

				return nil
			}

			if mutableSource(p) {
				sources = append(sources, m.Path(p))
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
	}

	return sources, nil
}

// mutableSource reports whether a path is a Solidity source eligible for
// mutation. Test and script sources are exercised, not mutated.
func mutableSource(path string) bool {
	if filepath.Ext(path) != ".sol" {
		return false
	}

	base := filepath.Base(path)

	return !strings.HasSuffix(base, ".t.sol") && !strings.HasSuffix(base, ".s.sol")
}

// ReadFile loads file contents from disk.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// FindProjectRoot searches for foundry.toml walking up the directory tree.
func (a *LocalSourceFSAdapter) FindProjectRoot(startPath m.Path) (m.Path, error) {
	dir := string(startPath)

	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "foundry.toml")); err == nil {
			return m.Path(dir), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("foundry.toml not found in any parent directory of %s", startPath)
		}

		dir = parent
	}
}

// CreateTempDir creates a snapshot directory for one mutant.
func (a *LocalSourceFSAdapter) CreateTempDir(pattern string) (m.Path, error) {
	tmpDir, err := os.MkdirTemp("", pattern)
	if err != nil {
		return "", err
	}

	return m.Path(tmpDir), nil
}

// RemoveAll removes a directory and all its contents.
func (a *LocalSourceFSAdapter) RemoveAll(path m.Path) error {
	return os.RemoveAll(string(path))
}

// CopyDir recursively copies a project tree, skipping build outputs and VCS
// metadata. Vendored libraries are copied: the snapshot must compile.
func (a *LocalSourceFSAdapter) CopyDir(src, dst m.Path) error {
	return filepath.Walk(string(src), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(string(src), path)
		if err != nil {
			return err
		}

		if info.IsDir() && skippedDirs[filepath.Base(path)] {
			return filepath.SkipDir
		}

		targetPath := filepath.Join(string(dst), relPath)

		if info.IsDir() {
			return os.MkdirAll(targetPath, info.Mode())
		}

		return a.copyFile(path, targetPath, info.Mode())
	})
}

func (a *LocalSourceFSAdapter) copyFile(src, dst string, mode os.FileMode) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}

	defer func() { _ = sourceFile.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}

	return os.Chmod(dst, mode)
}

// WriteFile writes content to a file with the given permissions.
func (a *LocalSourceFSAdapter) WriteFile(path m.Path, content []byte, perm os.FileMode) error {
	return os.WriteFile(string(path), content, perm)
}

// RelPath returns the relative path from base to target.
func (a *LocalSourceFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *LocalSourceFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
