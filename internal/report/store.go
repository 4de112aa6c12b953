// Package report writes the run's artifacts into the reports directory:
// CSV tables, the cumulative Markdown summary, raw tool logs, a metrics
// textfile and an artifact manifest.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	qgerrors "github.com/mrz1836/qgate/internal/errors"
)

// Directory and file permission constants.
const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Store writes named artifacts into one reports directory.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir. Nothing is created until EnsureDir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the reports directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of the named artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// EnsureDir creates the reports directory and its parents.
func (s *Store) EnsureDir() error {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return fmt.Errorf("%w: create reports directory %s: %w", qgerrors.ErrReportWrite, s.dir, err)
	}
	return nil
}

// Remove deletes the named artifact. A missing artifact is not an error.
func (s *Store) Remove(name string) error {
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %w", qgerrors.ErrReportWrite, name, err)
	}
	return nil
}

// Clear removes the named artifacts left by an earlier run.
func (s *Store) Clear(names ...string) error {
	for _, name := range names {
		if err := s.Remove(name); err != nil {
			return err
		}
	}
	return nil
}

// Exists reports whether the named artifact has been written.
func (s *Store) Exists(name string) bool {
	info, err := os.Stat(s.Path(name))
	return err == nil && info.Mode().IsRegular()
}

// WriteFile replaces the named artifact with data.
func (s *Store) WriteFile(name string, data []byte) error {
	if err := atomicWrite(s.Path(name), data); err != nil {
		return fmt.Errorf("%w: %s: %w", qgerrors.ErrReportWrite, name, err)
	}
	return nil
}

// WriteText replaces the named artifact with text.
func (s *Store) WriteText(name, text string) error {
	return s.WriteFile(name, []byte(text))
}

// AppendText appends text to the named artifact, creating it if needed.
func (s *Store) AppendText(name, text string) error {
	f, err := os.OpenFile(s.Path(name), os.O_WRONLY|os.O_CREATE|os.O_APPEND, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("%w: %s: %w", qgerrors.ErrReportWrite, name, err)
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: %s: %w", qgerrors.ErrReportWrite, name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", qgerrors.ErrReportWrite, name, err)
	}
	return nil
}

// atomicWrite writes to a temp file and renames it over path so a reader
// never sees a partial artifact.
func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm) //#nosec G304 -- path is constructed internally
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
