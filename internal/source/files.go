package source

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	qgerrors "github.com/mrz1836/qgate/internal/errors"
)

// PythonExt is the extension of files handed to the declaration audit.
const PythonExt = ".py"

// PythonFiles returns every .py file under root in lexical walk order.
// Hidden directories and __pycache__ are skipped, and paths matched by
// root/.gitignore are excluded when that file exists.
func PythonFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, qgerrors.Wrapf(qgerrors.ErrSourceNotFound, "source root %s", root)
	}

	matcher := loadIgnore(root)

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable entries are left out rather than aborting the audit.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil //nolint:nilerr // path is always under root
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skipDir(d.Name()) || (matcher != nil && matcher.MatchesPath(rel+"/")) {
				return fs.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), PythonExt) {
			return nil
		}
		if matcher != nil && matcher.MatchesPath(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, qgerrors.Wrapf(err, "walk %s", root)
	}

	return files, nil
}

// loadIgnore compiles root/.gitignore, or returns nil when there is none.
func loadIgnore(root string) *ignore.GitIgnore {
	matcher, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return matcher
}
