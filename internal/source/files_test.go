package source_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qgerrors "github.com/mrz1836/qgate/internal/errors"
	"github.com/mrz1836/qgate/internal/source"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
}

func TestPythonFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"b.py":                        "",
		"a.py":                        "",
		"pkg/mod.py":                  "",
		"pkg/readme.md":               "",
		"pkg/__pycache__/mod.py":      "",
		".venv/lib/site.py":           "",
		"build/generated.py":          "",
		"pkg/migrations/0001_init.py": "",
		".gitignore":                  "build/\n*_init.py\n",
	})

	files, err := source.PythonFiles(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "a.py"),
		filepath.Join(root, "b.py"),
		filepath.Join(root, "pkg", "mod.py"),
	}, files)
}

func TestPythonFiles_NoGitignore(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{"x/y.py": "", "z.pyi": ""})

	files, err := source.PythonFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "x", "y.py")}, files)
}

func TestPythonFiles_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := source.PythonFiles(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, qgerrors.ErrSourceNotFound)
}
