// Package source resolves the directory under analysis and enumerates the
// Python files inside it.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"

	"github.com/mrz1836/qgate/internal/config"
	qgerrors "github.com/mrz1836/qgate/internal/errors"
	"github.com/mrz1836/qgate/internal/logging"
)

// Origin describes how the source root was found.
type Origin string

const (
	// OriginLocal means a directory named source.root_name exists in the working tree.
	OriginLocal Origin = "local"

	// OriginClone means the root is a clone of source.repo_url.
	OriginClone Origin = "clone"

	// OriginWorkDir means neither was available and the working directory itself is analyzed.
	OriginWorkDir Origin = "workdir"
)

// Location is the resolved source root.
type Location struct {
	Root   string `json:"root" yaml:"root"`
	Origin Origin `json:"origin" yaml:"origin"`
}

// Cloner fetches a remote repository into a local directory.
type Cloner interface {
	Clone(ctx context.Context, url, dir string) error
}

// GitCloner clones with go-git, so no git binary is required.
type GitCloner struct {
	// Progress receives the remote's progress messages. Nil discards them.
	Progress io.Writer
}

// Clone performs a full, non-bare clone of url into dir.
func (c *GitCloner) Clone(ctx context.Context, url, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:      url,
		Progress: c.Progress,
	})
	return err
}

// skippedDirs are never descended into while searching for the source root.
var skippedDirs = map[string]bool{ //nolint:gochecknoglobals // read-only lookup table
	"node_modules": true,
	"__pycache__":  true,
	"venv":         true,
}

// Locator resolves the source root.
type Locator struct {
	cfg    config.SourceConfig
	cloner Cloner
}

// NewLocator creates a Locator that clones with go-git.
func NewLocator(cfg config.SourceConfig) *Locator {
	return &Locator{cfg: cfg, cloner: &GitCloner{}}
}

// NewLocatorWithCloner creates a Locator with a custom cloner (for testing).
func NewLocatorWithCloner(cfg config.SourceConfig, cloner Cloner) *Locator {
	return &Locator{cfg: cfg, cloner: cloner}
}

// Locate resolves the source root under workDir:
//  1. the shallowest directory named source.root_name (lexical order within a level)
//  2. otherwise, when source.repo_url is set, a clone of it at source.clone_dir
//     (an existing repository there is reused)
//  3. otherwise workDir itself
//
// Directories listed in exclude (absolute paths, e.g. the reports directory) are
// not searched. A failed clone is fatal and wraps ErrCloneFailed.
func (l *Locator) Locate(ctx context.Context, workDir string, exclude ...string) (Location, error) {
	log := zerolog.Ctx(ctx).With().Str("component", "source").Logger()

	if root, ok := findRoot(workDir, l.cfg.RootName, exclude); ok {
		log.Debug().Str("root", root).Msg("using local source root")
		return Location{Root: root, Origin: OriginLocal}, nil
	}

	if l.cfg.RepoURL == "" {
		log.Debug().Str("root", workDir).Msg("no source root found, analyzing working directory")
		return Location{Root: workDir, Origin: OriginWorkDir}, nil
	}

	dir := l.cfg.CloneDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workDir, dir)
	}

	if _, err := git.PlainOpen(dir); err == nil {
		log.Info().Str("dir", dir).Msg("reusing existing clone")
		return Location{Root: dir, Origin: OriginClone}, nil
	}

	log.Info().
		Str("repo_url", logging.RedactURL(l.cfg.RepoURL)).
		Str("dir", dir).
		Msg("cloning repository")

	if err := l.cloner.Clone(ctx, l.cfg.RepoURL, dir); err != nil {
		return Location{}, fmt.Errorf("%w: %s: %w", qgerrors.ErrCloneFailed, logging.RedactURL(l.cfg.RepoURL), err)
	}

	return Location{Root: dir, Origin: OriginClone}, nil
}

// findRoot searches breadth-first for a directory named name.
func findRoot(workDir, name string, exclude []string) (string, bool) {
	excluded := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		excluded[filepath.Clean(e)] = true
	}

	queue := []string{workDir}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		var next []string
		for _, entry := range entries {
			if !entry.IsDir() || skipDir(entry.Name()) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if excluded[path] {
				continue
			}
			if entry.Name() == name {
				return path, true
			}
			next = append(next, path)
		}
		queue = append(queue, next...)
	}
	return "", false
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || skippedDirs[name]
}
