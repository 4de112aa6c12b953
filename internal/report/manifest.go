package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/qgate/internal/constants"
	qgerrors "github.com/mrz1836/qgate/internal/errors"
)

// Run statuses recorded in the manifest.
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Artifact describes one file in the reports directory.
type Artifact struct {
	Name   string `yaml:"name" json:"name"`
	Size   int64  `yaml:"size" json:"size"`
	BLAKE3 string `yaml:"blake3" json:"blake3"`
}

// Manifest is the index of a run's artifacts.
type Manifest struct {
	RunID       string     `yaml:"run_id" json:"run_id"`
	Status      string     `yaml:"status" json:"status"`
	GateReached string     `yaml:"gate_reached" json:"gate_reached"`
	StartedAt   time.Time  `yaml:"started_at" json:"started_at"`
	CompletedAt time.Time  `yaml:"completed_at" json:"completed_at"`
	Artifacts   []Artifact `yaml:"artifacts" json:"artifacts"`
}

// Artifacts digests every regular file in the reports directory, sorted by
// name. The manifest itself and temp files are skipped.
func (s *Store) Artifacts() ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: list %s: %w", qgerrors.ErrReportWrite, s.dir, err)
	}

	var artifacts []Artifact
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || name == constants.ReportManifest || strings.HasSuffix(name, ".tmp") {
			continue
		}
		digest, size, err := digestFile(s.Path(name))
		if err != nil {
			return nil, fmt.Errorf("%w: digest %s: %w", qgerrors.ErrReportWrite, name, err)
		}
		artifacts = append(artifacts, Artifact{Name: name, Size: size, BLAKE3: digest})
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Name < artifacts[j].Name })
	return artifacts, nil
}

// WriteManifest fills in the artifact list and writes the manifest.
func (s *Store) WriteManifest(m Manifest) (Manifest, error) {
	artifacts, err := s.Artifacts()
	if err != nil {
		return m, err
	}
	m.Artifacts = artifacts

	data, err := yaml.Marshal(m)
	if err != nil {
		return m, fmt.Errorf("%w: encode manifest: %w", qgerrors.ErrReportWrite, err)
	}
	return m, s.WriteFile(constants.ReportManifest, data)
}

// ReadManifest loads a previously written manifest.
func (s *Store) ReadManifest() (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(s.Path(constants.ReportManifest))
	if err != nil {
		return m, err
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return m, nil
}

func digestFile(path string) (string, int64, error) {
	f, err := os.Open(path) //nolint:gosec // path is constructed internally
	if err != nil {
		return "", 0, err
	}
	defer func() { _ = f.Close() }()

	hasher := blake3.New()
	n, err := io.Copy(hasher, f)
	if err != nil {
		return "", 0, err
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), n, nil
}
