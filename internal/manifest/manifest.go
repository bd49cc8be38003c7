// Package manifest records what one pipeline run read and produced.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/edareport/internal/utils"
	"github.com/google/uuid"
)

const manifestFileName = "manifest.json"

// Manifest is persisted as manifest.json in the output directory.
type Manifest struct {
	RunID      string     `json:"run_id"`
	Source     string     `json:"source"`
	Delimited  string     `json:"delimited"`
	Converted  bool       `json:"converted"`
	Rows       int        `json:"rows"`
	Columns    []string   `json:"columns"`
	Report     string     `json:"report,omitempty"`
	Summary    string     `json:"summary,omitempty"`
	Artifacts  []Artifact `json:"artifacts"`
	Stages     []Stage    `json:"stages"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`

	// Not serialized: directory holding manifest.json
	rootDir string `json:"-"`
}

// Artifact is one file written during the run.
type Artifact struct {
	Kind       string    `json:"kind"`
	Label      string    `json:"label,omitempty"`
	Path       string    `json:"path"`
	Bytes      int64     `json:"bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Stage records how long a pipeline stage took.
type Stage struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration_ns"`
}

// New starts an in-memory manifest with a fresh run ID. Call Save() to persist.
func New(rootDir string) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		rootDir:   rootDir,
	}
}

// Load reads manifest.json from dir.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.rootDir = dir
	return &m, nil
}

// Path is the on-disk location of manifest.json.
func (m *Manifest) Path() string { return filepath.Join(m.rootDir, manifestFileName) }

// AddArtifact stats path and appends it to the artifact list.
func (m *Manifest) AddArtifact(kind, label, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat artifact: %w", err)
	}
	m.Artifacts = append(m.Artifacts, Artifact{
		Kind:       kind,
		Label:      label,
		Path:       path,
		Bytes:      info.Size(),
		ModifiedAt: info.ModTime().UTC(),
	})
	return nil
}

// Track appends a stage timing.
func (m *Manifest) Track(name string, d time.Duration) {
	m.Stages = append(m.Stages, Stage{Name: name, Duration: d})
}

// Save stamps FinishedAt and writes manifest.json atomically.
func (m *Manifest) Save() error {
	if m.rootDir == "" {
		return errors.New("manifest directory not set")
	}
	m.FinishedAt = time.Now().UTC()
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(m.Path(), data)
}
