// Package lockfile persists the build driver's companion state for one
// output directory as a single JSON document, written atomically via
// temp-file-then-rename.
package lockfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paradigmmc/mcman-go/internal/model"
)

const fileName = "mcman-lock.json"

// CurrentVersion is the lockfile schema version this package writes.
const CurrentVersion = 1

// BootstrappedFile records the mtime a config file had when last
// bootstrapped, so unchanged sources are skipped on the next build.
type BootstrappedFile struct {
	MtimeUnixNanos int64 `json:"mtime_unix_nanos"`
}

// ResolvedAddon pairs a declared addon with the FileMeta its resolver
// produced. The build driver records these after a successful build but
// resolves every addon again on the next one; updatecheck compares them
// against a fresh resolution.
type ResolvedAddon struct {
	Addon    model.Addon   `json:"addon"`
	Resolved model.FileMeta `json:"resolved"`
}

// Lockfile is the on-disk companion state for one server's output directory.
type Lockfile struct {
	Version           int                         `json:"version"`
	BootstrappedFiles map[string]BootstrappedFile `json:"bootstrapped_files"`
	Addons            []ResolvedAddon             `json:"addons"`
}

// New returns an empty, version-stamped Lockfile.
func New() *Lockfile {
	return &Lockfile{
		Version:           CurrentVersion,
		BootstrappedFiles: make(map[string]BootstrappedFile),
	}
}

// path returns the lockfile path for outputDir.
func path(outputDir string) string {
	return filepath.Join(outputDir, fileName)
}

// Load reads the lockfile from outputDir. A missing file returns a fresh
// empty Lockfile, not an error.
func Load(outputDir string) (*Lockfile, error) {
	data, err := os.ReadFile(path(outputDir))
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("read lockfile: %w", err)
	}
	var lf Lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("decode lockfile: %w", err)
	}
	if lf.BootstrappedFiles == nil {
		lf.BootstrappedFiles = make(map[string]BootstrappedFile)
	}
	if lf.Version == 0 {
		lf.Version = CurrentVersion
	}
	return &lf, nil
}

// Save atomically writes lf to outputDir via temp-file-then-rename.
func (lf *Lockfile) Save(outputDir string) error {
	if lf.Version == 0 {
		lf.Version = CurrentVersion
	}
	data, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lockfile: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	target := path(outputDir)
	tmp, err := os.CreateTemp(outputDir, ".mcman-lock-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp lockfile: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp lockfile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp lockfile: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("rename lockfile into place: %w", err)
	}
	return nil
}

// ShouldSkipBootstrap reports whether a config file at relpath with the
// given source mtime can be skipped: the recorded mtime matches AND the
// destination still exists. force always returns false (bypasses skip
// logic).
func (lf *Lockfile) ShouldSkipBootstrap(relpath string, sourceMtimeUnixNanos int64, destPath string, force bool) bool {
	if force {
		return false
	}
	entry, ok := lf.BootstrappedFiles[relpath]
	if !ok || entry.MtimeUnixNanos != sourceMtimeUnixNanos {
		return false
	}
	if _, err := os.Stat(destPath); err != nil {
		return false
	}
	return true
}

// RecordBootstrapped records relpath's source mtime after a successful
// copy-or-expand.
func (lf *Lockfile) RecordBootstrapped(relpath string, sourceMtimeUnixNanos int64) {
	lf.BootstrappedFiles[relpath] = BootstrappedFile{MtimeUnixNanos: sourceMtimeUnixNanos}
}

// SetAddons replaces the recorded resolved-addon list wholesale; the build
// driver calls this once per successful build stage.
func (lf *Lockfile) SetAddons(addons []ResolvedAddon) {
	lf.Addons = addons
}
