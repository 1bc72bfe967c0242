// Package cache implements the namespaced, content-addressed file store:
// entries live at {root}/{namespace}/{relative-path}, writes are atomic
// (temp file + rename), and existence of the physical file is
// authoritative — there is no secondary index.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/logfields"
	"github.com/paradigmmc/mcman-go/internal/mcenv"
	"log/slog"
)

// Store is a namespaced persistent file cache rooted at a single directory.
type Store struct {
	root   string
	logger *slog.Logger
	paths  pathLocks
}

// DefaultRoot resolves the OS-appropriate cache root, honoring
// mcenv.CacheRoot() as an override and falling back to os.UserCacheDir.
func DefaultRoot() (string, error) {
	if override := mcenv.CacheRoot(); override != "" {
		return override, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(base, "mcman"), nil
}

// New constructs a Store rooted at root, creating it if necessary.
func New(root string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	return &Store{root: root, logger: logger}, nil
}

// Open is New with the default OS-appropriate root.
func Open(logger *slog.Logger) (*Store, error) {
	root, err := DefaultRoot()
	if err != nil {
		return nil, err
	}
	return New(root, logger)
}

// validNamespace enforces the filesystem-safety contract: no path
// separators, no traversal, non-empty.
func validNamespace(namespace string) error {
	if namespace == "" {
		return errors.New("cache: namespace must not be empty")
	}
	if strings.ContainsAny(namespace, `/\`) || namespace == "." || namespace == ".." {
		return fmt.Errorf("cache: namespace %q is not filesystem-safe", namespace)
	}
	return nil
}

// validRelPath rejects absolute paths and parent-directory traversal; it
// otherwise allows nested separators (upstream clients build multi-segment
// relative paths, e.g. owner/repo/releases/tag/asset).
func validRelPath(relpath string) error {
	if relpath == "" {
		return errors.New("cache: relative path must not be empty")
	}
	if filepath.IsAbs(relpath) {
		return fmt.Errorf("cache: relative path %q must not be absolute", relpath)
	}
	clean := filepath.ToSlash(filepath.Clean(relpath))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("cache: relative path %q escapes the namespace root", relpath)
	}
	return nil
}

// Path returns the absolute path for (namespace, relpath). Pure, no I/O.
func (s *Store) Path(namespace, relpath string) (string, error) {
	if err := validNamespace(namespace); err != nil {
		return "", err
	}
	if err := validRelPath(relpath); err != nil {
		return "", err
	}
	return filepath.Join(s.root, namespace, filepath.FromSlash(relpath)), nil
}

// Exists reports whether the cache entry at (namespace, relpath) exists.
func (s *Store) Exists(namespace, relpath string) (bool, error) {
	path, err := s.Path(namespace, relpath)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat cache entry: %w", err)
	}
	return true, nil
}

// Root returns the store's base directory.
func (s *Store) Root() string { return s.root }

// ReadJSON reads and decodes the JSON entry at (namespace, relpath) into v.
// Returns (false, nil) without error if the entry is missing.
func (s *Store) ReadJSON(namespace, relpath string, v any) (bool, error) {
	path, err := s.Path(namespace, relpath)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read cache entry: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode cache entry %s/%s: %w", namespace, relpath, err)
	}
	return true, nil
}

// WriteJSON atomically writes v as JSON to (namespace, relpath) via
// temp-file-then-rename, creating parent directories as needed.
func (s *Store) WriteJSON(namespace, relpath string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return s.WriteBytes(namespace, relpath, data)
}

// WriteBytes atomically writes data to (namespace, relpath).
func (s *Store) WriteBytes(namespace, relpath string, data []byte) error {
	path, err := s.Path(namespace, relpath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create cache entry directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o640); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	s.logger.Debug("cache entry written", logfields.Namespace(namespace), logfields.CachePath(relpath), logfields.Size(int64(len(data))))
	return nil
}

// AtomicWriter streams bytes to a temp file that commits into place on
// Commit, or is discarded on Abort. Generalizes WriteBytes's
// temp-file-then-rename atomicity to callers that want to hash while they
// write instead of buffering the whole body first (the step executor's
// Download step).
type AtomicWriter struct {
	path    string
	tmp     *os.File
	tmpName string
	done    bool
}

// CreateAtomicWriter opens a temp file ready to stream into (namespace,
// relpath), creating parent directories as needed.
func (s *Store) CreateAtomicWriter(namespace, relpath string) (*AtomicWriter, error) {
	path, err := s.Path(namespace, relpath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create cache entry directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &AtomicWriter{path: path, tmp: tmp, tmpName: tmp.Name()}, nil
}

// Write implements io.Writer, streaming to the temp file.
func (w *AtomicWriter) Write(p []byte) (int, error) { return w.tmp.Write(p) }

// Commit closes and renames the temp file into place. Idempotent.
func (w *AtomicWriter) Commit() error {
	if w.done {
		return nil
	}
	w.done = true
	if err := w.tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(w.tmpName, 0o640); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(w.tmpName, w.path); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}

// Abort closes and removes the temp file without committing. Idempotent.
func (w *AtomicWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	w.tmp.Close()
	return os.Remove(w.tmpName)
}

// Delete removes the cache entry at (namespace, relpath), if present.
func (s *Store) Delete(namespace, relpath string) error {
	path, err := s.Path(namespace, relpath)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// List enumerates relative paths stored under namespace.
func (s *Store) List(namespace string) ([]string, error) {
	if err := validNamespace(namespace); err != nil {
		return nil, err
	}
	nsDir := filepath.Join(s.root, namespace)
	var out []string
	err := filepath.Walk(nsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipDir
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(nsDir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("list namespace %s: %w", namespace, err)
	}
	return out, nil
}

// Clear removes the entire cache root, recreating it empty.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.root); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return os.MkdirAll(s.root, 0o750)
}
