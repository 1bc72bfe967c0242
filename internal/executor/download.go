package executor

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/hashutil"
	"github.com/paradigmmc/mcman-go/internal/model"
)

// sink is the common surface of cache.AtomicWriter and outputWriter: stream
// bytes, then either commit into place or discard.
type sink interface {
	io.Writer
	Commit() error
	Abort() error
}

// download implements the Download{url, meta} step: GET the
// url, verify Content-Length against meta.size if both are known, stream
// the body through a hasher into the cache (if meta.cache is set) or
// straight to the output path, verify the finished hash, and — when the
// write went to the cache — copy the now-trusted cache entry to the output
// path too.
func (e *Executor) download(ctx context.Context, url string, meta model.FileMeta) (model.Result, error) {
	if meta.Cache != nil {
		// Serialize writers per cache path. A waiter whose
		// CacheCheck ran before the first writer committed re-checks once
		// it holds the lock, so N concurrent plans for one entry perform
		// at most one HTTP fetch.
		unlock := e.Cache.LockPath(meta.Cache.Namespace, meta.Cache.RelPath)
		defer unlock()

		result, err := e.cacheCheck(meta)
		if err != nil {
			return model.Continue, err
		}
		if result == model.Skip {
			return model.Skip, nil
		}
	}

	resp, err := e.http.Stream(ctx, url)
	if err != nil {
		return model.Continue, err
	}
	defer resp.Body.Close()

	if meta.Size != nil && resp.ContentLength >= 0 && resp.ContentLength != *meta.Size {
		return model.Continue, errors.SizeMismatch(meta.Filename, *meta.Size, resp.ContentLength)
	}

	outputPath := filepath.Join(e.OutputDir, meta.Filename)

	var s sink
	if meta.Cache != nil {
		s, err = e.Cache.CreateAtomicWriter(meta.Cache.Namespace, meta.Cache.RelPath)
	} else {
		s, err = newOutputWriter(outputPath)
	}
	if err != nil {
		return model.Continue, err
	}

	hr, err := hashutil.NewHashReader(meta)
	if err != nil {
		s.Abort()
		return model.Continue, err
	}

	if _, err := io.Copy(io.MultiWriter(s, hr), resp.Body); err != nil {
		s.Abort()
		return model.Continue, errors.Wrap(err, errors.CategoryIO, errors.SeverityError, "stream download body")
	}

	if ok, got := hr.Matches(); !ok {
		s.Abort()
		if meta.Cache != nil {
			if delErr := e.Cache.Delete(meta.Cache.Namespace, meta.Cache.RelPath); delErr != nil {
				return model.Continue, delErr
			}
		}
		format, expected, _ := meta.GetHasher()
		return model.Continue, errors.HashMismatch(meta.Filename, string(format), expected, got)
	}

	if err := s.Commit(); err != nil {
		return model.Continue, err
	}

	if meta.Cache != nil {
		cachePath, err := e.Cache.Path(meta.Cache.Namespace, meta.Cache.RelPath)
		if err != nil {
			return model.Continue, err
		}
		if err := copyVerifiedCacheToOutput(cachePath, outputPath); err != nil {
			return model.Continue, err
		}
	}
	return model.Continue, nil
}

// copyVerifiedCacheToOutput copies an already hash-verified cache entry to
// output_path without re-hashing — the local copy is trusted once the
// cache write's own hash check passed.
func copyVerifiedCacheToOutput(cachePath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return err
	}
	src, err := os.Open(cachePath)
	if err != nil {
		return err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, outputPath)
}

// outputWriter is the non-cache counterpart of cache.AtomicWriter: stream
// straight to output_dir via the same temp-file-then-rename atomicity.
type outputWriter struct {
	path    string
	tmp     *os.File
	tmpName string
	done    bool
}

func newOutputWriter(path string) (*outputWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return nil, err
	}
	return &outputWriter{path: path, tmp: tmp, tmpName: tmp.Name()}, nil
}

func (w *outputWriter) Write(p []byte) (int, error) { return w.tmp.Write(p) }

func (w *outputWriter) Commit() error {
	if w.done {
		return nil
	}
	w.done = true
	if err := w.tmp.Close(); err != nil {
		return err
	}
	return os.Rename(w.tmpName, w.path)
}

func (w *outputWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	w.tmp.Close()
	return os.Remove(w.tmpName)
}
