package executor

import (
	"io"
	"os"
	"path/filepath"

	"github.com/paradigmmc/mcman-go/internal/hashutil"
	"github.com/paradigmmc/mcman-go/internal/model"
)

// cacheCheck implements the CacheCheck(meta) truth table:
// O = output_dir/meta.filename exists, C = cache file exists.
func (e *Executor) cacheCheck(meta model.FileMeta) (model.Result, error) {
	outputPath := filepath.Join(e.OutputDir, meta.Filename)

	outputExists, err := fileExists(outputPath)
	if err != nil {
		return model.Continue, err
	}

	// Size-mismatch handling: treat a wrong-sized output as if it weren't
	// there at all, deleting it first.
	if outputExists && meta.Size != nil {
		info, err := os.Stat(outputPath)
		if err != nil {
			return model.Continue, err
		}
		if info.Size() != *meta.Size {
			if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
				return model.Continue, err
			}
			outputExists = false
		}
	}

	var cacheExists bool
	var cachePath string
	if meta.Cache != nil {
		cacheExists, err = e.Cache.Exists(meta.Cache.Namespace, meta.Cache.RelPath)
		if err != nil {
			return model.Continue, err
		}
		if cacheExists {
			cachePath, err = e.Cache.Path(meta.Cache.Namespace, meta.Cache.RelPath)
			if err != nil {
				return model.Continue, err
			}
		}
	}

	switch {
	case outputExists && cacheExists:
		matches, err := outputAlreadyValid(outputPath, cachePath, meta)
		if err != nil {
			return model.Continue, err
		}
		if matches {
			return model.Skip, nil
		}
		return e.copyCacheToOutput(outputPath, cachePath, meta)
	case outputExists && !cacheExists:
		return model.Continue, nil
	case !outputExists && cacheExists:
		return e.copyCacheToOutput(outputPath, cachePath, meta)
	default:
		return model.Continue, nil
	}
}

// outputAlreadyValid covers the O=yes/C=yes row: if a known hash is
// present, the output matches when its own hash matches expected. With no
// known hash, the output matches when it is byte-for-byte equal to the
// cache entry.
func outputAlreadyValid(outputPath, cachePath string, meta model.FileMeta) (bool, error) {
	if _, _, ok := meta.GetHasher(); ok {
		f, err := os.Open(outputPath)
		if err != nil {
			return false, err
		}
		defer f.Close()
		matches, _, _, err := hashutil.HashFile(f, meta)
		if err != nil {
			return false, err
		}
		return matches, nil
	}
	return filesEqual(outputPath, cachePath)
}

// copyCacheToOutput covers the O=no/C=yes row (and the O=yes/C=yes
// fall-through): copy cache to output, verifying the hash along the way if
// one is known. A mismatch discards both the bad output and the bad cache
// entry and asks the Download step to re-fetch.
func (e *Executor) copyCacheToOutput(outputPath, cachePath string, meta model.FileMeta) (model.Result, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return model.Continue, err
	}
	src, err := os.Open(cachePath)
	if err != nil {
		return model.Continue, err
	}
	defer src.Close()

	hr, err := hashutil.NewHashReader(meta)
	if err != nil {
		return model.Continue, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(outputPath), ".tmp-*")
	if err != nil {
		return model.Continue, err
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(io.MultiWriter(tmp, hr), src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return model.Continue, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return model.Continue, err
	}

	if ok, _ := hr.Matches(); !ok {
		os.Remove(tmpName)
		if meta.Cache != nil {
			if err := e.Cache.Delete(meta.Cache.Namespace, meta.Cache.RelPath); err != nil {
				return model.Continue, err
			}
		}
		return model.Continue, nil
	}

	if err := os.Rename(tmpName, outputPath); err != nil {
		return model.Continue, err
	}
	return model.Skip, nil
}

func fileExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// filesEqual compares two files byte-for-byte without loading either fully
// into memory.
func filesEqual(a, b string) (bool, error) {
	fa, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()
	fb, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	infoA, err := fa.Stat()
	if err != nil {
		return false, err
	}
	infoB, err := fb.Stat()
	if err != nil {
		return false, err
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	bufA := make([]byte, 64*1024)
	bufB := make([]byte, 64*1024)
	for {
		na, errA := fa.Read(bufA)
		nb, errB := fb.Read(bufB)
		if na != nb || string(bufA[:na]) != string(bufB[:nb]) {
			return false, nil
		}
		if errA == io.EOF && errB == io.EOF {
			return true, nil
		}
		if errA != nil && errA != io.EOF {
			return false, errA
		}
		if errB != nil && errB != io.EOF {
			return false, errB
		}
		if na == 0 {
			return true, nil
		}
	}
}
