// Package bootstrap implements the bootstrapper: it walks a server's
// layered config roots and, for each regular file, either expands it as a
// variable-templated text file or copies its bytes verbatim into the
// output directory. Files are processed by a bounded worker pool; per-file
// failures are collected and reported instead of aborting the run.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/paradigmmc/mcman-go/internal/lockfile"
	"github.com/paradigmmc/mcman-go/internal/logfields"
	"github.com/paradigmmc/mcman-go/internal/observer"
	"github.com/paradigmmc/mcman-go/internal/vars"
)

// DefaultConcurrency is the maximum number of files processed in parallel.
const DefaultConcurrency = 20

// expandableExtensions is the built-in set of extensions treated as
// templated text, without the leading dot.
var expandableExtensions = map[string]bool{
	"properties": true,
	"txt":        true,
	"yaml":       true,
	"yml":        true,
	"conf":       true,
	"config":     true,
	"toml":       true,
	"json":       true,
	"json5":      true,
	"secret":     true,
}

// Options configures one bootstrap run.
type Options struct {
	// Roots are source config directories, most general first (e.g.
	// network global config, then the server's own groups, then the
	// server's own config) — the caller (the build driver) computes this
	// order. A file whose relative path collides across roots is taken
	// from the last root that declares it: more specific config overrides
	// inherited config, unlike addon Source aggregation (first occurrence
	// wins there, because that list is a union of independent
	// declarations rather than an override chain).
	Roots []string

	OutputDir string

	// ExtraExtensions are appended to the built-in expandable set (the
	// server's configured extra extensions).
	ExtraExtensions []string

	Env         vars.Environment
	Lockfile    *lockfile.Lockfile
	Force       bool
	Concurrency int
	Observer    observer.Observer
}

// FileResult is the outcome for one file.
type FileResult struct {
	RelPath string
	Skipped bool
	Err     error
}

// Report summarizes one bootstrap run.
type Report struct {
	Files []FileResult
}

// Errors returns every non-nil per-file error, in file order.
func (r Report) Errors() []error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}

// Run walks opts.Roots and materializes every file into opts.OutputDir.
// Per-file errors are collected in the returned Report
// rather than aborting the run; Run itself only fails for a root that
// cannot be walked at all.
func Run(ctx context.Context, opts Options) (Report, error) {
	obs := opts.Observer
	if obs == nil {
		obs = observer.Noop{}
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	extra := make(map[string]bool, len(opts.ExtraExtensions))
	for _, e := range opts.ExtraExtensions {
		extra[strings.ToLower(strings.TrimPrefix(e, "."))] = true
	}

	obs.Emit(observer.Event{Kind: observer.EventStageStart, Stage: "bootstrap"})

	files, err := collectFiles(opts.Roots)
	if err != nil {
		return Report{}, err
	}

	results := make([]FileResult, len(files))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	launched := 0
loop:
	for i, f := range files {
		select {
		case <-ctx.Done():
			break loop
		default:
		}

		i, f := i, f
		launched++
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			res := processFile(f, opts.OutputDir, extra, opts.Env, opts.Force, &mu, opts.Lockfile)
			results[i] = res
			if res.Err != nil {
				obs.Emit(observer.Event{Kind: observer.EventWarn, Stage: "bootstrap", Label: res.RelPath, Err: res.Err})
			}
		}()
	}
	wg.Wait()
	results = results[:launched]

	obs.Emit(observer.Event{Kind: observer.EventStageEnd, Stage: "bootstrap"})
	return Report{Files: results}, nil
}

// sourcedFile is one file to materialize: relPath is relative to
// opts.OutputDir, sourcePath is where to read it from (the winning root).
type sourcedFile struct {
	relPath    string
	sourcePath string
}

// collectFiles walks every root in order and keeps, for each relative
// path, the last root's copy (later roots are more specific).
func collectFiles(roots []string) ([]sourcedFile, error) {
	byRel := make(map[string]string)
	var order []string

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("bootstrap: stat root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("bootstrap: root %s is not a directory", root)
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return fmt.Errorf("bootstrap: relativize %s: %w", path, err)
			}
			if _, seen := byRel[rel]; !seen {
				order = append(order, rel)
			}
			byRel[rel] = path
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("bootstrap: walk root %s: %w", root, err)
		}
	}

	out := make([]sourcedFile, 0, len(order))
	for _, rel := range order {
		out = append(out, sourcedFile{relPath: rel, sourcePath: byRel[rel]})
	}
	return out, nil
}

func processFile(f sourcedFile, outputDir string, extra map[string]bool, env vars.Environment, force bool, mu *sync.Mutex, lf *lockfile.Lockfile) FileResult {
	result := FileResult{RelPath: f.relPath}

	info, err := os.Stat(f.sourcePath)
	if err != nil {
		result.Err = fmt.Errorf("bootstrap: stat %s: %w", f.sourcePath, err)
		return result
	}
	mtime := info.ModTime().UnixNano()
	destPath := filepath.Join(outputDir, f.relPath)

	if lf != nil {
		mu.Lock()
		skip := lf.ShouldSkipBootstrap(f.relPath, mtime, destPath, force)
		mu.Unlock()
		if skip {
			result.Skipped = true
			return result
		}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o750); err != nil {
		result.Err = fmt.Errorf("bootstrap: create dir for %s: %w", f.relPath, err)
		return result
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.relPath), "."))
	if expandableExtensions[ext] || extra[ext] {
		err = expandFile(f.sourcePath, destPath, env, info.Mode())
	} else {
		err = copyFile(f.sourcePath, destPath, info.Mode())
	}
	if err != nil {
		result.Err = err
		return result
	}

	if lf != nil {
		mu.Lock()
		lf.RecordBootstrapped(f.relPath, mtime)
		mu.Unlock()
	}

	slog.Debug("bootstrapped file", logfields.Path(f.relPath))
	return result
}

// expandFile reads src as BOM-tolerant UTF-8, runs it through the variable
// expander, and writes the result to dest.
func expandFile(src, dest string, env vars.Environment, mode fs.FileMode) error {
	file, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("bootstrap: open %s: %w", src, err)
	}
	defer file.Close()

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := transform.NewReader(file, decoder)

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("bootstrap: read %s: %w", src, err)
	}

	expanded, _, err := vars.Expand(string(data), env)
	if err != nil {
		return fmt.Errorf("bootstrap: expand %s: %w", src, err)
	}

	if err := os.WriteFile(dest, []byte(expanded), mode.Perm()); err != nil {
		return fmt.Errorf("bootstrap: write %s: %w", dest, err)
	}
	return nil
}

// copyFile copies src to dest byte-for-byte, preserving mode bits where the
// platform supports them.
func copyFile(src, dest string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("bootstrap: open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("bootstrap: create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("bootstrap: copy to %s: %w", dest, err)
	}
	return nil
}
