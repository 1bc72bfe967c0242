package build

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/executor"
	"github.com/paradigmmc/mcman-go/internal/mcfg"
	"github.com/paradigmmc/mcman-go/internal/model"
)

// buildWorld materializes one worlds[*] entry: an
// optional world-data zip downloaded to a temp dir and extracted into
// output_dir/{name}, plus each datapack's step plan run into
// output_dir/{name}/datapacks.
func (d *Driver) buildWorld(ctx context.Context, world mcfg.WorldDoc) error {
	if world.Name == "" {
		return errors.New(errors.CategoryConfig, errors.SeverityError, "world entry missing a name")
	}

	if world.Download != "" {
		if err := d.downloadWorldData(ctx, world); err != nil {
			return err
		}
	}

	for _, dp := range world.Datapacks {
		a, err := dp.ToModel(nil)
		if err != nil {
			return err
		}
		a.Target = model.Target{Kind: model.TargetDatapack, World: world.Name}
		if !a.Environment.AppliesTo(d.profile()) {
			continue
		}
		if err := d.runAddon(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) downloadWorldData(ctx context.Context, world mcfg.WorldDoc) error {
	tmpDir, err := os.MkdirTemp("", "mcman-world-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpDir)

	filename := filenameFromURL(world.Download)
	if filename == "" {
		filename = world.Name + ".zip"
	}
	meta := model.FileMeta{Filename: filename}
	exec := executor.New(d.opts.Cache, tmpDir, d.opts.Java, d.opts.Observer, d.runID, d.opts.Logger)
	plan := model.Plan{model.CacheCheck(meta), model.Download(world.Download, meta)}
	if err := d.withRetry(ctx, "world:"+world.Name, func() error {
		return exec.RunPlan(ctx, plan)
	}); err != nil {
		return err
	}

	dest := filepath.Join(d.opts.OutputDir, world.Name)
	return unzipInto(filepath.Join(tmpDir, filename), dest)
}

func filenameFromURL(rawURL string) string {
	s, _, _ := strings.Cut(rawURL, "?")
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// unzipInto extracts archive into destDir, rejecting entries that escape
// it.
func unzipInto(archive, destDir string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return errors.Wrap(err, errors.CategoryIO, errors.SeverityError, "open world archive")
	}
	defer zr.Close()

	for _, zf := range zr.File {
		rel := filepath.FromSlash(zf.Name)
		target := filepath.Join(destDir, rel)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) && target != filepath.Clean(destDir) {
			return errors.New(errors.CategoryIO, errors.SeverityError,
				fmt.Sprintf("world archive entry %q escapes the world directory", zf.Name))
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return err
			}
			continue
		}
		if err := extractZipFile(zf, target); err != nil {
			return err
		}
	}
	return nil
}

func extractZipFile(zf *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return err
	}
	src, err := zf.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, zf.Mode().Perm()|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}
