package sources

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

// mrpackIndex is modrinth.index.json's root document,
// as published in modrinth.index.json.
type mrpackIndex struct {
	Game         string                 `json:"game"`
	Name         string                 `json:"name"`
	VersionID    string                 `json:"versionId"`
	Summary      string                 `json:"summary"`
	Files        []mrpackFile           `json:"files"`
	Dependencies map[string]string      `json:"dependencies"`
}

type mrpackFile struct {
	Path      string            `json:"path"`
	Hashes    map[string]string `json:"hashes"`
	Env       *mrpackEnv        `json:"env"`
	Downloads []string          `json:"downloads"`
}

type mrpackEnv struct {
	Client string `json:"client"`
	Server string `json:"server"`
}

const mrpackEnvUnsupported = "unsupported"

// resolveMRPack implements the Modpack{type: MRPack, source} rule: open
// the .mrpack zip (local or HTTP), read modrinth.index.json, classify
// each file entry as a Modrinth or Url addon, and extract
// overrides/server-overrides into config overrides.
func (im *Importer) resolveMRPack(ctx context.Context, baseDir, source string) (Result, error) {
	data, err := fetchBytes(ctx, httpx.New("mrpack"), resolveSourceRef(baseDir, source))
	if err != nil {
		return Result{}, err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("sources: open mrpack: %w", err)
	}

	idx, err := readMRPackIndex(zr)
	if err != nil {
		return Result{}, err
	}

	var result Result
	for _, f := range idx.Files {
		if f.Env != nil && f.Env.Server == mrpackEnvUnsupported {
			continue
		}
		addon, err := im.mrpackFileToAddon(ctx, f)
		if err != nil {
			return Result{}, err
		}
		result.Addons = append(result.Addons, addon)
	}

	configs, err := extractMRPackOverrides(zr)
	if err != nil {
		return Result{}, err
	}
	result.Configs = append(result.Configs, configs...)
	return result, nil
}

func readMRPackIndex(zr *zip.Reader) (mrpackIndex, error) {
	f, err := zr.Open("modrinth.index.json")
	if err != nil {
		return mrpackIndex{}, fmt.Errorf("sources: mrpack missing modrinth.index.json: %w", err)
	}
	defer f.Close()

	var idx mrpackIndex
	if err := json.NewDecoder(f).Decode(&idx); err != nil {
		return mrpackIndex{}, fmt.Errorf("sources: decode modrinth.index.json: %w", err)
	}
	return idx, nil
}

// mrpackFileToAddon classifies one index file entry: a Modrinth addon if
// its sha512 hash resolves through Modrinth's version_file lookup, else a
// raw Url addon.
func (im *Importer) mrpackFileToAddon(ctx context.Context, f mrpackFile) (model.Addon, error) {
	target := targetForPath(f.Path)
	filename := path.Base(f.Path)

	if sha512 := f.Hashes["sha512"]; sha512 != "" && im.Modrinth != nil {
		v, ok, err := im.Modrinth.VersionByHash(ctx, sha512)
		if err != nil {
			return model.Addon{}, fmt.Errorf("sources: modrinth version_file lookup for %s: %w", f.Path, err)
		}
		if ok {
			return model.Addon{
				Kind:            model.SourceModrinth,
				Target:          target,
				ModrinthID:      v.ProjectID,
				ModrinthVersion: v.ID,
			}, nil
		}
	}

	if len(f.Downloads) == 0 {
		return model.Addon{}, fmt.Errorf("sources: mrpack file %s has no downloads", f.Path)
	}
	return model.Addon{
		Kind:     model.SourceURL,
		Target:   target,
		URL:      f.Downloads[0],
		Filename: filename,
	}, nil
}

// targetForPath infers an addon's Target from an mrpack/packwiz file's
// top-level directory.
func targetForPath(p string) model.Target {
	p = strings.TrimPrefix(p, "./")
	dir := path.Dir(p)
	top := strings.SplitN(dir, "/", 2)[0]
	switch top {
	case "mods":
		return model.Target{Kind: model.TargetMods}
	case "plugins":
		return model.Target{Kind: model.TargetPlugins}
	default:
		return model.Target{Kind: model.TargetCustom, Path: dir}
	}
}

// extractMRPackOverrides pulls overrides/ and server-overrides/ entries
// out of the zip into config/-relative ConfigOverrides, with
// server-overrides taking precedence over overrides for the same relative
// path.
func extractMRPackOverrides(zr *zip.Reader) ([]ConfigOverride, error) {
	byRelPath := make(map[string]ConfigOverride)
	var order []string

	for _, prefix := range []string{"overrides/", "server-overrides/"} {
		for _, zf := range zr.File {
			if zf.FileInfo().IsDir() || !strings.HasPrefix(zf.Name, prefix) {
				continue
			}
			rel := strings.TrimPrefix(zf.Name, prefix)
			content, err := readZipFile(zf)
			if err != nil {
				return nil, err
			}
			if _, exists := byRelPath[rel]; !exists {
				order = append(order, rel)
			}
			byRelPath[rel] = ConfigOverride{RelPath: rel, Content: content}
		}
	}

	out := make([]ConfigOverride, 0, len(order))
	for _, rel := range order {
		out = append(out, byRelPath[rel])
	}
	return out, nil
}

func readZipFile(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, fmt.Errorf("sources: open zip entry %s: %w", zf.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("sources: read zip entry %s: %w", zf.Name, err)
	}
	return data, nil
}
