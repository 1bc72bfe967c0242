package sources

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

// pack.toml / index.toml / *.pw.toml wire shapes, as packwiz publishes
// them.

type packwizPack struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Index   struct {
		Path       string `toml:"file"`
		HashFormat string `toml:"hash-format"`
	} `toml:"index"`
}

type packwizIndex struct {
	HashFormat string            `toml:"hash-format"`
	Files      []packwizIndexFile `toml:"files"`
}

type packwizIndexFile struct {
	Path     string `toml:"file"`
	Hash     string `toml:"hash"`
	Metafile bool   `toml:"metafile"`
}

type packwizMod struct {
	Name     string `toml:"name"`
	Filename string `toml:"filename"`
	Side     string `toml:"side"`
	Download struct {
		URL  string `toml:"url"`
		Mode string `toml:"mode"`
		Hash string `toml:"hash"`
	} `toml:"download"`
	Update struct {
		Modrinth *struct {
			ModID   string `toml:"mod-id"`
			Version string `toml:"version"`
		} `toml:"modrinth"`
		Curseforge *struct {
			FileID    int64 `toml:"file-id"`
			ProjectID int64 `toml:"project-id"`
		} `toml:"curseforge"`
	} `toml:"update"`
}

// resolvePackwiz implements the Modpack{type: Packwiz, source} rule:
// read pack.toml, follow index.path, classify each index metafile as a
// Modrinth/Curseforge/Url addon, and pass non-metafile entries through
// as Url addons targeting config/<relative-dir>.
func (im *Importer) resolvePackwiz(ctx context.Context, baseDir, source string) (Result, error) {
	h := httpx.New("packwiz")
	packSrc := resolveSourceRef(baseDir, source)
	if !strings.HasSuffix(packSrc, "pack.toml") {
		packSrc = joinSource(packSrc, "pack.toml")
	}

	packData, err := fetchBytes(ctx, h, packSrc)
	if err != nil {
		return Result{}, fmt.Errorf("sources: fetch pack.toml: %w", err)
	}
	var pack packwizPack
	if err := toml.Unmarshal(packData, &pack); err != nil {
		return Result{}, fmt.Errorf("sources: decode pack.toml: %w", err)
	}

	indexSrc := joinSource(dirOf(packSrc), pack.Index.Path)
	indexData, err := fetchBytes(ctx, h, indexSrc)
	if err != nil {
		return Result{}, fmt.Errorf("sources: fetch packwiz index: %w", err)
	}
	var index packwizIndex
	if err := toml.Unmarshal(indexData, &index); err != nil {
		return Result{}, fmt.Errorf("sources: decode packwiz index: %w", err)
	}

	var result Result
	indexDir := dirOf(indexSrc)
	for _, f := range index.Files {
		fileSrc := joinSource(indexDir, f.Path)
		if !f.Metafile {
			result.Addons = append(result.Addons, packwizConfigAddon(f.Path, fileSrc))
			continue
		}
		if !strings.HasPrefix(f.Path, "mods") {
			continue
		}
		modData, err := fetchBytes(ctx, h, fileSrc)
		if err != nil {
			return Result{}, fmt.Errorf("sources: fetch packwiz metafile %s: %w", f.Path, err)
		}
		var m packwizMod
		if err := toml.Unmarshal(modData, &m); err != nil {
			return Result{}, fmt.Errorf("sources: decode packwiz metafile %s: %w", f.Path, err)
		}
		addon, err := packwizModToAddon(m)
		if err != nil {
			return Result{}, fmt.Errorf("sources: %s: %w", f.Path, err)
		}
		result.Addons = append(result.Addons, addon)
	}
	return result, nil
}

func packwizModToAddon(m packwizMod) (model.Addon, error) {
	env := packwizSideToEnvironment(m.Side)
	switch {
	case m.Update.Modrinth != nil:
		return model.Addon{
			Kind:            model.SourceModrinth,
			Target:          model.Target{Kind: model.TargetMods},
			Environment:     env,
			ModrinthID:      m.Update.Modrinth.ModID,
			ModrinthVersion: m.Update.Modrinth.Version,
		}, nil
	case m.Update.Curseforge != nil:
		return model.Addon{
			Kind:              model.SourceCurseforge,
			Target:            model.Target{Kind: model.TargetMods},
			Environment:       env,
			CurseforgeID:      fmt.Sprint(m.Update.Curseforge.ProjectID),
			CurseforgeVersion: fmt.Sprint(m.Update.Curseforge.FileID),
		}, nil
	case m.Download.URL != "":
		return model.Addon{
			Kind:        model.SourceURL,
			Target:      model.Target{Kind: model.TargetMods},
			Environment: env,
			URL:         m.Download.URL,
			Filename:    m.Filename,
		}, nil
	default:
		return model.Addon{}, fmt.Errorf("packwiz mod %q has neither an update record nor a download url", m.Name)
	}
}

func packwizSideToEnvironment(side string) model.Environment {
	switch side {
	case "client":
		return model.EnvClient
	case "server":
		return model.EnvServer
	default:
		return model.EnvBoth
	}
}

// packwizConfigAddon turns a non-metafile index entry into a Url addon
// targeting config/<dir-of-path>, so it flows through the same
// cache/download pipeline as every other addon instead of a bespoke
// side channel.
func packwizConfigAddon(relPath, fileSrc string) model.Addon {
	dir := path.Dir(strings.TrimPrefix(relPath, "./"))
	target := "config"
	if dir != "." {
		target = path.Join("config", dir)
	}
	return model.Addon{
		Kind:     model.SourceURL,
		Target:   model.Target{Kind: model.TargetCustom, Path: target},
		URL:      fileSrc,
		Filename: path.Base(relPath),
	}
}
