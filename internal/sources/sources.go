// Package sources implements the source aggregator: it
// walks a server's own declared sources plus any network/group sources it
// inherits, and flattens the result to a deduplicated Addon list: one
// Addon list per declared Source, first occurrence winning on identity
// collisions.
package sources

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/paradigmmc/mcman-go/internal/mcfg"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/modrinth"
)

// ConfigOverride is a config file whose bytes are already resolved (read
// from a local path or pulled out of a modpack archive) rather than routed
// through the addon cache/download pipeline. The build driver writes these
// directly under output_dir at their relative path.
type ConfigOverride struct {
	RelPath string // relative to output_dir
	Content []byte
}

// Result is everything one Source resolves to.
type Result struct {
	Addons  []model.Addon
	Configs []ConfigOverride
}

// Importer resolves Sources into Results. It holds the upstream clients
// needed by modpack importers (currently just Modrinth, for recognizing
// mrpack file hashes) and a directory to clone GitSources into.
type Importer struct {
	Modrinth *modrinth.Client
	GitDir   string
}

// New builds an Importer. gitDir is the workspace directory GitSource
// clones land in; empty uses the OS temp directory.
func New(gitDir string) *Importer {
	return &Importer{Modrinth: modrinth.New(), GitDir: gitDir}
}

// Aggregate implements the ordered collection rule: global network-group sources, then each group the server belongs
// to, then the server's own sources. groupNames is the server's
// network-entry `groups` list (NetworkServer.Groups).
func Aggregate(network *mcfg.NetworkDoc, networkDir string, groupNames []string, server *mcfg.ServerDoc, serverDir string) []model.Located {
	var out []model.Located

	if network != nil {
		if g, ok := network.Groups["global"]; ok {
			out = append(out, locateGroup(g, networkDir)...)
		}
		for _, name := range groupNames {
			if name == "global" {
				continue
			}
			if g, ok := network.Groups[name]; ok {
				out = append(out, locateGroup(g, networkDir)...)
			}
		}
	}

	for _, doc := range server.Sources {
		out = append(out, model.Located{BaseDir: serverDir, Source: mustSource(doc)})
	}
	return out
}

func locateGroup(g mcfg.NetworkGroup, baseDir string) []model.Located {
	out := make([]model.Located, 0, len(g.Sources))
	for _, doc := range g.Sources {
		out = append(out, model.Located{BaseDir: baseDir, Source: mustSource(doc)})
	}
	return out
}

// mustSource converts a SourceDoc, discarding a conversion error for an
// already-validated document (mcfg.LoadServer/LoadNetwork reject unknown
// source types at load time, before Aggregate ever sees them).
func mustSource(doc mcfg.SourceDoc) model.Source {
	s, err := doc.ToModel()
	if err != nil {
		panic(fmt.Sprintf("sources: %v", err))
	}
	return s
}

// ResolveAll resolves every Located source to Addons,
// concatenating Configs in encounter order and dropping addons whose
// Identity() was already seen, keeping the first occurrence.
func (im *Importer) ResolveAll(ctx context.Context, located []model.Located) (Result, error) {
	var all Result
	seen := make(map[string]bool)

	for _, loc := range located {
		r, err := im.Resolve(ctx, loc)
		if err != nil {
			return Result{}, err
		}
		all.Configs = append(all.Configs, r.Configs...)
		for _, a := range r.Addons {
			id := a.Identity()
			if seen[id] {
				continue
			}
			seen[id] = true
			all.Addons = append(all.Addons, a)
		}
	}
	return all, nil
}

// Resolve dispatches one Located source to its type-specific importer.
func (im *Importer) Resolve(ctx context.Context, loc model.Located) (Result, error) {
	switch loc.Source.Type {
	case model.SourceTypeFile:
		addons, err := resolveFile(filepath.Join(loc.BaseDir, withTOMLExt(loc.Source.Path)))
		return Result{Addons: addons}, err
	case model.SourceTypeModpack:
		return im.resolveModpack(ctx, loc)
	case model.SourceTypeFolder:
		// Reserved variant: accepted in config, yields nothing yet.
		return Result{}, nil
	case model.SourceTypeGit:
		return im.resolveGit(ctx, loc)
	case model.SourceTypeInline:
		if loc.Source.Inline == nil {
			return Result{}, fmt.Errorf("sources: inline source carries no addon")
		}
		return Result{Addons: []model.Addon{*loc.Source.Inline}}, nil
	default:
		return Result{}, fmt.Errorf("sources: unsupported source type %q", loc.Source.Type)
	}
}

func (im *Importer) resolveModpack(ctx context.Context, loc model.Located) (Result, error) {
	switch loc.Source.ModpackType {
	case model.ModpackMRPack:
		return im.resolveMRPack(ctx, loc.BaseDir, loc.Source.ModpackSource)
	case model.ModpackPackwiz:
		return im.resolvePackwiz(ctx, loc.BaseDir, loc.Source.ModpackSource)
	case model.ModpackUnsup:
		// Declared in the Source grammar but with no import rule; reject
		// loudly rather than silently skipping declared content.
		return Result{}, fmt.Errorf("sources: unsup modpack import is not implemented")
	default:
		return Result{}, fmt.Errorf("sources: unsupported modpack type %q", loc.Source.ModpackType)
	}
}

func withTOMLExt(path string) string {
	if filepath.Ext(path) == "" {
		return path + ".toml"
	}
	return path
}
