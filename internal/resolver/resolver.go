// Package resolver implements the Addon resolver: given an Addon,
// dispatch on its source tag to the corresponding upstream client's
// ResolveSteps and return the resulting step plan.
package resolver

import (
	"context"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/cache"
	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/curseforge"
	"github.com/paradigmmc/mcman-go/internal/upstream/github"
	"github.com/paradigmmc/mcman-go/internal/upstream/hangar"
	"github.com/paradigmmc/mcman-go/internal/upstream/jenkins"
	"github.com/paradigmmc/mcman-go/internal/upstream/maven"
	"github.com/paradigmmc/mcman-go/internal/upstream/modrinth"
	"github.com/paradigmmc/mcman-go/internal/upstream/spigot"
)

// Resolver holds one client per addon source kind able to appear in an
// Addon (the jar-flavor clients — papermc, purpur, fabric, quilt,
// forgemeta, neoforge, buildtools, vanilla — are driven directly by the
// build driver for the server jar, not dispatched here).
type Resolver struct {
	Modrinth   *modrinth.Client
	Github     *github.Client
	Hangar     *hangar.Client
	Curseforge *curseforge.Client
	Spigot     *spigot.Client
	Jenkins    *jenkins.Client
	Maven      *maven.Client
}

// New builds a Resolver wired to default clients. store enables GitHub
// ETag caching (nil disables it); curseforgeProxyURL empty uses the
// default public proxy.
func New(store *cache.Store, curseforgeProxyURL string) *Resolver {
	return &Resolver{
		Modrinth:   modrinth.New(),
		Github:     github.New(store),
		Hangar:     hangar.New(),
		Curseforge: curseforge.New(curseforgeProxyURL),
		Spigot:     spigot.New(),
		Jenkins:    jenkins.New(),
		Maven:      maven.New(),
	}
}

// Resolve dispatches addon to its upstream client and returns the
// resulting step plan. rc carries the target Minecraft
// version and loader name for clients that filter by compatibility.
func (r *Resolver) Resolve(ctx context.Context, addon model.Addon, rc model.ResolveContext) (model.Plan, error) {
	switch addon.Kind {
	case model.SourceModrinth:
		return r.Modrinth.ResolveSteps(ctx, addon, rc)
	case model.SourceGithub:
		return r.Github.ResolveSteps(ctx, addon)
	case model.SourceHangar:
		return r.Hangar.ResolveSteps(ctx, addon)
	case model.SourceCurseforge:
		return r.Curseforge.ResolveSteps(ctx, addon)
	case model.SourceSpigot:
		return r.Spigot.ResolveSteps(ctx, addon)
	case model.SourceJenkins:
		return r.Jenkins.ResolveSteps(ctx, addon.JenkinsURL, addon.JenkinsJob, addon.JenkinsBuild, addon.JenkinsArtifact)
	case model.SourceMaven:
		return r.resolveMaven(ctx, addon)
	case model.SourceURL:
		return r.resolveURL(addon)
	default:
		return nil, errors.UnknownVariant("addon.kind", string(addon.Kind))
	}
}

func (r *Resolver) resolveMaven(ctx context.Context, addon model.Addon) (model.Plan, error) {
	coord := maven.Coordinate{
		GroupID:    addon.MavenGroup,
		ArtifactID: addon.MavenArtifact,
		Version:    addon.MavenVersion,
		Packaging:  "jar",
	}
	return r.Maven.ResolveSteps(ctx, addon.MavenRepo, coord)
}

// resolveURL builds a direct, unverified download plan for a raw URL
// addon: no cache entry and no known
// hash: the bytes go straight to the output directory.
func (r *Resolver) resolveURL(addon model.Addon) (model.Plan, error) {
	filename := addon.Filename
	if filename == "" {
		filename = filenameFromURL(addon.URL)
	}
	meta := model.FileMeta{Filename: filename}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(addon.URL, meta),
	}, nil
}

func filenameFromURL(rawURL string) string {
	s, _, _ := strings.Cut(rawURL, "?")
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[i+1:]
	}
	return s
}

// TargetDir resolves the output-relative directory for addon.
func TargetDir(addon model.Addon) string {
	return addon.Target.Dir()
}
