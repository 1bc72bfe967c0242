// Package vanilla implements the official Mojang version-manifest upstream
// client: resolve a Minecraft version against
// version_manifest_v2.json, then the version's own manifest for its
// server-jar download entry.
//
// Mojang's per-version manifest also carries OS-gated rule lists on
// library and native entries, only relevant to client installs today.
// MatchesRules evaluates that rule grammar so a future mod-loader or
// library resolver built on this package doesn't have to
// reinvent it.
package vanilla

import (
	"context"
	"runtime"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace   = "vanilla"
	manifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"
)

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

type manifest struct {
	Latest   struct{ Release, Snapshot string } `json:"latest"`
	Versions []manifestVersion                  `json:"versions"`
}

type manifestVersion struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type versionDetail struct {
	Downloads struct {
		Server download `json:"server"`
	} `json:"downloads"`
}

type download struct {
	URL  string `json:"url"`
	SHA1 string `json:"sha1"`
	Size int64  `json:"size"`
}

// Rule is one entry of a Mojang rule-conditional download list: an
// allow/disallow action, optionally narrowed to a specific OS name.
type Rule struct {
	Action string `json:"action"`
	OS     struct {
		Name string `json:"name"`
	} `json:"os"`
}

// MatchesRules applies Mojang's rule-evaluation semantics: the last rule
// whose OS constraint matches (or which has none) wins; "allow" is the
// default when no rule matches at all.
func MatchesRules(rules []Rule) bool {
	if len(rules) == 0 {
		return true
	}
	goos := hostOS()
	allowed := true
	for _, r := range rules {
		if r.OS.Name != "" && r.OS.Name != goos {
			continue
		}
		allowed = r.Action == "allow"
	}
	return allowed
}

func hostOS() string {
	switch runtime.GOOS {
	case "windows":
		return "windows"
	case "darwin":
		return "osx"
	default:
		return "linux"
	}
}

func (c *Client) fetchManifest(ctx context.Context) (*manifest, error) {
	var m manifest
	if _, err := c.h.GetJSON(ctx, manifestURL, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func resolveVersionID(m *manifest, want string) string {
	switch want {
	case "", "latest", "release":
		return m.Latest.Release
	case "snapshot":
		return m.Latest.Snapshot
	default:
		return want
	}
}

func resolveVersionURL(m *manifest, want string) (id, url string, err error) {
	id = resolveVersionID(m, want)
	for _, v := range m.Versions {
		if v.ID == id {
			return id, v.URL, nil
		}
	}
	return "", "", errors.VersionNotFound(Namespace, "", want)
}

// ResolveSteps builds the step plan for a vanilla server jar download,
// verified against the manifest's published sha1/size.
func (c *Client) ResolveSteps(ctx context.Context, want string) (model.Plan, error) {
	m, err := c.fetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	id, versionURL, err := resolveVersionURL(m, want)
	if err != nil {
		return nil, err
	}

	var detail versionDetail
	if _, err := c.h.GetJSON(ctx, versionURL, nil, &detail); err != nil {
		return nil, err
	}
	if detail.Downloads.Server.URL == "" {
		return nil, errors.AssetNotFound(Namespace, "", want, "server")
	}

	size := detail.Downloads.Server.Size
	meta := model.FileMeta{
		Filename: "server.jar",
		Size:     &size,
		Hashes: map[model.HashFormat]string{
			model.HashSHA1: detail.Downloads.Server.SHA1,
		},
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   id + "/server.jar",
		},
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(detail.Downloads.Server.URL, meta),
	}, nil
}
