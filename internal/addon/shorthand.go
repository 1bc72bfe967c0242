// Package addon parses the compact addon reference grammar behind the
// CLI's --src flag: "modrinth:fabric-api",
// "gh:Owner/Repo,tag", "url:https://…", plus recognized registry URLs
// pasted straight from a browser. Parsing is pure; anything the grammar
// cannot classify becomes a raw URL addon instead of a prompt, since the
// interactive selection loop around it belongs to the CLI front-end.
package addon

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/maven"
)

// ParseShorthand parses one compact addon reference. Accepted forms:
//
//	modrinth:{id}[,{version}]      (alias mr:)
//	curseforge:{id}[,{file-id}]    (alias cf:)
//	hangar:{id}[,{version}]        (alias h:)
//	spigot:{id}[,{version}]        (alias spiget:)
//	github:{owner}/{repo}[,{tag}]  (aliases gh:, ghrel:)
//	maven:{repo-url}#{group:artifact:version[@packaging]}
//	url:{url}
//	http(s)://…                    (registry URLs recognized, else raw)
//
// An omitted version defaults to "latest"; a GitHub reference without a
// tag defaults to the latest release with the first asset.
func ParseShorthand(s string) (model.Addon, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Addon{}, fmt.Errorf("addon: empty reference")
	}
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return parseURL(s)
	}

	kind, rest, ok := strings.Cut(s, ":")
	if !ok {
		return model.Addon{}, fmt.Errorf("addon: cannot classify %q, want type:value", s)
	}

	id, version := splitVersion(rest)
	switch kind {
	case "mr", "modrinth":
		return model.Addon{Kind: model.SourceModrinth, ModrinthID: id, ModrinthVersion: version}, nil
	case "cf", "curseforge":
		return model.Addon{Kind: model.SourceCurseforge, CurseforgeID: id, CurseforgeVersion: version}, nil
	case "h", "hangar":
		return model.Addon{Kind: model.SourceHangar, HangarProjectID: id, HangarVersion: version}, nil
	case "spigot", "spiget":
		return model.Addon{Kind: model.SourceSpigot, SpigotResourceID: id, SpigotVersion: version}, nil
	case "gh", "ghrel", "github":
		owner, repo, ok := strings.Cut(id, "/")
		if !ok || owner == "" || repo == "" {
			return model.Addon{}, fmt.Errorf("addon: github reference %q, want owner/repo", id)
		}
		return model.Addon{
			Kind:        model.SourceGithub,
			GithubOwner: owner,
			GithubRepo:  repo,
			GithubTag:   version,
			GithubAsset: "first",
		}, nil
	case "maven":
		repoURL, coord, ok := strings.Cut(rest, "#")
		if !ok {
			return model.Addon{}, fmt.Errorf("addon: maven reference %q, want repo-url#group:artifact:version", rest)
		}
		c, err := maven.ParseCoordinate(coord)
		if err != nil {
			return model.Addon{}, err
		}
		return model.Addon{
			Kind:          model.SourceMaven,
			MavenRepo:     repoURL,
			MavenGroup:    c.GroupID,
			MavenArtifact: c.ArtifactID,
			MavenVersion:  c.Version,
		}, nil
	case "url":
		return model.Addon{Kind: model.SourceURL, URL: rest}, nil
	default:
		return model.Addon{}, fmt.Errorf("addon: unknown identifier %q", kind)
	}
}

// splitVersion splits "{id},{version}", defaulting version to "latest".
func splitVersion(s string) (id, version string) {
	id, version, ok := strings.Cut(s, ",")
	if !ok || version == "" {
		version = "latest"
	}
	return id, version
}

// parseURL classifies a pasted registry URL into a typed addon where the
// host and path shape are recognized, falling back to a raw URL addon.
func parseURL(raw string) (model.Addon, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return model.Addon{}, fmt.Errorf("addon: parse url: %w", err)
	}
	seg := pathSegments(u)

	switch strings.TrimPrefix(u.Hostname(), "www.") {
	case "cdn.modrinth.com":
		// /data/{id}/versions/{version}/{filename}
		if len(seg) >= 4 && seg[0] == "data" && seg[2] == "versions" {
			return model.Addon{Kind: model.SourceModrinth, ModrinthID: seg[1], ModrinthVersion: seg[3]}, nil
		}
	case "modrinth.com":
		// /{mod|plugin|datapack}/{id}[/version/{v}]
		if len(seg) >= 2 && (seg[0] == "mod" || seg[0] == "plugin" || seg[0] == "datapack") {
			version := "latest"
			if len(seg) >= 4 && seg[2] == "version" {
				version = seg[3]
			}
			return model.Addon{Kind: model.SourceModrinth, ModrinthID: seg[1], ModrinthVersion: version}, nil
		}
	case "spigotmc.org":
		// /resources/{name}.{id}
		if len(seg) >= 2 && seg[0] == "resources" {
			id := seg[1]
			if i := strings.LastIndexByte(id, '.'); i >= 0 {
				id = id[i+1:]
			}
			return model.Addon{Kind: model.SourceSpigot, SpigotResourceID: id, SpigotVersion: "latest"}, nil
		}
	case "github.com":
		// /{owner}/{repo}[/releases/{tag|download}/{tag}[/{filename}]]
		if len(seg) >= 2 {
			a := model.Addon{
				Kind:        model.SourceGithub,
				GithubOwner: seg[0],
				GithubRepo:  seg[1],
				GithubTag:   "latest",
				GithubAsset: "first",
			}
			if len(seg) >= 4 && seg[2] == "releases" && (seg[3] == "tag" || seg[3] == "download") && len(seg) >= 5 {
				a.GithubTag = seg[4]
				if len(seg) >= 6 {
					// Generalize the tag inside the asset name so "latest"
					// keeps matching after upstream publishes a new release.
					a.GithubAsset = strings.ReplaceAll(seg[5], a.GithubTag, "${tag}")
				}
			}
			return a, nil
		}
	}

	return model.Addon{Kind: model.SourceURL, URL: raw}, nil
}

func pathSegments(u *url.URL) []string {
	var out []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
