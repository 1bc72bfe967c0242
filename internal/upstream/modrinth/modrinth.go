// Package modrinth implements the Modrinth upstream client: typed
// project/version lookups plus a resolver that produces a
// CacheCheck+Download plan.
package modrinth

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace = "modrinth"
	apiBase   = "https://api.modrinth.com/v2"
)

// Client is the typed Modrinth API surface.
type Client struct {
	h *httpx.Client
}

// New constructs a Modrinth client.
func New() *Client { return &Client{h: httpx.New(Namespace)} }

// Version is one entry of a project's version list.
type Version struct {
	ID            string   `json:"id"`
	ProjectID     string   `json:"project_id"`
	VersionNumber string   `json:"version_number"`
	GameVersions  []string `json:"game_versions"`
	Loaders       []string `json:"loaders"`
	Files         []File   `json:"files"`
}

// File is one downloadable artifact attached to a Version.
type File struct {
	URL      string            `json:"url"`
	Filename string            `json:"filename"`
	Primary  bool              `json:"primary"`
	Size     int64             `json:"size"`
	Hashes   map[string]string `json:"hashes"` // "sha1", "sha512"
}

// FetchVersions returns every published version of projectID, newest first
// (Modrinth's own ordering).
func (c *Client) FetchVersions(ctx context.Context, projectID string) ([]Version, error) {
	var versions []Version
	url := fmt.Sprintf("%s/project/%s/version", apiBase, projectID)
	if _, err := c.h.GetJSON(ctx, url, nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// FetchVersion returns a single version by its own ID.
func (c *Client) FetchVersion(ctx context.Context, versionID string) (*Version, error) {
	var v Version
	url := fmt.Sprintf("%s/version/%s", apiBase, versionID)
	if _, err := c.h.GetJSON(ctx, url, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// VersionByHash looks up the Version owning a file by its sha512 digest
// (Modrinth's version_file endpoint), used by the mrpack importer to recognize a modrinth.index.json file entry as a Modrinth addon
// instead of a raw Url addon. A 404 is not an error: it means the hash is
// unrecognized, so the caller falls back to a Url addon.
func (c *Client) VersionByHash(ctx context.Context, sha512 string) (*Version, bool, error) {
	var v Version
	url := fmt.Sprintf("%s/version_file/%s?algorithm=sha512", apiBase, sha512)
	_, err := c.h.GetJSON(ctx, url, nil, &v)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &v, true, nil
}

func isNotFound(err error) bool {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return strings.Contains(e.Error(), "status 404")
	}
	return false
}

// resolveVersion implements version selection: "latest"
// resolves to the first version matching mcVersion/loader filters; an
// explicit version ID is fetched directly; ${mcver}/${mcversion} are
// substituted into explicit strings before lookup.
func (c *Client) resolveVersion(ctx context.Context, projectID, want string, rc model.ResolveContext) (*Version, error) {
	want = substituteMCVersion(want, rc.MCVersion)

	if want != "" && want != "latest" {
		// Treat as an explicit version ID first; Modrinth version IDs are
		// opaque, so a direct fetch is the correct first attempt.
		if v, err := c.FetchVersion(ctx, want); err == nil {
			return v, nil
		}
	}

	versions, err := c.FetchVersions(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return resolveVersionAgainst(ctx, versions, want, rc)
}

// resolveVersionAgainst applies the filter/selection logic over an
// already-fetched version list; factored out so selection rules are
// testable without a network round trip.
func resolveVersionAgainst(_ context.Context, versions []Version, want string, rc model.ResolveContext) (*Version, error) {
	for i := range versions {
		v := &versions[i]
		if !containsIgnoreEmpty(v.GameVersions, rc.MCVersion) {
			continue
		}
		if rc.Loader != "" && !containsIgnoreEmpty(v.Loaders, rc.Loader) {
			continue
		}
		if want == "" || want == "latest" || v.VersionNumber == want || v.ID == want {
			return v, nil
		}
	}
	projectID := ""
	if len(versions) > 0 {
		projectID = versions[0].ProjectID
	}
	return nil, errors.VersionNotFound(Namespace, projectID, want)
}

// ResolveSteps builds the step plan for a Modrinth addon.
func (c *Client) ResolveSteps(ctx context.Context, addon model.Addon, rc model.ResolveContext) (model.Plan, error) {
	v, err := c.resolveVersion(ctx, addon.ModrinthID, addon.ModrinthVersion, rc)
	if err != nil {
		return nil, err
	}
	f := primaryFile(v.Files)
	if f == nil {
		return nil, errors.AssetNotFound(addon.ModrinthID, "", v.ID, "primary file")
	}

	meta := model.FileMeta{
		Filename: f.Filename,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("%s/%s/%s", addon.ModrinthID, v.ID, f.Filename),
		},
		Size:   ptrInt64(f.Size),
		Hashes: convertHashes(f.Hashes),
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(f.URL, meta),
	}, nil
}

func primaryFile(files []File) *File {
	for i := range files {
		if files[i].Primary {
			return &files[i]
		}
	}
	if len(files) > 0 {
		return &files[0]
	}
	return nil
}

func convertHashes(in map[string]string) map[model.HashFormat]string {
	out := make(map[model.HashFormat]string, len(in))
	for k, v := range in {
		switch strings.ToLower(k) {
		case "sha1":
			out[model.HashSHA1] = v
		case "sha512":
			out[model.HashSHA512] = v
		case "sha256":
			out[model.HashSHA256] = v
		case "md5":
			out[model.HashMD5] = v
		}
	}
	return out
}

func substituteMCVersion(s, mcVersion string) string {
	r := strings.NewReplacer("${mcver}", mcVersion, "${mcversion}", mcVersion)
	return r.Replace(s)
}

func containsIgnoreEmpty(list []string, want string) bool {
	if want == "" {
		return true
	}
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func ptrInt64(v int64) *int64 { return &v }
