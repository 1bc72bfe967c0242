// Package github implements the GitHub releases upstream client:
// release/asset lookup with ETag-conditional re-fetching, persisted via
// the cache store's JSON side-metadata.
package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/cache"
	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace = "github"
	apiBase   = "https://api.github.com"
)

// Client is the typed GitHub releases API surface.
type Client struct {
	h     *httpx.Client
	store *cache.Store // for ETag persistence; nil disables conditional requests
}

// New constructs a GitHub client. store may be nil to disable ETag caching.
func New(store *cache.Store) *Client {
	return &Client{h: httpx.New(Namespace), store: store}
}

// Release is one GitHub release.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is one downloadable artifact attached to a Release.
type Asset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

type etagEntry struct {
	ETag string `json:"etag"`
}

// FetchReleases returns every release for owner/repo, honoring a persisted
// ETag: on a 304 it returns the last cached body instead of re-decoding.
func (c *Client) FetchReleases(ctx context.Context, owner, repo string) ([]Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases", apiBase, owner, repo)
	etagRelPath := fmt.Sprintf("%s/%s/releases.etag.json", owner, repo)
	bodyRelPath := fmt.Sprintf("%s/%s/releases.json", owner, repo)

	headers := map[string]string{}
	var prevEtag etagEntry
	if c.store != nil {
		if ok, _ := c.store.ReadJSON(Namespace, etagRelPath, &prevEtag); ok && prevEtag.ETag != "" {
			headers["If-None-Match"] = prevEtag.ETag
		}
	}

	var releases []Release
	resp, err := c.h.GetJSON(ctx, url, headers, &releases)
	if err != nil {
		return nil, err
	}

	if resp != nil && resp.StatusCode == 304 && c.store != nil {
		var cached []Release
		if ok, rerr := c.store.ReadJSON(Namespace, bodyRelPath, &cached); rerr == nil && ok {
			return cached, nil
		}
	}

	if c.store != nil && resp != nil {
		if etag := resp.Header.Get("ETag"); etag != "" {
			_ = c.store.WriteJSON(Namespace, etagRelPath, etagEntry{ETag: etag})
			_ = c.store.WriteJSON(Namespace, bodyRelPath, releases)
		}
	}
	return releases, nil
}

// resolveRelease implements "latest"/explicit tag selection.
func (c *Client) resolveRelease(ctx context.Context, owner, repo, tag string) (*Release, error) {
	releases, err := c.FetchReleases(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	if len(releases) == 0 {
		return nil, errors.VersionNotFound(Namespace, owner+"/"+repo, tag)
	}
	if tag == "" || tag == "latest" {
		return &releases[0], nil
	}
	for i := range releases {
		if releases[i].TagName == tag {
			return &releases[i], nil
		}
	}
	return nil, errors.VersionNotFound(Namespace, owner+"/"+repo, tag)
}

// selectAsset implements release asset selection:
// ""|"first"|"any" picks the first asset; otherwise the first asset whose
// name equals the (substituted) request, else the first whose name
// contains it; else AssetNotFound.
func selectAsset(owner, repo, tag string, assets []Asset, want string) (*Asset, error) {
	if len(assets) == 0 {
		return nil, errors.AssetNotFound(owner, repo, tag, want)
	}
	substituted := substituteTag(want, tag)
	if substituted == "" || substituted == "first" || substituted == "any" {
		return &assets[0], nil
	}
	for i := range assets {
		if assets[i].Name == substituted {
			return &assets[i], nil
		}
	}
	for i := range assets {
		if strings.Contains(assets[i].Name, substituted) {
			return &assets[i], nil
		}
	}
	return nil, errors.AssetNotFound(owner, repo, tag, want)
}

func substituteTag(s, tag string) string {
	r := strings.NewReplacer("${tag}", tag, "${version}", tag)
	return r.Replace(s)
}

// ResolveSteps builds the step plan for a GitHub addon.
func (c *Client) ResolveSteps(ctx context.Context, addon model.Addon) (model.Plan, error) {
	release, err := c.resolveRelease(ctx, addon.GithubOwner, addon.GithubRepo, addon.GithubTag)
	if err != nil {
		return nil, err
	}
	asset, err := selectAsset(addon.GithubOwner, addon.GithubRepo, release.TagName, release.Assets, addon.GithubAsset)
	if err != nil {
		return nil, err
	}

	meta := model.FileMeta{
		Filename: asset.Name,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("%s/%s/releases/%s/%s", addon.GithubOwner, addon.GithubRepo, release.TagName, asset.Name),
		},
		Size: ptrInt64(asset.Size),
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(asset.BrowserDownloadURL, meta),
	}, nil
}

func ptrInt64(v int64) *int64 { return &v }
