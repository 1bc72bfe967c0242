// Package curseforge implements the CurseForge upstream client against a
// read-only proxy service: CurseForge's own API requires a private key
// unsuited to a local tool, so access goes through a proxy the way
// community tools such as cfwidget/cursemeta do.
package curseforge

import (
	"context"
	"fmt"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace      = "curseforge"
	defaultProxyURL = "https://api.cfwidget.com"
)

// Client is the typed CurseForge-via-proxy API surface.
type Client struct {
	h        *httpx.Client
	proxyURL string
}

// New constructs a CurseForge client against proxyURL, or the default
// public proxy when empty.
func New(proxyURL string) *Client {
	if proxyURL == "" {
		proxyURL = defaultProxyURL
	}
	return &Client{h: httpx.New(Namespace), proxyURL: proxyURL}
}

// File is one uploaded file for a CurseForge project.
type File struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	FileName    string `json:"fileName"`
	DownloadURL string `json:"downloadUrl"`
	FileLength  int64  `json:"fileLength"`
	Fingerprint int64  `json:"fingerprint"` // murmur2 of the file contents
}

func (c *Client) FetchFiles(ctx context.Context, projectID string) ([]File, error) {
	var page struct {
		Files []File `json:"files"`
	}
	url := fmt.Sprintf("%s/project/%s", c.proxyURL, projectID)
	if _, err := c.h.GetJSON(ctx, url, nil, &page); err != nil {
		return nil, err
	}
	return page.Files, nil
}

func resolveFile(files []File, want string) (*File, error) {
	if want == "" || want == "latest" {
		if len(files) == 0 {
			return nil, errors.VersionNotFound(Namespace, "", want)
		}
		return &files[len(files)-1], nil // proxy returns oldest-first
	}
	for i := range files {
		if fmt.Sprint(files[i].ID) == want {
			return &files[i], nil
		}
	}
	return nil, errors.VersionNotFound(Namespace, "", want)
}

// ResolveSteps builds the step plan for a CurseForge addon.
func (c *Client) ResolveSteps(ctx context.Context, addon model.Addon) (model.Plan, error) {
	files, err := c.FetchFiles(ctx, addon.CurseforgeID)
	if err != nil {
		return nil, err
	}
	f, err := resolveFile(files, addon.CurseforgeVersion)
	if err != nil {
		return nil, err
	}

	meta := model.FileMeta{
		Filename: f.FileName,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("%s/%d/%s", addon.CurseforgeID, f.ID, f.DisplayName),
		},
		Size: ptrInt64(f.FileLength),
	}
	if f.Fingerprint != 0 {
		meta.Hashes = map[model.HashFormat]string{
			model.HashMurmur2: fmt.Sprintf("%08x", uint32(f.Fingerprint)),
		}
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(f.DownloadURL, meta),
	}, nil
}

func ptrInt64(v int64) *int64 { return &v }
