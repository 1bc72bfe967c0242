// Package hangar implements the Hangar (PaperMC community) upstream client,
// mirroring internal/upstream/modrinth's project/version
// shape against Hangar's own v1 API.
package hangar

import (
	"context"
	"fmt"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace = "hangar"
	apiBase   = "https://hangar.papermc.io/api/v1"
)

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

// Version is one Hangar project version.
type Version struct {
	Name         string              `json:"name"`
	Downloads    map[string]Download `json:"downloads"` // keyed by platform, e.g. "PAPER"
}

// Download is one platform-specific artifact of a Version.
type Download struct {
	FileInfo struct {
		Name       string `json:"name"`
		SizeBytes  int64  `json:"sizeBytes"`
		SHA256Hash string `json:"sha256Hash"`
	} `json:"fileInfo"`
	DownloadURL string `json:"downloadUrl"`
}

func (c *Client) FetchVersions(ctx context.Context, projectID string) ([]Version, error) {
	var page struct {
		Result []Version `json:"result"`
	}
	url := fmt.Sprintf("%s/projects/%s/versions", apiBase, projectID)
	if _, err := c.h.GetJSON(ctx, url, nil, &page); err != nil {
		return nil, err
	}
	return page.Result, nil
}

func resolveVersion(versions []Version, want string) (*Version, error) {
	if want == "" || want == "latest" {
		if len(versions) == 0 {
			return nil, errors.VersionNotFound(Namespace, "", want)
		}
		return &versions[0], nil
	}
	for i := range versions {
		if versions[i].Name == want {
			return &versions[i], nil
		}
	}
	return nil, errors.VersionNotFound(Namespace, "", want)
}

// ResolveSteps builds the step plan for a Hangar addon.
func (c *Client) ResolveSteps(ctx context.Context, addon model.Addon) (model.Plan, error) {
	versions, err := c.FetchVersions(ctx, addon.HangarProjectID)
	if err != nil {
		return nil, err
	}
	v, err := resolveVersion(versions, addon.HangarVersion)
	if err != nil {
		return nil, err
	}
	dl, ok := v.Downloads["PAPER"]
	if !ok {
		for _, d := range v.Downloads {
			dl = d
			ok = true
			break
		}
	}
	if !ok {
		return nil, errors.AssetNotFound(addon.HangarProjectID, "", v.Name, "download")
	}

	meta := model.FileMeta{
		Filename: dl.FileInfo.Name,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("%s/%s/%s", addon.HangarProjectID, v.Name, dl.FileInfo.Name),
		},
		Size:   ptrInt64(dl.FileInfo.SizeBytes),
		Hashes: map[model.HashFormat]string{},
	}
	if dl.FileInfo.SHA256Hash != "" {
		meta.Hashes[model.HashSHA256] = dl.FileInfo.SHA256Hash
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(dl.DownloadURL, meta),
	}, nil
}

func ptrInt64(v int64) *int64 { return &v }
