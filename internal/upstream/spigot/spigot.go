// Package spigot implements the Spigot upstream client,
// accessed via the Spiget API (resources.spigotmc.org has no public JSON
// API of its own). Resolved artifacts are tagged with the spiget
// namespace, never curseforge.
package spigot

import (
	"context"
	"fmt"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace = "spiget"
	apiBase   = "https://api.spiget.org/v2"
)

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New("spigot")} }

// Version is one published version of a Spigot resource.
type Version struct {
	ID int64 `json:"id"`
}

func (c *Client) FetchVersions(ctx context.Context, resourceID string) ([]Version, error) {
	var versions []Version
	url := fmt.Sprintf("%s/resources/%s/versions", apiBase, resourceID)
	if _, err := c.h.GetJSON(ctx, url, nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func resolveVersion(versions []Version, want string) (*Version, error) {
	if len(versions) == 0 {
		return nil, errors.VersionNotFound(Namespace, "", want)
	}
	if want == "" || want == "latest" {
		return &versions[len(versions)-1], nil
	}
	for i := range versions {
		if fmt.Sprint(versions[i].ID) == want {
			return &versions[i], nil
		}
	}
	return nil, errors.VersionNotFound(Namespace, "", want)
}

// ResolveSteps builds the step plan for a Spigot addon. Spiget serves the binary
// directly at /resources/{id}/download, so no separate asset-URL lookup is
// needed.
func (c *Client) ResolveSteps(ctx context.Context, addon model.Addon) (model.Plan, error) {
	versions, err := c.FetchVersions(ctx, addon.SpigotResourceID)
	if err != nil {
		return nil, err
	}
	v, err := resolveVersion(versions, addon.SpigotVersion)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%d.jar", v.ID)
	meta := model.FileMeta{
		Filename: filename,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("%s/%s", addon.SpigotResourceID, filename),
		},
	}
	downloadURL := fmt.Sprintf("%s/resources/%s/download", apiBase, addon.SpigotResourceID)
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(downloadURL, meta),
	}, nil
}
