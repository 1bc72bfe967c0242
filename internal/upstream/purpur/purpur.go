// Package purpur implements the Purpur upstream client
// against Purpur's own v2 API, mirroring internal/upstream/papermc's
// build-resolution shape for Purpur's single-project API surface.
package purpur

import (
	"context"
	"fmt"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace = "purpur"
	apiBase   = "https://api.purpurmc.org/v2/purpur"
)

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

type versionInfo struct {
	Builds struct {
		Latest string   `json:"latest"`
		All    []string `json:"all"`
	} `json:"builds"`
}

func (c *Client) fetchVersionInfo(ctx context.Context, mcVersion string) (*versionInfo, error) {
	var info versionInfo
	url := fmt.Sprintf("%s/%s", apiBase, mcVersion)
	if _, err := c.h.GetJSON(ctx, url, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func resolveBuild(info *versionInfo, want string) (string, error) {
	if want == "" || want == "latest" {
		if info.Builds.Latest == "" {
			return "", errors.VersionNotFound(Namespace, "", want)
		}
		return info.Builds.Latest, nil
	}
	for _, b := range info.Builds.All {
		if b == want {
			return b, nil
		}
	}
	return "", errors.VersionNotFound(Namespace, "", want)
}

// ResolveSteps builds the step plan for a Purpur core jar.
func (c *Client) ResolveSteps(ctx context.Context, mcVersion, want string) (model.Plan, error) {
	info, err := c.fetchVersionInfo(ctx, mcVersion)
	if err != nil {
		return nil, err
	}
	build, err := resolveBuild(info, want)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("purpur-%s-%s.jar", mcVersion, build)
	downloadURL := fmt.Sprintf("%s/%s/%s/download", apiBase, mcVersion, build)
	meta := model.FileMeta{
		Filename: filename,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   filename,
		},
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(downloadURL, meta),
	}, nil
}
