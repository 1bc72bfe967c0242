// Package papermc implements the PaperMC upstream client
// against the v2 PaperMC API, covering any project it serves (paper,
// folia, velocity, waterfall).
package papermc

import (
	"context"
	"fmt"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace = "papermc"
	apiBase   = "https://api.papermc.io/v2"
)

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

type buildsResponse struct {
	Builds []int `json:"builds"`
}

type buildInfo struct {
	Downloads map[string]struct {
		Name string `json:"name"`
	} `json:"downloads"`
}

// FetchBuilds lists all build numbers published for (project, mcVersion).
func (c *Client) FetchBuilds(ctx context.Context, project, mcVersion string) ([]int, error) {
	var resp buildsResponse
	url := fmt.Sprintf("%s/projects/%s/versions/%s/builds", apiBase, project, mcVersion)
	if _, err := c.h.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Builds, nil
}

func resolveBuild(builds []int, want string) (int, error) {
	if len(builds) == 0 {
		return 0, errors.VersionNotFound(Namespace, "", want)
	}
	if want == "" || want == "latest" {
		return builds[len(builds)-1], nil
	}
	for _, b := range builds {
		if fmt.Sprint(b) == want {
			return b, nil
		}
	}
	return 0, errors.VersionNotFound(Namespace, "", want)
}

// ResolveSteps builds the step plan for a PaperMC core jar.
func (c *Client) ResolveSteps(ctx context.Context, project, mcVersion, want string) (model.Plan, error) {
	builds, err := c.FetchBuilds(ctx, project, mcVersion)
	if err != nil {
		return nil, err
	}
	build, err := resolveBuild(builds, want)
	if err != nil {
		return nil, err
	}

	var info buildInfo
	infoURL := fmt.Sprintf("%s/projects/%s/versions/%s/builds/%d", apiBase, project, mcVersion, build)
	if _, err := c.h.GetJSON(ctx, infoURL, nil, &info); err != nil {
		return nil, err
	}
	dl, ok := info.Downloads["application"]
	if !ok {
		return nil, errors.AssetNotFound(project, "", fmt.Sprint(build), "application")
	}

	downloadURL := fmt.Sprintf("%s/projects/%s/versions/%s/builds/%d/downloads/%s", apiBase, project, mcVersion, build, dl.Name)
	meta := model.FileMeta{
		Filename: dl.Name,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("%s/%s", project, dl.Name),
		},
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(downloadURL, meta),
	}, nil
}
