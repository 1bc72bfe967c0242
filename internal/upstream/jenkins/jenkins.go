// Package jenkins implements the generic Jenkins CI upstream client,
// used by addons that name a Jenkins job on an arbitrary
// server and pick one of its build artifacts.
package jenkins

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const Namespace = "jenkins"

// successResult is the only build result eligible for artifact resolution.
const successResult = "SUCCESS"

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

type buildItem struct {
	Number int    `json:"number"`
	Result string `json:"result"`
}

type buildList struct {
	Builds []buildItem `json:"builds"`
}

type buildDetail struct {
	Artifacts []artifact `json:"artifacts"`
}

type artifact struct {
	FileName     string `json:"fileName"`
	RelativePath string `json:"relativePath"`
}

func (c *Client) fetchBuilds(ctx context.Context, serverURL, job string) ([]buildItem, error) {
	url := fmt.Sprintf("%s/job/%s/api/json?tree=builds[number,result]",
		strings.TrimRight(serverURL, "/"), job)
	var list buildList
	if _, err := c.h.GetJSON(ctx, url, nil, &list); err != nil {
		return nil, err
	}
	return list.Builds, nil
}

func (c *Client) fetchArtifacts(ctx context.Context, serverURL, job string, number int) ([]artifact, error) {
	url := fmt.Sprintf("%s/job/%s/%d/api/json?tree=artifacts[fileName,relativePath]",
		strings.TrimRight(serverURL, "/"), job, number)
	var detail buildDetail
	if _, err := c.h.GetJSON(ctx, url, nil, &detail); err != nil {
		return nil, err
	}
	return detail.Artifacts, nil
}

// resolveBuild picks a build from the job's list: only builds whose result
// is SUCCESS are eligible, "latest" means the first such build, and an
// explicit number must name one of them.
func resolveBuild(builds []buildItem, job, want string) (int, error) {
	var successes []buildItem
	for _, b := range builds {
		if b.Result == successResult {
			successes = append(successes, b)
		}
	}
	if want == "" || want == "latest" {
		if len(successes) == 0 {
			return 0, errors.VersionNotFound(Namespace, job, want)
		}
		return successes[0].Number, nil
	}
	for _, b := range successes {
		if strconv.Itoa(b.Number) == want {
			return b.Number, nil
		}
	}
	return 0, errors.VersionNotFound(Namespace, job, want)
}

// selectArtifact picks the artifact whose filename matches want exactly, or
// contains want as a substring, or — when want is empty — the sole
// artifact if there is exactly one.
func selectArtifact(artifacts []artifact, want string) (*artifact, error) {
	if want == "" {
		if len(artifacts) == 1 {
			return &artifacts[0], nil
		}
		return nil, errors.AssetNotFound(Namespace, "", "", "")
	}
	for i := range artifacts {
		if artifacts[i].FileName == want {
			return &artifacts[i], nil
		}
	}
	for i := range artifacts {
		if strings.Contains(artifacts[i].FileName, want) {
			return &artifacts[i], nil
		}
	}
	return nil, errors.AssetNotFound(Namespace, "", "", want)
}

// ResolveSteps builds the step plan for a Jenkins-hosted artifact download.
// The cache path is {url-folder}/{job}/{build}/{filename}, so the same job
// name on two different Jenkins servers never collides.
func (c *Client) ResolveSteps(ctx context.Context, serverURL, job, build, artifactName string) (model.Plan, error) {
	builds, err := c.fetchBuilds(ctx, serverURL, job)
	if err != nil {
		return nil, err
	}
	number, err := resolveBuild(builds, job, build)
	if err != nil {
		return nil, err
	}
	artifacts, err := c.fetchArtifacts(ctx, serverURL, job, number)
	if err != nil {
		return nil, err
	}
	a, err := selectArtifact(artifacts, artifactName)
	if err != nil {
		return nil, err
	}

	downloadURL := fmt.Sprintf("%s/job/%s/%d/artifact/%s",
		strings.TrimRight(serverURL, "/"), job, number, a.RelativePath)
	meta := model.FileMeta{
		Filename: a.FileName,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("%s/%s/%d/%s", httpx.SafeURLFolder(serverURL), job, number, a.FileName),
		},
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(downloadURL, meta),
	}, nil
}
