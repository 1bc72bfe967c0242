// Package fabric implements the Fabric loader upstream client against the Fabric meta API: loader/installer version lookup plus
// a download of the server launcher jar the meta API builds for that
// (mc, loader, installer) triple. Resolution produces a CacheCheck+Download
// for that jar only; the Fabric installer is not run locally, so the plan
// has no ExecuteJava step.
package fabric

import (
	"context"
	"fmt"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace = "fabric"
	metaBase  = "https://meta.fabricmc.net/v2"
)

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

type loaderEntry struct {
	Loader struct {
		Version string `json:"version"`
	} `json:"loader"`
}

type installerEntry struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

func (c *Client) fetchLoaders(ctx context.Context, mcVersion string) ([]loaderEntry, error) {
	var loaders []loaderEntry
	url := fmt.Sprintf("%s/versions/loader/%s", metaBase, mcVersion)
	if _, err := c.h.GetJSON(ctx, url, nil, &loaders); err != nil {
		return nil, err
	}
	return loaders, nil
}

func (c *Client) fetchInstallers(ctx context.Context) ([]installerEntry, error) {
	var installers []installerEntry
	url := fmt.Sprintf("%s/versions/installer", metaBase)
	if _, err := c.h.GetJSON(ctx, url, nil, &installers); err != nil {
		return nil, err
	}
	return installers, nil
}

func resolveLoader(loaders []loaderEntry, want string) (string, error) {
	if len(loaders) == 0 {
		return "", errors.VersionNotFound(Namespace, "loader", want)
	}
	if want == "" || want == "latest" {
		return loaders[0].Loader.Version, nil
	}
	for _, l := range loaders {
		if l.Loader.Version == want {
			return want, nil
		}
	}
	return "", errors.VersionNotFound(Namespace, "loader", want)
}

func resolveInstaller(installers []installerEntry, want string) (string, error) {
	if want != "" && want != "latest" {
		return want, nil
	}
	for _, i := range installers {
		if i.Stable {
			return i.Version, nil
		}
	}
	if len(installers) > 0 {
		return installers[0].Version, nil
	}
	return "", errors.VersionNotFound(Namespace, "installer", want)
}

// ResolveSteps builds the step plan for a Fabric server install. Fabric distributes a combined installer jar at
// /v2/versions/loader/{mc}/{loader}/{installer}/server/jar, which can be
// launched directly — no separate ExecuteJava invocation is required, only
// the relevant-flavor contract for launcher argument rendering.
func (c *Client) ResolveSteps(ctx context.Context, mcVersion, wantLoader, wantInstaller string) (model.Plan, error) {
	loaders, err := c.fetchLoaders(ctx, mcVersion)
	if err != nil {
		return nil, err
	}
	loader, err := resolveLoader(loaders, wantLoader)
	if err != nil {
		return nil, err
	}
	installers, err := c.fetchInstallers(ctx)
	if err != nil {
		return nil, err
	}
	installer, err := resolveInstaller(installers, wantInstaller)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("fabric-server-%s-%s-%s.jar", mcVersion, loader, installer)
	downloadURL := fmt.Sprintf("%s/versions/loader/%s/%s/%s/server/jar", metaBase, mcVersion, loader, installer)
	meta := model.FileMeta{
		Filename: filename,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("%s/%s/%s/%s", mcVersion, loader, installer, filename),
		},
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(downloadURL, meta),
	}, nil
}
