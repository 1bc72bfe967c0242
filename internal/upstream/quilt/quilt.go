// Package quilt implements the Quilt loader upstream client. Unlike Fabric's combined-jar endpoint, Quilt's installer is a
// standalone jar that must be invoked against the server directory, so its
// plan ends with an ExecuteJava step.
package quilt

import (
	"context"
	"fmt"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace = "quilt"
	metaBase  = "https://meta.quiltmc.org/v3"
)

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

type loaderEntry struct {
	Version string `json:"version"`
}

type installerEntry struct {
	Version string `json:"version"`
}

func (c *Client) fetchLoaders(ctx context.Context, mcVersion string) ([]loaderEntry, error) {
	var versions []struct {
		Loader loaderEntry `json:"loader"`
	}
	url := fmt.Sprintf("%s/versions/loader/%s", metaBase, mcVersion)
	if _, err := c.h.GetJSON(ctx, url, nil, &versions); err != nil {
		return nil, err
	}
	out := make([]loaderEntry, len(versions))
	for i, v := range versions {
		out[i] = v.Loader
	}
	return out, nil
}

func (c *Client) fetchInstallers(ctx context.Context) ([]installerEntry, error) {
	var installers []installerEntry
	url := fmt.Sprintf("%s/versions/installer", metaBase)
	if _, err := c.h.GetJSON(ctx, url, nil, &installers); err != nil {
		return nil, err
	}
	return installers, nil
}

func resolveLatestOrExplicit(versions []string, want string) (string, error) {
	if len(versions) == 0 {
		return "", errors.VersionNotFound(Namespace, "", want)
	}
	if want == "" || want == "latest" {
		return versions[0], nil
	}
	for _, v := range versions {
		if v == want {
			return v, nil
		}
	}
	return want, nil // explicit versions not in the meta listing are trusted verbatim
}

// ResolveSteps builds the step plan for a Quilt server install: download
// the installer jar, then run it with install-server against mcVersion,
// loader.
func (c *Client) ResolveSteps(ctx context.Context, mcVersion, wantLoader, wantInstaller string) (model.Plan, error) {
	loaders, err := c.fetchLoaders(ctx, mcVersion)
	if err != nil {
		return nil, err
	}
	loaderVersions := make([]string, len(loaders))
	for i, l := range loaders {
		loaderVersions[i] = l.Version
	}
	loader, err := resolveLatestOrExplicit(loaderVersions, wantLoader)
	if err != nil {
		return nil, err
	}

	installers, err := c.fetchInstallers(ctx)
	if err != nil {
		return nil, err
	}
	installerVersions := make([]string, len(installers))
	for i, v := range installers {
		installerVersions[i] = v.Version
	}
	installer, err := resolveLatestOrExplicit(installerVersions, wantInstaller)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("quilt-installer-%s.jar", installer)
	downloadURL := fmt.Sprintf("%s/versions/installer/%s/installer-maven", metaBase, installer)
	meta := model.FileMeta{
		Filename: filename,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("installer/%s/%s", installer, filename),
		},
	}
	args := []string{
		"-jar", filename,
		"install", "server", mcVersion,
		"--loader-version", loader,
		"--install-dir", ".",
		"--download-server",
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(downloadURL, meta),
		model.ExecuteJava(args, 17, "quilt-installer"),
	}, nil
}
