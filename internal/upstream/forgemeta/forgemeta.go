// Package forgemeta implements the Forge upstream client
// against Forge's Maven-hosted promotions metadata, downloading the
// universal installer jar and invoking it headlessly to produce the
// server-side launch jars under output_dir/libraries.
package forgemeta

import (
	"context"
	"fmt"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace      = "forge"
	promotionsURL  = "https://files.minecraftforge.net/net/minecraftforge/forge/promotions_slim.json"
	mavenBase      = "https://maven.minecraftforge.net/net/minecraftforge/forge"
)

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

type promotions struct {
	Promos map[string]string `json:"promos"` // "{mc}-recommended" / "{mc}-latest" -> forge version
}

func (c *Client) fetchPromotions(ctx context.Context) (*promotions, error) {
	var p promotions
	if _, err := c.h.GetJSON(ctx, promotionsURL, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func resolveLoaderVersion(p *promotions, mcVersion, want string) (string, error) {
	if want != "" && want != "latest" {
		return want, nil
	}
	if v, ok := p.Promos[mcVersion+"-recommended"]; ok {
		return v, nil
	}
	if v, ok := p.Promos[mcVersion+"-latest"]; ok {
		return v, nil
	}
	return "", errors.VersionNotFound(Namespace, mcVersion, want)
}

// ResolveSteps builds the step plan for a Forge server install: download
// the universal installer, then run it with --installServer.
func (c *Client) ResolveSteps(ctx context.Context, mcVersion, want string) (model.Plan, error) {
	promos, err := c.fetchPromotions(ctx)
	if err != nil {
		return nil, err
	}
	loaderVersion, err := resolveLoaderVersion(promos, mcVersion, want)
	if err != nil {
		return nil, err
	}

	full := fmt.Sprintf("%s-%s", mcVersion, loaderVersion)
	filename := fmt.Sprintf("forge-%s-installer.jar", full)
	downloadURL := fmt.Sprintf("%s/%s/%s", mavenBase, full, filename)
	meta := model.FileMeta{
		Filename: filename,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("%s/%s", full, filename),
		},
	}
	args := []string{"-jar", filename, "--installServer"}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(downloadURL, meta),
		model.ExecuteJava(args, 17, "forge-installer"),
	}, nil
}
