// Package buildtools implements the CraftBukkit/Spigot BuildTools upstream
// client. BuildTools is not a registry with version
// metadata to query: it is a fixed jar downloaded from SpigotMC's Hub and
// invoked locally with --rev {mcVersion} to compile the server jar from
// source, so resolution is a constant download plus an ExecuteJava step.
package buildtools

import (
	"context"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace   = "buildtools"
	downloadURL = "https://hub.spigotmc.org/jenkins/job/BuildTools/lastSuccessfulBuild/artifact/target/BuildTools.jar"
	filename    = "BuildTools.jar"
)

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

// ResolveSteps builds the step plan for a CraftBukkit/Spigot build: download
// the current BuildTools.jar, then run it against mcVersion with any
// extraArgs the server doc supplied. Java
// 17 is BuildTools' own minimum for modern Minecraft versions; it compiles
// the server jar with whatever JDK the resulting build needs on a separate
// javatool lookup.
func (c *Client) ResolveSteps(ctx context.Context, mcVersion, variant string, extraArgs []string) (model.Plan, error) {
	if variant == "" {
		variant = "spigot"
	}
	meta := model.FileMeta{
		Filename: filename,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   "BuildTools.jar",
		},
	}
	args := []string{"-jar", filename, "--rev", mcVersion}
	switch variant {
	case "craftbukkit":
		args = append(args, "--compile", "craftbukkit")
	case "spigot", "":
		// BuildTools compiles Spigot by default; no extra flag needed.
	default:
		args = append(args, "--compile", variant)
	}
	args = append(args, extraArgs...)
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(downloadURL, meta),
		model.ExecuteJava(args, 17, "buildtools"),
	}, nil
}
