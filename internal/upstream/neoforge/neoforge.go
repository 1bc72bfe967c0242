// Package neoforge implements the NeoForge upstream client,
// NeoForge's fork of Forge distributed through its own Maven repository.
// Resolution mirrors forgemeta: download the universal installer, then run
// it with --installServer.
package neoforge

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const (
	Namespace    = "neoforge"
	versionsURL  = "https://maven.neoforged.net/api/maven/versions/releases/net/neoforged/neoforge"
	mavenBase    = "https://maven.neoforged.net/releases/net/neoforged/neoforge"
)

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

type versionList struct {
	IsSnapshot bool     `json:"isSnapshot"`
	Versions   []string `json:"versions"`
}

func (c *Client) fetchVersions(ctx context.Context) (*versionList, error) {
	var v versionList
	if _, err := c.h.GetJSON(ctx, versionsURL, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// resolveVersion picks the highest version whose dotted prefix matches
// mcVersion with its leading "1." stripped (NeoForge versions are "{minor}.
// {patch}.{build}", e.g. mcVersion "1.20.1" -> prefix "20.1"), or an
// explicit version string verbatim.
func resolveVersion(versions []string, mcVersion, want string) (string, error) {
	if want != "" && want != "latest" {
		return want, nil
	}
	prefix := mcVersionPrefix(mcVersion)
	var matches []string
	for _, v := range versions {
		if hasPrefixDot(v, prefix) {
			matches = append(matches, v)
		}
	}
	if len(matches) == 0 {
		return "", errors.VersionNotFound(Namespace, mcVersion, want)
	}
	sort.Slice(matches, func(i, j int) bool {
		a, b := strings.Split(matches[i], "."), strings.Split(matches[j], ".")
		for k := 0; k < len(a) && k < len(b); k++ {
			x, errX := strconv.Atoi(a[k])
			y, errY := strconv.Atoi(b[k])
			if errX == nil && errY == nil && x != y {
				return x < y
			}
			if (errX != nil || errY != nil) && a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
	return matches[len(matches)-1], nil
}

func mcVersionPrefix(mcVersion string) string {
	if len(mcVersion) > 2 && mcVersion[:2] == "1." {
		return mcVersion[2:]
	}
	return mcVersion
}

func hasPrefixDot(v, prefix string) bool {
	if len(v) < len(prefix) {
		return false
	}
	if v[:len(prefix)] != prefix {
		return false
	}
	return len(v) == len(prefix) || v[len(prefix)] == '.'
}

// ResolveSteps builds the step plan for a NeoForge server install: download
// the universal installer, then run it with --installServer.
func (c *Client) ResolveSteps(ctx context.Context, mcVersion, want string) (model.Plan, error) {
	list, err := c.fetchVersions(ctx)
	if err != nil {
		return nil, err
	}
	version, err := resolveVersion(list.Versions, mcVersion, want)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("neoforge-%s-installer.jar", version)
	downloadURL := fmt.Sprintf("%s/%s/%s", mavenBase, version, filename)
	meta := model.FileMeta{
		Filename: filename,
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   fmt.Sprintf("%s/%s", version, filename),
		},
	}
	args := []string{"-jar", filename, "--installServer"}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(downloadURL, meta),
		model.ExecuteJava(args, 17, "neoforge-installer"),
	}, nil
}
