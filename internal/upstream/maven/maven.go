// Package maven implements the generic Maven-repository upstream client,
// used by addons that name a coordinate against an
// arbitrary repository URL rather than one of the named registries.
package maven

import (
	"context"
	"fmt"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

const Namespace = "maven"

type Client struct{ h *httpx.Client }

func New() *Client { return &Client{h: httpx.New(Namespace)} }

// Coordinate is a parsed Maven artifact coordinate: group:artifact:version
// with an optional :classifier and an optional @packaging suffix (default
// packaging "jar").
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string
	Classifier string
	Packaging  string
}

// ParseCoordinate parses "group:artifact:version[:classifier][@packaging]"
// into a Coordinate.
func ParseCoordinate(s string) (Coordinate, error) {
	packaging := "jar"
	if at := strings.LastIndex(s, "@"); at != -1 {
		packaging = s[at+1:]
		s = s[:at]
	}
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return Coordinate{}, errors.New(errors.CategoryConfig, errors.SeverityError,
			fmt.Sprintf("maven: invalid coordinate %q, want group:artifact:version", s))
	}
	c := Coordinate{
		GroupID:    parts[0],
		ArtifactID: parts[1],
		Version:    parts[2],
		Packaging:  packaging,
	}
	if len(parts) >= 4 {
		c.Classifier = parts[3]
	}
	if c.GroupID == "" || c.ArtifactID == "" || c.Version == "" {
		return Coordinate{}, errors.New(errors.CategoryConfig, errors.SeverityError,
			fmt.Sprintf("maven: invalid coordinate %q, empty group/artifact/version", s))
	}
	return c, nil
}

// Filename renders the artifact's conventional filename:
// artifactId-version[-classifier].packaging.
func (c Coordinate) Filename() string {
	if c.Classifier != "" {
		return fmt.Sprintf("%s-%s-%s.%s", c.ArtifactID, c.Version, c.Classifier, c.Packaging)
	}
	return fmt.Sprintf("%s-%s.%s", c.ArtifactID, c.Version, c.Packaging)
}

// Path renders the artifact's conventional repository-relative path:
// group/with/slashes/artifactId/version/filename.
func (c Coordinate) Path() string {
	groupPath := strings.ReplaceAll(c.GroupID, ".", "/")
	return fmt.Sprintf("%s/%s/%s/%s", groupPath, c.ArtifactID, c.Version, c.Filename())
}

// ResolveSteps builds the step plan for a Maven-hosted artifact: a direct
// download from repoURL joined with the coordinate's conventional path.
// The cache path is {url-folder}/{group-slashed}/{artifact}/{version}/
// {file}, so distinct repositories hosting the same coordinate never
// collide.
func (c *Client) ResolveSteps(_ context.Context, repoURL string, coord Coordinate) (model.Plan, error) {
	downloadURL := strings.TrimRight(repoURL, "/") + "/" + coord.Path()
	meta := model.FileMeta{
		Filename: coord.Filename(),
		Cache: &model.CacheLocation{
			Namespace: Namespace,
			RelPath:   httpx.SafeURLFolder(repoURL) + "/" + coord.Path(),
		},
	}
	return model.Plan{
		model.CacheCheck(meta),
		model.Download(downloadURL, meta),
	}, nil
}
