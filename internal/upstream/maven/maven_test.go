package maven

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinateBasic(t *testing.T) {
	c, err := ParseCoordinate("com.example:mylib:1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "com.example", c.GroupID)
	assert.Equal(t, "mylib", c.ArtifactID)
	assert.Equal(t, "1.2.3", c.Version)
	assert.Equal(t, "jar", c.Packaging)
	assert.Empty(t, c.Classifier)
}

func TestParseCoordinateWithClassifierAndPackaging(t *testing.T) {
	c, err := ParseCoordinate("com.example:mylib:1.2.3:sources@zip")
	require.NoError(t, err)
	assert.Equal(t, "sources", c.Classifier)
	assert.Equal(t, "zip", c.Packaging)
}

func TestParseCoordinateRejectsMissingParts(t *testing.T) {
	_, err := ParseCoordinate("com.example:mylib")
	assert.Error(t, err)
}

func TestParseCoordinateRejectsEmptyParts(t *testing.T) {
	_, err := ParseCoordinate("com.example::1.2.3")
	assert.Error(t, err)
}

func TestCoordinateFilename(t *testing.T) {
	c := Coordinate{ArtifactID: "mylib", Version: "1.2.3", Packaging: "jar"}
	assert.Equal(t, "mylib-1.2.3.jar", c.Filename())
	c.Classifier = "sources"
	assert.Equal(t, "mylib-1.2.3-sources.jar", c.Filename())
}

func TestCoordinatePath(t *testing.T) {
	c := Coordinate{GroupID: "com.example", ArtifactID: "mylib", Version: "1.2.3", Packaging: "jar"}
	assert.Equal(t, "com/example/mylib/1.2.3/mylib-1.2.3.jar", c.Path())
}

func TestResolveStepsCachePathIncludesRepoFolder(t *testing.T) {
	c := Coordinate{GroupID: "com.example", ArtifactID: "mylib", Version: "1.2.3", Packaging: "jar"}
	plan, err := New().ResolveSteps(context.Background(), "https://repo.example.org/releases", c)
	require.NoError(t, err)
	require.Len(t, plan, 2)

	meta := plan[0].Meta
	require.NotNil(t, meta.Cache)
	// Two repositories hosting the same coordinate must not share a cache
	// entry.
	assert.Equal(t, "repo.example.org_releases/com/example/mylib/1.2.3/mylib-1.2.3.jar", meta.Cache.RelPath)
	assert.Equal(t, "https://repo.example.org/releases/com/example/mylib/1.2.3/mylib-1.2.3.jar", plan[1].URL)
}
