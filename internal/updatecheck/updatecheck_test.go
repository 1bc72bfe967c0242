package updatecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paradigmmc/mcman-go/internal/model"
)

func TestFloating(t *testing.T) {
	assert.True(t, Floating(model.Addon{Kind: model.SourceModrinth, ModrinthID: "fabric-api", ModrinthVersion: "latest"}))
	assert.True(t, Floating(model.Addon{Kind: model.SourceGithub, GithubOwner: "a", GithubRepo: "b", GithubTag: ""}))
	assert.False(t, Floating(model.Addon{Kind: model.SourceModrinth, ModrinthID: "fabric-api", ModrinthVersion: "0.92.0"}))
	assert.False(t, Floating(model.Addon{Kind: model.SourceURL, URL: "https://example.com/x.jar"}))
}

func TestOutdatedComparesCacheLocation(t *testing.T) {
	current := model.FileMeta{
		Filename: "fabric-api-0.91.0.jar",
		Cache:    &model.CacheLocation{Namespace: "modrinth", RelPath: "P7dR8mSH/old/fabric-api-0.91.0.jar"},
	}
	moved := model.FileMeta{
		Filename: "fabric-api-0.92.0.jar",
		Cache:    &model.CacheLocation{Namespace: "modrinth", RelPath: "P7dR8mSH/new/fabric-api-0.92.0.jar"},
	}
	assert.True(t, Outdated(current, moved))
	assert.False(t, Outdated(current, current))
}

func TestOutdatedFallsBackToFilename(t *testing.T) {
	current := model.FileMeta{Filename: "thing-1.jar"}
	latest := model.FileMeta{Filename: "thing-2.jar"}
	assert.True(t, Outdated(current, latest))
	assert.False(t, Outdated(current, model.FileMeta{Filename: "thing-1.jar"}))
}

func TestOutdatedIgnoresEmptyResolution(t *testing.T) {
	current := model.FileMeta{Filename: "thing-1.jar"}
	assert.False(t, Outdated(current, model.FileMeta{}))
}
