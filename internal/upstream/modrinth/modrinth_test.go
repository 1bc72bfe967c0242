package modrinth

import (
	"context"
	"testing"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVersionFiltersByGameVersionAndLoader(t *testing.T) {
	versions := []Version{
		{ID: "v1", ProjectID: "fabric-api", VersionNumber: "1.0", GameVersions: []string{"1.19"}, Loaders: []string{"fabric"}, Files: []File{{URL: "https://x/old.jar", Filename: "old.jar", Primary: true}}},
		{ID: "v2", ProjectID: "fabric-api", VersionNumber: "2.0", GameVersions: []string{"1.20.4"}, Loaders: []string{"fabric"}, Files: []File{{URL: "https://x/new.jar", Filename: "new.jar", Primary: true, Size: 10, Hashes: map[string]string{"sha512": "abc"}}}},
	}

	got, err := resolveVersionAgainst(context.Background(), versions, "latest", model.ResolveContext{MCVersion: "1.20.4", Loader: "fabric"})
	require.NoError(t, err)
	assert.Equal(t, "v2", got.ID)
}

func TestResolveVersionNoMatchFails(t *testing.T) {
	versions := []Version{
		{ID: "v1", GameVersions: []string{"1.19"}, Loaders: []string{"fabric"}},
	}
	_, err := resolveVersionAgainst(context.Background(), versions, "latest", model.ResolveContext{MCVersion: "1.20.4"})
	assert.Error(t, err)
}

func TestConvertHashesMapsKnownFormats(t *testing.T) {
	out := convertHashes(map[string]string{"sha1": "a", "sha512": "b", "unknown": "c"})
	assert.Equal(t, "a", out[model.HashSHA1])
	assert.Equal(t, "b", out[model.HashSHA512])
	assert.Len(t, out, 2)
}

func TestPrimaryFileFallsBackToFirst(t *testing.T) {
	files := []File{{Filename: "a.jar"}, {Filename: "b.jar", Primary: true}}
	assert.Equal(t, "b.jar", primaryFile(files).Filename)

	onlyOne := []File{{Filename: "solo.jar"}}
	assert.Equal(t, "solo.jar", primaryFile(onlyOne).Filename)
}

func TestSubstituteMCVersion(t *testing.T) {
	assert.Equal(t, "1.20.4", substituteMCVersion("${mcver}", "1.20.4"))
	assert.Equal(t, "1.20.4", substituteMCVersion("${mcversion}", "1.20.4"))
	assert.Equal(t, "2.0", substituteMCVersion("2.0", "1.20.4"))
}

func TestIsNotFoundRecognizesStatus404(t *testing.T) {
	err := errors.Wrap(assert.AnError, errors.CategoryNetwork, errors.SeverityError, "status 404 Not Found: body")
	assert.True(t, isNotFound(err))
}

func TestIsNotFoundRejectsOtherErrors(t *testing.T) {
	assert.False(t, isNotFound(assert.AnError))
	err := errors.Wrap(assert.AnError, errors.CategoryNetwork, errors.SeverityError, "status 500 Internal Server Error")
	assert.False(t, isNotFound(err))
}
