package sources

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestMRPack(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	index := `{
		"game": "minecraft",
		"name": "Test Pack",
		"versionId": "1.0.0",
		"files": [
			{
				"path": "mods/example.jar",
				"hashes": {"sha512": "deadbeef"},
				"env": {"client": "required", "server": "required"},
				"downloads": ["https://cdn.example.com/example.jar"]
			},
			{
				"path": "mods/clientonly.jar",
				"hashes": {"sha512": "cafebabe"},
				"env": {"client": "required", "server": "unsupported"},
				"downloads": ["https://cdn.example.com/clientonly.jar"]
			}
		]
	}`
	w, err := zw.Create("modrinth.index.json")
	require.NoError(t, err)
	_, err = w.Write([]byte(index))
	require.NoError(t, err)

	w, err = zw.Create("overrides/config/base.yml")
	require.NoError(t, err)
	_, err = w.Write([]byte("base: true\n"))
	require.NoError(t, err)

	w, err = zw.Create("server-overrides/config/base.yml")
	require.NoError(t, err)
	_, err = w.Write([]byte("base: server\n"))
	require.NoError(t, err)

	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "pack.mrpack")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestResolveMRPackFiltersUnsupportedAndFallsBackToURL(t *testing.T) {
	path := buildTestMRPack(t)
	im := &Importer{}

	result, err := im.resolveMRPack(context.Background(), filepath.Dir(path), filepath.Base(path))
	require.NoError(t, err)

	require.Len(t, result.Addons, 1)
	assert.Equal(t, model.SourceURL, result.Addons[0].Kind)
	assert.Equal(t, "https://cdn.example.com/example.jar", result.Addons[0].URL)
	assert.Equal(t, model.TargetMods, result.Addons[0].Target.Kind)
}

func TestResolveMRPackServerOverrideWinsOverOverride(t *testing.T) {
	path := buildTestMRPack(t)
	im := &Importer{}

	result, err := im.resolveMRPack(context.Background(), filepath.Dir(path), filepath.Base(path))
	require.NoError(t, err)

	require.Len(t, result.Configs, 1)
	assert.Equal(t, "config/base.yml", result.Configs[0].RelPath)
	assert.Equal(t, "base: server\n", string(result.Configs[0].Content))
}

func TestTargetForPathInfersTopLevelDir(t *testing.T) {
	assert.Equal(t, model.TargetMods, targetForPath("mods/foo.jar").Kind)
	assert.Equal(t, model.TargetPlugins, targetForPath("plugins/foo.jar").Kind)
	custom := targetForPath("resourcepacks/foo.zip")
	assert.Equal(t, model.TargetCustom, custom.Kind)
	assert.Equal(t, "resourcepacks", custom.Path)
}
