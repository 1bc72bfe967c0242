package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsEmpty(t *testing.T) {
	lf, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, lf.Version)
	assert.Empty(t, lf.BootstrappedFiles)
	assert.Empty(t, lf.Addons)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	lf := New()
	lf.RecordBootstrapped("server.properties", 123456789)
	lf.SetAddons([]ResolvedAddon{
		{
			Addon:    model.Addon{Kind: model.SourceModrinth, ModrinthID: "fabric-api", ModrinthVersion: "1.0"},
			Resolved: model.FileMeta{Filename: "fabric-api.jar"},
		},
	})
	require.NoError(t, lf.Save(dir))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Version)
	assert.Equal(t, int64(123456789), loaded.BootstrappedFiles["server.properties"].MtimeUnixNanos)
	require.Len(t, loaded.Addons, 1)
	assert.Equal(t, "fabric-api.jar", loaded.Addons[0].Resolved.Filename)
}

func TestSaveIsAtomic(t *testing.T) {
	dir := t.TempDir()
	lf := New()
	require.NoError(t, lf.Save(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestShouldSkipBootstrapRequiresMatchingMtimeAndExistingDest(t *testing.T) {
	dir := t.TempDir()
	lf := New()
	lf.RecordBootstrapped("config.yml", 42)

	dest := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(dest, []byte("x"), 0o644))

	assert.True(t, lf.ShouldSkipBootstrap("config.yml", 42, dest, false))
	assert.False(t, lf.ShouldSkipBootstrap("config.yml", 99, dest, false))
	assert.False(t, lf.ShouldSkipBootstrap("config.yml", 42, dest, true))

	require.NoError(t, os.Remove(dest))
	assert.False(t, lf.ShouldSkipBootstrap("config.yml", 42, dest, false))
}

func TestShouldSkipBootstrapUnknownFileNeverSkips(t *testing.T) {
	lf := New()
	assert.False(t, lf.ShouldSkipBootstrap("unseen.yml", 0, "/nonexistent", false))
}
