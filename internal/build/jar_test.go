package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradigmmc/mcman-go/internal/model"
)

func TestPlanOutputFilename(t *testing.T) {
	meta := model.FileMeta{Filename: "server.jar"}
	plan := model.Plan{model.CacheCheck(meta), model.Download("http://x", meta)}
	assert.Equal(t, "server.jar", planOutputFilename(plan))
	assert.Empty(t, planOutputFilename(model.Plan{model.ExecuteJava(nil, 17, "x")}))
}

func TestLocateQuiltLaunchJar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quilt-server-launch.jar"), []byte("x"), 0o640))

	info, err := locateQuiltLaunchJar(dir)
	require.NoError(t, err)
	assert.Equal(t, "quilt-server-launch.jar", info.RelPath)
	assert.Equal(t, model.FlavorSingleJar, info.Flavor)
}

func TestLocateQuiltLaunchJarRenamedVariant(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quilt-server-1.20.4-0.21.0-launch.jar"), []byte("x"), 0o640))

	info, err := locateQuiltLaunchJar(dir)
	require.NoError(t, err)
	assert.Equal(t, "quilt-server-1.20.4-0.21.0-launch.jar", info.RelPath)
}

func TestLocateQuiltLaunchJarMissing(t *testing.T) {
	_, err := locateQuiltLaunchJar(t.TempDir())
	assert.Error(t, err)
}

func TestArgsFileLocator(t *testing.T) {
	dir := t.TempDir()
	argsDir := filepath.Join(dir, "libraries", "net", "neoforged", "neoforge", "20.4.237")
	require.NoError(t, os.MkdirAll(argsDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(argsDir, "unix_args.txt"), []byte("-jar x"), 0o640))

	info, err := argsFileLocator("libraries/net/neoforged/neoforge")(dir)
	require.NoError(t, err)
	assert.Equal(t, "libraries/net/neoforged/neoforge/20.4.237/unix_args.txt", info.RelPath)
	assert.Equal(t, model.FlavorArgsFileUnix, info.Flavor)
}

func TestArgsFileLocatorMissing(t *testing.T) {
	_, err := argsFileLocator("libraries/net/minecraftforge/forge")(t.TempDir())
	assert.Error(t, err)
}

func TestLocateBuildToolsJar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spigot-1.20.4.jar"), []byte("x"), 0o640))

	info, err := locateBuildToolsJar("spigot", "1.20.4")(dir)
	require.NoError(t, err)
	assert.Equal(t, "spigot-1.20.4.jar", info.RelPath)

	_, err = locateBuildToolsJar("craftbukkit", "1.20.4")(dir)
	assert.Error(t, err)
}
