package mcfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadServerExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_MC_VERSION", "1.20.4")
	path := writeTemp(t, "server.toml", `
name = "survival"
port = 25565

[jar]
mc_version = "${TEST_MC_VERSION}"
server_type = "papermc"
project = "paper"
build = "latest"
`)
	doc, err := LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, "survival", doc.Name)
	assert.Equal(t, "1.20.4", doc.Jar.MCVersion)
	assert.Equal(t, "none", doc.Launcher.Preset)
	assert.NotNil(t, doc.Variables)
}

func TestLoadServerParsesBootstrapExtraExtensions(t *testing.T) {
	path := writeTemp(t, "server.toml", `
name = "survival"

[jar]
mc_version = "1.20.4"
server_type = "vanilla"

[bootstrap]
extra_extensions = ["cfg", "ini"]
`)
	doc, err := LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cfg", "ini"}, doc.Bootstrap.ExtraExtensions)
}

func TestServerJarDocToModelPaperMC(t *testing.T) {
	d := ServerJarDoc{MCVersion: "1.20.4", ServerType: "papermc", Project: "paper", Build: "123"}
	jar, err := d.ToModel()
	require.NoError(t, err)
	assert.Equal(t, model.JarPaperMC, jar.ServerType)
	assert.Equal(t, "paper", jar.PaperMCProject)
	assert.Equal(t, "123", jar.PaperMCBuild)
}

func TestServerJarDocToModelUnknownType(t *testing.T) {
	d := ServerJarDoc{ServerType: "bogus"}
	_, err := d.ToModel()
	assert.Error(t, err)
}

func TestLoadNetworkAppliesDefaults(t *testing.T) {
	path := writeTemp(t, "network.toml", `
name = "lobby-network"
proxy = "velocity"
port = 25577

[servers.lobby]
port = 25566
`)
	doc, err := LoadNetwork(path)
	require.NoError(t, err)
	assert.Equal(t, "lobby-network", doc.Name)
	assert.Equal(t, uint16(25566), doc.Servers["lobby"].Port)
	assert.NotNil(t, doc.Groups)
}

func TestLoadNetworkMissingIsError(t *testing.T) {
	_, err := LoadNetwork(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadAddonsAndToModel(t *testing.T) {
	path := writeTemp(t, "addons.toml", `
[defaults]
target = "plugins"
environment = "server"

[[addons]]
type = "modrinth"
[addons.modrinth]
id = "fabric-api"
version = "1.0"

[[addons]]
type = "url"
url = "https://example.com/plugin.jar"
target = "mods"
`)
	doc, err := LoadAddons(path)
	require.NoError(t, err)
	require.Len(t, doc.Addons, 2)

	a1, err := doc.Addons[0].ToModel(doc.Defaults)
	require.NoError(t, err)
	assert.Equal(t, model.SourceModrinth, a1.Kind)
	assert.Equal(t, "fabric-api", a1.ModrinthID)
	assert.Equal(t, "plugins", string(a1.Target.Kind))
	assert.Equal(t, model.EnvServer, a1.Environment)

	a2, err := doc.Addons[1].ToModel(doc.Defaults)
	require.NoError(t, err)
	assert.Equal(t, model.SourceURL, a2.Kind)
	assert.Equal(t, "mods", string(a2.Target.Kind))
}

func TestAddonDocToModelUnknownType(t *testing.T) {
	d := AddonDoc{Type: "bogus"}
	_, err := d.ToModel(nil)
	assert.Error(t, err)
}
