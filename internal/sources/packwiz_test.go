package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePackwizFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		full := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	write("pack.toml", `
name = "Test Pack"
version = "1.0.0"

[index]
file = "index.toml"
`)
	write("index.toml", `
hash-format = "sha256"

[[files]]
file = "mods/fabric-api.pw.toml"
hash = "abc"
metafile = true

[[files]]
file = "mods/rawurl.pw.toml"
hash = "def"
metafile = true

[[files]]
file = "config/settings.txt"
hash = "ghi"
metafile = false
`)
	write("mods/fabric-api.pw.toml", `
name = "Fabric API"
filename = "fabric-api.jar"
side = "both"

[update.modrinth]
mod-id = "P7dR8mSH"
version = "abc123"
`)
	write("mods/rawurl.pw.toml", `
name = "Raw Plugin"
filename = "raw.jar"
side = "server"

[download]
url = "https://cdn.example.com/raw.jar"
`)
	write("config/settings.txt", "k=v\n")

	return dir
}

func TestResolvePackwizClassifiesMetafilesAndPassthrough(t *testing.T) {
	dir := writePackwizFixture(t)
	im := &Importer{}

	result, err := im.resolvePackwiz(context.Background(), dir, ".")
	require.NoError(t, err)
	require.Len(t, result.Addons, 3)

	modrinthAddon := result.Addons[0]
	assert.Equal(t, model.SourceModrinth, modrinthAddon.Kind)
	assert.Equal(t, "P7dR8mSH", modrinthAddon.ModrinthID)
	assert.Equal(t, model.EnvBoth, modrinthAddon.Environment)

	urlAddon := result.Addons[1]
	assert.Equal(t, model.SourceURL, urlAddon.Kind)
	assert.Equal(t, "https://cdn.example.com/raw.jar", urlAddon.URL)
	assert.Equal(t, model.EnvServer, urlAddon.Environment)

	passthrough := result.Addons[2]
	assert.Equal(t, model.SourceURL, passthrough.Kind)
	assert.Equal(t, model.TargetCustom, passthrough.Target.Kind)
	assert.Equal(t, "config/config", passthrough.Target.Path)
	assert.Equal(t, "settings.txt", passthrough.Filename)
}

func TestPackwizModToAddonRejectsModWithNoSource(t *testing.T) {
	_, err := packwizModToAddon(packwizMod{Name: "broken"})
	assert.Error(t, err)
}
