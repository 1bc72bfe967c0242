package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFileAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "addons.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[defaults]
target = "plugins"
environment = "server"

[[addons]]
type = "modrinth"
[addons.modrinth]
id = "fabric-api"
version = "latest"

[[addons]]
type = "url"
url = "https://example.com/plugin.jar"
target = "mods"
`), 0o644))

	addons, err := resolveFile(path)
	require.NoError(t, err)
	require.Len(t, addons, 2)
	assert.Equal(t, model.SourceModrinth, addons[0].Kind)
	assert.Equal(t, "plugins", string(addons[0].Target.Kind))
	assert.Equal(t, model.EnvServer, addons[0].Environment)
	assert.Equal(t, "mods", string(addons[1].Target.Kind))
}

func TestResolveFileMissingIsError(t *testing.T) {
	_, err := resolveFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestWithTOMLExtAppendsOnlyWhenMissing(t *testing.T) {
	assert.Equal(t, "addons.toml", withTOMLExt("addons"))
	assert.Equal(t, "addons.toml", withTOMLExt("addons.toml"))
	assert.Equal(t, "addons.json", withTOMLExt("addons.json"))
}
