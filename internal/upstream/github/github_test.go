package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectAssetFirstOrAny(t *testing.T) {
	assets := []Asset{{Name: "server-1.0.jar"}, {Name: "server-1.0-sources.jar"}}
	a, err := selectAsset("o", "r", "v1", assets, "")
	require.NoError(t, err)
	assert.Equal(t, "server-1.0.jar", a.Name)

	a, err = selectAsset("o", "r", "v1", assets, "any")
	require.NoError(t, err)
	assert.Equal(t, "server-1.0.jar", a.Name)
}

func TestSelectAssetExactMatchWithTagSubstitution(t *testing.T) {
	assets := []Asset{{Name: "server-v1.0.jar"}, {Name: "server-v1.0-sources.jar"}}
	a, err := selectAsset("o", "r", "v1.0", assets, "server-${tag}.jar")
	require.NoError(t, err)
	assert.Equal(t, "server-v1.0.jar", a.Name)
}

func TestSelectAssetContainsFallback(t *testing.T) {
	assets := []Asset{{Name: "mcman-server-windows.exe"}, {Name: "mcman-server-linux"}}
	a, err := selectAsset("o", "r", "v1", assets, "linux")
	require.NoError(t, err)
	assert.Equal(t, "mcman-server-linux", a.Name)
}

func TestSelectAssetNotFound(t *testing.T) {
	assets := []Asset{{Name: "a.jar"}}
	_, err := selectAsset("o", "r", "v1", assets, "b.jar")
	assert.Error(t, err)
}

func TestSelectAssetEmptyListFails(t *testing.T) {
	_, err := selectAsset("o", "r", "v1", nil, "")
	assert.Error(t, err)
}

func TestSubstituteTag(t *testing.T) {
	assert.Equal(t, "server-v1.0.jar", substituteTag("server-${tag}.jar", "v1.0"))
	assert.Equal(t, "server-v1.0.jar", substituteTag("server-${version}.jar", "v1.0"))
}
