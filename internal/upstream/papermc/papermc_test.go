package papermc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuildLatestIsMax(t *testing.T) {
	b, err := resolveBuild([]int{10, 11, 12}, "latest")
	require.NoError(t, err)
	assert.Equal(t, 12, b)
}

func TestResolveBuildExplicit(t *testing.T) {
	b, err := resolveBuild([]int{10, 11, 12}, "10")
	require.NoError(t, err)
	assert.Equal(t, 10, b)
}

func TestResolveBuildEmptyFails(t *testing.T) {
	_, err := resolveBuild(nil, "latest")
	assert.Error(t, err)
}
