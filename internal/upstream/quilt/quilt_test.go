package quilt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLatestOrExplicitPicksFirstForLatest(t *testing.T) {
	v, err := resolveLatestOrExplicit([]string{"0.21.0", "0.20.0"}, "latest")
	require.NoError(t, err)
	assert.Equal(t, "0.21.0", v)
}

func TestResolveLatestOrExplicitKnownVersion(t *testing.T) {
	v, err := resolveLatestOrExplicit([]string{"0.21.0", "0.20.0"}, "0.20.0")
	require.NoError(t, err)
	assert.Equal(t, "0.20.0", v)
}

func TestResolveLatestOrExplicitTrustsUnlistedVersion(t *testing.T) {
	v, err := resolveLatestOrExplicit([]string{"0.21.0"}, "0.19.9")
	require.NoError(t, err)
	assert.Equal(t, "0.19.9", v)
}

func TestResolveLatestOrExplicitEmptyFails(t *testing.T) {
	_, err := resolveLatestOrExplicit(nil, "latest")
	assert.Error(t, err)
}
