package spigot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVersionLatestPicksLast(t *testing.T) {
	versions := []Version{{ID: 1}, {ID: 2}}
	v, err := resolveVersion(versions, "latest")
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.ID)
}

func TestResolveVersionExplicit(t *testing.T) {
	versions := []Version{{ID: 1}, {ID: 2}}
	v, err := resolveVersion(versions, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.ID)
}

func TestResolveVersionEmptyFails(t *testing.T) {
	_, err := resolveVersion(nil, "latest")
	assert.Error(t, err)
}
