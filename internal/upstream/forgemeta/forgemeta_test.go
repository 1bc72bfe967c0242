package forgemeta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLoaderVersionPrefersRecommended(t *testing.T) {
	p := &promotions{Promos: map[string]string{
		"1.20.1-recommended": "47.2.0",
		"1.20.1-latest":      "47.3.0",
	}}
	v, err := resolveLoaderVersion(p, "1.20.1", "latest")
	require.NoError(t, err)
	assert.Equal(t, "47.2.0", v)
}

func TestResolveLoaderVersionFallsBackToLatest(t *testing.T) {
	p := &promotions{Promos: map[string]string{
		"1.20.1-latest": "47.3.0",
	}}
	v, err := resolveLoaderVersion(p, "1.20.1", "")
	require.NoError(t, err)
	assert.Equal(t, "47.3.0", v)
}

func TestResolveLoaderVersionExplicit(t *testing.T) {
	p := &promotions{Promos: map[string]string{}}
	v, err := resolveLoaderVersion(p, "1.20.1", "47.1.0")
	require.NoError(t, err)
	assert.Equal(t, "47.1.0", v)
}

func TestResolveLoaderVersionMissingFails(t *testing.T) {
	p := &promotions{Promos: map[string]string{}}
	_, err := resolveLoaderVersion(p, "1.20.1", "latest")
	assert.Error(t, err)
}
