package vanilla

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest() *manifest {
	m := &manifest{}
	m.Latest.Release = "1.20.1"
	m.Latest.Snapshot = "23w31a"
	m.Versions = []manifestVersion{
		{ID: "1.20.1", URL: "https://example.com/1.20.1.json"},
		{ID: "23w31a", URL: "https://example.com/23w31a.json"},
		{ID: "1.19.4", URL: "https://example.com/1.19.4.json"},
	}
	return m
}

func TestResolveVersionURLLatestRelease(t *testing.T) {
	id, url, err := resolveVersionURL(sampleManifest(), "")
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", id)
	assert.Equal(t, "https://example.com/1.20.1.json", url)
}

func TestResolveVersionURLSnapshot(t *testing.T) {
	id, _, err := resolveVersionURL(sampleManifest(), "snapshot")
	require.NoError(t, err)
	assert.Equal(t, "23w31a", id)
}

func TestResolveVersionURLExplicit(t *testing.T) {
	id, _, err := resolveVersionURL(sampleManifest(), "1.19.4")
	require.NoError(t, err)
	assert.Equal(t, "1.19.4", id)
}

func TestResolveVersionURLNotFound(t *testing.T) {
	_, _, err := resolveVersionURL(sampleManifest(), "1.8.9")
	assert.Error(t, err)
}

func TestMatchesRulesEmptyAllows(t *testing.T) {
	assert.True(t, MatchesRules(nil))
}

func TestMatchesRulesDisallowWithoutOSNarrowing(t *testing.T) {
	assert.False(t, MatchesRules([]Rule{{Action: "disallow"}}))
}

func TestMatchesRulesLastMatchingRuleWins(t *testing.T) {
	rules := []Rule{
		{Action: "allow"},
		{Action: "disallow", OS: struct {
			Name string `json:"name"`
		}{Name: "some-unknown-os"}},
	}
	assert.True(t, MatchesRules(rules))
}
