package javatool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMajorLegacyVersionString(t *testing.T) {
	major, ok := ParseMajor("1.8.0_392")
	require.True(t, ok)
	assert.Equal(t, 8, major)
}

func TestParseMajorModernVersionString(t *testing.T) {
	major, ok := ParseMajor("17.0.9")
	require.True(t, ok)
	assert.Equal(t, 17, major)

	major, ok = ParseMajor("21-ea")
	require.True(t, ok)
	assert.Equal(t, 21, major)
}

func TestProbeVersionOutputExtractsQuotedVersion(t *testing.T) {
	stderr := "openjdk version \"17.0.9\" 2023-10-17\nOpenJDK Runtime Environment\n"
	raw, ok := probeVersionOutput(stderr)
	require.True(t, ok)
	assert.Equal(t, "17.0.9", raw)
}

func TestProbeVersionOutputNoMatch(t *testing.T) {
	_, ok := probeVersionOutput("not java output at all")
	assert.False(t, ok)
}

func TestResolvePicksLowestSatisfyingMajor(t *testing.T) {
	installs := []Installation{{Path: "/a/java", Major: 21}, {Path: "/b/java", Major: 17}, {Path: "/c/java", Major: 8}}
	best, err := Resolve(installs, 16)
	require.NoError(t, err)
	assert.Equal(t, "/b/java", best.Path)
}

func TestResolvePrefersEarlierOnTie(t *testing.T) {
	installs := []Installation{{Path: "/first/java", Major: 17}, {Path: "/second/java", Major: 17}}
	best, err := Resolve(installs, 17)
	require.NoError(t, err)
	assert.Equal(t, "/first/java", best.Path)
}

func TestResolveFailsWhenNoneQualify(t *testing.T) {
	installs := []Installation{{Path: "/a/java", Major: 8}}
	_, err := Resolve(installs, 17)
	assert.Error(t, err)
}

func TestForMinecraftVersionMapping(t *testing.T) {
	assert.Equal(t, 8, ForMinecraftVersion("1.16.5"))
	assert.Equal(t, 16, ForMinecraftVersion("1.17.1"))
	assert.Equal(t, 17, ForMinecraftVersion("1.20.4"))
	assert.Equal(t, 17, ForMinecraftVersion("1.18"))
}

func TestJavaExecutableNamePerPlatform(t *testing.T) {
	assert.Equal(t, "java.exe", javaExecutableName("windows"))
	assert.Equal(t, "java", javaExecutableName("linux"))
	assert.Equal(t, "java", javaExecutableName("darwin"))
}
