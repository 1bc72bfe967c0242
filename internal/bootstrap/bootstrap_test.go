package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradigmmc/mcman-go/internal/lockfile"
	"github.com/paradigmmc/mcman-go/internal/vars"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRunExpandsTextExtensionsAndCopiesOthers(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(root, "server.properties"), "motd=${{SERVER_NAME}}")
	writeFile(t, filepath.Join(root, "icon.png"), "\x89PNG-binary-bytes")

	report, err := Run(context.Background(), Options{
		Roots:     []string{root},
		OutputDir: out,
		Env:       vars.Environment{ServerName: "survival"},
	})
	require.NoError(t, err)
	require.Empty(t, report.Errors())

	gotProps, err := os.ReadFile(filepath.Join(out, "server.properties"))
	require.NoError(t, err)
	assert.Equal(t, "motd=survival", string(gotProps))

	gotIcon, err := os.ReadFile(filepath.Join(out, "icon.png"))
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG-binary-bytes", string(gotIcon))
}

func TestRunExtraExtensionIsExpandable(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(root, "script.cfg"), "name=${{SERVER_NAME}}")

	report, err := Run(context.Background(), Options{
		Roots:           []string{root},
		OutputDir:       out,
		ExtraExtensions: []string{".cfg"},
		Env:             vars.Environment{ServerName: "lobby"},
	})
	require.NoError(t, err)
	require.Empty(t, report.Errors())

	got, err := os.ReadFile(filepath.Join(out, "script.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "name=lobby", string(got))
}

func TestRunLaterRootOverridesEarlierOnSameRelPath(t *testing.T) {
	global := t.TempDir()
	server := t.TempDir()
	out := t.TempDir()
	writeFile(t, filepath.Join(global, "server.properties"), "motd=global")
	writeFile(t, filepath.Join(server, "server.properties"), "motd=server-specific")

	_, err := Run(context.Background(), Options{
		Roots:     []string{global, server},
		OutputDir: out,
	})
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(out, "server.properties"))
	require.NoError(t, err)
	assert.Equal(t, "motd=server-specific", string(got))
}

func TestRunSkipsUnchangedFileWhenLockfileMatches(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	srcPath := filepath.Join(root, "server.properties")
	writeFile(t, srcPath, "motd=one")

	lf := lockfile.New()
	_, err := Run(context.Background(), Options{Roots: []string{root}, OutputDir: out, Lockfile: lf})
	require.NoError(t, err)

	// Overwrite the destination to prove a skip leaves it untouched.
	require.NoError(t, os.WriteFile(filepath.Join(out, "server.properties"), []byte("tampered"), 0o644))

	report, err := Run(context.Background(), Options{Roots: []string{root}, OutputDir: out, Lockfile: lf})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.True(t, report.Files[0].Skipped)

	got, err := os.ReadFile(filepath.Join(out, "server.properties"))
	require.NoError(t, err)
	assert.Equal(t, "tampered", string(got))
}

func TestRunForceBypassesSkip(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	srcPath := filepath.Join(root, "server.properties")
	writeFile(t, srcPath, "motd=one")

	lf := lockfile.New()
	_, err := Run(context.Background(), Options{Roots: []string{root}, OutputDir: out, Lockfile: lf})
	require.NoError(t, err)

	report, err := Run(context.Background(), Options{Roots: []string{root}, OutputDir: out, Lockfile: lf, Force: true})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.False(t, report.Files[0].Skipped)
}

func TestRunCollectsPerFileErrorsWithoutAborting(t *testing.T) {
	root := t.TempDir()
	// outputDir is a file, not a directory, so writes under it fail while
	// other files in the same run still get a chance to process.
	outFile := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(outFile, []byte("x"), 0o644))
	writeFile(t, filepath.Join(root, "a.txt"), "hello")

	report, err := Run(context.Background(), Options{Roots: []string{root}, OutputDir: outFile})
	require.NoError(t, err)
	require.Len(t, report.Files, 1)
	assert.Error(t, report.Files[0].Err)
}

func TestRunMissingRootIsSkippedNotAnError(t *testing.T) {
	out := t.TempDir()
	report, err := Run(context.Background(), Options{Roots: []string{filepath.Join(out, "does-not-exist")}, OutputDir: out})
	require.NoError(t, err)
	assert.Empty(t, report.Files)
}
