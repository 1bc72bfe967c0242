package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradigmmc/mcman-go/internal/model"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	repoPath := t.TempDir()
	repo, err := git.PlainInit(repoPath, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(repoPath, "addons.toml"), []byte(`
[[addons]]
type = "modrinth"
[addons.modrinth]
id = "fabric-api"
version = "1.0"
`), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("addons.toml")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "t@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return repoPath
}

func TestResolveGitClonesAndResolvesNestedFileSource(t *testing.T) {
	repoPath := initTestRepo(t)
	im := New(t.TempDir())

	loc := model.Located{Source: model.Source{
		Type:    model.SourceTypeGit,
		GitURL:  repoPath,
		GitPath: "addons.toml",
	}}

	result, err := im.resolveGit(context.Background(), loc)
	require.NoError(t, err)
	require.Len(t, result.Addons, 1)
	assert.Equal(t, "fabric-api", result.Addons[0].ModrinthID)
}

func TestResolveGitReusesExistingCheckout(t *testing.T) {
	repoPath := initTestRepo(t)
	gitDir := t.TempDir()
	im := New(gitDir)

	loc := model.Located{Source: model.Source{Type: model.SourceTypeGit, GitURL: repoPath, GitPath: "addons.toml"}}

	_, err := im.resolveGit(context.Background(), loc)
	require.NoError(t, err)

	dest := filepath.Join(gitDir, cloneDirName(repoPath, ""))
	info, err := os.Stat(filepath.Join(dest, ".git"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// second resolve should reuse the checkout rather than re-cloning
	result, err := im.resolveGit(context.Background(), loc)
	require.NoError(t, err)
	require.Len(t, result.Addons, 1)
}

func TestNestedSourceFromGitPathInfersKind(t *testing.T) {
	assert.Equal(t, model.SourceTypeFile, nestedSourceFromGitPath("addons.toml").Type)
	assert.Equal(t, model.ModpackMRPack, nestedSourceFromGitPath("pack.mrpack").ModpackType)
	assert.Equal(t, model.ModpackPackwiz, nestedSourceFromGitPath("modpack/pack.toml").ModpackType)
}
