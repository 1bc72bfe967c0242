package sources

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/paradigmmc/mcman-go/internal/model"
)

// resolveGit implements the GitSource variant:
// clone GitURL at GitRef into a deterministic subdirectory of
// im.GitDir, then resolve a nested File or Modpack source at GitPath
// relative to the checkout. Uses go-git's PlainClone with a branch/tag
// ReferenceName, cloned once per (url, ref) and reused by later builds
// rather than updated in place.
func (im *Importer) resolveGit(ctx context.Context, loc model.Located) (Result, error) {
	src := loc.Source
	checkout, err := im.cloneOnce(ctx, src.GitURL, src.GitRef)
	if err != nil {
		return Result{}, err
	}

	nested := model.Located{BaseDir: checkout, Source: nestedSourceFromGitPath(src.GitPath)}
	return im.Resolve(ctx, nested)
}

func (im *Importer) cloneOnce(_ context.Context, url, ref string) (string, error) {
	dir := im.GitDir
	if dir == "" {
		dir = os.TempDir()
	}
	dest := filepath.Join(dir, cloneDirName(url, ref))

	if _, err := os.Stat(filepath.Join(dest, ".git")); err == nil {
		return dest, nil
	}

	if ref == "" {
		if _, err := git.PlainClone(dest, false, &git.CloneOptions{URL: url}); err != nil {
			return "", fmt.Errorf("sources: clone %s: %w", url, err)
		}
		return dest, nil
	}

	branchOpts := &git.CloneOptions{URL: url, ReferenceName: plumbing.NewBranchReferenceName(ref), SingleBranch: true}
	if _, err := git.PlainClone(dest, false, branchOpts); err == nil {
		return dest, nil
	}
	_ = os.RemoveAll(dest)

	tagOpts := &git.CloneOptions{URL: url, ReferenceName: plumbing.NewTagReferenceName(ref), SingleBranch: true}
	if _, err := git.PlainClone(dest, false, tagOpts); err != nil {
		return "", fmt.Errorf("sources: clone %s at %s: %w", url, ref, err)
	}
	return dest, nil
}

// cloneDirName derives a stable, filesystem-safe directory name for a
// (url, ref) pair so repeated builds reuse the same checkout.
func cloneDirName(url, ref string) string {
	h := sha1.Sum([]byte(url + "@" + ref))
	return hex.EncodeToString(h[:])
}

// nestedSourceFromGitPath infers whether a cloned repo's referenced path
// is a File addon list or a Modpack manifest, since model.Source carries
// no separate tag for "what kind of source lives inside this git repo"
// (an Open Question decision: GitPath's own file extension/name decides).
func nestedSourceFromGitPath(gitPath string) model.Source {
	base := filepath.Base(gitPath)
	switch {
	case strings.HasSuffix(base, ".mrpack"):
		return model.Source{Type: model.SourceTypeModpack, ModpackType: model.ModpackMRPack, ModpackSource: gitPath}
	case base == "pack.toml":
		return model.Source{Type: model.SourceTypeModpack, ModpackType: model.ModpackPackwiz, ModpackSource: filepath.Dir(gitPath)}
	default:
		return model.Source{Type: model.SourceTypeFile, Path: gitPath}
	}
}
