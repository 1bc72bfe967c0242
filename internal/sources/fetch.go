package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

// fetchBytes reads src fully, either from the local filesystem or over
// HTTP(S), depending on its scheme.
func fetchBytes(ctx context.Context, h *httpx.Client, src string) ([]byte, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		var buf strings.Builder
		if _, _, err := h.DownloadFile(ctx, src, &buf); err != nil {
			return nil, fmt.Errorf("sources: download %s: %w", src, err)
		}
		return []byte(buf.String()), nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("sources: read %s: %w", src, err)
	}
	return data, nil
}

// joinSource resolves a relative reference (e.g. pack.toml's index.path,
// or a relative download URL) against base, which is itself either a
// local directory/file path or a base URL.
func joinSource(base, ref string) string {
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		baseNoFile := base
		if i := strings.LastIndex(baseNoFile, "/"); i >= 0 {
			baseNoFile = baseNoFile[:i]
		}
		return baseNoFile + "/" + strings.TrimPrefix(ref, "/")
	}
	dir := base
	if fi, err := os.Stat(base); err == nil && !fi.IsDir() {
		dir = dirOf(base)
	}
	return dir + string(os.PathSeparator) + ref
}

// resolveSourceRef resolves a Modpack/Git source reference against baseDir:
// URLs and absolute local paths pass through unchanged; anything else is
// joined under baseDir, the same convention the File source uses for its
// own path.
func resolveSourceRef(baseDir, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(baseDir, ref)
}

func dirOf(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[:i]
	}
	return "."
}
