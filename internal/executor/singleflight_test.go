package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradigmmc/mcman-go/internal/cache"
	"github.com/paradigmmc/mcman-go/internal/model"
)

// Concurrent plans for one (namespace, path) must produce exactly one
// HTTP body fetch: the rest either see the cache hit up front or wait on
// the per-path lock and re-check.
func TestConcurrentDownloadsSameCachePathFetchOnce(t *testing.T) {
	var fetches atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write([]byte("artifact-bytes"))
	}))
	defer srv.Close()

	store, err := cache.New(t.TempDir(), nil)
	require.NoError(t, err)
	meta := model.FileMeta{
		Filename: "a.jar",
		Cache:    &model.CacheLocation{Namespace: "modrinth", RelPath: "proj/ver/a.jar"},
	}
	plan := model.Plan{model.CacheCheck(meta), model.Download(srv.URL, meta)}

	const n = 8
	outputDirs := make([]string, n)
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		outputDirs[i] = t.TempDir()
		e := New(store, outputDirs[i], nil, nil, "run-1", nil)
		wg.Add(1)
		go func(i int, e *Executor) {
			defer wg.Done()
			errs[i] = e.RunPlan(context.Background(), plan)
		}(i, e)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "plan %d", i)
	}
	assert.Equal(t, int64(1), fetches.Load())

	for _, dir := range outputDirs {
		data, err := os.ReadFile(filepath.Join(dir, "a.jar"))
		require.NoError(t, err)
		assert.Equal(t, "artifact-bytes", string(data))
	}
}
