package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/upstream/jenkins"
	"github.com/paradigmmc/mcman-go/internal/upstream/maven"
)

func TestResolveURLAddonSkipsCacheAndInfersFilename(t *testing.T) {
	r := &Resolver{}
	addon := model.Addon{Kind: model.SourceURL, URL: "https://example.com/dl/plugin-1.2.3.jar?token=abc"}

	plan, err := r.Resolve(context.Background(), addon, model.ResolveContext{})
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, model.StepCacheCheck, plan[0].Kind)
	assert.Equal(t, "plugin-1.2.3.jar", plan[0].Meta.Filename)
	assert.Nil(t, plan[0].Meta.Cache)
	assert.Equal(t, model.StepDownload, plan[1].Kind)
	assert.Equal(t, addon.URL, plan[1].URL)
}

func TestResolveURLAddonHonorsExplicitFilename(t *testing.T) {
	r := &Resolver{}
	addon := model.Addon{Kind: model.SourceURL, URL: "https://example.com/dl/x", Filename: "custom.jar"}

	plan, err := r.Resolve(context.Background(), addon, model.ResolveContext{})
	require.NoError(t, err)
	assert.Equal(t, "custom.jar", plan[0].Meta.Filename)
}

func TestResolveUnknownKindFails(t *testing.T) {
	r := &Resolver{}
	addon := model.Addon{Kind: model.SourceKind("bogus")}

	_, err := r.Resolve(context.Background(), addon, model.ResolveContext{})
	assert.Error(t, err)
}

func TestResolveJenkinsAddonDispatchesWithAddonFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"builds": [{"number": 42, "result": "SUCCESS"}], "artifacts": [{"fileName": "build.jar", "relativePath": "build.jar"}]}`))
	}))
	defer srv.Close()

	r := &Resolver{Jenkins: jenkins.New()}
	addon := model.Addon{
		Kind:       model.SourceJenkins,
		JenkinsURL: srv.URL,
		JenkinsJob: "my-job",
		JenkinsBuild: "latest",
	}

	plan, err := r.Resolve(context.Background(), addon, model.ResolveContext{})
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "build.jar", plan[0].Meta.Filename)
}

func TestResolveMavenAddonBuildsCoordinateFromAddonFields(t *testing.T) {
	r := &Resolver{Maven: maven.New()}
	addon := model.Addon{
		Kind:          model.SourceMaven,
		MavenRepo:     "https://repo.example.com/maven2",
		MavenGroup:    "com.example",
		MavenArtifact: "widget",
		MavenVersion:  "1.0.0",
	}

	plan, err := r.Resolve(context.Background(), addon, model.ResolveContext{})
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "widget-1.0.0.jar", plan[0].Meta.Filename)
}

func TestTargetDirDelegatesToAddonTarget(t *testing.T) {
	addon := model.Addon{Target: model.Target{Kind: model.TargetMods}}
	assert.Equal(t, "mods", TargetDir(addon))
}

func TestFilenameFromURLStripsQueryAndPath(t *testing.T) {
	assert.Equal(t, "plugin.jar", filenameFromURL("https://cdn.example.com/a/b/plugin.jar?x=1"))
	assert.Equal(t, "plugin.jar", filenameFromURL("https://cdn.example.com/plugin.jar"))
}
