// Package executor interprets a resolved step plan against an output
// directory and the content cache: one artifact realized through a
// cache-check/download/install pipeline, with every write landing
// atomically via a temp file renamed into place.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/paradigmmc/mcman-go/internal/cache"
	"github.com/paradigmmc/mcman-go/internal/javatool"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/observer"
	"github.com/paradigmmc/mcman-go/internal/upstream/httpx"
)

// Executor realizes step plans against a single output directory.
// Instances are not safe for concurrent use by multiple goroutines against
// the same OutputDir's files, but the driver builds a separate
// Executor for each addon, and addons write disjoint output files.
type Executor struct {
	Cache     *cache.Store
	OutputDir string
	Java      *javatool.Manager
	Observer  observer.Observer
	RunID     string
	Logger    *slog.Logger

	http *httpx.Client

	installsOnce sync.Once
	installs     []javatool.Installation
}

// New builds an Executor. obs may be nil (defaults to observer.Noop{}).
func New(store *cache.Store, outputDir string, java *javatool.Manager, obs observer.Observer, runID string, logger *slog.Logger) *Executor {
	if obs == nil {
		obs = observer.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		Cache:     store,
		OutputDir: outputDir,
		Java:      java,
		Observer:  obs,
		RunID:     runID,
		Logger:    logger,
		http:      httpx.New("executor"),
	}
}

// RunPlan interprets every step of plan in order, stopping early on the
// first Skip.
func (e *Executor) RunPlan(ctx context.Context, plan model.Plan) error {
	for _, step := range plan {
		result, err := e.RunStep(ctx, step)
		if err != nil {
			return err
		}
		if result == model.Skip {
			return nil
		}
	}
	return nil
}

// RunStep interprets a single step.
func (e *Executor) RunStep(ctx context.Context, step model.Step) (model.Result, error) {
	switch step.Kind {
	case model.StepCacheCheck:
		return e.cacheCheck(step.Meta)
	case model.StepDownload:
		return e.download(ctx, step.URL, step.Meta)
	case model.StepExecuteJava:
		return e.executeJava(ctx, step.Args, step.JavaVersion, step.Label)
	case model.StepRemoveFile:
		return e.removeFile(step.Meta)
	case model.StepExecute:
		return model.Continue, nil
	default:
		return model.Continue, fmt.Errorf("executor: unknown step kind %q", step.Kind)
	}
}

func (e *Executor) discoverJavaOnce(ctx context.Context) []javatool.Installation {
	e.installsOnce.Do(func() {
		e.installs = e.Java.Discover(ctx)
	})
	return e.installs
}
