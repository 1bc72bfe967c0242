// Package build implements the build driver: it orders
// resolution of the server jar, addons, world assets, and templated
// configuration files, interleaving installer invocations against the
// managed Java toolchain, and owns all mutation of the output tree and
// the lockfile. Addons fan out under a bounded-concurrency job loop;
// each addon's own step plan still runs strictly in sequence.
package build

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paradigmmc/mcman-go/internal/bootstrap"
	"github.com/paradigmmc/mcman-go/internal/cache"
	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/executor"
	"github.com/paradigmmc/mcman-go/internal/javatool"
	"github.com/paradigmmc/mcman-go/internal/lockfile"
	"github.com/paradigmmc/mcman-go/internal/logfields"
	"github.com/paradigmmc/mcman-go/internal/mcenv"
	"github.com/paradigmmc/mcman-go/internal/mcfg"
	"github.com/paradigmmc/mcman-go/internal/metrics"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/observer"
	"github.com/paradigmmc/mcman-go/internal/resolver"
	"github.com/paradigmmc/mcman-go/internal/retry"
	"github.com/paradigmmc/mcman-go/internal/sources"
	"github.com/paradigmmc/mcman-go/internal/upstream/buildtools"
	"github.com/paradigmmc/mcman-go/internal/upstream/fabric"
	"github.com/paradigmmc/mcman-go/internal/upstream/forgemeta"
	"github.com/paradigmmc/mcman-go/internal/upstream/neoforge"
	"github.com/paradigmmc/mcman-go/internal/upstream/papermc"
	"github.com/paradigmmc/mcman-go/internal/upstream/purpur"
	"github.com/paradigmmc/mcman-go/internal/upstream/quilt"
	"github.com/paradigmmc/mcman-go/internal/upstream/vanilla"
	"github.com/paradigmmc/mcman-go/internal/vars"
)

// DefaultConcurrency is the addon fan-out cap.
const DefaultConcurrency = 20

// Options configures one build run. Server, OutputDir, and Cache are
// required; everything else has a workable zero value.
type Options struct {
	Server    *mcfg.ServerDoc
	ServerDir string

	Network    *mcfg.NetworkDoc
	NetworkDir string

	OutputDir string

	Cache    *cache.Store
	Java     *javatool.Manager
	Observer observer.Observer
	Recorder metrics.Recorder
	Logger   *slog.Logger

	// Profile selects which addon environments are materialized; empty
	// means a server build.
	Profile model.Environment

	Concurrency int
	Force       bool
	Retry       retry.Policy

	// CurseforgeProxyURL overrides the read-only CurseForge proxy base.
	CurseforgeProxyURL string
}

// Result summarizes a successful build.
type Result struct {
	RunID   string
	Jar     JarInfo
	Addons  int
	Configs int
	Worlds  int
}

// Driver orchestrates components A-J for one server build.
type Driver struct {
	opts  Options
	runID string

	resolver *resolver.Resolver
	importer *sources.Importer

	vanilla    *vanilla.Client
	papermc    *papermc.Client
	purpur     *purpur.Client
	fabric     *fabric.Client
	quilt      *quilt.Client
	forge      *forgemeta.Client
	neoforge   *neoforge.Client
	buildtools *buildtools.Client

	lf *lockfile.Lockfile

	mu       sync.Mutex
	resolved []lockfile.ResolvedAddon
}

// New wires a Driver from opts, applying defaults for every optional
// collaborator.
func New(opts Options) *Driver {
	if opts.Observer == nil {
		opts.Observer = observer.Noop{}
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Retry == (retry.Policy{}) {
		opts.Retry = retry.DefaultPolicy()
	}
	if opts.Java == nil {
		opts.Java = javatool.New(nil, opts.Logger)
	}
	if opts.ServerDir == "" {
		opts.ServerDir = "."
	}
	return &Driver{
		opts:       opts,
		runID:      uuid.NewString(),
		resolver:   resolver.New(opts.Cache, opts.CurseforgeProxyURL),
		importer:   sources.New(filepath.Join(opts.OutputDir, ".mcman", "git")),
		vanilla:    vanilla.New(),
		papermc:    papermc.New(),
		purpur:     purpur.New(),
		fabric:     fabric.New(),
		quilt:      quilt.New(),
		forge:      forgemeta.New(),
		neoforge:   neoforge.New(),
		buildtools: buildtools.New(),
	}
}

// RunID returns this driver's build-run correlation ID, threaded through
// the driver's Observer events and its executors.
func (d *Driver) RunID() string { return d.runID }

func (d *Driver) profile() model.Environment {
	if d.opts.Profile == "" {
		return model.EnvServer
	}
	return d.opts.Profile
}

func (d *Driver) resolveContext() model.ResolveContext {
	rc := model.ResolveContext{MCVersion: d.opts.Server.Jar.MCVersion}
	switch model.ServerJarType(d.opts.Server.Jar.ServerType) {
	case model.JarFabric, model.JarQuilt, model.JarForge, model.JarNeoForge:
		rc.Loader = string(d.opts.Server.Jar.ServerType)
	}
	return rc
}

// Run executes the whole pipeline. A failed build
// returns before the lockfile is written, leaving the previous one
// unchanged.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	result, err := d.run(ctx)
	d.opts.Recorder.ObserveBuildDuration(time.Since(start))
	switch {
	case err == nil:
		d.opts.Recorder.IncBuildOutcome("success")
	case ctx.Err() != nil:
		d.opts.Recorder.IncBuildOutcome("canceled")
	default:
		d.opts.Recorder.IncBuildOutcome("failed")
	}
	return result, err
}

func (d *Driver) run(ctx context.Context) (Result, error) {
	if err := os.MkdirAll(d.opts.OutputDir, 0o750); err != nil {
		return Result{}, errors.Wrap(err, errors.CategoryIO, errors.SeverityFatal, "create output directory")
	}

	lf, err := lockfile.Load(d.opts.OutputDir)
	if err != nil {
		return Result{}, err
	}
	d.lf = lf

	// 1. Server jar.
	d.stage("server_jar")
	jar, err := d.buildServerJar(ctx)
	if err != nil {
		return Result{}, err
	}
	d.stageEnd("server_jar")

	// 2. Addons.
	d.stage("addons")
	agg, err := d.resolveSources(ctx)
	if err != nil {
		return Result{}, err
	}
	if err := d.runAddons(ctx, agg.Addons); err != nil {
		return Result{}, err
	}
	if err := d.writeConfigOverrides(agg.Configs); err != nil {
		return Result{}, err
	}
	d.stageEnd("addons")

	// 3. Worlds.
	d.stage("worlds")
	for _, world := range d.opts.Server.Worlds {
		if err := d.buildWorld(ctx, world); err != nil {
			return Result{}, err
		}
	}
	d.stageEnd("worlds")

	// 4. Bootstrap.
	d.stage("bootstrap")
	addonCount := len(agg.Addons)
	if err := d.runBootstrap(ctx, agg); err != nil {
		return Result{}, err
	}
	wrote, err := MaybeWriteEULA(d.opts.OutputDir, d.opts.Server.Launcher, jar)
	if err != nil {
		return Result{}, errors.Wrap(err, errors.CategoryIO, errors.SeverityError, "write eula.txt")
	}
	if wrote {
		d.opts.Logger.Info("wrote eula.txt, server software does not honor eula_args")
	}
	d.stageEnd("bootstrap")

	// 5. Launcher scripts.
	if !d.opts.Server.Launcher.Disable {
		if err := WriteStartScripts(d.opts.OutputDir, d.opts.Server.Name, d.opts.Server.Launcher, jar); err != nil {
			return Result{}, errors.Wrap(err, errors.CategoryIO, errors.SeverityError, "write start scripts")
		}
	}

	// 6. Lockfile, atomically, only now that every stage succeeded.
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	d.lf.SetAddons(d.snapshotResolved())
	if err := d.lf.Save(d.opts.OutputDir); err != nil {
		return Result{}, err
	}

	return Result{
		RunID:   d.runID,
		Jar:     jar,
		Addons:  addonCount,
		Configs: len(agg.Configs),
		Worlds:  len(d.opts.Server.Worlds),
	}, nil
}

func (d *Driver) buildServerJar(ctx context.Context) (JarInfo, error) {
	var plan model.Plan
	var locate jarLocator
	err := d.withRetry(ctx, "server_jar:resolve", func() error {
		var err error
		plan, locate, err = d.resolveJarPlan(ctx)
		return err
	})
	if err != nil {
		return JarInfo{}, err
	}

	exec := d.executorFor(d.opts.OutputDir)
	if err := d.withRetry(ctx, "server_jar:steps", func() error {
		return exec.RunPlan(ctx, plan)
	}); err != nil {
		return JarInfo{}, err
	}

	info, err := locate(d.opts.OutputDir)
	if err != nil {
		return JarInfo{}, err
	}
	jarModel, err := d.opts.Server.Jar.ToModel()
	if err != nil {
		return JarInfo{}, err
	}
	info.Software = jarModel.Software()
	info.SupportsEULAArgs = jarModel.SupportsEULAArgs()
	return info, nil
}

func (d *Driver) resolveSources(ctx context.Context) (sources.Result, error) {
	var groups []string
	if d.opts.Network != nil {
		if entry, ok := d.opts.Network.Servers[d.opts.Server.Name]; ok {
			groups = entry.Groups
		}
	}
	located := sources.Aggregate(d.opts.Network, d.opts.NetworkDir, groups, d.opts.Server, d.opts.ServerDir)

	var agg sources.Result
	err := d.withRetry(ctx, "sources", func() error {
		var err error
		agg, err = d.importer.ResolveAll(ctx, located)
		return err
	})
	if err != nil {
		return sources.Result{}, err
	}

	kept := agg.Addons[:0]
	for _, a := range agg.Addons {
		if a.Environment.AppliesTo(d.profile()) {
			kept = append(kept, a)
		}
	}
	agg.Addons = kept
	return agg, nil
}

// runAddons fans addon step plans out under the concurrency cap while
// preserving per-addon step ordering. On
// cancellation no new addons are scheduled; in-flight ones finish or time
// out on their own request deadlines.
func (d *Driver) runAddons(ctx context.Context, addons []model.Addon) error {
	d.opts.Recorder.SetAddonConcurrency(d.opts.Concurrency)

	sem := make(chan struct{}, d.opts.Concurrency)
	var wg sync.WaitGroup

	var mu sync.Mutex
	var firstErr error

	for _, a := range addons {
		if ctx.Err() != nil {
			break
		}
		mu.Lock()
		stop := firstErr != nil
		mu.Unlock()
		if stop {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(a model.Addon) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := d.runAddon(ctx, a); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(a)
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// runAddon resolves one addon and runs its plan into the target directory
// derived from addon.Target, with the retry policy around both halves.
func (d *Driver) runAddon(ctx context.Context, a model.Addon) error {
	start := time.Now()
	var plan model.Plan
	err := d.withRetry(ctx, "addon:resolve", func() error {
		var err error
		plan, err = d.resolver.Resolve(ctx, a, d.resolveContext())
		return err
	})
	d.opts.Recorder.ObserveResolveDuration(string(a.Kind), time.Since(start))
	if err != nil {
		return err
	}

	targetDir := filepath.Join(d.opts.OutputDir, filepath.FromSlash(resolver.TargetDir(a)))
	exec := d.executorFor(targetDir)
	if err := d.withRetry(ctx, "addon:steps", func() error {
		return exec.RunPlan(ctx, plan)
	}); err != nil {
		return err
	}

	d.recordResolved(a, plan)
	return nil
}

// recordResolved remembers the FileMeta an addon's plan produced for the
// lockfile.
func (d *Driver) recordResolved(a model.Addon, plan model.Plan) {
	var meta model.FileMeta
	for _, s := range plan {
		if s.Meta.Filename != "" {
			meta = s.Meta
			break
		}
	}
	d.mu.Lock()
	d.resolved = append(d.resolved, lockfile.ResolvedAddon{Addon: a, Resolved: meta})
	d.mu.Unlock()
}

func (d *Driver) snapshotResolved() []lockfile.ResolvedAddon {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]lockfile.ResolvedAddon, len(d.resolved))
	copy(out, d.resolved)
	return out
}

func (d *Driver) writeConfigOverrides(overrides []sources.ConfigOverride) error {
	for _, o := range overrides {
		target := filepath.Join(d.opts.OutputDir, filepath.FromSlash(o.RelPath))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(target, o.Content, 0o640); err != nil {
			return errors.Wrap(err, errors.CategoryIO, errors.SeverityError, "write modpack override "+o.RelPath)
		}
	}
	return nil
}

// runBootstrap computes the layered config roots (network global, each of
// the server's groups, then the server's own config) and runs the
// bootstrapper over them. Per-file failures are warnings,
// not build failures.
func (d *Driver) runBootstrap(ctx context.Context, agg sources.Result) error {
	var roots []string
	if d.opts.Network != nil {
		roots = append(roots, filepath.Join(d.opts.NetworkDir, "groups", "global", "config"))
		if entry, ok := d.opts.Network.Servers[d.opts.Server.Name]; ok {
			for _, g := range entry.Groups {
				if g == "global" {
					continue
				}
				roots = append(roots, filepath.Join(d.opts.NetworkDir, "groups", g, "config"))
			}
		}
	}
	roots = append(roots, filepath.Join(d.opts.ServerDir, "config"))

	existing := roots[:0]
	for _, r := range roots {
		if info, err := os.Stat(r); err == nil && info.IsDir() {
			existing = append(existing, r)
		}
	}

	report, err := bootstrap.Run(ctx, bootstrap.Options{
		Roots:           existing,
		OutputDir:       d.opts.OutputDir,
		ExtraExtensions: d.opts.Server.Bootstrap.ExtraExtensions,
		Env:             d.varsEnvironment(agg),
		Lockfile:        d.lf,
		Force:           d.opts.Force,
		Observer:        d.opts.Observer,
	})
	if err != nil {
		return err
	}
	for _, ferr := range report.Errors() {
		d.opts.Logger.Warn("bootstrap file failed", logfields.Err(ferr))
		d.opts.Observer.Emit(observer.Event{
			Kind: observer.EventWarn, RunID: d.runID, Stage: "bootstrap", Err: ferr,
		})
	}
	return nil
}

// varsEnvironment assembles the layered expansion context
// from the loaded server/network docs and the aggregated addon list.
func (d *Driver) varsEnvironment(agg sources.Result) vars.Environment {
	env := vars.Environment{
		ServerVariables: d.opts.Server.Variables,
		ServerName:      d.opts.Server.Name,
		ServerVersion:   d.opts.Server.Jar.MCVersion,
		WorldCount:      len(d.opts.Server.Worlds),
	}
	if d.opts.Server.Port != nil {
		env.ServerPort = *d.opts.Server.Port
	}
	for _, a := range agg.Addons {
		switch a.Target.Kind {
		case model.TargetPlugins:
			env.PluginCount++
		case model.TargetMods:
			env.ModCount++
		}
	}
	if d.opts.Network != nil {
		env.NetworkVariables = d.opts.Network.Variables
		env.NetworkName = d.opts.Network.Name
		env.NetworkPort = int(d.opts.Network.Port)
		if entry, ok := d.opts.Network.Servers[d.opts.Server.Name]; ok {
			if entry.IPAddress != "" {
				env.ServerIP = entry.IPAddress
			}
			if env.ServerPort == 0 {
				env.ServerPort = int(entry.Port)
			}
		}
		for name, s := range d.opts.Network.Servers {
			env.NetworkServers = append(env.NetworkServers, vars.NetworkServerInfo{
				Name:      name,
				IPAddress: s.IPAddress,
				Port:      int(s.Port),
			})
		}
	}
	return env
}

func (d *Driver) executorFor(dir string) *executor.Executor {
	return executor.New(d.opts.Cache, dir, d.opts.Java, d.opts.Observer, d.runID, d.opts.Logger)
}

// withRetry retries resolution/integrity failures (and transient network
// failures) with linear backoff up to MAX_TRIES; everything else fails
// immediately.
func (d *Driver) withRetry(ctx context.Context, stage string, fn func() error) error {
	maxTries := mcenv.MaxTries(d.opts.Retry.MaxRetries)
	var lastErr error
	for attempt := 1; attempt <= maxTries; attempt++ {
		if delay := d.opts.Retry.Delay(attempt); delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}
		if !retryableFailure(lastErr) {
			return lastErr
		}
		d.opts.Recorder.IncRetry(stage)
		d.opts.Logger.Warn("retrying after failure",
			logfields.Stage(stage), logfields.Attempt(attempt), logfields.Err(lastErr))
	}
	d.opts.Recorder.IncRetryExhausted(stage)
	return lastErr
}

// retryableFailure: any resolution or
// integrity error is retried, as is anything explicitly marked retryable
// (transient network failures); config/IO/installer errors abort at once.
func retryableFailure(err error) bool {
	return errors.IsRetryable(err) ||
		errors.IsCategory(err, errors.CategoryResolution) ||
		errors.IsCategory(err, errors.CategoryIntegrity)
}

func (d *Driver) stage(name string) {
	d.opts.Observer.Emit(observer.Event{
		Kind: observer.EventStageStart, RunID: d.runID, Stage: name, Server: d.opts.Server.Name,
	})
}

func (d *Driver) stageEnd(name string) {
	d.opts.Observer.Emit(observer.Event{
		Kind: observer.EventStageEnd, RunID: d.runID, Stage: name, Server: d.opts.Server.Name,
	})
}
