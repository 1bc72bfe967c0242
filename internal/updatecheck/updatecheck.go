// Package updatecheck periodically re-resolves "latest"-pinned addons
// against their upstreams and reports which ones have newer artifacts than
// the lockfile records. It backs the CLI's update command with a scheduled
// check instead of a one-shot poll.
package updatecheck

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/paradigmmc/mcman-go/internal/lockfile"
	"github.com/paradigmmc/mcman-go/internal/logfields"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/observer"
	"github.com/paradigmmc/mcman-go/internal/resolver"
)

// DefaultInterval is how often the scheduled checker re-polls upstreams.
const DefaultInterval = 6 * time.Hour

// Update describes one addon whose upstream has moved past the lockfile.
type Update struct {
	Addon   model.Addon
	Current model.FileMeta
	Latest  model.FileMeta
}

// Checker re-resolves lockfile addons and diffs the results.
type Checker struct {
	Resolver *resolver.Resolver
	Context  model.ResolveContext
	Observer observer.Observer
	Logger   *slog.Logger

	sched gocron.Scheduler
}

// New builds a Checker. obs may be nil.
func New(r *resolver.Resolver, rc model.ResolveContext, obs observer.Observer, logger *slog.Logger) *Checker {
	if obs == nil {
		obs = observer.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{Resolver: r, Context: rc, Observer: obs, Logger: logger}
}

// Check re-resolves every floating ("latest"-pinned) addon recorded in lf
// and returns the ones whose upstream now resolves to a different
// artifact. Explicitly pinned addons are skipped: their resolution is
// stable by definition.
func (c *Checker) Check(ctx context.Context, lf *lockfile.Lockfile) ([]Update, error) {
	var updates []Update
	for _, entry := range lf.Addons {
		if !Floating(entry.Addon) {
			continue
		}
		plan, err := c.Resolver.Resolve(ctx, entry.Addon, c.Context)
		if err != nil {
			c.Logger.Warn("update check failed for addon",
				logfields.AddonID(entry.Addon.Identity()), logfields.Err(err))
			continue
		}
		latest := planMeta(plan)
		if Outdated(entry.Resolved, latest) {
			updates = append(updates, Update{Addon: entry.Addon, Current: entry.Resolved, Latest: latest})
		}
	}
	return updates, nil
}

// Floating reports whether the addon's version field floats with the
// upstream's latest instead of naming an exact artifact.
func Floating(a model.Addon) bool {
	switch a.Kind {
	case model.SourceModrinth:
		return floats(a.ModrinthVersion)
	case model.SourceCurseforge:
		return floats(a.CurseforgeVersion)
	case model.SourceSpigot:
		return floats(a.SpigotVersion)
	case model.SourceHangar:
		return floats(a.HangarVersion)
	case model.SourceGithub:
		return floats(a.GithubTag)
	case model.SourceJenkins:
		return floats(a.JenkinsBuild)
	case model.SourceMaven:
		return floats(a.MavenVersion)
	default:
		return false
	}
}

func floats(version string) bool {
	return version == "" || version == "latest"
}

// Outdated reports whether a fresh resolution differs from the recorded
// one. The cache location is the identity to compare: same upstream
// coordinates always produce the same path, so a changed
// path means a new artifact.
func Outdated(current, latest model.FileMeta) bool {
	if latest.Filename == "" {
		return false
	}
	if current.Cache != nil && latest.Cache != nil {
		return *current.Cache != *latest.Cache
	}
	return current.Filename != latest.Filename
}

func planMeta(plan model.Plan) model.FileMeta {
	for _, s := range plan {
		if s.Meta.Filename != "" {
			return s.Meta
		}
	}
	return model.FileMeta{}
}

// Start schedules Check every interval against the lockfile loaded fresh
// from outputDir on each run, emitting a Warn event per available update.
// Stop shuts the scheduler down.
func (c *Checker) Start(ctx context.Context, outputDir string, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	c.sched = sched

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			lf, err := lockfile.Load(outputDir)
			if err != nil {
				c.Logger.Warn("update check could not load lockfile", logfields.Err(err))
				return
			}
			updates, err := c.Check(ctx, lf)
			if err != nil {
				c.Logger.Warn("update check failed", logfields.Err(err))
				return
			}
			for _, u := range updates {
				c.Observer.Emit(observer.Event{
					Kind:    observer.EventWarn,
					Stage:   "update_check",
					Label:   u.Addon.Identity(),
					Message: "newer artifact available: " + u.Latest.Filename,
				})
			}
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	return nil
}

// Stop shuts down the scheduler started by Start. Safe to call when Start
// was never called.
func (c *Checker) Stop() error {
	if c.sched == nil {
		return nil
	}
	return c.sched.Shutdown()
}
