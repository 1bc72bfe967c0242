// Command mcman is the thin CLI over the build core: flag parsing and
// wiring only, no business logic. The interactive front-end proper is an
// external collaborator; this driver exists so the core is reachable
// end-to-end.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	natsgo "github.com/nats-io/nats.go"

	"github.com/paradigmmc/mcman-go/internal/addon"
	"github.com/paradigmmc/mcman-go/internal/build"
	"github.com/paradigmmc/mcman-go/internal/cache"
	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/javatool"
	"github.com/paradigmmc/mcman-go/internal/lockfile"
	"github.com/paradigmmc/mcman-go/internal/mcenv"
	"github.com/paradigmmc/mcman-go/internal/mcfg"
	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/paradigmmc/mcman-go/internal/observer"
	"github.com/paradigmmc/mcman-go/internal/resolver"
	"github.com/paradigmmc/mcman-go/internal/sources"
	"github.com/paradigmmc/mcman-go/internal/supervisor"
	"github.com/paradigmmc/mcman-go/internal/updatecheck"
)

// Set at build time with: -ldflags "-X main.version=..."
var version = "dev"

// CLI is the root command definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Server config file path" default:"server.toml"`
	Output  string           `short:"o" help:"Output directory" default:"server"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Src     []string         `name:"src" help:"Append an ad-hoc addon source (type:value shorthand)"`
	NatsURL string           `name:"events-nats" help:"Publish build events to this NATS server" env:"MCMAN_NATS_URL"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init    InitCmd    `cmd:"" help:"Initialize a new server.toml"`
	Build   BuildCmd   `cmd:"" help:"Resolve and materialize the server directory"`
	Run     RunCmd     `cmd:"" help:"Build, then launch and supervise the server"`
	Java    JavaCmd    `cmd:"" help:"List discovered Java installations"`
	Update  UpdateCmd  `cmd:"" help:"Check latest-pinned addons for newer artifacts"`
	Sources SourcesCmd `cmd:"" help:"Inspect declared sources"`
}

// AfterApply sets up logging once flags are parsed.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose || mcenv.Debug() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// project is everything the subcommands need loaded from disk.
type project struct {
	Server     *mcfg.ServerDoc
	ServerDir  string
	Network    *mcfg.NetworkDoc
	NetworkDir string
	Cache      *cache.Store
	Observer   observer.Observer
	natsConn   *natsgo.Conn
}

func (p *project) close() {
	if p.natsConn != nil {
		p.natsConn.Close()
	}
}

func loadProject(root *CLI) (*project, error) {
	mcenv.Load()

	server, err := mcfg.LoadServer(root.Config)
	if err != nil {
		return nil, err
	}
	serverDir := filepath.Dir(root.Config)

	for _, s := range root.Src {
		a, err := addon.ParseShorthand(s)
		if err != nil {
			return nil, err
		}
		server.Sources = append(server.Sources, adHocSource(a))
	}

	p := &project{Server: server, ServerDir: serverDir}

	// network.toml is an optional sibling of server.toml or of its parent
	// directory (multi-server layouts keep servers/<name>/server.toml
	// under the network root).
	for _, dir := range []string{serverDir, filepath.Dir(filepath.Dir(filepath.Clean(root.Config)))} {
		netPath := filepath.Join(dir, "network.toml")
		network, err := mcfg.LoadNetwork(netPath)
		if err == nil {
			p.Network = network
			p.NetworkDir = dir
			break
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	store, err := cache.Open(slog.Default())
	if err != nil {
		return nil, err
	}
	p.Cache = store

	obs := observer.Multi{observer.NewLog(slog.Default())}
	if root.NatsURL != "" {
		conn, err := natsgo.Connect(root.NatsURL)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryNetwork, errors.SeverityError, "connect to NATS")
		}
		p.natsConn = conn
		obs = append(obs, observer.NewNATS(conn, "mcman.events", slog.Default()))
	}
	p.Observer = obs
	return p, nil
}

// adHocSource wraps a parsed --src addon as an in-memory inline source,
// appended to the server's source list without mutating server.toml on
// disk.
func adHocSource(a model.Addon) mcfg.SourceDoc {
	return mcfg.SourceDoc{Type: string(model.SourceTypeInline), Inline: &a}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// InitCmd writes a starter server.toml.
type InitCmd struct {
	Name      string `help:"Server name" default:"my-server"`
	MCVersion string `name:"mc-version" help:"Minecraft version" default:"1.20.4"`
	Type      string `help:"Server type (vanilla, papermc, purpur, fabric, quilt, forge, neoforge, buildtools)" default:"vanilla"`
	Force     bool   `help:"Overwrite an existing config"`
}

func (i *InitCmd) Run(root *CLI) error {
	if _, err := os.Stat(root.Config); err == nil && !i.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", root.Config)
	}
	doc := fmt.Sprintf(`name = "%s"
port = 25565

[jar]
mc_version = "%s"
server_type = "%s"

[launcher]
eula_args = true
nogui = true
preset = "aikar"
`, i.Name, i.MCVersion, i.Type)
	if err := os.WriteFile(root.Config, []byte(doc), 0o640); err != nil {
		return err
	}
	fmt.Println("wrote", root.Config)
	return nil
}

// BuildCmd materializes the output directory.
type BuildCmd struct {
	Force       bool `help:"Rebuild bootstrapped files even when unchanged"`
	Concurrency int  `help:"Addon concurrency cap" default:"20"`
}

func (b *BuildCmd) Run(root *CLI) error {
	p, err := loadProject(root)
	if err != nil {
		return err
	}
	defer p.close()

	ctx, cancel := signalContext()
	defer cancel()

	driver := build.New(build.Options{
		Server:      p.Server,
		ServerDir:   p.ServerDir,
		Network:     p.Network,
		NetworkDir:  p.NetworkDir,
		OutputDir:   root.Output,
		Cache:       p.Cache,
		Observer:    p.Observer,
		Logger:      slog.Default(),
		Concurrency: b.Concurrency,
		Force:       b.Force,
	})
	result, err := driver.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("built %s: jar %s, %d addons, %d worlds\n",
		root.Output, result.Jar.RelPath, result.Addons, result.Worlds)
	return nil
}

// RunCmd builds, then launches and supervises the server.
type RunCmd struct {
	BuildCmd
	Test bool `help:"Exit after startup check; exit code 2 on failure"`
}

func (r *RunCmd) Run(root *CLI) error {
	p, err := loadProject(root)
	if err != nil {
		return err
	}
	defer p.close()

	ctx, cancel := signalContext()
	defer cancel()

	driver := build.New(build.Options{
		Server:      p.Server,
		ServerDir:   p.ServerDir,
		Network:     p.Network,
		NetworkDir:  p.NetworkDir,
		OutputDir:   root.Output,
		Cache:       p.Cache,
		Observer:    p.Observer,
		Logger:      slog.Default(),
		Concurrency: r.Concurrency,
		Force:       r.Force,
	})
	result, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	manager := javatool.New(nil, slog.Default())
	installs := manager.Discover(ctx)
	inst, err := javatool.Resolve(installs, javatool.ForMinecraftVersion(p.Server.Jar.MCVersion))
	if err != nil {
		return err
	}

	var stdin io.Reader
	if !r.Test {
		stdin = os.Stdin
	}
	sup := supervisor.New(supervisor.Options{
		Dir:      root.Output,
		JavaBin:  inst.Path,
		Args:     build.RenderArgs(p.Server.Launcher, result.Jar, "unix"),
		Stdin:    stdin,
		Observer: p.Observer,
		Logger:   slog.Default(),
	})
	code, err := sup.Run(ctx)
	if err != nil {
		return err
	}
	if code != 0 {
		if r.Test {
			os.Exit(2)
		}
		os.Exit(1)
	}
	return nil
}

// JavaCmd lists discovered JDK installations.
type JavaCmd struct{}

func (JavaCmd) Run(root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	manager := javatool.New(nil, slog.Default())
	installs := manager.Discover(ctx)
	if len(installs) == 0 {
		fmt.Println("no Java installations found")
		return nil
	}
	for _, inst := range installs {
		fmt.Printf("java %d\t%s\n", inst.Major, inst.Path)
	}
	return nil
}

// UpdateCmd checks latest-pinned addons against their upstreams.
type UpdateCmd struct{}

func (UpdateCmd) Run(root *CLI) error {
	p, err := loadProject(root)
	if err != nil {
		return err
	}
	defer p.close()

	ctx, cancel := signalContext()
	defer cancel()

	lf, err := lockfile.Load(root.Output)
	if err != nil {
		return err
	}
	rc := model.ResolveContext{MCVersion: p.Server.Jar.MCVersion}
	checker := updatecheck.New(resolver.New(p.Cache, ""), rc, p.Observer, slog.Default())
	updates, err := checker.Check(ctx, lf)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		fmt.Println("everything up to date")
		return nil
	}
	for _, u := range updates {
		fmt.Printf("%s: %s -> %s\n", u.Addon.Identity(), u.Current.Filename, u.Latest.Filename)
	}
	return nil
}

// SourcesCmd groups source inspection subcommands.
type SourcesCmd struct {
	List SourcesListCmd `cmd:"" help:"List every declared source in aggregation order"`
}

// SourcesListCmd prints the aggregated source list.
type SourcesListCmd struct{}

func (SourcesListCmd) Run(root *CLI) error {
	p, err := loadProject(root)
	if err != nil {
		return err
	}
	defer p.close()

	var groups []string
	if p.Network != nil {
		if entry, ok := p.Network.Servers[p.Server.Name]; ok {
			groups = entry.Groups
		}
	}
	located := sources.Aggregate(p.Network, p.NetworkDir, groups, p.Server, p.ServerDir)
	for _, loc := range located {
		fmt.Printf("%s\t%s\t(base %s)\n", loc.Source.Type, sourceRef(loc.Source), loc.BaseDir)
	}
	return nil
}

func sourceRef(s model.Source) string {
	switch s.Type {
	case model.SourceTypeModpack:
		return fmt.Sprintf("%s %s", s.ModpackType, s.ModpackSource)
	case model.SourceTypeGit:
		return s.GitURL
	default:
		return s.Path
	}
}

func main() {
	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("mcman"),
		kong.Description("Declarative build-and-run manager for Minecraft servers"),
		kong.Vars{"version": version},
	)
	if err := kctx.Run(cli); err != nil {
		errors.NewCLIAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
