// Package mcfg loads and models the project's persisted TOML state:
// server.toml, network.toml, and addons.toml. Loading expands process
// environment variables before parsing and applies defaults after.
package mcfg

import (
	"fmt"
	"os"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/pelletier/go-toml/v2"
)

// MarkdownOptions is carried through server.toml/network.toml even though
// README rendering itself lives outside this tool — the option bag is
// still part of the persisted document shape.
type MarkdownOptions struct {
	Enabled bool   `toml:"enabled,omitempty"`
	Output  string `toml:"output,omitempty"`
}

// ServerLauncher holds the launcher-argument inputs rendered by the build
// driver.
type ServerLauncher struct {
	Disable     bool              `toml:"disable,omitempty"`
	Memory      string            `toml:"memory,omitempty"`
	JVMArgs     string            `toml:"jvm_args,omitempty"`
	GameArgs    string            `toml:"game_args,omitempty"`
	Preset      string            `toml:"preset,omitempty"` // "none" | "aikar" | "proxy"
	EULAArgs    bool              `toml:"eula_args,omitempty"`
	NoGUI       bool              `toml:"nogui,omitempty"`
	Properties  map[string]string `toml:"properties,omitempty"`
}

// ServerJarDoc is the TOML wire shape of model.ServerJar: a lowercased
// server_type tag plus variant-specific fields.
type ServerJarDoc struct {
	MCVersion  string `toml:"mc_version"`
	ServerType string `toml:"server_type"`

	Project string `toml:"project,omitempty"` // papermc
	Build   string `toml:"build,omitempty"`   // papermc, purpur

	Loader    string `toml:"loader,omitempty"`    // fabric, quilt, forge, neoforge
	Installer string `toml:"installer,omitempty"` // fabric, quilt

	CraftBukkit bool     `toml:"craftbukkit,omitempty"` // buildtools
	Args        []string `toml:"args,omitempty"`        // buildtools

	Inner  *AddonDoc `toml:"inner,omitempty"`  // custom: full addon reference for the jar itself
	Flavor string    `toml:"flavor,omitempty"` // custom
	Exec   string    `toml:"exec,omitempty"`   // custom
}

// ToModel converts the wire document into model.ServerJar.
func (d ServerJarDoc) ToModel() (model.ServerJar, error) {
	jar := model.ServerJar{
		MCVersion:   d.MCVersion,
		ServerType:  model.ServerJarType(d.ServerType),
		PurpurBuild: d.Build,
		Loader:      d.Loader,
		Installer:   d.Installer,
		CraftBukkit: d.CraftBukkit,
		BuildArgs:   d.Args,
		CustomFlavor: d.Flavor,
		CustomExec:   d.Exec,
	}
	switch jar.ServerType {
	case model.JarPaperMC:
		jar.PaperMCProject = d.Project
		jar.PaperMCBuild = d.Build
	case model.JarForge, model.JarNeoForge:
		jar.ForgeLoader = d.Loader
	case model.JarCustom:
		if d.Inner == nil {
			return jar, fmt.Errorf("mcfg: custom server_type requires an inner addon reference")
		}
		jar.CustomInner = model.SourceKind(d.Inner.Type)
	case model.JarVanilla, model.JarPurpur, model.JarFabric, model.JarQuilt, model.JarBuildTools:
		// fields already set above
	default:
		return jar, fmt.Errorf("mcfg: unknown server_type %q", d.ServerType)
	}
	return jar, nil
}

// SourceDoc is the TOML wire shape of model.Source.
type SourceDoc struct {
	Type string `toml:"type"`

	Path string `toml:"path,omitempty"`

	ModpackType   string `toml:"modpack_type,omitempty"`
	ModpackSource string `toml:"modpack_source,omitempty"`

	GitURL  string `toml:"git_url,omitempty"`
	GitRef  string `toml:"git_ref,omitempty"`
	GitPath string `toml:"git_path,omitempty"`

	// Inline is set only for ad-hoc sources appended in memory (the CLI's
	// --src flag); it never round-trips through TOML.
	Inline *model.Addon `toml:"-"`
}

// ToModel converts the wire document into model.Source.
func (d SourceDoc) ToModel() (model.Source, error) {
	s := model.Source{
		Type:          model.SourceType(d.Type),
		Path:          d.Path,
		ModpackType:   model.ModpackType(d.ModpackType),
		ModpackSource: d.ModpackSource,
		GitURL:        d.GitURL,
		GitRef:        d.GitRef,
		GitPath:       d.GitPath,
		Inline:        d.Inline,
	}
	switch s.Type {
	case model.SourceTypeFile, model.SourceTypeFolder, model.SourceTypeModpack, model.SourceTypeGit, model.SourceTypeInline:
		return s, nil
	default:
		return s, fmt.Errorf("mcfg: unknown source type %q", d.Type)
	}
}

// ServerBootstrap holds the bootstrapper's per-server overrides: extra file extensions to treat as expandable text on top of the
// built-in set.
type ServerBootstrap struct {
	ExtraExtensions []string `toml:"extra_extensions,omitempty"`
}

// WorldDoc is one entry of server.toml's `worlds` list: an optional world-data download plus the datapacks that belong in
// it. Datapacks reuse the addons.toml AddonDoc shape (they resolve through
// the same upstream dispatch as any other addon) with their target forced
// to Datapack{world: Name} regardless of what the entry itself declares.
type WorldDoc struct {
	Name      string     `toml:"name"`
	Download  string     `toml:"download,omitempty"` // world-data zip URL, empty = no pre-built world
	Datapacks []AddonDoc `toml:"datapacks,omitempty"`
}

// ServerDoc is the root document for one server.
type ServerDoc struct {
	Name      string            `toml:"name"`
	Port      *int              `toml:"port,omitempty"`
	Jar       ServerJarDoc      `toml:"jar"`
	Sources   []SourceDoc       `toml:"sources,omitempty"`
	Worlds    []WorldDoc        `toml:"worlds,omitempty"`
	Variables map[string]string `toml:"variables,omitempty"`
	Markdown  MarkdownOptions   `toml:"markdown,omitempty"`
	Launcher  ServerLauncher    `toml:"launcher,omitempty"`
	Bootstrap ServerBootstrap   `toml:"bootstrap,omitempty"`
}

// LoadServer reads and decodes server.toml at path, expanding process
// environment variables before parsing and applying defaults after.
func LoadServer(path string) (*ServerDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read server config: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	var doc ServerDoc
	if err := toml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, fmt.Errorf("decode server config: %w", err)
	}
	if doc.Variables == nil {
		doc.Variables = make(map[string]string)
	}
	if doc.Launcher.Preset == "" {
		doc.Launcher.Preset = "none"
	}
	return &doc, nil
}
