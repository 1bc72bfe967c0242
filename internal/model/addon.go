package model

import "fmt"

// Target is the destination directory class for a materialized Addon.
type Target struct {
	Kind  TargetKind
	World string // set when Kind == TargetDatapack
	Path  string // set when Kind == TargetCustom
}

// TargetKind enumerates the closed set of addon destinations.
type TargetKind string

const (
	TargetPlugins  TargetKind = "plugins"
	TargetMods     TargetKind = "mods"
	TargetDatapack TargetKind = "datapack"
	TargetCustom   TargetKind = "custom"
)

// Dir resolves the relative output directory for t:
// Plugins -> plugins/, Mods -> mods/, Datapack{world} -> {world}/datapacks/,
// Custom{path} -> {path}.
func (t Target) Dir() string {
	switch t.Kind {
	case TargetPlugins:
		return "plugins"
	case TargetMods:
		return "mods"
	case TargetDatapack:
		return t.World + "/datapacks"
	case TargetCustom:
		return t.Path
	default:
		return ""
	}
}

// Environment restricts when an addon is materialized.
type Environment string

const (
	EnvClient Environment = "client"
	EnvServer Environment = "server"
	EnvBoth   Environment = "both"
)

// AppliesTo reports whether an addon declared with env should be
// materialized when building profile.
func (e Environment) AppliesTo(profile Environment) bool {
	if e == "" || e == EnvBoth {
		return true
	}
	return e == profile
}

// SourceKind tags the variant of an Addon's upstream reference.
type SourceKind string

const (
	SourceModrinth    SourceKind = "modrinth"
	SourceCurseforge  SourceKind = "curseforge"
	SourceSpigot      SourceKind = "spigot"
	SourceHangar      SourceKind = "hangar"
	SourceGithub      SourceKind = "github"
	SourceJenkins     SourceKind = "jenkins"
	SourceMaven       SourceKind = "maven"
	SourceURL         SourceKind = "url"
)

// Addon is one declared artifact to materialize. Exactly the
// fields relevant to Kind are populated; the rest are zero.
type Addon struct {
	Kind        SourceKind
	Target      Target
	Environment Environment

	// Modrinth
	ModrinthID      string
	ModrinthVersion string

	// Curseforge (via proxy)
	CurseforgeID      string
	CurseforgeVersion string // file id

	// Spigot (via Spiget)
	SpigotResourceID string
	SpigotVersion    string

	// Hangar
	HangarProjectID string
	HangarVersion   string

	// GitHub releases
	GithubOwner string
	GithubRepo  string
	GithubTag   string // "latest" or explicit
	GithubAsset string // ""|"first"|"any"|name

	// Jenkins
	JenkinsURL    string
	JenkinsJob    string
	JenkinsBuild  string // "latest" or explicit number
	JenkinsArtifact string

	// Maven
	MavenRepo       string
	MavenGroup      string
	MavenArtifact   string
	MavenVersion    string

	// raw URL passthrough
	URL      string
	Filename string // optional override for URL addons
}

// Identity returns the (source kind, key fields) tuple used for
// de-duplication inside a server's addon list.
func (a Addon) Identity() string {
	switch a.Kind {
	case SourceModrinth:
		return fmt.Sprintf("modrinth:%s:%s", a.ModrinthID, a.ModrinthVersion)
	case SourceCurseforge:
		return fmt.Sprintf("curseforge:%s:%s", a.CurseforgeID, a.CurseforgeVersion)
	case SourceSpigot:
		return fmt.Sprintf("spigot:%s:%s", a.SpigotResourceID, a.SpigotVersion)
	case SourceHangar:
		return fmt.Sprintf("hangar:%s:%s", a.HangarProjectID, a.HangarVersion)
	case SourceGithub:
		return fmt.Sprintf("github:%s/%s:%s:%s", a.GithubOwner, a.GithubRepo, a.GithubTag, a.GithubAsset)
	case SourceJenkins:
		return fmt.Sprintf("jenkins:%s:%s:%s:%s", a.JenkinsURL, a.JenkinsJob, a.JenkinsBuild, a.JenkinsArtifact)
	case SourceMaven:
		return fmt.Sprintf("maven:%s:%s:%s:%s", a.MavenRepo, a.MavenGroup, a.MavenArtifact, a.MavenVersion)
	case SourceURL:
		return fmt.Sprintf("url:%s", a.URL)
	default:
		return fmt.Sprintf("unknown:%v", a)
	}
}
