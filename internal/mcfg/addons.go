package mcfg

import (
	"fmt"
	"os"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/pelletier/go-toml/v2"
)

// AddonDoc is the TOML wire shape of model.Addon.
type AddonDoc struct {
	Type        string `toml:"type"`
	Target      string `toml:"target,omitempty"`       // "plugins" | "mods" | "datapack" | "custom"
	TargetWorld string `toml:"target_world,omitempty"`  // datapack
	TargetPath  string `toml:"target_path,omitempty"`   // custom
	Environment string `toml:"environment,omitempty"`   // "client" | "server" | "both"

	Modrinth struct {
		ID      string `toml:"id,omitempty"`
		Version string `toml:"version,omitempty"`
	} `toml:"modrinth,omitempty"`

	Curseforge struct {
		ID      string `toml:"id,omitempty"`
		FileID  string `toml:"file_id,omitempty"`
	} `toml:"curseforge,omitempty"`

	Spigot struct {
		ResourceID string `toml:"resource_id,omitempty"`
		Version    string `toml:"version,omitempty"`
	} `toml:"spigot,omitempty"`

	Hangar struct {
		ProjectID string `toml:"project_id,omitempty"`
		Version   string `toml:"version,omitempty"`
	} `toml:"hangar,omitempty"`

	Github struct {
		Owner string `toml:"owner,omitempty"`
		Repo  string `toml:"repo,omitempty"`
		Tag   string `toml:"tag,omitempty"`
		Asset string `toml:"asset,omitempty"`
	} `toml:"github,omitempty"`

	Jenkins struct {
		URL      string `toml:"url,omitempty"`
		Job      string `toml:"job,omitempty"`
		Build    string `toml:"build,omitempty"`
		Artifact string `toml:"artifact,omitempty"`
	} `toml:"jenkins,omitempty"`

	Maven struct {
		Repo     string `toml:"repo,omitempty"`
		Group    string `toml:"group,omitempty"`
		Artifact string `toml:"artifact,omitempty"`
		Version  string `toml:"version,omitempty"`
	} `toml:"maven,omitempty"`

	URL      string `toml:"url,omitempty"`
	Filename string `toml:"filename,omitempty"`
}

// Defaults carries the `[defaults]` table applied to addons that omit
// target/environment.
type Defaults struct {
	Target      string `toml:"target,omitempty"`
	Environment string `toml:"environment,omitempty"`
}

// AddonsDoc is the root document for an addon list file.
type AddonsDoc struct {
	Addons   []AddonDoc `toml:"addons"`
	Defaults *Defaults  `toml:"defaults,omitempty"`
}

// LoadAddons reads and decodes an addons.toml-shaped file at path.
func LoadAddons(path string) (*AddonsDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read addons file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))

	var doc AddonsDoc
	if err := toml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, fmt.Errorf("decode addons file: %w", err)
	}
	return &doc, nil
}

// ToModel converts d into a model.Addon, applying defaults for any omitted
// target/environment.
func (d AddonDoc) ToModel(defaults *Defaults) (model.Addon, error) {
	a := model.Addon{
		Kind:        model.SourceKind(d.Type),
		Environment: model.Environment(d.Environment),
		URL:         d.URL,
		Filename:    d.Filename,
	}

	target := d.Target
	environment := d.Environment
	if defaults != nil {
		if target == "" {
			target = defaults.Target
		}
		if environment == "" {
			environment = defaults.Environment
		}
	}
	a.Environment = model.Environment(environment)
	a.Target = model.Target{Kind: model.TargetKind(target), World: d.TargetWorld, Path: d.TargetPath}

	switch a.Kind {
	case model.SourceModrinth:
		a.ModrinthID, a.ModrinthVersion = d.Modrinth.ID, d.Modrinth.Version
	case model.SourceCurseforge:
		a.CurseforgeID, a.CurseforgeVersion = d.Curseforge.ID, d.Curseforge.FileID
	case model.SourceSpigot:
		a.SpigotResourceID, a.SpigotVersion = d.Spigot.ResourceID, d.Spigot.Version
	case model.SourceHangar:
		a.HangarProjectID, a.HangarVersion = d.Hangar.ProjectID, d.Hangar.Version
	case model.SourceGithub:
		a.GithubOwner, a.GithubRepo, a.GithubTag, a.GithubAsset = d.Github.Owner, d.Github.Repo, d.Github.Tag, d.Github.Asset
	case model.SourceJenkins:
		a.JenkinsURL, a.JenkinsJob, a.JenkinsBuild, a.JenkinsArtifact = d.Jenkins.URL, d.Jenkins.Job, d.Jenkins.Build, d.Jenkins.Artifact
	case model.SourceMaven:
		a.MavenRepo, a.MavenGroup, a.MavenArtifact, a.MavenVersion = d.Maven.Repo, d.Maven.Group, d.Maven.Artifact, d.Maven.Version
	case model.SourceURL:
		// a.URL/a.Filename already set above
	default:
		return a, fmt.Errorf("mcfg: unknown addon type %q", d.Type)
	}
	return a, nil
}
