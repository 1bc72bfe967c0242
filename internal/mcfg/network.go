package mcfg

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// NetworkServer is one entry under network.toml's servers map.
type NetworkServer struct {
	Port      uint16   `toml:"port"`
	IPAddress string   `toml:"ip_address,omitempty"`
	Groups    []string `toml:"groups,omitempty"`
}

// NetworkGroup is one entry under network.toml's groups map — a named bundle
// of shared variables and sources applied to every member server.
type NetworkGroup struct {
	Variables map[string]string `toml:"variables,omitempty"`
	Sources   []SourceDoc       `toml:"sources,omitempty"`
}

// NetworkHooks names external lifecycle hook commands — invocation is an external-collaborator
// concern; the core only carries the declaration through.
type NetworkHooks struct {
	PreBuild  string `toml:"pre_build,omitempty"`
	PostBuild string `toml:"post_build,omitempty"`
}

// NetworkDoc is the optional multi-server sibling document.
type NetworkDoc struct {
	Name         string                   `toml:"name"`
	Proxy        string                   `toml:"proxy,omitempty"` // "velocity" | "bungeecord"
	ProxyGroups  []string                 `toml:"proxy_groups,omitempty"`
	Port         uint16                   `toml:"port"`
	Servers      map[string]NetworkServer `toml:"servers,omitempty"`
	Variables    map[string]string        `toml:"variables,omitempty"`
	Groups       map[string]NetworkGroup  `toml:"groups,omitempty"`
	Markdown     MarkdownOptions          `toml:"markdown,omitempty"`
	Hooks        NetworkHooks             `toml:"hooks,omitempty"`
}

// LoadNetwork reads and decodes network.toml at path. A missing file
// returns the os.ReadFile error unchanged, so callers that treat
// network.toml as optional check os.IsNotExist on it to tell "absent"
// from "malformed".
func LoadNetwork(path string) (*NetworkDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	expanded := os.ExpandEnv(string(data))

	var doc NetworkDoc
	if err := toml.Unmarshal([]byte(expanded), &doc); err != nil {
		return nil, fmt.Errorf("decode network config: %w", err)
	}
	if doc.Variables == nil {
		doc.Variables = make(map[string]string)
	}
	if doc.Servers == nil {
		doc.Servers = make(map[string]NetworkServer)
	}
	if doc.Groups == nil {
		doc.Groups = make(map[string]NetworkGroup)
	}
	return &doc, nil
}
