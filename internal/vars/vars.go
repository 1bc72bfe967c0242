// Package vars implements the ${{var}} variable expander: a
// layered-environment text substitution used by the bootstrapper to
// rewrite configuration templates. Lookup layers, in order: server
// variables, network variables, process environment, built-ins.
package vars

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	yaml "go.yaml.in/yaml/v2"
)

// tokenPattern matches ${{NAME}} and ${{NAME:default}}.
var tokenPattern = regexp.MustCompile(`\$\{\{(\w+)(?::([^}]*))?\}\}`)

// NetworkServerInfo is one entry of a network's server map, used to
// synthesize NETWORK_VELOCITY_SERVERS / NETWORK_BUNGEECORD_SERVERS /
// NW_SERVER_<name>_<ip|port|address> built-ins.
type NetworkServerInfo struct {
	Name      string
	IPAddress string
	Port      int
}

// Environment is the layered lookup context for one expansion pass.
type Environment struct {
	ServerVariables  map[string]string
	NetworkVariables map[string]string

	ServerName    string
	ServerVersion string
	ServerPort    int
	ServerIP      string
	PluginCount   int
	ModCount      int
	WorldCount    int

	NetworkName    string
	NetworkPort    int
	NetworkServers []NetworkServerInfo
}

// Expand substitutes every ${{NAME}} / ${{NAME:default}} token in text
// and reports the set of variable names the pass touched,
// matched or not. Expand is pure over its inputs besides the process
// environment read at lookup layer 3.
func Expand(text string, env Environment) (string, map[string]bool, error) {
	touched := make(map[string]bool)
	var expandErr error

	result := tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		m := tokenPattern.FindStringSubmatch(token)
		name := m[1]
		hasDefault := strings.Contains(token, ":")
		defaultValue := m[2]

		touched[name] = true

		value, ok, err := resolve(name, env)
		if err != nil {
			expandErr = err
			return token
		}
		if ok {
			return value
		}
		if hasDefault {
			return defaultValue
		}
		return token
	})
	if expandErr != nil {
		return "", nil, expandErr
	}
	return result, touched, nil
}

// resolve implements the lookup order.
func resolve(name string, env Environment) (string, bool, error) {
	if v, ok := env.ServerVariables[name]; ok {
		return v, true, nil
	}
	if v, ok := env.NetworkVariables["network_"+name]; ok {
		return v, true, nil
	}
	if v, ok := os.LookupEnv(name); ok {
		return v, true, nil
	}
	return resolveBuiltin(name, env)
}

func resolveBuiltin(name string, env Environment) (string, bool, error) {
	switch name {
	case "SERVER_NAME":
		return env.ServerName, true, nil
	case "SERVER_VERSION":
		return env.ServerVersion, true, nil
	case "SERVER_PORT":
		return strconv.Itoa(env.ServerPort), true, nil
	case "SERVER_IP":
		return env.ServerIP, true, nil
	case "PLUGIN_COUNT":
		return strconv.Itoa(env.PluginCount), true, nil
	case "MOD_COUNT":
		return strconv.Itoa(env.ModCount), true, nil
	case "WORLD_COUNT":
		return strconv.Itoa(env.WorldCount), true, nil
	case "NETWORK_NAME":
		return env.NetworkName, true, nil
	case "NETWORK_PORT":
		return strconv.Itoa(env.NetworkPort), true, nil
	case "NETWORK_SERVERS_COUNT":
		return strconv.Itoa(len(env.NetworkServers)), true, nil
	case "NETWORK_VELOCITY_SERVERS":
		v, err := velocityServersTOML(env.NetworkServers)
		return v, true, err
	case "NETWORK_BUNGEECORD_SERVERS":
		v, err := bungeecordServersYAML(env.NetworkServers)
		return v, true, err
	}
	if strings.HasPrefix(name, "NW_SERVER_") {
		return resolveNWServer(name, env)
	}
	return "", false, nil
}

// resolveNWServer handles NW_SERVER_<name>_<ip|port|address>, combined with
// IP_<name> / PORT_<name> process-environment overrides.
func resolveNWServer(name string, env Environment) (string, bool, error) {
	rest := strings.TrimPrefix(name, "NW_SERVER_")
	idx := strings.LastIndex(rest, "_")
	if idx < 0 {
		return "", false, nil
	}
	serverName, field := rest[:idx], rest[idx+1:]

	var info *NetworkServerInfo
	for i := range env.NetworkServers {
		if strings.EqualFold(env.NetworkServers[i].Name, serverName) {
			info = &env.NetworkServers[i]
			break
		}
	}
	if info == nil {
		return "", false, nil
	}

	ip := info.IPAddress
	if override, ok := os.LookupEnv("IP_" + serverName); ok {
		ip = override
	}
	port := strconv.Itoa(info.Port)
	if override, ok := os.LookupEnv("PORT_" + serverName); ok {
		port = override
	}

	switch strings.ToLower(field) {
	case "ip":
		return ip, true, nil
	case "port":
		return port, true, nil
	case "address":
		return ip + ":" + port, true, nil
	default:
		return "", false, nil
	}
}

// velocityServersTOML renders Velocity's `[servers]` table shape:
// name = "ip:port" per line, sorted by name for reproducible output.
func velocityServersTOML(servers []NetworkServerInfo) (string, error) {
	doc := make(map[string]string, len(servers))
	names := make([]string, 0, len(servers))
	for _, s := range servers {
		doc[s.Name] = fmt.Sprintf("%s:%d", s.IPAddress, s.Port)
		names = append(names, s.Name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, n := range names {
		fmt.Fprintf(&b, "%s = %q\n", n, doc[n])
	}
	return b.String(), nil
}

// bungeecordServer mirrors one entry of BungeeCord's config.yml `servers`
// map.
type bungeecordServer struct {
	Address    string `yaml:"address"`
	Restricted bool   `yaml:"restricted"`
}

// bungeecordServersYAML renders BungeeCord's `servers:` map shape.
func bungeecordServersYAML(servers []NetworkServerInfo) (string, error) {
	names := make([]string, 0, len(servers))
	byName := make(map[string]bungeecordServer, len(servers))
	for _, s := range servers {
		names = append(names, s.Name)
		byName[s.Name] = bungeecordServer{Address: fmt.Sprintf("%s:%d", s.IPAddress, s.Port)}
	}
	sort.Strings(names)

	doc := yaml.MapSlice{}
	for _, n := range names {
		doc = append(doc, yaml.MapItem{Key: n, Value: byName[n]})
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("vars: render bungeecord servers: %w", err)
	}
	return string(out), nil
}
