// Package javatool implements the Java toolchain manager:
// discovers local JDK installations by scanning PATH and platform
// well-known install roots, probes each with `java -version`, and picks
// the lowest-major JDK satisfying a minimum required major version.
//
// Probe results are kept in a pure-Go sqlite cache keyed by path and
// mtime so repeated builds don't re-exec every candidate.
package javatool

import (
	"context"
	"log/slog"
	"os"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/logfields"
	"github.com/paradigmmc/mcman-go/internal/mcenv"
)

// Manager discovers and selects JDK installations.
type Manager struct {
	cache  *ProbeCache
	logger *slog.Logger
}

// New builds a Manager. cache may be nil to disable probe caching.
func New(cache *ProbeCache, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{cache: cache, logger: logger}
}

// Discover probes every candidate java binary found on PATH or a
// platform-specific well-known root, returning the ones that responded
// successfully to `-version`. An explicit JAVA_BIN override
// is probed and, if valid, placed first regardless of search order.
func (m *Manager) Discover(ctx context.Context) []Installation {
	var installs []Installation
	seen := make(map[string]struct{})

	if override := mcenv.JavaBin(); override != "" {
		if inst, err := m.probeCached(ctx, override); err == nil {
			installs = append(installs, inst)
			seen[override] = struct{}{}
		} else {
			m.logger.Warn("JAVA_BIN override failed to probe", logfields.Path(override), logfields.Err(err))
		}
	}

	for _, path := range collectCandidateBinaries() {
		if _, ok := seen[path]; ok {
			continue
		}
		inst, err := m.probeCached(ctx, path)
		if err != nil {
			continue
		}
		seen[path] = struct{}{}
		installs = append(installs, inst)
	}
	return installs
}

func (m *Manager) probeCached(ctx context.Context, path string) (Installation, error) {
	var mtimeUnixNanos int64
	if info, err := os.Stat(path); err == nil {
		mtimeUnixNanos = info.ModTime().UnixNano()
	}
	if m.cache != nil {
		if major, ok := m.cache.Lookup(path, mtimeUnixNanos); ok {
			return Installation{Path: path, Major: major}, nil
		}
	}
	inst, err := probe(ctx, path)
	if err != nil {
		return Installation{}, err
	}
	if m.cache != nil {
		if err := m.cache.Store(path, mtimeUnixNanos, inst.Major); err != nil {
			m.logger.Debug("failed to persist java probe cache entry", logfields.Err(err))
		}
	}
	return inst, nil
}

// Resolve picks, from every discovered installation, the lowest-major JDK
// whose major is >= minMajor, preferring earlier search-order candidates
// on ties. Fails with NoSuitableJava if none qualifies.
func Resolve(installs []Installation, minMajor int) (Installation, error) {
	best := -1
	bestMajor := 0
	for i, inst := range installs {
		if inst.Major < minMajor {
			continue
		}
		if best == -1 || inst.Major < bestMajor {
			best = i
			bestMajor = inst.Major
		}
	}
	if best == -1 {
		return Installation{}, errors.NoSuitableJava(minMajor)
	}
	return installs[best], nil
}

// ForMinecraftVersion maps a Minecraft version string to the Java major
// version its installer/launcher needs: ≤1.16 -> 8, 1.17 ->
// 16, ≥1.18 -> 17.
func ForMinecraftVersion(mcVersion string) int {
	minor := minecraftMinorVersion(mcVersion)
	switch {
	case minor <= 0:
		return 17
	case minor <= 16:
		return 8
	case minor == 17:
		return 16
	default:
		return 17
	}
}

// minecraftMinorVersion extracts the "X" in "1.X" or "1.X.Y"; returns 0 if
// unparseable (callers treat that as "assume modern").
func minecraftMinorVersion(mcVersion string) int {
	parts := splitDots(mcVersion)
	if len(parts) < 2 || parts[0] != "1" {
		return 0
	}
	n := 0
	for _, c := range parts[1] {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func splitDots(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}
