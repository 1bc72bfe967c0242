// Package mcenv resolves the process environment variables mcman honors
// (MC_MEMORY, MAX_TRIES, IP_<server>, PORT_<server>, CI, MCMAN_DEBUG,
// JAVA_BIN, and a cache-root override), loading a .env file first.
package mcenv

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load loads a .env file from the current directory if present. Missing is
// not an error.
func Load() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Debug(".env not loaded", "error", err)
	}
}

// CacheRootEnvVar is the override variable for the cache store's base directory.
const CacheRootEnvVar = "MCMAN_CACHE_DIR"

// Memory returns the MC_MEMORY override (e.g. "4G"), or "" if unset.
func Memory() string { return os.Getenv("MC_MEMORY") }

// MaxTries returns MAX_TRIES, defaulting to def when unset or invalid.
func MaxTries(def int) int {
	v := os.Getenv("MAX_TRIES")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// IPOverride returns IP_<server>, or "" if unset.
func IPOverride(server string) string { return os.Getenv("IP_" + server) }

// PortOverride returns PORT_<server>, or "" if unset.
func PortOverride(server string) string { return os.Getenv("PORT_" + server) }

// IsCI reports whether CI is set to a truthy value.
func IsCI() bool { return truthy(os.Getenv("CI")) }

// Debug reports whether MCMAN_DEBUG is set to a truthy value.
func Debug() bool { return truthy(os.Getenv("MCMAN_DEBUG")) }

// JavaBin returns an explicit JAVA_BIN override, or "" if unset.
func JavaBin() string { return os.Getenv("JAVA_BIN") }

// CacheRoot returns the cache-root override, or "" if unset (callers fall
// back to an OS-appropriate default).
func CacheRoot() string { return os.Getenv(CacheRootEnvVar) }

func truthy(v string) bool {
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	default:
		return false
	}
}
