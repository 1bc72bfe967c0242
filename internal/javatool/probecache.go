package javatool

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ProbeCache persists (path, mtime) -> major version pairs so a rebuild
// doesn't re-exec `java -version` against every candidate binary it already
// probed successfully. This is purely a discovery-speed optimization: it
// never backs the content cache store, which has no secondary index by
// design.
type ProbeCache struct {
	db *sql.DB
}

// OpenProbeCache opens (creating if needed) a sqlite database at path.
func OpenProbeCache(path string) (*ProbeCache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	const schema = `
CREATE TABLE IF NOT EXISTS java_probes (
	path TEXT NOT NULL,
	mtime_unix_nanos INTEGER NOT NULL,
	major INTEGER NOT NULL,
	PRIMARY KEY (path, mtime_unix_nanos)
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &ProbeCache{db: db}, nil
}

// Close closes the underlying database handle.
func (c *ProbeCache) Close() error { return c.db.Close() }

// Lookup returns the cached major version for (path, mtimeUnixNanos), or
// false if not cached.
func (c *ProbeCache) Lookup(path string, mtimeUnixNanos int64) (int, bool) {
	var major int
	err := c.db.QueryRow(
		`SELECT major FROM java_probes WHERE path = ? AND mtime_unix_nanos = ?`,
		path, mtimeUnixNanos,
	).Scan(&major)
	if err != nil {
		return 0, false
	}
	return major, true
}

// Store records the probe result for (path, mtimeUnixNanos).
func (c *ProbeCache) Store(path string, mtimeUnixNanos int64, major int) error {
	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO java_probes (path, mtime_unix_nanos, major) VALUES (?, ?, ?)`,
		path, mtimeUnixNanos, major,
	)
	return err
}
