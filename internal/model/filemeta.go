package model

// CacheLocation identifies one entry in the cache store: (namespace,
// relative-path). Same upstream coordinates must always produce the same
// path.
type CacheLocation struct {
	Namespace string
	RelPath   string
}

// FileMeta is the unit of executable intent attached to a download/
// verification step.
type FileMeta struct {
	Filename string
	Cache    *CacheLocation
	Size     *int64
	Hashes   map[HashFormat]string
}

// GetHasher returns the preferred hash format and expected hex value to
// verify against, or false if meta carries no known hash.
func (m FileMeta) GetHasher() (HashFormat, string, bool) {
	return PreferredHash(m.Hashes)
}
