package model

// HashFormat is the closed set of supported hash algorithms.
type HashFormat string

const (
	HashSHA1    HashFormat = "sha1"
	HashSHA256  HashFormat = "sha256"
	HashSHA512  HashFormat = "sha512"
	HashMD5     HashFormat = "md5"
	HashMurmur2 HashFormat = "murmur2"
)

// hashPreference is sha512 > sha256 > sha1 > md5; murmur2 is
// used only by CurseForge, which never publishes a stronger hash alongside
// it, so it sits below md5 as a last resort.
var hashPreference = []HashFormat{HashSHA512, HashSHA256, HashSHA1, HashMD5, HashMurmur2}

// PreferredHash returns the best available hash format/value from hashes per
// preference order (sha512 > sha256 > sha1 > md5), and false if hashes is empty or contains
// no known format.
func PreferredHash(hashes map[HashFormat]string) (HashFormat, string, bool) {
	for _, f := range hashPreference {
		if v, ok := hashes[f]; ok && v != "" {
			return f, v, true
		}
	}
	return "", "", false
}
