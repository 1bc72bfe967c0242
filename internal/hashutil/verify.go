package hashutil

import (
	"io"

	"github.com/paradigmmc/mcman-go/internal/model"
)

// HashReader wraps meta's preferred hash (if any) as an io.Writer sink that
// can be fed alongside a copy, then compared against the expected value.
type HashReader struct {
	hasher   *Hasher
	expected string
	format   model.HashFormat
	present  bool
}

// NewHashReader builds a HashReader for meta's preferred hash format, or a
// no-op one if meta carries no known hash.
func NewHashReader(meta model.FileMeta) (*HashReader, error) {
	format, expected, ok := meta.GetHasher()
	if !ok {
		return &HashReader{}, nil
	}
	h, err := New(format)
	if err != nil {
		return nil, err
	}
	return &HashReader{hasher: h, expected: expected, format: format, present: true}, nil
}

// Write implements io.Writer, feeding bytes through the underlying hash.
func (r *HashReader) Write(p []byte) (int, error) {
	if r.present {
		r.hasher.Update(p)
	}
	return len(p), nil
}

// Present reports whether a known hash format was found.
func (r *HashReader) Present() bool { return r.present }

// Format returns the hash format in use, or "" if none.
func (r *HashReader) Format() model.HashFormat { return r.format }

// Matches finalizes the hash and compares it (case-insensitively) against
// the expected value. Always true if no hash was present.
func (r *HashReader) Matches() (ok bool, got string) {
	if !r.present {
		return true, ""
	}
	got = r.hasher.Finalize()
	return got == normalizeHex(r.expected), got
}

func normalizeHex(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

// HashFile streams r through a preferred-hash verification and discards the
// bytes (used when re-checking an already-written file without keeping a
// copy in memory).
func HashFile(r io.Reader, meta model.FileMeta) (ok bool, format model.HashFormat, got string, err error) {
	hr, err := NewHashReader(meta)
	if err != nil {
		return false, "", "", err
	}
	if _, err := io.Copy(hr, r); err != nil {
		return false, "", "", err
	}
	matched, g := hr.Matches()
	return matched, hr.Format(), g, nil
}
