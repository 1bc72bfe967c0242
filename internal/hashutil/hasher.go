// Package hashutil implements streaming hash computation over arbitrary
// readers, covering the
// closed HashFormat set.
package hashutil

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/paradigmmc/mcman-go/internal/model"
)

// Hasher streams bytes through the single digest of its format and produces
// lowercase hex output.
type Hasher struct {
	format model.HashFormat
	h      hash.Hash
	murmur *murmur2State
}

// New creates a Hasher for format. Returns an error for unknown formats.
func New(format model.HashFormat) (*Hasher, error) {
	switch format {
	case model.HashSHA1:
		return &Hasher{format: format, h: sha1.New()}, nil
	case model.HashSHA256:
		return &Hasher{format: format, h: sha256.New()}, nil
	case model.HashSHA512:
		return &Hasher{format: format, h: sha512.New()}, nil
	case model.HashMD5:
		return &Hasher{format: format, h: md5.New()}, nil
	case model.HashMurmur2:
		return &Hasher{format: format, murmur: newMurmur2State()}, nil
	default:
		return nil, fmt.Errorf("unknown hash format %q", format)
	}
}

// Update feeds more bytes into the digest.
func (h *Hasher) Update(p []byte) {
	if h.murmur != nil {
		h.murmur.Write(p)
		return
	}
	h.h.Write(p)
}

// Finalize returns the lowercase hex digest.
func (h *Hasher) Finalize() string {
	if h.murmur != nil {
		return fmt.Sprintf("%08x", h.murmur.Sum32())
	}
	return hex.EncodeToString(h.h.Sum(nil))
}

// Format returns the format this Hasher was constructed for.
func (h *Hasher) Format() model.HashFormat { return h.format }
