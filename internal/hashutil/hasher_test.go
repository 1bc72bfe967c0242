package hashutil

import (
	"strings"
	"testing"

	"github.com/paradigmmc/mcman-go/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasherKnownVectors(t *testing.T) {
	cases := []struct {
		format model.HashFormat
		want   string
	}{
		{model.HashMD5, "9e107d9d372bb6826bd81d3542a419d6"},
		{model.HashSHA1, "2fd4e1c67a2d28fced849ee1bb76e7391b93eb12"},
		{model.HashSHA256, "d7a8fbb307d7809469ca9abcb0082e4f8d5651e46d3cdb762d02d0bf37c9e592"},
		{model.HashSHA512, "07e547d9586f6a73f73fbac0435ed76951218fb7d0c8d788a309d785436bbb642e93a252a954f23912547d1e8a3b5ed6e1bfd7097821233fa0538f3db854fee6"},
	}
	for _, c := range cases {
		h, err := New(c.format)
		require.NoError(t, err)
		h.Update([]byte("The quick brown fox jumps over the lazy dog"))
		assert.Equal(t, c.want, h.Finalize())
	}
}

func TestHasherUnknownFormat(t *testing.T) {
	_, err := New(model.HashFormat("bogus"))
	assert.Error(t, err)
}

func TestHasherUpdateIsStreamable(t *testing.T) {
	whole, err := New(model.HashSHA256)
	require.NoError(t, err)
	whole.Update([]byte("hello world"))

	streamed, err := New(model.HashSHA256)
	require.NoError(t, err)
	streamed.Update([]byte("hello "))
	streamed.Update([]byte("world"))

	assert.Equal(t, whole.Finalize(), streamed.Finalize())
}

func TestMurmur2StripsWhitespace(t *testing.T) {
	h, err := New(model.HashMurmur2)
	require.NoError(t, err)
	h.Update([]byte("hello world"))
	noSpace := h.Finalize()

	h2, err := New(model.HashMurmur2)
	require.NoError(t, err)
	h2.Update([]byte("he llo\tworld\r\n"))
	assert.Equal(t, noSpace, h2.Finalize())
}

func TestMurmur2SeedOneKnownVector(t *testing.T) {
	h, err := New(model.HashMurmur2)
	require.NoError(t, err)
	h.Update([]byte(""))
	assert.Equal(t, "5bd15e36", h.Finalize())
}

func TestHashReaderMatchesPreferredHash(t *testing.T) {
	h, err := New(model.HashSHA256)
	require.NoError(t, err)
	h.Update([]byte("payload"))
	digest := h.Finalize()

	meta := model.FileMeta{Hashes: map[model.HashFormat]string{model.HashSHA256: strings.ToUpper(digest)}}
	hr, err := NewHashReader(meta)
	require.NoError(t, err)
	require.True(t, hr.Present())
	_, werr := hr.Write([]byte("payload"))
	require.NoError(t, werr)
	ok, got := hr.Matches()
	assert.True(t, ok)
	assert.Equal(t, digest, got)
}

func TestHashReaderNoHashAlwaysMatches(t *testing.T) {
	hr, err := NewHashReader(model.FileMeta{})
	require.NoError(t, err)
	assert.False(t, hr.Present())
	ok, _ := hr.Matches()
	assert.True(t, ok)
}

func TestHashFileDetectsMismatch(t *testing.T) {
	meta := model.FileMeta{Hashes: map[model.HashFormat]string{model.HashSHA256: "0000000000000000000000000000000000000000000000000000000000000000"}}
	ok, format, _, err := HashFile(strings.NewReader("some content"), meta)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, model.HashSHA256, format)
}
