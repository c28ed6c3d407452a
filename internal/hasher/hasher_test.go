package hasher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash(t *testing.T) {
	// xxhash64 of the empty input.
	assert.Equal(t, "ef46db3751d8e999", ContentHash(nil, 0))
	assert.Equal(t, "ef46db37", ContentHash(nil, 8))
	assert.Equal(t, "ef46db3751d8e999", ContentHash(nil, 40))

	a := ContentHash([]byte("RIFF....WEBP"), HexLen)
	b := ContentHash([]byte("RIFF....WEBQ"), HexLen)
	assert.Len(t, a, HexLen)
	assert.NotEqual(t, a, b)
}

func TestFileHashMatchesContentHash(t *testing.T) {
	data := []byte("some encoded bytes")
	path := filepath.Join(t.TempDir(), "x.webp")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := FileHash(path, HexLen)
	require.NoError(t, err)
	assert.Equal(t, ContentHash(data, HexLen), got)

	_, err = FileHash(filepath.Join(t.TempDir(), "missing"), HexLen)
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	name := FileName("photos/cat", []byte{}, "webp")
	assert.Equal(t, "photos/cat.ef46db37.webp", name)
}
