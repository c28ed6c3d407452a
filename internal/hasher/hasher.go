// Package hasher names encoded outputs by content.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// HexLen is the hash length stored in manifests: 16 hex chars (64 bits).
const HexLen = 16

// ContentHash computes the xxHash64 of data as hex, truncated to hexLen
// characters when 0 < hexLen < 16.
func ContentHash(data []byte, hexLen int) string {
	return format(xxhash.Sum64(data), hexLen)
}

// FileHash streams the file at path through xxHash64.
func FileHash(path string, hexLen int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return format(h.Sum64(), hexLen), nil
}

// FileName builds a content-addressed name: <stem>.<hash8>.<ext>.
func FileName(stem string, data []byte, ext string) string {
	return fmt.Sprintf("%s.%s.%s", stem, ContentHash(data, 8), ext)
}

func format(sum uint64, hexLen int) string {
	full := hex.EncodeToString(binary.BigEndian.AppendUint64(nil, sum))
	if hexLen > 0 && hexLen < len(full) {
		return full[:hexLen]
	}
	return full
}
