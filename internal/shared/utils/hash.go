package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Hasher produces stable identifiers from string fields.
type Hasher struct{}

// DefaultHasher returns the SHA-256 hasher
func DefaultHasher() *Hasher {
	return &Hasher{}
}

// Hash computes a hex digest of data
func (h *Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFields hashes fields independent of their order
func (h *Hasher) HashFields(fields ...string) string {
	sorted := make([]string, len(fields))
	copy(sorted, fields)
	sort.Strings(sorted)
	return h.Hash([]byte(strings.Join(sorted, "|")))
}

// DatasetKey identifies one benchmark input at one sample size.
// A rewritten file changes size or mtime and therefore the key.
func (h *Hasher) DatasetKey(path string, info os.FileInfo, sampleSize int) string {
	return h.HashFields(
		"path:"+path,
		"size:"+strconv.FormatInt(info.Size(), 10),
		"mtime:"+strconv.FormatInt(info.ModTime().UnixNano(), 10),
		"sample:"+strconv.Itoa(sampleSize),
	)
}

// ShortHash truncates a digest for log output.
func ShortHash(full string) string {
	if len(full) < 8 {
		return full
	}
	return full[:8]
}
