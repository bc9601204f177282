package crypto

import (
	"encoding/hex"
	"time"

	"github.com/multiformats/go-multihash"
)

// FingerprintLength is the number of hex characters kept from the digest.
const FingerprintLength = 12

// Ellipsis is appended to every truncated fingerprint.
const Ellipsis = "..."

// Generator produces display fingerprints. The digest covers the seed and
// the wall-clock time of the call, so two calls for the same seed at
// different instants return different strings.
type Generator struct {
	now func() time.Time
}

// NewGenerator returns a Generator that reads time from now. A nil now uses
// time.Now.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Fingerprint returns the first 12 hex characters of SHA-256(seed||timestamp)
// followed by "...".
func (g *Generator) Fingerprint(seed string) string {
	ts := g.now().UTC().Format(time.RFC3339Nano)
	return HexDigest(seed+ts, FingerprintLength) + Ellipsis
}

// HexDigest returns the first n hex characters of the sha2-256 digest of s.
// n <= 0 or larger than the digest returns the full 64 characters.
func HexDigest(s string, n int) string {
	sum, err := multihash.Sum([]byte(s), multihash.SHA2_256, -1)
	if err != nil {
		// Sum only fails for unknown codes or bad lengths.
		return ""
	}
	dm, err := multihash.Decode(sum)
	if err != nil {
		return ""
	}
	h := hex.EncodeToString(dm.Digest)
	if n <= 0 || n > len(h) {
		return h
	}
	return h[:n]
}
