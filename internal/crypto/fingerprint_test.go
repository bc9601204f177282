package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	cur := start
	return func() time.Time {
		t := cur
		cur = cur.Add(step)
		return t
	}
}

func TestFingerprint_Format(t *testing.T) {
	g := NewGenerator(nil)
	fp := g.Fingerprint("CRED-001")

	require.True(t, strings.HasSuffix(fp, Ellipsis))
	hexPart := strings.TrimSuffix(fp, Ellipsis)
	assert.Len(t, hexPart, FingerprintLength)
	_, err := hex.DecodeString(hexPart)
	assert.NoError(t, err)
}

func TestFingerprint_MatchesSHA256OfSeedAndTime(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(func() time.Time { return at })

	sum := sha256.Sum256([]byte("CRED-004" + at.Format(time.RFC3339Nano)))
	want := hex.EncodeToString(sum[:])[:12] + "..."

	assert.Equal(t, want, g.Fingerprint("CRED-004"))
}

// The same seed fingerprinted at two instants yields two different strings.
// This is expected: the fingerprint is not a stable content hash.
func TestFingerprint_NotIdempotentAcrossTime(t *testing.T) {
	g := NewGenerator(steppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Second))

	first := g.Fingerprint("CRED-001")
	second := g.Fingerprint("CRED-001")

	assert.NotEqual(t, first, second)
}

func TestFingerprint_SameInstantSameSeed(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewGenerator(func() time.Time { return at })

	assert.Equal(t, g.Fingerprint("x"), g.Fingerprint("x"))
	assert.NotEqual(t, g.Fingerprint("x"), g.Fingerprint("y"))
}

func TestHexDigest(t *testing.T) {
	sum := sha256.Sum256([]byte("Tech University"))
	full := hex.EncodeToString(sum[:])

	assert.Equal(t, full[:6], HexDigest("Tech University", 6))
	assert.Equal(t, full, HexDigest("Tech University", 0))
	assert.Equal(t, full, HexDigest("Tech University", 500))
}

func TestContentID(t *testing.T) {
	a, err := ContentID([]byte(`{"student":"Sarah Williams"}`))
	require.NoError(t, err)
	b, err := ContentID([]byte(`{"student":"Sarah Williams"}`))
	require.NoError(t, err)
	c, err := ContentID([]byte(`{"student":"John Smith"}`))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	// CIDv1 in base32 starts with "b".
	assert.True(t, strings.HasPrefix(a, "b"))
}
