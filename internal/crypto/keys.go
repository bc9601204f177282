package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

// MasterKeySize is the length in bytes of the session master key.
const MasterKeySize = 32

// ErrInvalidKeyLength is returned when a decoded master key is not 32 bytes.
var ErrInvalidKeyLength = errors.New("invalid key length")

// SessionKeys holds the cookie authentication and encryption keys.
type SessionKeys struct {
	Hash  []byte
	Block []byte
}

// DeriveSessionKeys derives the cookie hash key (64 bytes) and block key
// (32 bytes) from the master key using HKDF-SHA256.
func DeriveSessionKeys(master []byte) (SessionKeys, error) {
	if len(master) != MasterKeySize {
		return SessionKeys{}, ErrInvalidKeyLength
	}
	hashKey, err := derive(master, "session-hash", 64)
	if err != nil {
		return SessionKeys{}, err
	}
	blockKey, err := derive(master, "session-block", 32)
	if err != nil {
		return SessionKeys{}, err
	}
	return SessionKeys{Hash: hashKey, Block: blockKey}, nil
}

func derive(secret []byte, info string, n int) ([]byte, error) {
	h := hkdf.New(sha256.New, secret, nil, []byte(info))
	out := make([]byte, n)
	if _, err := io.ReadFull(h, out); err != nil {
		return nil, fmt.Errorf("hkdf %s: %w", info, err)
	}
	return out, nil
}

// ParseMasterKey decodes a hex master key, ignoring surrounding whitespace.
func ParseMasterKey(h string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimSpace(h))
	if err != nil {
		return nil, fmt.Errorf("master key hex decode error: %w", err)
	}
	if len(b) != MasterKeySize {
		return nil, ErrInvalidKeyLength
	}
	return b, nil
}

// NewMasterKey returns a fresh random master key.
func NewMasterKey() ([]byte, error) {
	b := make([]byte, MasterKeySize)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}
