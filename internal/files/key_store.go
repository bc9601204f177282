package files

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/harrylevesque/academicverify/internal/crypto"
)

// ErrKeyExists is returned by WriteMasterKey when the file already exists.
var ErrKeyExists = errors.New("master key file already exists")

// WriteMasterKey generates a master key and writes it hex encoded to path.
// An existing file is never overwritten.
func WriteMasterKey(path string) error {
	if FileExists(path) {
		return fmt.Errorf("%s: %w", path, ErrKeyExists)
	}
	key, err := crypto.NewMasterKey()
	if err != nil {
		return fmt.Errorf("generate master key: %w", err)
	}
	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)+"\n"), 0600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadMasterKey reads a hex master key from path.
func ReadMasterKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return crypto.ParseMasterKey(string(data))
}

// ResolveMasterKey returns the key from keyHex if set, otherwise from
// keyFile. When neither yields a key a random one is generated and
// ephemeral is true; sessions then do not survive a restart.
func ResolveMasterKey(keyHex, keyFile string) (key []byte, ephemeral bool, err error) {
	if keyHex != "" {
		key, err = crypto.ParseMasterKey(keyHex)
		return key, false, err
	}
	if keyFile != "" {
		key, err = ReadMasterKey(keyFile)
		if err == nil {
			return key, false, nil
		}
		if !os.IsNotExist(err) {
			return nil, false, fmt.Errorf("read %s: %w", keyFile, err)
		}
	}
	key, err = crypto.NewMasterKey()
	return key, true, err
}

// FileExists checks if the given file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
