package asset

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"rpgm-asset-decrypter/internal/crypto"
)

// KeyStringLength is the length of a key in hex form.
const KeyStringLength = 2 * crypto.BlockLength

// DefaultKey is used by the engine when a project leaves its encryption
// key blank: the MD5 of the empty string.
const DefaultKey = "d41d8cd98f00b204e9800998ecf8427e"

// Key is the XOR key applied to an asset's leading block.
type Key [crypto.BlockLength]byte

// ParseKey decodes a 32-character hex string, upper or lower case.
func ParseKey(s string) (Key, error) {
	var k Key
	if len(s) != KeyStringLength {
		return k, fmt.Errorf("%w: got %d characters", ErrInvalidKeyFormat, len(s))
	}
	if _, err := hex.Decode(k[:], []byte(s)); err != nil {
		return Key{}, fmt.Errorf("%w: %v", ErrInvalidKeyFormat, err)
	}
	return k, nil
}

// KeyFromPassword derives the key the editor stores in System.json from
// the password typed into the deployment dialog.
func KeyFromPassword(password string) Key {
	return Key(md5.Sum([]byte(password)))
}

// String returns the key as lowercase hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}
