package asset

import (
	"fmt"

	"rpgm-asset-decrypter/internal/crypto"
)

// Decrypter mixes asset content with a key it either holds or recovers
// from the first asset it decrypts.
//
// A Decrypter is not safe for concurrent use.
type Decrypter struct {
	key    Key
	hasKey bool
}

// New returns a Decrypter with no key set.
func New() *Decrypter {
	return &Decrypter{}
}

// NewWithKey returns a Decrypter holding the key parsed from hex.
func NewWithKey(hex string) (*Decrypter, error) {
	d := New()
	if err := d.SetKeyFromString(hex); err != nil {
		return nil, err
	}
	return d, nil
}

// Key returns the current key and whether one is set.
func (d *Decrypter) Key() (Key, bool) {
	return d.key, d.hasKey
}

// SetKey replaces the current key.
func (d *Decrypter) SetKey(k Key) {
	d.key = k
	d.hasKey = true
}

// SetKeyFromString parses a 32-character hex key and stores it. On error
// the previous key is kept.
func (d *Decrypter) SetKeyFromString(hex string) error {
	k, err := ParseKey(hex)
	if err != nil {
		return err
	}
	d.SetKey(k)
	return nil
}

// SetKeyFromFile recovers the key from an encrypted asset and stores it.
func (d *Decrypter) SetKeyFromFile(buf []byte, t FileType) (Key, error) {
	content, err := StripHeader(buf)
	if err != nil {
		return Key{}, err
	}
	k, err := RecoverKey(content, t)
	if err != nil {
		return Key{}, err
	}
	d.SetKey(k)
	return k, nil
}

// Decrypt returns a new buffer holding the decrypted content of buf with
// the header removed. buf is not modified.
func (d *Decrypter) Decrypt(buf []byte, t FileType) ([]byte, error) {
	content, err := d.prepareDecrypt(buf, t)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(content))
	copy(out, content)
	d.mix(out)
	return out, nil
}

// DecryptInPlace decrypts buf in place and returns the content view that
// follows the header.
func (d *Decrypter) DecryptInPlace(buf []byte, t FileType) ([]byte, error) {
	content, err := d.prepareDecrypt(buf, t)
	if err != nil {
		return nil, err
	}
	d.mix(content)
	return content, nil
}

// Encrypt returns a new buffer holding the header followed by the mixed
// content.
func (d *Decrypter) Encrypt(content []byte) ([]byte, error) {
	if err := d.prepareEncrypt(content); err != nil {
		return nil, err
	}
	out := WithHeader(content)
	d.mix(out[HeaderLength:])
	return out, nil
}

// EncryptInPlace mixes content in place without prepending the header.
// Callers write Signature and content back to back, for example with
// net.Buffers.
func (d *Decrypter) EncryptInPlace(content []byte) error {
	if err := d.prepareEncrypt(content); err != nil {
		return err
	}
	d.mix(content)
	return nil
}

// prepareDecrypt runs every check, and key recovery when needed, before
// any byte is written. Recovery always sees the encrypted bytes.
func (d *Decrypter) prepareDecrypt(buf []byte, t FileType) ([]byte, error) {
	content, err := StripHeader(buf)
	if err != nil {
		return nil, err
	}
	if err := checkBlock(content); err != nil {
		return nil, err
	}
	if !d.hasKey {
		k, err := RecoverKey(content, t)
		if err != nil {
			return nil, err
		}
		d.SetKey(k)
	}
	return content, nil
}

func (d *Decrypter) prepareEncrypt(content []byte) error {
	if !d.hasKey {
		return ErrMissingKey
	}
	return checkBlock(content)
}

func checkBlock(content []byte) error {
	if len(content) < crypto.BlockLength {
		return fmt.Errorf("%w: %d bytes of content, need %d", ErrBufferTooShort, len(content), crypto.BlockLength)
	}
	return nil
}

func (d *Decrypter) mix(content []byte) {
	crypto.MixInPlace(content[:crypto.BlockLength], d.key[:])
}
