package asset

import (
	"fmt"

	"rpgm-asset-decrypter/internal/container"
	"rpgm-asset-decrypter/internal/crypto"
)

// KnownWindow returns the offset and plaintext of a block of content whose
// decrypted value is fixed by the format. content must still be encrypted.
func KnownWindow(content []byte, t FileType) (container.Result, error) {
	switch t {
	case Image:
		prefix, _ := t.KnownPrefix()
		return container.Result{Offset: 0, Plaintext: prefix}, nil
	case Vorbis:
		return container.ScanOgg(content)
	case M4A:
		return container.ScanM4A(content)
	default:
		return container.Result{}, fmt.Errorf("%w: %v", ErrUnsupportedFileType, t)
	}
}

// RecoverKey derives the key from encrypted post-header content by XORing
// the known window against its expected plaintext.
func RecoverKey(content []byte, t FileType) (Key, error) {
	if len(content) < crypto.BlockLength {
		return Key{}, fmt.Errorf("%w: %d bytes of content, need %d", ErrBufferTooShort, len(content), crypto.BlockLength)
	}

	w, err := KnownWindow(content, t)
	if err != nil {
		return Key{}, err
	}
	if w.Offset < 0 || w.Offset+crypto.BlockLength > len(content) {
		return Key{}, fmt.Errorf("%w: window %d..%d past %d bytes", ErrBufferTooShort, w.Offset, w.Offset+crypto.BlockLength, len(content))
	}

	var k Key
	copy(k[:], crypto.Mix(content[w.Offset:w.Offset+crypto.BlockLength], w.Plaintext[:]))
	return k, nil
}
