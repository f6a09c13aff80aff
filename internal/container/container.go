// Package container decodes just enough Ogg and MP4 framing to rebuild the
// plaintext of an asset's mixed leading block from structure that is stored
// in the clear further into the file.
package container

import (
	"errors"
	"fmt"

	"rpgm-asset-decrypter/internal/crypto"
)

// ErrParse reports that the container framing could not be followed far
// enough to yield a known-plaintext window.
var ErrParse = errors.New("container parse error")

// Result is a window of content whose plaintext is known.
type Result struct {
	Offset    int // relative to the start of post-header content
	Plaintext [crypto.BlockLength]byte
}

func newResult(content []byte, offset int, plain [crypto.BlockLength]byte) (Result, error) {
	if offset < 0 || offset+crypto.BlockLength > len(content) {
		return Result{}, parseErr("window %d..%d exceeds %d-byte sample", offset, offset+crypto.BlockLength, len(content))
	}
	return Result{Offset: offset, Plaintext: plain}, nil
}

func parseErr(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrParse}, args...)...)
}
