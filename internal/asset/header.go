// Package asset decrypts and encrypts RPG Maker MV/MZ image and audio
// assets and recovers their key from the assets themselves.
package asset

import (
	"bytes"
	"fmt"
)

// HeaderLength is the size of the signature every encrypted asset starts with.
const HeaderLength = 16

// Signature is the fixed header shared by every encrypted image and audio
// asset: "RPGMV" padded to 16 bytes with version 0x000301.
var Signature = [HeaderLength]byte{
	0x52, 0x50, 0x47, 0x4d, 0x56, 0x00, 0x00, 0x00,
	0x00, 0x03, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// HasHeader reports whether buf starts with Signature.
func HasHeader(buf []byte) bool {
	return bytes.HasPrefix(buf, Signature[:])
}

// StripHeader returns the content following the signature as a view into buf.
func StripHeader(buf []byte) ([]byte, error) {
	if len(buf) < HeaderLength {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrInvalidHeader, len(buf), HeaderLength)
	}
	if !HasHeader(buf) {
		return nil, fmt.Errorf("%w: got % x", ErrInvalidHeader, buf[:HeaderLength])
	}
	return buf[HeaderLength:], nil
}

// WithHeader returns a new buffer holding Signature followed by content.
func WithHeader(content []byte) []byte {
	out := make([]byte, 0, HeaderLength+len(content))
	out = append(out, Signature[:]...)
	return append(out, content...)
}
