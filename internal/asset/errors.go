package asset

import (
	"errors"

	"rpgm-asset-decrypter/internal/container"
)

var (
	// ErrInvalidHeader means the buffer does not start with Signature.
	ErrInvalidHeader = errors.New("invalid header: not an RPG Maker encrypted asset or corrupted")
	// ErrBufferTooShort means the buffer is smaller than the window an operation needs.
	ErrBufferTooShort = errors.New("buffer too short")
	// ErrUnsupportedFileType means an extension or hint was not recognised.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrMissingKey means encryption was requested before any key was set.
	ErrMissingKey = errors.New("key must be set before encrypting")
	// ErrInvalidKeyFormat means a key string is not 32 hex characters.
	ErrInvalidKeyFormat = errors.New("key must be 32 hex characters")
	// ErrContainerParse means Ogg or MP4 framing could not be followed to a known-plaintext window.
	ErrContainerParse = container.ErrParse
)
