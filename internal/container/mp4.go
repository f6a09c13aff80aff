package container

import (
	"bytes"
	"encoding/binary"

	"rpgm-asset-decrypter/internal/crypto"
)

const (
	boxHeaderSize         = 8
	boxExtendedHeaderSize = 16
	maxFtypSize           = 256
	ftypMinorVersion      = 0x00000200
)

var (
	ftypType = []byte("ftyp")
	m4aBrand = []byte("M4A ")

	boxesAfterFtyp = [][]byte{
		[]byte("moov"), []byte("mdat"), []byte("free"),
		[]byte("skip"), []byte("wide"), []byte("pnot"),
	}

	// Plain container boxes whose payload is nothing but child boxes.
	containerBoxes = map[string]bool{
		"moov": true, "trak": true, "mdia": true, "minf": true,
		"stbl": true, "udta": true, "edts": true, "dinf": true,
	}
)

// Box is one MP4 box header.
type Box struct {
	Offset     int
	Size       int64 // including the header
	HeaderSize int
	Type       [4]byte
	Depth      int
}

// End is the offset just past the box.
func (b Box) End() int {
	return b.Offset + int(b.Size)
}

func readBox(content []byte, off, end int) (Box, error) {
	if off+boxHeaderSize > end {
		return Box{}, parseErr("mp4: box header at %d truncated (%d bytes left)", off, end-off)
	}

	b := Box{Offset: off, HeaderSize: boxHeaderSize}
	copy(b.Type[:], content[off+4:off+8])

	size32 := binary.BigEndian.Uint32(content[off : off+4])
	switch size32 {
	case 0:
		return Box{}, parseErr("mp4: zero-length %q box at %d", b.Type[:], off)
	case 1:
		if off+boxExtendedHeaderSize > end {
			return Box{}, parseErr("mp4: extended size of %q box at %d truncated", b.Type[:], off)
		}
		b.HeaderSize = boxExtendedHeaderSize
		b.Size = int64(binary.BigEndian.Uint64(content[off+8 : off+16]))
	default:
		b.Size = int64(size32)
	}

	if b.Size < int64(b.HeaderSize) {
		return Box{}, parseErr("mp4: %q box at %d declares size %d, smaller than its header", b.Type[:], off, b.Size)
	}
	if b.Size > int64(end-off) {
		return Box{}, parseErr("mp4: %q box at %d declares size %d, only %d bytes left", b.Type[:], off, b.Size, end-off)
	}
	return b, nil
}

// WalkBoxes visits every box from start to the end of content. Container
// boxes are descended into while depth > 0. Walking stops at the first
// framing error or at the first error returned by fn.
func WalkBoxes(content []byte, start, depth int, fn func(Box) error) error {
	return walkBoxes(content, start, len(content), 0, depth, fn)
}

func walkBoxes(content []byte, off, end, level, depth int, fn func(Box) error) error {
	for off < end {
		b, err := readBox(content, off, end)
		if err != nil {
			return err
		}
		b.Depth = level

		if fn != nil {
			if err := fn(b); err != nil {
				return err
			}
		}
		if level < depth && containerBoxes[string(b.Type[:])] {
			if err := walkBoxes(content, off+b.HeaderSize, b.End(), level+1, depth, fn); err != nil {
				return err
			}
		}
		off = b.End()
	}
	return nil
}

func isBoxAfterFtyp(t []byte) bool {
	for _, known := range boxesAfterFtyp {
		if bytes.Equal(t, known) {
			return true
		}
	}
	return false
}

// ScanM4A rebuilds the plaintext of the leading ftyp box header of a mixed
// M4A stream.
//
// The mixed block covers the ftyp size, type, major brand and minor
// version. The compatible brand list that follows is in the clear, so the
// ftyp size is found by locating the next top-level box and walking the
// top-level boxes from there. A candidate whose walk reaches the end of
// content exactly wins; otherwise the first candidate whose walk ends in a
// tolerated tail is used.
func ScanM4A(content []byte) (Result, error) {
	if len(content) < crypto.BlockLength+boxHeaderSize {
		return Result{}, parseErr("mp4: %d-byte sample too short for ftyp box", len(content))
	}

	var firstErr error
	fallback := -1
	for size := crypto.BlockLength; size <= maxFtypSize && size+boxHeaderSize <= len(content); size += 4 {
		if !isBoxAfterFtyp(content[size+4 : size+8]) {
			continue
		}
		end, err := topLevelEnd(content, size)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if end == len(content) {
			return scanResult(content, size)
		}
		if fallback < 0 {
			fallback = size
		}
	}

	if fallback >= 0 {
		return scanResult(content, fallback)
	}
	if firstErr != nil {
		return Result{}, firstErr
	}
	return Result{}, parseErr("mp4: no top-level box follows ftyp within %d bytes", maxFtypSize)
}

func scanResult(content []byte, ftypSize int) (Result, error) {
	return newResult(content, 0, ftypPlaintext(uint32(ftypSize), content[crypto.BlockLength:ftypSize]))
}

// topLevelEnd walks top-level boxes from start and returns the offset just
// past the last whole box. A tail too short for a box header, or made only
// of zero padding, ends the walk without error.
func topLevelEnd(content []byte, start int) (int, error) {
	off := start
	for off < len(content) {
		b, err := readBox(content, off, len(content))
		if err != nil {
			if len(content)-off < boxHeaderSize || allZero(content[off:]) {
				return off, nil
			}
			return off, err
		}
		off = b.End()
	}
	return off, nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}

func ftypPlaintext(size uint32, compatible []byte) [crypto.BlockLength]byte {
	var plain [crypto.BlockLength]byte
	binary.BigEndian.PutUint32(plain[0:4], size)
	copy(plain[4:8], ftypType)
	copy(plain[8:12], majorBrand(compatible))
	binary.BigEndian.PutUint32(plain[12:16], ftypMinorVersion)
	return plain
}

// majorBrand guesses the major brand from the compatible brand list, which
// conventionally repeats it.
func majorBrand(compatible []byte) []byte {
	first := m4aBrand
	for i := 0; i+4 <= len(compatible); i += 4 {
		brand := compatible[i : i+4]
		if bytes.Equal(brand, m4aBrand) {
			return m4aBrand
		}
		if i == 0 {
			first = brand
		}
	}
	return first
}
