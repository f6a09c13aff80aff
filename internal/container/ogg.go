package container

import (
	"bytes"
	"encoding/binary"

	"rpgm-asset-decrypter/internal/crypto"
)

const (
	oggPageHeaderSize = 27
	oggHeaderTypeBOS  = 0x02
	vorbisIdentSize   = 30
)

var (
	oggCapture   = []byte("OggS")
	vorbisPrefix = []byte("\x01vorbis")
)

// Page holds the fixed header fields of one Ogg page.
// Page 0 of an encrypted asset has bytes 0..15 of its header mixed, so
// Capture, Version, HeaderType, Granule and the low half of Serial are
// meaningless until the asset is decrypted.
type Page struct {
	Offset     int
	Capture    [4]byte
	Version    byte
	HeaderType byte
	Granule    uint64
	Serial     uint32
	Sequence   uint32
	Checksum   uint32
	Segments   []byte // lacing values
	BodyLength int
}

// Length is the full page size: header, segment table and body.
func (p Page) Length() int {
	return oggPageHeaderSize + len(p.Segments) + p.BodyLength
}

// BodyOffset is the absolute offset of the first body byte.
func (p Page) BodyOffset() int {
	return p.Offset + oggPageHeaderSize + len(p.Segments)
}

// FirstPacketLength sums lacing values up to the first one below 255.
// ok is false when the packet continues onto the next page.
func (p Page) FirstPacketLength() (n int, ok bool) {
	for _, lv := range p.Segments {
		n += int(lv)
		if lv < 255 {
			return n, true
		}
	}
	return n, false
}

func readPageHeader(content []byte, off int) (Page, error) {
	if off < 0 || off+oggPageHeaderSize > len(content) {
		return Page{}, parseErr("ogg: page header at %d truncated (%d bytes available)", off, len(content)-off)
	}
	h := content[off : off+oggPageHeaderSize]

	p := Page{
		Offset:     off,
		Version:    h[4],
		HeaderType: h[5],
		Granule:    binary.LittleEndian.Uint64(h[6:14]),
		Serial:     binary.LittleEndian.Uint32(h[14:18]),
		Sequence:   binary.LittleEndian.Uint32(h[18:22]),
		Checksum:   binary.LittleEndian.Uint32(h[22:26]),
	}
	copy(p.Capture[:], h[0:4])
	return p, nil
}

func readPage(content []byte, off int) (Page, error) {
	p, err := readPageHeader(content, off)
	if err != nil {
		return Page{}, err
	}

	segCount := int(content[off+26])
	tableStart := off + oggPageHeaderSize
	if tableStart+segCount > len(content) {
		return Page{}, parseErr("ogg: segment table at %d claims %d entries, %d bytes available",
			tableStart, segCount, len(content)-tableStart)
	}
	p.Segments = content[tableStart : tableStart+segCount]

	for _, lv := range p.Segments {
		p.BodyLength += int(lv)
	}
	if p.BodyOffset()+p.BodyLength > len(content) {
		return Page{}, parseErr("ogg: page at %d claims %d body bytes, %d available",
			off, p.BodyLength, len(content)-p.BodyOffset())
	}
	return p, nil
}

func checkCapture(p Page) error {
	if !bytes.Equal(p.Capture[:], oggCapture) {
		return parseErr("ogg: bad capture pattern % x at %d", p.Capture[:], p.Offset)
	}
	if p.Version != 0 {
		return parseErr("ogg: unsupported stream structure version %d at %d", p.Version, p.Offset)
	}
	return nil
}

// ReadPages returns up to n complete page headers starting at offset 0.
// The capture pattern of the first page is not checked since it may be mixed.
func ReadPages(content []byte, n int) ([]Page, error) {
	var pages []Page
	off := 0
	for len(pages) < n && off < len(content) {
		p, err := readPage(content, off)
		if err != nil {
			return pages, err
		}
		if len(pages) > 0 {
			if err := checkCapture(p); err != nil {
				return pages, err
			}
		}
		pages = append(pages, p)
		off += p.Length()
	}
	return pages, nil
}

// ScanOgg rebuilds the plaintext of the first page header of a mixed
// Ogg-Vorbis stream.
//
// The first page header is fixed apart from the bitstream serial number:
// capture pattern, version 0, the beginning-of-stream flag and a zero granule
// position. The serial is the same on every page, so its low two bytes are
// read from page 2, which is stored in the clear.
func ScanOgg(content []byte) (Result, error) {
	first, err := readPage(content, 0)
	if err != nil {
		return Result{}, err
	}

	pktLen, ok := first.FirstPacketLength()
	if !ok {
		return Result{}, parseErr("ogg: identification packet spans more than one page")
	}
	if pktLen < vorbisIdentSize {
		return Result{}, parseErr("ogg: identification packet is %d bytes, need %d", pktLen, vorbisIdentSize)
	}
	pkt := content[first.BodyOffset() : first.BodyOffset()+pktLen]
	if !bytes.HasPrefix(pkt, vorbisPrefix) {
		return Result{}, parseErr("ogg: first packet is not a vorbis identification header")
	}
	if v := binary.LittleEndian.Uint32(pkt[7:11]); v != 0 {
		return Result{}, parseErr("ogg: unsupported vorbis version %d", v)
	}

	second, err := readPageHeader(content, first.Length())
	if err != nil {
		return Result{}, err
	}
	if err := checkCapture(second); err != nil {
		return Result{}, err
	}

	// Bytes 16..17 of the first page header sit past the mixed block.
	if uint16(first.Serial>>16) != uint16(second.Serial>>16) {
		return Result{}, parseErr("ogg: serial %08x on page 2 does not match page 1", second.Serial)
	}

	var plain [crypto.BlockLength]byte
	copy(plain[0:4], oggCapture)
	plain[4] = 0
	plain[5] = oggHeaderTypeBOS
	// plain[6:14] granule position stays zero
	binary.LittleEndian.PutUint16(plain[14:16], uint16(second.Serial))

	return newResult(content, 0, plain)
}
