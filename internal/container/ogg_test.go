package container

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanOgg_RebuildsFirstPageHeader(t *testing.T) {
	plain := oggStream(0xCAFE1234)

	res, err := ScanOgg(mixed(plain))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Offset)
	assert.Equal(t, plain[:16], res.Plaintext[:])
}

func TestScanOgg_SerialFromSecondPage(t *testing.T) {
	res, err := ScanOgg(mixed(oggStream(0x0000BEEF)))
	require.NoError(t, err)
	assert.Equal(t, uint16(0xBEEF), binary.LittleEndian.Uint16(res.Plaintext[14:16]))
}

func TestScanOgg_TruncatedSegmentTable(t *testing.T) {
	content := mixed(oggStream(1))
	// First page has one lacing value; claim 40 and cut the buffer short.
	content[26] = 40
	content = content[:oggPageHeaderSize+10]

	_, err := ScanOgg(content)
	assert.ErrorIs(t, err, ErrParse)
}

func TestScanOgg_TruncatedBody(t *testing.T) {
	content := mixed(oggStream(1))
	content = content[:oggPageHeaderSize+1+12]

	_, err := ScanOgg(content)
	assert.ErrorIs(t, err, ErrParse)
}

func TestScanOgg_ShortHeader(t *testing.T) {
	_, err := ScanOgg(make([]byte, 20))
	assert.ErrorIs(t, err, ErrParse)
}

func TestScanOgg_NotVorbis(t *testing.T) {
	var opus []byte
	opus = append(opus, oggPage(oggHeaderTypeBOS, 0, 7, 0, append([]byte("OpusHead"), make([]byte, 24)...))...)
	opus = append(opus, oggPage(0, 0, 7, 1, []byte("OpusTags"))...)

	_, err := ScanOgg(mixed(opus))
	assert.ErrorIs(t, err, ErrParse)
}

func TestScanOgg_ShortIdentPacket(t *testing.T) {
	// Every length here is short of a vorbis identification header.
	for _, n := range []int{11, 20, vorbisIdentSize - 1} {
		ident := vorbisIdent()[:n]
		var s []byte
		s = append(s, oggPage(oggHeaderTypeBOS, 0, 7, 0, ident)...)
		s = append(s, oggPage(0, 0, 7, 1, []byte("\x03vorbis"))...)

		_, err := ScanOgg(mixed(s))
		assert.ErrorIs(t, err, ErrParse, "ident packet of %d bytes", n)
	}
}

func TestScanOgg_BadSecondCapture(t *testing.T) {
	content := mixed(oggStream(1))
	second := oggPageHeaderSize + 1 + vorbisIdentSize
	copy(content[second:], "OggX")

	_, err := ScanOgg(content)
	assert.ErrorIs(t, err, ErrParse)
}

func TestScanOgg_SerialMismatch(t *testing.T) {
	content := mixed(oggStream(0x11112222))
	second := oggPageHeaderSize + 1 + vorbisIdentSize
	binary.LittleEndian.PutUint32(content[second+14:], 0x33332222)

	_, err := ScanOgg(content)
	assert.ErrorIs(t, err, ErrParse)
}

func TestScanOgg_MissingSecondPage(t *testing.T) {
	content := mixed(oggPage(oggHeaderTypeBOS, 0, 1, 0, vorbisIdent()))

	_, err := ScanOgg(content)
	assert.ErrorIs(t, err, ErrParse)
}

func TestReadPages(t *testing.T) {
	pages, err := ReadPages(oggStream(42), 10)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Equal(t, uint32(42), pages[0].Serial)
	assert.Equal(t, byte(oggHeaderTypeBOS), pages[0].HeaderType)
	assert.Equal(t, vorbisIdentSize, pages[0].BodyLength)
	assert.Equal(t, uint32(2), pages[2].Sequence)
	assert.Equal(t, uint64(4096), pages[2].Granule)
	assert.Equal(t, []byte{255, 45}, []byte(pages[2].Segments))
	assert.Equal(t, pages[1].Offset+pages[1].Length(), pages[2].Offset)
}

func TestReadPages_Limit(t *testing.T) {
	pages, err := ReadPages(oggStream(42), 2)
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestFirstPacketLength_Continued(t *testing.T) {
	p := Page{Segments: []byte{255, 255}}
	n, ok := p.FirstPacketLength()
	assert.False(t, ok)
	assert.Equal(t, 510, n)
}
