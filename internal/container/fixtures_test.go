package container

import (
	"bytes"
	"encoding/binary"
)

// oggPage builds one Ogg page carrying whole packets. The checksum is left
// zero since nothing here verifies it.
func oggPage(headerType byte, granule uint64, serial, seq uint32, packets ...[]byte) []byte {
	var table, body []byte
	for _, p := range packets {
		n := len(p)
		for n >= 255 {
			table = append(table, 255)
			n -= 255
		}
		table = append(table, byte(n))
		body = append(body, p...)
	}

	h := make([]byte, oggPageHeaderSize)
	copy(h, "OggS")
	h[5] = headerType
	binary.LittleEndian.PutUint64(h[6:14], granule)
	binary.LittleEndian.PutUint32(h[14:18], serial)
	binary.LittleEndian.PutUint32(h[18:22], seq)
	h[26] = byte(len(table))

	out := append(h, table...)
	return append(out, body...)
}

func vorbisIdent() []byte {
	p := make([]byte, vorbisIdentSize)
	copy(p, "\x01vorbis")
	p[11] = 2                                       // channels
	binary.LittleEndian.PutUint32(p[12:16], 44100)  // sample rate
	binary.LittleEndian.PutUint32(p[20:24], 128000) // nominal bitrate
	p[28] = 0xb8                                    // blocksizes
	p[29] = 1                                       // framing
	return p
}

// oggStream is a minimal three-page Vorbis stream.
func oggStream(serial uint32) []byte {
	var buf bytes.Buffer
	buf.Write(oggPage(oggHeaderTypeBOS, 0, serial, 0, vorbisIdent()))
	buf.Write(oggPage(0, 0, serial, 1, []byte("\x03vorbis comment"), []byte("\x05vorbis setup")))
	buf.Write(oggPage(0x04, 4096, serial, 2, bytes.Repeat([]byte{0x5a}, 300)))
	return buf.Bytes()
}

func mp4Box(typ string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	b := make([]byte, boxHeaderSize, boxHeaderSize+len(body))
	binary.BigEndian.PutUint32(b[0:4], uint32(boxHeaderSize+len(body)))
	copy(b[4:8], typ)
	return append(b, body...)
}

func ftypBox(major string, minor uint32, compatible ...string) []byte {
	payload := make([]byte, 8)
	copy(payload[0:4], major)
	binary.BigEndian.PutUint32(payload[4:8], minor)
	for _, c := range compatible {
		payload = append(payload, c...)
	}
	return mp4Box("ftyp", payload)
}

// m4aStream is an ftyp box followed by a small moov tree and mdat.
func m4aStream() []byte {
	var buf bytes.Buffer
	buf.Write(ftypBox("M4A ", ftypMinorVersion, "M4A ", "isom", "iso2"))
	buf.Write(mp4Box("moov",
		mp4Box("mvhd", make([]byte, 100)),
		mp4Box("trak",
			mp4Box("tkhd", make([]byte, 84)),
			mp4Box("mdia", mp4Box("mdhd", make([]byte, 24))),
		),
	))
	buf.Write(mp4Box("free"))
	buf.Write(mp4Box("mdat", bytes.Repeat([]byte{0x21}, 512)))
	return buf.Bytes()
}

// mixed XORs the leading block with an arbitrary key, as an encrypted asset
// stores it.
func mixed(content []byte) []byte {
	out := append([]byte(nil), content...)
	for i := 0; i < 16 && i < len(out); i++ {
		out[i] ^= byte(0xA5 + 7*i)
	}
	return out
}
