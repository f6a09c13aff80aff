package asset

import (
	"fmt"

	"rpgm-asset-decrypter/internal/crypto"
)

// FileType is the kind of asset hidden behind the header.
type FileType uint8

const (
	Image FileType = iota
	Vorbis
	M4A
)

// Engine selects the encrypted extension family.
type Engine uint8

const (
	MV Engine = iota // rpgmvp, rpgmvo, rpgmvm
	MZ               // png_, ogg_, m4a_
)

// Encrypted and plain extensions, without the leading dot.
const (
	MVImageExt  = "rpgmvp"
	MVVorbisExt = "rpgmvo"
	MVM4AExt    = "rpgmvm"
	MZImageExt  = "png_"
	MZVorbisExt = "ogg_"
	MZM4AExt    = "m4a_"

	PNGExt = "png"
	OGGExt = "ogg"
	M4AExt = "m4a"
)

// pngPrefix is the PNG signature followed by the IHDR chunk length and
// type, which every valid PNG starts with.
var pngPrefix = [crypto.BlockLength]byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
}

func (t FileType) String() string {
	switch t {
	case Image:
		return PNGExt
	case Vorbis:
		return OGGExt
	case M4A:
		return M4AExt
	default:
		return fmt.Sprintf("FileType(%d)", uint8(t))
	}
}

// KnownPrefix returns the plaintext every asset of this type starts with.
// Audio types have no fixed prefix; their window comes from a container scan.
func (t FileType) KnownPrefix() ([crypto.BlockLength]byte, bool) {
	if t == Image {
		return pngPrefix, true
	}
	return [crypto.BlockLength]byte{}, false
}

// Classify maps an encrypted asset extension to its FileType.
// Matching is case-sensitive and ext has no leading dot.
func Classify(ext string) (FileType, error) {
	switch ext {
	case MVImageExt, MZImageExt:
		return Image, nil
	case MVVorbisExt, MZVorbisExt:
		return Vorbis, nil
	case MVM4AExt, MZM4AExt:
		return M4A, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}

// ClassifyPlain maps a decrypted asset extension to its FileType.
func ClassifyPlain(ext string) (FileType, error) {
	switch ext {
	case PNGExt:
		return Image, nil
	case OGGExt:
		return Vorbis, nil
	case M4AExt:
		return M4A, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}

// EngineOf reports which engine family an encrypted extension belongs to.
func EngineOf(ext string) (Engine, error) {
	switch ext {
	case MVImageExt, MVVorbisExt, MVM4AExt:
		return MV, nil
	case MZImageExt, MZVorbisExt, MZM4AExt:
		return MZ, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}

// ParseEngine accepts "mv" or "mz".
func ParseEngine(s string) (Engine, error) {
	switch s {
	case "mv":
		return MV, nil
	case "mz":
		return MZ, nil
	default:
		return 0, fmt.Errorf("asset: unknown engine %q", s)
	}
}

func (e Engine) String() string {
	if e == MZ {
		return "mz"
	}
	return "mv"
}

// EncryptedExt returns the extension an encrypted asset of type t carries.
func EncryptedExt(t FileType, e Engine) string {
	switch {
	case t == Image && e == MV:
		return MVImageExt
	case t == Image:
		return MZImageExt
	case t == Vorbis && e == MV:
		return MVVorbisExt
	case t == Vorbis:
		return MZVorbisExt
	case e == MV:
		return MVM4AExt
	default:
		return MZM4AExt
	}
}

// DecryptedExt returns the extension of the plain asset.
func DecryptedExt(t FileType) string {
	return t.String()
}
