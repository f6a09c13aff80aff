package crypto

// BlockLength is the number of leading content bytes the asset scheme XORs
// with the key. Everything after the block is stored verbatim.
const BlockLength = 16

// Mix returns block XOR key as a new slice.
//
//	out[i] = block[i] ^ key[i]
//
// Callers must pre-slice block to len(key); a length mismatch panics.
func Mix(block, key []byte) []byte {
	out := make([]byte, len(block))
	copy(out, block)
	MixInPlace(out, key)
	return out
}

// MixInPlace XORs block with key in place. Applying it twice with the same
// key restores the original bytes.
func MixInPlace(block, key []byte) {
	if len(block) != len(key) {
		panic("crypto: mix length mismatch")
	}
	for i := range block {
		block[i] ^= key[i]
	}
}
