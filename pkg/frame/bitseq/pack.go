package bitseq

// Pack turns one-bit-per-byte input into MSB-first packed bytes.
// A trailing partial byte is padded with zeros.
func Pack(bits []byte) []byte {
	ret := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		ret[i/8] |= (bit & 1) << (7 - uint(i%8))
	}
	return ret
}

// Unpack expands packed bytes into one bit per byte, MSB first.
func Unpack(packed []byte) []byte {
	ret := make([]byte, len(packed)*8)
	UnpackInto(ret, packed)
	return ret
}

// UnpackInto writes the bits of packed into dst and returns the count written.
// dst must hold at least len(packed)*8 bytes.
func UnpackInto(dst, packed []byte) int {
	n := 0
	for _, b := range packed {
		for shift := 7; shift >= 0; shift-- {
			dst[n] = (b >> uint(shift)) & 1
			n++
		}
	}
	return n
}
