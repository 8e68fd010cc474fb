package bitseq

// BitSequence is a fixed-capacity run of bits filled front to back.
// Each byte of the backing buffer holds a single bit (0 or 1).
type BitSequence struct {
	bits   []byte
	cursor int
}

func New(capacity int) *BitSequence {
	if capacity < 0 {
		capacity = 0
	}
	return &BitSequence{
		bits: make([]byte, capacity),
	}
}

// Cap returns the number of bits the sequence can hold.
func (b *BitSequence) Cap() int {
	return len(b.bits)
}

// Cursor returns the index of the next bit to be written.
func (b *BitSequence) Cursor() int {
	return b.cursor
}

func (b *BitSequence) Fulfilled() bool {
	return b.cursor >= len(b.bits)
}

// Push appends a bit. Anything other than 0 is stored as 1.
// Pushing into a fulfilled sequence does nothing.
func (b *BitSequence) Push(bit byte) {
	if b.Fulfilled() {
		return
	}
	b.bits[b.cursor] = bit & 1
	b.cursor++
}

func (b *BitSequence) Clear() {
	clear(b.bits[:b.cursor])
	b.cursor = 0
}

func (b *BitSequence) Bit(i int) byte {
	return b.bits[i]
}

// Bits returns the bits written so far. The slice aliases the sequence.
func (b *BitSequence) Bits() []byte {
	return b.bits[:b.cursor]
}

// Uint interprets the whole sequence as a big-endian unsigned integer.
// Sequences wider than 64 bits keep only the low 64 bits.
func (b *BitSequence) Uint() uint64 {
	var v uint64
	for _, bit := range b.bits {
		v = v<<1 | uint64(bit)
	}
	return v
}

// SetUint writes v big-endian across the whole sequence and leaves it fulfilled.
func (b *BitSequence) SetUint(v uint64) {
	for i := len(b.bits) - 1; i >= 0; i-- {
		b.bits[i] = byte(v & 1)
		v >>= 1
	}
	b.cursor = len(b.bits)
}

// Bytes packs the written bits MSB-first, zero padding the last byte.
func (b *BitSequence) Bytes() []byte {
	return Pack(b.Bits())
}
