package frame

import (
	"fmt"

	"github.com/Ravenstine/undertone/pkg/frame/bitseq"
	"github.com/Ravenstine/undertone/pkg/frame/checksum"
)

// Payload holds up to its capacity in bits, but is only fulfilled once an
// end has been set from the length field and reached.
type Payload struct {
	*bitseq.BitSequence
	end int
}

func newPayload(maxBytes int) *Payload {
	return &Payload{
		BitSequence: bitseq.New(maxBytes * 8),
		end:         -1,
	}
}

// SetEnd sets the number of bits to capture.
func (p *Payload) SetEnd(bits int) error {
	if bits < 0 || bits > p.Cap() {
		return fmt.Errorf("%w: %d bits exceeds capacity of %d", ErrPayloadTooLarge, bits, p.Cap())
	}
	p.end = bits
	return nil
}

// End returns the expected bit count, or -1 while unknown.
func (p *Payload) End() int {
	return p.end
}

func (p *Payload) Fulfilled() bool {
	return p.end >= 0 && p.Cursor() >= p.end
}

func (p *Payload) Push(bit byte) {
	if p.Fulfilled() {
		return
	}
	p.BitSequence.Push(bit)
}

func (p *Payload) Clear() {
	p.BitSequence.Clear()
	p.end = -1
}

// Bytes packs the captured payload bits.
func (p *Payload) Bytes() []byte {
	bits := p.Bits()
	if p.end >= 0 && len(bits) > p.end {
		bits = bits[:p.end]
	}
	return bitseq.Pack(bits)
}

// ChecksumField stores a checksum as big-endian bits, sized by its algorithm.
type ChecksumField struct {
	*bitseq.BitSequence
	algorithm checksum.Algorithm
}

func newChecksumField(alg checksum.Algorithm) *ChecksumField {
	return &ChecksumField{
		BitSequence: bitseq.New(alg.Width()),
		algorithm:   alg,
	}
}

func (c *ChecksumField) Algorithm() checksum.Algorithm {
	return c.algorithm
}

func (c *ChecksumField) Value() uint64 {
	return c.Uint()
}

func (c *ChecksumField) SetValue(v uint64) {
	c.SetUint(v)
}

// Calculate returns the checksum of data truncated to the field width.
func (c *ChecksumField) Calculate(data []byte) uint64 {
	v := c.algorithm.Calculate(data)
	if w := c.Cap(); w < 64 {
		v &= 1<<uint(w) - 1
	}
	return v
}

// Verify reports whether the stored value matches the checksum of data.
func (c *ChecksumField) Verify(data []byte) bool {
	return c.Value() == c.Calculate(data)
}
