package frame

import (
	"fmt"

	"github.com/Ravenstine/undertone/pkg/frame/bitseq"
)

// Packet is the framing state machine. Bits are routed to the preamble until
// it matches, then to the length field, the payload and the checksum.
//
// All buffers are allocated once; Clear resets them in place.
type Packet struct {
	preamble   *Preamble
	length     *bitseq.BitSequence
	payload    *Payload
	checksum   *ChecksumField
	maxPayload int
}

func NewPacket(opts Options) (*Packet, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	preamble, err := NewPreamble(opts.Preamble)
	if err != nil {
		return nil, err
	}

	return &Packet{
		preamble:   preamble,
		length:     bitseq.New(LengthBits),
		payload:    newPayload(opts.MaxPayload),
		checksum:   newChecksumField(opts.Checksum),
		maxPayload: opts.MaxPayload,
	}, nil
}

func (p *Packet) Preamble() *Preamble { return p.preamble }
func (p *Packet) Length() *bitseq.BitSequence { return p.length }
func (p *Packet) PayloadField() *Payload { return p.payload }
func (p *Packet) ChecksumField() *ChecksumField { return p.checksum }

// Push routes one bit into the packet. A length field larger than the payload
// capacity clears the packet and returns ErrPayloadTooLarge; scanning for the
// preamble resumes with the next bit.
func (p *Packet) Push(bit byte) error {
	switch {
	case !p.preamble.Valid():
		p.preamble.Push(bit)
	case !p.length.Fulfilled():
		p.length.Push(bit)
		if p.length.Fulfilled() {
			n := int(p.length.Uint())
			if n > p.maxPayload {
				p.Clear()
				return fmt.Errorf("%w: length field %d exceeds %d", ErrPayloadTooLarge, n, p.maxPayload)
			}
			if err := p.payload.SetEnd(n * 8); err != nil {
				p.Clear()
				return err
			}
		}
	case !p.payload.Fulfilled():
		p.payload.Push(bit)
	case !p.checksum.Fulfilled():
		p.checksum.Push(bit)
	}
	return nil
}

func (p *Packet) Fulfilled() bool {
	return p.length.Fulfilled() && p.payload.Fulfilled() && p.checksum.Fulfilled()
}

// Valid reports whether the packet is complete and its checksum matches.
func (p *Packet) Valid() bool {
	return p.Fulfilled() && p.checksum.Verify(p.payload.Bytes())
}

// Clear zeroes every field without reallocating.
func (p *Packet) Clear() {
	p.preamble.Clear()
	p.length.Clear()
	p.payload.Clear()
	p.checksum.Clear()
}

// SetPayload fills the packet for transmission: the preamble is loaded
// directly and the length and checksum are computed from data.
func (p *Packet) SetPayload(data []byte) error {
	if len(data) > p.maxPayload {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrPayloadTooLarge, len(data), p.maxPayload)
	}
	p.Clear()
	p.preamble.Initialize()
	p.length.SetUint(uint64(len(data)))
	if err := p.payload.SetEnd(len(data) * 8); err != nil {
		return err
	}
	for _, b := range bitseq.Unpack(data) {
		p.payload.Push(b)
	}
	p.checksum.SetValue(p.checksum.Calculate(data))
	return nil
}

// Payload returns a copy of the captured payload bytes.
func (p *Packet) Payload() []byte {
	return p.payload.Bytes()
}

// Bits returns the wire representation, one bit per byte.
func (p *Packet) Bits() []byte {
	ret := make([]byte, 0, p.preamble.Len()+LengthBits+p.payload.Cursor()+p.checksum.Cap())
	ret = append(ret, p.preamble.Bits()...)
	ret = append(ret, p.length.Bits()...)
	ret = append(ret, p.payload.Bits()...)
	ret = append(ret, p.checksum.Bits()...)
	return ret
}

// Bytes returns the wire representation packed MSB-first.
func (p *Packet) Bytes() []byte {
	return bitseq.Pack(p.Bits())
}
