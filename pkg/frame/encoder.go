package frame

import "github.com/Ravenstine/undertone/pkg/frame/bitseq"

// Encoder turns payloads into framed packets ready for modulation.
type Encoder struct {
	opts Options
}

func NewEncoder(opts Options) (*Encoder, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{opts: opts}, nil
}

func (e *Encoder) Options() Options {
	return e.opts
}

// Packet builds a fresh packet carrying payload.
func (e *Encoder) Packet(payload []byte) (*Packet, error) {
	p, err := NewPacket(e.opts)
	if err != nil {
		return nil, err
	}
	if err := p.SetPayload(payload); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodeBits returns the wire bits of payload, one bit per byte.
func (e *Encoder) EncodeBits(payload []byte) ([]byte, error) {
	p, err := e.Packet(payload)
	if err != nil {
		return nil, err
	}
	return p.Bits(), nil
}

// Encode returns the wire bits of payload packed MSB-first. When the
// checksum width is not a multiple of 8 the last byte is zero padded.
func (e *Encoder) Encode(payload []byte) ([]byte, error) {
	bits, err := e.EncodeBits(payload)
	if err != nil {
		return nil, err
	}
	return bitseq.Pack(bits), nil
}

func (e *Encoder) EncodeString(s string) ([]byte, error) {
	return e.Encode([]byte(s))
}
