package frame

import (
	"fmt"

	"github.com/Ravenstine/undertone/pkg/frame/checksum"
)

const (
	// DefaultMaxPayload is the largest payload in bytes, the size of an Ethernet frame.
	DefaultMaxPayload = 1522
	// LengthBits is the width of the big-endian length field.
	LengthBits = 16

	maxLengthField = 1<<LengthBits - 1
)

// DefaultPreamble is 24 alternating bits starting with 1.
var DefaultPreamble = []byte{0xAA, 0xAA, 0xAA}

// Options describe the packet layout shared by an Encoder and a Decoder.
// Both ends must agree on every field.
type Options struct {
	// Preamble is the packed sync pattern. nil selects DefaultPreamble.
	Preamble []byte
	// Checksum defaults to checksum.None, which accepts any payload.
	Checksum   checksum.Algorithm
	MaxPayload int
}

func (o Options) withDefaults() Options {
	if o.Preamble == nil {
		o.Preamble = DefaultPreamble
	}
	if o.Checksum == nil {
		o.Checksum = checksum.None{}
	}
	if o.MaxPayload == 0 {
		o.MaxPayload = DefaultMaxPayload
	}
	return o
}

// Validate checks the options after defaults are applied.
func (o Options) Validate() error {
	o = o.withDefaults()
	if len(o.Preamble) == 0 {
		return fmt.Errorf("%w: empty pattern", ErrInvalidPreamble)
	}
	allZero := true
	for _, b := range o.Preamble {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return fmt.Errorf("%w: pattern has no set bits", ErrInvalidPreamble)
	}
	if o.MaxPayload < 0 || o.MaxPayload > maxLengthField {
		return fmt.Errorf("%w: max payload %d outside [0, %d]", ErrInvalidOptions, o.MaxPayload, maxLengthField)
	}
	if o.Checksum.Width() < 0 || o.Checksum.Width() > 64 {
		return fmt.Errorf("%w: checksum width %d", ErrInvalidOptions, o.Checksum.Width())
	}
	return nil
}
