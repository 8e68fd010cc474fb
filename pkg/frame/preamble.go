package frame

import (
	"bytes"

	"github.com/Ravenstine/undertone/pkg/frame/bitseq"
)

// Preamble is a shift-register correlator. Each pushed bit shifts the window
// left by one and lands in the last slot; the preamble is valid while the
// window equals the pattern.
type Preamble struct {
	pattern []byte
	window  []byte
}

func NewPreamble(pattern []byte) (*Preamble, error) {
	if err := (Options{Preamble: pattern}).Validate(); err != nil {
		return nil, err
	}
	bits := bitseq.Unpack(pattern)
	return &Preamble{
		pattern: bits,
		window:  make([]byte, len(bits)),
	}, nil
}

func (p *Preamble) Len() int {
	return len(p.pattern)
}

func (p *Preamble) Push(bit byte) {
	copy(p.window, p.window[1:])
	p.window[len(p.window)-1] = bit & 1
}

func (p *Preamble) Valid() bool {
	return bytes.Equal(p.window, p.pattern)
}

// Initialize loads the pattern straight into the window, as a transmitter does.
func (p *Preamble) Initialize() {
	copy(p.window, p.pattern)
}

func (p *Preamble) Clear() {
	clear(p.window)
}

// Bits returns the correlator window. The slice aliases the preamble.
func (p *Preamble) Bits() []byte {
	return p.window
}
