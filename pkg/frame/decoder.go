package frame

import (
	"github.com/Ravenstine/undertone/pkg/frame/bitseq"
	"github.com/Ravenstine/undertone/pkg/frame/checksum"
	"github.com/rs/zerolog"
)

// DecoderStats counts what the decoder has seen since it was created.
type DecoderStats struct {
	Packets   int
	Dropped   int
	Overflows int
}

// Decoder reassembles payloads from a demodulated bit stream. It keeps a
// single packet across calls so a packet may span any number of chunks.
// Packets failing verification are dropped silently.
type Decoder struct {
	packet  *Packet
	logger  zerolog.Logger
	stats   DecoderStats
	scratch []byte
}

func NewDecoder(opts Options, logger zerolog.Logger) (*Decoder, error) {
	opts = opts.withDefaults()
	p, err := NewPacket(opts)
	if err != nil {
		return nil, err
	}
	if _, ok := opts.Checksum.(checksum.None); ok {
		logger.Warn().Msg("decoder has no checksum, corrupted packets will be delivered")
	}
	return &Decoder{
		packet: p,
		logger: logger,
	}, nil
}

// Decode consumes packed bytes (MSB first) and returns completed payloads in order.
func (d *Decoder) Decode(packed []byte) [][]byte {
	if cap(d.scratch) < len(packed)*8 {
		d.scratch = make([]byte, len(packed)*8)
	}
	n := bitseq.UnpackInto(d.scratch[:len(packed)*8], packed)
	return d.DecodeBits(d.scratch[:n])
}

// DecodeBits consumes bits, one per byte, and returns completed payloads in order.
func (d *Decoder) DecodeBits(bits []byte) [][]byte {
	var ret [][]byte
	for _, bit := range bits {
		if err := d.packet.Push(bit); err != nil {
			d.stats.Overflows++
			d.logger.Debug().Err(err).Msg("abandoning packet")
			continue
		}
		if !d.packet.Fulfilled() {
			continue
		}

		payload := d.packet.Payload()
		if d.packet.checksum.Verify(payload) {
			d.stats.Packets++
			ret = append(ret, payload)
		} else {
			d.stats.Dropped++
			d.logger.Debug().
				Int("length", len(payload)).
				Uint64("checksum", d.packet.checksum.Value()).
				Msg("checksum mismatch")
		}
		d.packet.Clear()
	}
	return ret
}

// Reset abandons any partially received packet.
func (d *Decoder) Reset() {
	d.packet.Clear()
}

func (d *Decoder) Stats() DecoderStats {
	return d.stats
}
