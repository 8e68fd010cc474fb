package output

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/Ravenstine/undertone/pkg/modem"
)

const sampleBufferLength int = 8

// SimpleAudioOutput writes raw samples at a bit depth, batching up to
// sampleBufferLength frames per write.
type SimpleAudioOutput struct {
	dest      io.Writer
	depth     modem.BitDepth
	recvChan  chan *AudioFrame
	flushWait time.Duration
}

func NewSimpleAudioOutput(dest io.Writer, depth modem.BitDepth) *SimpleAudioOutput {
	return &SimpleAudioOutput{
		dest:      dest,
		depth:     depth,
		recvChan:  make(chan *AudioFrame, sampleBufferLength),
		flushWait: 250 * time.Millisecond,
	}
}

func (s *SimpleAudioOutput) Receive() chan<- *AudioFrame {
	return s.recvChan
}

// Start writes frames until ctx is done or the receive channel is closed.
func (s *SimpleAudioOutput) Start(ctx context.Context) error {
	if _, err := modem.ParseBitDepth(string(s.depth)); err != nil {
		return err
	}

	var b bytes.Buffer
	bufNum := 0

	flush := func() error {
		if bufNum == 0 {
			return nil
		}
		bufNum = 0
		_, err := b.WriteTo(s.dest)
		b.Reset()
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-time.After(s.flushWait):
			if err := flush(); err != nil {
				return err
			}

		case frame, ok := <-s.recvChan:
			if !ok {
				return flush()
			}

			encoded, err := modem.EncodeSamples(frame.Samples, s.depth)
			if err != nil {
				return err
			}
			b.Write(encoded)

			bufNum++
			if bufNum == sampleBufferLength {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
}
