package stream

import (
	"context"
	"fmt"
	"io"

	"github.com/Ravenstine/undertone/pkg/modem"
	"github.com/Ravenstine/undertone/pkg/undertone/device"
)

// StreamDevice reads raw mono samples of a bit depth from a reader, such as
// the standard output of a recording program.
type StreamDevice struct {
	r          io.Reader
	depth      modem.BitDepth
	sampleRate int
	readSize   int
}

func NewStreamDevice(r io.Reader, depth modem.BitDepth, sampleRate, readSize int) (*StreamDevice, error) {
	if _, err := modem.ParseBitDepth(string(depth)); err != nil {
		return nil, err
	}
	if readSize <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate and read size must be positive")
	}
	return &StreamDevice{
		r:          r,
		depth:      depth,
		sampleRate: sampleRate,
		readSize:   readSize,
	}, nil
}

// Start sends a segment per read. A trailing partial sample is carried into
// the next read and discarded at end of input.
func (s *StreamDevice) Start(ctx context.Context, segments chan<- *device.Segment) error {
	size := s.depth.BytesPerSample()
	buf := make([]byte, s.readSize*size)
	carry := 0
	segNum := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := s.r.Read(buf[carry:])
		n += carry
		whole := n - n%size

		if whole > 0 {
			samples, decodeErr := modem.DecodeSamples(buf[:whole], s.depth)
			if decodeErr != nil {
				return decodeErr
			}
			segNum++
			select {
			case <-ctx.Done():
				return ctx.Err()
			case segments <- &device.Segment{Data: samples, SampleRate: s.sampleRate, SegmentNumber: segNum}:
			}
		}

		carry = copy(buf, buf[whole:n])

		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *StreamDevice) Stop() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *StreamDevice) SampleRate() int {
	return s.sampleRate
}
