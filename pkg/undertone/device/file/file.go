package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Ravenstine/undertone/pkg/undertone/device"
	"github.com/youpy/go-wav"
)

var ErrUnsupportedFormat = errors.New("unsupported wav format")

// Source is what the WAV reader needs to walk RIFF chunks.
type Source interface {
	io.Reader
	io.ReaderAt
}

// FileDevice reads a PCM WAV file in chunks of readSize samples, optionally
// pacing reads timeBetween apart. Only the first channel is used.
type FileDevice struct {
	reader      *wav.Reader
	closer      io.Closer
	readSize    int
	timeBetween time.Duration
	sampleRate  int
	bits        int
}

func NewFileDevice(file string, readSize int, timeBetween time.Duration) (*FileDevice, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	ret, err := NewWAVDevice(f, readSize, timeBetween)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	ret.closer = f
	return ret, nil
}

func NewWAVDevice(src Source, readSize int, timeBetween time.Duration) (*FileDevice, error) {
	if readSize <= 0 {
		return nil, fmt.Errorf("read size must be positive, got %d", readSize)
	}

	reader := wav.NewReader(src)
	format, err := reader.Format()
	if err != nil {
		return nil, err
	}
	if format.AudioFormat != wav.AudioFormatPCM {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupportedFormat, format.AudioFormat)
	}
	switch format.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, format.BitsPerSample)
	}

	return &FileDevice{
		reader:      reader,
		readSize:    readSize,
		timeBetween: timeBetween,
		sampleRate:  int(format.SampleRate),
		bits:        int(format.BitsPerSample),
	}, nil
}

// scale maps a PCM integer to [-1, 1]. 8 bit WAV is unsigned.
func (f *FileDevice) scale(v int) float32 {
	if f.bits == 8 {
		return float32(v-128) / 128
	}
	return float32(float64(v) / float64(int(1)<<(f.bits-1)))
}

func (f *FileDevice) Start(ctx context.Context, segments chan<- *device.Segment) error {
	var tick <-chan time.Time
	if f.timeBetween > 0 {
		ticker := time.NewTicker(f.timeBetween)
		defer ticker.Stop()
		tick = ticker.C
	}

	segNum := 0
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}

		samples, err := f.reader.ReadSamples(uint32(f.readSize))
		if err == io.EOF || (err == nil && len(samples) == 0) {
			return nil
		}
		if err != nil {
			return err
		}

		segNum++
		seg := &device.Segment{
			Data:          make([]float32, len(samples)),
			SampleRate:    f.sampleRate,
			SegmentNumber: segNum,
		}
		for i, s := range samples {
			seg.Data[i] = f.scale(f.reader.IntValue(s, 0))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case segments <- seg:
		}
	}
}

func (f *FileDevice) Stop() error {
	if f.closer == nil {
		return nil
	}
	return f.closer.Close()
}

func (f *FileDevice) SampleRate() int {
	return f.sampleRate
}
