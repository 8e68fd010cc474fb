package output

import (
	"context"
	"io"
	"math"
	"sync"

	"github.com/youpy/go-wav"
)

const wavBitsPerSample = 16

// WAVOutput collects every frame and writes a mono 16 bit WAV file once the
// receive channel is closed.
type WAVOutput struct {
	dest       io.Writer
	sampleRate int
	recvChan   chan *AudioFrame

	mu      sync.Mutex
	samples []wav.Sample
	written bool
}

func NewWAVOutput(dest io.Writer, sampleRate int) *WAVOutput {
	return &WAVOutput{
		dest:       dest,
		sampleRate: sampleRate,
		recvChan:   make(chan *AudioFrame, sampleBufferLength),
	}
}

func (w *WAVOutput) Receive() chan<- *AudioFrame {
	return w.recvChan
}

func (w *WAVOutput) append(samples []float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, s := range samples {
		v := math.Max(-1, math.Min(1, float64(s)))
		w.samples = append(w.samples, wav.Sample{Values: [2]int{int(math.Round(v * math.MaxInt16))}})
	}
}

func (w *WAVOutput) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-w.recvChan:
			if !ok {
				return w.Close()
			}
			w.append(frame.Samples)
		}
	}
}

// Close writes the WAV file. Further calls do nothing.
func (w *WAVOutput) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.written {
		return nil
	}
	w.written = true

	writer := wav.NewWriter(w.dest, uint32(len(w.samples)), 1, uint32(w.sampleRate), wavBitsPerSample)
	return writer.WriteSamples(w.samples)
}
