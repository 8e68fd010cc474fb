package device

import (
	"context"
)

// Segment is a chunk of mono samples in [-1, 1].
type Segment struct {
	Data          []float32
	SampleRate    int
	SegmentNumber int
}

// Device produces audio segments. Start blocks until ctx is done, the input
// is exhausted (returning nil) or an error occurs.
type Device interface {
	Start(ctx context.Context, segments chan<- *Segment) error
	Stop() error
	SampleRate() int
}
