package output

import "time"

// Payload is a frame payload recovered by the receiver.
type Payload struct {
	Data          []byte
	Timestamp     time.Time
	SegmentNumber int
}

// AudioFrame holds the samples of one transmitted packet.
type AudioFrame struct {
	Samples    []float32
	SampleRate int
	Timestamp  time.Time
}
