package undertone

import (
	"context"

	"github.com/Ravenstine/undertone/pkg/undertone/output"
)

// PayloadOutput handles payloads recovered by the receiver.
type PayloadOutput interface {
	// Start runs until ctx is done, an error occurs, or the channel returned
	// by Receive is closed and everything received has been handled.
	Start(ctx context.Context) error
	Receive() chan<- *output.Payload
}

// AudioOutput handles the samples of transmitted packets.
type AudioOutput interface {
	// Start follows the same contract as PayloadOutput.Start.
	Start(ctx context.Context) error
	Receive() chan<- *output.AudioFrame
}
