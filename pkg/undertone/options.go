package undertone

import (
	"fmt"

	"github.com/Ravenstine/undertone/pkg/frame"
	"github.com/Ravenstine/undertone/pkg/frame/checksum"
	"github.com/Ravenstine/undertone/pkg/modem"
)

const (
	DefaultPrefilterTransition = 1000
	DefaultAGCAlpha            = 0.01
	DefaultAGCTarget           = 0.5
)

type Options struct {
	Modem   modem.Config
	Framing frame.Options

	// Prefilter enables a bandpass FIR around the modem tones ahead of the
	// demodulator. The band extends PrefilterTransition Hz past the outermost
	// tones.
	Prefilter           bool
	PrefilterTransition float64

	AGC       bool
	AGCAlpha  float64
	AGCTarget float64

	PayloadOutputs []PayloadOutput
	AudioOutputs   []AudioOutput
}

// DefaultOptions uses the default modem tones with CRC-24 framing.
func DefaultOptions() Options {
	return Options{
		Modem:               modem.DefaultConfig(),
		Framing:             frame.Options{Checksum: checksum.CRC24{}},
		PrefilterTransition: DefaultPrefilterTransition,
		AGCAlpha:            DefaultAGCAlpha,
		AGCTarget:           DefaultAGCTarget,
	}
}

func (o Options) validate() error {
	if err := o.Modem.Validate(); err != nil {
		return err
	}
	if o.Prefilter && o.PrefilterTransition <= 0 {
		return fmt.Errorf("%w: prefilter transition %f", ErrInvalidOptions, o.PrefilterTransition)
	}
	if o.AGC && (o.AGCAlpha <= 0 || o.AGCAlpha > 1 || o.AGCTarget <= 0) {
		return fmt.Errorf("%w: agc alpha %f target %f", ErrInvalidOptions, o.AGCAlpha, o.AGCTarget)
	}
	return nil
}
