package undertone

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Ravenstine/undertone/pkg/dsp/processor"
	"github.com/Ravenstine/undertone/pkg/dsp/viz"
	"github.com/Ravenstine/undertone/pkg/frame"
	"github.com/Ravenstine/undertone/pkg/modem"
	"github.com/Ravenstine/undertone/pkg/undertone/device"
	"github.com/Ravenstine/undertone/pkg/undertone/output"
	"github.com/Ravenstine/undertone/pkg/util"
	"github.com/influxdata/influxdb-client-go/api"
	"golang.org/x/sync/errgroup"
)

// Undertone ties a framing encoder/decoder pair and a modem to an input
// device and a set of outputs. An Undertone can be started once.
type Undertone struct {
	device    device.Device
	opts      Options
	writeAPI  api.WriteAPI
	vizServer *viz.Server
	logger    zerolog.Logger

	encoder     *frame.Encoder
	decoder     *frame.Decoder
	modulator   *modem.Modulator
	demodulator *modem.Demodulator
	txProc      *processor.Processor
	rxProc      *processor.Processor

	segmentChan chan *device.Segment
	// flushLen is the number of silent samples that push the last symbol
	// through the receive chain.
	flushLen int

	txMu   sync.Mutex
	rxMu   sync.Mutex
	outMu  sync.Mutex
	closed bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

type Option func(u *Undertone) error

func WithInfluxDB(writeAPI api.WriteAPI) Option {
	return func(u *Undertone) error {
		u.writeAPI = writeAPI
		return nil
	}
}

func WithImageServer(vizServer *viz.Server) Option {
	return func(u *Undertone) error {
		u.vizServer = vizServer
		return nil
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(u *Undertone) error {
		u.logger = logger
		return nil
	}
}

// NewUndertone builds the transmit and receive chains. dev may be nil when
// only transmitting.
func NewUndertone(dev device.Device, options Options, opts ...Option) (*Undertone, error) {
	u := &Undertone{
		device:      dev,
		opts:        options,
		segmentChan: make(chan *device.Segment, 1),
		writeAPI:    &util.MockWriteAPI{}, // overwritten with option
		logger:      log.Logger,
	}

	for _, opt := range opts {
		if err := opt(u); err != nil {
			return nil, err
		}
	}

	if err := u.opts.validate(); err != nil {
		return nil, err
	}

	var err error
	if u.encoder, err = frame.NewEncoder(u.opts.Framing); err != nil {
		return nil, err
	}
	if u.decoder, err = frame.NewDecoder(u.opts.Framing, u.logger); err != nil {
		return nil, err
	}
	if u.modulator, err = modem.NewModulator(u.opts.Modem); err != nil {
		return nil, err
	}
	if u.demodulator, err = modem.NewDemodulator(u.opts.Modem); err != nil {
		return nil, err
	}

	u.initTransmitChain()
	if err := u.txProc.Initialize(); err != nil {
		return nil, err
	}
	if err := u.initReceiveChain(); err != nil {
		return nil, err
	}

	return u, nil
}

func (u *Undertone) Options() Options {
	return u.opts
}

// DecoderStats reports the packets seen by the receiver so far.
func (u *Undertone) DecoderStats() frame.DecoderStats {
	u.rxMu.Lock()
	defer u.rxMu.Unlock()
	return u.decoder.Stats()
}

// Start runs the device, the receive loop, the viz server and every output.
// When the device runs out of input the outputs are closed and Start returns
// once they have drained.
func (u *Undertone) Start(ctx context.Context) error {
	u.mu.Lock()
	ctx, u.cancel = context.WithCancel(ctx)
	u.mu.Unlock()

	eg, ctx := errgroup.WithContext(ctx)

	if u.device != nil {
		if u.device.SampleRate() != u.opts.Modem.SampleRate {
			return fmt.Errorf("%w: device %d modem %d", ErrSampleRateMismatch, u.device.SampleRate(), u.opts.Modem.SampleRate)
		}

		eg.Go(func() error {
			defer close(u.segmentChan)
			return u.device.Start(ctx, u.segmentChan)
		})
		eg.Go(func() error {
			return u.processSegments(ctx)
		})
	}

	if u.vizServer != nil {
		eg.Go(func() error {
			return u.vizServer.Run(ctx)
		})
	}

	for _, o := range u.opts.PayloadOutputs {
		thisOutput := o
		eg.Go(func() error {
			return thisOutput.Start(ctx)
		})
	}
	for _, o := range u.opts.AudioOutputs {
		thisOutput := o
		eg.Go(func() error {
			return thisOutput.Start(ctx)
		})
	}

	cfg := u.opts.Modem
	u.logger.Info().
		Int("sample_rate", cfg.SampleRate).
		Str("scheme", cfg.Scheme.String()).
		Str("carrier_freq", util.FormatHz(cfg.CarrierFreq)).
		Str("mark_freq", util.FormatHz(cfg.MarkFreq)).
		Str("space_freq", util.FormatHz(cfg.SpaceFreq)).
		Str("checksum", u.encoder.Options().Checksum.Name()).
		Msg("starting")

	return eg.Wait()
}

// Close closes the receive channel of every output. Later calls to Send
// return ErrClosed.
func (u *Undertone) Close() {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	if u.closed {
		return
	}
	u.closed = true

	for _, o := range u.opts.PayloadOutputs {
		close(o.Receive())
	}
	for _, o := range u.opts.AudioOutputs {
		close(o.Receive())
	}
}

func (u *Undertone) Stop() error {
	u.mu.Lock()
	if u.cancel != nil {
		u.cancel()
	}
	u.mu.Unlock()

	if u.vizServer != nil {
		u.vizServer.Stop(context.TODO())
	}
	if u.device == nil {
		return nil
	}
	return u.device.Stop()
}

func (u *Undertone) deliverPayload(ctx context.Context, p *output.Payload) error {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	if u.closed {
		return ErrClosed
	}
	for _, o := range u.opts.PayloadOutputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o.Receive() <- p:
		}
	}
	return nil
}

func (u *Undertone) deliverAudio(ctx context.Context, f *output.AudioFrame) error {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	if u.closed {
		return ErrClosed
	}
	for _, o := range u.opts.AudioOutputs {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case o.Receive() <- f:
		}
	}
	return nil
}
