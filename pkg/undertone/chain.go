package undertone

import (
	"fmt"

	"github.com/Ravenstine/undertone/pkg/dsp/agc/rmsagc"
	"github.com/Ravenstine/undertone/pkg/dsp/filters/fir"
	"github.com/Ravenstine/undertone/pkg/dsp/processor"
	"github.com/Ravenstine/undertone/pkg/dsp/viz"
	"github.com/Ravenstine/undertone/pkg/util"
	"github.com/racerxdl/segdsp/dsp"
)

func (u *Undertone) initTransmitChain() {
	cfg := u.opts.Modem
	bitRate := cfg.SampleRate / u.modulator.SamplesPerBit()

	u.txProc = processor.NewProcessor("transmit", "Payload", u.vizServer)
	u.txProc.AddBlock(processor.NewDSPWorkerBF(
		"modulator",
		"Modulator",
		bitRate,
		cfg.SampleRate,
		u.modulator,
		processor.WithVizLength(cfg.SamplesPerSymbol*8),
		processor.WithPlotType(viz.PlotTypeLines),
		processor.WithSymbolMarkers(cfg.SamplesPerSymbol),
		processor.WithFFTPlot(cfg.Frequencies()...),
	))
}

func (u *Undertone) initReceiveChain() error {
	cfg := u.opts.Modem
	freqs := cfg.Frequencies()
	bitRate := cfg.SampleRate / cfg.Step

	u.rxProc = processor.NewProcessor("receive", "Audio Input", u.vizServer)
	u.flushLen = cfg.Window + cfg.Step

	if u.opts.Prefilter {
		low, high := util.Band(u.opts.PrefilterTransition, freqs...)
		taps, err := fir.MakeBandPass(1.0, float64(cfg.SampleRate), low, high, u.opts.PrefilterTransition, fir.Hamming)
		if err != nil {
			return fmt.Errorf("prefilter: %w", err)
		}

		u.logger.Debug().
			Str("low", util.FormatHz(low)).
			Str("high", util.FormatHz(high)).
			Int("taps", len(taps)).
			Msg("receive prefilter")
		u.flushLen += len(taps)

		u.rxProc.AddBlock(processor.NewDSPWorkerFF(
			"prefilter",
			"Bandpass Prefilter",
			cfg.SampleRate,
			cfg.SampleRate,
			dsp.MakeFloatFirFilter(taps),
			processor.WithVizLength(cfg.SamplesPerSymbol*8),
			processor.WithPlotType(viz.PlotTypeLines),
			processor.WithFFTPlot(freqs...),
		))
	}

	if u.opts.AGC {
		u.rxProc.AddBlock(processor.NewDSPWorkerFF(
			"agc",
			"RMS AGC",
			cfg.SampleRate,
			cfg.SampleRate,
			rmsagc.NewRMSAGC(u.opts.AGCAlpha, u.opts.AGCTarget),
			processor.WithVizLength(cfg.SamplesPerSymbol*8),
			processor.WithPlotType(viz.PlotTypeLines),
			processor.WithFFTPlot(freqs...),
		))
	}

	u.rxProc.AddBlock(processor.NewDSPWorkerFB(
		"demodulator",
		"Demodulator",
		cfg.SampleRate,
		bitRate,
		u.demodulator,
		processor.WithFFTPlot(freqs...),
	))

	return u.rxProc.Initialize()
}
