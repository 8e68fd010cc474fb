package modem

import (
	"github.com/Ravenstine/undertone/pkg/dsp/goertzel"
)

// Demodulator measures tone energy over overlapping windows and recovers
// bits through a ToneClassifier. Samples that do not fill a window and bits
// that do not fill a byte are carried over to the next call.
type Demodulator struct {
	cfg        Config
	analyzer   *goertzel.Analyzer
	classifier ToneClassifier

	pending []float32
	partial byte
	nbits   int
}

type DemodulatorOption func(d *Demodulator)

// WithClassifier replaces the classifier derived from the configured scheme.
func WithClassifier(c ToneClassifier) DemodulatorOption {
	return func(d *Demodulator) {
		d.classifier = c
	}
}

func NewDemodulator(cfg Config, opts ...DemodulatorOption) (*Demodulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Demodulator{
		cfg:     cfg,
		pending: make([]float32, 0, 2*cfg.Window),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.classifier == nil {
		d.classifier = NewClassifier(cfg)
	}

	analyzer, err := goertzel.New(d.classifier.Frequencies(), cfg.SampleRate, cfg.Window, cfg.AnalysisWindow)
	if err != nil {
		return nil, err
	}
	d.analyzer = analyzer
	return d, nil
}

func (d *Demodulator) demodulate(samples []float32, emit func(bit byte)) {
	d.pending = append(d.pending, samples...)

	i := 0
	for ; i+d.cfg.Window <= len(d.pending); i += d.cfg.Step {
		window := d.pending[i : i+d.cfg.Window]
		sym := SymbolIdle
		if d.steady(window) {
			d.analyzer.Reset()
			d.analyzer.Process(window)
			sym = d.classifier.Classify(d.analyzer.Dominant())
		}
		if bit, ok := d.classifier.Next(sym); ok {
			emit(bit)
		}
	}

	n := copy(d.pending, d.pending[i:])
	d.pending = d.pending[:n]
}

func energy(samples []float32) float64 {
	var e float64
	for _, s := range samples {
		e += float64(s) * float64(s)
	}
	return e
}

// steady reports whether a tone fills the whole window. Windows that only
// catch the start or the end of a tone carry too few cycles to tell the
// tones apart.
func (d *Demodulator) steady(window []float32) bool {
	half := len(window) / 2
	if half == 0 {
		return true
	}
	lead := energy(window[:half])
	trail := energy(window[len(window)-half:])
	if d.cfg.OnsetRatio > 0 && lead <= d.cfg.OnsetRatio*trail {
		return false
	}
	if d.cfg.DecayRatio > 0 && trail <= d.cfg.DecayRatio*lead {
		return false
	}
	return true
}

// PredictOutputSize bounds the number of packed bytes produced by the next
// WorkBuffer call.
func (d *Demodulator) PredictOutputSize(inputSize int) int {
	windows := (len(d.pending)+inputSize)/d.cfg.Step + 1
	return (d.nbits+windows)/8 + 1
}

// WorkBuffer demodulates input and writes whole bytes, MSB first.
func (d *Demodulator) WorkBuffer(input []float32, output []byte) int {
	n := 0
	d.demodulate(input, func(bit byte) {
		d.partial = d.partial<<1 | bit&1
		d.nbits++
		if d.nbits == 8 {
			output[n] = d.partial
			n++
			d.partial = 0
			d.nbits = 0
		}
	})
	return n
}

// Demodulate returns packed bytes recovered from samples.
func (d *Demodulator) Demodulate(samples []float32) []byte {
	ret := make([]byte, d.PredictOutputSize(len(samples)))
	n := d.WorkBuffer(samples, ret)
	return ret[:n]
}

// Bits returns recovered bits one per byte, bypassing byte packing.
// Do not mix with WorkBuffer on the same stream.
func (d *Demodulator) Bits(samples []float32) []byte {
	var ret []byte
	d.demodulate(samples, func(bit byte) {
		ret = append(ret, bit&1)
	})
	return ret
}

// Pending returns the bits waiting to complete a byte, right aligned.
func (d *Demodulator) Pending() (bits byte, n int) {
	return d.partial, d.nbits
}

// Drain returns the bits waiting to complete a byte, one per byte, and
// forgets them. Use it at end of input so a stream that is not byte aligned
// loses nothing.
func (d *Demodulator) Drain() []byte {
	if d.nbits == 0 {
		return nil
	}
	ret := make([]byte, d.nbits)
	for i := range ret {
		ret[i] = d.partial >> uint(d.nbits-1-i) & 1
	}
	d.partial = 0
	d.nbits = 0
	return ret
}

// Reset drops carried samples and bits and returns the classifier to idle.
func (d *Demodulator) Reset() {
	d.pending = d.pending[:0]
	d.partial = 0
	d.nbits = 0
	d.classifier.Reset()
	d.analyzer.Reset()
}
