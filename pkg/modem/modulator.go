package modem

import (
	"github.com/Ravenstine/undertone/pkg/dsp/mixer"
)

// Modulator keys bits onto tones. Extra oscillators may be mixed into the
// output; only the keyed oscillator follows the bits.
type Modulator struct {
	cfg   Config
	keyed *mixer.Oscillator
	mix   *mixer.Mixer
}

func NewModulator(cfg Config) (*Modulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	keyed := mixer.NewOscillator(cfg.SampleRate, cfg.CarrierFreq, cfg.Amplitude, cfg.Ease)
	return &Modulator{
		cfg:   cfg,
		keyed: keyed,
		mix:   mixer.NewMixer(keyed),
	}, nil
}

func (m *Modulator) Config() Config {
	return m.cfg
}

// Oscillator returns the keyed oscillator.
func (m *Modulator) Oscillator() *mixer.Oscillator {
	return m.keyed
}

func (m *Modulator) AddOscillator(o *mixer.Oscillator) {
	m.mix.Add(o)
}

// RemoveOscillator removes an oscillator added with AddOscillator. The keyed
// oscillator cannot be removed.
func (m *Modulator) RemoveOscillator(o *mixer.Oscillator) bool {
	if o == m.keyed {
		return false
	}
	return m.mix.Remove(o)
}

// SamplesPerBit is the number of samples rendered for each input bit.
func (m *Modulator) SamplesPerBit() int {
	if m.cfg.Scheme == SchemeTwoTone {
		return m.cfg.SamplesPerSymbol
	}
	return 2 * m.cfg.SamplesPerSymbol
}

func (m *Modulator) PredictOutputSize(inputSize int) int {
	return inputSize * 8 * m.SamplesPerBit()
}

func (m *Modulator) symbol(freq float64, output []float32) []float32 {
	m.keyed.SetFrequency(freq)
	n := m.mix.Render(output[:m.cfg.SamplesPerSymbol])
	return output[n:]
}

func (m *Modulator) bit(bit byte, output []float32) []float32 {
	if m.cfg.Scheme == SchemeThreeTone {
		output = m.symbol(m.cfg.CarrierFreq, output)
	}
	if bit&1 == 1 {
		return m.symbol(m.cfg.MarkFreq, output)
	}
	return m.symbol(m.cfg.SpaceFreq, output)
}

// WorkBuffer modulates packed bytes, MSB first. output must hold
// PredictOutputSize(len(input)) samples.
func (m *Modulator) WorkBuffer(input []byte, output []float32) int {
	out := output
	for _, b := range input {
		for shift := 7; shift >= 0; shift-- {
			out = m.bit(b>>uint(shift), out)
		}
	}
	return len(output) - len(out)
}

func (m *Modulator) Modulate(packed []byte) []float32 {
	ret := make([]float32, m.PredictOutputSize(len(packed)))
	n := m.WorkBuffer(packed, ret)
	return ret[:n]
}

// ModulateBits modulates one bit per byte.
func (m *Modulator) ModulateBits(bits []byte) []float32 {
	ret := make([]float32, len(bits)*m.SamplesPerBit())
	out := ret
	for _, b := range bits {
		out = m.bit(b, out)
	}
	return ret
}

// Idle renders n samples of the carrier, useful as lead-in before a packet.
func (m *Modulator) Idle(n int) []float32 {
	ret := make([]float32, n)
	m.keyed.SetFrequency(m.cfg.CarrierFreq)
	m.mix.Render(ret)
	return ret
}
