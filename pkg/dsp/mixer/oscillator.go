package mixer

import (
	"math"
)

const (
	tau float64 = math.Pi * 2
)

// ramp moves a value linearly towards its target over a fixed number of samples.
type ramp struct {
	value     float64
	target    float64
	step      float64
	remaining int
}

func (r *ramp) set(target float64, samples int) {
	r.target = target
	if samples <= 0 {
		r.value = target
		r.remaining = 0
		return
	}
	r.step = (target - r.value) / float64(samples)
	r.remaining = samples
}

func (r *ramp) advance() {
	if r.remaining == 0 {
		return
	}
	r.value += r.step
	r.remaining--
	if r.remaining == 0 {
		r.value = r.target
	}
}

// Oscillator is a sine source whose frequency and amplitude changes are eased
// over a number of samples to avoid clicks between tones.
type Oscillator struct {
	sampleRate float64
	ease       int
	frequency  ramp
	amplitude  ramp
	phase      float64
}

func NewOscillator(sampleRate int, frequency, amplitude float64, ease int) *Oscillator {
	return &Oscillator{
		sampleRate: float64(sampleRate),
		ease:       ease,
		frequency:  ramp{value: frequency, target: frequency},
		amplitude:  ramp{value: amplitude, target: amplitude},
	}
}

// SetFrequency glides to f over the ease period.
func (o *Oscillator) SetFrequency(f float64) {
	if f == o.frequency.target {
		return
	}
	o.frequency.set(f, o.ease)
}

// SetAmplitude glides to a over the ease period.
func (o *Oscillator) SetAmplitude(a float64) {
	if a == o.amplitude.target {
		return
	}
	o.amplitude.set(a, o.ease)
}

// SetEase changes the ramp length used by later frequency and amplitude changes.
func (o *Oscillator) SetEase(samples int) {
	o.ease = samples
}

func (o *Oscillator) Frequency() float64 {
	return o.frequency.value
}

func (o *Oscillator) Amplitude() float64 {
	return o.amplitude.value
}

// Phase is always within [0, 2π).
func (o *Oscillator) Phase() float64 {
	return o.phase
}

func (o *Oscillator) incrementPhase() {
	o.phase = math.Mod(o.phase+tau*o.frequency.value/o.sampleRate, tau)
	if o.phase < 0 {
		o.phase += tau
	}
}

// Next renders one sample.
func (o *Oscillator) Next() float32 {
	o.frequency.advance()
	o.amplitude.advance()

	ret := float32(o.amplitude.value * math.Sin(o.phase))
	o.incrementPhase()
	return ret
}

// Render fills output with consecutive samples.
func (o *Oscillator) Render(output []float32) int {
	for i := range output {
		output[i] = o.Next()
	}
	return len(output)
}
