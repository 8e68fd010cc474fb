package mixer

// Mixer sums any number of oscillators into one signal.
type Mixer struct {
	oscillators []*Oscillator
}

func NewMixer(oscillators ...*Oscillator) *Mixer {
	return &Mixer{oscillators: oscillators}
}

func (m *Mixer) Add(o *Oscillator) {
	m.oscillators = append(m.oscillators, o)
}

// Remove drops o from the mix and reports whether it was present.
func (m *Mixer) Remove(o *Oscillator) bool {
	for i, cur := range m.oscillators {
		if cur == o {
			m.oscillators = append(m.oscillators[:i], m.oscillators[i+1:]...)
			return true
		}
	}
	return false
}

func (m *Mixer) Oscillators() []*Oscillator {
	return m.oscillators
}

func (m *Mixer) Next() float32 {
	var sum float32
	for _, o := range m.oscillators {
		sum += o.Next()
	}
	return sum
}

func (m *Mixer) Render(output []float32) int {
	for i := range output {
		output[i] = m.Next()
	}
	return len(output)
}
