// Package goertzel measures signal energy at a handful of frequencies over a
// fixed window, which is far cheaper than a full FFT when only the mark, space
// and carrier tones matter.
package goertzel

import (
	"errors"
	"fmt"
	"math"

	"github.com/Ravenstine/undertone/pkg/dsp/filters/fir"
	"gonum.org/v1/gonum/floats"
)

var ErrInvalidAnalyzer = errors.New("invalid analyzer configuration")

// Energy is the power measured at one frequency over the last window.
type Energy struct {
	Frequency float64
	Power     float64
}

// Analyzer runs one Goertzel recurrence per frequency. Samples are weighted
// by an analysis window before they enter the recurrences.
type Analyzer struct {
	freqs   []float64
	coeffs  []float64
	s1      []float64
	s2      []float64
	weights []float32
	n       int

	powers []float64
	inds   []int
}

func New(freqs []float64, sampleRate, windowSize int, winType fir.WindowType) (*Analyzer, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("%w: no frequencies", ErrInvalidAnalyzer)
	}
	if windowSize < 1 || sampleRate < 1 {
		return nil, fmt.Errorf("%w: window %d at %d Hz", ErrInvalidAnalyzer, windowSize, sampleRate)
	}

	weights, err := fir.Window(winType, windowSize)
	if err != nil {
		return nil, err
	}
	if windowSize == 1 {
		weights[0] = 1
	}

	a := &Analyzer{
		freqs:   append([]float64(nil), freqs...),
		coeffs:  make([]float64, len(freqs)),
		s1:      make([]float64, len(freqs)),
		s2:      make([]float64, len(freqs)),
		weights: weights,
		powers:  make([]float64, len(freqs)),
		inds:    make([]int, len(freqs)),
	}
	for i, f := range freqs {
		if f <= 0 || f >= float64(sampleRate)/2 {
			return nil, fmt.Errorf("%w: %.1f Hz outside (0, %d)", ErrInvalidAnalyzer, f, sampleRate/2)
		}
		a.coeffs[i] = 2 * math.Cos(2*math.Pi*f/float64(sampleRate))
	}
	return a, nil
}

func (a *Analyzer) Frequencies() []float64 {
	return a.freqs
}

// WindowSize is the number of samples that make up one measurement.
func (a *Analyzer) WindowSize() int {
	return len(a.weights)
}

// Full reports whether a whole window has been processed.
func (a *Analyzer) Full() bool {
	return a.n >= len(a.weights)
}

// Process feeds samples into the recurrences. Samples beyond the window size
// are ignored until Reset.
func (a *Analyzer) Process(samples []float32) {
	for _, sample := range samples {
		if a.n >= len(a.weights) {
			return
		}
		x := float64(sample * a.weights[a.n])
		for i, coeff := range a.coeffs {
			s := x + coeff*a.s1[i] - a.s2[i]
			a.s2[i] = a.s1[i]
			a.s1[i] = s
		}
		a.n++
	}
}

func (a *Analyzer) power(i int) float64 {
	return a.s1[i]*a.s1[i] + a.s2[i]*a.s2[i] - a.coeffs[i]*a.s1[i]*a.s2[i]
}

// Energies returns the power at every frequency in configuration order.
func (a *Analyzer) Energies() []Energy {
	ret := make([]Energy, len(a.freqs))
	for i, f := range a.freqs {
		ret[i] = Energy{Frequency: f, Power: a.power(i)}
	}
	return ret
}

// Ranked returns the energies ordered from most to least powerful.
func (a *Analyzer) Ranked() []Energy {
	for i := range a.freqs {
		a.powers[i] = a.power(i)
		a.inds[i] = i
	}
	floats.Argsort(a.powers, a.inds)

	ret := make([]Energy, len(a.freqs))
	for i := range a.inds {
		j := len(a.inds) - 1 - i
		ret[i] = Energy{Frequency: a.freqs[a.inds[j]], Power: a.powers[j]}
	}
	return ret
}

// Dominant returns the most powerful frequency. Ties go to the frequency
// listed first.
func (a *Analyzer) Dominant() Energy {
	for i := range a.freqs {
		a.powers[i] = a.power(i)
	}
	best := floats.MaxIdx(a.powers)
	return Energy{Frequency: a.freqs[best], Power: a.powers[best]}
}

// Reset clears the recurrences for the next window.
func (a *Analyzer) Reset() {
	clear(a.s1)
	clear(a.s2)
	a.n = 0
}
