package fir

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidBand = errors.New("invalid filter band")

// MakeBandPass designs windowed-sinc bandpass taps normalized to gain at the
// band center.
func MakeBandPass(gain, sampleRate, lowCut, highCut, transitionWidth float64, winType WindowType) ([]float32, error) {
	if lowCut <= 0 || highCut <= lowCut || highCut >= sampleRate/2 {
		return nil, fmt.Errorf("%w: %.1f-%.1f Hz at %.0f Hz", ErrInvalidBand, lowCut, highCut, sampleRate)
	}
	if transitionWidth <= 0 {
		return nil, fmt.Errorf("%w: transition width %.1f", ErrInvalidBand, transitionWidth)
	}

	nTaps := computeNTaps(sampleRate, transitionWidth, winType)
	w, err := Window(winType, nTaps)
	if err != nil {
		return nil, err
	}
	var taps = make([]float32, nTaps)

	var M = (nTaps - 1) / 2

	var fwT0 = 2 * math.Pi * lowCut / sampleRate
	var fwT1 = 2 * math.Pi * highCut / sampleRate

	for i := -M; i <= M; i++ {
		fi := float64(i)
		if i == 0 {
			taps[i+M] = float32((fwT1 - fwT0) / math.Pi * float64(w[i+M]))
		} else {
			taps[i+M] = float32(
				(math.Sin(fi*fwT1) - math.Sin(fi*fwT0)) /
					(float64(i) * math.Pi) *
					float64(w[i+M]),
			)
		}
	}

	var fmax = float64(taps[0+M])
	for i := 1; i <= M; i++ {
		fi := float64(i)
		fmax += 2 * float64(taps[i+M]) * math.Cos(fi*(fwT0+fwT1)*0.5)
	}

	gain /= fmax

	for i := 0; i < nTaps; i++ {
		taps[i] = float32(float64(taps[i]) * gain)
	}

	return taps, nil
}
