package util

import (
	"fmt"
	"math"
)

// FrequencyRange returns the lowest and highest of freqs.
func FrequencyRange(freqs ...float64) (low, high float64) {
	low = math.Inf(1)
	high = math.Inf(-1)

	for _, freq := range freqs {
		if freq < low {
			low = freq
		}
		if freq > high {
			high = freq
		}
	}

	return
}

// Band widens the range of freqs by margin on each side.
func Band(margin float64, freqs ...float64) (low, high float64) {
	low, high = FrequencyRange(freqs...)
	return low - margin, high + margin
}

func Nyquist(sampleRate int) float64 {
	return float64(sampleRate) / 2
}

func FormatHz(hz float64) string {
	if hz >= 1000 {
		return fmt.Sprintf("%0.3f kHz", hz/1e3)
	}
	return fmt.Sprintf("%0.0f Hz", hz)
}
