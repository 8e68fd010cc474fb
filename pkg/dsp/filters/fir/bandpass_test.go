package fir

import (
	"errors"
	"math"
	"testing"
)

func response(taps []float32, freq, sampleRate float64) float64 {
	var re, im float64
	w := 2 * math.Pi * freq / sampleRate
	for i, tap := range taps {
		re += float64(tap) * math.Cos(w*float64(i))
		im -= float64(tap) * math.Sin(w*float64(i))
	}
	return math.Hypot(re, im)
}

func TestMakeBandPass(t *testing.T) {
	tests := []struct {
		name string
		win  WindowType
	}{
		{"hamming", Hamming},
		{"hann", Hann},
		{"blackman", Blackman},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taps, err := MakeBandPass(1, 44100, 17500, 18500, 1000, tt.win)
			if err != nil {
				t.Fatalf("MakeBandPass() error = %v", err)
			}
			if len(taps)%2 != 1 {
				t.Errorf("len(taps) = %d, want odd", len(taps))
			}
			if got := response(taps, 18000, 44100); math.Abs(got-1) > 1e-3 {
				t.Errorf("center response = %f, want 1", got)
			}
			if got := response(taps, 1000, 44100); got > 0.05 {
				t.Errorf("1 kHz response = %f, want < 0.05", got)
			}
			if got := response(taps, 10000, 44100); got > 0.05 {
				t.Errorf("10 kHz response = %f, want < 0.05", got)
			}
		})
	}
}

func TestMakeBandPassErrors(t *testing.T) {
	tests := []struct {
		name             string
		low, high, trans float64
	}{
		{"inverted", 18500, 17500, 1000},
		{"above nyquist", 17500, 23000, 1000},
		{"zero transition", 17500, 18500, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := MakeBandPass(1, 44100, tt.low, tt.high, tt.trans, Hamming); !errors.Is(err, ErrInvalidBand) {
				t.Errorf("MakeBandPass() error = %v, want ErrInvalidBand", err)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	for name, wt := range windowNames {
		t.Run(name, func(t *testing.T) {
			parsed, err := ParseWindowType(name)
			if err != nil || parsed != wt {
				t.Fatalf("ParseWindowType(%q) = %d, %v", name, parsed, err)
			}
			w, err := Window(wt, 35)
			if err != nil {
				t.Fatalf("Window() error = %v", err)
			}
			if len(w) != 35 {
				t.Fatalf("len = %d", len(w))
			}
			// symmetric windows peak in the middle
			if math.Abs(float64(w[0]-w[34])) > 1e-6 || w[17] < w[0] {
				t.Errorf("window %s not symmetric: %v", name, w)
			}
		})
	}
	if _, err := ParseWindowType("kaiser"); !errors.Is(err, ErrUnknownWindow) {
		t.Errorf("ParseWindowType(kaiser) error = %v", err)
	}
}
