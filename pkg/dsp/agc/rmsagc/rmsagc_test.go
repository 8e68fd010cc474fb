package rmsagc

import (
	"math"
	"testing"
)

func rms(s []float32) float64 {
	var sum float64
	for _, v := range s {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(s)))
}

func TestConverges(t *testing.T) {
	tests := []struct {
		name  string
		level float64
	}{
		{"quiet", 0.05},
		{"loud", 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agc := NewRMSAGC(0.01, 0.5)
			in := make([]float32, 4000)
			for i := range in {
				in[i] = float32(tt.level * math.Sqrt2 * math.Sin(2*math.Pi*1000*float64(i)/44100))
			}
			out := agc.Work(in)
			if got := rms(out[len(out)-1000:]); math.Abs(got-0.5) > 0.02 {
				t.Errorf("output rms = %f, want 0.5", got)
			}
		})
	}
}

func TestMaxGain(t *testing.T) {
	agc := NewRMSAGC(0.1, 1)
	agc.SetMaxGain(10)
	out := agc.Work(make([]float32, 500))
	for _, v := range out {
		if v != 0 {
			t.Fatalf("silence produced %f", v)
		}
	}
	if agc.Gain() != 10 {
		t.Errorf("Gain() = %f, want 10", agc.Gain())
	}

	agc.Reset()
	if g := agc.Gain(); g != 1 {
		t.Errorf("Gain() after reset = %f, want 1", g)
	}
}
