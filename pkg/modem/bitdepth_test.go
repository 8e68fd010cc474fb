package modem

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestEncodeDecodeSamples(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1, 0.123}
	tests := []struct {
		depth     BitDepth
		size      int
		tolerance float64
	}{
		{BitDepth8, 1, 1.0 / 127},
		{BitDepth16, 2, 1.0 / 32767},
		{BitDepth32, 4, 1e-7},
		{BitDepth32Float, 4, 0},
		{BitDepth64, 8, 0},
	}
	for _, tt := range tests {
		t.Run(string(tt.depth), func(t *testing.T) {
			data, err := EncodeSamples(samples, tt.depth)
			if err != nil {
				t.Fatalf("EncodeSamples() error = %v", err)
			}
			if len(data) != len(samples)*tt.size {
				t.Fatalf("len = %d, want %d", len(data), len(samples)*tt.size)
			}
			got, err := DecodeSamples(data, tt.depth)
			if err != nil {
				t.Fatalf("DecodeSamples() error = %v", err)
			}
			for i := range samples {
				if math.Abs(float64(got[i]-samples[i])) > tt.tolerance {
					t.Errorf("sample %d = %f, want %f", i, got[i], samples[i])
				}
			}
		})
	}
}

func TestEncodeSamplesLayout(t *testing.T) {
	got, err := EncodeSamples([]float32{1, -1, 2}, BitDepth16)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xFF, 0x7F, 0x01, 0x80, 0xFF, 0x7F}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeSamples() = %x, want %x", got, want)
	}
}

func TestBitDepthErrors(t *testing.T) {
	if _, err := ParseBitDepth("24"); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("ParseBitDepth(24) error = %v", err)
	}
	if _, err := EncodeSamples([]float32{0}, "12"); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("EncodeSamples() error = %v", err)
	}
	if _, err := DecodeSamples([]byte{1, 2, 3}, BitDepth16); !errors.Is(err, ErrPartialSample) {
		t.Errorf("DecodeSamples() error = %v", err)
	}
	for _, s := range []string{"8", "16", "32", "32f", "64"} {
		if _, err := ParseBitDepth(s); err != nil {
			t.Errorf("ParseBitDepth(%q) error = %v", s, err)
		}
	}
}
