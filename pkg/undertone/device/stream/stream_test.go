package stream

import (
	"bytes"
	"context"
	"reflect"
	"testing"
	"testing/iotest"

	"github.com/Ravenstine/undertone/pkg/modem"
	"github.com/Ravenstine/undertone/pkg/undertone/device"
)

func TestStreamDevice(t *testing.T) {
	samples := []float32{0, 0.25, -0.25, 0.5, -0.5, 1, -1}
	tests := []struct {
		name  string
		depth modem.BitDepth
	}{
		{"16 bit", modem.BitDepth16},
		{"32 bit float", modem.BitDepth32Float},
		{"64 bit float", modem.BitDepth64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := modem.EncodeSamples(samples, tt.depth)
			if err != nil {
				t.Fatal(err)
			}
			// one byte per read exercises partial sample carry-over
			r := iotest.OneByteReader(bytes.NewReader(append(data, 0x01)))
			dev, err := NewStreamDevice(r, tt.depth, 44100, 3)
			if err != nil {
				t.Fatalf("NewStreamDevice() error = %v", err)
			}

			ch := make(chan *device.Segment, 64)
			if err := dev.Start(context.Background(), ch); err != nil {
				t.Fatalf("Start() error = %v", err)
			}
			close(ch)

			var got []float32
			for seg := range ch {
				if seg.SampleRate != 44100 {
					t.Errorf("segment sample rate = %d", seg.SampleRate)
				}
				got = append(got, seg.Data...)
			}
			want, err := modem.DecodeSamples(data, tt.depth)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("samples = %v, want %v", got, want)
			}
		})
	}
}

func TestStreamDeviceErrors(t *testing.T) {
	if _, err := NewStreamDevice(bytes.NewReader(nil), "12", 44100, 16); err == nil {
		t.Errorf("bad bit depth accepted")
	}
	if _, err := NewStreamDevice(bytes.NewReader(nil), modem.BitDepth16, 44100, 0); err == nil {
		t.Errorf("zero read size accepted")
	}
}
