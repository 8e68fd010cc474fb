package file

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/Ravenstine/undertone/pkg/undertone/device"
	"github.com/youpy/go-wav"
)

func wavBytes(t *testing.T, bits uint16, values []int) []byte {
	t.Helper()
	var buf bytes.Buffer
	samples := make([]wav.Sample, len(values))
	for i, v := range values {
		samples[i] = wav.Sample{Values: [2]int{v}}
	}
	if err := wav.NewWriter(&buf, uint32(len(samples)), 1, 8000, bits).WriteSamples(samples); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func collect(t *testing.T, dev device.Device) []*device.Segment {
	t.Helper()
	ch := make(chan *device.Segment, 64)
	if err := dev.Start(context.Background(), ch); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	close(ch)
	var ret []*device.Segment
	for seg := range ch {
		ret = append(ret, seg)
	}
	return ret
}

func TestWAVDevice(t *testing.T) {
	values := []int{0, 16384, -16384, 32767, -32768, 8192, 0}
	dev, err := NewWAVDevice(bytes.NewReader(wavBytes(t, 16, values)), 3, 0)
	if err != nil {
		t.Fatalf("NewWAVDevice() error = %v", err)
	}
	if dev.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d", dev.SampleRate())
	}

	segs := collect(t, dev)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3", len(segs))
	}
	var got []float32
	for i, seg := range segs {
		if seg.SegmentNumber != i+1 || seg.SampleRate != 8000 {
			t.Errorf("segment %d = %+v", i, seg)
		}
		got = append(got, seg.Data...)
	}
	want := []float32{0, 0.5, -0.5, 32767.0 / 32768, -1, 0.25, 0}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
	if err := dev.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestWAVDevice8Bit(t *testing.T) {
	dev, err := NewWAVDevice(bytes.NewReader(wavBytes(t, 8, []int{128, 192, 64})), 16, 0)
	if err != nil {
		t.Fatalf("NewWAVDevice() error = %v", err)
	}
	segs := collect(t, dev)
	if len(segs) != 1 {
		t.Fatalf("got %d segments", len(segs))
	}
	want := []float32{0, 0.5, -0.5}
	for i, v := range segs[0].Data {
		if v != want[i] {
			t.Errorf("sample %d = %f, want %f", i, v, want[i])
		}
	}
}

func TestWAVDeviceErrors(t *testing.T) {
	if _, err := NewWAVDevice(bytes.NewReader(wavBytes(t, 16, []int{0})), 0, 0); err == nil {
		t.Errorf("zero read size accepted")
	}
	if _, err := NewWAVDevice(bytes.NewReader([]byte("not a wav file")), 16, 0); err == nil {
		t.Errorf("garbage input accepted")
	}
	if _, err := NewFileDevice("does-not-exist.wav", 16, 0); err == nil {
		t.Errorf("missing file accepted")
	}
}
