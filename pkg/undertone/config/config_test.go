package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/Ravenstine/undertone/pkg/dsp/filters/fir"
	"github.com/Ravenstine/undertone/pkg/frame"
	"github.com/Ravenstine/undertone/pkg/frame/checksum"
	"github.com/Ravenstine/undertone/pkg/modem"
	"github.com/rs/zerolog"
)

const sample = `
sample_rate: 48000
bit_depth: "16"
carrier_freq: 18000
deviation: 100
samples_per_symbol: 40
ease: 0
window: 40
step: 20
scheme: two_tone
analysis_window: hamming
decay_ratio: 0
preamble: "0x010203"
checksum: none
max_payload: 256
prefilter:
  enabled: true
  transition: 800
agc:
  enabled: true
device: file
playback_location: capture.wav
output_destinations:
  - host: localhost
    port: 9000
viz_server:
  port: 8080
  update_interval: 250ms
log_level: debug
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	opts, err := c.ToOptions()
	if err != nil {
		t.Fatalf("ToOptions() error = %v", err)
	}
	want := modem.Config{
		SampleRate:       48000,
		CarrierFreq:      18000,
		MarkFreq:         18100,
		SpaceFreq:        17900,
		SamplesPerSymbol: 40,
		Ease:             0,
		Amplitude:        modem.DefaultAmplitude,
		Window:           40,
		Step:             20,
		Scheme:           modem.SchemeTwoTone,
		AnalysisWindow:   fir.Hamming,
		OnsetRatio:       modem.DefaultOnsetRatio,
		DecayRatio:       0,
	}
	if !reflect.DeepEqual(opts.Modem, want) {
		t.Errorf("Modem = %+v, want %+v", opts.Modem, want)
	}
	if !reflect.DeepEqual(opts.Framing.Preamble, []byte{1, 2, 3}) || opts.Framing.MaxPayload != 256 {
		t.Errorf("Framing = %+v", opts.Framing)
	}
	if _, ok := opts.Framing.Checksum.(checksum.None); !ok {
		t.Errorf("Checksum = %T, want checksum.None", opts.Framing.Checksum)
	}
	if !opts.Prefilter || opts.PrefilterTransition != 800 || !opts.AGC || opts.AGCAlpha == 0 {
		t.Errorf("receive chain options = %+v", opts)
	}
	if c.VizServer.UpdateInterval != 250*time.Millisecond || c.VizServer.Port != 8080 {
		t.Errorf("VizServer = %+v", c.VizServer)
	}
	if lvl, _ := c.Level(); lvl != zerolog.DebugLevel {
		t.Errorf("Level() = %v", lvl)
	}
	if d := c.Destinations(); len(d) != 1 || d[0].Host != "localhost" || d[0].Port != 9000 {
		t.Errorf("Destinations() = %+v", d)
	}
}

func TestDefaultMatchesLibrary(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(empty) error = %v", err)
	}
	opts, err := c.ToOptions()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(opts.Modem, modem.DefaultConfig()) {
		t.Errorf("Modem = %+v, want %+v", opts.Modem, modem.DefaultConfig())
	}
	if _, ok := opts.Framing.Checksum.(checksum.CRC24); !ok {
		t.Errorf("Checksum = %T, want CRC24", opts.Framing.Checksum)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown field", "frequency: 1", ErrInvalidConfig},
		{"bad checksum", "checksum: md5", checksum.ErrUnknownAlgorithm},
		{"bad preamble hex", "preamble: zz", ErrInvalidConfig},
		{"zero preamble", "preamble: \"0000\"", frame.ErrInvalidPreamble},
		{"bad bit depth", "bit_depth: \"24\"", modem.ErrUnsupportedBitDepth},
		{"bad scheme", "scheme: four_tone", modem.ErrInvalidConfig},
		{"bad window", "analysis_window: kaiser", fir.ErrUnknownWindow},
		{"tone above nyquist", "carrier_freq: 30000", modem.ErrInvalidConfig},
		{"onset ratio of one", "onset_ratio: 1", modem.ErrInvalidConfig},
		{"file without path", "device: file", ErrInvalidConfig},
		{"unknown device", "device: hackrf", ErrInvalidConfig},
		{"bad destination", "output_destinations: [{host: localhost, port: 0}]", ErrInvalidConfig},
		{"bad log level", "log_level: loud", ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "undertone.yaml")
	if err := os.WriteFile(path, []byte("step: 35\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.Step != 35 {
		t.Errorf("Step = %d, want 35", c.Step)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("Load(missing) error = nil")
	}
}
