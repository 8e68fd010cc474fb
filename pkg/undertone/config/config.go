package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/Ravenstine/undertone/pkg/dsp/filters/fir"
	"github.com/Ravenstine/undertone/pkg/frame"
	"github.com/Ravenstine/undertone/pkg/frame/checksum"
	"github.com/Ravenstine/undertone/pkg/modem"
	"github.com/Ravenstine/undertone/pkg/undertone"
	"github.com/Ravenstine/undertone/pkg/undertone/output"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	SampleRate       int     `yaml:"sample_rate"`
	BitDepth         string  `yaml:"bit_depth"`
	CarrierFreq      float64 `yaml:"carrier_freq"`
	Deviation        float64 `yaml:"deviation"`
	MarkFreq         float64 `yaml:"mark_freq"`
	SpaceFreq        float64 `yaml:"space_freq"`
	SamplesPerSymbol int     `yaml:"samples_per_symbol"`
	Ease             *int    `yaml:"ease"`
	Amplitude        float64 `yaml:"amplitude"`
	Window           int     `yaml:"window"`
	Step             int     `yaml:"step"`
	Scheme           string  `yaml:"scheme"`
	AnalysisWindow   string  `yaml:"analysis_window"`
	EnergyFloor      float64 `yaml:"energy_floor"`
	OnsetRatio       float64 `yaml:"onset_ratio"`
	DecayRatio       float64 `yaml:"decay_ratio"`

	Preamble   string `yaml:"preamble"`
	Checksum   string `yaml:"checksum"`
	MaxPayload int    `yaml:"max_payload"`

	Prefilter struct {
		Enabled    bool    `yaml:"enabled"`
		Transition float64 `yaml:"transition"`
	} `yaml:"prefilter"`
	AGC struct {
		Enabled bool    `yaml:"enabled"`
		Alpha   float64 `yaml:"alpha"`
		Target  float64 `yaml:"target"`
	} `yaml:"agc"`

	Device           string `yaml:"device"`
	PlaybackLocation string `yaml:"playback_location"`
	RecordLocation   string `yaml:"record_location"`
	ReadSize         int    `yaml:"read_size"`
	PayloadFormat    string `yaml:"payload_format"`

	OutputDestinations []OutputDestination `yaml:"output_destinations"`
	VizServer          struct {
		Port           int           `yaml:"port"`
		UpdateInterval time.Duration `yaml:"update_interval"`
	} `yaml:"viz_server"`
	InfluxDB struct {
		Host         string `yaml:"host"`
		Organization string `yaml:"organization"`
		Bucket       string `yaml:"bucket"`
	} `yaml:"influxdb"`
	LogLevel string `yaml:"log_level"`
}

type OutputDestination struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Default matches the library defaults with CRC-24 framing.
func Default() Config {
	cfg := modem.DefaultConfig()
	var c Config
	c.SampleRate = cfg.SampleRate
	c.BitDepth = string(modem.BitDepth32Float)
	c.CarrierFreq = cfg.CarrierFreq
	c.Deviation = modem.DefaultDeviation
	c.SamplesPerSymbol = cfg.SamplesPerSymbol
	ease := cfg.Ease
	c.Ease = &ease
	c.Amplitude = cfg.Amplitude
	c.Window = cfg.Window
	c.Step = cfg.Step
	c.Scheme = "three_tone"
	c.AnalysisWindow = "hann"
	c.OnsetRatio = cfg.OnsetRatio
	c.DecayRatio = cfg.DecayRatio
	c.Checksum = checksum.CRC24{}.Name()
	c.MaxPayload = frame.DefaultMaxPayload
	c.Prefilter.Transition = undertone.DefaultPrefilterTransition
	c.AGC.Alpha = undertone.DefaultAGCAlpha
	c.AGC.Target = undertone.DefaultAGCTarget
	c.Device = "stream"
	c.ReadSize = 4096
	c.PayloadFormat = string(output.PayloadFormatText)
	c.LogLevel = "info"
	return c
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(contents)
}

func Parse(contents []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(contents, &c); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ModemConfig resolves mark and space from the deviation unless they are
// given explicitly.
func (c Config) ModemConfig() (modem.Config, error) {
	scheme, err := modem.ParseScheme(c.Scheme)
	if err != nil {
		return modem.Config{}, err
	}
	window, err := fir.ParseWindowType(c.AnalysisWindow)
	if err != nil {
		return modem.Config{}, err
	}

	ret := modem.Config{
		SampleRate:       c.SampleRate,
		CarrierFreq:      c.CarrierFreq,
		MarkFreq:         c.MarkFreq,
		SpaceFreq:        c.SpaceFreq,
		SamplesPerSymbol: c.SamplesPerSymbol,
		Amplitude:        c.Amplitude,
		Window:           c.Window,
		Step:             c.Step,
		Scheme:           scheme,
		AnalysisWindow:   window,
		EnergyFloor:      c.EnergyFloor,
		OnsetRatio:       c.OnsetRatio,
		DecayRatio:       c.DecayRatio,
	}
	if c.Ease != nil {
		ret.Ease = *c.Ease
	}
	if ret.MarkFreq == 0 {
		ret.MarkFreq = c.CarrierFreq + c.Deviation
	}
	if ret.SpaceFreq == 0 {
		ret.SpaceFreq = c.CarrierFreq - c.Deviation
	}
	if ret.Window == 0 {
		ret.Window = ret.SamplesPerSymbol
	}
	if ret.Step == 0 {
		ret.Step = ret.Window
	}
	return ret, ret.Validate()
}

func (c Config) FramingOptions() (frame.Options, error) {
	alg, err := checksum.ByName(c.Checksum)
	if err != nil {
		return frame.Options{}, err
	}
	opts := frame.Options{
		Checksum:   alg,
		MaxPayload: c.MaxPayload,
	}
	if c.Preamble != "" {
		opts.Preamble, err = hex.DecodeString(strings.TrimPrefix(c.Preamble, "0x"))
		if err != nil {
			return frame.Options{}, fmt.Errorf("%w: preamble: %v", ErrInvalidConfig, err)
		}
	}
	return opts, opts.Validate()
}

func (c Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(c.LogLevel)
}

func (c Config) Validate() error {
	if _, err := c.ModemConfig(); err != nil {
		return err
	}
	if _, err := c.FramingOptions(); err != nil {
		return err
	}
	if _, err := modem.ParseBitDepth(c.BitDepth); err != nil {
		return err
	}
	if _, err := output.ParsePayloadFormat(c.PayloadFormat); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.Device {
	case "stream", "file":
	default:
		return fmt.Errorf("%w: unknown device %q", ErrInvalidConfig, c.Device)
	}
	if c.Device == "file" && c.PlaybackLocation == "" {
		return fmt.Errorf("%w: file device needs playback_location", ErrInvalidConfig)
	}
	if c.ReadSize <= 0 {
		return fmt.Errorf("%w: read size %d", ErrInvalidConfig, c.ReadSize)
	}
	for _, dest := range c.OutputDestinations {
		if dest.Host == "" || dest.Port <= 0 || dest.Port > 65535 {
			return fmt.Errorf("%w: output destination %s:%d", ErrInvalidConfig, dest.Host, dest.Port)
		}
	}
	return nil
}

// ToOptions converts the configuration into facade options without outputs.
func (c Config) ToOptions() (undertone.Options, error) {
	modemCfg, err := c.ModemConfig()
	if err != nil {
		return undertone.Options{}, err
	}
	framing, err := c.FramingOptions()
	if err != nil {
		return undertone.Options{}, err
	}

	return undertone.Options{
		Modem:               modemCfg,
		Framing:             framing,
		Prefilter:           c.Prefilter.Enabled,
		PrefilterTransition: c.Prefilter.Transition,
		AGC:                 c.AGC.Enabled,
		AGCAlpha:            c.AGC.Alpha,
		AGCTarget:           c.AGC.Target,
	}, nil
}

func (c Config) Destinations() []output.Destination {
	ret := make([]output.Destination, len(c.OutputDestinations))
	for i, d := range c.OutputDestinations {
		ret[i] = output.Destination{Host: d.Host, Port: d.Port}
	}
	return ret
}
