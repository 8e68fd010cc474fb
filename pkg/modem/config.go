package modem

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ravenstine/undertone/pkg/dsp/filters/fir"
)

var ErrInvalidConfig = errors.New("invalid modem configuration")

const (
	DefaultSampleRate       = 44100
	DefaultCarrierFreq      = 18000.0
	DefaultDeviation        = 500.0
	DefaultSamplesPerSymbol = 35
	DefaultEase             = 4
	DefaultAmplitude        = 1.0
	DefaultStep             = 12
	DefaultOnsetRatio       = 0.7
	DefaultDecayRatio       = 0.1
)

// Scheme selects how bits are keyed onto tones.
type Scheme int

const (
	// SchemeThreeTone sends a carrier symbol before every mark or space
	// symbol so the receiver can clock bits off the idle to tone edge.
	SchemeThreeTone Scheme = iota
	// SchemeTwoTone sends mark or space only. The receiver must be
	// configured with Step equal to SamplesPerSymbol and stay aligned.
	SchemeTwoTone
)

func (s Scheme) String() string {
	switch s {
	case SchemeThreeTone:
		return "three_tone"
	case SchemeTwoTone:
		return "two_tone"
	default:
		return fmt.Sprintf("scheme(%d)", int(s))
	}
}

func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "three_tone", "three-tone":
		return SchemeThreeTone, nil
	case "two_tone", "two-tone", "basic":
		return SchemeTwoTone, nil
	default:
		return 0, fmt.Errorf("%w: unknown scheme %q", ErrInvalidConfig, name)
	}
}

// Config is shared by the modulator and demodulator. Both ends of a link
// need the same tones and symbol length.
type Config struct {
	SampleRate  int
	CarrierFreq float64
	MarkFreq    float64
	SpaceFreq   float64
	// SamplesPerSymbol is the length of every tone the modulator emits.
	SamplesPerSymbol int
	// Ease is the number of samples a frequency or amplitude change takes.
	Ease      int
	Amplitude float64
	// Window is the number of samples per energy measurement and Step the
	// distance between consecutive windows. Step may not exceed Window.
	Window         int
	Step           int
	Scheme         Scheme
	AnalysisWindow fir.WindowType
	// Windows whose strongest tone has no more power than EnergyFloor are idle.
	EnergyFloor float64
	// A window whose leading half holds no more than OnsetRatio times the
	// energy of its trailing half catches a tone starting and is idle, as is
	// one whose trailing half holds no more than DecayRatio times the leading
	// half. Zero disables the check.
	OnsetRatio float64
	DecayRatio float64
}

func DefaultConfig() Config {
	return Config{
		SampleRate:       DefaultSampleRate,
		CarrierFreq:      DefaultCarrierFreq,
		MarkFreq:         DefaultCarrierFreq + DefaultDeviation,
		SpaceFreq:        DefaultCarrierFreq - DefaultDeviation,
		SamplesPerSymbol: DefaultSamplesPerSymbol,
		Ease:             DefaultEase,
		Amplitude:        DefaultAmplitude,
		Window:           DefaultSamplesPerSymbol,
		Step:             DefaultStep,
		Scheme:           SchemeThreeTone,
		AnalysisWindow:   fir.Hann,
		OnsetRatio:       DefaultOnsetRatio,
		DecayRatio:       DefaultDecayRatio,
	}
}

// Frequencies returns the tones in use, mark first.
func (c Config) Frequencies() []float64 {
	if c.Scheme == SchemeTwoTone {
		return []float64{c.MarkFreq, c.SpaceFreq}
	}
	return []float64{c.MarkFreq, c.SpaceFreq, c.CarrierFreq}
}

func (c Config) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}
	nyquist := float64(c.SampleRate) / 2
	for _, f := range c.Frequencies() {
		if f <= 0 || f >= nyquist {
			return fmt.Errorf("%w: tone %.1f Hz outside (0, %.0f)", ErrInvalidConfig, f, nyquist)
		}
	}
	if c.MarkFreq == c.SpaceFreq {
		return fmt.Errorf("%w: mark and space share %.1f Hz", ErrInvalidConfig, c.MarkFreq)
	}
	if c.Scheme == SchemeThreeTone && (c.CarrierFreq == c.MarkFreq || c.CarrierFreq == c.SpaceFreq) {
		return fmt.Errorf("%w: carrier %.1f Hz collides with mark or space", ErrInvalidConfig, c.CarrierFreq)
	}
	if c.Scheme != SchemeThreeTone && c.Scheme != SchemeTwoTone {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Scheme)
	}
	if c.SamplesPerSymbol < 1 {
		return fmt.Errorf("%w: samples per symbol %d", ErrInvalidConfig, c.SamplesPerSymbol)
	}
	if c.Window < 1 || c.Step < 1 || c.Step > c.Window {
		return fmt.Errorf("%w: window %d step %d", ErrInvalidConfig, c.Window, c.Step)
	}
	if c.Amplitude <= 0 {
		return fmt.Errorf("%w: amplitude %f", ErrInvalidConfig, c.Amplitude)
	}
	if c.Ease < 0 || c.EnergyFloor < 0 {
		return fmt.Errorf("%w: ease %d energy floor %f", ErrInvalidConfig, c.Ease, c.EnergyFloor)
	}
	if c.OnsetRatio < 0 || c.OnsetRatio >= 1 || c.DecayRatio < 0 || c.DecayRatio >= 1 {
		return fmt.Errorf("%w: onset ratio %f decay ratio %f", ErrInvalidConfig, c.OnsetRatio, c.DecayRatio)
	}
	return nil
}
