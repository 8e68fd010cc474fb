package modem

import "github.com/Ravenstine/undertone/pkg/dsp/goertzel"

// Symbol is the meaning of one analysis window.
type Symbol int8

const (
	SymbolIdle  Symbol = -1
	SymbolSpace Symbol = 0
	SymbolMark  Symbol = 1
)

// ToneClassifier maps the strongest tone of each window to a symbol and
// decides when a symbol becomes an output bit.
type ToneClassifier interface {
	// Frequencies lists the tones the analyzer must measure.
	Frequencies() []float64
	Classify(dominant goertzel.Energy) Symbol
	// Next consumes the symbol of the next window and reports whether it
	// produces a bit.
	Next(s Symbol) (bit byte, ok bool)
	Reset()
}

func classify(e goertzel.Energy, mark, space, floor float64) Symbol {
	if e.Power <= floor {
		return SymbolIdle
	}
	switch e.Frequency {
	case mark:
		return SymbolMark
	case space:
		return SymbolSpace
	default:
		return SymbolIdle
	}
}

// TwoTone emits a bit for every mark or space window.
type TwoTone struct {
	Mark  float64
	Space float64
	Floor float64
}

func (t *TwoTone) Frequencies() []float64 {
	return []float64{t.Mark, t.Space}
}

func (t *TwoTone) Classify(e goertzel.Energy) Symbol {
	return classify(e, t.Mark, t.Space, t.Floor)
}

func (t *TwoTone) Next(s Symbol) (byte, bool) {
	if s == SymbolIdle {
		return 0, false
	}
	return byte(s), true
}

func (t *TwoTone) Reset() {}

// ThreeTone emits a bit only when a mark or space window follows an idle
// one, so a tone spanning several windows still yields a single bit.
type ThreeTone struct {
	Mark     float64
	Space    float64
	Carrier  float64
	Floor    float64
	previous Symbol
}

func NewThreeTone(mark, space, carrier, floor float64) *ThreeTone {
	return &ThreeTone{
		Mark:     mark,
		Space:    space,
		Carrier:  carrier,
		Floor:    floor,
		previous: SymbolIdle,
	}
}

func (t *ThreeTone) Frequencies() []float64 {
	return []float64{t.Mark, t.Space, t.Carrier}
}

func (t *ThreeTone) Classify(e goertzel.Energy) Symbol {
	return classify(e, t.Mark, t.Space, t.Floor)
}

func (t *ThreeTone) Next(s Symbol) (byte, bool) {
	emit := t.previous == SymbolIdle && s != SymbolIdle
	t.previous = s
	return byte(s), emit
}

func (t *ThreeTone) Reset() {
	t.previous = SymbolIdle
}

// NewClassifier returns the classifier matching the configured scheme.
func NewClassifier(cfg Config) ToneClassifier {
	if cfg.Scheme == SchemeTwoTone {
		return &TwoTone{Mark: cfg.MarkFreq, Space: cfg.SpaceFreq, Floor: cfg.EnergyFloor}
	}
	return NewThreeTone(cfg.MarkFreq, cfg.SpaceFreq, cfg.CarrierFreq, cfg.EnergyFloor)
}
