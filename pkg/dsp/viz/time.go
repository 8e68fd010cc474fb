package viz

import (
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
)

type PlotType int

const (
	PlotTypeDefault PlotType = iota
	PlotTypeScatter
	PlotTypeLines
)

const amplitudeRange = 1.5

// TimeDomainPlotter draws the last size samples of a signal, optionally with
// a marker at every symbol boundary.
type TimeDomainPlotter struct {
	mu      sync.Mutex
	samples []float32
	size    int
	// total counts every sample appended, so boundaries stay put as the
	// window slides.
	total        int
	symbolLength int

	name        string
	plotFunc    func(*plot.Plot, ...interface{}) error
	plotOptions []PlotOptions
}

func NewTimeDomainPlotter(name string, size int) *TimeDomainPlotter {
	return &TimeDomainPlotter{
		samples:  make([]float32, 0, size),
		size:     size,
		name:     name,
		plotFunc: plotutil.AddScatters,
	}
}

func (tp *TimeDomainPlotter) Name() string {
	return tp.name
}

func (tp *TimeDomainPlotter) SetPlotType(t PlotType) {
	switch t {
	case PlotTypeLines:
		tp.plotFunc = plotutil.AddLines
	default:
		tp.plotFunc = plotutil.AddScatters
	}
}

// SetSymbolLength marks a boundary every n samples counted from the first
// appended sample. Zero removes the markers.
func (tp *TimeDomainPlotter) SetSymbolLength(n int) {
	tp.mu.Lock()
	tp.symbolLength = n
	tp.mu.Unlock()
}

func (tp *TimeDomainPlotter) AppendFloat(f []float32) {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	tp.total += len(f)
	tp.samples = append(tp.samples, f...)
	if len(tp.samples) > tp.size {
		tp.samples = append(tp.samples[:0], tp.samples[len(tp.samples)-tp.size:]...)
	}
}

func (tp *TimeDomainPlotter) AddPlotOption(opt PlotOptions) {
	tp.plotOptions = append(tp.plotOptions, opt)
}

// boundaries returns the x positions of symbol starts in the plotted window.
func (tp *TimeDomainPlotter) boundaries() []float64 {
	if tp.symbolLength <= 0 || len(tp.samples) < tp.size {
		return nil
	}
	first := tp.total - tp.size
	var ret []float64
	for x := (tp.symbolLength - first%tp.symbolLength) % tp.symbolLength; x < tp.size; x += tp.symbolLength {
		ret = append(ret, float64(x))
	}
	return ret
}

func (tp *TimeDomainPlotter) GetImage() *ImageContainer {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if len(tp.samples) < tp.size {
		return nil
	}

	p := newPlot(tp.name, "Sample", "Amplitude")
	p.Y.Min = -amplitudeRange
	p.Y.Max = amplitudeRange
	for _, opt := range tp.plotOptions {
		opt(p)
	}

	pts := make(plotter.XYs, tp.size)
	for i, s := range tp.samples {
		pts[i] = plotter.XY{X: float64(i), Y: float64(s)}
	}
	if err := tp.plotFunc(p, "f(t)", pts); err != nil {
		return nil
	}
	if err := addVerticalLines(p, tp.boundaries(), -amplitudeRange, amplitudeRange); err != nil {
		return nil
	}

	return render(tp.name, p)
}
