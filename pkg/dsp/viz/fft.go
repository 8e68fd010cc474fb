package viz

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/Ravenstine/undertone/pkg/dsp/filters/fir"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
)

const (
	MIX_AVG = 0.10

	minPowerDB = -100
)

// FFTPlotter draws a smoothed power spectrum of the most recent samples.
type FFTPlotter struct {
	mu           sync.Mutex
	bufFloat     []float32
	sampleRate   int
	len          int
	averagePower []float64
	name         string
	markers      []float64
	plotOptions  []PlotOptions
}

func (f *FFTPlotter) Name() string {
	return f.name
}

func NewFFTPlotter(name string, len, sampleRate int) *FFTPlotter {
	ret := &FFTPlotter{
		bufFloat:     make([]float32, len),
		averagePower: make([]float64, len/2+1),
		len:          len,
		sampleRate:   sampleRate,
		name:         name,
	}
	return ret
}

// SetMarkers draws a vertical line at each frequency, typically the tones
// the modem listens for.
func (p *FFTPlotter) SetMarkers(freqs ...float64) {
	p.markers = append(p.markers[:0], freqs...)
}

func (p *FFTPlotter) AppendFloat(s []float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(s) >= p.len {
		copy(p.bufFloat, s[len(s)-p.len:])
	} else {
		p.bufFloat = append(p.bufFloat, s...)
		p.bufFloat = p.bufFloat[len(s):]
	}
}

func (pb *FFTPlotter) AddPlotOption(opt PlotOptions) {
	pb.plotOptions = append(pb.plotOptions, opt)
}

// spectrum updates the running average and returns it in dB per bin.
func (pb *FFTPlotter) spectrum() plotter.XYs {
	win := fir.BlackmanWindow(pb.len)
	f := fourier.NewFFT(pb.len)
	data := to64(pb.bufFloat)

	for i := 0; i < len(data); i++ {
		data[i] = data[i] * float64(win[i]) / (0.42 * float64(pb.len))
	}

	coeffs := f.Coefficients(nil, data)

	ret := make(plotter.XYs, 0, len(coeffs))
	for i := 0; i < len(coeffs); i++ {
		mag := cmplx.Abs(coeffs[i])
		pb.averagePower[i] = ((1.0 - MIX_AVG) * pb.averagePower[i]) + (MIX_AVG * mag)

		db := float64(minPowerDB)
		if pb.averagePower[i] > 0 {
			db = math.Max(20*math.Log10(pb.averagePower[i]), minPowerDB)
		}
		ret = append(ret, plotter.XY{X: f.Freq(i) * float64(pb.sampleRate), Y: db})
	}
	return ret
}

func (pb *FFTPlotter) GetImage() *ImageContainer {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	p := newPlot(pb.name, "Frequency", "Power (dB)")
	p.Y.Max = 0
	p.Y.Min = minPowerDB
	for _, opt := range pb.plotOptions {
		opt(p)
	}

	if err := plotutil.AddLines(p, "frequency", pb.spectrum()); err != nil {
		return nil
	}
	if err := addVerticalLines(p, pb.markers, minPowerDB, 0); err != nil {
		return nil
	}

	return render(pb.name, p)
}
