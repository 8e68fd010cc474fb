package processor

import "github.com/Ravenstine/undertone/pkg/dsp/viz"

type DataType int

const (
	DataTypeFloat DataType = iota
	DataTypeBytes
)

func (d DataType) String() string {
	switch d {
	case DataTypeFloat:
		return "float"
	case DataTypeBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

type DSPWorker struct {
	Name        string
	DisplayName string
	InputRate   int
	OutputRate  int

	inputDataType  DataType
	outputDataType DataType

	bfWorker BFWorker
	fbWorker FBWorker
	ffWorker FFWorker

	fOutputBuffer []float32
	bOutputBuffer []byte

	fft        *viz.FFTPlotter
	timeDomain *viz.TimeDomainPlotter
	vizSize    int
	plotType   viz.PlotType
	fftPlot    bool
	markers    []float64
	symbolLen  int

	plotOptions []viz.PlotOptions
}

type DSPWorkerOption func(r *DSPWorker)

func WithPlotOptions(opts []viz.PlotOptions) DSPWorkerOption {
	return func(r *DSPWorker) {
		r.plotOptions = append(r.plotOptions, opts...)
	}
}
func WithVizLength(length int) DSPWorkerOption {
	return func(r *DSPWorker) {
		r.vizSize = length
	}
}
func WithPlotType(plotType viz.PlotType) DSPWorkerOption {
	return func(r *DSPWorker) {
		r.plotType = plotType
	}
}

// WithFFTPlot adds a spectrum plot of the block output with vertical markers
// at the given frequencies.
func WithFFTPlot(markers ...float64) DSPWorkerOption {
	return func(r *DSPWorker) {
		r.fftPlot = true
		r.markers = markers
	}
}

// WithSymbolMarkers marks every length samples of the block output on its
// time domain plot.
func WithSymbolMarkers(length int) DSPWorkerOption {
	return func(r *DSPWorker) {
		r.symbolLen = length
	}
}

func baseWorker(name, displayName string, inputRate, outputRate int) *DSPWorker {
	return &DSPWorker{
		Name:        name,
		DisplayName: displayName,
		InputRate:   inputRate,
		OutputRate:  outputRate,
	}
}

func NewDSPWorkerBF(name, displayName string, inputRate, outputRate int, worker BFWorker, opts ...DSPWorkerOption) *DSPWorker {
	ret := baseWorker(name, displayName, inputRate, outputRate)
	ret.inputDataType = DataTypeBytes
	ret.outputDataType = DataTypeFloat
	ret.bfWorker = worker

	for _, opt := range opts {
		opt(ret)
	}

	return ret
}

func NewDSPWorkerFF(name, displayName string, inputRate, outputRate int, worker FFWorker, opts ...DSPWorkerOption) *DSPWorker {
	ret := baseWorker(name, displayName, inputRate, outputRate)
	ret.inputDataType = DataTypeFloat
	ret.outputDataType = DataTypeFloat
	ret.ffWorker = worker

	for _, opt := range opts {
		opt(ret)
	}

	return ret
}

func NewDSPWorkerFB(name, displayName string, inputRate, outputRate int, worker FBWorker, opts ...DSPWorkerOption) *DSPWorker {
	ret := baseWorker(name, displayName, inputRate, outputRate)
	ret.inputDataType = DataTypeFloat
	ret.outputDataType = DataTypeBytes
	ret.fbWorker = worker

	for _, opt := range opts {
		opt(ret)
	}

	return ret
}

// Packed bytes in, float samples out
type BFWorker interface {
	WorkBuffer([]byte, []float32) int
	PredictOutputSize(int) int
}

// Float samples in, packed bytes out
type FBWorker interface {
	WorkBuffer([]float32, []byte) int
	PredictOutputSize(int) int
}

type FFWorker interface {
	WorkBuffer([]float32, []float32) int
	PredictOutputSize(int) int
}
