package processor

import (
	"errors"
	"fmt"

	"github.com/Ravenstine/undertone/pkg/dsp/viz"
	"github.com/Ravenstine/undertone/pkg/util"
)

var ErrNoInput = errors.New("must specify input")

// Processor runs a chain of DSP blocks over each chunk of input, keeping the
// output buffers of every block between calls.
type Processor struct {
	Name        string
	InputName   string
	blocks      []*DSPWorker
	vizServer   *viz.Server
	initialized bool
	inputFFT    *viz.FFTPlotter
}

// NewProcessor creates an empty chain. vizServer may be nil.
func NewProcessor(name, inputName string, vizServer *viz.Server) *Processor {
	ret := &Processor{
		Name:      name,
		InputName: inputName,
		vizServer: vizServer,
	}

	return ret
}

func (p *Processor) AddBlock(worker *DSPWorker) {
	p.blocks = append(p.blocks, worker)
}

func (p *Processor) register(producer viz.Producer) {
	if p.vizServer != nil {
		p.vizServer.Register(p.Name, producer)
	}
}

func (p *Processor) attachPlots(cur *DSPWorker, nextIndexString func(string) string) {
	if cur.outputDataType != DataTypeFloat {
		return
	}

	vizLength := 128
	if cur.vizSize > 0 {
		vizLength = cur.vizSize
	}
	cur.timeDomain = viz.NewTimeDomainPlotter(nextIndexString(cur.DisplayName), vizLength)
	for _, opt := range cur.plotOptions {
		cur.timeDomain.AddPlotOption(opt)
	}
	if cur.plotType != viz.PlotTypeDefault {
		cur.timeDomain.SetPlotType(cur.plotType)
	}
	cur.timeDomain.SetSymbolLength(cur.symbolLen)
	p.register(cur.timeDomain)

	if cur.fftPlot {
		cur.fft = viz.NewFFTPlotter(nextIndexString(cur.DisplayName+" (FFT)"), 1024, cur.OutputRate)
		cur.fft.SetMarkers(cur.markers...)
		p.register(cur.fft)
	}
}

func (p *Processor) Initialize() error {
	if p.initialized {
		return nil
	}
	if len(p.blocks) < 1 {
		return fmt.Errorf("must specify at least 1 block")
	}
	cur := p.blocks[0]

	vizIndex := 0
	nextIndexString := func(s string) string {
		vizIndex++
		return fmt.Sprintf("%02d. %s", vizIndex, s)
	}

	if p.vizServer != nil && cur.inputDataType == DataTypeFloat {
		p.inputFFT = viz.NewFFTPlotter(nextIndexString(p.InputName), 1024, cur.InputRate)
		p.inputFFT.SetMarkers(cur.markers...)
		p.register(p.inputFFT)
	}

	for i := 1; i < len(p.blocks); i++ {
		next := p.blocks[i]

		if cur.outputDataType != next.inputDataType {
			return fmt.Errorf("cur: %s next %s data type mismatch (%s %s)", cur.Name, next.Name, cur.outputDataType, next.inputDataType)
		}
		if cur.OutputRate != next.InputRate {
			return fmt.Errorf("cur: %s next %s rate mismatch (%d %d)", cur.Name, next.Name, cur.OutputRate, next.InputRate)
		}

		if p.vizServer != nil {
			p.attachPlots(cur, nextIndexString)
		}

		cur = next
	}

	if p.vizServer != nil {
		p.attachPlots(cur, nextIndexString)
	}

	p.initialized = true

	return nil
}

// processData can handle either float or byte input and output
func (p *Processor) processData(floatInput []float32, byteInput []byte, expectedInputType, expectedOutputType DataType, metrics map[string]interface{}) ([]float32, []byte, error) {
	if len(floatInput) == 0 && len(byteInput) == 0 {
		return nil, nil, ErrNoInput
	}
	if len(floatInput) > 0 && len(byteInput) > 0 {
		return nil, nil, errors.New("may only specify one input")
	}

	var floatOutput []float32
	var byteOutput []byte

	if p.blocks[0].inputDataType != expectedInputType {
		return nil, nil, fmt.Errorf("invalid input type: got %s expected %s", p.blocks[0].inputDataType, expectedInputType)
	}
	if p.blocks[len(p.blocks)-1].outputDataType != expectedOutputType {
		return nil, nil, fmt.Errorf("invalid output type: got %s expected %s", p.blocks[len(p.blocks)-1].outputDataType, expectedOutputType)
	}

	if p.inputFFT != nil && floatInput != nil {
		p.inputFFT.AppendFloat(floatInput)
	}

	for _, block := range p.blocks {
		if block.inputDataType != expectedInputType {
			return nil, nil, fmt.Errorf("error in %s: expected %s got %s input type", block.Name, expectedInputType, block.inputDataType)
		}

		var work func()

		switch block.inputDataType {
		case DataTypeBytes:
			switch block.outputDataType {
			case DataTypeFloat:
				if predicted := block.bfWorker.PredictOutputSize(len(byteInput)); len(block.fOutputBuffer) < predicted {
					block.fOutputBuffer = make([]float32, predicted*2)
				}
				work = func() {
					length := block.bfWorker.WorkBuffer(byteInput, block.fOutputBuffer)
					floatOutput = block.fOutputBuffer[:length]
				}
			default:
				return nil, nil, fmt.Errorf("%s unknown output type %s for input %s", block.Name, block.outputDataType, block.inputDataType)
			}

		case DataTypeFloat:
			switch block.outputDataType {
			case DataTypeFloat:
				if predicted := block.ffWorker.PredictOutputSize(len(floatInput)); len(block.fOutputBuffer) < predicted {
					block.fOutputBuffer = make([]float32, predicted*2)
				}
				work = func() {
					length := block.ffWorker.WorkBuffer(floatInput, block.fOutputBuffer)
					floatOutput = block.fOutputBuffer[:length]
				}

			case DataTypeBytes:
				if predicted := block.fbWorker.PredictOutputSize(len(floatInput)); len(block.bOutputBuffer) < predicted {
					block.bOutputBuffer = make([]byte, predicted*2)
				}
				work = func() {
					length := block.fbWorker.WorkBuffer(floatInput, block.bOutputBuffer)
					byteOutput = block.bOutputBuffer[:length]
				}
			default:
				return nil, nil, fmt.Errorf("%s unknown output type %s for input %s", block.Name, block.outputDataType, block.inputDataType)
			}

		default:
			return nil, nil, fmt.Errorf("unknown input type %s", block.inputDataType)
		}

		metrics[fmt.Sprintf("%s_duration", block.Name)] = util.TimeOperationMicroseconds(work)

		if block.timeDomain != nil && len(floatOutput) > 0 {
			block.timeDomain.AppendFloat(floatOutput)
		}
		if block.fft != nil && len(floatOutput) > 0 {
			block.fft.AppendFloat(floatOutput)
		}

		if block != p.blocks[len(p.blocks)-1] {
			floatInput = floatOutput
			byteInput = byteOutput

			floatOutput = nil
			byteOutput = nil
			expectedInputType = block.outputDataType
		}
	}
	return floatOutput, byteOutput, nil
}

func (p *Processor) ensureInitialized() error {
	if !p.initialized {
		return p.Initialize()
	}
	return nil
}

// ProcessFloatToBytes runs a receive chain. The returned slice is reused by
// the next call.
func (p *Processor) ProcessFloatToBytes(input []float32, metrics map[string]interface{}) ([]byte, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}

	_, byteOutput, err := p.processData(input, nil, DataTypeFloat, DataTypeBytes, metrics)
	if err != nil {
		return nil, err
	}
	return byteOutput, nil
}

// ProcessBytesToFloat runs a transmit chain. The returned slice is reused by
// the next call.
func (p *Processor) ProcessBytesToFloat(input []byte, metrics map[string]interface{}) ([]float32, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}

	floatOutput, _, err := p.processData(nil, input, DataTypeBytes, DataTypeFloat, metrics)
	if err != nil {
		return nil, err
	}
	return floatOutput, nil
}

func (p *Processor) ProcessFloat(input []float32, metrics map[string]interface{}) ([]float32, error) {
	if err := p.ensureInitialized(); err != nil {
		return nil, err
	}

	floatOutput, _, err := p.processData(input, nil, DataTypeFloat, DataTypeFloat, metrics)
	if err != nil {
		return nil, err
	}
	return floatOutput, nil
}
