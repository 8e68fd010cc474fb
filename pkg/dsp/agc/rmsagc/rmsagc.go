package rmsagc

import (
	"math"
)

// DefaultMaxGain bounds the gain applied to near-silent input.
const DefaultMaxGain = 100

// RMSAGC is a root-mean-squared automatic gain controller. It scales its
// input so that the running RMS level approaches target.
type RMSAGC struct {
	alpha   float64
	beta    float64
	target  float64
	maxGain float64
	average float64
}

func NewRMSAGC(alpha float64, target float64) *RMSAGC {
	return &RMSAGC{
		alpha:   alpha,
		beta:    1 - alpha,
		average: 1.0,
		target:  target,
		maxGain: DefaultMaxGain,
	}
}

func (r *RMSAGC) SetMaxGain(maxGain float64) {
	r.maxGain = maxGain
}

// Gain is the factor applied to the next sample.
func (r *RMSAGC) Gain() float64 {
	if r.average <= 0 {
		return r.maxGain
	}
	return math.Min(r.target/math.Sqrt(r.average), r.maxGain)
}

func (r *RMSAGC) Reset() {
	r.average = 1.0
}

func (r *RMSAGC) PredictOutputSize(inputSize int) int {
	return inputSize
}

func (r *RMSAGC) WorkBuffer(input, output []float32) int {
	for i := 0; i < len(input); i++ {
		cur := float64(input[i])
		r.average = r.beta*r.average + r.alpha*cur*cur
		output[i] = float32(r.Gain() * cur)
	}

	return len(input)
}

func (r *RMSAGC) Work(data []float32) []float32 {
	ret := make([]float32, len(data))
	r.WorkBuffer(data, ret)
	return ret
}
