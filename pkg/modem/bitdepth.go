package modem

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	ErrPartialSample       = errors.New("data does not hold a whole number of samples")
)

// BitDepth names the sample encoding of raw audio. Integer depths are signed
// and scaled to full range; all encodings are little-endian.
type BitDepth string

const (
	BitDepth8       BitDepth = "8"
	BitDepth16      BitDepth = "16"
	BitDepth32      BitDepth = "32"
	BitDepth32Float BitDepth = "32f"
	BitDepth64      BitDepth = "64"
)

func ParseBitDepth(s string) (BitDepth, error) {
	b := BitDepth(s)
	if b.BytesPerSample() == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedBitDepth, s)
	}
	return b, nil
}

// BytesPerSample returns 0 for unknown depths.
func (b BitDepth) BytesPerSample() int {
	switch b {
	case BitDepth8:
		return 1
	case BitDepth16:
		return 2
	case BitDepth32, BitDepth32Float:
		return 4
	case BitDepth64:
		return 8
	default:
		return 0
	}
}

func clamp(v float32) float64 {
	return math.Max(-1, math.Min(1, float64(v)))
}

// EncodeSamples converts samples in [-1, 1] to raw audio. Integer depths clip
// values outside that range.
func EncodeSamples(samples []float32, depth BitDepth) ([]byte, error) {
	size := depth.BytesPerSample()
	if size == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBitDepth, string(depth))
	}
	ret := make([]byte, len(samples)*size)
	for i, s := range samples {
		out := ret[i*size:]
		switch depth {
		case BitDepth8:
			out[0] = byte(int8(math.Round(clamp(s) * math.MaxInt8)))
		case BitDepth16:
			binary.LittleEndian.PutUint16(out, uint16(int16(math.Round(clamp(s)*math.MaxInt16))))
		case BitDepth32:
			binary.LittleEndian.PutUint32(out, uint32(int32(math.Round(clamp(s)*math.MaxInt32))))
		case BitDepth32Float:
			binary.LittleEndian.PutUint32(out, math.Float32bits(s))
		case BitDepth64:
			binary.LittleEndian.PutUint64(out, math.Float64bits(float64(s)))
		}
	}
	return ret, nil
}

// DecodeSamples is the inverse of EncodeSamples.
func DecodeSamples(data []byte, depth BitDepth) ([]float32, error) {
	size := depth.BytesPerSample()
	if size == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBitDepth, string(depth))
	}
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes at %d bytes per sample", ErrPartialSample, len(data), size)
	}
	ret := make([]float32, len(data)/size)
	for i := range ret {
		in := data[i*size:]
		switch depth {
		case BitDepth8:
			ret[i] = float32(float64(int8(in[0])) / math.MaxInt8)
		case BitDepth16:
			ret[i] = float32(float64(int16(binary.LittleEndian.Uint16(in))) / math.MaxInt16)
		case BitDepth32:
			ret[i] = float32(float64(int32(binary.LittleEndian.Uint32(in))) / math.MaxInt32)
		case BitDepth32Float:
			ret[i] = math.Float32frombits(binary.LittleEndian.Uint32(in))
		case BitDepth64:
			ret[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(in)))
		}
	}
	return ret, nil
}
