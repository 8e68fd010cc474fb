package checksum

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownAlgorithm = errors.New("unknown checksum algorithm")

// Algorithm computes a fixed-width integrity value over payload bytes.
type Algorithm interface {
	Name() string
	// Width is the number of bits the checksum occupies on the wire.
	Width() int
	Calculate(data []byte) uint64
}

// None occupies no bits and always yields zero, so every packet verifies.
type None struct{}

func (None) Name() string { return "none" }
func (None) Width() int { return 0 }
func (None) Calculate(data []byte) uint64 { return 0 }

// ByName resolves a configuration string to an algorithm.
// An empty name selects None.
func ByName(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None{}, nil
	case "crc24", "crc-24":
		return CRC24{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}
