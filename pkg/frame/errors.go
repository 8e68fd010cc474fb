package frame

import "errors"

var (
	// ErrInvalidPreamble is returned when a preamble pattern is empty or cannot be told apart from a cleared correlator.
	ErrInvalidPreamble = errors.New("invalid preamble pattern")
	// ErrPayloadTooLarge is returned when a payload or a received length field exceeds the payload capacity.
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrInvalidOptions  = errors.New("invalid framing options")
)
