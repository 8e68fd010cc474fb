package undertone

import "errors"

var (
	ErrInvalidOptions     = errors.New("invalid options")
	ErrClosed             = errors.New("outputs are closed")
	ErrSampleRateMismatch = errors.New("device sample rate does not match modem")
)
