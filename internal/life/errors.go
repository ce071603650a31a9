package life

import "errors"

var (
	// ErrInvalidDims is returned for grids with an unsupported rank or an
	// extent that is zero or negative.
	ErrInvalidDims = errors.New("life: invalid dimensions")

	// ErrInvalidSpark is returned for spark settings outside [0, 1] or a
	// clock spark without a clock.
	ErrInvalidSpark = errors.New("life: invalid spark settings")

	// ErrInvalidFill is returned for a genesis fill probability outside [0, 1].
	ErrInvalidFill = errors.New("life: invalid fill probability")

	// ErrDimsMismatch is returned when a seed grid does not match the
	// universe dimensions.
	ErrDimsMismatch = errors.New("life: grid dimensions mismatch")

	// ErrEntropy is returned when no seed could be drawn from the system
	// entropy source.
	ErrEntropy = errors.New("life: entropy unavailable")
)
