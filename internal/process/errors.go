package process

import "errors"

var (
	// ErrInvalidDimension indicates a process dimension below one.
	ErrInvalidDimension = errors.New("process: invalid dimension")

	// ErrInvalidCoefficient indicates a missing or unusable drift or
	// diffusion coefficient.
	ErrInvalidCoefficient = errors.New("process: invalid coefficient")
)
