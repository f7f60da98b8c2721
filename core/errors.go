package core

import "errors"

var (
	// ErrDegenerateBasis is returned when forward is parallel to up and no
	// right vector can be derived.
	ErrDegenerateBasis  = errors.New("degenerate camera basis")
	ErrInvalidConfig    = errors.New("invalid camera config")
	ErrInvalidDeltaTime = errors.New("invalid delta time")
	ErrInvalidViewport  = errors.New("invalid viewport size")
	ErrInvalidInput     = errors.New("invalid input delta")
	ErrUnknownDirection = errors.New("unknown movement direction")
)
