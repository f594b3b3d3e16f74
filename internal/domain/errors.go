package domain

import "errors"

// Error kinds surfaced by the projection engine. Callers match them with errors.Is;
// every returned error wraps exactly one of these.
var (
	// ErrInvalidInput reports a parameter outside its allowed range or an
	// inconsistent combination of parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration reports an asset whose classification the engine does not recognize.
	ErrConfiguration = errors.New("configuration error")
)
