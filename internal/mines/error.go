package mines

import "errors"

var (
	ErrInvalidParams     = errors.New("invalid board parameters")
	ErrOutOfBounds       = errors.New("cell out of bounds")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrUnknownStatus     = errors.New("unknown game status")
	ErrMalformedSnapshot = errors.New("malformed board snapshot")
)
