package occupancy

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
)
