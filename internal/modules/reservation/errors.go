package reservation

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("reservation not found")
)
