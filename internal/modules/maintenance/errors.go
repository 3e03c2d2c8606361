package maintenance

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("block not found")
)
