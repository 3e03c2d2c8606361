package calendar

import "errors"

var ErrInvalidDate = errors.New("invalid date")
