package domain

import "errors"

var (
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidClock  = errors.New("invalid time, expected HH:MM")
	ErrInvalidStatus = errors.New("invalid status")
)
