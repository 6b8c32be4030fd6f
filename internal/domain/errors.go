package domain

import "errors"

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrRecordNotFound    = errors.New("record not found")
	ErrInvalidSeat       = errors.New("seat is not valid")
	ErrSeatUnavailable   = errors.New("seat not available")
	ErrInvalidMetadata   = errors.New("booking metadata is malformed")
)
