package controller

import "errors"

var (
	ErrValidationError = errors.New("validation error")
	ErrNotInRoom       = errors.New("connection is not in a room")
)
