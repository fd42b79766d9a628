package services

import "errors"

var (
	ErrValidation = errors.New("invalid input")
	ErrForbidden  = errors.New("not allowed")
)
