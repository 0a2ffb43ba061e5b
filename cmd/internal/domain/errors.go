package domain

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateRecord   = errors.New("appointment already has a medical record")
	ErrInvalidTransition = errors.New("appointment status does not allow this transition")
)
