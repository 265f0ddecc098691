package service

import "errors"

// ErrInvalidCredentials is returned for a wrong username/password pair. It is
// deliberately identical for unknown user and wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError marks rejected input. The API layer maps it to a 400 with
// the message as-is, so messages must stay safe to show callers.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validation(msg string) error { return &ValidationError{msg: msg} }
