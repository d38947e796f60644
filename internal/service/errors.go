package service

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("plan already validated")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotExportable      = errors.New("only approved plans can be exported")
)
