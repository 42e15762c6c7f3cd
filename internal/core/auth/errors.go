package auth

import "errors"

var (
	ErrInvalidID          = errors.New("auth: invalid id")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrNotAdmin           = errors.New("auth: not an administrator")
	ErrPasswordTooShort   = errors.New("auth: password too short")
	ErrPasswordMismatch   = errors.New("auth: password confirmation mismatch")
)
