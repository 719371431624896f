package services

import "errors"

var (
	ErrDuplicateEmail        = errors.New("email already exists")
	ErrDuplicateUsername     = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrResetIdentityMismatch = errors.New("no user matches the given username and mobile number")
	ErrPasswordTooLong       = errors.New("password exceeds 72 bytes")
)
