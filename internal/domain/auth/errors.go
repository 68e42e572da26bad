package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrLoginDisabled      = errors.New("login is not configured")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
