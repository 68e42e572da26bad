package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrMobileExists     = errors.New("mobile number already registered")
	ErrInvalidPassword  = errors.New("invalid mobile or password")
)
