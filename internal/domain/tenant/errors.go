package tenant

import "errors"

var (
	// ErrTenantNotFound covers unknown and inactive codes alike.
	ErrTenantNotFound   = errors.New("invalid company code")
	ErrTenantCodeExists = errors.New("company code already exists")
)
