package auth

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
)

type AuthService interface {
	EmployeeLogin(ctx context.Context, req EmployeeLoginRequest) (TokenResponse, error)
	AdminLogin(ctx context.Context, req CredentialLoginRequest) (TokenResponse, error)
	MasterLogin(ctx context.Context, req CredentialLoginRequest) (TokenResponse, error)
	// SSEToken issues a short-lived token for the event stream.
	SSEToken(ctx context.Context, claims jwt.Claims) (SSETokenResponse, error)
	Logout(ctx context.Context, token string) error
}
