package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	router tenant.Router
	employee.EmployeeRepository
	jwt.Service
	admin  config.CredentialConfig
	master config.CredentialConfig
}

func NewAuthService(router tenant.Router, employeeRepository employee.EmployeeRepository, jwtService jwt.Service, admin, master config.CredentialConfig) auth.AuthService {
	return &AuthServiceImpl{
		router:             router,
		EmployeeRepository: employeeRepository,
		Service:            jwtService,
		admin:              admin,
		master:             master,
	}
}

// EmployeeLogin implements auth.AuthService.
func (a *AuthServiceImpl) EmployeeLogin(ctx context.Context, req auth.EmployeeLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	db, t, err := a.router.Resolve(ctx, req.CompanyCode)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	ctx = database.WithStore(ctx, db)

	emp, err := a.EmployeeRepository.GetByMobile(ctx, strings.TrimSpace(req.Mobile))
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return auth.TokenResponse{}, employee.ErrInvalidPassword
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if emp.PasswordHash == nil || bcrypt.CompareHashAndPassword([]byte(*emp.PasswordHash), []byte(req.Password)) != nil {
		slog.WarnContext(ctx, "employee login failed", "employee_id", emp.ID)
		return auth.TokenResponse{}, employee.ErrInvalidPassword
	}

	claims := jwt.Claims{
		Subject:    emp.Mobile,
		Role:       jwt.RoleEmployee,
		EmployeeID: &emp.ID,
	}
	if t != nil {
		claims.CompanyCode = &t.Code
	}

	resp, err := a.issue(claims, t)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	resp.EmployeeID = &emp.ID
	resp.EmployeeName = &emp.Name
	return resp, nil
}

// AdminLogin implements auth.AuthService.
func (a *AuthServiceImpl) AdminLogin(ctx context.Context, req auth.CredentialLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	if err := checkCredentials(a.admin, req.Username, req.Password); err != nil {
		slog.WarnContext(ctx, "admin login failed", "username", req.Username, "error", err)
		return auth.TokenResponse{}, err
	}

	// the code must resolve so admins cannot sign in to an inactive tenant
	_, t, err := a.router.Resolve(ctx, req.CompanyCode)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	claims := jwt.Claims{Subject: req.Username, Role: jwt.RoleAdmin}
	if t != nil {
		claims.CompanyCode = &t.Code
	}
	return a.issue(claims, t)
}

// MasterLogin implements auth.AuthService.
func (a *AuthServiceImpl) MasterLogin(ctx context.Context, req auth.CredentialLoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}
	if err := checkCredentials(a.master, req.Username, req.Password); err != nil {
		slog.WarnContext(ctx, "master login failed", "username", req.Username, "error", err)
		return auth.TokenResponse{}, err
	}
	return a.issue(jwt.Claims{Subject: req.Username, Role: jwt.RoleMaster}, nil)
}

// SSEToken implements auth.AuthService.
func (a *AuthServiceImpl) SSEToken(ctx context.Context, claims jwt.Claims) (auth.SSETokenResponse, error) {
	token, expiresIn, err := a.Service.GenerateSSEToken(claims)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to generate sse token: %w", err)
	}
	return auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token)
	return nil
}

func (a *AuthServiceImpl) issue(claims jwt.Claims, t *tenant.Tenant) (auth.TokenResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(claims)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	resp := auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Role:        string(claims.Role),
		CompanyCode: claims.CompanyCode,
	}
	if t != nil {
		resp.CompanyName = &t.Name
	}
	return resp, nil
}

func checkCredentials(cred config.CredentialConfig, username, password string) error {
	if !cred.Enabled() {
		return auth.ErrLoginDisabled
	}
	userOK := subtle.ConstantTimeCompare([]byte(cred.Username), []byte(strings.TrimSpace(username))) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password))
	if !userOK || passErr != nil {
		return auth.ErrInvalidCredentials
	}
	return nil
}
