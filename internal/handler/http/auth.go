package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	EmployeeLogin(w http.ResponseWriter, r *http.Request)
	AdminLogin(w http.ResponseWriter, r *http.Request)
	MasterLogin(w http.ResponseWriter, r *http.Request)
	SSEToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &authHandlerImpl{authService: authService}
}

// EmployeeLogin implements AuthHandler.
func (h *authHandlerImpl) EmployeeLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.EmployeeLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("EmployeeLogin decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.EmployeeLogin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Login successful", result)
}

// AdminLogin implements AuthHandler.
func (h *authHandlerImpl) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.CredentialLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AdminLogin decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.AdminLogin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Login successful", result)
}

// MasterLogin implements AuthHandler.
func (h *authHandlerImpl) MasterLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.CredentialLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("MasterLogin decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// master tokens never carry a company
	req.CompanyCode = nil

	result, err := h.authService.MasterLogin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Login successful", result)
}

// SSEToken implements AuthHandler.
func (h *authHandlerImpl) SSEToken(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.authService.SSEToken(r.Context(), claims)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Logout implements AuthHandler.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context(), jwtauth.TokenFromHeader(r)); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Logged out", nil)
}
