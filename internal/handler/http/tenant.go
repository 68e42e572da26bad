package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TenantHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	SetActive(w http.ResponseWriter, r *http.Request)
	UpdateRecipients(w http.ResponseWriter, r *http.Request)
}

type tenantHandlerImpl struct {
	tenantService tenant.TenantService
}

func NewTenantHandler(tenantService tenant.TenantService) TenantHandler {
	return &tenantHandlerImpl{tenantService: tenantService}
}

// List implements TenantHandler.
func (h *tenantHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.tenantService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Create implements TenantHandler.
func (h *tenantHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req tenant.CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateTenant decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.tenantService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Company created", result)
}

// SetActive implements TenantHandler.
func (h *tenantHandlerImpl) SetActive(w http.ResponseWriter, r *http.Request) {
	var req tenant.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Code = chi.URLParam(r, "code")

	if err := h.tenantService.SetActive(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Company status updated", nil)
}

// UpdateRecipients implements TenantHandler.
func (h *tenantHandlerImpl) UpdateRecipients(w http.ResponseWriter, r *http.Request) {
	var req tenant.UpdateRecipientsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Code = chi.URLParam(r, "code")

	if err := h.tenantService.UpdateRecipients(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Notification recipients updated", nil)
}
