package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
)

const maxCodeAttempts = 5

type TenantServiceImpl struct {
	tenant.TenantRepository
	provisioner   tenant.StoreProvisioner
	storeTemplate string
	storePrefix   string
	generateCode  func() (string, error)
}

// NewTenantService provisions stores as storePrefix+code under storeTemplate,
// where the template's %s is the database name.
func NewTenantService(repo tenant.TenantRepository, provisioner tenant.StoreProvisioner, storeTemplate, storePrefix string) tenant.TenantService {
	return &TenantServiceImpl{
		TenantRepository: repo,
		provisioner:      provisioner,
		storeTemplate:    storeTemplate,
		storePrefix:      storePrefix,
		generateCode:     GenerateCode,
	}
}

// Create implements tenant.TenantService.
func (s *TenantServiceImpl) Create(ctx context.Context, req tenant.CreateTenantRequest) (tenant.TenantResponse, error) {
	if err := req.Validate(); err != nil {
		return tenant.TenantResponse{}, err
	}

	code, err := s.freeCode(ctx)
	if err != nil {
		return tenant.TenantResponse{}, err
	}

	storeName := s.storePrefix + strings.ToLower(code)
	if err := s.provisioner.CreateStore(ctx, storeName); err != nil {
		return tenant.TenantResponse{}, fmt.Errorf("failed to provision store: %w", err)
	}

	created, err := s.TenantRepository.Create(ctx, tenant.Tenant{
		Code:            code,
		Name:            strings.TrimSpace(req.Name),
		AdminEmail:      strings.TrimSpace(req.AdminEmail),
		IsActive:        true,
		StorePath:       fmt.Sprintf(s.storeTemplate, storeName),
		TelegramChatIDs: req.TelegramChatIDs,
	})
	if err != nil {
		return tenant.TenantResponse{}, fmt.Errorf("failed to register tenant: %w", err)
	}

	slog.InfoContext(ctx, "tenant created", "company_code", created.Code, "store", storeName)
	return toResponse(created), nil
}

func (s *TenantServiceImpl) freeCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := s.generateCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate company code: %w", err)
		}
		_, err = s.TenantRepository.GetByCode(ctx, code)
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check company code: %w", err)
		}
	}
	return "", tenant.ErrTenantCodeExists
}

// List implements tenant.TenantService.
func (s *TenantServiceImpl) List(ctx context.Context) ([]tenant.TenantResponse, error) {
	tenants, err := s.TenantRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	resp := make([]tenant.TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		resp = append(resp, toResponse(t))
	}
	return resp, nil
}

// SetActive implements tenant.TenantService. Deactivation never touches the store.
func (s *TenantServiceImpl) SetActive(ctx context.Context, req tenant.SetActiveRequest) error {
	code := tenant.NormalizeCode(req.Code)
	if err := s.TenantRepository.SetActive(ctx, code, req.IsActive); err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return err
		}
		return fmt.Errorf("failed to update tenant status: %w", err)
	}
	slog.InfoContext(ctx, "tenant status changed", "company_code", code, "is_active", req.IsActive)
	return nil
}

// UpdateRecipients implements tenant.TenantService.
func (s *TenantServiceImpl) UpdateRecipients(ctx context.Context, req tenant.UpdateRecipientsRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	code := tenant.NormalizeCode(req.Code)
	if err := s.TenantRepository.UpdateRecipients(ctx, code, trimAll(req.TelegramChatIDs), trimAll(req.NotificationEmails)); err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return err
		}
		return fmt.Errorf("failed to update recipients: %w", err)
	}
	return nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func toResponse(t tenant.Tenant) tenant.TenantResponse {
	resp := tenant.TenantResponse{
		Code:               t.Code,
		Name:               t.Name,
		AdminEmail:         t.AdminEmail,
		IsActive:           t.IsActive,
		TelegramChatIDs:    t.TelegramChatIDs,
		NotificationEmails: t.NotificationEmails,
		CreatedAt:          t.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if resp.TelegramChatIDs == nil {
		resp.TelegramChatIDs = []string{}
	}
	if resp.NotificationEmails == nil {
		resp.NotificationEmails = []string{}
	}
	return resp
}
