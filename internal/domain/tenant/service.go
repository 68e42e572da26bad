package tenant

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

// Router resolves the isolated store for a company code.
type Router interface {
	// Resolve returns the default store when code is nil or blank.
	Resolve(ctx context.Context, code *string) (*database.DB, *Tenant, error)
	Close()
}

// TenantService defines master administration of tenants.
type TenantService interface {
	Create(ctx context.Context, req CreateTenantRequest) (TenantResponse, error)
	List(ctx context.Context) ([]TenantResponse, error)
	SetActive(ctx context.Context, req SetActiveRequest) error
	UpdateRecipients(ctx context.Context, req UpdateRecipientsRequest) error
}

type tenantCtxKey struct{}

// WithTenant attaches the resolved tenant (nil in legacy single-tenant mode).
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, tenantCtxKey{}, t)
}

func FromContext(ctx context.Context) *Tenant {
	t, _ := ctx.Value(tenantCtxKey{}).(*Tenant)
	return t
}
