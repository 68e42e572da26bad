package tenant

import "context"

// TenantRepository is the master registry of tenants.
type TenantRepository interface {
	GetByCode(ctx context.Context, code string) (Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	ListActive(ctx context.Context) ([]Tenant, error)
	Create(ctx context.Context, t Tenant) (Tenant, error)
	SetActive(ctx context.Context, code string, active bool) error
	UpdateRecipients(ctx context.Context, code string, chatIDs, emails []string) error
}

// StoreProvisioner creates the physical store backing a new tenant.
type StoreProvisioner interface {
	CreateStore(ctx context.Context, name string) error
}
