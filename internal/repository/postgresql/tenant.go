package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation   = "23505"
	duplicateDatabase = "42P04"
)

type tenantRepositoryImpl struct {
	db *database.DB
}

// NewTenantRepository reads the master registry. It always uses its own pool,
// never the tenant store attached to a request.
func NewTenantRepository(db *database.DB) tenant.TenantRepository {
	return &tenantRepositoryImpl{db: db}
}

const tenantColumns = `id, code, name, admin_email, is_active, db_path, telegram_chat_ids, notification_emails, created_at`

func scanTenant(row pgx.Row) (tenant.Tenant, error) {
	var t tenant.Tenant
	var chatIDs, emails string
	err := row.Scan(&t.ID, &t.Code, &t.Name, &t.AdminEmail, &t.IsActive, &t.StorePath, &chatIDs, &emails, &t.CreatedAt)
	if err != nil {
		return tenant.Tenant{}, err
	}
	t.TelegramChatIDs = tenant.SplitRecipients(chatIDs)
	t.NotificationEmails = tenant.SplitRecipients(emails)
	return t, nil
}

// GetByCode implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) GetByCode(ctx context.Context, code string) (tenant.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM companies WHERE UPPER(code) = $1`

	t, err := scanTenant(r.db.QueryRow(ctx, query, tenant.NormalizeCode(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tenant.Tenant{}, tenant.ErrTenantNotFound
		}
		return tenant.Tenant{}, fmt.Errorf("failed to get tenant %s: %w", code, err)
	}
	return t, nil
}

// List implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) List(ctx context.Context) ([]tenant.Tenant, error) {
	return r.list(ctx, `SELECT `+tenantColumns+` FROM companies ORDER BY created_at DESC, id DESC`)
}

// ListActive implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) ListActive(ctx context.Context) ([]tenant.Tenant, error) {
	return r.list(ctx, `SELECT `+tenantColumns+` FROM companies WHERE is_active ORDER BY code`)
}

func (r *tenantRepositoryImpl) list(ctx context.Context, query string) ([]tenant.Tenant, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenants: %w", err)
	}
	return tenants, nil
}

// Create implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) Create(ctx context.Context, t tenant.Tenant) (tenant.Tenant, error) {
	query := `
		INSERT INTO companies (code, name, admin_email, is_active, db_path, telegram_chat_ids, notification_emails)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + tenantColumns

	created, err := scanTenant(r.db.QueryRow(ctx, query,
		tenant.NormalizeCode(t.Code), t.Name, t.AdminEmail, t.IsActive, t.StorePath,
		strings.Join(t.TelegramChatIDs, ","), strings.Join(t.NotificationEmails, ","),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return tenant.Tenant{}, tenant.ErrTenantCodeExists
		}
		return tenant.Tenant{}, fmt.Errorf("failed to create tenant: %w", err)
	}
	return created, nil
}

// SetActive implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) SetActive(ctx context.Context, code string, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE companies SET is_active = $2 WHERE UPPER(code) = $1`, tenant.NormalizeCode(code), active)
	if err != nil {
		return fmt.Errorf("failed to update tenant status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

// UpdateRecipients implements tenant.TenantRepository.
func (r *tenantRepositoryImpl) UpdateRecipients(ctx context.Context, code string, chatIDs, emails []string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE companies SET telegram_chat_ids = $2, notification_emails = $3 WHERE UPPER(code) = $1`,
		tenant.NormalizeCode(code), strings.Join(chatIDs, ","), strings.Join(emails, ","),
	)
	if err != nil {
		return fmt.Errorf("failed to update tenant recipients: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

type storeProvisioner struct {
	db *database.DB
}

// NewStoreProvisioner creates tenant databases on the server behind db.
func NewStoreProvisioner(db *database.DB) tenant.StoreProvisioner {
	return &storeProvisioner{db: db}
}

// CreateStore implements tenant.StoreProvisioner. An existing database is
// reused so a half-finished earlier attempt can be completed.
func (p *storeProvisioner) CreateStore(ctx context.Context, name string) error {
	_, err := p.db.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == duplicateDatabase {
			return nil
		}
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return nil
}
