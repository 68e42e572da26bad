package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

// Statements are idempotent so an existing store, including one imported from
// an older deployment, is brought forward instead of recreated.
var tenantSchema = []string{
	`CREATE TABLE IF NOT EXISTS employees (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		mobile TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		hourly_rate NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE employees ADD COLUMN IF NOT EXISTS email TEXT`,
	`ALTER TABLE employees ADD COLUMN IF NOT EXISTS shift_hours DOUBLE PRECISION`,
	`ALTER TABLE employees ADD COLUMN IF NOT EXISTS in_time TEXT`,
	`ALTER TABLE employees ADD COLUMN IF NOT EXISTS week_off_days TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE employees ADD COLUMN IF NOT EXISTS ot_enabled BOOLEAN NOT NULL DEFAULT FALSE`,
	`ALTER TABLE employees ADD COLUMN IF NOT EXISTS ot_multiplier NUMERIC(6,2)`,
	`ALTER TABLE employees ADD COLUMN IF NOT EXISTS office_staff BOOLEAN NOT NULL DEFAULT FALSE`,
	`ALTER TABLE employees ADD COLUMN IF NOT EXISTS office_latitude DOUBLE PRECISION`,
	`ALTER TABLE employees ADD COLUMN IF NOT EXISTS office_longitude DOUBLE PRECISION`,
	`ALTER TABLE employees ADD COLUMN IF NOT EXISTS office_radius_m DOUBLE PRECISION`,

	`CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		employee_id BIGINT NOT NULL,
		timestamp TEXT NOT NULL,
		action TEXT NOT NULL
	)`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS date TEXT`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS in_time TEXT`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS out_time TEXT`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS latitude DOUBLE PRECISION`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS longitude DOUBLE PRECISION`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS attachments TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS subject TEXT`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS no_matching_in BOOLEAN NOT NULL DEFAULT FALSE`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS shift_hours DOUBLE PRECISION`,
	`ALTER TABLE attendance ADD COLUMN IF NOT EXISTS created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_employee_date ON attendance (employee_id, date)`,
}

var registrySchema = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id BIGSERIAL PRIMARY KEY,
		code TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		admin_email TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		db_path TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE companies ADD COLUMN IF NOT EXISTS telegram_chat_ids TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE companies ADD COLUMN IF NOT EXISTS notification_emails TEXT NOT NULL DEFAULT ''`,
}

// SchemaAligner implements database.Aligner with an ordered list of statements.
type SchemaAligner struct {
	statements []string
}

// NewTenantSchemaAligner aligns employee and ledger tables of a tenant store.
func NewTenantSchemaAligner() *SchemaAligner {
	return &SchemaAligner{statements: tenantSchema}
}

// NewRegistrySchemaAligner aligns the master company registry.
func NewRegistrySchemaAligner() *SchemaAligner {
	return &SchemaAligner{statements: registrySchema}
}

func (a *SchemaAligner) Align(ctx context.Context, db *database.DB) error {
	for i, stmt := range a.statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema step %d: %w", i+1, err)
		}
	}
	return nil
}
