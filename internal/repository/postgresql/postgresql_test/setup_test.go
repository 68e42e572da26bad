package postgresql_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to TEST_DATABASE_URL, aligns both schemas and empties
// the tables. Tests are skipped when the variable is unset.
func newTestStore(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.NewTenantSchemaAligner().Align(ctx, db))
	require.NoError(t, postgresql.NewRegistrySchemaAligner().Align(ctx, db))

	for _, table := range []string{"attendance", "employees", "companies"} {
		_, err := db.Exec(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE")
		require.NoError(t, err, "truncate %s", table)
	}
	return db
}
