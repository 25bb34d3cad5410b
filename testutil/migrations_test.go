package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/visaflow/migrations"
	"github.com/pkordes/visaflow/testutil"
)

// TestMigrations applies every migration, checks the tables exist, rolls
// everything back and checks they are gone. Skipped without TEST_DATABASE_URL.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := migrations.NewProvider(db)
	require.NoError(t, err, "create goose provider")

	// Another package's TestMain may have migrated this shared database.
	// Start from version 0 so the test is order-independent.
	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	applied, err := migrations.Up(ctx, db)
	require.NoError(t, err, "goose up")
	assert.Equal(t, len(migrations.Tables), applied)

	for _, table := range migrations.Tables {
		assertTablePresence(t, db, table, true)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	for _, table := range migrations.Tables {
		assertTablePresence(t, db, table, false)
	}

	// Leave the schema in place for packages that run after this one.
	_, err = migrations.Up(ctx, db)
	require.NoError(t, err, "restore schema")
}

func assertTablePresence(t *testing.T, db *sql.DB, table string, shouldExist bool) {
	t.Helper()

	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public'
			AND   table_name   = $1
		)`
	var exists bool
	err := db.QueryRowContext(context.Background(), q, table).Scan(&exists)
	require.NoError(t, err, "check table existence for %q", table)

	if shouldExist {
		assert.True(t, exists, "expected table %q to exist", table)
	} else {
		assert.False(t, exists, "expected table %q to not exist", table)
	}
}
