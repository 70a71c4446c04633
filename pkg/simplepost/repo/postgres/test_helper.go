package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-post/pkg/simplepost"
)

// TestDB represents a test database connection
type TestDB struct {
	Pool *pgxpool.Pool
}

// NewTestDB creates a new test database connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "Failed to connect to test database")

	err = pool.Ping(ctx)
	require.NoError(t, err, "Failed to ping test database")

	return &TestDB{
		Pool: pool,
	}
}

// Setup initializes the test database with the repository schema
func (db *TestDB) Setup(t *testing.T) {
	t.Helper()

	fields := simplepost.NewFieldSet()
	simplepost.RegisterDefaultFields(fields)

	err := NewWithPool(db.Pool, fields).EnsureSchema(context.Background())
	require.NoError(t, err, "Failed to create schema")
}

// Cleanup removes all test data from the database
func (db *TestDB) Cleanup(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	// Clean up tables in reverse order of dependencies
	for _, table := range []string{"post_draft", "post", "category", "tag", "archive", "site"} {
		_, err := db.Pool.Exec(ctx, "TRUNCATE "+table+" CASCADE")
		require.NoError(t, err, "Failed to truncate %s table", table)
	}
}

// Close closes the database connection
func (db *TestDB) Close(t *testing.T) {
	t.Helper()
	db.Pool.Close()
}

// RunTest runs a test with database setup and cleanup
func RunTest(t *testing.T, testFunc func(t *testing.T, db *TestDB)) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	db := NewTestDB(t)
	defer db.Close(t)

	db.Setup(t)

	t.Run("", func(t *testing.T) {
		db.Cleanup(t)
		testFunc(t, db)
	})
}
