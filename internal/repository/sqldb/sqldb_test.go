package sqldb_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/NagawaEsther/live-well/internal/repository/sqldb"
)

func newTestDB(t *testing.T) *sqldb.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqldb.New(sqldb.DialectSQLite, dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew_UnsupportedDialect(t *testing.T) {
	if _, err := sqldb.New("mysql", "whatever"); err == nil {
		t.Fatal("expected error for unsupported dialect")
	}
}

func TestDB_Ping(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if db.Dialect() != sqldb.DialectSQLite {
		t.Fatalf("expected dialect sqlite, got %s", db.Dialect())
	}
}

// Postgres runs only against a disposable database named by the environment.
func TestPostgres_MigrateAndUsers(t *testing.T) {
	dsn := os.Getenv("LIVEWELL_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("LIVEWELL_TEST_POSTGRES_URL not set")
	}

	db, err := sqldb.New(sqldb.DialectPostgres, dsn)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if _, err := db.Users().List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}
}
