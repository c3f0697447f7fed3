package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Every pooled connection to ":memory:" would get its own empty
	// database; pin the pool to one connection so all queries share it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the embedded goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Position table
		CREATE TABLE IF NOT EXISTS position (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			code VARCHAR(20) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL DEFAULT '',
			cost_price FLOAT NOT NULL,
			shares FLOAT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		-- Durable price cache
		CREATE TABLE IF NOT EXISTS price_cache (
			code VARCHAR(20) NOT NULL PRIMARY KEY,
			price FLOAT NOT NULL,
			updated_at DATETIME NOT NULL
		);

		-- Singleton snapshot slot
		CREATE TABLE IF NOT EXISTS portfolio_cache (
			key VARCHAR(20) NOT NULL PRIMARY KEY,
			payload TEXT NOT NULL,
			computed_at DATETIME NOT NULL
		);

		-- Provider credentials
		CREATE TABLE IF NOT EXISTS provider_config (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			token_encrypted TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`

	_, err := db.Exec(schema)
	return err
}
