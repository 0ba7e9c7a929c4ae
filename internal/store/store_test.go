// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Reset goose global state so other packages can migrate too.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user with a unique username and registers
// cleanup. Deleting the user cascades to their articles, comments,
// favorites, and follows, so per-entity cleanup is rarely needed.
func createTestUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	name := "test-user-" + uuid.NewString()[:8]
	u, err := NewUserStore(db).Create(name, name+"@test.local", "pw-"+name)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM users WHERE id = $1", u.ID) })
	return u
}

// createTestArticle inserts an article for the given author and registers
// cleanup by slug.
func createTestArticle(t *testing.T, db *sql.DB, authorID uuid.UUID, title string, tags ...string) *models.Article {
	t.Helper()

	s := NewArticleStore(db, NewTagStore(db))
	a, err := s.Create(authorID, title, "a description", "a body", tags)
	if err != nil {
		t.Fatalf("create test article: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM articles WHERE id = $1", a.ID) })
	return a
}

// cleanTags removes test tag rows by name. Tag rows survive article
// deletion on purpose, so tests that create tags register this.
func cleanTags(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec("DELETE FROM tags WHERE name = $1", name)
	}
}

// countRows returns the number of rows in table matching column = id.
func countRows(t *testing.T, db *sql.DB, table, column string, id uuid.UUID) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE "+column+" = $1", id).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
