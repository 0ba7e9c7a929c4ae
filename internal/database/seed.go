package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: two users,
// a follow edge between them, and a pair of tagged articles. It is a
// no-op when any users already exist.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var adaID, bobID string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash, bio)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, "ada", "ada@inkwell.local", string(hash), "Writes about compilers.").Scan(&adaID)
	if err != nil {
		return fmt.Errorf("seed insert ada: %w", err)
	}

	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`, "bob", "bob@inkwell.local", string(hash)).Scan(&bobID)
	if err != nil {
		return fmt.Errorf("seed insert bob: %w", err)
	}

	// bob follows ada, so ada's articles show up in bob's feed.
	if _, err := db.Exec(`
		INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)
	`, bobID, adaID); err != nil {
		return fmt.Errorf("seed insert follow: %w", err)
	}

	articles := []struct {
		slug, title, description, body string
		tags                           []string
	}{
		{
			slug:        "hello-world",
			title:       "Hello World",
			description: "A first post.",
			body:        "Welcome to Inkwell.",
			tags:        []string{"welcome", "meta"},
		},
		{
			slug:        "notes-on-parsers",
			title:       "Notes on Parsers",
			description: "Recursive descent, mostly.",
			body:        "Start with the grammar.",
			tags:        []string{"compilers"},
		},
	}

	for _, a := range articles {
		var articleID string
		err := db.QueryRow(`
			INSERT INTO articles (slug, title, description, body, author_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, a.slug, a.title, a.description, a.body, adaID).Scan(&articleID)
		if err != nil {
			return fmt.Errorf("seed insert article %s: %w", a.slug, err)
		}

		for _, tag := range a.tags {
			if _, err := db.Exec(`
				INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING
			`, tag); err != nil {
				return fmt.Errorf("seed insert tag %s: %w", tag, err)
			}
			if _, err := db.Exec(`
				INSERT INTO taggings (article_id, tag_id)
				SELECT $1, id FROM tags WHERE name = $2
			`, articleID, tag); err != nil {
				return fmt.Errorf("seed insert tagging %s: %w", tag, err)
			}
		}
	}

	slog.Info("database seeded with development data",
		"users", []string{"ada", "bob"},
		"articles", len(articles),
	)

	return nil
}
