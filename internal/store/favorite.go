// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// FavoriteStore is the ledger of (user, article) favorite facts. It is the
// only writer of articles.favorites_count: the counter moves by exactly one
// in the same transaction that creates or deletes a ledger row, so the two
// are never observed apart.
type FavoriteStore struct {
	db *sql.DB
}

// NewFavoriteStore creates a new FavoriteStore with the given database
// connection.
func NewFavoriteStore(db *sql.DB) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Favorite records that the user favorited the article and increments the
// article's counter, atomically. Favoriting an article twice is idempotent:
// the (user_id, article_id) primary key absorbs the duplicate insert and
// the counter is left alone. Two concurrent calls for the same pair resolve
// the same way — the loser's insert affects zero rows, so only one
// increment ever happens.
func (s *FavoriteStore) Favorite(userID, articleID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO favorites (user_id, article_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, article_id) DO NOTHING
	`, userID, articleID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &NotFoundError{Entity: "article", Key: articleID.String()}
		}
		return fmt.Errorf("insert favorite: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("favorite rows affected: %w", err)
	}
	if n == 0 {
		// Already favorited — nothing to count.
		return nil
	}

	// Atomic SQL arithmetic, not read-modify-write: the row lock taken by
	// the update serializes concurrent counter movement on this article.
	if _, err := tx.Exec(`
		UPDATE articles SET favorites_count = favorites_count + 1 WHERE id = $1
	`, articleID); err != nil {
		return fmt.Errorf("increment favorites count: %w", err)
	}

	return tx.Commit()
}

// Unfavorite removes the user's favorite of the article and decrements the
// counter, atomically. Unfavoriting an article that was never favorited is
// a no-op, and the counter is clamped so it can never go negative.
func (s *FavoriteStore) Unfavorite(userID, articleID uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		DELETE FROM favorites WHERE user_id = $1 AND article_id = $2
	`, userID, articleID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("unfavorite rows affected: %w", err)
	}
	if n == 0 {
		// No ledger row existed — nothing to uncount.
		return nil
	}

	if _, err := tx.Exec(`
		UPDATE articles
		SET favorites_count = GREATEST(favorites_count - 1, 0)
		WHERE id = $1
	`, articleID); err != nil {
		return fmt.Errorf("decrement favorites count: %w", err)
	}

	return tx.Commit()
}

// IsFavorited reports whether the user currently favorites the article.
func (s *FavoriteStore) IsFavorited(userID, articleID uuid.UUID) (bool, error) {
	var favorited bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM favorites WHERE user_id = $1 AND article_id = $2
		)
	`, userID, articleID).Scan(&favorited)
	if err != nil {
		return false, fmt.Errorf("is favorited: %w", err)
	}
	return favorited, nil
}

// Count returns the live number of ledger rows for the article. The
// article's cached favorites_count must always equal this value.
func (s *FavoriteStore) Count(articleID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM favorites WHERE article_id = $1
	`, articleID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return count, nil
}

// Recount rewrites the article's counter from the ledger. A consistency
// backstop for operators, not part of the normal write path.
func (s *FavoriteStore) Recount(articleID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE articles
		SET favorites_count = (
			SELECT COUNT(*) FROM favorites WHERE article_id = articles.id
		)
		WHERE id = $1
	`, articleID)
	if err != nil {
		return fmt.Errorf("recount favorites: %w", err)
	}
	return nil
}

// RecountAll rewrites every article's counter from the ledger and returns
// the number of articles whose counter actually changed.
func (s *FavoriteStore) RecountAll() (int64, error) {
	res, err := s.db.Exec(`
		UPDATE articles
		SET favorites_count = live.n
		FROM (
			SELECT a.id, COUNT(f.article_id) AS n
			FROM articles a
			LEFT JOIN favorites f ON f.article_id = a.id
			GROUP BY a.id
		) AS live
		WHERE articles.id = live.id AND articles.favorites_count <> live.n
	`)
	if err != nil {
		return 0, fmt.Errorf("recount all favorites: %w", err)
	}
	return res.RowsAffected()
}
