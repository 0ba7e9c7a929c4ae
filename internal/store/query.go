// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"iter"

	"inkwell/internal/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so store helpers can
// run inside or outside a transaction.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

const articleColumns = `id, slug, title, description, body, favorites_count, author_id, created_at, updated_at`

// scanArticle scans a row into an Article struct.
func scanArticle(scanner interface{ Scan(...any) error }) (*models.Article, error) {
	var a models.Article
	err := scanner.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body,
		&a.FavoritesCount, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ArticleQuery describes a deferred article read query. Building one touches
// nothing; the SQL runs only when All or Each is called, and every call
// re-executes it against the current state of the store, so the sequence is
// restartable and always reflects a fresh snapshot.
type ArticleQuery struct {
	db    querier
	query string
	args  []any
}

// Each returns an iterator over the query results. Iteration stops early if
// the yield function returns false; any query or scan failure is yielded as
// the final element's error.
func (q *ArticleQuery) Each() iter.Seq2[models.Article, error] {
	return func(yield func(models.Article, error) bool) {
		rows, err := q.db.Query(q.query, q.args...)
		if err != nil {
			yield(models.Article{}, fmt.Errorf("article query: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanArticle(rows)
			if err != nil {
				yield(models.Article{}, fmt.Errorf("scan article: %w", err))
				return
			}
			if !yield(*a, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Article{}, fmt.Errorf("article rows: %w", err))
		}
	}
}

// All materializes the query results into a slice.
func (q *ArticleQuery) All() ([]models.Article, error) {
	var items []models.Article
	for a, err := range q.Each() {
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, nil
}
