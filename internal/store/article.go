// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all Inkwell entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/slug"
)

// maxSlugAttempts bounds the create retry loop when the derived slug keeps
// colliding. The first attempt uses the bare slug; later ones carry a random
// suffix, so two attempts usually settle it.
const maxSlugAttempts = 3

// ArticleStore is the aggregate root for articles. It owns slug assignment,
// validation, the cascading delete, and the composed read queries.
type ArticleStore struct {
	db   *sql.DB
	tags *TagStore
}

// NewArticleStore creates a new ArticleStore with the given database
// connection. Tag associations are managed through the provided TagStore.
func NewArticleStore(db *sql.DB, tags *TagStore) *ArticleStore {
	return &ArticleStore{db: db, tags: tags}
}

// Create validates the required fields, derives a unique slug from the
// title, and inserts the article together with its tag associations in one
// transaction. The new article starts with a favorites count of zero.
//
// If the derived slug is taken, a random-suffixed variant is tried; only
// when every attempt collides does the caller see a ConflictError.
func (s *ArticleStore) Create(authorID uuid.UUID, title, description, body string, tagList []string) (*models.Article, error) {
	var missing []string
	if strings.TrimSpace(title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(body) == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	base := slug.Generate(title)
	if base == "" {
		// Title was all punctuation; fall back to a bare token.
		base = slug.WithSuffix("")
	}

	candidate := base
	var lastErr error
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		a, err := s.insert(authorID, title, description, body, candidate, tagList)
		if err == nil {
			return a, nil
		}
		if isUniqueViolation(err) {
			// Slug taken, possibly by a concurrent create. Retry with a
			// fresh suffix in a new transaction.
			lastErr = err
			candidate = slug.WithSuffix(base)
			continue
		}
		if isForeignKeyViolation(err) {
			return nil, &NotFoundError{Entity: "author", Key: authorID.String()}
		}
		return nil, err
	}
	return nil, &ConflictError{Entity: "article slug", Key: base, Err: lastErr}
}

// insert runs one create attempt: article row plus taggings, atomically.
func (s *ArticleStore) insert(authorID uuid.UUID, title, description, body, slugStr string, tagList []string) (*models.Article, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		INSERT INTO articles (slug, title, description, body, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+articleColumns,
		slugStr, title, description, body, authorID,
	)
	a, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}

	if err := s.tags.SetTags(tx, a.ID, tagList); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create article: %w", err)
	}
	return a, nil
}

// UpdateArticleParams carries the mutable article attributes. Nil fields are
// left unchanged; the slug is immutable after creation so published URLs
// never break.
type UpdateArticleParams struct {
	Title       *string
	Description *string
	Body        *string
	TagList     *[]string
}

// Update modifies the article matching slugStr. Provided-but-empty required
// fields fail validation; an unknown slug yields a NotFoundError. A new tag
// list replaces the old one inside the same transaction.
func (s *ArticleStore) Update(slugStr string, p UpdateArticleParams) (*models.Article, error) {
	var invalid []string
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		invalid = append(invalid, "title")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		invalid = append(invalid, "description")
	}
	if p.Body != nil && strings.TrimSpace(*p.Body) == "" {
		invalid = append(invalid, "body")
	}
	if len(invalid) > 0 {
		return nil, &ValidationError{Fields: invalid}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`
		UPDATE articles SET
			title = COALESCE($1, title),
			description = COALESCE($2, description),
			body = COALESCE($3, body),
			updated_at = NOW()
		WHERE slug = $4
		RETURNING `+articleColumns,
		p.Title, p.Description, p.Body, slugStr,
	)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Entity: "article", Key: slugStr}
	}
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	if p.TagList != nil {
		if err := s.tags.SetTags(tx, a.ID, *p.TagList); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update article: %w", err)
	}
	return a, nil
}

// Delete removes the article matching slugStr together with its comments,
// favorites, and taggings as one transaction. Dependents go first so a
// partial failure can never leave orphans behind.
func (s *ArticleStore) Delete(slugStr string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var id uuid.UUID
	err = tx.QueryRow(`SELECT id FROM articles WHERE slug = $1`, slugStr).Scan(&id)
	if err == sql.ErrNoRows {
		return &NotFoundError{Entity: "article", Key: slugStr}
	}
	if err != nil {
		return fmt.Errorf("find article for delete: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM comments WHERE article_id = $1`, id); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM favorites WHERE article_id = $1`, id); err != nil {
		return fmt.Errorf("delete favorites: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM taggings WHERE article_id = $1`, id); err != nil {
		return fmt.Errorf("delete taggings: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM articles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	return tx.Commit()
}

// FindBySlug retrieves an article by its slug. Returns nil if not found.
func (s *ArticleStore) FindBySlug(slugStr string) (*models.Article, error) {
	row := s.db.QueryRow(`SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slugStr)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find article by slug: %w", err)
	}
	return a, nil
}

// TaggedWith returns a deferred query for all articles carrying the given
// tag, newest first. An unknown tag yields an empty sequence, not an error.
func (s *ArticleStore) TaggedWith(tag string) *ArticleQuery {
	return &ArticleQuery{
		db: s.db,
		query: `
			SELECT ` + prefixed("a", articleColumns) + `
			FROM articles a
			JOIN taggings tg ON tg.article_id = a.id
			JOIN tags t ON t.id = tg.tag_id
			WHERE t.name = $1
			ORDER BY a.created_at DESC
		`,
		args: []any{tag},
	}
}

// FeedFor returns a deferred query for the reader's feed: articles authored
// by the users they follow, newest first. It is a pure join over the follow
// relation — the reader's own articles appear only if they follow themself,
// and a reader following no one gets an empty sequence.
func (s *ArticleStore) FeedFor(readerID uuid.UUID) *ArticleQuery {
	return &ArticleQuery{
		db: s.db,
		query: `
			SELECT ` + prefixed("a", articleColumns) + `
			FROM articles a
			JOIN follows f ON f.followee_id = a.author_id
			WHERE f.follower_id = $1
			ORDER BY a.created_at DESC
		`,
		args: []any{readerID},
	}
}

// ListRecent returns a deferred query for all articles, newest first.
func (s *ArticleStore) ListRecent() *ArticleQuery {
	return &ArticleQuery{
		db:    s.db,
		query: `SELECT ` + articleColumns + ` FROM articles ORDER BY created_at DESC`,
	}
}

// prefixed qualifies each column in a comma-separated list with a table
// alias, for queries that join other tables.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
