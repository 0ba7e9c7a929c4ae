// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/authz"
	"inkwell/internal/models"
)

// CommentStore owns comments scoped to an article. Deleting a comment
// consults the authorization policy; deleting an article removes its
// comments through the article store's cascade.
type CommentStore struct {
	db     *sql.DB
	policy authz.Policy
}

// NewCommentStore creates a new CommentStore with the given database
// connection and authorization policy.
func NewCommentStore(db *sql.DB, policy authz.Policy) *CommentStore {
	return &CommentStore{db: db, policy: policy}
}

const commentColumns = `id, article_id, author_id, body, created_at, updated_at`

// scanComment scans a row into a Comment struct.
func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.ArticleID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Add attaches a comment to an article. An empty body fails validation;
// an unknown article yields a NotFoundError.
func (s *CommentStore) Add(articleID, authorID uuid.UUID, body string) (*models.Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, &ValidationError{Fields: []string{"body"}}
	}

	row := s.db.QueryRow(`
		INSERT INTO comments (article_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING `+commentColumns,
		articleID, authorID, body,
	)
	c, err := scanComment(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, &NotFoundError{Entity: "article", Key: articleID.String()}
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

// ListByArticle returns an article's comments, oldest first.
func (s *CommentStore) ListByArticle(articleID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments
		WHERE article_id = $1
		ORDER BY created_at ASC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Delete removes a comment after checking the requester against the
// authorization policy. A policy failure surfaces as a DependencyError;
// a refusal as an AuthorizationError.
func (s *CommentStore) Delete(commentID, requesterID uuid.UUID) error {
	var authorID uuid.UUID
	err := s.db.QueryRow(`SELECT author_id FROM comments WHERE id = $1`, commentID).Scan(&authorID)
	if err == sql.ErrNoRows {
		return &NotFoundError{Entity: "comment", Key: commentID.String()}
	}
	if err != nil {
		return fmt.Errorf("find comment for delete: %w", err)
	}

	ok, err := s.policy.CanDelete(requesterID, authorID)
	if err != nil {
		return &DependencyError{Dependency: "authorization provider", Err: err}
	}
	if !ok {
		return &AuthorizationError{Resource: "comment", Key: commentID.String()}
	}

	if _, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
