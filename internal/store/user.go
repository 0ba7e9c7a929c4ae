// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
)

// UserStore handles identity records and the follow relation. The article
// core consumes it as its follow provider: query failures from the follow
// methods surface as DependencyError so feed callers are never silently
// handed degraded results.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, email, password_hash, bio, image, created_at, updated_at`

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Bio, &u.Image, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user with a bcrypt-hashed password. A taken
// username or email yields a ConflictError.
func (s *UserStore) Create(username, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		username, email, string(hash),
	)
	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Entity: "user", Key: username, Err: err}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// FindByUsername retrieves a user by username. Returns nil if not found.
func (s *UserStore) FindByUsername(username string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Follow records a directed follow edge. Following twice is idempotent;
// an unknown user on either end yields a NotFoundError.
func (s *UserStore) Follow(followerID, followeeID uuid.UUID) error {
	_, err := s.db.Exec(`
		INSERT INTO follows (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followee_id) DO NOTHING
	`, followerID, followeeID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &NotFoundError{Entity: "user", Key: followeeID.String()}
		}
		return fmt.Errorf("insert follow: %w", err)
	}
	return nil
}

// Unfollow removes a follow edge. Unfollowing someone never followed is a
// no-op.
func (s *UserStore) Unfollow(followerID, followeeID uuid.UUID) error {
	_, err := s.db.Exec(`
		DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2
	`, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

// IsFollowing reports whether the reader follows the author.
func (s *UserStore) IsFollowing(readerID, authorID uuid.UUID) (bool, error) {
	var following bool
	err := s.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2
		)
	`, readerID, authorID).Scan(&following)
	if err != nil {
		return false, &DependencyError{Dependency: "follow relation", Err: err}
	}
	return following, nil
}

// FollowedAuthorIDs returns the set of users the reader follows.
func (s *UserStore) FollowedAuthorIDs(readerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.Query(`
		SELECT followee_id FROM follows WHERE follower_id = $1
	`, readerID)
	if err != nil {
		return nil, &DependencyError{Dependency: "follow relation", Err: err}
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan followee id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, &DependencyError{Dependency: "follow relation", Err: err}
	}
	return ids, nil
}
