// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// The store reports failures through a small typed taxonomy so callers can
// map them to user-facing responses without string matching. Everything else
// is wrapped with fmt.Errorf and treated as an internal error.

// ValidationError reports missing or invalid required fields.
// It is never retried automatically.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// NotFoundError reports that a slug or id matched no row.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// ConflictError reports a uniqueness violation that could not be resolved,
// such as a slug that stayed taken across retries. Favorite-pair conflicts
// are absorbed as idempotent no-ops and never surface as this type.
type ConflictError struct {
	Entity string
	Key    string
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Key)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// AuthorizationError reports a failed ownership check.
type AuthorizationError struct {
	Resource string
	Key      string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not allowed to modify %s %q", e.Resource, e.Key)
}

// DependencyError reports that a collaborator (follow relation,
// authorization provider) was unreachable or failed. The store never
// silently degrades results when a collaborator fails.
type DependencyError struct {
	Dependency string
	Err        error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency %s failed: %v", e.Dependency, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Postgres error codes for constraint violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// isForeignKeyViolation reports whether err is a Postgres foreign key
// violation, meaning a referenced row does not exist.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
