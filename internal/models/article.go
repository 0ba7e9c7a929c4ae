// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is the aggregate root of the publishing core. The slug is derived
// from the title at creation and never changes afterwards, so published URLs
// stay stable across edits.
//
// FavoritesCount is a counter cache: it always equals the number of favorite
// rows referencing this article. It is maintained transactionally by the
// favorite store and must never be written independently.
type Article struct {
	ID             uuid.UUID `json:"id"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Body           string    `json:"body"`
	FavoritesCount int       `json:"favoritesCount"`
	AuthorID       uuid.UUID `json:"authorId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
