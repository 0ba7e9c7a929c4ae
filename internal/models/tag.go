// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag is a distinct string value. Tags are created implicitly the first time
// they are used and never garbage-collected; names are case-sensitive.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Favorite records that a user favorited an article. The (UserID, ArticleID)
// pair is unique; its lifecycle drives Article.FavoritesCount.
type Favorite struct {
	UserID    uuid.UUID `json:"userId"`
	ArticleID uuid.UUID `json:"articleId"`
	CreatedAt time.Time `json:"createdAt"`
}
