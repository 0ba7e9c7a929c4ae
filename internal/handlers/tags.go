// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"inkwell/internal/store"
)

// Tags serves the tag listing endpoint.
type Tags struct {
	tags *store.TagStore
}

// NewTags creates the tag handler group.
func NewTags(tags *store.TagStore) *Tags {
	return &Tags{tags: tags}
}

// List handles GET /api/tags: every tag in use, most used first.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	names, err := h.tags.List()
	if err != nil {
		slog.Error("list tags", "error", err)
		renderError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	render.JSON(w, r, map[string]any{"tags": names})
}
