// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Comments serves the per-article comment endpoints.
type Comments struct {
	comments *store.CommentStore
	articles *store.ArticleStore
	users    *store.UserStore
}

// NewComments creates the comment handler group.
func NewComments(comments *store.CommentStore, articles *store.ArticleStore, users *store.UserStore) *Comments {
	return &Comments{comments: comments, articles: articles, users: users}
}

// findArticle resolves the slug URL parameter, rendering a 404 on miss.
func (h *Comments) findArticle(w http.ResponseWriter, r *http.Request) *models.Article {
	slug := chi.URLParam(r, "slug")
	a, err := h.articles.FindBySlug(slug)
	if err != nil {
		slog.Error("find article", "slug", slug, "error", err)
		renderError(w, r, err)
		return nil
	}
	if a == nil {
		renderError(w, r, &store.NotFoundError{Entity: "article", Key: slug})
		return nil
	}
	return a
}

// List handles GET /api/articles/{slug}/comments, oldest first.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	a := h.findArticle(w, r)
	if a == nil {
		return
	}

	items, err := h.comments.ListByArticle(a.ID)
	if err != nil {
		slog.Error("list comments", "slug", a.Slug, "error", err)
		renderError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Comment{}
	}
	render.JSON(w, r, map[string]any{"comments": items})
}

// commentRequest is the body for POST /api/articles/{slug}/comments.
type commentRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

// Create handles POST /api/articles/{slug}/comments.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	a := h.findArticle(w, r)
	if a == nil {
		return
	}

	var req commentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderMissingParam(w, r, "body")
		return
	}
	if req.Author == "" {
		renderMissingParam(w, r, "author")
		return
	}

	author, err := h.users.FindByUsername(req.Author)
	if err != nil {
		slog.Error("find author", "username", req.Author, "error", err)
		renderError(w, r, err)
		return
	}
	if author == nil {
		renderError(w, r, &store.NotFoundError{Entity: "user", Key: req.Author})
		return
	}

	c, err := h.comments.Add(a.ID, author.ID, req.Body)
	if err != nil {
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, c)
}

// Delete handles DELETE /api/articles/{slug}/comments/{id}?requester=
// <username>. Only the comment's author may delete it.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderError(w, r, &store.NotFoundError{Entity: "comment", Key: chi.URLParam(r, "id")})
		return
	}

	username := r.URL.Query().Get("requester")
	if username == "" {
		renderMissingParam(w, r, "requester")
		return
	}

	requester, err := h.users.FindByUsername(username)
	if err != nil {
		slog.Error("find requester", "username", username, "error", err)
		renderError(w, r, err)
		return
	}
	if requester == nil {
		renderError(w, r, &store.NotFoundError{Entity: "user", Key: username})
		return
	}

	if err := h.comments.Delete(commentID, requester.ID); err != nil {
		renderError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
