// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Articles serves the article CRUD, tag filter, feed, and favorite
// endpoints.
type Articles struct {
	articles  *store.ArticleStore
	tags      *store.TagStore
	favorites *store.FavoriteStore
	users     *store.UserStore
	cache     *cache.ArticleCache
}

// NewArticles creates the article handler group.
func NewArticles(articles *store.ArticleStore, tags *store.TagStore, favorites *store.FavoriteStore, users *store.UserStore, articleCache *cache.ArticleCache) *Articles {
	return &Articles{
		articles:  articles,
		tags:      tags,
		favorites: favorites,
		users:     users,
		cache:     articleCache,
	}
}

// articlePayload is an article plus its tag list, the wire shape for every
// article response.
type articlePayload struct {
	models.Article
	TagList []string `json:"tagList"`
}

// payload builds the wire shape for an article, attaching its tags.
func (h *Articles) payload(a *models.Article) (*articlePayload, error) {
	tagList, err := h.tags.TagsOf(a.ID)
	if err != nil {
		return nil, err
	}
	if tagList == nil {
		tagList = []string{}
	}
	return &articlePayload{Article: *a, TagList: tagList}, nil
}

// payloadList builds the wire shape for a list of articles.
func (h *Articles) payloadList(items []models.Article) ([]articlePayload, error) {
	payloads := make([]articlePayload, 0, len(items))
	for i := range items {
		p, err := h.payload(&items[i])
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, *p)
	}
	return payloads, nil
}

// listResponse wraps article collections.
type listResponse struct {
	Articles      []articlePayload `json:"articles"`
	ArticlesCount int              `json:"articlesCount"`
}

// List handles GET /api/articles. With ?tag= it filters to articles
// carrying that tag; otherwise it returns all articles, newest first.
func (h *Articles) List(w http.ResponseWriter, r *http.Request) {
	q := h.articles.ListRecent()
	if tag := r.URL.Query().Get("tag"); tag != "" {
		q = h.articles.TaggedWith(tag)
	}

	items, err := q.All()
	if err != nil {
		slog.Error("list articles", "error", err)
		renderError(w, r, err)
		return
	}

	payloads, err := h.payloadList(items)
	if err != nil {
		slog.Error("build article payloads", "error", err)
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, listResponse{Articles: payloads, ArticlesCount: len(payloads)})
}

// Feed handles GET /api/articles/feed?reader=<username>: articles authored
// by users the reader follows, newest first.
func (h *Articles) Feed(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("reader")
	if username == "" {
		renderMissingParam(w, r, "reader")
		return
	}

	reader, err := h.users.FindByUsername(username)
	if err != nil {
		slog.Error("find reader", "username", username, "error", err)
		renderError(w, r, err)
		return
	}
	if reader == nil {
		renderError(w, r, &store.NotFoundError{Entity: "user", Key: username})
		return
	}

	items, err := h.articles.FeedFor(reader.ID).All()
	if err != nil {
		slog.Error("feed query", "reader", username, "error", err)
		renderError(w, r, err)
		return
	}

	payloads, err := h.payloadList(items)
	if err != nil {
		slog.Error("build feed payloads", "error", err)
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, listResponse{Articles: payloads, ArticlesCount: len(payloads)})
}

// createRequest is the body for POST /api/articles.
type createRequest struct {
	Author      string   `json:"author"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Body        string   `json:"body"`
	TagList     []string `json:"tagList"`
}

// Create handles POST /api/articles.
func (h *Articles) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
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

	a, err := h.articles.Create(author.ID, req.Title, req.Description, req.Body, req.TagList)
	if err != nil {
		renderError(w, r, err)
		return
	}

	p, err := h.payload(a)
	if err != nil {
		slog.Error("build article payload", "slug", a.Slug, "error", err)
		renderError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, p)
}

// Get handles GET /api/articles/{slug}, consulting the Valkey cache before
// the database.
func (h *Articles) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	a, hit := h.cache.Get(r.Context(), slug)
	if !hit {
		var err error
		a, err = h.articles.FindBySlug(slug)
		if err != nil {
			slog.Error("find article", "slug", slug, "error", err)
			renderError(w, r, err)
			return
		}
		if a == nil {
			renderError(w, r, &store.NotFoundError{Entity: "article", Key: slug})
			return
		}
		h.cache.Set(r.Context(), a)
	}

	p, err := h.payload(a)
	if err != nil {
		slog.Error("build article payload", "slug", slug, "error", err)
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, p)
}

// updateRequest is the body for PUT /api/articles/{slug}. Absent fields are
// left unchanged.
type updateRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Body        *string   `json:"body"`
	TagList     *[]string `json:"tagList"`
}

// Update handles PUT /api/articles/{slug}. The slug itself never changes.
func (h *Articles) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req updateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderMissingParam(w, r, "body")
		return
	}

	a, err := h.articles.Update(slug, store.UpdateArticleParams{
		Title:       req.Title,
		Description: req.Description,
		Body:        req.Body,
		TagList:     req.TagList,
	})
	if err != nil {
		renderError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), slug)

	p, err := h.payload(a)
	if err != nil {
		slog.Error("build article payload", "slug", slug, "error", err)
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, p)
}

// Delete handles DELETE /api/articles/{slug}, removing the article and all
// its comments, favorites, and taggings.
func (h *Articles) Delete(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if err := h.articles.Delete(slug); err != nil {
		renderError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), slug)
	render.NoContent(w, r)
}

// favoriteRequest is the body for POST /api/articles/{slug}/favorite.
type favoriteRequest struct {
	User string `json:"user"`
}

// Favorite handles POST /api/articles/{slug}/favorite. Favoriting twice is
// idempotent.
func (h *Articles) Favorite(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.User == "" {
		renderMissingParam(w, r, "user")
		return
	}
	h.setFavorite(w, r, req.User, true)
}

// Unfavorite handles DELETE /api/articles/{slug}/favorite?user=<username>.
// Unfavoriting an article never favorited is a no-op.
func (h *Articles) Unfavorite(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("user")
	if username == "" {
		renderMissingParam(w, r, "user")
		return
	}
	h.setFavorite(w, r, username, false)
}

// setFavorite resolves the user and article, applies the favorite or
// unfavorite, invalidates the cached article, and responds with the fresh
// counter value.
func (h *Articles) setFavorite(w http.ResponseWriter, r *http.Request, username string, favorite bool) {
	slug := chi.URLParam(r, "slug")

	user, err := h.users.FindByUsername(username)
	if err != nil {
		slog.Error("find user", "username", username, "error", err)
		renderError(w, r, err)
		return
	}
	if user == nil {
		renderError(w, r, &store.NotFoundError{Entity: "user", Key: username})
		return
	}

	a, err := h.articles.FindBySlug(slug)
	if err != nil {
		slog.Error("find article", "slug", slug, "error", err)
		renderError(w, r, err)
		return
	}
	if a == nil {
		renderError(w, r, &store.NotFoundError{Entity: "article", Key: slug})
		return
	}

	if favorite {
		err = h.favorites.Favorite(user.ID, a.ID)
	} else {
		err = h.favorites.Unfavorite(user.ID, a.ID)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), slug)

	// Re-read so the response carries the post-write counter.
	a, err = h.articles.FindBySlug(slug)
	if err != nil {
		slog.Error("reload article after favorite", "slug", slug, "error", err)
		renderError(w, r, err)
		return
	}
	if a == nil {
		// Deleted between the write and the re-read.
		renderError(w, r, &store.NotFoundError{Entity: "article", Key: slug})
		return
	}

	p, err := h.payload(a)
	if err != nil {
		slog.Error("build article payload", "slug", slug, "error", err)
		renderError(w, r, err)
		return
	}
	render.JSON(w, r, p)
}
