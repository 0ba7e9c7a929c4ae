// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Profiles serves author profiles and the follow relation.
type Profiles struct {
	users *store.UserStore
}

// NewProfiles creates the profile handler group.
func NewProfiles(users *store.UserStore) *Profiles {
	return &Profiles{users: users}
}

// profilePayload is the wire shape for a user as seen by a viewer.
type profilePayload struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio,omitempty"`
	Image     *string `json:"image,omitempty"`
	Following bool    `json:"following"`
}

// findUser resolves a username, rendering a 404 on miss.
func (h *Profiles) findUser(w http.ResponseWriter, r *http.Request, username string) *models.User {
	u, err := h.users.FindByUsername(username)
	if err != nil {
		slog.Error("find user", "username", username, "error", err)
		renderError(w, r, err)
		return nil
	}
	if u == nil {
		renderError(w, r, &store.NotFoundError{Entity: "user", Key: username})
		return nil
	}
	return u
}

// Get handles GET /api/profiles/{username}?viewer=<username>. The viewer is
// optional; when present the response carries whether they follow the
// profile.
func (h *Profiles) Get(w http.ResponseWriter, r *http.Request) {
	u := h.findUser(w, r, chi.URLParam(r, "username"))
	if u == nil {
		return
	}

	following := false
	if viewer := r.URL.Query().Get("viewer"); viewer != "" {
		v := h.findUser(w, r, viewer)
		if v == nil {
			return
		}
		var err error
		following, err = h.users.IsFollowing(v.ID, u.ID)
		if err != nil {
			renderError(w, r, err)
			return
		}
	}

	render.JSON(w, r, profilePayload{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	})
}

// followRequest is the body for POST /api/profiles/{username}/follow.
type followRequest struct {
	Follower string `json:"follower"`
}

// Follow handles POST /api/profiles/{username}/follow. Following twice is
// idempotent.
func (h *Profiles) Follow(w http.ResponseWriter, r *http.Request) {
	var req followRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Follower == "" {
		renderMissingParam(w, r, "follower")
		return
	}
	h.setFollow(w, r, req.Follower, true)
}

// Unfollow handles DELETE /api/profiles/{username}/follow?follower=
// <username>. Unfollowing someone never followed is a no-op.
func (h *Profiles) Unfollow(w http.ResponseWriter, r *http.Request) {
	follower := r.URL.Query().Get("follower")
	if follower == "" {
		renderMissingParam(w, r, "follower")
		return
	}
	h.setFollow(w, r, follower, false)
}

func (h *Profiles) setFollow(w http.ResponseWriter, r *http.Request, followerName string, follow bool) {
	followee := h.findUser(w, r, chi.URLParam(r, "username"))
	if followee == nil {
		return
	}
	follower := h.findUser(w, r, followerName)
	if follower == nil {
		return
	}

	var err error
	if follow {
		err = h.users.Follow(follower.ID, followee.ID)
	} else {
		err = h.users.Unfollow(follower.ID, followee.ID)
	}
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.JSON(w, r, profilePayload{
		Username:  followee.Username,
		Bio:       followee.Bio,
		Image:     followee.Image,
		Following: follow,
	})
}
