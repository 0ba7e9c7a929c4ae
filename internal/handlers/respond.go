// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API over the article engine. The
// surrounding platform handles authentication; requests arrive here with
// the acting user already identified by username.
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"inkwell/internal/store"
)

// errResponse is the JSON body for all error replies.
type errResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// renderError maps the store error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal error; the wrapped detail goes to the
// log via the caller, never to the client.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *store.ValidationError
		notFound   *store.NotFoundError
		conflict   *store.ConflictError
		forbidden  *store.AuthorizationError
		dependency *store.DependencyError
	)

	switch {
	case errors.As(err, &validation):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errResponse{Error: validation.Error(), Fields: validation.Fields})
	case errors.As(err, &notFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, errResponse{Error: notFound.Error()})
	case errors.As(err, &conflict):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, errResponse{Error: conflict.Error()})
	case errors.As(err, &forbidden):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, errResponse{Error: forbidden.Error()})
	case errors.As(err, &dependency):
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, errResponse{Error: dependency.Error()})
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errResponse{Error: "internal error"})
	}
}

// renderMissingParam reports a required query or body parameter that the
// caller left out.
func renderMissingParam(w http.ResponseWriter, r *http.Request, name string) {
	renderError(w, r, &store.ValidationError{Fields: []string{name}})
}
