// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package auth exposes the session lifecycle over HTTP: login, logout and
// the bootstrap endpoint the dashboard calls on every page load.
package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/respond"
	"github.com/vetasur/minepanel/internal/platform/validate"
	"github.com/vetasur/minepanel/internal/session"
	"github.com/vetasur/minepanel/internal/shell"
	"github.com/vetasur/minepanel/internal/upstream"
)

// Handler wires the auth endpoints.
type Handler struct {
	store        *session.Store
	api          *upstream.Client
	cookieName   string
	cookieTTL    time.Duration
	cookieSecure bool
}

// NewHandler constructs the auth [Handler].
func NewHandler(store *session.Store, api *upstream.Client, cookieName string, cookieTTL time.Duration, cookieSecure bool) *Handler {
	return &Handler{
		store:        store,
		api:          api,
		cookieName:   cookieName,
		cookieTTL:    cookieTTL,
		cookieSecure: cookieSecure,
	}
}

// Routes mounts the auth endpoints on the router.
func (handler *Handler) Routes(router chi.Router) {
	router.Post("/auth/login", handler.login)
	router.Post("/auth/logout", handler.logout)
	router.Get("/session", handler.bootstrap)
}

// Bootstrap is the payload of GET /session and of a successful login: the
// resolved identity (null when anonymous) and the shell it routes to.
type Bootstrap struct {
	Session *session.Session `json:"session"`
	Shell   shell.Shell      `json:"shell"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (handler *Handler) login(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respond.Error(w, r, apperr.ValidationError("Request body must be valid JSON"))
		return
	}

	v := validate.New().
		Required("username", request.Username).
		Required("password", request.Password)
	if err := v.Err(); err != nil {
		respond.Error(w, r, err)
		return
	}

	pair, err := handler.api.Login(r.Context(), request.Username, request.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	sid := newSessionID()
	sess, err := handler.store.Login(r.Context(), sid, pair.Access, pair.Refresh)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	handler.setCookie(w, sid, handler.cookieTTL)
	respond.OK(w, r, Bootstrap{Session: sess, Shell: shell.For(sess)})
}

func (handler *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(handler.cookieName); err == nil {
		if err := handler.store.SignOut(r.Context(), cookie.Value); err != nil {
			respond.Error(w, r, err)
			return
		}
	}

	// Expire the cookie regardless; logging out twice is not an error.
	handler.setCookie(w, "", -time.Second)
	respond.NoContent(w, r)
}

// bootstrap resolves the current session and, when it holds a refresh token,
// triggers the one silent refresh per dashboard load.
func (handler *Handler) bootstrap(w http.ResponseWriter, r *http.Request) {
	var sid string
	if cookie, err := r.Cookie(handler.cookieName); err == nil {
		sid = cookie.Value
	}

	sess, err := handler.store.Resume(r.Context(), sid)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.OK(w, r, Bootstrap{Session: sess, Shell: shell.For(sess)})
}

func (handler *Handler) setCookie(w http.ResponseWriter, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     handler.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}
