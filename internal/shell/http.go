// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package shell

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vetasur/minepanel/internal/platform/ctxutil"
	"github.com/vetasur/minepanel/internal/platform/respond"
)

// defaultViewportWidth is assumed when the client does not report one.
const defaultViewportWidth = 1280

// Handler exposes the shell state over HTTP.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Routes mounts the shell endpoint.
func (handler *Handler) Routes(router chi.Router) {
	router.Get("/shell", handler.state)
}

// State is the payload of GET /shell.
type State struct {
	Shell     Shell  `json:"shell"`
	ActiveTab string `json:"active_tab"`
	Layout    Layout `json:"layout"`
}

// state resolves the shell for the current session, normalizes the requested
// tab against its navigation and picks the layout from the reported width.
func (handler *Handler) state(w http.ResponseWriter, r *http.Request) {
	sess := ctxutil.GetSession(r.Context())
	resolved := For(sess)

	query := r.URL.Query()
	width := defaultViewportWidth
	if parsed, err := strconv.Atoi(query.Get("width")); err == nil && parsed > 0 {
		width = parsed
	}

	respond.OK(w, r, State{
		Shell:     resolved,
		ActiveTab: resolved.Normalize(query.Get("tab")),
		Layout:    LayoutFor(width),
	})
}
