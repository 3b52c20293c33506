// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vetasur/minepanel/internal/platform/respond"
)

// Handler exposes the dashboard summary over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the panel under /dashboard.
func (handler *Handler) Routes(router chi.Router) {
	router.Get("/dashboard", handler.summary)
}

func (handler *Handler) summary(w http.ResponseWriter, r *http.Request) {
	summary, err := handler.service.Summary(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, r, summary)
}
