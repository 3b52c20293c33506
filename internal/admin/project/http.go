// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package project

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vetasur/minepanel/internal/panel"
	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/respond"
)

// Handler exposes the projects panel over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the panel under /projects.
func (handler *Handler) Routes(router chi.Router) {
	router.Route("/projects", func(r chi.Router) {
		r.Get("/", handler.list)
		r.Get("/supervisors", handler.supervisors)
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
		r.Get("/export", handler.export)
	})
}

func filterFromRequest(r *http.Request) Filter {
	query := r.URL.Query()
	return Filter{
		Query:  query.Get("q"),
		Status: query.Get("status"),
	}
}

func (handler *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := handler.service.List(r.Context(), filterFromRequest(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, r, result)
}

func (handler *Handler) supervisors(w http.ResponseWriter, r *http.Request) {
	options, err := handler.service.Supervisors(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, r, options)
}

func (handler *Handler) create(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, r, apperr.ValidationError("Request body must be valid JSON"))
		return
	}

	created, err := handler.service.Create(r.Context(), input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, r, created)
}

func (handler *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := panel.URLParamID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, r, apperr.ValidationError("Request body must be valid JSON"))
		return
	}

	updated, err := handler.service.Update(r.Context(), id, input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, r, updated)
}

func (handler *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := panel.URLParamID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	if err := handler.service.Delete(r.Context(), id, panel.Confirmed(r)); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.NoContent(w, r)
}

func (handler *Handler) export(w http.ResponseWriter, r *http.Request) {
	document, err := handler.service.ExportCSV(r.Context(), filterFromRequest(r))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.CSV(w, r, ExportFilename, document)
}
