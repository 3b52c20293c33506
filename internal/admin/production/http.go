// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package production

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vetasur/minepanel/internal/panel"
	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/respond"
)

// Handler exposes the production panel over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the panel under /production-records.
func (handler *Handler) Routes(router chi.Router) {
	router.Route("/production-records", func(r chi.Router) {
		r.Get("/", handler.list)
		r.Get("/employees", handler.employees)
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})
}

func (handler *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := Filter{
		Query:    query.Get("q"),
		Material: query.Get("material"),
		Project:  query.Get("project"),
		Month:    query.Get("month"),
		Employee: query.Get("employee"),
	}

	result, err := handler.service.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, r, result)
}

func (handler *Handler) employees(w http.ResponseWriter, r *http.Request) {
	options, err := handler.service.Employees(r.Context())
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
