// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vetasur/minepanel/internal/panel"
	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/ctxutil"
	"github.com/vetasur/minepanel/internal/platform/respond"
)

// Handler exposes the reports panel over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the panel under /reports.
func (handler *Handler) Routes(router chi.Router) {
	router.Route("/reports", func(r chi.Router) {
		r.Get("/", handler.list)
		r.Post("/generate", handler.generate)
		r.Get("/{id}/download", handler.download)
		r.Delete("/{id}", handler.delete)
	})
}

func (handler *Handler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := Filter{
		Query: query.Get("q"),
		Type:  query.Get("type"),
	}

	result, err := handler.service.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.OK(w, r, result)
}

func (handler *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var input GenerateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respond.Error(w, r, apperr.ValidationError("Request body must be valid JSON"))
		return
	}

	created, err := handler.service.Generate(r.Context(), input)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.Created(w, r, created)
}

func (handler *Handler) download(w http.ResponseWriter, r *http.Request) {
	id, err := panel.URLParamID(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	body, contentType, err := handler.service.Download(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	filename := fmt.Sprintf("reporte_%d.pdf", id)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		ctxutil.GetLogger(r.Context()).Error("report_stream_failed", slog.Any("error", err))
	}
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
