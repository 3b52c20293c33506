// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package workfront implements the work-fronts panel: the active excavation
// faces, their crews and their progress.
package workfront

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"

	"github.com/vetasur/minepanel/internal/panel"
	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/validate"
	"github.com/vetasur/minepanel/internal/upstream"
)

// Front states as the mining API spells them.
const (
	StateActive   = "ACTIVO"
	StatePaused   = "PAUSADO"
	StateFinished = "FINALIZADO"
	StatePlanned  = "PLANIFICADO"
)

// API is the slice of the upstream client this panel consumes.
type API interface {
	List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)
	Create(ctx context.Context, resource string, payload any) (json.RawMessage, error)
	Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource string, id int64) error
}

// Record is one work front as the API serves it.
type Record struct {
	ID               int64             `json:"id"`
	Name             string            `json:"name"`
	Location         string            `json:"location"`
	Status           string            `json:"status"`
	StartDate        string            `json:"start_date"`
	EstimatedEndDate string            `json:"estimated_end_date"`
	Workers          int               `json:"workers"`
	Description      string            `json:"description"`
	Progress         upstream.Quantity `json:"progress"`
	Project          *int64            `json:"project"`
	ProjectName      string            `json:"project_name"`
	Supervisor       *int64            `json:"supervisor"`
	SupervisorName   string            `json:"supervisor_name"`
}

// Input is the create/update payload accepted from the dashboard.
type Input struct {
	Name             string            `json:"name"`
	Location         string            `json:"location"`
	Status           string            `json:"status"`
	StartDate        string            `json:"start_date"`
	EstimatedEndDate string            `json:"estimated_end_date"`
	Workers          int               `json:"workers"`
	Description      string            `json:"description"`
	Progress         upstream.Quantity `json:"progress"`
	Project          *int64            `json:"project"`
	Supervisor       *int64            `json:"supervisor"`
}

// Filter narrows the listed fronts.
type Filter struct {
	Query  string
	Status string
}

// Summary aggregates the filtered fronts.
type Summary struct {
	Total           int     `json:"total"`
	Active          int     `json:"active"`
	Workers         int     `json:"workers"`
	AverageProgress float64 `json:"average_progress"`
}

// ListResult is the filtered collection plus its aggregates.
type ListResult struct {
	Fronts  []Record `json:"fronts"`
	Summary Summary  `json:"summary"`
}

// Service implements the panel operations.
type Service struct {
	api    API
	logger *slog.Logger
}

func NewService(api API, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// List fetches every front and applies the filter. Average progress divides
// by the filtered row count, or by one when nothing matched, so an empty
// table reads as zero progress rather than a NaN.
func (service *Service) List(ctx context.Context, filter Filter) (ListResult, error) {
	raws, err := service.api.List(ctx, upstream.ResourceWorkFronts, nil)
	if err != nil {
		return ListResult{}, err
	}

	filtered := make([]Record, 0, len(raws))
	summary := Summary{}
	progressSum := 0.0
	for _, raw := range raws {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			service.logger.Warn("work_front_skipped", slog.Any("error", err))
			continue
		}
		if !record.matches(filter) {
			continue
		}
		filtered = append(filtered, record)
		summary.Total++
		summary.Workers += record.Workers
		progressSum += float64(record.Progress)
		if record.Status == StateActive {
			summary.Active++
		}
	}

	divisor := summary.Total
	if divisor == 0 {
		divisor = 1
	}
	summary.AverageProgress = progressSum / float64(divisor)

	return ListResult{Fronts: filtered, Summary: summary}, nil
}

func (service *Service) Create(ctx context.Context, input Input) (json.RawMessage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return service.api.Create(ctx, upstream.ResourceWorkFronts, input)
}

func (service *Service) Update(ctx context.Context, id int64, input Input) (json.RawMessage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return service.api.Update(ctx, upstream.ResourceWorkFronts, id, input)
}

// Delete removes a front. Without confirmation no upstream request is made.
func (service *Service) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperr.ConfirmationRequired("delete the work front")
	}
	return service.api.Delete(ctx, upstream.ResourceWorkFronts, id)
}

func (record Record) matches(filter Filter) bool {
	return panel.MatchesQuery(filter.Query, record.Name, record.Location, record.SupervisorName) &&
		panel.MatchesExact(filter.Status, record.Status)
}

func (input Input) validate() error {
	return validate.New().
		Required("name", input.Name).
		Required("location", input.Location).
		OneOf("status", input.Status, StateActive, StatePaused, StateFinished, StatePlanned).
		Check(input.Workers >= 0, "workers", "workers must not be negative").
		Check(input.Progress >= 0 && input.Progress <= 100, "progress", "progress must be between 0 and 100").
		Err()
}
