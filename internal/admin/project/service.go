// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package project implements the projects panel of the admin dashboard.
package project

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

// ExportFilename is the fixed name of the CSV download.
const ExportFilename = "proyectos.csv"

// Project states as the mining API spells them.
const (
	StateActive   = "Activo"
	StatePaused   = "Pausado"
	StateFinished = "Finalizado"
)

// API is the slice of the upstream client this panel consumes.
type API interface {
	List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)
	Create(ctx context.Context, resource string, payload any) (json.RawMessage, error)
	Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource string, id int64) error
}

// Record is one project as the API serves it.
type Record struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	Description string `json:"description"`
	Manager     *int64 `json:"manager"`
	ManagerName string `json:"manager_name"`
	Status      string `json:"status"`
}

// Input is the create/update payload accepted from the dashboard.
type Input struct {
	Name        string `json:"name"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	Description string `json:"description"`
	Manager     *int64 `json:"manager"`
	Status      string `json:"status"`
}

// Filter narrows the listed projects.
type Filter struct {
	Query  string
	Status string
}

// Summary counts projects by state over the filtered rows.
type Summary struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// ListResult is the filtered collection plus its counters.
type ListResult struct {
	Projects []Record `json:"projects"`
	Summary  Summary  `json:"summary"`
}

// Service implements the panel operations.
type Service struct {
	api    API
	logger *slog.Logger
}

func NewService(api API, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

func (service *Service) List(ctx context.Context, filter Filter) (ListResult, error) {
	records, err := service.fetch(ctx)
	if err != nil {
		return ListResult{}, err
	}

	filtered := make([]Record, 0, len(records))
	summary := Summary{}
	for _, record := range records {
		if !record.matches(filter) {
			continue
		}
		filtered = append(filtered, record)
		summary.Total++
		if record.Status == StateActive {
			summary.Active++
		}
	}

	return ListResult{Projects: filtered, Summary: summary}, nil
}

func (service *Service) Create(ctx context.Context, input Input) (json.RawMessage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return service.api.Create(ctx, upstream.ResourceProjects, input)
}

func (service *Service) Update(ctx context.Context, id int64, input Input) (json.RawMessage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return service.api.Update(ctx, upstream.ResourceProjects, id, input)
}

// Option is one entry of the manager select on the project form.
type Option struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Supervisors lists the users holding the SUPERVISOR role, feeding the
// manager select of the project form.
func (service *Service) Supervisors(ctx context.Context) ([]Option, error) {
	raws, err := service.api.List(ctx, upstream.ResourceUsers, nil)
	if err != nil {
		return nil, err
	}

	options := make([]Option, 0, len(raws))
	for _, raw := range raws {
		var user struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
			Role     string `json:"role"`
		}
		if err := json.Unmarshal(raw, &user); err != nil {
			service.logger.Warn("project_supervisor_skipped", slog.Any("error", err))
			continue
		}
		if user.Role != "SUPERVISOR" {
			continue
		}
		options = append(options, Option{ID: user.ID, Username: user.Username})
	}
	return options, nil
}

// Delete removes a project. Without confirmation no upstream request is made.
func (service *Service) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperr.ConfirmationRequired("delete the project")
	}
	return service.api.Delete(ctx, upstream.ResourceProjects, id)
}

// ExportCSV serializes the filtered rows.
func (service *Service) ExportCSV(ctx context.Context, filter Filter) ([]byte, error) {
	result, err := service.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	header := []string{"Nombre", "Ubicación", "Fecha de Inicio", "Encargado", "Estado"}
	rows := make([][]string, 0, len(result.Projects))
	for _, record := range result.Projects {
		rows = append(rows, []string{
			record.Name,
			record.Location,
			record.StartDate,
			record.ManagerName,
			record.Status,
		})
	}
	return panel.CSVDocument(header, rows)
}

func (service *Service) fetch(ctx context.Context) ([]Record, error) {
	raws, err := service.api.List(ctx, upstream.ResourceProjects, nil)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			service.logger.Warn("project_record_skipped", slog.Any("error", err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (record Record) matches(filter Filter) bool {
	return panel.MatchesQuery(filter.Query, record.Name, record.Location, record.ManagerName) &&
		panel.MatchesExact(filter.Status, record.Status)
}

func (input Input) validate() error {
	return validate.New().
		Required("name", input.Name).
		Required("location", input.Location).
		Required("start_date", input.StartDate).
		OneOf("status", input.Status, StateActive, StatePaused, StateFinished).
		Err()
}
