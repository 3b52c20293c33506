// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package tool implements the tool inventory panel of the supervisor
// dashboard: the tools/ collection with search, state filtering, attention
// counters and CSV export.
package tool

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/vetasur/minepanel/internal/panel"
	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/validate"
	"github.com/vetasur/minepanel/internal/upstream"
)

// ExportFilename is the fixed name of the CSV download.
const ExportFilename = "inventario_herramientas.csv"

// Tool states as the mining API spells them.
const (
	StateGood    = "Bueno"
	StateRegular = "Regular"
	StateBad     = "Malo"
)

// API is the slice of the upstream client this panel consumes.
type API interface {
	List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)
	Create(ctx context.Context, resource string, payload any) (json.RawMessage, error)
	Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource string, id int64) error
}

// Record is one tool as the API serves it.
type Record struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Description    string            `json:"description"`
	Quantity       upstream.Quantity `json:"quantity"`
	Status         string            `json:"status"`
	LastRevision   string            `json:"last_revision_date"`
	Location       string            `json:"location"`
	Observations   string            `json:"observations"`
	AssignedTo     *int64            `json:"assigned_to"`
	AssignedToName string            `json:"assigned_to_name"`
}

// Input is the create/update payload accepted from the dashboard.
type Input struct {
	Name         string            `json:"name"`
	Category     string            `json:"category"`
	Description  string            `json:"description"`
	Quantity     upstream.Quantity `json:"quantity"`
	Status       string            `json:"status"`
	LastRevision string            `json:"last_revision_date"`
	Location     string            `json:"location"`
	Observations string            `json:"observations"`
	AssignedTo   *int64            `json:"assigned_to"`
}

// Filter narrows the listed collection. Matching happens in the gateway,
// after the full collection is fetched.
type Filter struct {
	Query  string
	Status string
}

// Summary counts the tools that need attention.
type Summary struct {
	Total   int `json:"total"`
	Regular int `json:"regular"`
	Bad     int `json:"bad"`
}

// ListResult is the filtered collection plus its counters.
type ListResult struct {
	Tools   []Record `json:"tools"`
	Summary Summary  `json:"summary"`
}

// Service implements the panel operations.
type Service struct {
	api    API
	logger *slog.Logger
}

// NewService constructs the tool [Service].
func NewService(api API, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// List fetches every tool and applies the filter. The attention counters
// cover the whole collection, so the warning banner does not disappear just
// because the current search excludes the affected tools.
func (service *Service) List(ctx context.Context, filter Filter) (ListResult, error) {
	records, err := service.fetch(ctx)
	if err != nil {
		return ListResult{}, err
	}

	filtered := make([]Record, 0, len(records))
	summary := Summary{}
	for _, record := range records {
		switch record.Status {
		case StateRegular:
			summary.Regular++
		case StateBad:
			summary.Bad++
		}
		if !record.matches(filter) {
			continue
		}
		filtered = append(filtered, record)
		summary.Total++
	}

	return ListResult{Tools: filtered, Summary: summary}, nil
}

// Create validates the input and posts it to the API.
func (service *Service) Create(ctx context.Context, input Input) (json.RawMessage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return service.api.Create(ctx, upstream.ResourceTools, input)
}

// Update validates the input and replaces the identified tool.
func (service *Service) Update(ctx context.Context, id int64, input Input) (json.RawMessage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return service.api.Update(ctx, upstream.ResourceTools, id, input)
}

// Delete removes a tool. Without confirmation no upstream request is made.
func (service *Service) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperr.ConfirmationRequired("delete the tool")
	}
	return service.api.Delete(ctx, upstream.ResourceTools, id)
}

// ExportCSV serializes the filtered collection, not the full one: what the
// table shows is what the file holds.
func (service *Service) ExportCSV(ctx context.Context, filter Filter) ([]byte, error) {
	result, err := service.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	header := []string{"ID", "Nombre", "Categoría", "Descripción", "Cantidad", "Estado", "Fecha Última Revisión", "Ubicación", "Encargado", "Observaciones"}
	rows := make([][]string, 0, len(result.Tools))
	for _, record := range result.Tools {
		rows = append(rows, []string{
			strconv.FormatInt(record.ID, 10),
			record.Name,
			record.Category,
			record.Description,
			panel.FormatAmount(float64(record.Quantity)),
			record.Status,
			record.LastRevision,
			record.Location,
			record.AssignedToName,
			record.Observations,
		})
	}
	return panel.CSVDocument(header, rows)
}

func (service *Service) fetch(ctx context.Context) ([]Record, error) {
	raws, err := service.api.List(ctx, upstream.ResourceTools, nil)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			service.logger.Warn("tool_record_skipped", slog.Any("error", err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (record Record) matches(filter Filter) bool {
	return panel.MatchesQuery(filter.Query, record.Name, record.Category, record.Location, record.AssignedToName) &&
		panel.MatchesExact(filter.Status, record.Status)
}

func (input Input) validate() error {
	return validate.New().
		Required("name", input.Name).
		Required("category", input.Category).
		OneOf("status", input.Status, StateGood, StateRegular, StateBad).
		Check(input.Quantity >= 0, "quantity", "quantity must not be negative").
		Err()
}
