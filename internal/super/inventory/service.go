// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package inventory implements the consumables inventory panel of the
// supervisor dashboard.
package inventory

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
const ExportFilename = "inventario_actual.csv"

// Stock condition states as the mining API spells them.
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

// Record is one inventory item as the API serves it.
type Record struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Quantity    upstream.Quantity `json:"quantity"`
	Unit        string            `json:"unit"`
	Location    string            `json:"location"`
	LastUpdated string            `json:"last_updated"`
	Status      string            `json:"status"`
}

// Input is the create/update payload accepted from the dashboard.
type Input struct {
	Name     string            `json:"name"`
	Quantity upstream.Quantity `json:"quantity"`
	Unit     string            `json:"unit"`
	Location string            `json:"location"`
	Status   string            `json:"status"`
}

// Filter narrows the listed collection.
type Filter struct {
	Query  string
	Status string
}

// Summary counts stock conditions over the filtered rows. Regular and Bad
// feed the warning banner.
type Summary struct {
	Total   int `json:"total"`
	Regular int `json:"regular"`
	Bad     int `json:"bad"`
}

// ListResult is the filtered collection plus its counters.
type ListResult struct {
	Items   []Record `json:"items"`
	Summary Summary  `json:"summary"`
}

// Service implements the panel operations.
type Service struct {
	api    API
	logger *slog.Logger
}

// NewService constructs the inventory [Service].
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
		switch record.Status {
		case StateRegular:
			summary.Regular++
		case StateBad:
			summary.Bad++
		}
	}

	return ListResult{Items: filtered, Summary: summary}, nil
}

func (service *Service) Create(ctx context.Context, input Input) (json.RawMessage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return service.api.Create(ctx, upstream.ResourceInventoryItems, input)
}

func (service *Service) Update(ctx context.Context, id int64, input Input) (json.RawMessage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return service.api.Update(ctx, upstream.ResourceInventoryItems, id, input)
}

// Delete removes an item. Without confirmation no upstream request is made.
func (service *Service) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperr.ConfirmationRequired("delete the inventory item")
	}
	return service.api.Delete(ctx, upstream.ResourceInventoryItems, id)
}

// ExportCSV serializes the filtered rows.
func (service *Service) ExportCSV(ctx context.Context, filter Filter) ([]byte, error) {
	result, err := service.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	header := []string{"Material", "Cantidad", "Unidad", "Ubicación", "Última Actualización", "Estado"}
	rows := make([][]string, 0, len(result.Items))
	for _, record := range result.Items {
		rows = append(rows, []string{
			record.Name,
			panel.FormatAmount(float64(record.Quantity)),
			record.Unit,
			record.Location,
			record.LastUpdated,
			record.Status,
		})
	}
	return panel.CSVDocument(header, rows)
}

func (service *Service) fetch(ctx context.Context) ([]Record, error) {
	raws, err := service.api.List(ctx, upstream.ResourceInventoryItems, nil)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			service.logger.Warn("inventory_record_skipped", slog.Any("error", err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (record Record) matches(filter Filter) bool {
	return panel.MatchesQuery(filter.Query, record.Name, record.Location, record.Unit) &&
		panel.MatchesExact(filter.Status, record.Status)
}

func (input Input) validate() error {
	return validate.New().
		Required("name", input.Name).
		Required("unit", input.Unit).
		OneOf("status", input.Status, StateGood, StateRegular, StateBad).
		Check(input.Quantity >= 0, "quantity", "quantity must not be negative").
		Err()
}
