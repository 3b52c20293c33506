// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package gas implements the gas measurement registry of the supervisor
// dashboard.
package gas

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

// Measurement states as the mining API spells them.
const (
	StateNormal  = "Normal"
	StateWarning = "Advertencia"
	StateDanger  = "Peligro"
)

// API is the slice of the upstream client this panel consumes.
type API interface {
	List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)
	Create(ctx context.Context, resource string, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource string, id int64) error
}

// Record is one gas measurement as the API serves it.
type Record struct {
	ID             int64             `json:"id"`
	Date           string            `json:"date"`
	Time           string            `json:"time"`
	Location       string            `json:"location"`
	GasType        string            `json:"gas_type"`
	Level          upstream.Quantity `json:"level"`
	Unit           string            `json:"unit"`
	Status         string            `json:"status"`
	RecordedBy     *int64            `json:"recorded_by"`
	RecordedByName string            `json:"recorded_by_name"`
	Observations   string            `json:"observations"`
}

// Input registers a new measurement.
type Input struct {
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Location     string            `json:"location"`
	GasType      string            `json:"gas_type"`
	Level        upstream.Quantity `json:"level"`
	Unit         string            `json:"unit"`
	Status       string            `json:"status"`
	Observations string            `json:"observations"`
}

// Filter narrows the listed measurements.
type Filter struct {
	Query  string
	Status string
}

// Summary counts measurements by severity over the filtered rows.
type Summary struct {
	Total    int `json:"total"`
	Warnings int `json:"warnings"`
	Danger   int `json:"danger"`
}

// ListResult is the filtered collection plus its counters.
type ListResult struct {
	Records []Record `json:"records"`
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

func (service *Service) List(ctx context.Context, filter Filter) (ListResult, error) {
	raws, err := service.api.List(ctx, upstream.ResourceGasRecords, nil)
	if err != nil {
		return ListResult{}, err
	}

	filtered := make([]Record, 0, len(raws))
	summary := Summary{}
	for _, raw := range raws {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			service.logger.Warn("gas_record_skipped", slog.Any("error", err))
			continue
		}
		if !record.matches(filter) {
			continue
		}
		filtered = append(filtered, record)
		summary.Total++
		switch record.Status {
		case StateWarning:
			summary.Warnings++
		case StateDanger:
			summary.Danger++
		}
	}

	return ListResult{Records: filtered, Summary: summary}, nil
}

// Register records a measurement.
func (service *Service) Register(ctx context.Context, input Input) (json.RawMessage, error) {
	v := validate.New().
		Required("date", input.Date).
		Required("location", input.Location).
		Required("gas_type", input.GasType).
		Required("unit", input.Unit).
		OneOf("status", input.Status, StateNormal, StateWarning, StateDanger).
		Check(input.Level >= 0, "level", "level must not be negative")
	if err := v.Err(); err != nil {
		return nil, err
	}
	return service.api.Create(ctx, upstream.ResourceGasRecords, input)
}

// Delete removes a measurement. Without confirmation no upstream request is made.
func (service *Service) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperr.ConfirmationRequired("delete the gas record")
	}
	return service.api.Delete(ctx, upstream.ResourceGasRecords, id)
}

func (record Record) matches(filter Filter) bool {
	return panel.MatchesQuery(filter.Query, record.Location, record.GasType, record.RecordedByName) &&
		panel.MatchesExact(filter.Status, record.Status)
}
