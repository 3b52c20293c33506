// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package accesslog implements the access-control panel: entry and exit
// registrations of personnel at the mine portals.
package accesslog

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

// Movement directions as the mining API spells them.
const (
	TypeEntry = "ENTRADA"
	TypeExit  = "SALIDA"
)

// API is the slice of the upstream client this panel consumes.
type API interface {
	List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)
	Create(ctx context.Context, resource string, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource string, id int64) error
}

// Record is one access movement as the API serves it.
type Record struct {
	ID           int64  `json:"id"`
	Employee     int64  `json:"employee"`
	EmployeeName string `json:"employee_name"`
	AccessType   string `json:"access_type"`
	Timestamp    string `json:"timestamp"`
	Area         string `json:"area"`
	HealthStatus string `json:"health_status_or_rfc"`
	Notes        string `json:"notes"`
}

// Input registers a new movement.
type Input struct {
	Employee     int64  `json:"employee"`
	AccessType   string `json:"access_type"`
	Area         string `json:"area"`
	HealthStatus string `json:"health_status_or_rfc"`
	Notes        string `json:"notes"`
}

// Filter narrows the listed movements.
type Filter struct {
	Query      string
	AccessType string
}

// Summary counts movements by direction over the filtered rows.
type Summary struct {
	Total   int `json:"total"`
	Entries int `json:"entries"`
	Exits   int `json:"exits"`
}

// ListResult is the filtered collection plus its counters.
type ListResult struct {
	Logs    []Record `json:"logs"`
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
	raws, err := service.api.List(ctx, upstream.ResourceAccessLogs, nil)
	if err != nil {
		return ListResult{}, err
	}

	filtered := make([]Record, 0, len(raws))
	summary := Summary{}
	for _, raw := range raws {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			service.logger.Warn("access_log_skipped", slog.Any("error", err))
			continue
		}
		if !record.matches(filter) {
			continue
		}
		filtered = append(filtered, record)
		summary.Total++
		switch record.AccessType {
		case TypeEntry:
			summary.Entries++
		case TypeExit:
			summary.Exits++
		}
	}

	return ListResult{Logs: filtered, Summary: summary}, nil
}

// Register records a movement at a portal.
func (service *Service) Register(ctx context.Context, input Input) (json.RawMessage, error) {
	v := validate.New().
		Check(input.Employee > 0, "employee", "employee is required").
		Required("access_type", input.AccessType).
		OneOf("access_type", input.AccessType, TypeEntry, TypeExit).
		Required("area", input.Area)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return service.api.Create(ctx, upstream.ResourceAccessLogs, input)
}

// Delete removes a movement. Without confirmation no upstream request is made.
func (service *Service) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperr.ConfirmationRequired("delete the access log entry")
	}
	return service.api.Delete(ctx, upstream.ResourceAccessLogs, id)
}

func (record Record) matches(filter Filter) bool {
	return panel.MatchesQuery(filter.Query, record.EmployeeName, record.Area) &&
		panel.MatchesExact(filter.AccessType, record.AccessType)
}
