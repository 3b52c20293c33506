// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package production implements the production panel of the admin dashboard:
// extraction records grouped into monthly totals.
package production

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"github.com/vetasur/minepanel/internal/panel"
	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/validate"
	"github.com/vetasur/minepanel/internal/upstream"
)

// API is the slice of the upstream client this panel consumes.
type API interface {
	List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)
	Create(ctx context.Context, resource string, payload any) (json.RawMessage, error)
	Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource string, id int64) error
}

// Record is one extraction record as the API serves it.
type Record struct {
	ID           int64             `json:"id"`
	Project      *int64            `json:"project"`
	ProjectName  string            `json:"project_name"`
	Employee     *int64            `json:"employee"`
	EmployeeName string            `json:"employee_name"`
	Date         string            `json:"date"`
	MaterialType string            `json:"material_type"`
	Quantity     upstream.Quantity `json:"quantity"`
	Unit         string            `json:"unit"`
	Quality      string            `json:"quality"`
	Observations string            `json:"observations"`
}

// Input is the create/update payload accepted from the dashboard.
type Input struct {
	Project      *int64            `json:"project"`
	Employee     *int64            `json:"employee"`
	Date         string            `json:"date"`
	MaterialType string            `json:"material_type"`
	Quantity     upstream.Quantity `json:"quantity"`
	Unit         string            `json:"unit"`
	Quality      string            `json:"quality"`
	Observations string            `json:"observations"`
}

// Filter narrows the listed records. Project, Month and Employee are
// forwarded to the mining API as query parameters; Query and Material are
// applied gateway-side on the fetched rows.
type Filter struct {
	Query    string
	Material string
	Project  string
	Month    string
	Employee string
}

// upstreamQuery builds the query values the mining API filters on.
func (filter Filter) upstreamQuery() url.Values {
	query := url.Values{}
	if filter.Project != "" {
		query.Set("project", filter.Project)
	}
	if filter.Month != "" {
		query.Set("month", filter.Month)
	}
	if filter.Employee != "" {
		query.Set("employee", filter.Employee)
	}
	if len(query) == 0 {
		return nil
	}
	return query
}

// Option is one entry of the employee select on the record form.
type Option struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// MonthBucket is one bar of the monthly chart. Month is the English month
// name, which is how buckets are keyed.
type MonthBucket struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}

// Summary aggregates the filtered records.
type Summary struct {
	Total        float64       `json:"total"`
	Monthly      []MonthBucket `json:"monthly"`
	PeakMonth    string        `json:"peak_month"`
	PeakTotal    float64       `json:"peak_total"`
	MonthlyMean  float64       `json:"monthly_mean"`
	RecordsCount int           `json:"records_count"`
}

// ListResult is the filtered collection plus its aggregates.
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

// List fetches every record, applies the filter and groups the result into
// month buckets ordered by first appearance. Records whose dates do not
// parse are kept in the table but excluded from the chart.
func (service *Service) List(ctx context.Context, filter Filter) (ListResult, error) {
	raws, err := service.api.List(ctx, upstream.ResourceProductionRecords, filter.upstreamQuery())
	if err != nil {
		return ListResult{}, err
	}

	filtered := make([]Record, 0, len(raws))
	for _, raw := range raws {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			service.logger.Warn("production_record_skipped", slog.Any("error", err))
			continue
		}
		if !record.matches(filter) {
			continue
		}
		filtered = append(filtered, record)
	}

	return ListResult{Records: filtered, Summary: summarize(filtered)}, nil
}

func (service *Service) Create(ctx context.Context, input Input) (json.RawMessage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return service.api.Create(ctx, upstream.ResourceProductionRecords, input)
}

func (service *Service) Update(ctx context.Context, id int64, input Input) (json.RawMessage, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return service.api.Update(ctx, upstream.ResourceProductionRecords, id, input)
}

// Employees lists the users holding the EMPLOYEE role, feeding the employee
// select of the record form.
func (service *Service) Employees(ctx context.Context) ([]Option, error) {
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
			service.logger.Warn("production_employee_skipped", slog.Any("error", err))
			continue
		}
		if user.Role != "EMPLOYEE" {
			continue
		}
		options = append(options, Option{ID: user.ID, Username: user.Username})
	}
	return options, nil
}

// Delete removes a record. Without confirmation no upstream request is made.
func (service *Service) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperr.ConfirmationRequired("delete the production record")
	}
	return service.api.Delete(ctx, upstream.ResourceProductionRecords, id)
}

func summarize(records []Record) Summary {
	summary := Summary{RecordsCount: len(records)}

	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, record := range records {
		summary.Total += float64(record.Quantity)

		month, ok := monthOf(record.Date)
		if !ok {
			continue
		}
		if _, seen := totals[month]; !seen {
			order = append(order, month)
		}
		totals[month] += float64(record.Quantity)
	}

	for _, month := range order {
		bucket := MonthBucket{Month: month, Total: totals[month]}
		summary.Monthly = append(summary.Monthly, bucket)
		if bucket.Total > summary.PeakTotal {
			summary.PeakTotal = bucket.Total
			summary.PeakMonth = bucket.Month
		}
	}

	// Divide by one when no bucket exists so the mean stays a number.
	divisor := len(order)
	if divisor == 0 {
		divisor = 1
	}
	summary.MonthlyMean = summary.Total / float64(divisor)

	return summary
}

// monthOf returns the English month name of an ISO date.
func monthOf(date string) (string, bool) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", false
	}
	return parsed.Month().String(), true
}

func (record Record) matches(filter Filter) bool {
	return panel.MatchesQuery(filter.Query, record.ProjectName, record.EmployeeName, record.MaterialType) &&
		panel.MatchesExact(filter.Material, record.MaterialType)
}

func (input Input) validate() error {
	return validate.New().
		Required("date", input.Date).
		Required("material_type", input.MaterialType).
		Required("unit", input.Unit).
		Check(input.Quantity >= 0, "quantity", "quantity must not be negative").
		Err()
}
