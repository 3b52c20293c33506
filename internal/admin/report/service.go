// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package report implements the reports panel of the admin dashboard:
// listing generated documents, requesting new ones and proxying downloads.
package report

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/url"

	"github.com/vetasur/minepanel/internal/panel"
	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/validate"
	"github.com/vetasur/minepanel/internal/upstream"
)

// Report types the upstream can generate.
const (
	TypeProduction = "production"
	TypePersonnel  = "personnel"
	TypeProject    = "project"
)

// API is the slice of the upstream client this panel consumes.
type API interface {
	List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)
	GenerateReport(ctx context.Context, payload any) (json.RawMessage, error)
	DownloadReport(ctx context.Context, id int64) (io.ReadCloser, string, error)
	Delete(ctx context.Context, resource string, id int64) error
}

// Record is one generated report as the API serves it.
type Record struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Date    string `json:"date"`
	FileURL string `json:"file_url"`
}

// GenerateInput requests a new report document. An empty Project means every
// project.
type GenerateInput struct {
	ReportType string `json:"report_type"`
	Project    string `json:"project"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// Filter narrows the listed reports.
type Filter struct {
	Query string
	Type  string
}

// ListResult is the filtered collection plus its count.
type ListResult struct {
	Reports []Record `json:"reports"`
	Total   int      `json:"total"`
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
	raws, err := service.api.List(ctx, upstream.ResourceReports, nil)
	if err != nil {
		return ListResult{}, err
	}

	filtered := make([]Record, 0, len(raws))
	for _, raw := range raws {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			service.logger.Warn("report_record_skipped", slog.Any("error", err))
			continue
		}
		if !record.matches(filter) {
			continue
		}
		filtered = append(filtered, record)
	}

	return ListResult{Reports: filtered, Total: len(filtered)}, nil
}

// Generate asks the upstream to produce a new document.
func (service *Service) Generate(ctx context.Context, input GenerateInput) (json.RawMessage, error) {
	v := validate.New().
		Required("report_type", input.ReportType).
		OneOf("report_type", input.ReportType, TypeProduction, TypePersonnel, TypeProject)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return service.api.GenerateReport(ctx, input)
}

// Download streams the report file from the upstream. The caller owns the
// reader and must close it.
func (service *Service) Download(ctx context.Context, id int64) (io.ReadCloser, string, error) {
	return service.api.DownloadReport(ctx, id)
}

// Delete removes a report. Without confirmation no upstream request is made.
func (service *Service) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperr.ConfirmationRequired("delete the report")
	}
	return service.api.Delete(ctx, upstream.ResourceReports, id)
}

func (record Record) matches(filter Filter) bool {
	return panel.MatchesQuery(filter.Query, record.Name) &&
		panel.MatchesExact(filter.Type, record.Type)
}
