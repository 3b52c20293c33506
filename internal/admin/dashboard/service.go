// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

/*
Package dashboard implements the admin landing view: one summary card row
computed from four upstream collections.

The four fetches run concurrently and the assembled summary is cached. When
a later request finds the upstream down, the panel serves the last cached
summary instead of an empty card row; commits to the cache are ordered by a
fetch guard so a slow older cycle cannot overwrite a newer one.
*/
package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/vetasur/minepanel/internal/panel"
	"github.com/vetasur/minepanel/internal/upstream"
)

// API is the slice of the upstream client this panel consumes.
type API interface {
	List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)
}

// Summary is the admin card row.
type Summary struct {
	ActiveProjects  int       `json:"active_projects"`
	Personnel       int       `json:"personnel"`
	MonthProduction float64   `json:"month_production"`
	Reports         int       `json:"reports"`
	GeneratedAt     time.Time `json:"generated_at"`
	Stale           bool      `json:"stale"`
}

// Service computes and caches the summary.
type Service struct {
	api    API
	logger *slog.Logger
	now    func() time.Time

	guard panel.FetchGuard

	mu     sync.Mutex
	cached *Summary
}

// NewService constructs the dashboard [Service].
func NewService(api API, logger *slog.Logger) *Service {
	return &Service{api: api, logger: logger, now: time.Now}
}

// Summary assembles the card row. On upstream failure the last cached
// summary is returned, marked stale; with no cache the error surfaces.
func (service *Service) Summary(ctx context.Context) (Summary, error) {
	ticket := service.guard.Begin()

	summary, err := service.compute(ctx)
	if err != nil {
		if cached := service.lastCached(); cached != nil {
			service.logger.Warn("dashboard_summary_served_stale", slog.Any("error", err))
			stale := *cached
			stale.Stale = true
			return stale, nil
		}
		return Summary{}, err
	}

	service.commit(ticket, summary)
	return summary, nil
}

func (service *Service) compute(ctx context.Context) (Summary, error) {
	type fetchResult struct {
		resource string
		records  []json.RawMessage
		err      error
	}

	resources := []string{
		upstream.ResourceProjects,
		upstream.ResourceUsers,
		upstream.ResourceProductionRecords,
		upstream.ResourceReports,
	}

	results := make(chan fetchResult, len(resources))
	var wg sync.WaitGroup
	for _, resource := range resources {
		wg.Add(1)
		go func(resource string) {
			defer wg.Done()
			records, err := service.api.List(ctx, resource, nil)
			results <- fetchResult{resource: resource, records: records, err: err}
		}(resource)
	}
	wg.Wait()
	close(results)

	collected := make(map[string][]json.RawMessage, len(resources))
	for result := range results {
		if result.err != nil {
			return Summary{}, result.err
		}
		collected[result.resource] = result.records
	}

	summary := Summary{GeneratedAt: service.now()}
	summary.ActiveProjects = countActiveProjects(collected[upstream.ResourceProjects])
	summary.Personnel = len(collected[upstream.ResourceUsers])
	summary.MonthProduction = service.currentMonthProduction(collected[upstream.ResourceProductionRecords])
	summary.Reports = len(collected[upstream.ResourceReports])
	return summary, nil
}

func countActiveProjects(raws []json.RawMessage) int {
	active := 0
	for _, raw := range raws {
		var record struct {
			Status string `json:"status"`
		}
		if json.Unmarshal(raw, &record) != nil {
			continue
		}
		if record.Status == "Activo" {
			active++
		}
	}
	return active
}

// currentMonthProduction sums quantities of records dated in the current
// calendar month.
func (service *Service) currentMonthProduction(raws []json.RawMessage) float64 {
	now := service.now()
	total := 0.0
	for _, raw := range raws {
		var record struct {
			Date     string            `json:"date"`
			Quantity upstream.Quantity `json:"quantity"`
		}
		if json.Unmarshal(raw, &record) != nil {
			continue
		}
		date, err := time.Parse("2006-01-02", record.Date)
		if err != nil {
			continue
		}
		if date.Year() == now.Year() && date.Month() == now.Month() {
			total += float64(record.Quantity)
		}
	}
	return total
}

func (service *Service) commit(ticket uint64, summary Summary) {
	if !service.guard.Current(ticket) {
		return
	}
	service.mu.Lock()
	service.cached = &summary
	service.mu.Unlock()
}

func (service *Service) lastCached() *Summary {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.cached
}
