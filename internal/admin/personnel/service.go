// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package personnel implements the personnel panel of the admin dashboard:
// the user roster plus account registration.
package personnel

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

// API is the slice of the upstream client this panel consumes.
type API interface {
	List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error)
	Register(ctx context.Context, payload any) (json.RawMessage, error)
	Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, resource string, id int64) error
}

// Record is one user as the API serves it.
type Record struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	IDNumber      string `json:"id_number"`
	Phone         string `json:"phone"`
	FingerprintID string `json:"fingerprint_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
}

// RegisterInput is the account-creation payload. The password confirmation
// is checked in the gateway; a mismatch never reaches the network.
type RegisterInput struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Password2     string `json:"password2"`
	Role          string `json:"role"`
	IDNumber      string `json:"id_number"`
	Phone         string `json:"phone"`
	FingerprintID string `json:"fingerprint_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
}

// UpdateInput edits an existing account. Passwords are not changed here.
type UpdateInput struct {
	Email         string `json:"email"`
	Role          string `json:"role"`
	IDNumber      string `json:"id_number"`
	Phone         string `json:"phone"`
	FingerprintID string `json:"fingerprint_id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
}

// Filter narrows the listed roster.
type Filter struct {
	Query string
	Role  string
}

// Summary counts the filtered roster by role.
type Summary struct {
	Total       int `json:"total"`
	Admins      int `json:"admins"`
	Supervisors int `json:"supervisors"`
	Employees   int `json:"employees"`
}

// ListResult is the filtered roster plus its counters.
type ListResult struct {
	Personnel []Record `json:"personnel"`
	Summary   Summary  `json:"summary"`
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
	raws, err := service.api.List(ctx, upstream.ResourceUsers, nil)
	if err != nil {
		return ListResult{}, err
	}

	filtered := make([]Record, 0, len(raws))
	summary := Summary{}
	for _, raw := range raws {
		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			service.logger.Warn("personnel_record_skipped", slog.Any("error", err))
			continue
		}
		if !record.matches(filter) {
			continue
		}
		filtered = append(filtered, record)
		summary.Total++
		switch record.Role {
		case "ADMIN":
			summary.Admins++
		case "SUPERVISOR":
			summary.Supervisors++
		case "EMPLOYEE":
			summary.Employees++
		}
	}

	return ListResult{Personnel: filtered, Summary: summary}, nil
}

// Register creates an account. All checks, the password confirmation
// included, run before anything leaves the gateway.
func (service *Service) Register(ctx context.Context, input RegisterInput) (json.RawMessage, error) {
	v := validate.New().
		Required("username", input.Username).
		Required("email", input.Email).
		Email("email", input.Email).
		Required("password", input.Password).
		MinLen("password", input.Password, 8).
		Match("password2", input.Password, input.Password2).
		OneOf("role", input.Role, "ADMIN", "SUPERVISOR", "EMPLOYEE").
		Required("id_number", input.IDNumber)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return service.api.Register(ctx, input)
}

func (service *Service) Update(ctx context.Context, id int64, input UpdateInput) (json.RawMessage, error) {
	v := validate.New().
		Email("email", input.Email).
		OneOf("role", input.Role, "ADMIN", "SUPERVISOR", "EMPLOYEE")
	if err := v.Err(); err != nil {
		return nil, err
	}
	return service.api.Update(ctx, upstream.ResourceUsers, id, input)
}

// Delete removes an account. Without confirmation no upstream request is made.
func (service *Service) Delete(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return apperr.ConfirmationRequired("delete the user account")
	}
	return service.api.Delete(ctx, upstream.ResourceUsers, id)
}

func (record Record) matches(filter Filter) bool {
	return panel.MatchesQuery(filter.Query,
		record.Username, record.FirstName, record.LastName, record.IDNumber, record.Email) &&
		panel.MatchesExact(filter.Role, record.Role)
}
