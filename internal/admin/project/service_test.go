// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package project

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetasur/minepanel/internal/platform/apperr"
)

type fakeAPI struct {
	listBody  []json.RawMessage
	usersBody []json.RawMessage
	created   []any
	deleted   []int64
}

func (api *fakeAPI) List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error) {
	if resource == "users" {
		return api.usersBody, nil
	}
	return api.listBody, nil
}

func (api *fakeAPI) Create(ctx context.Context, resource string, payload any) (json.RawMessage, error) {
	api.created = append(api.created, payload)
	return json.RawMessage(`{"id":4}`), nil
}

func (api *fakeAPI) Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error) {
	return json.RawMessage(`{"id":1}`), nil
}

func (api *fakeAPI) Delete(ctx context.Context, resource string, id int64) error {
	api.deleted = append(api.deleted, id)
	return nil
}

func sampleProjects(t *testing.T) []json.RawMessage {
	t.Helper()
	projects := []Record{
		{ID: 1, Name: "Expansión Veta Sur", Location: "Sector B", StartDate: "2026-01-15", ManagerName: "Carlos Ruiz", Status: StateActive},
		{ID: 2, Name: "Túnel de Ventilación", Location: "Sector A", StartDate: "2025-11-01", ManagerName: "Ana López", Status: StateFinished},
		{ID: 3, Name: "Rampa de Acceso", Location: "Sector B", StartDate: "2026-03-20", ManagerName: "Carlos Ruiz", Status: StateActive},
	}
	raws := make([]json.RawMessage, 0, len(projects))
	for _, record := range projects {
		encoded, err := json.Marshal(record)
		require.NoError(t, err)
		raws = append(raws, encoded)
	}
	return raws
}

func newService(api *fakeAPI) *Service {
	return NewService(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListCountsActiveProjects(t *testing.T) {
	t.Parallel()

	service := newService(&fakeAPI{listBody: sampleProjects(t)})
	result, err := service.List(context.Background(), Filter{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.Active)
}

func TestListFiltersByManagerAndStatus(t *testing.T) {
	t.Parallel()

	service := newService(&fakeAPI{listBody: sampleProjects(t)})

	result, err := service.List(context.Background(), Filter{Query: "carlos"})
	require.NoError(t, err)
	assert.Len(t, result.Projects, 2)

	result, err = service.List(context.Background(), Filter{Status: StateFinished})
	require.NoError(t, err)
	require.Len(t, result.Projects, 1)
	assert.Equal(t, "Túnel de Ventilación", result.Projects[0].Name)
}

func TestDeleteWithoutConfirmationMakesNoUpstreamCall(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	service := newService(api)

	err := service.Delete(context.Background(), 1, false)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "CONFIRMATION_REQUIRED", appError.Code)
	assert.Empty(t, api.deleted)

	require.NoError(t, service.Delete(context.Background(), 1, true))
	assert.Equal(t, []int64{1}, api.deleted)
}

func TestSupervisorsKeepsOnlySupervisorRole(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{usersBody: []json.RawMessage{
		json.RawMessage(`{"id":1,"username":"admin1","role":"ADMIN"}`),
		json.RawMessage(`{"id":5,"username":"super1","role":"SUPERVISOR"}`),
		json.RawMessage(`{"id":6,"username":"minero1","role":"EMPLOYEE"}`),
	}}

	options, err := newService(api).Supervisors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Option{{ID: 5, Username: "super1"}}, options)
}

func TestCreateValidatesProject(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	service := newService(api)

	_, err := service.Create(context.Background(), Input{Name: "", Status: "Cerrado"})
	require.Error(t, err)
	assert.Empty(t, api.created)

	_, err = service.Create(context.Background(), Input{
		Name: "Nueva Rampa", Location: "Sector C", StartDate: "2026-09-01", Status: StateActive,
	})
	require.NoError(t, err)
	assert.Len(t, api.created, 1)
}

func TestExportCSVUsesFilteredRows(t *testing.T) {
	t.Parallel()

	service := newService(&fakeAPI{listBody: sampleProjects(t)})
	document, err := service.ExportCSV(context.Background(), Filter{Status: StateActive})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(document), "\n"), "\n")
	require.Len(t, lines, 3, "header plus the two active projects")
	assert.Equal(t, "Nombre,Ubicación,Fecha de Inicio,Encargado,Estado", lines[0])
	assert.Contains(t, lines[1], "Expansión Veta Sur")
	assert.Contains(t, lines[2], "Rampa de Acceso")
}
