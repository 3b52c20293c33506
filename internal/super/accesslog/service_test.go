// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package accesslog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	listBody []json.RawMessage
	created  []any
	deleted  []int64
}

func (api *fakeAPI) List(ctx context.Context, resource string, query url.Values) ([]json.RawMessage, error) {
	return api.listBody, nil
}

func (api *fakeAPI) Create(ctx context.Context, resource string, payload any) (json.RawMessage, error) {
	api.created = append(api.created, payload)
	return json.RawMessage(`{"id":50}`), nil
}

func (api *fakeAPI) Delete(ctx context.Context, resource string, id int64) error {
	api.deleted = append(api.deleted, id)
	return nil
}

func sampleLogs(t *testing.T) []json.RawMessage {
	t.Helper()
	logs := []Record{
		{ID: 1, Employee: 10, EmployeeName: "Juan Pérez", AccessType: TypeEntry, Area: "Túnel Norte", Timestamp: "2026-08-30T06:05:00Z"},
		{ID: 2, Employee: 11, EmployeeName: "María García", AccessType: TypeEntry, Area: "Túnel Sur", Timestamp: "2026-08-30T06:10:00Z"},
		{ID: 3, Employee: 10, EmployeeName: "Juan Pérez", AccessType: TypeExit, Area: "Túnel Norte", Timestamp: "2026-08-30T14:02:00Z"},
	}
	raws := make([]json.RawMessage, 0, len(logs))
	for _, log := range logs {
		encoded, err := json.Marshal(log)
		require.NoError(t, err)
		raws = append(raws, encoded)
	}
	return raws
}

func newService(api *fakeAPI) *Service {
	return NewService(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListCountsEntriesAndExits(t *testing.T) {
	t.Parallel()

	service := newService(&fakeAPI{listBody: sampleLogs(t)})
	result, err := service.List(context.Background(), Filter{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.Entries)
	assert.Equal(t, 1, result.Summary.Exits)
}

func TestListFiltersByDirectionAndQuery(t *testing.T) {
	t.Parallel()

	service := newService(&fakeAPI{listBody: sampleLogs(t)})

	result, err := service.List(context.Background(), Filter{AccessType: TypeExit})
	require.NoError(t, err)
	require.Len(t, result.Logs, 1)
	assert.Equal(t, int64(3), result.Logs[0].ID)
	assert.Equal(t, 1, result.Summary.Exits)
	assert.Equal(t, 0, result.Summary.Entries)

	result, err = service.List(context.Background(), Filter{Query: "maría"})
	require.NoError(t, err)
	require.Len(t, result.Logs, 1)
	assert.Equal(t, "María García", result.Logs[0].EmployeeName)
}

func TestRegisterValidatesMovement(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	service := newService(api)

	_, err := service.Register(context.Background(), Input{AccessType: "DENTRO", Area: ""})
	require.Error(t, err)
	assert.Empty(t, api.created, "invalid movements never reach the upstream")

	_, err = service.Register(context.Background(), Input{Employee: 10, AccessType: TypeEntry, Area: "Túnel Norte"})
	require.NoError(t, err)
	assert.Len(t, api.created, 1)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	service := newService(api)

	require.Error(t, service.Delete(context.Background(), 1, false))
	assert.Empty(t, api.deleted)

	require.NoError(t, service.Delete(context.Background(), 1, true))
	assert.Equal(t, []int64{1}, api.deleted)
}
