// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package gas

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
	return json.RawMessage(`{"id":7}`), nil
}

func (api *fakeAPI) Delete(ctx context.Context, resource string, id int64) error {
	api.deleted = append(api.deleted, id)
	return nil
}

func sampleRecords(t *testing.T) []json.RawMessage {
	t.Helper()
	records := []Record{
		{ID: 1, Location: "Túnel Norte", GasType: "CH4", Level: 0.4, Unit: "%", Status: StateNormal},
		{ID: 2, Location: "Túnel Norte", GasType: "CO", Level: 38, Unit: "ppm", Status: StateWarning},
		{ID: 3, Location: "Galería 5", GasType: "CH4", Level: 1.6, Unit: "%", Status: StateDanger},
	}
	raws := make([]json.RawMessage, 0, len(records))
	for _, record := range records {
		encoded, err := json.Marshal(record)
		require.NoError(t, err)
		raws = append(raws, encoded)
	}
	return raws
}

func newService(api *fakeAPI) *Service {
	return NewService(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListCountsSeverity(t *testing.T) {
	t.Parallel()

	service := newService(&fakeAPI{listBody: sampleRecords(t)})
	result, err := service.List(context.Background(), Filter{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 1, result.Summary.Warnings)
	assert.Equal(t, 1, result.Summary.Danger)
}

func TestListFiltersByLocationAndGasType(t *testing.T) {
	t.Parallel()

	service := newService(&fakeAPI{listBody: sampleRecords(t)})

	result, err := service.List(context.Background(), Filter{Query: "ch4"})
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)

	result, err = service.List(context.Background(), Filter{Query: "túnel", Status: StateWarning})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, int64(2), result.Records[0].ID)
}

func TestRegisterValidatesMeasurement(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	service := newService(api)

	_, err := service.Register(context.Background(), Input{Status: "Grave"})
	require.Error(t, err)
	assert.Empty(t, api.created)

	_, err = service.Register(context.Background(), Input{
		Date: "2026-08-30", Location: "Túnel Norte", GasType: "CH4",
		Level: 0.5, Unit: "%", Status: StateNormal,
	})
	require.NoError(t, err)
	assert.Len(t, api.created, 1)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	service := newService(api)

	require.Error(t, service.Delete(context.Background(), 3, false))
	assert.Empty(t, api.deleted)

	require.NoError(t, service.Delete(context.Background(), 3, true))
	assert.Equal(t, []int64{3}, api.deleted)
}
