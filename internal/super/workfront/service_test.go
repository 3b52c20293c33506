// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package workfront

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
	return json.RawMessage(`{"id":4}`), nil
}

func (api *fakeAPI) Update(ctx context.Context, resource string, id int64, payload any) (json.RawMessage, error) {
	return json.RawMessage(`{"id":1}`), nil
}

func (api *fakeAPI) Delete(ctx context.Context, resource string, id int64) error {
	api.deleted = append(api.deleted, id)
	return nil
}

func sampleFronts(t *testing.T) []json.RawMessage {
	t.Helper()
	fronts := []Record{
		{ID: 1, Name: "Frente Norte", Location: "Nivel 1", Status: StateActive, Workers: 12, Progress: 40},
		{ID: 2, Name: "Frente Sur", Location: "Nivel 2", Status: StateActive, Workers: 8, Progress: 80},
		{ID: 3, Name: "Galería Este", Location: "Nivel 1", Status: StatePaused, Workers: 0, Progress: 60},
	}
	raws := make([]json.RawMessage, 0, len(fronts))
	for _, front := range fronts {
		encoded, err := json.Marshal(front)
		require.NoError(t, err)
		raws = append(raws, encoded)
	}
	return raws
}

func newService(api *fakeAPI) *Service {
	return NewService(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestListAggregatesFronts(t *testing.T) {
	t.Parallel()

	service := newService(&fakeAPI{listBody: sampleFronts(t)})
	result, err := service.List(context.Background(), Filter{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Summary.Total)
	assert.Equal(t, 2, result.Summary.Active)
	assert.Equal(t, 20, result.Summary.Workers)
	assert.InDelta(t, 60.0, result.Summary.AverageProgress, 1e-9)
}

func TestListEmptyResultHasZeroAverage(t *testing.T) {
	t.Parallel()

	service := newService(&fakeAPI{listBody: sampleFronts(t)})
	result, err := service.List(context.Background(), Filter{Query: "no-such-front"})
	require.NoError(t, err)

	assert.Empty(t, result.Fronts)
	assert.Zero(t, result.Summary.AverageProgress)
}

func TestListFiltersByStatus(t *testing.T) {
	t.Parallel()

	service := newService(&fakeAPI{listBody: sampleFronts(t)})
	result, err := service.List(context.Background(), Filter{Status: StatePaused})
	require.NoError(t, err)

	require.Len(t, result.Fronts, 1)
	assert.Equal(t, "Galería Este", result.Fronts[0].Name)
	assert.InDelta(t, 60.0, result.Summary.AverageProgress, 1e-9)
}

func TestCreateValidatesProgressBounds(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	service := newService(api)

	_, err := service.Create(context.Background(), Input{
		Name: "Frente Oeste", Location: "Nivel 3", Status: StateActive, Progress: 140,
	})
	require.Error(t, err)
	assert.Empty(t, api.created)

	_, err = service.Create(context.Background(), Input{
		Name: "Frente Oeste", Location: "Nivel 3", Status: StatePlanned, Progress: 0,
	})
	require.NoError(t, err)
	assert.Len(t, api.created, 1)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	service := newService(api)

	require.Error(t, service.Delete(context.Background(), 2, false))
	assert.Empty(t, api.deleted)

	require.NoError(t, service.Delete(context.Background(), 2, true))
	assert.Equal(t, []int64{2}, api.deleted)
}
