// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package upstream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetasur/minepanel/internal/platform/apperr"
)

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var provider TokenProvider
	if token != "" {
		provider = func(ctx context.Context) (string, error) { return token, nil }
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(server.URL, 5*time.Second, provider, logger)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/token/", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var credentials map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&credentials))
		assert.Equal(t, "admin1", credentials["username"])

		_ = json.NewEncoder(w).Encode(map[string]string{"access": "access-jwt", "refresh": "refresh-jwt"})
	}), "")

	pair, err := client.Login(context.Background(), "admin1", "secret")
	require.NoError(t, err)
	assert.Equal(t, "access-jwt", pair.Access)
	assert.Equal(t, "refresh-jwt", pair.Refresh)
}

func TestLoginRejectedCredentials(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), "")

	_, err := client.Login(context.Background(), "admin1", "wrong")
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
}

func TestExchangeRefresh(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token/refresh/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-jwt", body["refresh"])
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "rotated-jwt"})
	}), "")

	access, err := client.ExchangeRefresh(context.Background(), "refresh-jwt")
	require.NoError(t, err)
	assert.Equal(t, "rotated-jwt", access)
}

func TestListNormalizesBothShapes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
		want int
	}{
		{name: "bare array", body: `[{"id":1},{"id":2},{"id":3}]`, want: 3},
		{name: "paginated envelope", body: `{"count":2,"results":[{"id":1},{"id":2}]}`, want: 2},
		{name: "empty array", body: `[]`, want: 0},
		{name: "envelope without results", body: `{"count":0}`, want: 0},
		{name: "unexpected object", body: `{"detail":"weird"}`, want: 0},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/projects/", r.URL.Path)
				assert.Equal(t, "Bearer access-jwt", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(testCase.body))
			}), "access-jwt")

			records, err := client.List(context.Background(), ResourceProjects, nil)
			require.NoError(t, err)
			assert.Len(t, records, testCase.want)
		})
	}
}

func TestTokenProviderConsultedPerCall(t *testing.T) {
	t.Parallel()

	var received []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = append(received, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	tokens := []string{"first-jwt", "second-jwt"}
	index := 0
	provider := func(ctx context.Context) (string, error) {
		token := tokens[index]
		index++
		return token, nil
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(server.URL, 5*time.Second, provider, logger)

	_, err := client.List(context.Background(), ResourceTools, nil)
	require.NoError(t, err)
	_, err = client.List(context.Background(), ResourceTools, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first-jwt", "Bearer second-jwt"}, received)
}

func TestDeleteMapsNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/tools/42/", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}), "access-jwt")

	err := client.Delete(context.Background(), ResourceTools, 42)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusNotFound, appError.HTTPStatus)
}

func TestUpstreamValidationDetailsPreserved(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"name":["This field is required."]}`))
	}), "access-jwt")

	_, err := client.Create(context.Background(), ResourceProjects, map[string]string{})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusBadRequest, appError.HTTPStatus)
	assert.NotNil(t, appError.Details)
}

func TestQuantityDecodesStringsAndNumbers(t *testing.T) {
	t.Parallel()

	var record struct {
		Decimal Quantity `json:"decimal"`
		Integer Quantity `json:"integer"`
		Missing Quantity `json:"missing"`
		Blank   Quantity `json:"blank"`
	}

	raw := `{"decimal":"15.50","integer":7,"blank":""}`
	require.NoError(t, json.Unmarshal([]byte(raw), &record))

	assert.InDelta(t, 15.5, float64(record.Decimal), 1e-9)
	assert.InDelta(t, 7, float64(record.Integer), 1e-9)
	assert.Zero(t, float64(record.Missing))
	assert.Zero(t, float64(record.Blank))
}
