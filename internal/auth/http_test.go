// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package auth

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetasur/minepanel/internal/session"
	"github.com/vetasur/minepanel/internal/upstream"
)

func signedToken(t *testing.T, role, username string) string {
	t.Helper()
	claims := session.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Role:             role,
		Username:         username,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

// newFixture stands up a fake mining API plus the auth handler wired to it.
func newFixture(t *testing.T, api http.Handler) (*Handler, *session.MemoryTokenRepository) {
	t.Helper()

	upstreamServer := httptest.NewServer(api)
	t.Cleanup(upstreamServer.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := upstream.NewClient(upstreamServer.URL, 5*time.Second, nil, logger)
	tokens := session.NewMemoryTokenRepository()
	store := session.NewStore(tokens, client, logger)

	return NewHandler(store, client, "minepanel_sid", time.Hour, false), tokens
}

func routerFor(handler *Handler) http.Handler {
	router := chi.NewRouter()
	handler.Routes(router)
	return router
}

func TestLoginEstablishesSessionAndCookie(t *testing.T) {
	t.Parallel()

	accessToken := signedToken(t, "ADMIN", "admin1")
	handler, tokens := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token/", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"access": accessToken, "refresh": "refresh-jwt"})
	}))

	body := strings.NewReader(`{"username":"admin1","password":"secret"}`)
	request := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	recorder := httptest.NewRecorder()
	routerFor(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "minepanel_sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	require.NotEmpty(t, cookies[0].Value)

	pair, err := tokens.Load(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, accessToken, pair.Access)
	assert.Equal(t, "refresh-jwt", pair.Refresh)

	var envelope struct {
		Data Bootstrap `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.Session)
	assert.Equal(t, session.RoleAdmin, envelope.Data.Session.Role)
	assert.Equal(t, "admin", string(envelope.Data.Shell.Variant))
	assert.Equal(t, "dashboard", envelope.Data.Shell.DefaultTab)
}

func TestLoginValidatesBeforeAnyNetworkCall(t *testing.T) {
	t.Parallel()

	handler, _ := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected for an empty login form")
	}))

	body := strings.NewReader(`{"username":"","password":""}`)
	request := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	recorder := httptest.NewRecorder()
	routerFor(handler).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestLoginRejectedCredentialsSetNoCookie(t *testing.T) {
	t.Parallel()

	handler, _ := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	body := strings.NewReader(`{"username":"admin1","password":"wrong"}`)
	request := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	recorder := httptest.NewRecorder()
	routerFor(handler).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies())
}

func TestLogoutClearsTokensAndCookie(t *testing.T) {
	t.Parallel()

	handler, tokens := newFixture(t, http.NotFoundHandler())
	require.NoError(t, tokens.Save(context.Background(), "sid-1",
		session.TokenPair{Access: signedToken(t, "ADMIN", "admin1"), Refresh: "refresh-jwt"}))

	request := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	request.AddCookie(&http.Cookie{Name: "minepanel_sid", Value: "sid-1"})
	recorder := httptest.NewRecorder()
	routerFor(handler).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)

	_, err := tokens.Load(context.Background(), "sid-1")
	assert.ErrorIs(t, err, session.ErrNoSession)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestLogoutWithoutSessionIsStillNoContent(t *testing.T) {
	t.Parallel()

	handler, _ := newFixture(t, http.NotFoundHandler())

	request := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	recorder := httptest.NewRecorder()
	routerFor(handler).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestBootstrapAnonymous(t *testing.T) {
	t.Parallel()

	handler, _ := newFixture(t, http.NotFoundHandler())

	request := httptest.NewRequest(http.MethodGet, "/session", nil)
	recorder := httptest.NewRecorder()
	routerFor(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data Bootstrap `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Data.Session)
	assert.Equal(t, "unauthenticated", string(envelope.Data.Shell.Variant))
}

func TestBootstrapResumesAndSilentlyRefreshes(t *testing.T) {
	t.Parallel()

	oldAccess := signedToken(t, "SUPERVISOR", "super1")
	rotated := signedToken(t, "SUPERVISOR", "super1")

	refreshed := make(chan struct{})
	handler, tokens := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token/refresh/", r.URL.Path)
		defer close(refreshed)
		_ = json.NewEncoder(w).Encode(map[string]string{"access": rotated})
	}))
	require.NoError(t, tokens.Save(context.Background(), "sid-1",
		session.TokenPair{Access: oldAccess, Refresh: "refresh-jwt"}))

	request := httptest.NewRequest(http.MethodGet, "/session", nil)
	request.AddCookie(&http.Cookie{Name: "minepanel_sid", Value: "sid-1"})
	recorder := httptest.NewRecorder()
	routerFor(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data Bootstrap `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.Session)
	assert.Equal(t, "access-control", envelope.Data.Shell.DefaultTab)

	select {
	case <-refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("bootstrap did not trigger the silent refresh")
	}
}
