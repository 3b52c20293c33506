// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetasur/minepanel/internal/platform/ctxutil"
	"github.com/vetasur/minepanel/internal/session"
)

func testStore(t *testing.T) (*session.Store, *session.MemoryTokenRepository) {
	t.Helper()
	tokens := session.NewMemoryTokenRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return session.NewStore(tokens, nil, logger), tokens
}

func adminToken(t *testing.T) string {
	t.Helper()
	claims := session.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Role:             "ADMIN",
		Username:         "admin1",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestLoadSessionAttachesSession(t *testing.T) {
	t.Parallel()

	store, tokens := testStore(t)
	require.NoError(t, tokens.Save(context.Background(), "sid-1", session.TokenPair{Access: adminToken(t)}))

	var seen *session.Session
	handler := LoadSession(store, "minepanel_sid")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetSession(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/session", nil)
	request.AddCookie(&http.Cookie{Name: "minepanel_sid", Value: "sid-1"})
	handler.ServeHTTP(httptest.NewRecorder(), request)

	require.NotNil(t, seen)
	assert.Equal(t, session.RoleAdmin, seen.Role)
	assert.Equal(t, "admin1", seen.Username)
}

func TestLoadSessionWithoutCookieIsAnonymous(t *testing.T) {
	t.Parallel()

	store, _ := testStore(t)

	called := false
	handler := LoadSession(store, "minepanel_sid")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, ctxutil.GetSession(r.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/session", nil))
	assert.True(t, called)
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		sess       *session.Session
		required   session.Role
		wantStatus int
	}{
		{
			name:       "anonymous gets 401",
			required:   session.RoleAdmin,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong role gets 403",
			sess:       &session.Session{ID: "sid-1", Role: session.RoleSupervisor, Username: "super1"},
			required:   session.RoleAdmin,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown role never broadens access",
			sess:       &session.Session{ID: "sid-1", Role: "EMPLOYEE", Username: "emp1"},
			required:   session.RoleSupervisor,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "matching role passes through",
			sess:       &session.Session{ID: "sid-1", Role: session.RoleAdmin, Username: "admin1"},
			required:   session.RoleAdmin,
			wantStatus: http.StatusOK,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			handler := RequireRole(testCase.required)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodGet, "/projects", nil)
			if testCase.sess != nil {
				request = request.WithContext(ctxutil.WithSession(request.Context(), testCase.sess))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)
			assert.Equal(t, testCase.wantStatus, recorder.Code)
		})
	}
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	t.Parallel()

	stop := make(chan struct{})
	defer close(stop)

	limiter := NewRateLimiter(1, 2, stop)
	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		request := httptest.NewRequest(http.MethodGet, "/projects", nil)
		request.RemoteAddr = "203.0.113.7:52100"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		statuses = append(statuses, recorder.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}
