// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/ctxutil"
	"github.com/vetasur/minepanel/internal/platform/respond"
	"github.com/vetasur/minepanel/internal/session"
)

// LoadSession resolves the session identified by the sid cookie and stores it
// in the request context. Requests without a cookie, or whose session turned
// out to be invalid, proceed as anonymous; gating happens in RequireRole.
func LoadSession(store *session.Store, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := store.Resolve(r.Context(), cookie.Value)
			if err != nil {
				// Storage outage: log and continue anonymous rather than
				// failing every request in the process.
				ctxutil.GetLogger(r.Context()).Error("session_resolve_failed", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxutil.WithSession(r.Context(), sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctxutil.GetSession(r.Context()) == nil {
			respond.Error(w, r, apperr.Unauthenticated("Sign in to access this resource"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a route subtree on an exact role. Authenticated sessions
// with a different role get 403; roles never broaden access by accident
// because matching is exact, not hierarchical.
func RequireRole(role session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := ctxutil.GetSession(r.Context())
			if sess == nil {
				respond.Error(w, r, apperr.Unauthenticated("Sign in to access this resource"))
				return
			}
			if sess.Role != role {
				respond.Error(w, r, apperr.UnauthorizedRole(string(sess.Role)))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
