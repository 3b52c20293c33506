// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

package panel

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vetasur/minepanel/internal/platform/apperr"
)

// URLParamID extracts the {id} route parameter as an int64.
func URLParamID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationError("id must be a positive integer")
	}
	return id, nil
}

// Confirmed reports whether the request carries the explicit confirmation
// flag destructive endpoints require.
func Confirmed(r *http.Request) bool {
	switch r.URL.Query().Get("confirm") {
	case "true", "1", "yes":
		return true
	}
	return false
}
