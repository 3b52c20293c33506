// Copyright (c) 2026 MinePanel. All rights reserved.
// Author: dev@vetasur.io

// Package respond centralizes HTTP response writing.
//
// Every handler in the service goes through these helpers so that envelope
// shape, content types and error mapping stay uniform across resources.
package respond

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/vetasur/minepanel/internal/platform/apperr"
	"github.com/vetasur/minepanel/internal/platform/ctxutil"
)

// SuccessEnvelope wraps every successful JSON payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ErrorEnvelope wraps every error payload.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the client-facing shape of a failure.
type ErrorBody struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code. Encoding failures
// are logged, not surfaced: headers are already on the wire at that point.
func JSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		ctxutil.GetLogger(r.Context()).Error("response_encode_failed", slog.Any("error", err))
	}
}

// OK writes a 200 response with the payload wrapped in a success envelope.
func OK(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes a 201 response with the payload wrapped in a success envelope.
func Created(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusCreated, SuccessEnvelope{Data: data})
}

// NoContent writes a 204 response with no body.
func NoContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps any error to its HTTP representation. [apperr.AppError] values
// carry their own status and client-safe message; anything else is treated as
// an internal error and its detail withheld from the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	logger := ctxutil.GetLogger(r.Context())

	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		logger.Error("request_failed",
			slog.String("code", appError.Code),
			slog.Any("error", err),
		)
	} else {
		logger.Warn("request_rejected",
			slog.String("code", appError.Code),
			slog.String("message", appError.Message),
		)
	}

	JSON(w, r, appError.HTTPStatus, ErrorEnvelope{Error: ErrorBody{
		Code:    appError.Code,
		Message: appError.Message,
		Details: appError.Details,
	}})
}

// CSV writes a CSV document as a browser download with a fixed filename.
func CSV(w http.ResponseWriter, r *http.Request, filename string, document []byte) {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = fmt.Sprintf("attachment; filename=%q", filename)
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", disposition)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document); err != nil {
		ctxutil.GetLogger(r.Context()).Error("csv_write_failed", slog.Any("error", err))
	}
}
