// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers for the portfolio: the JSON
// API, the identity provider flow, health checks and the server-rendered
// pages.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/portfolio-go/internal/service"
	"github.com/olegiv/portfolio-go/internal/validation"
)

// Response is the standard API response wrapper.
type Response struct {
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the standard API error response. OK is only set by
// the contact endpoint.
type ErrorResponse struct {
	OK      *bool       `json:"ok,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes used in ErrorDetail.Code.
const (
	CodeValidation       = "validation_error"
	CodeUnauthorized     = "unauthorized"
	CodeNotFound         = "not_found"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeConfiguration    = "configuration_error"
	CodeDelivery         = "delivery_failed"
	CodeInternal         = "internal_error"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a 200 response with data and an optional message.
func WriteSuccess(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{Message: message, Data: data})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message, Details: details},
	})
}

// errorFor maps a service error to status, code, message and details.
// The boolean reports whether the error was unexpected.
func errorFor(err error) (int, ErrorDetail, bool) {
	var verrs *validation.Errors
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, ErrorDetail{
			Code: CodeValidation, Message: "Validation failed", Details: verrs.Map(),
		}, false
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorDetail{
			Code: CodeUnauthorized, Message: "Authentication required",
		}, false
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorDetail{
			Code: CodeNotFound, Message: "Not found",
		}, false
	case errors.Is(err, service.ErrInvalidImage):
		return http.StatusBadRequest, ErrorDetail{
			Code: CodeValidation, Message: "Validation failed",
			Details: map[string]string{"avatar": "must be a valid image"},
		}, false
	case errors.Is(err, service.ErrNotConfigured):
		return http.StatusInternalServerError, ErrorDetail{
			Code: CodeConfiguration, Message: "Service is not configured",
		}, false
	case errors.Is(err, service.ErrDelivery):
		return http.StatusInternalServerError, ErrorDetail{
			Code: CodeDelivery, Message: "Failed to send email. Please try again later.",
		}, false
	default:
		return http.StatusInternalServerError, ErrorDetail{
			Code: CodeInternal, Message: "An unexpected error occurred. Please try again later.",
		}, true
	}
}

// writeServiceError writes the response for an error returned by a service.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, detail, unexpected := errorFor(err)
	logServiceError(r, logger, status, err, unexpected)
	WriteJSON(w, status, ErrorResponse{Error: detail})
}

// writeContactError is writeServiceError with the contact form's
// ok/message fields.
func writeContactError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, detail, unexpected := errorFor(err)
	logServiceError(r, logger, status, err, unexpected)
	ok := false
	WriteJSON(w, status, ErrorResponse{OK: &ok, Message: detail.Message, Error: detail})
}

func logServiceError(r *http.Request, logger *slog.Logger, status int, err error, unexpected bool) {
	switch {
	case unexpected:
		logger.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	case status >= http.StatusInternalServerError:
		logger.Warn("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	}
}
