// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/olegiv/portfolio-go/internal/service"
	"github.com/olegiv/portfolio-go/internal/testutil"
	"github.com/olegiv/portfolio-go/internal/validation"
)

func TestErrorFor(t *testing.T) {
	verrs := &validation.Errors{}
	verrs.Add("link", "must be a valid absolute URL")

	tests := []struct {
		name       string
		err        error
		status     int
		code       string
		unexpected bool
	}{
		{"validation", verrs, http.StatusBadRequest, CodeValidation, false},
		{"wrapped validation", fmt.Errorf("saving: %w", verrs), http.StatusBadRequest, CodeValidation, false},
		{"unauthorized", service.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized, false},
		{"not found", fmt.Errorf("project x: %w", service.ErrNotFound), http.StatusNotFound, CodeNotFound, false},
		{"invalid image", service.ErrInvalidImage, http.StatusBadRequest, CodeValidation, false},
		{"not configured", fmt.Errorf("%w: missing key", service.ErrNotConfigured), http.StatusInternalServerError, CodeConfiguration, false},
		{"delivery", service.ErrDelivery, http.StatusInternalServerError, CodeDelivery, false},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternal, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail, unexpected := errorFor(tt.err)
			if status != tt.status {
				t.Errorf("status = %d, want %d", status, tt.status)
			}
			if detail.Code != tt.code {
				t.Errorf("code = %q, want %q", detail.Code, tt.code)
			}
			if unexpected != tt.unexpected {
				t.Errorf("unexpected = %v, want %v", unexpected, tt.unexpected)
			}
		})
	}
}

func TestWriteServiceError_ValidationDetails(t *testing.T) {
	verrs := &validation.Errors{}
	verrs.Add("message", "must be at least 10 characters")

	w := httptest.NewRecorder()
	writeServiceError(w, httptest.NewRequest(http.MethodPost, "/", nil), testutil.TestLoggerSilent(), verrs)

	assertStatus(t, w.Code, http.StatusBadRequest)
	code, details := errorDetails(t, w)
	if code != CodeValidation {
		t.Errorf("code = %q, want %q", code, CodeValidation)
	}
	if details["message"] != "must be at least 10 characters" {
		t.Errorf("details = %v", details)
	}
	if _, ok := decodeBody(t, w)["ok"]; ok {
		t.Error("non-contact errors should not carry ok")
	}
}

func TestWriteServiceError_HidesInternalMessage(t *testing.T) {
	w := httptest.NewRecorder()
	writeServiceError(w, httptest.NewRequest(http.MethodGet, "/", nil), testutil.TestLoggerSilent(), errors.New("secret dsn leaked"))

	assertStatus(t, w.Code, http.StatusInternalServerError)
	if body := w.Body.String(); strings.Contains(body, "secret dsn") {
		t.Errorf("internal error detail leaked: %s", body)
	}
}

func TestWriteContactError(t *testing.T) {
	w := httptest.NewRecorder()
	writeContactError(w, httptest.NewRequest(http.MethodPost, "/", nil), testutil.TestLoggerSilent(), service.ErrDelivery)

	assertStatus(t, w.Code, http.StatusInternalServerError)
	m := decodeBody(t, w)
	if m["ok"] != false {
		t.Errorf("ok = %v, want false", m["ok"])
	}
	if m["message"] == "" || m["message"] == nil {
		t.Error("contact errors should carry a message")
	}
	code, _ := errorDetails(t, w)
	if code != CodeDelivery {
		t.Errorf("code = %q, want %q", code, CodeDelivery)
	}
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, "Project deleted", nil)

	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	m := decodeBody(t, w)
	if m["message"] != "Project deleted" {
		t.Errorf("message = %v", m["message"])
	}
	if _, ok := m["data"]; ok {
		t.Error("nil data should be omitted")
	}
}
