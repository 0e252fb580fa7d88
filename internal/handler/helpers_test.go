// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olegiv/portfolio-go/internal/cache"
	"github.com/olegiv/portfolio-go/internal/imaging"
	"github.com/olegiv/portfolio-go/internal/mail"
	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/service"
	"github.com/olegiv/portfolio-go/internal/storage"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/testutil"
)

type testServices struct {
	db       *sql.DB
	hero     *service.HeroService
	projects *service.ProjectService
	tempDir  string
}

func newTestServices(t *testing.T) testServices {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	q := store.New(db)
	mc := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = mc.Close() })

	dir := t.TempDir()
	ingest := service.NewAvatarIngest(imaging.NewProcessor(model.DefaultAvatarVariant), storage.DataURIStore{}, dir, testutil.TestLogger())

	return testServices{
		db:       db,
		hero:     service.NewHeroService(q, ingest, mc, time.Minute, testutil.TestLogger()),
		projects: service.NewProjectService(q, mc, time.Minute, testutil.TestLogger()),
		tempDir:  dir,
	}
}

// withSession stores sess in the request context the way the gate does.
func withSession(r *http.Request, sess *model.Session) *http.Request {
	return r.WithContext(middleware.WithSession(r.Context(), sess))
}

// sessionMiddleware injects sess for router based tests.
func sessionMiddleware(sess *model.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess != nil {
				r = withSession(r, sess)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartRequest(t *testing.T, method, target string, fields map[string]string, fileField, fileName string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := fw.Write(file); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("multipart Close: %v", err)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 40, G: uint8(x * 8), B: uint8(y * 8), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

// decodeBody decodes the recorder body into a generic map.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return m
}

// errorDetails returns error.code and error.details from an error envelope.
func errorDetails(t *testing.T, w *httptest.ResponseRecorder) (string, map[string]any) {
	t.Helper()
	m := decodeBody(t, w)
	e, ok := m["error"].(map[string]any)
	if !ok {
		t.Fatalf("response has no error object: %s", w.Body.String())
	}
	code, _ := e["code"].(string)
	details, _ := e["details"].(map[string]any)
	return code, details
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// fakeMailer records sent messages.
type fakeMailer struct {
	mu        sync.Mutex
	configErr error
	sendErr   error
	sent      []mail.Message
}

func (m *fakeMailer) Configured() error { return m.configErr }
func (m *fakeMailer) From() string      { return "site@example.com" }
func (m *fakeMailer) To() string        { return "owner@example.com" }

func (m *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.sendErr
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func toValues(m map[string]string) url.Values {
	v := url.Values{}
	for k, s := range m {
		v.Set(k, s)
	}
	return v
}
