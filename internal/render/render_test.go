// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/web"
)

func TestBlankLinesRegex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no blank lines", "line1\nline2\nline3", "line1\nline2\nline3"},
		{"one blank line", "line1\n\nline2", "line1\nline2"},
		{"multiple blank lines", "line1\n\n\n\n\nline2", "line1\nline2"},
		{"blank lines with spaces", "line1\n  \n\t\nline2", "line1\nline2"},
		{"windows line endings", "line1\r\n\r\n\r\nline2", "line1\nline2"},
		{"blank lines at end", "line1\nline2\n\n\n", "line1\nline2\n"},
		{"empty input", "", ""},
		{"html with blank lines", "<div>\n\n\n<p>text</p>\n\n\n</div>", "<div>\n<p>text</p>\n</div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(blankLinesRegex.ReplaceAll([]byte(tt.input), []byte("\n")))
			if got != tt.expected {
				t.Errorf("blankLinesRegex.ReplaceAll(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Config{TemplatesFS: web.TemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNew_ParsesEmbeddedPages(t *testing.T) {
	r := newTestRenderer(t)

	for _, name := range []string{"home", "projects", "project", "contact", "login", "dashboard", "project_form", "not_found", "error"} {
		if !r.Has(name) {
			t.Errorf("page %q not parsed", name)
		}
	}
}

func TestNew_NoPages(t *testing.T) {
	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}x{{end}}`)},
	}
	if _, err := New(Config{TemplatesFS: fsys}); err == nil {
		t.Error("New() should fail without page templates")
	}
}

func TestMarkdown_Sanitizes(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name    string
		input   string
		want    string
		notWant string
	}{
		{"emphasis", "Hello *world*", "<em>world</em>", ""},
		{"link", "[site](https://example.com)", `href="https://example.com"`, ""},
		{"script stripped", "hi <script>alert(1)</script>", "hi", "<script>"},
		{"javascript link stripped", "[x](javascript:alert(1))", "x", "javascript:"},
		{"event handler stripped", `<img src="https://example.com/a.png" onerror="alert(1)">`, "", "onerror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(r.Markdown(tt.input))
			if tt.want != "" && !strings.Contains(got, tt.want) {
				t.Errorf("Markdown(%q) = %q, want it to contain %q", tt.input, got, tt.want)
			}
			if tt.notWant != "" && strings.Contains(got, tt.notWant) {
				t.Errorf("Markdown(%q) = %q, must not contain %q", tt.input, got, tt.notWant)
			}
		})
	}
}

func TestTemplateFuncs(t *testing.T) {
	funcs := (&Renderer{}).TemplateFuncs()

	formatDate := funcs["formatDate"].(func(time.Time) string)
	if got := formatDate(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)); got != "Mar 15, 2025" {
		t.Errorf("formatDate() = %q, want %q", got, "Mar 15, 2025")
	}

	truncate := funcs["truncate"].(func(string, int) string)
	if got := truncate("héllo wörld", 5); got != "héllo..." {
		t.Errorf("truncate() = %q, want %q", got, "héllo...")
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q, want %q", got, "short")
	}

	safeURL := funcs["safeURL"].(func(string) template.URL)
	tests := []struct {
		in   string
		want template.URL
	}{
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
		{"https://example.com/a.png", "https://example.com/a.png"},
		{"javascript:alert(1)", "about:blank"},
		{"data:text/html,<b>x</b>", "about:blank"},
	}
	for _, tt := range tests {
		if got := safeURL(tt.in); got != tt.want {
			t.Errorf("safeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	markdown := funcs["markdown"].(func(string) template.HTML)
	if got := markdown("<b>x</b>"); got != "&lt;b&gt;x&lt;/b&gt;" {
		t.Errorf("markdown() without renderer = %q, want escaped input", got)
	}
}

func TestRender(t *testing.T) {
	r := newTestRenderer(t)

	hero := model.DefaultHeroProfile()
	hero.LongDescription = "I build **things**."

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	err := r.Render(w, req, http.StatusOK, "home", TemplateData{
		Title: hero.FullName,
		Data: struct {
			Hero     model.HeroProfile
			Projects []model.Project
		}{Hero: hero, Projects: []model.Project{{ID: "p1", Title: "Weather Dashboard", Keywords: []string{"api"}}}},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	for _, want := range []string{"<strong>things</strong>", "Weather Dashboard", `href="/projects/p1"`, "Sign in"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestRender_SignedInNav(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	w := httptest.NewRecorder()
	sess := &model.Session{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}

	if err := r.Render(w, req, http.StatusOK, "projects", TemplateData{Session: sess, Data: []model.Project{}}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Dashboard") || !strings.Contains(body, "Sign out") {
		t.Error("signed-in nav should link the dashboard and offer sign out")
	}
	if !strings.Contains(body, `aria-current="page"`) {
		t.Error("current page should be marked in the nav")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	if err := r.Render(w, req, http.StatusOK, "missing", TemplateData{}); err == nil {
		t.Error("Render() should fail for an unknown template")
	}
	if w.Body.Len() != 0 {
		t.Error("nothing should be written on failure")
	}
}
