// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/render"
	"github.com/olegiv/portfolio-go/internal/testutil"
	"github.com/olegiv/portfolio-go/internal/validation"
	"github.com/olegiv/portfolio-go/web"
)

func newTestPages(t *testing.T) (*PageHandler, testServices) {
	t.Helper()
	svc := newTestServices(t)
	renderer, err := render.New(render.Config{TemplatesFS: web.TemplatesFS()})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return NewPageHandler(renderer, svc.hero, svc.projects, testutil.TestLoggerSilent()), svc
}

func pagesRouter(h *PageHandler, sess *model.Session) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMiddleware(sess))
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)
	r.Get("/", h.Home)
	r.Get("/login", h.Login)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/projects", h.Projects)
	r.Get("/projects/new", h.NewProject)
	r.Get("/projects/{id}", h.Project)
	r.Get("/projects/{id}/edit", h.EditProject)
	return r
}

func getPage(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestPages_Home(t *testing.T) {
	h, svc := newTestPages(t)
	p, err := svc.projects.Create(context.Background(), testutil.ValidSession(), validation.ProjectInput{
		Title:       "Compiler <toy>",
		Description: "A small compiler",
		ImageURL:    "https://example.com/c.png",
		Link:        "https://example.com/c",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	w := getPage(pagesRouter(h, nil), "/")

	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q; want text/html", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, model.DefaultHeroProfile().FullName) {
		t.Error("home page should show the hero name")
	}
	if !strings.Contains(body, "Compiler &lt;toy&gt;") {
		t.Error("home page should list the escaped project title")
	}
	if !strings.Contains(body, "/projects/"+p.ID) {
		t.Error("home page should link to the project")
	}
	if !strings.Contains(body, "Sign in") {
		t.Error("anonymous nav should offer sign in")
	}
}

func TestPages_Project(t *testing.T) {
	h, svc := newTestPages(t)
	p, err := svc.projects.Create(context.Background(), testutil.ValidSession(), validation.ProjectInput{
		Title:       "Ray tracer",
		Description: "Renders **spheres**",
		ImageURL:    "https://example.com/r.png",
		Link:        "https://example.com/r",
		Keywords:    []string{"go", "graphics"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	router := pagesRouter(h, testutil.ValidSession())

	t.Run("show", func(t *testing.T) {
		w := getPage(router, "/projects/"+p.ID)
		assertStatus(t, w.Code, http.StatusOK)
		if !strings.Contains(w.Body.String(), "Ray tracer") {
			t.Error("project page should show the title")
		}
	})

	t.Run("edit", func(t *testing.T) {
		w := getPage(router, "/projects/"+p.ID+"/edit")
		assertStatus(t, w.Code, http.StatusOK)
		if !strings.Contains(w.Body.String(), `value="https://example.com/r"`) {
			t.Error("edit form should be prefilled with the link")
		}
	})

	t.Run("new", func(t *testing.T) {
		w := getPage(router, "/projects/new")
		assertStatus(t, w.Code, http.StatusOK)
	})

	t.Run("list", func(t *testing.T) {
		w := getPage(router, "/projects")
		assertStatus(t, w.Code, http.StatusOK)
		if !strings.Contains(w.Body.String(), "Ray tracer") {
			t.Error("projects page should list the project")
		}
	})
}

func TestPages_NotFound(t *testing.T) {
	h, _ := newTestPages(t)
	router := pagesRouter(h, nil)

	t.Run("unknown project", func(t *testing.T) {
		w := getPage(router, "/projects/does-not-exist")
		assertStatus(t, w.Code, http.StatusNotFound)
		if !strings.Contains(w.Body.String(), "Page not found") {
			t.Error("expected the not found page")
		}
	})

	t.Run("unknown page", func(t *testing.T) {
		w := getPage(router, "/nowhere")
		assertStatus(t, w.Code, http.StatusNotFound)
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("Content-Type = %q; want text/html", ct)
		}
	})

	t.Run("unknown api path", func(t *testing.T) {
		w := getPage(router, "/api/unknown")
		assertStatus(t, w.Code, http.StatusNotFound)
		if code, _ := errorDetails(t, w); code != CodeNotFound {
			t.Errorf("code = %q; want %q", code, CodeNotFound)
		}
	})
}

func TestPages_MethodNotAllowed(t *testing.T) {
	h, _ := newTestPages(t)

	w := httptest.NewRecorder()
	pagesRouter(h, nil).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/dashboard", nil))

	assertStatus(t, w.Code, http.StatusMethodNotAllowed)
	if code, _ := errorDetails(t, w); code != CodeMethodNotAllowed {
		t.Errorf("code = %q; want %q", code, CodeMethodNotAllowed)
	}
}

func TestPages_Login(t *testing.T) {
	h, _ := newTestPages(t)

	t.Run("anonymous", func(t *testing.T) {
		w := getPage(pagesRouter(h, nil), "/login?returnTo=/projects/new")
		assertStatus(t, w.Code, http.StatusOK)
		if !strings.Contains(w.Body.String(), "/api/auth/login?returnTo=") {
			t.Error("login page should link to the login endpoint")
		}
	})

	t.Run("signed in", func(t *testing.T) {
		w := getPage(pagesRouter(h, testutil.ValidSession()), "/login?returnTo=/projects/new")
		assertStatus(t, w.Code, http.StatusSeeOther)
		if loc := w.Header().Get("Location"); loc != "/projects/new" {
			t.Errorf("Location = %q; want /projects/new", loc)
		}
	})

	t.Run("signed in unsafe target", func(t *testing.T) {
		w := getPage(pagesRouter(h, testutil.ValidSession()), "/login?returnTo=//evil.example")
		assertStatus(t, w.Code, http.StatusSeeOther)
		if loc := w.Header().Get("Location"); loc != DefaultReturnTo {
			t.Errorf("Location = %q; want %q", loc, DefaultReturnTo)
		}
	})

	t.Run("expired session", func(t *testing.T) {
		w := getPage(pagesRouter(h, testutil.ExpiredSession()), "/login")
		assertStatus(t, w.Code, http.StatusOK)
	})
}

func TestPages_Dashboard(t *testing.T) {
	h, _ := newTestPages(t)
	sess := testutil.ValidSession()

	w := getPage(pagesRouter(h, sess), "/dashboard")

	assertStatus(t, w.Code, http.StatusOK)
	body := w.Body.String()
	if !strings.Contains(body, "Save hero") {
		t.Error("dashboard should render the hero form")
	}
	if !strings.Contains(body, "Sign out") {
		t.Error("signed-in nav should offer sign out")
	}
}
