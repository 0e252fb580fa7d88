// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/portfolio-go/internal/config"
	"github.com/olegiv/portfolio-go/internal/handler"
	"github.com/olegiv/portfolio-go/internal/middleware"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/session"
	"github.com/olegiv/portfolio-go/web"
)

// staticMaxAge is the Cache-Control max-age for /static assets.
const staticMaxAge = 86400

// routerDeps is everything newRouter wires together.
type routerDeps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Sessions *scs.SessionManager
	Health   *handler.HealthHandler
	Hero     *handler.HeroHandler
	Projects *handler.ProjectsHandler
	Contact  *handler.ContactHandler
	GitHub   *handler.GitHubHandler
	Auth     *handler.AuthHandler
	Pages    *handler.PageHandler
	SEO      *handler.SEOHandler
}

// newRouter builds the HTTP handler. Every route runs behind the access
// gate, which reads the session loaded by the session manager.
func newRouter(d routerDeps) http.Handler {
	cfg := d.Config
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.BaseURL, cfg.IsDevelopment())))
	r.Use(d.Sessions.LoadAndSave)
	r.Use(middleware.Gate(middleware.SessionFunc(func(ctx context.Context) *model.Session {
		return session.Identity(ctx, d.Sessions)
	}), d.Logger))

	r.NotFound(d.Pages.NotFound)
	r.MethodNotAllowed(d.Pages.MethodNotAllowed)

	// Health checks
	r.Get("/health", d.Health.Health)
	r.Get("/health/live", d.Health.Liveness)
	r.Get("/health/ready", d.Health.Readiness)

	r.Get("/robots.txt", d.SEO.Robots)
	r.Get("/sitemap.xml", d.SEO.Sitemap)

	// Static assets
	r.With(middleware.StaticCache(staticMaxAge)).
		Handle("/static/*", http.StripPrefix("/static", http.FileServer(http.FS(web.StaticFS()))))

	contactLimiter := middleware.NewRateLimiter(cfg.ContactRate, cfg.ContactBurst)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NoStore)

		r.Get("/hero", d.Hero.Get)
		r.Put("/hero", d.Hero.Update)
		r.Post("/hero", d.Hero.Update) // HTML forms can't send PUT

		r.Get("/projects", d.Projects.List)
		r.Post("/projects/new", d.Projects.Create)
		r.Get("/projects/{id}", d.Projects.Get)
		r.Put("/projects/{id}", d.Projects.Update)
		r.Delete("/projects/{id}", d.Projects.Delete)

		r.Get("/github/contributions", d.GitHub.Contributions)

		// The handler answers every method so non-POST requests get the
		// contact form's own 405 body.
		r.With(contactLimiter.Middleware(http.HandlerFunc(d.Contact.RateLimited))).
			Handle("/contact-me", d.Contact)

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login", d.Auth.Login)
			r.Get("/callback", d.Auth.Callback)
			r.Get("/logout", d.Auth.Logout)
			r.Post("/logout", d.Auth.Logout)
			r.Get("/me", d.Auth.Me)
		})
	})

	// Pages
	r.Get("/", d.Pages.Home)
	r.Get("/projects", d.Pages.Projects)
	r.Get("/projects/new", d.Pages.NewProject)
	r.Get("/projects/{id}", d.Pages.Project)
	r.Get("/projects/{id}/edit", d.Pages.EditProject)
	r.Get("/contact", d.Pages.Contact)
	r.Get("/login", d.Pages.Login)
	r.Get("/dashboard", d.Pages.Dashboard)

	return r
}
