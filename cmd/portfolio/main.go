// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/portfolio-go/internal/auth"
	"github.com/olegiv/portfolio-go/internal/cache"
	"github.com/olegiv/portfolio-go/internal/config"
	"github.com/olegiv/portfolio-go/internal/geoip"
	"github.com/olegiv/portfolio-go/internal/handler"
	"github.com/olegiv/portfolio-go/internal/imaging"
	"github.com/olegiv/portfolio-go/internal/logging"
	"github.com/olegiv/portfolio-go/internal/mail"
	"github.com/olegiv/portfolio-go/internal/model"
	"github.com/olegiv/portfolio-go/internal/render"
	"github.com/olegiv/portfolio-go/internal/scheduler"
	"github.com/olegiv/portfolio-go/internal/service"
	"github.com/olegiv/portfolio-go/internal/session"
	"github.com/olegiv/portfolio-go/internal/storage"
	"github.com/olegiv/portfolio-go/internal/store"
	"github.com/olegiv/portfolio-go/internal/version"
	"github.com/olegiv/portfolio-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	var opts transferOptions
	flag.StringVar(&opts.ExportPath, "export", "", "Write a JSON backup of the hero and projects to `file` and exit")
	flag.StringVar(&opts.ImportPath, "import", "", "Restore the hero and projects from a JSON backup `file` and exit")
	flag.BoolVar(&opts.Overwrite, "overwrite", false, "With -import, replace projects whose id already exists")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "With -import, validate and count without writing")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "portfolio - personal portfolio site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_SESSION_SECRET      Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_DB_PATH             SQLite database path (default: ./data/portfolio.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_SERVER_PORT         Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_ENV                 Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_BASE_URL            Public site URL (default: http://localhost:8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_AUTH_DOMAIN         Identity provider domain\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_RESEND_API_KEY      Resend API key for the contact form\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_REDIS_URL           Redis URL for caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTFOLIO_AVATAR_STORE        Avatar storage: datauri|s3 (default: datauri)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info, opts); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info, opts transferOptions) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db, cfg.BaseURL); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	appCache, err := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = appCache.Close() }()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis")
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	if opts.active() {
		return runTransfer(ctx, db, appCache, cfg.BaseURL, opts, logger)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	refs, err := newReferenceStore(ctx, cfg)
	if err != nil {
		return err
	}

	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	queries := store.New(db)
	ingest := service.NewAvatarIngest(imaging.NewProcessor(model.DefaultAvatarVariant), refs, tempDir, logger)
	heroService := service.NewHeroService(queries, ingest, appCache, cfg.CacheTTLDuration(), logger)
	projectService := service.NewProjectService(queries, appCache, cfg.CacheTTLDuration(), logger)

	mailer := mail.NewResendMailer(mail.Config{APIKey: cfg.ResendAPIKey, From: cfg.MailFrom, To: cfg.MailTo})
	if err := mailer.Configured(); err != nil {
		slog.Warn("contact email is not configured", "error", err)
	}
	contactService := service.NewContactService(mailer, logger)

	githubService := service.NewGitHubService(service.GitHubConfig{
		APIURL:          cfg.GitHubAPIURL,
		Token:           cfg.GitHubToken,
		DefaultUsername: cfg.GitHubUsername,
		CacheTTL:        cfg.GitHubCacheTTLDuration(),
	}, appCache, logger)

	geo, err := geoip.NewLookup(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("GeoIP lookups disabled", "error", err)
	}
	defer func() { _ = geo.Close() }()

	eventService := service.NewEventService(db)

	// An unconfigured provider must reach the handler as an untyped nil.
	var provider handler.IdentityProvider
	if p, err := auth.NewProvider(auth.Config{
		Domain:       cfg.AuthDomain,
		ClientID:     cfg.AuthClientID,
		ClientSecret: cfg.AuthClientSecret,
		BaseURL:      cfg.BaseURL,
	}); err != nil {
		slog.Warn("identity provider is not configured", "error", err)
	} else {
		provider = p
	}

	renderer, err := render.New(render.Config{TemplatesFS: web.TemplatesFS(), IsDev: cfg.IsDevelopment()})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	schedCfg := scheduler.Config{
		TempDir:    tempDir,
		TempPrefix: service.TempFilePrefix,
		Events:     eventService,
	}
	if geo.IsEnabled() {
		schedCfg.GeoIP = geo
	}
	sched := scheduler.New(schedCfg, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	router := newRouter(routerDeps{
		Config:   cfg,
		Logger:   logger,
		Sessions: sessionManager,
		Health:   handler.NewHealthHandler(db, appCache, tempDir, info.Short()),
		Hero:     handler.NewHeroHandler(heroService, logger),
		Projects: handler.NewProjectsHandler(projectService, logger),
		Contact:  handler.NewContactHandler(contactService, geo, logger),
		GitHub:   handler.NewGitHubHandler(githubService, logger),
		Auth:     handler.NewAuthHandler(sessionManager, provider, eventService, cfg.BaseURL, logger),
		Pages:    handler.NewPageHandler(renderer, heroService, projectService, logger),
		SEO:      handler.NewSEOHandler(heroService, projectService, cfg.BaseURL, cfg.IsDevelopment(), logger),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for avatar uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newReferenceStore picks where normalised avatars end up.
func newReferenceStore(ctx context.Context, cfg *config.Config) (service.ReferenceStore, error) {
	if cfg.AvatarStore != config.AvatarStoreS3 {
		return storage.DataURIStore{}, nil
	}

	s3, err := storage.NewS3Store(storage.S3Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		UseSSL:    cfg.S3.UseSSL,
		PublicURL: cfg.S3.PublicURL,
		Prefix:    "avatars/",
	})
	if err != nil {
		return nil, fmt.Errorf("initializing s3 store: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("checking s3 bucket: %w", err)
	}
	slog.Info("avatar store initialized", "backend", "s3", "bucket", cfg.S3.Bucket)
	return s3, nil
}
