// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/olegiv/nebula/internal/config"
	"github.com/olegiv/nebula/internal/content"
	"github.com/olegiv/nebula/internal/handler"
	"github.com/olegiv/nebula/internal/logging"
	"github.com/olegiv/nebula/internal/mail"
	"github.com/olegiv/nebula/internal/middleware"
	"github.com/olegiv/nebula/internal/render"
	"github.com/olegiv/nebula/internal/turnstile"
	"github.com/olegiv/nebula/internal/version"
	"github.com/olegiv/nebula/internal/views"
	"github.com/olegiv/nebula/web"
)

// contactRPS throttles contact form submissions per client IP.
const (
	contactRPS   = 0.1
	contactBurst = 3
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Nebula - personal blog and portfolio server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEBULA_SERVER_PORT       Server port (default: 3000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEBULA_CONTENT_DIR       Markdown content directory (default: ./content)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEBULA_SITE_URL          Canonical site URL\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEBULA_REDIS_URL         Redis URL for view counting (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEBULA_ADMIN_SECRET      Secret for POST /admin/reload (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEBULA_RELOAD_CRON       Cron schedule for periodic content reload (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEBULA_RESEND_API_KEY    Resend API key for contact mail (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  NEBULA_TURNSTILE_SITE_KEY / NEBULA_TURNSTILE_SECRET_KEY\n")
		_, _ = fmt.Fprintf(os.Stderr, "                           Cloudflare Turnstile keys (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("nebula %s\n", version.Get())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger: text in development, JSON in production. Warn and
	// error records are retained for the health endpoint.
	opts := &slog.HandlerOptions{Level: logging.ParseLevel(cfg.LogLevel)}
	var base slog.Handler
	if cfg.IsDevelopment() {
		base = slog.NewTextHandler(os.Stdout, opts)
	} else {
		base = slog.NewJSONHandler(os.Stdout, opts)
	}
	recent := logging.NewRecentHandler(base, 0)
	logger := slog.New(recent)
	slog.SetDefault(logger)

	slog.Info("starting nebula",
		"version", version.Get(),
		"env", cfg.Env,
		"content_dir", cfg.ContentDir,
	)

	store, err := content.New(cfg.ContentDir, logger)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	// View counting is optional: without Redis, pages render without counts.
	var viewsSvc *views.Service
	var recorder *views.Recorder
	if cfg.ViewsEnabled() {
		redisStore, err := views.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() {
			if err := redisStore.Close(); err != nil {
				slog.Error("closing redis connection", "error", err)
			}
		}()

		viewsSvc = views.NewService(redisStore, logger)
		recorder = views.NewRecorder(viewsSvc, logger, views.DefaultRecorderConfig())
		recorder.Start()
		defer recorder.Stop()
		slog.Info("view counting enabled")
	} else {
		slog.Info("view counting disabled: NEBULA_REDIS_URL not set")
	}

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("embedded templates: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		Site: render.Site{
			Title:       cfg.SiteTitle,
			Description: cfg.SiteDescription,
			URL:         cfg.SiteURL,
			AuthorName:  cfg.AuthorName,
		},
	})
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	var mailer mail.Mailer
	if cfg.MailEnabled() {
		from := fmt.Sprintf("%s <%s>", cfg.SiteTitle, cfg.AuthorEmail)
		mailer = mail.NewResend(cfg.ResendAPIKey, from, cfg.ContactEmail, logger)
		slog.Info("contact mail delivery enabled", "to", cfg.ContactEmail)
	} else {
		mailer = mail.NewLog(logger)
		slog.Info("contact mail delivery disabled: messages are logged only")
	}

	verifier := turnstile.New(cfg.TurnstileSecretKey)
	if verifier.Enabled() {
		slog.Info("turnstile verification enabled")
	}

	frontend := handler.NewFrontend(store, viewsSvc, recorder, renderer, cfg.ContentDir, logger)
	contact := handler.NewContact(renderer, mailer, verifier, cfg.TurnstileSiteKey, logger)
	feeds := handler.NewFeeds(store, cfg.SiteURL, cfg.SiteTitle, cfg.SiteDescription, logger)
	admin := handler.NewAdmin(store, cfg.AdminSecret, logger)
	health := handler.NewHealth(store, viewsSvc, recent)

	contactLimiter := middleware.NewIPRateLimiter(contactRPS, contactBurst, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))

	r.Get("/", frontend.Home)
	r.Get("/blog", frontend.BlogList)
	r.Get("/blog/{slug}", frontend.BlogPost)
	r.Get("/blog/tags/{tag}", frontend.BlogTag)
	r.Get("/projects", frontend.ProjectsList)
	r.Get("/projects/{slug}", frontend.ProjectShow)
	r.Get("/resume", frontend.Resume)

	r.Get("/contact", contact.Show)
	r.With(contactLimiter.Middleware()).Post("/contact", contact.Submit)

	r.Get("/rss.xml", feeds.RSS)
	r.Get("/sitemap.xml", feeds.Sitemap)
	r.Get("/robots.txt", feeds.Robots)

	r.Get("/health", health.Health)
	r.Post("/admin/reload", admin.Reload)

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("embedded static files: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.NotFound(frontend.NotFound)

	// Optional periodic content reload
	if cfg.ReloadCron != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.ReloadCron, func() {
			if err := store.Reload(); err != nil {
				slog.Error("scheduled content reload failed", "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid NEBULA_RELOAD_CRON %q: %w", cfg.ReloadCron, err)
		}
		c.Start()
		defer func() {
			ctx := c.Stop()
			<-ctx.Done()
		}()
		slog.Info("scheduled content reload enabled", "schedule", cfg.ReloadCron)
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
