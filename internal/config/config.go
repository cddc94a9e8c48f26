// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ServerHost string `env:"NEBULA_SERVER_HOST" envDefault:"0.0.0.0"`
	ServerPort int    `env:"NEBULA_SERVER_PORT" envDefault:"3000"`
	Env        string `env:"NEBULA_ENV" envDefault:"development"`
	LogLevel   string `env:"NEBULA_LOG_LEVEL" envDefault:"info"`

	// Content configuration
	ContentDir string `env:"NEBULA_CONTENT_DIR" envDefault:"./content"`
	ReloadCron string `env:"NEBULA_RELOAD_CRON"` // Optional cron schedule for periodic content reload

	// Site identity
	SiteURL         string `env:"NEBULA_SITE_URL" envDefault:"http://localhost:3000"`
	SiteTitle       string `env:"NEBULA_SITE_TITLE" envDefault:"Nebula"`
	SiteDescription string `env:"NEBULA_SITE_DESCRIPTION" envDefault:"Personal blog and project showcase"`
	AuthorName      string `env:"NEBULA_AUTHOR_NAME" envDefault:"Author"`
	AuthorEmail     string `env:"NEBULA_AUTHOR_EMAIL" envDefault:"author@example.com"`
	ContactEmail    string `env:"NEBULA_CONTACT_EMAIL"` // Falls back to AuthorEmail when empty

	// View counter storage
	RedisURL string `env:"NEBULA_REDIS_URL"` // Optional Redis URL; views are disabled when empty

	// Admin reload endpoint
	AdminSecret string `env:"NEBULA_ADMIN_SECRET"` // Reload is disabled when empty

	// Contact form mail delivery (Resend API)
	ResendAPIKey string `env:"NEBULA_RESEND_API_KEY"`

	// Cloudflare Turnstile CAPTCHA
	TurnstileSiteKey   string `env:"NEBULA_TURNSTILE_SITE_KEY"`
	TurnstileSecretKey string `env:"NEBULA_TURNSTILE_SECRET_KEY"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// ViewsEnabled returns true if Redis-backed view counting is configured.
func (c Config) ViewsEnabled() bool {
	return c.RedisURL != ""
}

// ReloadEnabled returns true if the admin reload endpoint is configured.
func (c Config) ReloadEnabled() bool {
	return c.AdminSecret != ""
}

// MailEnabled returns true if contact mail delivery is configured.
func (c Config) MailEnabled() bool {
	return c.ResendAPIKey != ""
}

// TurnstileEnabled returns true if Turnstile CAPTCHA is configured.
func (c Config) TurnstileEnabled() bool {
	return c.TurnstileSiteKey != "" && c.TurnstileSecretKey != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("NEBULA_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}

	if cfg.ContactEmail == "" {
		cfg.ContactEmail = cfg.AuthorEmail
	}

	return cfg, nil
}
