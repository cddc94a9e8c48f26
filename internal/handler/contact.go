// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	nmail "github.com/olegiv/nebula/internal/mail"
	"github.com/olegiv/nebula/internal/render"
	"github.com/olegiv/nebula/internal/turnstile"
	"github.com/olegiv/nebula/internal/views"
)

const (
	maxNameLength    = 100
	maxEmailLength   = 254
	maxMessageLength = 5000

	// honeypotField is a hidden form field real users never fill in.
	honeypotField = "website"
)

// ContactHandler handles the contact form.
type ContactHandler struct {
	renderer *render.Renderer
	mailer   nmail.Mailer
	verifier *turnstile.Verifier
	siteKey  string
	logger   *slog.Logger
}

// NewContact creates the contact form handler.
func NewContact(renderer *render.Renderer, mailer nmail.Mailer, verifier *turnstile.Verifier, siteKey string, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		renderer: renderer,
		mailer:   mailer,
		verifier: verifier,
		siteKey:  siteKey,
		logger:   logger,
	}
}

// contactForm holds form values for validation and re-display.
type contactForm struct {
	Name             string
	Email            string
	Message          string
	Error            string
	TurnstileSiteKey string
}

// Show handles GET /contact.
func (h *ContactHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, http.StatusOK, contactForm{TurnstileSiteKey: h.siteKey})
}

// Submit handles POST /contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("parsing contact form failed", "error", err)
		h.renderForm(w, http.StatusBadRequest, contactForm{
			Error:            "Something went wrong. Please try again.",
			TurnstileSiteKey: h.siteKey,
		})
		return
	}

	form := contactForm{
		Name:             strings.TrimSpace(r.PostFormValue("name")),
		Email:            strings.TrimSpace(r.PostFormValue("email")),
		Message:          strings.TrimSpace(r.PostFormValue("message")),
		TurnstileSiteKey: h.siteKey,
	}

	// Bots fill every field. Pretend success and deliver nothing.
	if r.PostFormValue(honeypotField) != "" {
		h.logger.Info("contact honeypot triggered", "ip", views.ClientIP(r))
		h.renderSuccess(w)
		return
	}

	if msg := validateContactForm(form); msg != "" {
		form.Error = msg
		h.renderForm(w, http.StatusUnprocessableEntity, form)
		return
	}

	if h.verifier != nil && h.verifier.Enabled() {
		token := r.PostFormValue(turnstile.ResponseField)
		result, err := h.verifier.Verify(r.Context(), token, views.ClientIP(r))
		if err != nil {
			h.logger.Error("turnstile verification error", "error", err)
			form.Error = "Verification failed. Please try again."
			h.renderForm(w, http.StatusUnprocessableEntity, form)
			return
		}
		if !result.Success {
			h.logger.Warn("turnstile verification rejected",
				"error_codes", result.ErrorCodes,
				"ip", views.ClientIP(r),
			)
			form.Error = "Verification failed. Please complete the challenge."
			h.renderForm(w, http.StatusUnprocessableEntity, form)
			return
		}
	}

	msg := nmail.NewMessage(form.Name, form.Email, form.Message)
	if err := h.mailer.Send(r.Context(), msg); err != nil {
		h.logger.Error("sending contact mail failed", "message_id", msg.ID, "error", err)
		form.Error = "Could not send your message. Please try again later."
		h.renderForm(w, http.StatusInternalServerError, form)
		return
	}

	h.logger.Info("contact message delivered", "message_id", msg.ID)
	h.renderSuccess(w)
}

// validateContactForm returns a user-facing message for the first
// validation failure, or "" when the form is acceptable.
func validateContactForm(form contactForm) string {
	if form.Name == "" {
		return "Please enter your name."
	}
	if len(form.Name) > maxNameLength {
		return "Name is too long."
	}
	if form.Email == "" {
		return "Please enter your email address."
	}
	if len(form.Email) > maxEmailLength {
		return "Email address is too long."
	}
	if _, err := mail.ParseAddress(form.Email); err != nil {
		return "Please enter a valid email address."
	}
	if form.Message == "" {
		return "Please enter a message."
	}
	if len(form.Message) > maxMessageLength {
		return "Message is too long."
	}
	return ""
}

func (h *ContactHandler) renderForm(w http.ResponseWriter, status int, form contactForm) {
	err := h.renderer.Render(w, status, "contact", render.TemplateData{
		Title: "Contact",
		Path:  "/contact",
		Data:  form,
	})
	if err != nil {
		h.logger.Error("rendering contact form failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *ContactHandler) renderSuccess(w http.ResponseWriter) {
	err := h.renderer.Render(w, http.StatusOK, "contact_success", render.TemplateData{
		Title: "Message sent",
		Path:  "/contact",
	})
	if err != nil {
		h.logger.Error("rendering contact success failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
