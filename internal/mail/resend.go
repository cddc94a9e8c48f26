// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail delivers contact form messages via the Resend HTTP API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	defaultAPIURL = "https://api.resend.com/emails"
	sendTimeout   = 15 * time.Second
)

// Message is a contact form submission.
type Message struct {
	ID    uuid.UUID
	Name  string
	Email string
	Body  string
}

// NewMessage builds a Message with a fresh ID.
func NewMessage(name, email, body string) Message {
	return Message{
		ID:    uuid.New(),
		Name:  name,
		Email: email,
		Body:  body,
	}
}

// Mailer delivers contact messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// sendRequest is the Resend API payload.
type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// ResendMailer sends messages through the Resend HTTP API.
type ResendMailer struct {
	apiKey string
	apiURL string
	from   string
	to     string
	client *http.Client
	logger *slog.Logger
}

// NewResend creates a ResendMailer. from is the sender address registered
// with Resend, to is the site owner's inbox.
func NewResend(apiKey, from, to string, logger *slog.Logger) *ResendMailer {
	return &ResendMailer{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		from:   from,
		to:     to,
		client: &http.Client{Timeout: sendTimeout},
		logger: logger,
	}
}

// Send delivers the message. Non-2xx API responses are errors.
func (m *ResendMailer) Send(ctx context.Context, msg Message) error {
	payload := sendRequest{
		From:    m.from,
		To:      []string{m.to},
		Subject: fmt.Sprintf("Contact form: %s", msg.Name),
		Text:    fmt.Sprintf("From: %s <%s>\nMessage ID: %s\n\n%s", msg.Name, msg.Email, msg.ID, msg.Body),
		ReplyTo: msg.Email,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mail API returned %d: %s", resp.StatusCode, errBody)
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.ID != "" {
		m.logger.Info("contact mail sent", "message_id", msg.ID, "provider_id", result.ID)
	} else {
		m.logger.Info("contact mail sent", "message_id", msg.ID)
	}
	return nil
}

// LogMailer records messages in the log without sending anything. It is
// the delivery path when no API key is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLog creates a LogMailer.
func NewLog(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("contact message received (mail delivery not configured)",
		"message_id", msg.ID,
		"name", msg.Name,
		"email", msg.Email,
		"length", len(msg.Body),
	)
	return nil
}
