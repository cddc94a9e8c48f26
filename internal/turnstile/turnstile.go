// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package turnstile verifies Cloudflare Turnstile challenge tokens.
package turnstile

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// Cloudflare Turnstile verification endpoint
	defaultVerifyURL = "https://challenges.cloudflare.com/turnstile/v0/siteverify"
	// Timeout for verification requests
	verifyTimeout = 10 * time.Second
)

// ResponseField is the form field Turnstile widgets submit the token in.
const ResponseField = "cf-turnstile-response"

// VerifyResponse represents the Turnstile siteverify API response.
type VerifyResponse struct {
	Success     bool      `json:"success"`
	ChallengeTS time.Time `json:"challenge_ts"`
	Hostname    string    `json:"hostname"`
	ErrorCodes  []string  `json:"error-codes"`
}

// Verifier checks Turnstile tokens against the siteverify API.
// The zero value is a disabled verifier that accepts everything.
type Verifier struct {
	secretKey string
	verifyURL string
	client    *http.Client
}

// New creates a Verifier. An empty secret key disables verification.
func New(secretKey string) *Verifier {
	return &Verifier{
		secretKey: secretKey,
		verifyURL: defaultVerifyURL,
		client:    &http.Client{Timeout: verifyTimeout},
	}
}

// NewWithURL creates a Verifier against a custom siteverify endpoint,
// for tests and local stubs.
func NewWithURL(secretKey, verifyURL string) *Verifier {
	v := New(secretKey)
	v.verifyURL = verifyURL
	return v
}

// Enabled reports whether a secret key is configured.
func (v *Verifier) Enabled() bool {
	return v.secretKey != ""
}

// Verify checks the Turnstile response token. When the verifier is
// disabled it reports success without a network call.
func (v *Verifier) Verify(ctx context.Context, response, remoteIP string) (*VerifyResponse, error) {
	if !v.Enabled() {
		return &VerifyResponse{Success: true}, nil
	}

	if response == "" {
		return nil, fmt.Errorf("missing challenge response")
	}

	data := url.Values{}
	data.Set("secret", v.secretKey)
	data.Set("response", response)
	if remoteIP != "" {
		data.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("challenge verification request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var result VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse verification response: %w", err)
	}

	return &result, nil
}
