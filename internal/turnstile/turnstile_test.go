// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package turnstile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestVerify_Disabled(t *testing.T) {
	v := New("")
	if v.Enabled() {
		t.Fatal("verifier with empty key reports enabled")
	}

	resp, err := v.Verify(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !resp.Success {
		t.Error("disabled verifier should report success")
	}
}

func TestVerify_MissingResponse(t *testing.T) {
	v := New("secret")
	if _, err := v.Verify(context.Background(), "", "1.2.3.4"); err == nil {
		t.Error("expected error for empty response token")
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		success bool
	}{
		{"success", `{"success": true, "hostname": "example.com"}`, true},
		{"failure", `{"success": false, "error-codes": ["invalid-input-response"]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSecret, gotResponse, gotIP string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if err := r.ParseForm(); err != nil {
					t.Errorf("ParseForm: %v", err)
				}
				gotSecret = r.FormValue("secret")
				gotResponse = r.FormValue("response")
				gotIP = r.FormValue("remoteip")
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			v := New("test-secret")
			v.verifyURL = srv.URL

			resp, err := v.Verify(context.Background(), "token-123", "1.2.3.4")
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if resp.Success != tt.success {
				t.Errorf("Success = %v, want %v", resp.Success, tt.success)
			}
			if gotSecret != "test-secret" || gotResponse != "token-123" || gotIP != "1.2.3.4" {
				t.Errorf("form values: secret=%q response=%q remoteip=%q", gotSecret, gotResponse, gotIP)
			}
		})
	}
}
