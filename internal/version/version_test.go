// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import (
	"strings"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	// Before ldflags injection the package falls back to dev values.
	info := Get()

	if info.Version != "dev" {
		t.Errorf("Version = %q, want %q", info.Version, "dev")
	}
	if info.GitCommit != "unknown" {
		t.Errorf("GitCommit = %q, want %q", info.GitCommit, "unknown")
	}
	if info.BuildTime != "unknown" {
		t.Errorf("BuildTime = %q, want %q", info.BuildTime, "unknown")
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "v1.2.0",
		GitCommit: "abc1234",
		BuildTime: "2025-11-30T12:00:00Z",
	}

	s := info.String()
	for _, want := range []string{"v1.2.0", "abc1234", "2025-11-30T12:00:00Z"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
