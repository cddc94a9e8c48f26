// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

// ProjectStatus is the development status of a project.
type ProjectStatus string

// Valid project status values.
const (
	StatusActive    ProjectStatus = "active"
	StatusCompleted ProjectStatus = "completed"
	StatusArchived  ProjectStatus = "archived"
	StatusPlanned   ProjectStatus = "planned"
)

// Valid reports whether the status is one of the known values.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusArchived, StatusPlanned:
		return true
	}
	return false
}

// Label returns the status with the first letter capitalized, for display.
func (s ProjectStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[0])) + string(s[1:])
}

// UnmarshalJSON implements json.Unmarshaler, accepting any casing.
func (s *ProjectStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	status := ProjectStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return fmt.Errorf("unknown project status %q", raw)
	}
	*s = status
	return nil
}

// ProjectMeta is the project metadata parsed from frontmatter.
type ProjectMeta struct {
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	Date        Time          `json:"date"`
	Updated     *Time         `json:"updated,omitempty"`
	Tags        []string      `json:"tags"`
	Status      ProjectStatus `json:"status"`
	GitHubURL   string        `json:"github_url,omitempty"`
	DemoURL     string        `json:"demo_url,omitempty"`
	Featured    bool          `json:"featured"`
}

// Project is a complete project page with rendered content.
type Project struct {
	Meta ProjectMeta
	Raw  string
	HTML template.HTML
}

// LastModified returns the updated date when set, the project date otherwise.
func (m ProjectMeta) LastModified() Time {
	if m.Updated != nil && !m.Updated.IsZero() {
		return *m.Updated
	}
	return m.Date
}
