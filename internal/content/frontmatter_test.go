// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"errors"
	"testing"
	"time"

	"github.com/olegiv/nebula/internal/model"
)

const jsonPost = `---
{
  "title": "Hello",
  "slug": "hello",
  "description": "First post",
  "date": "2025-03-01T12:00:00Z",
  "tags": ["go", "web"],
  "draft": false
}
---

Body text here.`

const simplePost = `---
title: Hello Again
slug: hello-again
date: 2025-04-01
tags: [go, redis]
draft: true
# a comment line
---

Second body.`

func TestParseFrontmatter_StrictJSON(t *testing.T) {
	meta, body, err := parseFrontmatter[model.PostMeta](jsonPost)
	if err != nil {
		t.Fatalf("parseFrontmatter error: %v", err)
	}

	if meta.Title != "Hello" || meta.Slug != "hello" {
		t.Errorf("meta = %+v, want title/slug set", meta)
	}
	if want := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC); !meta.Date.Equal(want) {
		t.Errorf("date = %v, want %v", meta.Date.Time, want)
	}
	if len(meta.Tags) != 2 || meta.Tags[0] != "go" {
		t.Errorf("tags = %v, want [go web]", meta.Tags)
	}
	if body != "Body text here." {
		t.Errorf("body = %q", body)
	}
}

func TestParseFrontmatter_PermissiveFallback(t *testing.T) {
	meta, body, err := parseFrontmatter[model.PostMeta](simplePost)
	if err != nil {
		t.Fatalf("parseFrontmatter error: %v", err)
	}

	if meta.Title != "Hello Again" {
		t.Errorf("title = %q", meta.Title)
	}
	if !meta.Draft {
		t.Error("draft = false, want true")
	}
	if want := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC); !meta.Date.Equal(want) {
		t.Errorf("date = %v, want %v", meta.Date.Time, want)
	}
	if len(meta.Tags) != 2 || meta.Tags[1] != "redis" {
		t.Errorf("tags = %v, want [go redis]", meta.Tags)
	}
	if body != "Second body." {
		t.Errorf("body = %q", body)
	}
}

func TestParseFrontmatter_ProjectStatus(t *testing.T) {
	raw := `---
title: Demo
slug: demo
date: 2025-01-15
status: Completed
featured: true
tags: []
---
Project body.`

	meta, _, err := parseFrontmatter[model.ProjectMeta](raw)
	if err != nil {
		t.Fatalf("parseFrontmatter error: %v", err)
	}
	if meta.Status != model.StatusCompleted {
		t.Errorf("status = %q, want %q", meta.Status, model.StatusCompleted)
	}
	if !meta.Featured {
		t.Error("featured = false, want true")
	}
}

func TestParseFrontmatter_Errors(t *testing.T) {
	if _, _, err := parseFrontmatter[model.PostMeta]("no header at all"); !errors.Is(err, ErrMissingFrontmatter) {
		t.Errorf("error = %v, want ErrMissingFrontmatter", err)
	}

	if _, _, err := parseFrontmatter[model.PostMeta]("---\ntitle: x\nbody"); !errors.Is(err, ErrUnclosedFrontmatter) {
		t.Errorf("error = %v, want ErrUnclosedFrontmatter", err)
	}

	bad := "---\ntitle: x\nslug: x\ndate: yesterday\n---\nbody"
	if _, _, err := parseFrontmatter[model.PostMeta](bad); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestParseSimpleHeader_QuotedValues(t *testing.T) {
	fields := parseSimpleHeader(`title: "Quoted Title"
tags: ["a", 'b']
empty_list: []`)

	if fields["title"] != "Quoted Title" {
		t.Errorf("title = %v", fields["title"])
	}
	tags, ok := fields["tags"].([]string)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tags = %v", fields["tags"])
	}
	empty, ok := fields["empty_list"].([]string)
	if !ok || len(empty) != 0 {
		t.Errorf("empty_list = %v", fields["empty_list"])
	}
}
