// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/nebula/internal/content"
	"github.com/olegiv/nebula/internal/render"
	"github.com/olegiv/nebula/internal/views"
	"github.com/olegiv/nebula/web"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()

	sub, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	r, err := render.New(render.Config{
		TemplatesFS: sub,
		Site: render.Site{
			Title:       "Test Site",
			Description: "Test description",
			URL:         "https://example.com",
			AuthorName:  "Tester",
		},
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return r
}

func writeContentFile(t *testing.T, dir, subdir, name, body string) {
	t.Helper()

	path := filepath.Join(dir, subdir)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(path, name), []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// testContentDir builds a content tree with two published posts, one
// draft, and two projects.
func testContentDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeContentFile(t, dir, "blog", "hello.md", `---
title: Hello World
slug: hello-world
date: 2024-01-15
tags: [go, web]
description: The first post
---

Some **markdown** body.
`)
	writeContentFile(t, dir, "blog", "second.md", `---
title: Second Post
slug: second-post
date: 2024-03-01
tags: [go]
---

Another post.
`)
	writeContentFile(t, dir, "blog", "draft.md", `---
title: Unfinished
slug: unfinished
date: 2024-04-01
draft: true
---

Not ready.
`)
	writeContentFile(t, dir, "projects", "nebula.md", `---
title: Nebula
slug: nebula
date: 2024-02-01
status: active
featured: true
github_url: https://github.com/example/nebula
---

A project page.
`)
	writeContentFile(t, dir, "projects", "older.md", `---
title: Older Thing
slug: older-thing
date: 2023-06-01
status: archived
---

An older project.
`)

	return dir
}

func testStore(t *testing.T, dir string) *content.Store {
	t.Helper()

	store, err := content.New(dir, testLogger())
	if err != nil {
		t.Fatalf("content.New: %v", err)
	}
	return store
}

// testFrontend wires a frontend handler over a fresh content tree and an
// in-memory view store.
func testFrontend(t *testing.T) (*Frontend, *views.Service) {
	t.Helper()

	dir := testContentDir(t)
	store := testStore(t, dir)

	svc := views.NewService(views.NewMemoryStore(), testLogger())
	recorder := views.NewRecorder(svc, testLogger(), views.DefaultRecorderConfig())
	recorder.Start()
	t.Cleanup(recorder.Stop)

	return NewFrontend(store, svc, recorder, testRenderer(t), dir, testLogger()), svc
}
