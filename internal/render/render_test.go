// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"io/fs"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/olegiv/nebula/web"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html><body>{{template "nav" .}}{{template "content" .}}</body></html>{{end}}`),
		},
		"partials/nav.html": &fstest.MapFile{
			Data: []byte(`{{define "nav"}}<nav>{{.Site.Title}}</nav>{{end}}`),
		},
		"pages/hello.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1><p>{{.Data}}</p>{{end}}`),
		},
	}
}

func TestRender(t *testing.T) {
	r, err := New(Config{
		TemplatesFS: testFS(),
		Site:        Site{Title: "Test Site", Description: "A test"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	err = r.Render(rec, 200, "hello", TemplateData{Title: "Hello", Data: "world"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<h1>Hello</h1>") {
		t.Errorf("body missing page content: %s", body)
	}
	if !strings.Contains(body, "<nav>Test Site</nav>") {
		t.Errorf("body missing partial: %s", body)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestRender_DefaultTitle(t *testing.T) {
	r, err := New(Config{
		TemplatesFS: testFS(),
		Site:        Site{Title: "Test Site"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := r.Render(rec, 200, "hello", TemplateData{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "<h1>Test Site</h1>") {
		t.Errorf("empty title did not fall back to site title: %s", rec.Body.String())
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := r.Render(rec, 200, "missing", TemplateData{}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestRender_EmbeddedTemplatesParse(t *testing.T) {
	sub, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}

	r, err := New(Config{
		TemplatesFS: sub,
		Site:        Site{Title: "Site", URL: "https://example.com"},
	})
	if err != nil {
		t.Fatalf("parsing embedded templates: %v", err)
	}

	for _, name := range []string{
		"home", "blog_list", "blog_post", "tag", "projects",
		"project", "resume", "contact", "contact_success", "error",
	} {
		if !r.Has(name) {
			t.Errorf("embedded page template %q not parsed", name)
		}
	}
}
