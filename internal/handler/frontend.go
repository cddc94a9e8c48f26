// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the application.
package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/nebula/internal/content"
	"github.com/olegiv/nebula/internal/model"
	"github.com/olegiv/nebula/internal/render"
	"github.com/olegiv/nebula/internal/util"
	"github.com/olegiv/nebula/internal/views"
)

// homePostCount is how many recent posts the home page lists.
const homePostCount = 5

// PostItem pairs a post with its view count for list templates.
type PostItem struct {
	Post     *model.Post
	Views    uint64
	HasViews bool
}

// Frontend handles the public site pages.
type Frontend struct {
	store    *content.Store
	views    *views.Service  // nil when view counting is disabled
	recorder *views.Recorder // nil when view counting is disabled
	renderer *render.Renderer
	logger   *slog.Logger

	// resumePath is an optional markdown file rendered on the resume
	// page when present.
	resumePath string
}

// NewFrontend creates the frontend handler. viewsSvc and recorder may be
// nil, in which case pages render without view counts.
func NewFrontend(store *content.Store, viewsSvc *views.Service, recorder *views.Recorder, renderer *render.Renderer, contentDir string, logger *slog.Logger) *Frontend {
	return &Frontend{
		store:      store,
		views:      viewsSvc,
		recorder:   recorder,
		renderer:   renderer,
		logger:     logger,
		resumePath: filepath.Join(contentDir, "pages", "resume.md"),
	}
}

// Home handles GET /.
func (h *Frontend) Home(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()

	posts := snap.PublishedPosts()
	if len(posts) > homePostCount {
		posts = posts[:homePostCount]
	}

	data := struct {
		RecentPosts      []PostItem
		FeaturedProjects []*model.Project
	}{
		RecentPosts:      h.postItems(r, posts),
		FeaturedProjects: snap.FeaturedProjects(),
	}

	h.render(w, r, http.StatusOK, "home", render.TemplateData{
		Path: "/",
		Data: data,
	})
}

// BlogList handles GET /blog.
func (h *Frontend) BlogList(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()

	data := struct {
		Posts []PostItem
		Tags  []string
	}{
		Posts: h.postItems(r, snap.PublishedPosts()),
		Tags:  snap.AllTags(),
	}

	h.render(w, r, http.StatusOK, "blog_list", render.TemplateData{
		Title: "Blog",
		Path:  "/blog",
		Data:  data,
	})
}

// BlogPost handles GET /blog/{slug}.
func (h *Frontend) BlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.ValidSlug(slug) {
		h.NotFound(w, r)
		return
	}

	post, ok := h.store.Snapshot().Post(slug)
	if !ok || post.Meta.Draft {
		h.NotFound(w, r)
		return
	}

	h.recordView(r, views.TypePost, slug)
	count, hasCount := h.count(r, views.TypePost, slug)

	data := struct {
		Post     *model.Post
		Views    uint64
		HasViews bool
	}{
		Post:     post,
		Views:    count,
		HasViews: hasCount,
	}

	h.render(w, r, http.StatusOK, "blog_post", render.TemplateData{
		Title:       post.Meta.Title,
		Description: post.Meta.Description,
		Path:        "/blog/" + slug,
		Data:        data,
	})
}

// BlogTag handles GET /blog/tags/{tag}. The URL segment is the slugified
// tag; it is resolved back to the stored tag before lookup.
func (h *Frontend) BlogTag(w http.ResponseWriter, r *http.Request) {
	param := chi.URLParam(r, "tag")
	snap := h.store.Snapshot()

	tag := param
	for _, t := range snap.AllTags() {
		if util.Slugify(t) == param {
			tag = t
			break
		}
	}

	posts := snap.PostsByTag(tag)
	if len(posts) == 0 {
		h.NotFound(w, r)
		return
	}

	data := struct {
		Tag   string
		Posts []PostItem
	}{
		Tag:   tag,
		Posts: h.postItems(r, posts),
	}

	h.render(w, r, http.StatusOK, "tag", render.TemplateData{
		Title: "Posts tagged " + tag,
		Path:  "/blog/tags/" + param,
		Data:  data,
	})
}

// ProjectsList handles GET /projects.
func (h *Frontend) ProjectsList(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Projects []*model.Project
	}{
		Projects: h.store.Snapshot().AllProjects(),
	}

	h.render(w, r, http.StatusOK, "projects", render.TemplateData{
		Title: "Projects",
		Path:  "/projects",
		Data:  data,
	})
}

// ProjectShow handles GET /projects/{slug}.
func (h *Frontend) ProjectShow(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !util.ValidSlug(slug) {
		h.NotFound(w, r)
		return
	}

	project, ok := h.store.Snapshot().Project(slug)
	if !ok {
		h.NotFound(w, r)
		return
	}

	h.recordView(r, views.TypeProject, slug)
	count, hasCount := h.count(r, views.TypeProject, slug)

	data := struct {
		Project  *model.Project
		Views    uint64
		HasViews bool
	}{
		Project:  project,
		Views:    count,
		HasViews: hasCount,
	}

	h.render(w, r, http.StatusOK, "project", render.TemplateData{
		Title:       project.Meta.Title,
		Description: project.Meta.Description,
		Path:        "/projects/" + slug,
		Data:        data,
	})
}

// Resume handles GET /resume. The page body comes from an optional
// markdown file under the content directory.
func (h *Frontend) Resume(w http.ResponseWriter, r *http.Request) {
	var body template.HTML
	if raw, err := os.ReadFile(h.resumePath); err == nil {
		body = content.RenderMarkdown(string(raw))
	}

	data := struct {
		HTML template.HTML
	}{HTML: body}

	h.render(w, r, http.StatusOK, "resume", render.TemplateData{
		Title: "Resume",
		Path:  "/resume",
		Data:  data,
	})
}

// NotFound renders the 404 page.
func (h *Frontend) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, "Page not found")
}

// renderError renders the error page with the given status.
func (h *Frontend) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	data := struct {
		Code    int
		Message string
	}{Code: status, Message: message}

	err := h.renderer.Render(w, status, "error", render.TemplateData{
		Title: http.StatusText(status),
		Data:  data,
	})
	if err != nil {
		h.logger.Error("rendering error page failed", "error", err)
		http.Error(w, message, status)
	}
}

func (h *Frontend) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	if err := h.renderer.Render(w, status, name, data); err != nil {
		h.logger.Error("rendering page failed", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// recordView queues a background view recording for the request.
func (h *Frontend) recordView(r *http.Request, ct views.ContentType, slug string) {
	if h.recorder == nil {
		return
	}
	h.recorder.Enqueue(views.View{
		Type:      ct,
		Slug:      slug,
		IP:        views.ClientIP(r),
		UserAgent: views.UserAgent(r),
	})
}

// count fetches the view count for display. Failures degrade to no count.
func (h *Frontend) count(r *http.Request, ct views.ContentType, slug string) (uint64, bool) {
	if h.views == nil {
		return 0, false
	}
	n, err := h.views.Count(r.Context(), ct, slug)
	if err != nil {
		h.logger.Warn("fetching view count failed", "type", ct, "slug", slug, "error", err)
		return 0, false
	}
	return n, true
}

// postItems attaches view counts to posts in a single store round-trip.
// Count failures degrade to lists without counts.
func (h *Frontend) postItems(r *http.Request, posts []*model.Post) []PostItem {
	items := make([]PostItem, len(posts))
	for i, p := range posts {
		items[i] = PostItem{Post: p}
	}
	if h.views == nil || len(posts) == 0 {
		return items
	}

	slugs := make([]string, len(posts))
	for i, p := range posts {
		slugs[i] = p.Meta.Slug
	}

	counts, err := h.views.Counts(r.Context(), views.TypePost, slugs)
	if err != nil {
		h.logger.Warn("fetching view counts failed", "error", err)
		return items
	}
	for i := range items {
		items[i].Views = counts[i]
		items[i].HasViews = true
	}
	return items
}
