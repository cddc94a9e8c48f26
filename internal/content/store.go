// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/olegiv/nebula/internal/model"
	"github.com/olegiv/nebula/internal/util"
)

// Subdirectories of the content root scanned on load.
const (
	blogSubdir     = "blog"
	projectsSubdir = "projects"
)

// Snapshot is an immutable view of all loaded content. A snapshot is built
// fresh on every load and never mutated afterwards, so readers holding one
// can use it without locking.
type Snapshot struct {
	Posts    map[string]*model.Post
	Projects map[string]*model.Project
}

// Store holds the current content snapshot and supports atomic reloads.
// Many readers may query it concurrently; a reload builds a new snapshot
// outside the lock and swaps it in under a brief exclusive section.
type Store struct {
	dir    string
	logger *slog.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// New scans the content directory and returns a populated store.
// Individual files that fail to parse are logged and skipped; only an
// unreadable directory fails the load.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	snap, err := loadSnapshot(dir, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("content loaded",
		"posts", len(snap.Posts),
		"projects", len(snap.Projects),
	)

	return &Store{dir: dir, logger: logger, snap: snap}, nil
}

// Reload re-scans the content directory and atomically replaces the current
// snapshot. The disk scan happens entirely outside the lock; only the final
// pointer swap is exclusive, so in-flight readers see either the complete
// old or complete new content set. On failure the old snapshot stays
// authoritative.
func (s *Store) Reload() error {
	snap, err := loadSnapshot(s.dir, s.logger)
	if err != nil {
		return fmt.Errorf("reloading content: %w", err)
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.logger.Info("content reloaded",
		"posts", len(snap.Posts),
		"projects", len(snap.Projects),
	)
	return nil
}

// Snapshot returns the current content snapshot. Callers that issue several
// queries for one page should query a single snapshot so all of them observe
// the same content generation.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Post returns the post with the given slug, drafts included.
func (snap *Snapshot) Post(slug string) (*model.Post, bool) {
	p, ok := snap.Posts[slug]
	return p, ok
}

// Project returns the project with the given slug.
func (snap *Snapshot) Project(slug string) (*model.Project, bool) {
	p, ok := snap.Projects[slug]
	return p, ok
}

// PublishedPosts returns all non-draft posts sorted by date descending.
// Ties are broken by slug so the order is stable across calls.
func (snap *Snapshot) PublishedPosts() []*model.Post {
	posts := make([]*model.Post, 0, len(snap.Posts))
	for _, p := range snap.Posts {
		if !p.Meta.Draft {
			posts = append(posts, p)
		}
	}
	sortPostsByDate(posts)
	return posts
}

// PostsByTag returns published posts carrying the given tag, matched
// case-insensitively, sorted by date descending.
func (snap *Snapshot) PostsByTag(tag string) []*model.Post {
	var posts []*model.Post
	for _, p := range snap.Posts {
		if !p.Meta.Draft && p.Meta.HasTag(tag) {
			posts = append(posts, p)
		}
	}
	sortPostsByDate(posts)
	return posts
}

// AllTags returns the distinct tags across published posts, case-preserved,
// sorted alphabetically. Tags differing only in case are kept separately;
// deduplication is exact-string.
func (snap *Snapshot) AllTags() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, p := range snap.Posts {
		if p.Meta.Draft {
			continue
		}
		for _, tag := range p.Meta.Tags {
			if _, ok := seen[tag]; !ok {
				seen[tag] = struct{}{}
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// AllProjects returns all projects sorted by date descending.
func (snap *Snapshot) AllProjects() []*model.Project {
	projects := make([]*model.Project, 0, len(snap.Projects))
	for _, p := range snap.Projects {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		if !projects[i].Meta.Date.Equal(projects[j].Meta.Date.Time) {
			return projects[i].Meta.Date.After(projects[j].Meta.Date.Time)
		}
		return projects[i].Meta.Slug < projects[j].Meta.Slug
	})
	return projects
}

// FeaturedProjects returns featured projects sorted by date descending.
func (snap *Snapshot) FeaturedProjects() []*model.Project {
	var featured []*model.Project
	for _, p := range snap.AllProjects() {
		if p.Meta.Featured {
			featured = append(featured, p)
		}
	}
	return featured
}

func sortPostsByDate(posts []*model.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Meta.Date.Equal(posts[j].Meta.Date.Time) {
			return posts[i].Meta.Date.After(posts[j].Meta.Date.Time)
		}
		return posts[i].Meta.Slug < posts[j].Meta.Slug
	})
}

// loadSnapshot builds a fresh snapshot from the content directory.
func loadSnapshot(dir string, logger *slog.Logger) (*Snapshot, error) {
	posts, err := loadPosts(filepath.Join(dir, blogSubdir), logger)
	if err != nil {
		return nil, err
	}

	projects, err := loadProjects(filepath.Join(dir, projectsSubdir), logger)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Posts: posts, Projects: projects}, nil
}

// loadPosts parses all markdown files in dir into posts keyed by slug.
// A missing directory yields an empty map. Duplicate slugs overwrite
// silently; the last file processed wins.
func loadPosts(dir string, logger *slog.Logger) (map[string]*model.Post, error) {
	posts := make(map[string]*model.Post)

	err := eachMarkdownFile(dir, func(path string, raw string) {
		meta, body, err := parseFrontmatter[model.PostMeta](raw)
		if err != nil {
			logger.Warn("skipping post with invalid frontmatter", "path", path, "error", err)
			return
		}
		if meta.Slug == "" {
			meta.Slug = util.Slugify(meta.Title)
		}
		if meta.Slug == "" {
			logger.Warn("skipping post without slug or title", "path", path)
			return
		}

		posts[meta.Slug] = &model.Post{
			Meta:        meta,
			Raw:         body,
			HTML:        RenderMarkdown(body),
			ReadingTime: model.EstimateReadingTime(body),
		}
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// loadProjects parses all markdown files in dir into projects keyed by slug.
func loadProjects(dir string, logger *slog.Logger) (map[string]*model.Project, error) {
	projects := make(map[string]*model.Project)

	err := eachMarkdownFile(dir, func(path string, raw string) {
		meta, body, err := parseFrontmatter[model.ProjectMeta](raw)
		if err != nil {
			logger.Warn("skipping project with invalid frontmatter", "path", path, "error", err)
			return
		}
		if meta.Slug == "" {
			meta.Slug = util.Slugify(meta.Title)
		}
		if meta.Slug == "" {
			logger.Warn("skipping project without slug or title", "path", path)
			return
		}

		projects[meta.Slug] = &model.Project{
			Meta: meta,
			Raw:  body,
			HTML: RenderMarkdown(body),
		}
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// eachMarkdownFile calls fn with the contents of every .md file in dir.
// A missing directory is not an error; any other scan failure is.
func eachMarkdownFile(dir string, fn func(path, raw string)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("scanning %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		fn(path, string(raw))
	}
	return nil
}
