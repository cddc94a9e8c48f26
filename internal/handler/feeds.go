// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/xml"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/nebula/internal/content"
	"github.com/olegiv/nebula/internal/seo"
)

// rssItemCount is how many posts the RSS feed carries.
const rssItemCount = 20

// FeedsHandler serves the RSS feed, sitemap, and robots.txt.
type FeedsHandler struct {
	store           *content.Store
	siteURL         string
	siteTitle       string
	siteDescription string
	logger          *slog.Logger
}

// NewFeeds creates the feeds handler.
func NewFeeds(store *content.Store, siteURL, siteTitle, siteDescription string, logger *slog.Logger) *FeedsHandler {
	return &FeedsHandler{
		store:           store,
		siteURL:         siteURL,
		siteTitle:       siteTitle,
		siteDescription: siteDescription,
		logger:          logger,
	}
}

// rssFeed is the RSS 2.0 document root.
type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description,omitempty"`
	PubDate     string `xml:"pubDate"`
}

// RSS handles GET /rss.xml with the newest published posts.
func (h *FeedsHandler) RSS(w http.ResponseWriter, r *http.Request) {
	posts := h.store.Snapshot().PublishedPosts()
	if len(posts) > rssItemCount {
		posts = posts[:rssItemCount]
	}

	channel := rssChannel{
		Title:       h.siteTitle,
		Link:        h.siteURL,
		Description: h.siteDescription,
		Language:    "en",
	}
	if len(posts) > 0 {
		channel.LastBuildDate = posts[0].Meta.Date.Format(time.RFC1123Z)
	}

	for _, p := range posts {
		link := h.siteURL + "/blog/" + p.Meta.Slug
		channel.Items = append(channel.Items, rssItem{
			Title:       p.Meta.Title,
			Link:        link,
			GUID:        link,
			Description: p.Meta.Description,
			PubDate:     p.Meta.Date.Format(time.RFC1123Z),
		})
	}

	out, err := xml.MarshalIndent(rssFeed{Version: "2.0", Channel: channel}, "", "  ")
	if err != nil {
		h.logger.Error("building rss feed failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}

// Sitemap handles GET /sitemap.xml covering static pages, posts, and
// projects. lastmod is the updated date when set, the publish date otherwise.
func (h *FeedsHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Snapshot()

	b := seo.NewSitemapBuilder(h.siteURL)
	for _, path := range []string{"/", "/blog", "/projects", "/resume", "/contact"} {
		b.AddStatic(path)
	}
	for _, p := range snap.PublishedPosts() {
		b.AddPost(seo.SitemapEntry{
			Path:      "/blog/" + p.Meta.Slug,
			UpdatedAt: p.Meta.LastModified().Time,
		})
	}
	for _, p := range snap.AllProjects() {
		b.AddProject(seo.SitemapEntry{
			Path:      "/projects/" + p.Meta.Slug,
			UpdatedAt: p.Meta.LastModified().Time,
		})
	}

	out, err := b.Build()
	if err != nil {
		h.logger.Error("building sitemap failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// Robots handles GET /robots.txt.
func (h *FeedsHandler) Robots(w http.ResponseWriter, r *http.Request) {
	b := seo.NewRobotsBuilder(seo.RobotsConfig{SiteURL: h.siteURL})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(b.Build()))
}
