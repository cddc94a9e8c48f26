// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds sitemap.xml and robots.txt documents for the site.
package seo

import (
	"encoding/xml"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapEntry contains the data needed to add a content page to the sitemap.
type SitemapEntry struct {
	Path      string // URL path below the site root, e.g. "/blog/hello"
	UpdatedAt time.Time
}

// SitemapBuilder builds sitemap XML for static pages, posts, and projects.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: siteURL,
		urls:    make([]SitemapURL, 0),
	}
}

// AddStatic adds a static page (home, blog index, contact, ...).
func (b *SitemapBuilder) AddStatic(path string) {
	priority := "0.8"
	if path == "" || path == "/" {
		path = ""
		priority = "1.0"
	}
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + path,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   priority,
	})
}

// AddPost adds a blog post entry.
func (b *SitemapBuilder) AddPost(entry SitemapEntry) {
	b.add(entry, "0.7")
}

// AddProject adds a project page entry.
func (b *SitemapBuilder) AddProject(entry SitemapEntry) {
	b.add(entry, "0.6")
}

func (b *SitemapBuilder) add(entry SitemapEntry, priority string) {
	url := SitemapURL{
		Loc:        b.siteURL + entry.Path,
		ChangeFreq: ChangeFreqMonthly,
		Priority:   priority,
	}
	if !entry.UpdatedAt.IsZero() {
		url.LastMod = entry.UpdatedAt.Format("2006-01-02")
	}
	b.urls = append(b.urls, url)
}

// Build generates the sitemap XML document.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	out, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
