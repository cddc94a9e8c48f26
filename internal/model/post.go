// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"html/template"
	"math"
	"strings"
)

// wordsPerMinute is the reading speed used for reading time estimates.
const wordsPerMinute = 200

// PostMeta is the blog post metadata parsed from frontmatter.
type PostMeta struct {
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description,omitempty"`
	Date        Time     `json:"date"`
	Updated     *Time    `json:"updated,omitempty"`
	Tags        []string `json:"tags"`
	Draft       bool     `json:"draft"`
	CoverImage  string   `json:"cover_image,omitempty"`
}

// Post is a complete blog post with rendered content.
type Post struct {
	Meta        PostMeta
	Raw         string
	HTML        template.HTML
	ReadingTime int // Estimated reading time in minutes
}

// EstimateReadingTime returns the reading time in minutes for the given
// body text, based on word count at 200 words per minute, rounded up.
func EstimateReadingTime(body string) int {
	words := len(strings.Fields(body))
	return int(math.Ceil(float64(words) / wordsPerMinute))
}

// LastModified returns the updated date when set, the publish date otherwise.
func (m PostMeta) LastModified() Time {
	if m.Updated != nil && !m.Updated.IsZero() {
		return *m.Updated
	}
	return m.Date
}

// HasTag reports whether the post carries the given tag, compared
// case-insensitively.
func (m PostMeta) HasTag(tag string) bool {
	for _, t := range m.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
