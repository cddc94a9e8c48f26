// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content loads markdown content from disk into an in-memory
// store that supports concurrent reads and atomic full reloads.
package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// frontmatterDelimiter separates the metadata header from the body.
const frontmatterDelimiter = "---"

// ErrMissingFrontmatter is returned for files without a metadata header.
var ErrMissingFrontmatter = errors.New("missing frontmatter")

// ErrUnclosedFrontmatter is returned when the closing delimiter is absent.
var ErrUnclosedFrontmatter = errors.New("unclosed frontmatter")

// splitFrontmatter separates the raw metadata header from the markdown body.
func splitFrontmatter(raw string) (header, body string, err error) {
	raw = strings.TrimSpace(raw)

	if !strings.HasPrefix(raw, frontmatterDelimiter) {
		return "", "", ErrMissingFrontmatter
	}

	rest := raw[len(frontmatterDelimiter):]
	end := strings.Index(rest, frontmatterDelimiter)
	if end < 0 {
		return "", "", ErrUnclosedFrontmatter
	}

	header = rest[:end]
	body = strings.TrimSpace(rest[end+len(frontmatterDelimiter):])
	return header, body, nil
}

// parseFrontmatter decodes the metadata header of a content file into meta
// and returns the remaining markdown body. The header is decoded in two
// stages: a strict JSON object first, falling back to a permissive
// line-oriented key/value format.
func parseFrontmatter[T any](raw string) (meta T, body string, err error) {
	header, body, err := splitFrontmatter(raw)
	if err != nil {
		return meta, "", err
	}

	if jsonErr := json.Unmarshal([]byte(header), &meta); jsonErr == nil {
		return meta, body, nil
	}

	fields := parseSimpleHeader(header)
	encoded, err := json.Marshal(fields)
	if err != nil {
		return meta, "", fmt.Errorf("encoding frontmatter fields: %w", err)
	}
	if err := json.Unmarshal(encoded, &meta); err != nil {
		return meta, "", fmt.Errorf("parsing frontmatter: %w", err)
	}
	return meta, body, nil
}

// parseSimpleHeader decodes a permissive "key: value" header format.
// Values may be quoted strings, booleans, or bracketed comma-separated
// lists. Blank lines and #-comments are ignored.
func parseSimpleHeader(header string) map[string]any {
	fields := make(map[string]any)

	for _, line := range strings.Split(header, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = unquote(strings.TrimSpace(value))

		switch {
		case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
			fields[key] = parseSimpleList(value)
		case value == "true":
			fields[key] = true
		case value == "false":
			fields[key] = false
		default:
			fields[key] = value
		}
	}

	return fields
}

// parseSimpleList decodes a bracketed comma-separated list of strings.
func parseSimpleList(value string) []string {
	inner := strings.TrimSpace(value[1 : len(value)-1])
	if inner == "" {
		return []string{}
	}

	parts := strings.Split(inner, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		items = append(items, unquote(strings.TrimSpace(part)))
	}
	return items
}

func unquote(s string) string {
	s = strings.Trim(s, `"`)
	return strings.Trim(s, `'`)
}
