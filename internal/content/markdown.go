// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"bytes"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	gmutil "github.com/yuin/goldmark/util"
)

// langRegex restricts code fence language tokens to characters that are safe
// inside a class attribute. Anything else renders as a plain code block.
var langRegex = regexp.MustCompile(`^[a-zA-Z0-9_+#-]+$`)

// markdown is the shared goldmark instance. GFM covers tables, strikethrough,
// task lists, and autolinks; the custom code block renderer preserves fence
// language classes for client-side highlighting and passes mermaid fences
// through as diagram containers.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Footnote),
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(
			gmutil.Prioritized(&codeBlockRenderer{writer: gmhtml.DefaultWriter}, 100),
		),
	),
)

// sanitizer strips unsafe HTML from rendered markdown. The UGC policy is
// extended to keep code fence language classes, mermaid containers, and
// task list checkboxes.
var sanitizer = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[a-zA-Z0-9_+#-]+$`)).OnElements("code")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^mermaid$`)).OnElements("pre")
	p.AllowAttrs("type", "checked", "disabled").OnElements("input")
	return p
}()

// RenderMarkdown converts a markdown body to sanitized HTML.
func RenderMarkdown(body string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		// Conversion only fails on writer errors, which bytes.Buffer
		// does not produce. Fall back to nothing rather than raw text.
		return ""
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized above
}

// codeBlockRenderer renders fenced code blocks with a language class on the
// code element, and mermaid fences as <pre class="mermaid"> so the client
// side diagram library picks them up.
type codeBlockRenderer struct {
	writer gmhtml.Writer
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w gmutil.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.FencedCodeBlock)
	lang := string(n.Language(source))
	if !langRegex.MatchString(lang) {
		lang = ""
	}

	if entering {
		switch lang {
		case "mermaid":
			_, _ = w.WriteString(`<pre class="mermaid">`)
		case "":
			_, _ = w.WriteString("<pre><code>")
		default:
			_, _ = w.WriteString(`<pre><code class="language-` + lang + `">`)
		}
		r.writeLines(w, source, n)
		return ast.WalkContinue, nil
	}

	if lang == "mermaid" {
		_, _ = w.WriteString("</pre>\n")
	} else {
		_, _ = w.WriteString("</code></pre>\n")
	}
	return ast.WalkContinue, nil
}

func (r *codeBlockRenderer) writeLines(w gmutil.BufWriter, source []byte, n ast.Node) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		r.writer.RawWrite(w, line.Value(source))
	}
}
