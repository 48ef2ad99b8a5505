// internal/builder/render.go
package builder

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

var (
	markdownRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(newExternalLinkTransformer(), 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
	htmlSanitizer = bluemonday.UGCPolicy().AddTargetBlankToFullyQualifiedLinks(true)
)

// renderMarkdown turns a description or info paragraph into HTML.
// The result is sanitized unless opts.Unsafe is set.
func renderMarkdown(src string, opts BuildOptions) (template.HTML, error) {
	var htmlBuffer bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &htmlBuffer); err != nil {
		return "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}

	if !opts.Unsafe {
		return template.HTML(htmlSanitizer.SanitizeBytes(htmlBuffer.Bytes())), nil
	}
	return template.HTML(htmlBuffer.String()), nil
}
