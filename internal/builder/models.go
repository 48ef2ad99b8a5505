// internal/builder/models.go
package builder

import (
	"html/template"
)

// PageData is the struct passed to templates. Everything a template needs
// is computed here so themes only iterate and print.
type PageData struct {
	Title     string
	Subtitle  string
	BaseHref  string
	GithubURL string
	Copyright string // "2025" or "2025-2026"

	// Info is nil when the info block is disabled, so templates emit nothing for it.
	Info     *InfoView
	Projects []ProjectView
}

// InfoView is the rendered "about" block.
type InfoView struct {
	Title      string
	Paragraphs []template.HTML
}

// ProjectView is one project as it appears on the page.
type ProjectView struct {
	Slug        string // anchor id, unique within the page
	Title       string
	Links       []LinkView
	Description template.HTML
}

// LinkView is a single project link.
type LinkView struct {
	URL     string
	Display string
}
