// internal/scaffold/scaffold.go
package scaffold

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"showcase/internal/config"
	"showcase/internal/theme"
)

// CreateNewSite lays out a working site in directory name: site.yaml,
// the default theme and its stylesheet.
func CreateNewSite(name string) error {
	fmt.Println("Scaffolding new site in:", name)
	if _, err := os.Stat(filepath.Join(name, "site.yaml")); err == nil {
		return fmt.Errorf("%s already contains a site.yaml", name)
	}

	mkdir := func(path string) error { return os.MkdirAll(filepath.Join(name, path), 0755) }
	writeFile := func(path string, content []byte) error {
		return os.WriteFile(filepath.Join(name, path), content, 0644)
	}
	templatePath := filepath.Join("templates", config.DefaultTemplate)
	dirs := []string{"static/css", "static/images", templatePath}
	for _, dir := range dirs {
		if err := mkdir(dir); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	themeFS := theme.Default()
	files := map[string]string{
		"layout.html": filepath.Join(templatePath, "layout.html"),
		"header.html": filepath.Join(templatePath, "header.html"),
		"footer.html": filepath.Join(templatePath, "footer.html"),
		"style.css":   filepath.Join("static", "css", "style.css"),
	}
	for src, dest := range files {
		content, err := fs.ReadFile(themeFS, src)
		if err != nil {
			return fmt.Errorf("failed to read theme file %s: %w", src, err)
		}
		if err := writeFile(dest, content); err != nil {
			return fmt.Errorf("failed to write file %s: %w", dest, err)
		}
	}
	if err := writeFile("site.yaml", []byte(siteYamlContent)); err != nil {
		return fmt.Errorf("failed to write file site.yaml: %w", err)
	}

	fmt.Println("Site scaffolded. You can now:")
	fmt.Println("  cd", name)
	fmt.Println("  showcase serve")
	return nil
}

const siteYamlContent = `siteTitle: My Projects
siteSubtitle: Experiments, tools, toys and late-night ideas

githubUsername: your-github-name

copyrightStartYear: "2025"

# Set enabled to false to drop the info block from the page entirely.
siteInfo:
  enabled: true
  title: About this page
  paragraphs:
    - Small projects, mostly experimental, some built on a whim late at night.
    - If a link is broken or something misbehaves, open an issue on GitHub.

template: default

projects: []
# projects:
#   - title: Rin
#     links:
#       - url: https://docs.openrin.org
#         display: docs.openrin.org
#       - url: https://github.com/CF-Works/Rin
#         display: CF-Works/Rin
#     description: A dynamic blog built on Cloudflare Workers.
`
