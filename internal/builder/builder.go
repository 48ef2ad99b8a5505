// internal/builder/builder.go
package builder

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"showcase/internal/config"
	"showcase/internal/util"
)

// noDescription replaces empty or placeholder descriptions.
const noDescription = "No description provided."

// indexPage is the single page generated for a site.
const indexPage = "index.html"

// BuildOptions controls a single build. Unsafe skips HTML sanitizing of
// rendered Markdown; Debug prints what is being rendered.
type BuildOptions struct {
	CleanDestination bool
	Unsafe           bool
	Debug            bool
}

// BuildSite renders the showcase page into outputDir and copies static assets.
// It returns the number of pages written.
func BuildSite(outputDir, staticDir string, site config.SiteConfig, tmpl *template.Template, opts BuildOptions) (int, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, err
	}

	if opts.CleanDestination {
		fmt.Println("Cleaning destination directory...")
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return 0, err
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
				return 0, err
			}
		}
	}

	data, err := NewPageData(site, indexPage, opts, time.Now())
	if err != nil {
		return 0, err
	}
	if opts.Debug {
		fmt.Printf("Rendering %d projects (info block shown: %t)\n", len(data.Projects), data.Info != nil)
	}

	if err := renderPage(tmpl, filepath.Join(outputDir, indexPage), data); err != nil {
		return 0, fmt.Errorf("failed to render page %s: %w", indexPage, err)
	}

	if err := copyStaticAssets(staticDir, outputDir); err != nil {
		return 0, err
	}
	return 1, nil
}

// NewPageData builds the template view of site for the page at relPath.
// Order of paragraphs, projects and links is kept as configured.
func NewPageData(site config.SiteConfig, relPath string, opts BuildOptions, now time.Time) (PageData, error) {
	data := PageData{
		Title:     site.SiteTitle,
		Subtitle:  site.SiteSubtitle,
		BaseHref:  util.ComputeBaseHref(relPath),
		Copyright: copyrightSpan(string(site.CopyrightStartYear), now.Year()),
	}
	if site.GithubUsername != "" {
		data.GithubURL = "https://github.com/" + site.GithubUsername
	}

	if site.SiteInfo.Enabled {
		info := &InfoView{Title: site.SiteInfo.Title}
		for i, p := range site.SiteInfo.Paragraphs {
			rendered, err := renderMarkdown(p, opts)
			if err != nil {
				return PageData{}, fmt.Errorf("site info paragraph %d: %w", i+1, err)
			}
			info.Paragraphs = append(info.Paragraphs, rendered)
		}
		data.Info = info
	}

	slugs := util.NewSlugger()
	for i, p := range site.Projects {
		view := ProjectView{
			Slug:  slugs.Slug(p.Title, fmt.Sprintf("project-%d", i+1)),
			Title: p.Title,
		}
		for _, l := range p.Links {
			view.Links = append(view.Links, LinkView{URL: l.URL, Display: l.Display})
		}

		desc := strings.TrimSpace(p.Description)
		if desc == "" || desc == "-" {
			view.Description = template.HTML(template.HTMLEscapeString(noDescription))
		} else {
			rendered, err := renderMarkdown(desc, opts)
			if err != nil {
				return PageData{}, fmt.Errorf("project %q: %w", p.Title, err)
			}
			view.Description = rendered
		}
		data.Projects = append(data.Projects, view)
	}
	return data, nil
}

// copyrightSpan formats "start-current", or a single year when the start
// is missing, unparsable or not in the past.
func copyrightSpan(startYear string, currentYear int) string {
	start, err := strconv.Atoi(strings.TrimSpace(startYear))
	if err != nil || start >= currentYear {
		return strconv.Itoa(currentYear)
	}
	return fmt.Sprintf("%d-%d", start, currentYear)
}

// RenderIndex executes the theme's "main" template into w.
func RenderIndex(w io.Writer, tmpl *template.Template, data PageData) error {
	return tmpl.ExecuteTemplate(w, "main", data)
}

// renderPage executes the template and writes the output to a file.
func renderPage(tmpl *template.Template, outPath string, data PageData) error {
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer outFile.Close()
	return RenderIndex(outFile, tmpl, data)
}

// staticExts lists the file types published from the static directory.
var staticExts = map[string]bool{
	".css": true, ".js": true, ".txt": true, ".svg": true, ".ico": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".woff": true, ".woff2": true,
}

// copyStaticAssets mirrors publishable files from staticDir into outputDir.
// Dotfiles are skipped and a missing static directory is not an error.
func copyStaticAssets(staticDir, outputDir string) error {
	if _, err := os.Stat(staticDir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return filepath.WalkDir(staticDir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case path != staticDir && strings.HasPrefix(d.Name(), "."):
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		case d.IsDir() || !staticExts[strings.ToLower(filepath.Ext(d.Name()))]:
			return nil
		}

		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		if err := copyFile(path, filepath.Join(outputDir, rel)); err != nil {
			return fmt.Errorf("failed to copy static asset %s: %w", rel, err)
		}
		return nil
	})
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// LoadTemplates parses a theme from templateDir/templateName on disk.
func LoadTemplates(templateDir, templateName string) (*template.Template, error) {
	return ParseTemplates(os.DirFS(filepath.Join(templateDir, templateName)))
}

// ParseTemplates parses the layout file and the header/footer partials from fsys.
func ParseTemplates(fsys fs.FS) (*template.Template, error) {
	tmpl, err := template.ParseFS(fsys, "layout.html", "header.html", "footer.html")
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}
