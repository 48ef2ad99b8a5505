package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showcase/internal/builder"
	"showcase/internal/config"
)

func TestCreateNewSite(t *testing.T) {
	name := filepath.Join(t.TempDir(), "mysite")
	require.NoError(t, CreateNewSite(name))

	for _, f := range []string{
		"site.yaml",
		"static/css/style.css",
		"templates/default/layout.html",
		"templates/default/header.html",
		"templates/default/footer.html",
	} {
		assert.FileExists(t, filepath.Join(name, f))
	}
	assert.DirExists(t, filepath.Join(name, "static", "images"))

	cfg, err := config.LoadSiteConfig(filepath.Join(name, "site.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "My Projects", cfg.SiteTitle)
	assert.Equal(t, config.Year("2025"), cfg.CopyrightStartYear)
	assert.True(t, cfg.SiteInfo.Enabled)
	assert.Len(t, cfg.SiteInfo.Paragraphs, 2)
	assert.Empty(t, cfg.Projects)
	assert.Equal(t, config.DefaultTemplate, cfg.Template)

	_, err = builder.LoadTemplates(filepath.Join(name, "templates"), cfg.Template)
	assert.NoError(t, err)
}

func TestCreateNewSiteRefusesExisting(t *testing.T) {
	name := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(name, "site.yaml"), []byte("siteTitle: mine\n"), 0644))

	err := CreateNewSite(name)
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(name, "site.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "siteTitle: mine\n", string(data))
}
