package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"showcase/internal/config"
)

func TestLoadAppConfigDefaults(t *testing.T) {
	cfg, err := loadAppConfig()
	require.NoError(t, err)
	assert.Equal(t, 1313, cfg.Port)
	assert.Equal(t, "site.yaml", cfg.ConfigFile)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.Unsafe)
}

func TestLoadAppConfigFromEnv(t *testing.T) {
	t.Setenv("SHOWCASE_PORT", "8080")
	t.Setenv("SHOWCASE_UNSAFE", "true")
	t.Setenv("SHOWCASE_CONFIG", "other.yaml")

	cfg, err := loadAppConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Unsafe)
	assert.Equal(t, "other.yaml", cfg.ConfigFile)
}

func TestLoadAppConfigBadEnv(t *testing.T) {
	t.Setenv("SHOWCASE_PORT", "not-a-port")
	_, err := loadAppConfig()
	assert.Error(t, err)
}

func TestHandleExport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(src, []byte(`siteTitle: Showcase
copyrightStartYear: "2025"
siteInfo:
  enabled: false
  title: ""
  paragraphs: []
projects:
  - title: Rin
    links:
      - url: https://docs.openrin.org
        display: docs.openrin.org
    description: A blog.
`), 0644))
	out := filepath.Join(dir, "site.json")

	require.NoError(t, handleExport(src, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	exported, err := config.ParseSiteConfigJSON(data)
	require.NoError(t, err)

	loaded, err := config.LoadSiteConfig(src)
	require.NoError(t, err)
	assert.Equal(t, loaded, exported)
}

func TestHandleExportMissingConfig(t *testing.T) {
	dir := t.TempDir()
	err := handleExport(filepath.Join(dir, "nope.yaml"), filepath.Join(dir, "site.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, filepath.Join(dir, "site.json"))
}
