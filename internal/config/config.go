// internal/config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultTemplate is the theme used when site.yaml does not name one.
const DefaultTemplate = "default"

// SiteConfig holds the configuration from the site.yaml file.
// It is loaded once and only read afterwards, so it is safe to share
// between goroutines.
type SiteConfig struct {
	SiteTitle          string    `yaml:"siteTitle" json:"siteTitle"`
	SiteSubtitle       string    `yaml:"siteSubtitle" json:"siteSubtitle"`
	GithubUsername     string    `yaml:"githubUsername" json:"githubUsername"`
	CopyrightStartYear Year      `yaml:"copyrightStartYear" json:"copyrightStartYear"`
	SiteInfo           SiteInfo  `yaml:"siteInfo" json:"siteInfo"`
	Projects           []Project `yaml:"projects" json:"projects"`
	Template           string    `yaml:"template,omitempty" json:"template,omitempty"`
}

// SiteInfo is the optional "about" block. A disabled block is not rendered at all.
type SiteInfo struct {
	Enabled    bool     `yaml:"enabled" json:"enabled"`
	Title      string   `yaml:"title" json:"title"`
	Paragraphs []string `yaml:"paragraphs" json:"paragraphs"`
}

// Project is one showcased entry. Links are shown in the given order.
type Project struct {
	Title       string `yaml:"title" json:"title"`
	Links       []Link `yaml:"links" json:"links"`
	Description string `yaml:"description" json:"description"`
}

// Year is a calendar year kept as text. JSON input may give it as a
// string or a bare number; it is always written back as a string.
type Year string

// UnmarshalJSON accepts "2025", 2025 and null.
func (y *Year) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*y = Year(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("year must be a string or a number, got %s", data)
	}
	*y = Year(n.String())
	return nil
}

// Link is a URL with the label shown in its place.
type Link struct {
	URL     string `yaml:"url" json:"url"`
	Display string `yaml:"display" json:"display"`
}

// LoadSiteConfig reads and parses the YAML file at path.
func LoadSiteConfig(path string) (SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	cfg, err := ParseSiteConfig(data)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ParseSiteConfig decodes YAML. Values are taken as given; nothing is validated.
func ParseSiteConfig(data []byte) (SiteConfig, error) {
	cfg := SiteConfig{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, err
	}
	return normalize(cfg), nil
}

// normalize fills in the template default and turns absent lists into empty
// ones, so a parsed config encodes and parses back to an equal value.
func normalize(cfg SiteConfig) SiteConfig {
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	if cfg.SiteInfo.Paragraphs == nil {
		cfg.SiteInfo.Paragraphs = []string{}
	}
	if cfg.Projects == nil {
		cfg.Projects = []Project{}
	}
	for i := range cfg.Projects {
		if cfg.Projects[i].Links == nil {
			cfg.Projects[i].Links = []Link{}
		}
	}
	return cfg
}

// Encode writes cfg as YAML.
func Encode(w io.Writer, cfg SiteConfig) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	return enc.Close()
}

// ParseSiteConfigJSON decodes JSON. Like the YAML reader it ignores unknown
// keys and checks nothing.
func ParseSiteConfigJSON(data []byte) (SiteConfig, error) {
	cfg := SiteConfig{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, err
	}
	return normalize(cfg), nil
}

// EncodeJSON writes cfg as indented JSON for consumers that don't read YAML.
func EncodeJSON(w io.Writer, cfg SiteConfig) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("could not encode config as json: %w", err)
	}
	return nil
}
