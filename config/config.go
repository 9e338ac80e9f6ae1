// Package config loads toolkit configuration from TOML: fonts, page
// geometry, theme defaults, and integration credentials. Credential
// values may reference environment variables with ${VAR}, expanded at
// load time so secrets stay out of the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/wudi/docsmith/builder"
	"github.com/wudi/docsmith/fonts"
)

// Config is the full configuration tree.
type Config struct {
	Fonts FontsConfig `toml:"fonts"`
	Page  PageConfig  `toml:"page"`
	Theme ThemeConfig `toml:"theme"`
	MCP   MCPConfig   `toml:"mcp"`

	Bitly   BitlyConfig   `toml:"bitly"`
	SerpAPI SerpAPIConfig `toml:"serpapi"`
	Sheets  SheetsConfig  `toml:"sheets"`
	Dropbox DropboxConfig `toml:"dropbox"`
	Zoom    ZoomConfig    `toml:"zoom"`
}

// FontsConfig names the font files to register. Families maps a
// family name to its regular-weight file; Bold and Italic carry the
// optional variants, keyed by the same family names.
type FontsConfig struct {
	Dir      string            `toml:"dir"`
	Families map[string]string `toml:"families"`
	Bold     map[string]string `toml:"bold"`
	Italic   map[string]string `toml:"italic"`
}

// PageConfig overrides the default slide and page geometry, in points.
type PageConfig struct {
	SlideWidthPt  float64 `toml:"slide_width_pt"`
	SlideHeightPt float64 `toml:"slide_height_pt"`
	DocWidthPt    float64 `toml:"doc_width_pt"`
	DocHeightPt   float64 `toml:"doc_height_pt"`
}

// ThemeConfig sets document-wide style defaults. Colors are hex.
type ThemeConfig struct {
	Font     string `toml:"font"`
	MonoFont string `toml:"mono_font"`
	Color    string `toml:"color"`
	Accent   string `toml:"accent"`
}

// MCPConfig selects how `docsmith mcp serve` listens.
type MCPConfig struct {
	Transport string `toml:"transport"` // "stdio" or "http"
	Addr      string `toml:"addr"`
}

type BitlyConfig struct {
	Token     string `toml:"token"`
	GroupGUID string `toml:"group_guid"`
}

type SerpAPIConfig struct {
	APIKey string `toml:"api_key"`
}

// SheetsConfig points at a Google service-account key file.
type SheetsConfig struct {
	CredentialsFile string `toml:"credentials_file"`
}

type DropboxConfig struct {
	Token string `toml:"token"`
}

type ZoomConfig struct {
	AccountID    string `toml:"account_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Page: PageConfig{
			SlideWidthPt:  builder.DefaultSlideSize.W,
			SlideHeightPt: builder.DefaultSlideSize.H,
			DocWidthPt:    builder.DefaultPageSize.W,
			DocHeightPt:   builder.DefaultPageSize.H,
		},
		Theme: ThemeConfig{
			Font:     builder.DefaultFont,
			MonoFont: builder.DefaultMonoFont,
		},
		MCP: MCPConfig{
			Transport: "stdio",
			Addr:      "localhost:8315",
		},
	}
}

// Load reads a TOML file over the defaults. ${VAR} references in the
// file expand from the environment before parsing. A missing file is
// not an error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})
	if err := toml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// FontRegistry registers every configured font file and returns the
// registry. Families without files still measure through the fallback
// metrics, so an empty config is fine.
func (c FontsConfig) FontRegistry() (*fonts.Registry, error) {
	reg := fonts.NewRegistry()
	register := func(files map[string]string, style fonts.Style) error {
		for family, file := range files {
			path := file
			if !filepath.IsAbs(path) && c.Dir != "" {
				path = filepath.Join(c.Dir, path)
			}
			if err := reg.RegisterFile(family, style, path); err != nil {
				return err
			}
		}
		return nil
	}
	if err := register(c.Families, fonts.Style{}); err != nil {
		return nil, err
	}
	if err := register(c.Bold, fonts.Style{Bold: true}); err != nil {
		return nil, err
	}
	if err := register(c.Italic, fonts.Style{Italic: true}); err != nil {
		return nil, err
	}
	return reg, nil
}
