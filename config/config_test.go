package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wudi/docsmith/builder"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Page.SlideWidthPt != builder.DefaultSlideSize.W {
		t.Fatalf("slide width = %v", cfg.Page.SlideWidthPt)
	}
	if cfg.MCP.Transport != "stdio" {
		t.Fatalf("mcp transport = %q", cfg.MCP.Transport)
	}
}

func TestLoadOverridesAndExpansion(t *testing.T) {
	t.Setenv("TEST_BITLY_TOKEN", "tok-123")

	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[page]
slide_width_pt = 1024.0
slide_height_pt = 768.0

[theme]
font = "Inter"

[bitly]
token = "${TEST_BITLY_TOKEN}"

[mcp]
transport = "http"
addr = "localhost:9000"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Page.SlideWidthPt != 1024 || cfg.Page.SlideHeightPt != 768 {
		t.Fatalf("page override: %+v", cfg.Page)
	}
	// Untouched sections keep their defaults.
	if cfg.Page.DocWidthPt != builder.DefaultPageSize.W {
		t.Fatalf("doc width = %v", cfg.Page.DocWidthPt)
	}
	if cfg.Theme.Font != "Inter" || cfg.Theme.MonoFont != builder.DefaultMonoFont {
		t.Fatalf("theme: %+v", cfg.Theme)
	}
	if cfg.Bitly.Token != "tok-123" {
		t.Fatalf("env expansion: %q", cfg.Bitly.Token)
	}
	if cfg.MCP.Addr != "localhost:9000" {
		t.Fatalf("mcp addr: %q", cfg.MCP.Addr)
	}
}

func TestLoadBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[page\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed TOML accepted")
	}
}

func TestFontRegistryEmptyConfig(t *testing.T) {
	reg, err := FontsConfig{}.FontRegistry()
	if err != nil {
		t.Fatalf("FontRegistry: %v", err)
	}
	// Nothing registered: measurement falls back, never zero.
	if w := reg.Measure("hello", "Calibri", 18, false, false); w <= 0 {
		t.Fatalf("fallback width = %v", w)
	}
}

func TestFontRegistryMissingFile(t *testing.T) {
	cfg := FontsConfig{
		Dir:      t.TempDir(),
		Families: map[string]string{"Inter": "inter.ttf"},
	}
	if _, err := cfg.FontRegistry(); err == nil {
		t.Fatal("missing font file accepted")
	}
}
