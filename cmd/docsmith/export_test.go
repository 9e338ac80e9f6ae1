package main

import (
	"testing"

	"github.com/wudi/docsmith/config"
	"github.com/wudi/docsmith/doc"
)

func TestSplitSlides(t *testing.T) {
	source := "# One\n\nbody\n---\n# Two\n---\n# Three"
	sections := splitSlides(source)
	if len(sections) != 3 {
		t.Fatalf("sections = %d: %q", len(sections), sections)
	}

	// Separators without content collapse away.
	if got := splitSlides("---\n\n---\n# Only"); len(got) != 1 {
		t.Fatalf("sparse sections = %q", got)
	}

	// Empty input still yields one (empty) slide.
	if got := splitSlides(""); len(got) != 1 {
		t.Fatalf("empty input sections = %q", got)
	}
}

func TestBuildDeckFromMarkdown(t *testing.T) {
	cfg := config.Default()
	d, err := buildDeck(cfg, "Quarterly", "# One\n---\n# Two")
	if err != nil {
		t.Fatalf("buildDeck: %v", err)
	}
	if d.Kind != doc.KindDeck || len(d.Slides) != 2 {
		t.Fatalf("deck: kind=%v slides=%d", d.Kind, len(d.Slides))
	}
	if d.Info.Title != "Quarterly" {
		t.Fatalf("title = %q", d.Info.Title)
	}
	if d.PageSize.W != cfg.Page.SlideWidthPt {
		t.Fatalf("slide width = %v", d.PageSize.W)
	}
}

func TestBuildDocFromMarkdown(t *testing.T) {
	d, err := buildDoc(config.Default(), "Notes", "# Heading\n\nBody text.")
	if err != nil {
		t.Fatalf("buildDoc: %v", err)
	}
	if d.Kind != doc.KindDoc {
		t.Fatalf("kind = %v", d.Kind)
	}
}
