package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wudi/docsmith/builder"
	"github.com/wudi/docsmith/config"
	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/docx"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/pptx"
)

var (
	exportOut   string
	exportTitle string
)

var exportCmd = &cobra.Command{
	Use:   "export <input.md>",
	Short: "Build a .pptx or .docx from a markdown file",
	Long: `Build an OOXML document from a markdown file.

The output extension selects the format: .pptx builds a deck with one
slide per "---"-separated section, .docx builds a word document from
the whole file.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (.pptx or .docx)")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "document title")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	out := exportOut
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pptx"
	}
	title := exportTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	var d *doc.Document
	switch ext := filepath.Ext(out); ext {
	case ".pptx":
		d, err = buildDeck(cfg, title, string(source))
	case ".docx":
		d, err = buildDoc(cfg, title, string(source))
	default:
		return fmt.Errorf("unsupported output extension %q (want .pptx or .docx)", ext)
	}
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if filepath.Ext(out) == ".pptx" {
		err = pptx.Write(d, f, pptx.Config{})
	} else {
		err = docx.Write(d, f, docx.Config{})
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pages)\n", out, pageCount(d))
	return nil
}

// buildDeck lays a deck out from markdown, one slide per section.
func buildDeck(cfg config.Config, title, source string) (*doc.Document, error) {
	theme, err := themeFromConfig(cfg.Theme)
	if err != nil {
		return nil, err
	}
	fonts, err := cfg.Fonts.FontRegistry()
	if err != nil {
		return nil, err
	}

	b := builder.NewDeck(fonts).
		SetInfo(doc.Info{Title: title}).
		SetTheme(theme).
		SetSlideSize(geo.Size{W: cfg.Page.SlideWidthPt, H: cfg.Page.SlideHeightPt})
	for _, section := range splitSlides(source) {
		b.AddMarkdownSlide(section)
	}
	return b.Build()
}

func buildDoc(cfg config.Config, title, source string) (*doc.Document, error) {
	theme, err := themeFromConfig(cfg.Theme)
	if err != nil {
		return nil, err
	}
	b := builder.NewDoc().
		SetInfo(doc.Info{Title: title}).
		SetTheme(theme).
		SetPageSize(geo.Size{W: cfg.Page.DocWidthPt, H: cfg.Page.DocHeightPt})
	b.AddMarkdown(source)
	return b.Build()
}

// splitSlides cuts markdown at thematic breaks ("---" on its own
// line), the usual slide separator convention.
func splitSlides(source string) []string {
	var sections []string
	var current []string
	for _, line := range strings.Split(source, "\n") {
		if strings.TrimSpace(line) == "---" {
			sections = append(sections, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	sections = append(sections, strings.Join(current, "\n"))

	kept := sections[:0]
	for _, s := range sections {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, "")
	}
	return kept
}

func pageCount(d *doc.Document) int {
	if d.Kind == doc.KindDeck {
		return len(d.Slides)
	}
	return 1
}
