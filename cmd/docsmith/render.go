package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wudi/docsmith/render"
)

var (
	renderOut   string
	renderPage  int
	renderScale float64
)

var renderCmd = &cobra.Command{
	Use:   "render <input.md>",
	Short: "Render a markdown deck to PDF, PNG, or SVG",
	Long: `Render a markdown deck for preview without going through
PowerPoint. The output extension selects the format; PDF renders every
slide, PNG and SVG render one page.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (.pdf, .png, or .svg)")
	renderCmd.Flags().IntVar(&renderPage, "page", 0, "page to render for png/svg")
	renderCmd.Flags().Float64Var(&renderScale, "scale", 2, "raster scale for png")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	source, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	out := renderOut
	if out == "" {
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pdf"
	}

	title := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	d, err := buildDeck(cfg, title, string(source))
	if err != nil {
		return err
	}
	fonts, err := cfg.Fonts.FontRegistry()
	if err != nil {
		return err
	}
	r := render.New(fonts)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	switch ext := filepath.Ext(out); ext {
	case ".pdf":
		err = r.PDF(d, f)
	case ".png":
		err = r.PNG(d, renderPage, renderScale, f)
	case ".svg":
		err = r.SVG(d, renderPage, f)
	default:
		return fmt.Errorf("unsupported output extension %q (want .pdf, .png, or .svg)", ext)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}
