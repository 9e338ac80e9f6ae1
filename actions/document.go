package actions

import (
	"bytes"
	"context"
	"time"

	"github.com/wudi/docsmith/builder"
	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/docx"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/handle"
	"github.com/wudi/docsmith/observability"
	"github.com/wudi/docsmith/textfit"
)

type DocCreateInput struct {
	Title    string     `json:"title,omitempty"`
	Author   string     `json:"author,omitempty"`
	Subject  string     `json:"subject,omitempty"`
	WidthPt  float64    `json:"width_pt,omitempty"`
	HeightPt float64    `json:"height_pt,omitempty"`
	Theme    ThemeInput `json:"theme,omitempty"`
}

func (s *Service) DocCreate(ctx context.Context, in DocCreateInput) (HandleOutput, error) {
	theme, err := in.Theme.theme()
	if err != nil {
		return HandleOutput{}, err
	}
	b := builder.NewDoc().
		SetInfo(doc.Info{Title: in.Title, Author: in.Author, Subject: in.Subject}).
		SetTheme(theme)
	if in.WidthPt != 0 || in.HeightPt != 0 {
		b.SetPageSize(geo.Size{W: in.WidthPt, H: in.HeightPt})
	}
	d, err := b.Build()
	if err != nil {
		return HandleOutput{}, err
	}
	return handleOutput(d)
}

type DocAddMarkdownInput struct {
	Handle   string `json:"handle"`
	Markdown string `json:"markdown,omitempty"`
	HTML     string `json:"html,omitempty"`
}

func (s *Service) DocAddMarkdown(ctx context.Context, in DocAddMarkdownInput) (HandleOutput, error) {
	if (in.Markdown == "") == (in.HTML == "") {
		return HandleOutput{}, validationErr("exactly one of markdown, html is required")
	}
	d, err := handle.DecodeKind(in.Handle, doc.KindDoc)
	if err != nil {
		return HandleOutput{}, err
	}
	b, err := builder.ResumeDoc(d)
	if err != nil {
		return HandleOutput{}, err
	}
	if in.Markdown != "" {
		b.AddMarkdown(in.Markdown)
	} else {
		b.AddHTML(in.HTML)
	}
	built, err := b.Build()
	if err != nil {
		return HandleOutput{}, err
	}
	return handleOutput(built)
}

type DocExportInput struct {
	Handle string `json:"handle"`
}

func (s *Service) DocExport(ctx context.Context, in DocExportInput) (FileOutput, error) {
	d, err := handle.DecodeKind(in.Handle, doc.KindDoc)
	if err != nil {
		return FileOutput{}, err
	}
	start := time.Now()
	var buf bytes.Buffer
	if err := docx.Write(d, &buf, docx.Config{}); err != nil {
		return FileOutput{}, err
	}
	s.log.Debug("exported",
		observability.Int("blocks", len(d.Body)),
		observability.Int64(observability.MetricExportTime, time.Since(start).Milliseconds()))
	return fileOutput(buf.Bytes(), MIMEDOCX, exportName(d, "docx")), nil
}

type FitPreviewInput struct {
	Text        string  `json:"text"`
	WidthPt     float64 `json:"width_pt"`
	HeightPt    float64 `json:"height_pt"`
	Font        string  `json:"font,omitempty"`
	SizePt      float64 `json:"size_pt,omitempty"`
	MinSizePt   float64 `json:"min_size_pt,omitempty"`
	StepPt      float64 `json:"step_pt,omitempty"`
	LineSpacing float64 `json:"line_spacing,omitempty"`
}

type FitPreviewOutput struct {
	SizePt      float64  `json:"size_pt"`
	Fits        bool     `json:"fits"`
	HeightPt    float64  `json:"height_pt"`
	Lines       []string `json:"lines"`
	Evaluations int      `json:"evaluations"`
}

// FitPreview runs the size search without building a document, so
// callers can check how text will land before committing a frame.
func (s *Service) FitPreview(ctx context.Context, in FitPreviewInput) (FitPreviewOutput, error) {
	if in.Text == "" {
		return FitPreviewOutput{}, validationErr("text is required")
	}
	font := in.Font
	if font == "" {
		font = builder.DefaultFont
	}
	size := in.SizePt
	if size == 0 {
		size = builder.DefaultTextSizePt
	}

	box := textfit.TextBox{
		Width:      in.WidthPt,
		Height:     in.HeightPt,
		Font:       font,
		MonoFont:   builder.DefaultMonoFont,
		Paragraphs: doc.ParagraphsFromText(in.Text),
	}
	start := time.Now()
	out, err := textfit.FindFittingSize(box, size, textfit.Options{
		MinSizePt:   in.MinSizePt,
		StepPt:      in.StepPt,
		LineSpacing: in.LineSpacing,
	}, s.fonts)
	if err != nil {
		return FitPreviewOutput{}, err
	}
	fields := []observability.Field{
		observability.Int(observability.MetricFitEvaluations, out.Evaluations),
		observability.Int64(observability.MetricFitSearchTime, time.Since(start).Milliseconds()),
	}
	if !out.Fits {
		fields = append(fields, observability.Int(observability.MetricFitMisses, 1))
	}
	s.log.Debug("fit search", fields...)

	lines := make([]string, len(out.Lines))
	for i, ln := range out.Lines {
		lines[i] = ln.Text()
	}
	return FitPreviewOutput{
		SizePt:      out.SizePt,
		Fits:        out.Fits,
		HeightPt:    out.Height,
		Lines:       lines,
		Evaluations: out.Evaluations,
	}, nil
}

func (s *Service) registerDocActions(r *Registry) error {
	regs := []error{
		Register(r, "document.create", "Create an empty word-processing document and return its handle", s.DocCreate),
		Register(r, "document.add_markdown", "Append markdown or HTML content to the document body", s.DocAddMarkdown),
		Register(r, "document.export", "Export the document as a .docx file", s.DocExport),
		Register(r, "fit.preview", "Preview the auto-fit size search for text in a box", s.FitPreview),
	}
	for _, err := range regs {
		if err != nil {
			return err
		}
	}
	return nil
}
