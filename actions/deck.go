package actions

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/wudi/docsmith/builder"
	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/extensions"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/handle"
	"github.com/wudi/docsmith/integrations"
	"github.com/wudi/docsmith/observability"
	"github.com/wudi/docsmith/pptx"
	"github.com/wudi/docsmith/scripting"
	"github.com/wudi/docsmith/scripting/dom"
	"github.com/wudi/docsmith/template"
)

// MIME types of the exported document formats.
const (
	MIMEPPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPDF  = "application/pdf"
	MIMEPNG  = "image/png"
	MIMESVG  = "image/svg+xml"
)

// BoxInput is a frame rectangle in points.
type BoxInput struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (b BoxInput) rect() geo.Rect { return geo.NewRect(b.X, b.Y, b.W, b.H) }

// ThemeInput selects document-wide style defaults. Colors are hex
// ("1A2B3C").
type ThemeInput struct {
	Font     string `json:"font,omitempty"`
	MonoFont string `json:"mono_font,omitempty"`
	Color    string `json:"color,omitempty"`
	Accent   string `json:"accent,omitempty"`
}

func (t ThemeInput) theme() (doc.Theme, error) {
	theme := doc.Theme{Font: t.Font, MonoFont: t.MonoFont}
	if t.Color != "" {
		c, err := doc.ParseHex(t.Color)
		if err != nil {
			return theme, validationErr("theme color: %v", err)
		}
		theme.Color = &c
	}
	if t.Accent != "" {
		c, err := doc.ParseHex(t.Accent)
		if err != nil {
			return theme, validationErr("theme accent: %v", err)
		}
		theme.Accent = &c
	}
	return theme, nil
}

func validationErr(format string, args ...any) error {
	return integrations.Errorf("actions", integrations.KindValidation, format, args...)
}

// HandleOutput is the common "here is your updated document" reply.
type HandleOutput struct {
	Handle string `json:"handle"`
	ID     string `json:"id"`
}

func handleOutput(d *doc.Document) (HandleOutput, error) {
	enc, err := handle.Encode(d)
	if err != nil {
		return HandleOutput{}, err
	}
	return HandleOutput{Handle: enc, ID: d.ID}, nil
}

type DeckCreateInput struct {
	Title    string     `json:"title,omitempty"`
	Author   string     `json:"author,omitempty"`
	Subject  string     `json:"subject,omitempty"`
	WidthPt  float64    `json:"width_pt,omitempty"`
	HeightPt float64    `json:"height_pt,omitempty"`
	Theme    ThemeInput `json:"theme,omitempty"`
}

func (s *Service) DeckCreate(ctx context.Context, in DeckCreateInput) (HandleOutput, error) {
	theme, err := in.Theme.theme()
	if err != nil {
		return HandleOutput{}, err
	}
	b := builder.NewDeck(s.fonts).
		SetInfo(doc.Info{Title: in.Title, Author: in.Author, Subject: in.Subject}).
		SetTheme(theme)
	if in.WidthPt != 0 || in.HeightPt != 0 {
		b.SetSlideSize(geo.Size{W: in.WidthPt, H: in.HeightPt})
	}
	d, err := b.Build()
	if err != nil {
		return HandleOutput{}, err
	}
	return handleOutput(d)
}

// resumeDeck decodes a deck handle into a builder.
func (s *Service) resumeDeck(enc string) (builder.DeckBuilder, error) {
	d, err := handle.DecodeKind(enc, doc.KindDeck)
	if err != nil {
		return nil, err
	}
	return builder.Resume(d, s.fonts)
}

type DeckAddSlideInput struct {
	Handle   string         `json:"handle"`
	Markdown string         `json:"markdown,omitempty"`
	Fill     string         `json:"fill,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// interpolate substitutes {{field}} references when the caller sent
// template data alongside the content.
func interpolate(src string, data map[string]any) (string, error) {
	if data == nil || src == "" {
		return src, nil
	}
	out, err := template.Interpolate(src, data)
	if err != nil {
		return "", validationErr("template: %v", err)
	}
	return out, nil
}

type DeckAddSlideOutput struct {
	HandleOutput
	SlideIndex int `json:"slide_index"`
}

func (s *Service) DeckAddSlide(ctx context.Context, in DeckAddSlideInput) (DeckAddSlideOutput, error) {
	b, err := s.resumeDeck(in.Handle)
	if err != nil {
		return DeckAddSlideOutput{}, err
	}
	if in.Markdown != "" {
		md, err := interpolate(in.Markdown, in.Data)
		if err != nil {
			return DeckAddSlideOutput{}, err
		}
		b.AddMarkdownSlide(md)
	} else {
		sb := b.AddSlide()
		if in.Fill != "" {
			c, err := doc.ParseHex(in.Fill)
			if err != nil {
				return DeckAddSlideOutput{}, validationErr("slide fill: %v", err)
			}
			sb.SetFill(c)
		}
	}
	d, err := b.Build()
	if err != nil {
		return DeckAddSlideOutput{}, err
	}
	out, err := handleOutput(d)
	if err != nil {
		return DeckAddSlideOutput{}, err
	}
	return DeckAddSlideOutput{HandleOutput: out, SlideIndex: len(d.Slides) - 1}, nil
}

type DeckAddTextInput struct {
	Handle   string   `json:"handle"`
	Slide    int      `json:"slide"`
	Box      BoxInput `json:"box"`
	Text     string   `json:"text,omitempty"`
	Markdown string   `json:"markdown,omitempty"`
	HTML     string   `json:"html,omitempty"`

	Font        string  `json:"font,omitempty"`
	SizePt      float64 `json:"size_pt,omitempty"`
	MinSizePt   float64 `json:"min_size_pt,omitempty"`
	LineSpacing float64 `json:"line_spacing,omitempty"`
	Align       string  `json:"align,omitempty"`
	NoAutoFit   bool    `json:"no_auto_fit,omitempty"`

	Data map[string]any `json:"data,omitempty"`
}

type DeckAddTextOutput struct {
	HandleOutput
	Fit *doc.FitSummary `json:"fit,omitempty"`
}

func (s *Service) DeckAddText(ctx context.Context, in DeckAddTextInput) (DeckAddTextOutput, error) {
	sources := 0
	for _, src := range []string{in.Text, in.Markdown, in.HTML} {
		if src != "" {
			sources++
		}
	}
	if sources != 1 {
		return DeckAddTextOutput{}, validationErr("exactly one of text, markdown, html is required")
	}

	b, err := s.resumeDeck(in.Handle)
	if err != nil {
		return DeckAddTextOutput{}, err
	}
	opts := &builder.TextOptions{
		Font:        in.Font,
		SizePt:      in.SizePt,
		MinSizePt:   in.MinSizePt,
		LineSpacing: in.LineSpacing,
		Align:       doc.Alignment(in.Align),
	}
	if in.NoAutoFit {
		opts.Fit = builder.FitNone
	}

	sb := b.Slide(in.Slide)
	switch {
	case in.Markdown != "":
		md, err := interpolate(in.Markdown, in.Data)
		if err != nil {
			return DeckAddTextOutput{}, err
		}
		sb.AddMarkdown(in.Box.rect(), md, opts)
	case in.HTML != "":
		src, err := interpolate(in.HTML, in.Data)
		if err != nil {
			return DeckAddTextOutput{}, err
		}
		sb.AddHTML(in.Box.rect(), src, opts)
	default:
		text, err := interpolate(in.Text, in.Data)
		if err != nil {
			return DeckAddTextOutput{}, err
		}
		sb.AddTextBox(in.Box.rect(), text, opts)
	}

	d, err := b.Build()
	if err != nil {
		return DeckAddTextOutput{}, err
	}
	out, err := handleOutput(d)
	if err != nil {
		return DeckAddTextOutput{}, err
	}
	resp := DeckAddTextOutput{HandleOutput: out}
	if frames := d.Slides[in.Slide].Frames; len(frames) > 0 {
		if tf, ok := frames[len(frames)-1].(*doc.TextFrame); ok {
			resp.Fit = tf.Fit
		}
	}
	return resp, nil
}

type DeckAddTableInput struct {
	Handle     string     `json:"handle"`
	Slide      int        `json:"slide"`
	Box        BoxInput   `json:"box"`
	Rows       [][]string `json:"rows"`
	HeaderRows int        `json:"header_rows,omitempty"`
	ColWidths  []float64  `json:"col_widths,omitempty"`
	Borders    bool       `json:"borders,omitempty"`
}

func (s *Service) DeckAddTable(ctx context.Context, in DeckAddTableInput) (HandleOutput, error) {
	if len(in.Rows) == 0 {
		return HandleOutput{}, validationErr("table rows are required")
	}
	b, err := s.resumeDeck(in.Handle)
	if err != nil {
		return HandleOutput{}, err
	}

	table := doc.Table{ColWidths: in.ColWidths}
	for _, row := range in.Rows {
		cells := make([]doc.Cell, len(row))
		for i, text := range row {
			cells[i] = doc.Cell{Paragraphs: doc.ParagraphsFromText(text)}
		}
		table.Rows = append(table.Rows, cells)
	}

	b.Slide(in.Slide).AddTable(in.Box.rect(), table, &builder.TableOptions{
		HeaderRows: in.HeaderRows,
		Borders:    in.Borders,
	})
	d, err := b.Build()
	if err != nil {
		return HandleOutput{}, err
	}
	return handleOutput(d)
}

type DeckAddImageInput struct {
	Handle string   `json:"handle"`
	Slide  int      `json:"slide"`
	Box    BoxInput `json:"box"`
	Data   string   `json:"data_base64"`
	MIME   string   `json:"mime"`
	Alt    string   `json:"alt,omitempty"`
}

func (s *Service) DeckAddImage(ctx context.Context, in DeckAddImageInput) (HandleOutput, error) {
	data, err := base64.StdEncoding.DecodeString(in.Data)
	if err != nil {
		return HandleOutput{}, validationErr("decode image data: %v", err)
	}
	b, err := s.resumeDeck(in.Handle)
	if err != nil {
		return HandleOutput{}, err
	}
	b.Slide(in.Slide).AddImage(in.Box.rect(), doc.Image{Data: data, MIME: in.MIME, Alt: in.Alt})
	d, err := b.Build()
	if err != nil {
		return HandleOutput{}, err
	}
	return handleOutput(d)
}

type DeckScriptInput struct {
	Handle string `json:"handle"`
	Script string `json:"script"`
}

type DeckScriptOutput struct {
	HandleOutput
	Result string   `json:"result,omitempty"`
	Logs   []string `json:"logs,omitempty"`
}

func (s *Service) DeckScript(ctx context.Context, in DeckScriptInput) (DeckScriptOutput, error) {
	if in.Script == "" {
		return DeckScriptOutput{}, validationErr("script is required")
	}
	d, err := handle.DecodeKind(in.Handle, doc.KindDeck)
	if err != nil {
		return DeckScriptOutput{}, err
	}

	adapter := dom.New(d)
	engine := scripting.NewEngine()
	if err := engine.RegisterDOM(adapter); err != nil {
		return DeckScriptOutput{}, fmt.Errorf("register deck dom: %w", err)
	}
	val, err := engine.Execute(ctx, in.Script)
	if err != nil {
		return DeckScriptOutput{}, validationErr("script: %v", err)
	}

	out, err := handleOutput(d)
	if err != nil {
		return DeckScriptOutput{}, err
	}
	resp := DeckScriptOutput{HandleOutput: out, Logs: adapter.Logs()}
	if val != nil {
		resp.Result = fmt.Sprint(val)
	}
	return resp, nil
}

type DeckRenderInput struct {
	Handle string  `json:"handle"`
	Format string  `json:"format"`
	Page   int     `json:"page,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// FileOutput carries exported or rendered bytes.
type FileOutput struct {
	Data     string `json:"data_base64"`
	MIME     string `json:"mime"`
	Filename string `json:"filename,omitempty"`
}

func fileOutput(data []byte, mime, filename string) FileOutput {
	return FileOutput{
		Data:     base64.StdEncoding.EncodeToString(data),
		MIME:     mime,
		Filename: filename,
	}
}

func (s *Service) DeckRender(ctx context.Context, in DeckRenderInput) (FileOutput, error) {
	d, err := handle.Decode(in.Handle)
	if err != nil {
		return FileOutput{}, err
	}
	scale := in.Scale
	if scale == 0 {
		scale = 2
	}
	start := time.Now()
	defer func() {
		s.log.Debug("rendered",
			observability.String("format", in.Format),
			observability.Int64(observability.MetricRenderTime, time.Since(start).Milliseconds()))
	}()

	var buf bytes.Buffer
	switch in.Format {
	case "", "pdf":
		if err := s.renderer.PDF(d, &buf); err != nil {
			return FileOutput{}, err
		}
		return fileOutput(buf.Bytes(), MIMEPDF, exportName(d, "pdf")), nil
	case "png":
		if err := s.renderer.PNG(d, in.Page, scale, &buf); err != nil {
			return FileOutput{}, err
		}
		return fileOutput(buf.Bytes(), MIMEPNG, exportName(d, "png")), nil
	case "svg":
		if err := s.renderer.SVG(d, in.Page, &buf); err != nil {
			return FileOutput{}, err
		}
		return fileOutput(buf.Bytes(), MIMESVG, exportName(d, "svg")), nil
	default:
		return FileOutput{}, validationErr("unknown render format %q", in.Format)
	}
}

type DeckExportInput struct {
	Handle string `json:"handle"`
}

func (s *Service) DeckExport(ctx context.Context, in DeckExportInput) (FileOutput, error) {
	d, err := handle.DecodeKind(in.Handle, doc.KindDeck)
	if err != nil {
		return FileOutput{}, err
	}

	// Normalize before serialization; coalesced runs mean smaller
	// markup without changing what renders.
	hub := extensions.NewHub()
	if err := hub.Register(&extensions.RunCoalescer{}); err != nil {
		return FileOutput{}, err
	}
	if err := hub.Execute(ctx, d); err != nil {
		return FileOutput{}, err
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := pptx.Write(d, &buf, pptx.Config{}); err != nil {
		return FileOutput{}, err
	}
	s.log.Debug("exported",
		observability.Int("slides", len(d.Slides)),
		observability.Int64(observability.MetricExportTime, time.Since(start).Milliseconds()))
	return fileOutput(buf.Bytes(), MIMEPPTX, exportName(d, "pptx")), nil
}

type DeckInspectInput struct {
	Handle string `json:"handle"`
}

type DeckInspectOutput struct {
	Inspection *extensions.InspectionReport `json:"inspection"`
	Validation *extensions.ValidationReport `json:"validation"`
}

// DeckInspect reports structure, word counts, overflowing frames, and
// validation findings without changing the deck.
func (s *Service) DeckInspect(ctx context.Context, in DeckInspectInput) (DeckInspectOutput, error) {
	d, err := handle.DecodeKind(in.Handle, doc.KindDeck)
	if err != nil {
		return DeckInspectOutput{}, err
	}
	inspection, err := (&extensions.DeckInspector{}).Inspect(ctx, d)
	if err != nil {
		return DeckInspectOutput{}, err
	}
	validation, err := (&extensions.DeckValidator{}).Validate(ctx, d)
	if err != nil {
		return DeckInspectOutput{}, err
	}
	return DeckInspectOutput{Inspection: inspection, Validation: validation}, nil
}

// exportName derives a filename from the document title.
func exportName(d *doc.Document, ext string) string {
	name := "document"
	if d.Info.Title != "" {
		name = d.Info.Title
	}
	return name + "." + ext
}

func (s *Service) registerDeckActions(r *Registry) error {
	regs := []error{
		Register(r, "deck.create", "Create an empty slide deck and return its handle", s.DeckCreate),
		Register(r, "deck.add_slide", "Append a slide, blank or built from markdown", s.DeckAddSlide),
		Register(r, "deck.add_text", "Add an auto-fit text frame to a slide", s.DeckAddText),
		Register(r, "deck.add_table", "Add a table frame with per-cell auto-fit", s.DeckAddTable),
		Register(r, "deck.add_image", "Add an image frame to a slide", s.DeckAddImage),
		Register(r, "deck.script", "Run a JavaScript snippet against the deck DOM", s.DeckScript),
		Register(r, "deck.render", "Render the deck to PDF, PNG or SVG for preview", s.DeckRender),
		Register(r, "deck.export", "Export the deck as a .pptx file", s.DeckExport),
		Register(r, "deck.inspect", "Report deck structure, overflows, and validation findings", s.DeckInspect),
	}
	for _, err := range regs {
		if err != nil {
			return err
		}
	}
	return nil
}
