// Package render draws documents for preview via
// github.com/tdewolff/canvas: PDF, PNG and SVG output. Serialization
// to .pptx/.docx keeps text editable; rendering draws the same frames
// at their fitted sizes for pixel-accurate previews.
//
// Canvas coordinates are millimeters with the origin top-left; all
// document geometry is points and converted at the draw calls. Font
// sizes stay in points, which is what canvas font faces expect.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/fonts"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/textfit"
)

const (
	cellPaddingPt = 2.0
	gridWidthMM   = 0.2
)

// Renderer draws documents using faces from a font registry. Families
// without registered files draw with the Go fonts, so previews work
// even when the real face only exists on the machine that opens the
// exported file.
type Renderer struct {
	reg *fonts.Registry

	mu       sync.Mutex
	families map[string]*canvas.FontFamily
}

func New(reg *fonts.Registry) *Renderer {
	return &Renderer{reg: reg, families: make(map[string]*canvas.FontFamily)}
}

// PDF renders every page of the document into one PDF.
func (r *Renderer) PDF(d *doc.Document, w io.Writer) error {
	pages, err := r.pages(d)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("render: document has no pages")
	}

	wMM, hMM := geo.ToMillimeters(d.PageSize.W), geo.ToMillimeters(d.PageSize.H)
	writer := pdf.New(w, wMM, hMM, nil)
	writer.SetInfo(d.Info.Title, d.Info.Subject, "", d.Info.Author, "docsmith")
	for i, page := range pages {
		if i > 0 {
			writer.NewPage(wMM, hMM)
		}
		c := canvas.New(wMM, hMM)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV)
		if err := r.drawPage(ctx, d, page); err != nil {
			return fmt.Errorf("render: page %d: %w", i+1, err)
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("render: close pdf: %w", err)
	}
	return nil
}

// PNG rasterizes one page at scale pixels per point.
func (r *Renderer) PNG(d *doc.Document, page int, scale float64, w io.Writer) error {
	if scale <= 0 {
		scale = 2
	}
	c, err := r.pageCanvas(d, page)
	if err != nil {
		return err
	}
	pxPerMM := scale * geo.PointsPerInch / 25.4
	img := rasterizer.Draw(c, canvas.DPMM(pxPerMM), canvas.DefaultColorSpace)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("render: encode png: %w", err)
	}
	return nil
}

// SVG renders one page as vector markup.
func (r *Renderer) SVG(d *doc.Document, page int, w io.Writer) error {
	c, err := r.pageCanvas(d, page)
	if err != nil {
		return err
	}
	writer := svg.New(w, c.W, c.H, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("render: close svg: %w", err)
	}
	return nil
}

// PageCount returns how many pages rendering would produce.
func (r *Renderer) PageCount(d *doc.Document) (int, error) {
	pages, err := r.pages(d)
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

func (r *Renderer) pageCanvas(d *doc.Document, page int) (*canvas.Canvas, error) {
	pages, err := r.pages(d)
	if err != nil {
		return nil, err
	}
	if page < 0 || page >= len(pages) {
		return nil, fmt.Errorf("render: page %d out of range (document has %d)", page, len(pages))
	}
	c := canvas.New(geo.ToMillimeters(d.PageSize.W), geo.ToMillimeters(d.PageSize.H))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)
	if err := r.drawPage(ctx, d, pages[page]); err != nil {
		return nil, fmt.Errorf("render: page %d: %w", page+1, err)
	}
	return c, nil
}

// pages returns the drawable page list: slides for decks, flowed
// pages for word-processing documents.
func (r *Renderer) pages(d *doc.Document) ([]*doc.Slide, error) {
	if d == nil || !d.PageSize.Valid() {
		return nil, fmt.Errorf("render: invalid document")
	}
	if d.Kind == doc.KindDeck {
		return d.Slides, nil
	}
	return r.flow(d)
}

func (r *Renderer) drawPage(ctx *canvas.Context, d *doc.Document, s *doc.Slide) error {
	if s.Fill != nil {
		ctx.SetFillColor(rgba(*s.Fill))
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(0, 0, canvas.Rectangle(ctx.Width(), ctx.Height()))
	}
	for i, f := range s.Frames {
		var err error
		switch fr := f.(type) {
		case *doc.TextFrame:
			err = r.drawTextFrame(ctx, d, fr)
		case *doc.ImageFrame:
			err = r.drawImage(ctx, fr.Box, fr.Image)
		case *doc.TableFrame:
			err = r.drawTable(ctx, d, fr)
		default:
			err = fmt.Errorf("unsupported frame %T", f)
		}
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	return nil
}

func (r *Renderer) drawTextFrame(ctx *canvas.Context, d *doc.Document, fr *doc.TextFrame) error {
	if fr.Fill != nil {
		fillRect(ctx, fr.Box, *fr.Fill)
	}
	box := textfit.TextBox{
		Width:      fr.Box.W,
		Height:     fr.Box.H,
		Padding:    fr.Padding,
		Font:       frameFont(fr.Font, d.Theme),
		MonoFont:   monoFont(d.Theme),
		Paragraphs: fr.Paragraphs,
	}
	spacing := fr.LineSpacing
	if spacing <= 0 {
		spacing = textfit.DefaultLineSpacing
	}
	lines, err := textfit.Wrap(box, fr.SizePt, r.reg)
	if err != nil {
		return err
	}
	return r.drawLines(ctx, d, lines, fr.Box.Inset(fr.Padding), fr.SizePt, spacing, alignOf(fr.Paragraphs))
}

// drawLines draws wrapped lines top-down inside area. Each run is its
// own text span so styles switch mid-line.
func (r *Renderer) drawLines(ctx *canvas.Context, d *doc.Document, lines []textfit.Line, area geo.Rect, sizePt, spacing float64, align doc.Alignment) error {
	lineH := sizePt * spacing
	y := area.Y
	for _, line := range lines {
		x := area.X
		switch align {
		case doc.AlignCenter:
			x += (area.W - line.Width) / 2
		case doc.AlignRight:
			x += area.W - line.Width
		}
		for _, run := range line.Runs {
			if run.Text != "" {
				if err := r.drawRun(ctx, d, run, x, y, sizePt); err != nil {
					return err
				}
			}
			x += r.reg.Measure(run.Text, runFamily(run, d.Theme), sizePt, run.Bold, run.Italic)
		}
		y += lineH
	}
	return nil
}

func (r *Renderer) drawRun(ctx *canvas.Context, d *doc.Document, run doc.Run, xPt, yPt, sizePt float64) error {
	family := runFamily(run, d.Theme)
	face, err := r.face(family, sizePt, run, d.Theme)
	if err != nil {
		return err
	}
	textLine := canvas.NewTextLine(face, run.Text, canvas.Left)
	baseline := geo.ToMillimeters(yPt) + face.Metrics().Ascent
	ctx.DrawText(geo.ToMillimeters(xPt), baseline, textLine)
	return nil
}

func (r *Renderer) drawImage(ctx *canvas.Context, box geo.Rect, img doc.Image) error {
	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	wMM := geo.ToMillimeters(box.W)
	dpmm := float64(decoded.Bounds().Dx()) / wMM
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(geo.ToMillimeters(box.X), geo.ToMillimeters(box.Y), decoded, canvas.DPMM(dpmm))
	return nil
}

func (r *Renderer) drawTable(ctx *canvas.Context, d *doc.Document, fr *doc.TableFrame) error {
	rows := fr.Table.Rows
	if len(rows) == 0 {
		return nil
	}
	widths := fr.Table.SplitWidths(fr.Box.W)
	rowH := fr.Box.H / float64(len(rows))

	y := fr.Box.Y
	for ri, row := range rows {
		x := fr.Box.X
		for ci := 0; ci < len(widths); ci++ {
			cellBox := geo.NewRect(x, y, widths[ci], rowH)
			var cell doc.Cell
			if ci < len(row) {
				cell = row[ci]
			}
			if cell.Fill != nil {
				fillRect(ctx, cellBox, *cell.Fill)
			}
			if fr.Table.Borders {
				strokeRect(ctx, cellBox)
			}
			if len(cell.Paragraphs) > 0 {
				paras := cell.Paragraphs
				if ri < fr.Table.HeaderRows {
					paras = boldCopy(paras)
				}
				inner := cellBox.Inset(cellPaddingPt)
				if !inner.Valid() {
					inner = cellBox
				}
				box := textfit.TextBox{
					Width:      inner.W,
					Height:     inner.H,
					Font:       frameFont(fr.Font, d.Theme),
					MonoFont:   monoFont(d.Theme),
					Paragraphs: paras,
				}
				lines, err := textfit.Wrap(box, fr.SizePt, r.reg)
				if err != nil {
					return err
				}
				if err := r.drawLines(ctx, d, lines, inner, fr.SizePt, textfit.DefaultLineSpacing, alignOf(paras)); err != nil {
					return err
				}
			}
			x += widths[ci]
		}
		y += rowH
	}
	return nil
}

// face returns a canvas font face for the family, styled per the run.
func (r *Renderer) face(family string, sizePt float64, run doc.Run, theme doc.Theme) (*canvas.FontFace, error) {
	fam, err := r.family(family)
	if err != nil {
		return nil, err
	}
	style := canvas.FontRegular
	if run.Bold {
		style |= canvas.FontBold
	}
	if run.Italic {
		style |= canvas.FontItalic
	}
	col := canvas.Black
	if run.Color != nil {
		col = rgba(*run.Color)
	} else if theme.Color != nil {
		col = rgba(*theme.Color)
	}
	face := fam.Face(sizePt, col, style, canvas.FontNormal)
	if run.Underline {
		face = fam.Face(sizePt, col, style, canvas.FontNormal, canvas.FontUnderline)
	}
	return face, nil
}

// family loads the registry's faces for one family into a canvas
// family, caching the result. Families are cached even when missing so
// the error is cheap to repeat.
func (r *Renderer) family(name string) (*canvas.FontFamily, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fam, ok := r.families[name]; ok {
		if fam == nil {
			return nil, fmt.Errorf("font family %q not registered", name)
		}
		return fam, nil
	}

	fam := canvas.NewFontFamily(name)
	loaded := false
	for _, st := range []fonts.Style{{}, {Bold: true}, {Italic: true}, {Bold: true, Italic: true}} {
		face := r.reg.Lookup(name, st)
		if face == nil || face.Style != st {
			continue
		}
		if err := fam.LoadFont(face.Data, 0, canvasStyle(st)); err != nil {
			return nil, fmt.Errorf("load font %q: %w", name, err)
		}
		loaded = true
	}
	if !loaded {
		// Unregistered families still need glyphs to draw; the Go
		// fonts stand in, mirroring the registry's measuring fallback.
		for _, fb := range []struct {
			data  []byte
			style canvas.FontStyle
		}{
			{goregular.TTF, canvas.FontRegular},
			{gobold.TTF, canvas.FontBold},
			{goitalic.TTF, canvas.FontItalic},
			{gobolditalic.TTF, canvas.FontBold | canvas.FontItalic},
		} {
			if err := fam.LoadFont(fb.data, 0, fb.style); err != nil {
				r.families[name] = nil
				return nil, fmt.Errorf("load fallback font for %q: %w", name, err)
			}
		}
	}
	r.families[name] = fam
	return fam, nil
}

func canvasStyle(st fonts.Style) canvas.FontStyle {
	out := canvas.FontRegular
	if st.Bold {
		out |= canvas.FontBold
	}
	if st.Italic {
		out |= canvas.FontItalic
	}
	return out
}

func fillRect(ctx *canvas.Context, box geo.Rect, c doc.Color) {
	ctx.SetFillColor(rgba(c))
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(geo.ToMillimeters(box.X), geo.ToMillimeters(box.Y),
		canvas.Rectangle(geo.ToMillimeters(box.W), geo.ToMillimeters(box.H)))
}

func strokeRect(ctx *canvas.Context, box geo.Rect) {
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(canvas.Black)
	ctx.SetStrokeWidth(gridWidthMM)
	ctx.DrawPath(geo.ToMillimeters(box.X), geo.ToMillimeters(box.Y),
		canvas.Rectangle(geo.ToMillimeters(box.W), geo.ToMillimeters(box.H)))
}

func rgba(c doc.Color) color.RGBA {
	return canvas.RGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, 1)
}

func frameFont(face string, theme doc.Theme) string {
	if face != "" {
		return face
	}
	if theme.Font != "" {
		return theme.Font
	}
	return "Calibri"
}

func monoFont(theme doc.Theme) string {
	if theme.MonoFont != "" {
		return theme.MonoFont
	}
	return "Consolas"
}

func runFamily(run doc.Run, theme doc.Theme) string {
	if run.Mono {
		return monoFont(theme)
	}
	return frameFont("", theme)
}

// alignOf returns the first explicit alignment; lines in one frame
// share it.
func alignOf(paras []doc.Paragraph) doc.Alignment {
	for _, p := range paras {
		if p.Align != "" {
			return p.Align
		}
	}
	return doc.AlignLeft
}

func boldCopy(paras []doc.Paragraph) []doc.Paragraph {
	out := make([]doc.Paragraph, len(paras))
	for i, p := range paras {
		runs := make([]doc.Run, len(p.Runs))
		for j, run := range p.Runs {
			run.Bold = true
			runs[j] = run
		}
		p.Runs = runs
		out[i] = p
	}
	return out
}

