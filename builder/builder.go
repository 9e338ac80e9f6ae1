// Package builder provides fluent construction of slide decks and
// word-processing documents. Text frames are auto-fit on the way in:
// the builder runs the size search and records the resolved size on
// the frame, so serializers and renderers never re-fit.
package builder

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/fonts"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/markdown"
	"github.com/wudi/docsmith/textfit"
)

// DeckBuilder provides a fluent API for deck construction.
type DeckBuilder interface {
	SetInfo(info doc.Info) DeckBuilder
	SetTheme(theme doc.Theme) DeckBuilder
	SetSlideSize(size geo.Size) DeckBuilder
	AddSlide() SlideBuilder
	Slide(index int) SlideBuilder
	AddMarkdownSlide(source string) DeckBuilder
	Build() (*doc.Document, error)
}

// SlideBuilder provides a fluent API for one slide.
type SlideBuilder interface {
	SetFill(c doc.Color) SlideBuilder
	AddTextBox(box geo.Rect, text string, opts *TextOptions) SlideBuilder
	AddMarkdown(box geo.Rect, source string, opts *TextOptions) SlideBuilder
	AddHTML(box geo.Rect, source string, opts *TextOptions) SlideBuilder
	AddParagraphs(box geo.Rect, paras []doc.Paragraph, opts *TextOptions) SlideBuilder
	AddImage(box geo.Rect, img doc.Image) SlideBuilder
	AddTable(box geo.Rect, table doc.Table, opts *TableOptions) SlideBuilder
	Finish() DeckBuilder
}

type deckBuilderImpl struct {
	reg  *fonts.Registry
	docu *doc.Document
	err  error
}

type slideBuilderImpl struct {
	parent *deckBuilderImpl
	slide  *doc.Slide
}

// NewDeck constructs a DeckBuilder measuring against reg. A nil
// registry still works; everything measures through the fallback
// metrics.
func NewDeck(reg *fonts.Registry) DeckBuilder {
	if reg == nil {
		reg = fonts.NewRegistry()
	}
	return &deckBuilderImpl{
		reg: reg,
		docu: &doc.Document{
			Kind:     doc.KindDeck,
			ID:       uuid.NewString(),
			Info:     doc.Info{Created: time.Now().UTC()},
			PageSize: DefaultSlideSize,
		},
	}
}

// Resume continues building on top of an existing deck, as when a
// document handle is round-tripped between stateless calls.
func Resume(d *doc.Document, reg *fonts.Registry) (DeckBuilder, error) {
	if d == nil || d.Kind != doc.KindDeck {
		return nil, fmt.Errorf("resume deck: not a deck document")
	}
	if reg == nil {
		reg = fonts.NewRegistry()
	}
	if !d.PageSize.Valid() {
		return nil, fmt.Errorf("resume deck: %w", textfit.ErrInvalidBox)
	}
	return &deckBuilderImpl{reg: reg, docu: d}, nil
}

func (b *deckBuilderImpl) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *deckBuilderImpl) SetInfo(info doc.Info) DeckBuilder {
	if info.Created.IsZero() {
		info.Created = b.docu.Info.Created
	}
	b.docu.Info = info
	return b
}

func (b *deckBuilderImpl) SetTheme(theme doc.Theme) DeckBuilder {
	b.docu.Theme = theme
	return b
}

func (b *deckBuilderImpl) SetSlideSize(size geo.Size) DeckBuilder {
	if !size.Valid() {
		b.fail(fmt.Errorf("slide size %+v: %w", size, textfit.ErrInvalidBox))
		return b
	}
	b.docu.PageSize = size
	return b
}

func (b *deckBuilderImpl) AddSlide() SlideBuilder {
	s := &doc.Slide{ID: uuid.NewString()}
	b.docu.Slides = append(b.docu.Slides, s)
	return &slideBuilderImpl{parent: b, slide: s}
}

// Slide returns a builder over an existing slide, as when a handle is
// resumed and a later call targets a slide added earlier. Out-of-range
// indexes fail the build; the returned builder works on a detached
// slide so chained calls stay safe.
func (b *deckBuilderImpl) Slide(index int) SlideBuilder {
	if index < 0 || index >= len(b.docu.Slides) {
		b.fail(fmt.Errorf("slide %d out of range (deck has %d)", index, len(b.docu.Slides)))
		return &slideBuilderImpl{parent: b, slide: &doc.Slide{}}
	}
	return &slideBuilderImpl{parent: b, slide: b.docu.Slides[index]}
}

// AddMarkdownSlide builds one slide from markdown: a leading heading
// becomes the title frame, the remainder fills the body frame.
func (b *deckBuilderImpl) AddMarkdownSlide(source string) DeckBuilder {
	if b.err != nil {
		return b
	}
	paras, err := markdown.Parse([]byte(source))
	if err != nil {
		b.fail(fmt.Errorf("markdown slide: %w", err))
		return b
	}

	title, body := splitTitle(paras)
	size := b.docu.PageSize
	margin := size.W / 24

	slide := b.AddSlide()
	bodyTop := margin
	if len(title) > 0 {
		titleBox := geo.NewRect(margin, margin, size.W-2*margin, DefaultTitleSizePt*2)
		slide.AddParagraphs(titleBox, title, &TextOptions{SizePt: DefaultTitleSizePt})
		bodyTop = titleBox.Bottom() + margin/2
	}
	if len(body) > 0 {
		bodyBox := geo.NewRect(margin, bodyTop, size.W-2*margin, size.H-bodyTop-margin)
		slide.AddParagraphs(bodyBox, body, nil)
	}
	return slide.Finish()
}

// splitTitle peels a leading heading off the paragraph list.
func splitTitle(paras []doc.Paragraph) (title, body []doc.Paragraph) {
	if len(paras) > 0 && paras[0].Heading > 0 {
		return paras[:1], paras[1:]
	}
	return nil, paras
}

func (b *deckBuilderImpl) Build() (*doc.Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.docu, nil
}

func (s *slideBuilderImpl) SetFill(c doc.Color) SlideBuilder {
	s.slide.Fill = &c
	return s
}

func (s *slideBuilderImpl) AddTextBox(box geo.Rect, text string, opts *TextOptions) SlideBuilder {
	return s.AddParagraphs(box, doc.ParagraphsFromText(text), opts)
}

func (s *slideBuilderImpl) AddMarkdown(box geo.Rect, source string, opts *TextOptions) SlideBuilder {
	if s.parent.err != nil {
		return s
	}
	paras, err := markdown.Parse([]byte(source))
	if err != nil {
		s.parent.fail(fmt.Errorf("markdown frame: %w", err))
		return s
	}
	return s.AddParagraphs(box, paras, opts)
}

func (s *slideBuilderImpl) AddHTML(box geo.Rect, source string, opts *TextOptions) SlideBuilder {
	if s.parent.err != nil {
		return s
	}
	paras, err := markdown.ParseHTML(source)
	if err != nil {
		s.parent.fail(fmt.Errorf("html frame: %w", err))
		return s
	}
	return s.AddParagraphs(box, paras, opts)
}

func (s *slideBuilderImpl) AddParagraphs(box geo.Rect, paras []doc.Paragraph, opts *TextOptions) SlideBuilder {
	if s.parent.err != nil {
		return s
	}
	if !box.Valid() {
		s.parent.fail(fmt.Errorf("text frame at (%g, %g): %w", box.X, box.Y, textfit.ErrInvalidBox))
		return s
	}
	o := resolveText(opts, s.parent.docu.Theme)
	if o.Align != "" {
		for i := range paras {
			if paras[i].Align == "" {
				paras[i].Align = o.Align
			}
		}
	}

	frame := &doc.TextFrame{
		ID:          uuid.NewString(),
		Box:         box,
		Paragraphs:  paras,
		Font:        o.Font,
		SizePt:      o.SizePt,
		MinSizePt:   o.MinSizePt,
		LineSpacing: o.LineSpacing,
		Padding:     o.Padding,
		AutoFit:     o.Fit == FitShrink,
		Fill:        o.Fill,
	}

	if frame.AutoFit {
		out, err := textfit.FindFittingSize(
			textFitBox(box, o, s.parent.docu.Theme, paras),
			o.SizePt,
			textfit.Options{MinSizePt: o.MinSizePt, StepPt: o.StepPt, LineSpacing: o.LineSpacing},
			s.parent.reg,
		)
		if err != nil {
			s.parent.fail(fmt.Errorf("fit text frame: %w", err))
			return s
		}
		frame.SizePt = out.SizePt
		summary := out.Summary()
		frame.Fit = &summary
	}

	s.slide.Frames = append(s.slide.Frames, frame)
	return s
}

func textFitBox(box geo.Rect, o TextOptions, theme doc.Theme, paras []doc.Paragraph) textfit.TextBox {
	mono := theme.MonoFont
	if mono == "" {
		mono = DefaultMonoFont
	}
	return textfit.TextBox{
		Width:      box.W,
		Height:     box.H,
		Padding:    o.Padding,
		Font:       o.Font,
		MonoFont:   mono,
		Paragraphs: paras,
	}
}

func (s *slideBuilderImpl) AddImage(box geo.Rect, img doc.Image) SlideBuilder {
	if s.parent.err != nil {
		return s
	}
	if !box.Valid() {
		s.parent.fail(fmt.Errorf("image frame at (%g, %g): %w", box.X, box.Y, textfit.ErrInvalidBox))
		return s
	}
	if len(img.Data) == 0 {
		s.parent.fail(fmt.Errorf("image frame at (%g, %g): empty image data", box.X, box.Y))
		return s
	}
	s.slide.Frames = append(s.slide.Frames, &doc.ImageFrame{
		ID:    uuid.NewString(),
		Box:   box,
		Image: img,
	})
	return s
}

// AddTable lays out a table frame. Every cell is auto-fit at its
// column width against an equal share of the box height; the smallest
// resolved size wins so the whole table reads uniformly.
func (s *slideBuilderImpl) AddTable(box geo.Rect, table doc.Table, opts *TableOptions) SlideBuilder {
	if s.parent.err != nil {
		return s
	}
	if !box.Valid() {
		s.parent.fail(fmt.Errorf("table frame at (%g, %g): %w", box.X, box.Y, textfit.ErrInvalidBox))
		return s
	}
	if len(table.Rows) == 0 || table.Columns() == 0 {
		s.parent.fail(fmt.Errorf("table frame at (%g, %g): empty table", box.X, box.Y))
		return s
	}
	o := resolveTable(opts, s.parent.docu.Theme)
	table.HeaderRows = o.HeaderRows
	table.Borders = o.Borders
	if o.HeaderFill != nil {
		for r := 0; r < o.HeaderRows && r < len(table.Rows); r++ {
			for c := range table.Rows[r] {
				if table.Rows[r][c].Fill == nil {
					table.Rows[r][c].Fill = o.HeaderFill
				}
			}
		}
	}

	size, err := s.fitTable(box, &table, o)
	if err != nil {
		s.parent.fail(fmt.Errorf("fit table frame: %w", err))
		return s
	}

	s.slide.Frames = append(s.slide.Frames, &doc.TableFrame{
		ID:        uuid.NewString(),
		Box:       box,
		Table:     table,
		Font:      o.Font,
		SizePt:    size,
		MinSizePt: o.MinSizePt,
	})
	return s
}

func (s *slideBuilderImpl) fitTable(box geo.Rect, table *doc.Table, o TableOptions) (float64, error) {
	widths := table.SplitWidths(box.W)
	rowHeight := box.H / float64(len(table.Rows))

	size := o.SizePt
	for _, row := range table.Rows {
		for c, cell := range row {
			if len(cell.Paragraphs) == 0 {
				continue
			}
			out, err := textfit.FindFittingSize(
				textFitBox(geo.NewRect(0, 0, widths[c], rowHeight), TextOptions{Font: o.Font}, s.parent.docu.Theme, cell.Paragraphs),
				o.SizePt,
				textfit.Options{MinSizePt: o.MinSizePt},
				s.parent.reg,
			)
			if err != nil {
				return 0, err
			}
			if out.SizePt < size {
				size = out.SizePt
			}
		}
	}
	return size, nil
}

func (s *slideBuilderImpl) Finish() DeckBuilder { return s.parent }
