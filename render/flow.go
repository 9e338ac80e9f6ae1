package render

import (
	"bytes"
	"fmt"
	"image"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/textfit"
)

// Flow layout constants. Margins match the exported .docx section
// margins so the preview paginates like the opened file.
const (
	flowMarginPt   = 72.0
	flowBodyPt     = 11.0
	flowParaGapPt  = 6.0
	flowImageDPI   = 96.0
	flowTableRowPt = 4.0
)

// headingSizePt maps heading levels to the sizes Word's default styles
// use, close enough for pagination.
func headingSizePt(level int) float64 {
	switch level {
	case 1:
		return 20
	case 2:
		return 16
	case 3:
		return 14
	default:
		return 12
	}
}

// flow paginates a word-processing body into pages of positioned
// frames. Blocks never split across pages; a block taller than the
// content area overflows its own page rather than failing.
func (r *Renderer) flow(d *doc.Document) ([]*doc.Slide, error) {
	content := geo.NewRect(flowMarginPt, flowMarginPt,
		d.PageSize.W-2*flowMarginPt, d.PageSize.H-2*flowMarginPt)
	if !content.Valid() {
		return nil, fmt.Errorf("render: page size %gx%g leaves no content area", d.PageSize.W, d.PageSize.H)
	}

	pages := []*doc.Slide{{}}
	y := content.Y
	for i, blk := range d.Body {
		if blk.PageBreak {
			pages = append(pages, &doc.Slide{})
			y = content.Y
			continue
		}

		var (
			f   doc.Frame
			h   float64
			err error
		)
		switch {
		case blk.Paragraph != nil:
			f, h, err = r.flowParagraph(d, content, *blk.Paragraph)
		case blk.Table != nil:
			f, h, err = r.flowTable(d, content, *blk.Table)
		case blk.Image != nil:
			f, h, err = flowImage(content, *blk.Image)
		default:
			err = fmt.Errorf("empty body block")
		}
		if err != nil {
			return nil, fmt.Errorf("render: block %d: %w", i, err)
		}

		if y > content.Y && y+h > content.Bottom() {
			pages = append(pages, &doc.Slide{})
			y = content.Y
		}
		setTop(f, y)
		page := pages[len(pages)-1]
		page.Frames = append(page.Frames, f)
		y += h + flowParaGapPt
	}
	return pages, nil
}

// setTop moves a flowed frame to its final vertical position once the
// page turn decision is made.
func setTop(f doc.Frame, y float64) {
	switch fr := f.(type) {
	case *doc.TextFrame:
		fr.Box.Y = y
	case *doc.ImageFrame:
		fr.Box.Y = y
	case *doc.TableFrame:
		fr.Box.Y = y
	}
}

func (r *Renderer) flowParagraph(d *doc.Document, content geo.Rect, p doc.Paragraph) (*doc.TextFrame, float64, error) {
	sizePt := flowBodyPt
	if p.Heading > 0 {
		sizePt = headingSizePt(p.Heading)
	}
	box := textfit.TextBox{
		Width:      content.W,
		Height:     content.H,
		Font:       frameFont("", d.Theme),
		MonoFont:   monoFont(d.Theme),
		Paragraphs: []doc.Paragraph{p},
	}
	lines, err := textfit.Wrap(box, sizePt, r.reg)
	if err != nil {
		return nil, 0, err
	}
	n := len(lines)
	if n == 0 {
		n = 1
	}
	h := float64(n) * sizePt * textfit.DefaultLineSpacing
	return &doc.TextFrame{
		Box:        geo.NewRect(content.X, content.Y, content.W, h),
		Paragraphs: []doc.Paragraph{p},
		SizePt:     sizePt,
	}, h, nil
}

// flowTable sizes a table from its tallest row: drawTable divides the
// frame height evenly, so every row gets the tallest row's height.
func (r *Renderer) flowTable(d *doc.Document, content geo.Rect, t doc.Table) (*doc.TableFrame, float64, error) {
	if len(t.Rows) == 0 {
		return nil, 0, fmt.Errorf("table has no rows")
	}
	widths := t.SplitWidths(content.W - 2*cellPaddingPt)
	rowH := flowBodyPt*textfit.DefaultLineSpacing + 2*flowTableRowPt
	for _, row := range t.Rows {
		for ci, cell := range row {
			if len(cell.Paragraphs) == 0 || ci >= len(widths) {
				continue
			}
			box := textfit.TextBox{
				Width:      widths[ci],
				Height:     content.H,
				Font:       frameFont("", d.Theme),
				MonoFont:   monoFont(d.Theme),
				Paragraphs: cell.Paragraphs,
			}
			lines, err := textfit.Wrap(box, flowBodyPt, r.reg)
			if err != nil {
				return nil, 0, err
			}
			h := float64(len(lines))*flowBodyPt*textfit.DefaultLineSpacing + 2*flowTableRowPt
			if h > rowH {
				rowH = h
			}
		}
	}
	h := rowH * float64(len(t.Rows))
	return &doc.TableFrame{
		Box:    geo.NewRect(content.X, content.Y, content.W, h),
		Table:  t,
		SizePt: flowBodyPt,
	}, h, nil
}

// flowImage sizes an image at its natural resolution, shrunk to the
// content width when wider.
func flowImage(content geo.Rect, img doc.Image) (*doc.ImageFrame, float64, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return nil, 0, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, 0, fmt.Errorf("image has no dimensions")
	}
	w := float64(cfg.Width) * geo.PointsPerInch / flowImageDPI
	h := float64(cfg.Height) * geo.PointsPerInch / flowImageDPI
	if w > content.W {
		h *= content.W / w
		w = content.W
	}
	return &doc.ImageFrame{
		Box:   geo.NewRect(content.X, content.Y, w, h),
		Image: img,
	}, h, nil
}
