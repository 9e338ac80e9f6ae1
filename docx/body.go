package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/ooxml"
)

const nsDecls = ` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
	` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
	` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`

// pageMarginPt is the fixed one-inch margin on all sides.
const pageMarginPt = 72.0

// bodyWriter emits word/document.xml and registers the media and
// hyperlink relationships the body needs.
type bodyWriter struct {
	pkg      *ooxml.Package
	theme    doc.Theme
	mediaSeq int
	drawSeq  int
}

// twips converts points to twentieths of a point.
func twips(pt float64) int { return int(pt*20 + 0.5) }

// halfPoints converts points to the schema's half-point run size.
func halfPoints(pt float64) int { return int(pt*2 + 0.5) }

func (bw *bodyWriter) documentXML(d *doc.Document) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<w:document` + nsDecls + `>`)
	b.WriteString(`<w:body>`)

	contentW := d.PageSize.W - 2*pageMarginPt
	for i, blk := range d.Body {
		switch {
		case blk.Paragraph != nil:
			bw.paragraph(&b, *blk.Paragraph)
		case blk.Table != nil:
			if err := bw.table(&b, *blk.Table, contentW); err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
		case blk.Image != nil:
			bw.image(&b, *blk.Image, contentW)
		case blk.PageBreak:
			b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
		default:
			return nil, fmt.Errorf("block %d: empty body block", i)
		}
	}

	fmt.Fprintf(&b, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`, twips(d.PageSize.W), twips(d.PageSize.H))
	m := twips(pageMarginPt)
	fmt.Fprintf(&b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/>`, m, m, m, m)
	b.WriteString(`</w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)
	return b.Bytes(), nil
}

func (bw *bodyWriter) paragraph(b *bytes.Buffer, p doc.Paragraph) {
	b.WriteString(`<w:p>`)
	var props strings.Builder
	if p.Heading > 0 {
		h := p.Heading
		if h > 6 {
			h = 6
		}
		fmt.Fprintf(&props, `<w:pStyle w:val="Heading%d"/>`, h)
	}
	if p.Bullet {
		fmt.Fprintf(&props, `<w:numPr><w:ilvl w:val="%d"/><w:numId w:val="1"/></w:numPr>`, p.Level)
	}
	if jc := alignVal(p.Align); jc != "" {
		fmt.Fprintf(&props, `<w:jc w:val="%s"/>`, jc)
	}
	if props.Len() > 0 {
		b.WriteString(`<w:pPr>` + props.String() + `</w:pPr>`)
	}
	for _, r := range p.Runs {
		bw.run(b, r)
	}
	b.WriteString(`</w:p>`)
}

// run splits on embedded newlines, which WordprocessingML represents
// as w:br elements between text runs.
func (bw *bodyWriter) run(b *bytes.Buffer, r doc.Run) {
	if r.Link != "" {
		relID := bw.pkg.Relate("word/document.xml", ooxml.Relationship{
			Type:     ooxml.RelHyperlink,
			Target:   r.Link,
			External: true,
		})
		fmt.Fprintf(b, `<w:hyperlink r:id="%s">`, relID)
		bw.runBody(b, r, true)
		b.WriteString(`</w:hyperlink>`)
		return
	}
	bw.runBody(b, r, false)
}

func (bw *bodyWriter) runBody(b *bytes.Buffer, r doc.Run, linked bool) {
	var props strings.Builder
	if linked {
		props.WriteString(`<w:rStyle w:val="Hyperlink"/>`)
	}
	if r.Mono {
		mono := bw.theme.MonoFont
		if mono == "" {
			mono = "Consolas"
		}
		fmt.Fprintf(&props, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, ooxml.Escape(mono), ooxml.Escape(mono))
	}
	if r.Bold {
		props.WriteString(`<w:b/>`)
	}
	if r.Italic {
		props.WriteString(`<w:i/>`)
	}
	if r.Underline {
		props.WriteString(`<w:u w:val="single"/>`)
	}
	if r.Color != nil {
		fmt.Fprintf(&props, `<w:color w:val="%s"/>`, r.Color.Hex())
	}

	for i, seg := range strings.Split(r.Text, "\n") {
		if i > 0 {
			b.WriteString(`<w:r><w:br/></w:r>`)
		}
		if seg == "" {
			continue
		}
		b.WriteString(`<w:r>`)
		if props.Len() > 0 {
			b.WriteString(`<w:rPr>` + props.String() + `</w:rPr>`)
		}
		fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, ooxml.Escape(seg))
		b.WriteString(`</w:r>`)
	}
}

func (bw *bodyWriter) table(b *bytes.Buffer, t doc.Table, contentW float64) error {
	cols := t.Columns()
	if cols == 0 || len(t.Rows) == 0 {
		return fmt.Errorf("table has no cells")
	}
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/>`)
	if t.Borders {
		b.WriteString(`<w:tblBorders>` +
			`<w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`<w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/>` +
			`</w:tblBorders>`)
	}
	b.WriteString(`</w:tblPr>`)

	widths := t.SplitWidths(contentW)
	b.WriteString(`<w:tblGrid>`)
	for _, w := range widths {
		fmt.Fprintf(b, `<w:gridCol w:w="%d"/>`, twips(w))
	}
	b.WriteString(`</w:tblGrid>`)

	for ri, row := range t.Rows {
		b.WriteString(`<w:tr>`)
		header := ri < t.HeaderRows
		for ci := 0; ci < cols; ci++ {
			var cell doc.Cell
			if ci < len(row) {
				cell = row[ci]
			}
			fmt.Fprintf(b, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/>`, twips(widths[ci]))
			if cell.Fill != nil {
				fmt.Fprintf(b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, cell.Fill.Hex())
			}
			b.WriteString(`</w:tcPr>`)
			if len(cell.Paragraphs) == 0 {
				b.WriteString(`<w:p/>`)
			}
			for _, p := range cell.Paragraphs {
				if header {
					boldRuns(&p)
				}
				bw.paragraph(b, p)
			}
			b.WriteString(`</w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
	return nil
}

// image emits an inline drawing sized from the image's pixel
// dimensions at 96 DPI, scaled down to the content width when wider.
func (bw *bodyWriter) image(b *bytes.Buffer, img doc.Image, contentW float64) {
	wPt, hPt := imageSizePt(img.Data, contentW)
	relID := bw.addMedia(img)
	bw.drawSeq++

	name := fmt.Sprintf("Picture %d", bw.drawSeq)
	b.WriteString(`<w:p><w:r><w:drawing>`)
	b.WriteString(`<wp:inline distT="0" distB="0" distL="0" distR="0">`)
	fmt.Fprintf(b, `<wp:extent cx="%d" cy="%d"/>`, geo.EMU(wPt), geo.EMU(hPt))
	fmt.Fprintf(b, `<wp:docPr id="%d" name="%s"`, bw.drawSeq, ooxml.Escape(name))
	if img.Alt != "" {
		fmt.Fprintf(b, ` descr="%s"`, ooxml.Escape(img.Alt))
	}
	b.WriteString(`/>`)
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`)
	b.WriteString(`<pic:pic>`)
	fmt.Fprintf(b, `<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`, bw.drawSeq, ooxml.Escape(name))
	fmt.Fprintf(b, `<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, relID)
	fmt.Fprintf(b, `<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`,
		geo.EMU(wPt), geo.EMU(hPt))
	b.WriteString(`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`)
}

func (bw *bodyWriter) addMedia(img doc.Image) string {
	bw.mediaSeq++
	ext := mediaExt(img.MIME)
	name := fmt.Sprintf("word/media/image%d.%s", bw.mediaSeq, ext)
	bw.pkg.AddPart(name, "", img.Data)
	return bw.pkg.Relate("word/document.xml", ooxml.Relationship{
		Type:   ooxml.RelImage,
		Target: fmt.Sprintf("media/image%d.%s", bw.mediaSeq, ext),
	})
}

// imageSizePt decodes the pixel dimensions and maps them to points at
// 96 DPI. Undecodable data falls back to a 4x3 inch block.
func imageSizePt(data []byte, maxW float64) (w, h float64) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		w, h = geo.Inches(4), geo.Inches(3)
	} else {
		w = float64(cfg.Width) * 72 / 96
		h = float64(cfg.Height) * 72 / 96
	}
	if w > maxW {
		h *= maxW / w
		w = maxW
	}
	return w, h
}

func boldRuns(p *doc.Paragraph) {
	runs := make([]doc.Run, len(p.Runs))
	for i, r := range p.Runs {
		r.Bold = true
		runs[i] = r
	}
	p.Runs = runs
}

func alignVal(a doc.Alignment) string {
	switch a {
	case doc.AlignCenter:
		return "center"
	case doc.AlignRight:
		return "right"
	case doc.AlignJustify:
		return "both"
	}
	return ""
}

func mediaExt(mime string) string {
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpeg"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
