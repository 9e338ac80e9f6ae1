package pptx

import (
	"fmt"
	"strings"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/ooxml"
)

// slideWriter emits slide parts and registers the media and hyperlink
// relationships they need. One writer serves the whole deck so media
// numbering stays package-unique.
type slideWriter struct {
	pkg      *ooxml.Package
	theme    doc.Theme
	mediaSeq int
}

// runStyle is the frame-level style context applied to runs that do
// not override it.
type runStyle struct {
	part    string // slide part name, for hyperlink rels
	sizePt  float64
	font    string
	mono    string
	color   *doc.Color
	spacing float64
}

func (sw *slideWriter) slideXML(part string, s *doc.Slide) ([]byte, error) {
	b := newXMLBuilder()
	b.raw(`<p:sld` + nsDecls + `>`)
	b.raw(`<p:cSld>`)
	if s.Fill != nil {
		b.f(`<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, s.Fill.Hex())
	}
	b.raw(`<p:spTree>`)
	b.raw(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)

	shapeID := 2
	for i, f := range s.Frames {
		if !f.Bounds().Valid() {
			return nil, fmt.Errorf("frame %d: invalid bounds %+v", i, f.Bounds())
		}
		switch fr := f.(type) {
		case *doc.TextFrame:
			sw.textShape(b, part, shapeID, fr)
		case *doc.ImageFrame:
			sw.picture(b, part, shapeID, fr)
		case *doc.TableFrame:
			sw.tableFrame(b, part, shapeID, fr)
		default:
			return nil, fmt.Errorf("frame %d: unsupported frame %T", i, f)
		}
		shapeID++
	}

	b.raw(`</p:spTree>`)
	b.raw(`</p:cSld>`)
	b.raw(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.raw(`</p:sld>`)
	return b.bytes(), nil
}

func (sw *slideWriter) textShape(b *xmlBuilder, part string, id int, f *doc.TextFrame) {
	name := f.ID
	if name == "" {
		name = fmt.Sprintf("TextBox %d", id)
	}
	b.f(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, ooxml.Escape(name))
	b.raw(`<p:spPr>`)
	xfrm(b, f.Box)
	b.raw(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	if f.Fill != nil {
		b.f(`<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, f.Fill.Hex())
	}
	b.raw(`</p:spPr>`)

	inset := geo.EMU(f.Padding)
	b.f(`<p:txBody><a:bodyPr wrap="square" lIns="%d" tIns="%d" rIns="%d" bIns="%d" anchor="t"/><a:lstStyle/>`,
		inset, inset, inset, inset)
	st := runStyle{
		part:    part,
		sizePt:  f.SizePt,
		font:    sw.fontOr(f.Font),
		mono:    sw.monoFont(),
		color:   sw.theme.Color,
		spacing: f.LineSpacing,
	}
	for _, p := range f.Paragraphs {
		sw.paragraph(b, p, st)
	}
	b.raw(`</p:txBody></p:sp>`)
}

func (sw *slideWriter) picture(b *xmlBuilder, part string, id int, f *doc.ImageFrame) {
	relID := sw.addMedia(part, f.Image)
	name := f.ID
	if name == "" {
		name = fmt.Sprintf("Picture %d", id)
	}
	b.f(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="%s"`, id, ooxml.Escape(name))
	if f.Image.Alt != "" {
		b.f(` descr="%s"`, ooxml.Escape(f.Image.Alt))
	}
	b.raw(`/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`)
	b.f(`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`, relID)
	b.raw(`<p:spPr>`)
	xfrm(b, f.Box)
	b.raw(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr></p:pic>`)
}

func (sw *slideWriter) tableFrame(b *xmlBuilder, part string, id int, f *doc.TableFrame) {
	cols := f.Table.Columns()
	if cols == 0 || len(f.Table.Rows) == 0 {
		return
	}
	name := f.ID
	if name == "" {
		name = fmt.Sprintf("Table %d", id)
	}
	b.f(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/>`, id, ooxml.Escape(name))
	b.raw(`<p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`)
	b.f(`<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`,
		geo.EMU(f.Box.X), geo.EMU(f.Box.Y), geo.EMU(f.Box.W), geo.EMU(f.Box.H))
	b.raw(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl>`)
	if f.Table.HeaderRows > 0 {
		b.raw(`<a:tblPr firstRow="1" bandRow="1"/>`)
	} else {
		b.raw(`<a:tblPr bandRow="1"/>`)
	}

	widths := f.Table.SplitWidths(f.Box.W)
	b.raw(`<a:tblGrid>`)
	for _, w := range widths {
		b.f(`<a:gridCol w="%d"/>`, geo.EMU(w))
	}
	b.raw(`</a:tblGrid>`)

	rowH := geo.EMU(f.Box.H / float64(len(f.Table.Rows)))
	st := runStyle{
		part:   part,
		sizePt: f.SizePt,
		font:   sw.fontOr(f.Font),
		mono:   sw.monoFont(),
		color:  sw.theme.Color,
	}
	for ri, row := range f.Table.Rows {
		b.f(`<a:tr h="%d">`, rowH)
		header := ri < f.Table.HeaderRows
		for ci := 0; ci < cols; ci++ {
			var cell doc.Cell
			if ci < len(row) {
				cell = row[ci]
			}
			b.raw(`<a:tc><a:txBody><a:bodyPr/><a:lstStyle/>`)
			if len(cell.Paragraphs) == 0 {
				sw.paragraph(b, doc.Paragraph{}, st)
			}
			for _, p := range cell.Paragraphs {
				if header {
					p.Heading = 1
				}
				sw.paragraph(b, p, st)
			}
			b.raw(`</a:txBody>`)
			if cell.Fill != nil {
				b.f(`<a:tcPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:tcPr>`, cell.Fill.Hex())
			} else {
				b.raw(`<a:tcPr/>`)
			}
			b.raw(`</a:tc>`)
		}
		b.raw(`</a:tr>`)
	}
	b.raw(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}

func (sw *slideWriter) paragraph(b *xmlBuilder, p doc.Paragraph, st runStyle) {
	b.raw(`<a:p>`)
	b.raw(`<a:pPr`)
	if p.Bullet {
		indent := int64(342900) * int64(p.Level+1)
		b.f(` marL="%d" indent="-342900"`, indent)
	}
	if algn := alignVal(p.Align); algn != "" {
		b.f(` algn="%s"`, algn)
	}
	b.raw(`>`)
	if st.spacing > 0 {
		b.f(`<a:lnSpc><a:spcPct val="%d"/></a:lnSpc>`, int(st.spacing*100000+0.5))
	}
	if p.Bullet {
		b.raw(`<a:buFont typeface="Arial"/><a:buChar char="&#8226;"/>`)
	}
	b.raw(`</a:pPr>`)

	if len(p.Runs) == 0 {
		b.f(`<a:endParaRPr lang="en-US" sz="%d"/>`, hundredths(st.sizePt))
		b.raw(`</a:p>`)
		return
	}
	for _, r := range p.Runs {
		sw.run(b, r, st, p.Heading > 0)
	}
	b.raw(`</a:p>`)
}

// run splits on embedded newlines: DrawingML represents soft breaks as
// sibling a:br elements, never as characters.
func (sw *slideWriter) run(b *xmlBuilder, r doc.Run, st runStyle, forceBold bool) {
	for i, seg := range strings.Split(r.Text, "\n") {
		if i > 0 {
			b.raw(`<a:br/>`)
		}
		if seg == "" {
			continue
		}
		b.raw(`<a:r>`)
		b.f(`<a:rPr lang="en-US" sz="%d"`, hundredths(st.sizePt))
		if r.Bold || forceBold {
			b.raw(` b="1"`)
		}
		if r.Italic {
			b.raw(` i="1"`)
		}
		if r.Underline {
			b.raw(` u="sng"`)
		}
		b.raw(` dirty="0">`)
		if c := runColor(r, st); c != nil {
			b.f(`<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, c.Hex())
		}
		face := st.font
		if r.Mono {
			face = st.mono
		}
		b.f(`<a:latin typeface="%s"/>`, ooxml.Escape(face))
		if r.Link != "" {
			relID := sw.pkg.Relate(st.part, ooxml.Relationship{
				Type:     ooxml.RelHyperlink,
				Target:   r.Link,
				External: true,
			})
			b.f(`<a:hlinkClick r:id="%s"/>`, relID)
		}
		b.raw(`</a:rPr>`)
		b.text("a:t", seg)
		b.raw(`</a:r>`)
	}
}

func (sw *slideWriter) addMedia(part string, img doc.Image) string {
	sw.mediaSeq++
	ext := mediaExt(img.MIME)
	name := fmt.Sprintf("ppt/media/image%d.%s", sw.mediaSeq, ext)
	sw.pkg.AddPart(name, "", img.Data)
	return sw.pkg.Relate(part, ooxml.Relationship{
		Type:   ooxml.RelImage,
		Target: fmt.Sprintf("../media/image%d.%s", sw.mediaSeq, ext),
	})
}

func (sw *slideWriter) fontOr(face string) string {
	if face != "" {
		return face
	}
	if sw.theme.Font != "" {
		return sw.theme.Font
	}
	return "Calibri"
}

func (sw *slideWriter) monoFont() string {
	if sw.theme.MonoFont != "" {
		return sw.theme.MonoFont
	}
	return "Consolas"
}

func runColor(r doc.Run, st runStyle) *doc.Color {
	if r.Color != nil {
		return r.Color
	}
	return st.color
}

func alignVal(a doc.Alignment) string {
	switch a {
	case doc.AlignCenter:
		return "ctr"
	case doc.AlignRight:
		return "r"
	case doc.AlignJustify:
		return "just"
	}
	return ""
}

func xfrm(b *xmlBuilder, r geo.Rect) {
	b.f(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		geo.EMU(r.X), geo.EMU(r.Y), geo.EMU(r.W), geo.EMU(r.H))
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
