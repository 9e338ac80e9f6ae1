package pptx

import (
	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/ooxml"
)

// The master and layout carry no placeholders: every shape on a slide
// is positioned absolutely by the builder, so a blank layout is all
// PowerPoint needs to open the file.

const slideMasterXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<p:sldMaster` + nsDecls + `>` +
	`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const slideLayoutXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
	`<p:sldLayout` + nsDecls + ` type="blank" preserve="1">` +
	`<p:cSld name="Blank"><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

// themeXML renders the required theme part, injecting the deck's
// accent color and base fonts into an otherwise fixed Office scheme.
func themeXML(t doc.Theme) []byte {
	accent := "4472C4"
	if t.Accent != nil {
		accent = t.Accent.Hex()
	}
	minor := "Calibri"
	if t.Font != "" {
		minor = t.Font
	}
	major := minor

	b := newXMLBuilder()
	b.raw(`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Office">`)
	b.raw(`<a:themeElements>`)
	b.raw(`<a:clrScheme name="Office">`)
	b.raw(`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>`)
	b.raw(`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>`)
	b.raw(`<a:dk2><a:srgbClr val="44546A"/></a:dk2>`)
	b.raw(`<a:lt2><a:srgbClr val="E7E6E6"/></a:lt2>`)
	b.f(`<a:accent1><a:srgbClr val="%s"/></a:accent1>`, accent)
	b.raw(`<a:accent2><a:srgbClr val="ED7D31"/></a:accent2>`)
	b.raw(`<a:accent3><a:srgbClr val="A5A5A5"/></a:accent3>`)
	b.raw(`<a:accent4><a:srgbClr val="FFC000"/></a:accent4>`)
	b.raw(`<a:accent5><a:srgbClr val="5B9BD5"/></a:accent5>`)
	b.raw(`<a:accent6><a:srgbClr val="70AD47"/></a:accent6>`)
	b.raw(`<a:hlink><a:srgbClr val="0563C1"/></a:hlink>`)
	b.raw(`<a:folHlink><a:srgbClr val="954F72"/></a:folHlink>`)
	b.raw(`</a:clrScheme>`)
	b.raw(`<a:fontScheme name="Office">`)
	b.f(`<a:majorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`, ooxml.Escape(major))
	b.f(`<a:minorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>`, ooxml.Escape(minor))
	b.raw(`</a:fontScheme>`)
	b.raw(`<a:fmtScheme name="Office">`)
	b.raw(`<a:fillStyleLst>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`</a:fillStyleLst>`)
	b.raw(`<a:lnStyleLst>` +
		`<a:ln w="6350"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`<a:ln w="12700"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`<a:ln w="19050"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>` +
		`</a:lnStyleLst>`)
	b.raw(`<a:effectStyleLst>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`<a:effectStyle><a:effectLst/></a:effectStyle>` +
		`</a:effectStyleLst>`)
	b.raw(`<a:bgFillStyleLst>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>` +
		`</a:bgFillStyleLst>`)
	b.raw(`</a:fmtScheme>`)
	b.raw(`</a:themeElements>`)
	b.raw(`</a:theme>`)
	return b.bytes()
}
