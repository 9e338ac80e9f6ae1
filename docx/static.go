package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/ooxml"
)

const wNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// headingHalfPoints maps heading levels 1..6 to run sizes.
var headingHalfPoints = [6]int{48, 36, 28, 26, 24, 22}

// stylesXML renders word/styles.xml: document defaults plus the
// heading and hyperlink styles the body emitter references.
func stylesXML(t doc.Theme) []byte {
	font := t.Font
	if font == "" {
		font = "Calibri"
	}

	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<w:styles ` + wNS + `>`)
	fmt.Fprintf(&b, `<w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="24"/></w:rPr></w:rPrDefault><w:pPrDefault/></w:docDefaults>`,
		ooxml.Escape(font), ooxml.Escape(font))
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>`)
	for i, sz := range headingHalfPoints {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%d">`, i+1)
		fmt.Fprintf(&b, `<w:name w:val="heading %d"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/>`, i+1)
		fmt.Fprintf(&b, `<w:pPr><w:keepNext/><w:spacing w:before="240" w:after="120"/><w:outlineLvl w:val="%d"/></w:pPr>`, i)
		fmt.Fprintf(&b, `<w:rPr><w:b/><w:sz w:val="%d"/></w:rPr>`, sz)
		b.WriteString(`</w:style>`)
	}
	b.WriteString(`<w:style w:type="character" w:styleId="Hyperlink"><w:name w:val="Hyperlink"/>` +
		`<w:rPr><w:color w:val="0563C1"/><w:u w:val="single"/></w:rPr></w:style>`)
	b.WriteString(`</w:styles>`)
	return b.Bytes()
}

// numberingXML defines one bullet list with nine indent levels; the
// body emitter references it as numId 1.
var numberingXML = func() string {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<w:numbering ` + wNS + `>`)
	b.WriteString(`<w:abstractNum w:abstractNumId="0"><w:multiLevelType w:val="hybridMultilevel"/>`)
	for lvl := 0; lvl < 9; lvl++ {
		fmt.Fprintf(&b, `<w:lvl w:ilvl="%d"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="&#8226;"/><w:lvlJc w:val="left"/>`, lvl)
		fmt.Fprintf(&b, `<w:pPr><w:ind w:left="%d" w:hanging="360"/></w:pPr>`, 720*(lvl+1))
		b.WriteString(`<w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/></w:rPr></w:lvl>`)
	}
	b.WriteString(`</w:abstractNum>`)
	b.WriteString(`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>`)
	b.WriteString(`</w:numbering>`)
	return b.String()
}()
