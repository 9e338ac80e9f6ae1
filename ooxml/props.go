package ooxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"
)

// CoreProps is the package-level metadata emitted as
// docProps/core.xml.
type CoreProps struct {
	Title   string
	Creator string
	Subject string
	Created time.Time
}

// CorePropsXML renders the core properties part. A zero Created time
// is omitted entirely, which keeps deterministic output possible.
func CorePropsXML(p CoreProps) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<cp:coreProperties` +
		` xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"` +
		` xmlns:dc="http://purl.org/dc/elements/1.1/"` +
		` xmlns:dcterms="http://purl.org/dc/terms/"` +
		` xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`)
	if p.Title != "" {
		fmt.Fprintf(&b, `<dc:title>%s</dc:title>`, Escape(p.Title))
	}
	if p.Creator != "" {
		fmt.Fprintf(&b, `<dc:creator>%s</dc:creator>`, Escape(p.Creator))
	}
	if p.Subject != "" {
		fmt.Fprintf(&b, `<dc:subject>%s</dc:subject>`, Escape(p.Subject))
	}
	if !p.Created.IsZero() {
		stamp := p.Created.UTC().Format(time.RFC3339)
		fmt.Fprintf(&b, `<dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>`, stamp)
		fmt.Fprintf(&b, `<dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>`, stamp)
	}
	b.WriteString(`</cp:coreProperties>`)
	return b.Bytes()
}

// AppPropsXML renders the extended properties part naming the
// generating application.
func AppPropsXML(app string) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString(`<Properties` +
		` xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"` +
		` xmlns:vt="http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes">`)
	fmt.Fprintf(&b, `<Application>%s</Application>`, Escape(app))
	b.WriteString(`</Properties>`)
	return b.Bytes()
}
