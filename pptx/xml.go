package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/wudi/docsmith/ooxml"
)

const nsDecls = ` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"` +
	` xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

// xmlBuilder accumulates hand-built markup. PresentationML nesting is
// deep enough that encoding/xml struct trees obscure more than they
// check; explicit emission keeps each element next to the value it
// carries.
type xmlBuilder struct {
	buf bytes.Buffer
}

func newXMLBuilder() *xmlBuilder {
	b := &xmlBuilder{}
	b.buf.WriteString(xml.Header)
	return b
}

func (b *xmlBuilder) raw(s string) { b.buf.WriteString(s) }

func (b *xmlBuilder) f(format string, args ...any) {
	fmt.Fprintf(&b.buf, format, args...)
}

// text writes an escaped text element.
func (b *xmlBuilder) text(tag, s string) {
	fmt.Fprintf(&b.buf, "<%s>%s</%s>", tag, ooxml.Escape(s), tag)
}

func (b *xmlBuilder) bytes() []byte { return b.buf.Bytes() }

// hundredths converts a point size to the schema's hundredths-of-a-
// point integer.
func hundredths(pt float64) int {
	return int(pt*100 + 0.5)
}
