// Package doc defines the document object model produced by the
// builders and consumed by the serializers and the renderer: decks of
// slides carrying positioned frames, and flowing word-processing
// bodies. Values are request-scoped; nothing in this package holds
// shared state.
package doc

import (
	"fmt"
	"strings"
)

// Color is an opaque RGB color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGB returns the color with the given channels.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// Hex returns the RRGGBB form without a leading hash.
func (c Color) Hex() string { return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B) }

// ParseHex parses "RRGGBB" or "#RRGGBB", plus the short "RGB" forms.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var c Color
	switch len(s) {
	case 3:
		var r, g, b uint8
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		c = Color{R: r * 17, G: g * 17, B: b * 17}
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return Color{}, fmt.Errorf("parse color %q: %w", s, err)
		}
	default:
		return Color{}, fmt.Errorf("parse color %q: want RGB or RRGGBB", s)
	}
	return c, nil
}

// Run is a contiguous piece of text sharing one style. Runs are value
// types; treat them as immutable once attached to a paragraph.
type Run struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Mono      bool   `json:"mono,omitempty"`
	Color     *Color `json:"color,omitempty"`
	Link      string `json:"link,omitempty"`
}

// SameStyle reports whether o renders identically to r, so that the
// two may be merged into one run.
func (r Run) SameStyle(o Run) bool {
	if r.Bold != o.Bold || r.Italic != o.Italic || r.Underline != o.Underline || r.Mono != o.Mono {
		return false
	}
	if r.Link != o.Link {
		return false
	}
	if (r.Color == nil) != (o.Color == nil) {
		return false
	}
	return r.Color == nil || *r.Color == *o.Color
}

// Alignment is horizontal paragraph alignment.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "justify"
)

// Paragraph is an ordered run sequence terminated by an explicit
// break. Line wrapping happens at layout time; a Paragraph never
// contains soft breaks.
type Paragraph struct {
	Runs    []Run     `json:"runs"`
	Bullet  bool      `json:"bullet,omitempty"`
	Level   int       `json:"level,omitempty"`
	Heading int       `json:"heading,omitempty"`
	Align   Alignment `json:"align,omitempty"`
}

// Text returns the concatenated run text.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Plain builds a single unstyled paragraph.
func Plain(text string) Paragraph {
	return Paragraph{Runs: []Run{{Text: text}}}
}

// ParagraphsFromText splits plain text on newlines into unstyled
// paragraphs, one per line. Empty lines become empty paragraphs so
// vertical rhythm survives.
func ParagraphsFromText(text string) []Paragraph {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]Paragraph, 0, len(lines))
	for _, ln := range lines {
		if ln == "" {
			out = append(out, Paragraph{})
			continue
		}
		out = append(out, Plain(ln))
	}
	return out
}
