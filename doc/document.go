package doc

import (
	"time"

	"github.com/wudi/docsmith/geo"
)

// Kind discriminates deck and word-processing documents.
type Kind string

const (
	KindDeck Kind = "deck"
	KindDoc  Kind = "doc"
)

// Info carries document metadata emitted into the package core
// properties.
type Info struct {
	Title   string    `json:"title,omitempty"`
	Author  string    `json:"author,omitempty"`
	Subject string    `json:"subject,omitempty"`
	Created time.Time `json:"created,omitempty"`
}

// Theme carries document-level style defaults applied to frames that
// do not set their own.
type Theme struct {
	Font     string `json:"font,omitempty"`
	MonoFont string `json:"mono_font,omitempty"`
	Color    *Color `json:"color,omitempty"`
	Accent   *Color `json:"accent,omitempty"`
}

// BodyBlock is one flowing element of a word-processing body. Exactly
// one field is set.
type BodyBlock struct {
	Paragraph *Paragraph `json:"paragraph,omitempty"`
	Table     *Table     `json:"table,omitempty"`
	Image     *Image     `json:"image,omitempty"`
	PageBreak bool       `json:"page_break,omitempty"`
}

// Document is one generated document: a deck of slides (KindDeck) or a
// flowing body (KindDoc). PageSize is the slide size for decks and the
// page size for docs, in points.
type Document struct {
	Kind     Kind        `json:"kind"`
	ID       string      `json:"id,omitempty"`
	Info     Info        `json:"info,omitempty"`
	Theme    Theme       `json:"theme,omitempty"`
	PageSize geo.Size    `json:"page_size"`
	Slides   []*Slide    `json:"slides,omitempty"`
	Body     []BodyBlock `json:"body,omitempty"`
}

// Slide returns the i-th slide, or nil when out of range.
func (d *Document) Slide(i int) *Slide {
	if i < 0 || i >= len(d.Slides) {
		return nil
	}
	return d.Slides[i]
}
