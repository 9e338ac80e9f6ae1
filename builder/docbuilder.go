package builder

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/markdown"
	"github.com/wudi/docsmith/textfit"
)

// DocBuilder provides a fluent API for word-processing documents.
// Body content flows: there are no boxes to fit, the word processor
// wraps at render time, so no auto-fit runs here.
type DocBuilder interface {
	SetInfo(info doc.Info) DocBuilder
	SetTheme(theme doc.Theme) DocBuilder
	SetPageSize(size geo.Size) DocBuilder
	AddHeading(level int, text string) DocBuilder
	AddParagraph(text string) DocBuilder
	AddMarkdown(source string) DocBuilder
	AddHTML(source string) DocBuilder
	AddTable(table doc.Table) DocBuilder
	AddImage(img doc.Image) DocBuilder
	AddPageBreak() DocBuilder
	Build() (*doc.Document, error)
}

type docBuilderImpl struct {
	docu *doc.Document
	err  error
}

// NewDoc constructs a DocBuilder with a US Letter page.
func NewDoc() DocBuilder {
	return &docBuilderImpl{
		docu: &doc.Document{
			Kind:     doc.KindDoc,
			ID:       uuid.NewString(),
			Info:     doc.Info{Created: time.Now().UTC()},
			PageSize: DefaultPageSize,
		},
	}
}

// ResumeDoc continues building an existing word document.
func ResumeDoc(d *doc.Document) (DocBuilder, error) {
	if d == nil || d.Kind != doc.KindDoc {
		return nil, fmt.Errorf("resume doc: not a word document")
	}
	return &docBuilderImpl{docu: d}, nil
}

func (b *docBuilderImpl) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *docBuilderImpl) SetInfo(info doc.Info) DocBuilder {
	if info.Created.IsZero() {
		info.Created = b.docu.Info.Created
	}
	b.docu.Info = info
	return b
}

func (b *docBuilderImpl) SetTheme(theme doc.Theme) DocBuilder {
	b.docu.Theme = theme
	return b
}

func (b *docBuilderImpl) SetPageSize(size geo.Size) DocBuilder {
	if !size.Valid() {
		b.fail(fmt.Errorf("page size %+v: %w", size, textfit.ErrInvalidBox))
		return b
	}
	b.docu.PageSize = size
	return b
}

func (b *docBuilderImpl) AddHeading(level int, text string) DocBuilder {
	if level < 1 {
		level = 1
	} else if level > 6 {
		level = 6
	}
	p := doc.Plain(text)
	p.Heading = level
	b.docu.Body = append(b.docu.Body, doc.BodyBlock{Paragraph: &p})
	return b
}

func (b *docBuilderImpl) AddParagraph(text string) DocBuilder {
	for _, p := range doc.ParagraphsFromText(text) {
		para := p
		b.docu.Body = append(b.docu.Body, doc.BodyBlock{Paragraph: &para})
	}
	return b
}

func (b *docBuilderImpl) AddMarkdown(source string) DocBuilder {
	if b.err != nil {
		return b
	}
	paras, err := markdown.Parse([]byte(source))
	if err != nil {
		b.fail(fmt.Errorf("markdown body: %w", err))
		return b
	}
	return b.appendParagraphs(paras)
}

func (b *docBuilderImpl) AddHTML(source string) DocBuilder {
	if b.err != nil {
		return b
	}
	paras, err := markdown.ParseHTML(source)
	if err != nil {
		b.fail(fmt.Errorf("html body: %w", err))
		return b
	}
	return b.appendParagraphs(paras)
}

func (b *docBuilderImpl) appendParagraphs(paras []doc.Paragraph) DocBuilder {
	for i := range paras {
		para := paras[i]
		b.docu.Body = append(b.docu.Body, doc.BodyBlock{Paragraph: &para})
	}
	return b
}

func (b *docBuilderImpl) AddTable(table doc.Table) DocBuilder {
	if len(table.Rows) == 0 || table.Columns() == 0 {
		b.fail(fmt.Errorf("body table: empty table"))
		return b
	}
	b.docu.Body = append(b.docu.Body, doc.BodyBlock{Table: &table})
	return b
}

func (b *docBuilderImpl) AddImage(img doc.Image) DocBuilder {
	if len(img.Data) == 0 {
		b.fail(fmt.Errorf("body image: empty image data"))
		return b
	}
	b.docu.Body = append(b.docu.Body, doc.BodyBlock{Image: &img})
	return b
}

func (b *docBuilderImpl) AddPageBreak() DocBuilder {
	b.docu.Body = append(b.docu.Body, doc.BodyBlock{PageBreak: true})
	return b
}

func (b *docBuilderImpl) Build() (*doc.Document, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.docu, nil
}
