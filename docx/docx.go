// Package docx serializes word-processing documents to Word files.
// Bodies flow: Word performs its own pagination, so only page
// geometry, styles and the block sequence are emitted.
package docx

import (
	"errors"
	"fmt"
	"io"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/ooxml"
)

// ErrNotDoc is returned when the document is not a word-processing
// document.
var ErrNotDoc = errors.New("docx: document is not a word-processing document")

// Config controls serialization.
type Config struct {
	// Deterministic drops volatile metadata (the creation timestamp)
	// so identical documents produce identical bytes.
	Deterministic bool
	// Application overrides the generator name in docProps/app.xml.
	Application string
}

const (
	ctDocument  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctNumbering = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"

	relStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
)

// Write serializes d to w as a .docx container.
func Write(d *doc.Document, w io.Writer, cfg Config) error {
	if d == nil || d.Kind != doc.KindDoc {
		return ErrNotDoc
	}
	if !d.PageSize.Valid() {
		return fmt.Errorf("docx: invalid page size %+v", d.PageSize)
	}

	pkg := ooxml.NewPackage()
	pkg.AddDefault("png", "image/png")
	pkg.AddDefault("jpeg", "image/jpeg")
	pkg.AddDefault("gif", "image/gif")

	pkg.Relate("", ooxml.Relationship{Type: ooxml.RelOfficeDocument, Target: "word/document.xml"})
	pkg.Relate("", ooxml.Relationship{Type: ooxml.RelCoreProps, Target: "docProps/core.xml"})
	pkg.Relate("", ooxml.Relationship{Type: ooxml.RelExtendedProps, Target: "docProps/app.xml"})

	pkg.Relate("word/document.xml", ooxml.Relationship{Type: relStyles, Target: "styles.xml"})
	pkg.Relate("word/document.xml", ooxml.Relationship{Type: relNumbering, Target: "numbering.xml"})

	bw := &bodyWriter{pkg: pkg, theme: d.Theme}
	body, err := bw.documentXML(d)
	if err != nil {
		return fmt.Errorf("docx: %w", err)
	}
	pkg.AddPart("word/document.xml", ctDocument, body)
	pkg.AddPart("word/styles.xml", ctStyles, stylesXML(d.Theme))
	pkg.AddPart("word/numbering.xml", ctNumbering, []byte(numberingXML))

	props := ooxml.CoreProps{Title: d.Info.Title, Creator: d.Info.Author, Subject: d.Info.Subject}
	if !cfg.Deterministic {
		props.Created = d.Info.Created
	}
	pkg.AddPart("docProps/core.xml", ooxml.CTCoreProps, ooxml.CorePropsXML(props))
	app := cfg.Application
	if app == "" {
		app = "docsmith"
	}
	pkg.AddPart("docProps/app.xml", ooxml.CTExtProps, ooxml.AppPropsXML(app))

	return pkg.WriteTo(w)
}
