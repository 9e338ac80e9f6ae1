// Package pptx serializes deck documents to PowerPoint files.
//
// Auto-fit decisions are baked in before serialization: every text
// frame carries the font size the fitting search resolved, so runs are
// emitted with explicit sizes and PowerPoint re-wraps them natively.
// The package is write-only; it never reads existing .pptx files.
package pptx

import (
	"errors"
	"fmt"
	"io"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/ooxml"
)

// ErrNotDeck is returned when the document is not a slide deck.
var ErrNotDeck = errors.New("pptx: document is not a deck")

// Config controls serialization.
type Config struct {
	// Deterministic drops volatile metadata (the creation timestamp)
	// so identical decks produce identical bytes.
	Deterministic bool
	// Application overrides the generator name in docProps/app.xml.
	Application string
}

const (
	ctPresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlide        = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctSlideMaster  = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout  = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"

	relSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
)

// Write serializes d to w as a .pptx container.
func Write(d *doc.Document, w io.Writer, cfg Config) error {
	if d == nil || d.Kind != doc.KindDeck {
		return ErrNotDeck
	}
	if !d.PageSize.Valid() {
		return fmt.Errorf("pptx: invalid slide size %+v", d.PageSize)
	}

	pkg := ooxml.NewPackage()
	pkg.AddDefault("png", "image/png")
	pkg.AddDefault("jpeg", "image/jpeg")
	pkg.AddDefault("gif", "image/gif")

	pkg.Relate("", ooxml.Relationship{Type: ooxml.RelOfficeDocument, Target: "ppt/presentation.xml"})
	pkg.Relate("", ooxml.Relationship{Type: ooxml.RelCoreProps, Target: "docProps/core.xml"})
	pkg.Relate("", ooxml.Relationship{Type: ooxml.RelExtendedProps, Target: "docProps/app.xml"})

	masterID := pkg.Relate("ppt/presentation.xml", ooxml.Relationship{Type: relSlideMaster, Target: "slideMasters/slideMaster1.xml"})
	slideIDs := make([]string, len(d.Slides))
	for i := range d.Slides {
		slideIDs[i] = pkg.Relate("ppt/presentation.xml", ooxml.Relationship{
			Type:   relSlide,
			Target: fmt.Sprintf("slides/slide%d.xml", i+1),
		})
	}
	pkg.AddPart("ppt/presentation.xml", ctPresentation, presentationXML(d.PageSize, masterID, slideIDs))

	pkg.Relate("ppt/slideMasters/slideMaster1.xml", ooxml.Relationship{Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"})
	pkg.Relate("ppt/slideMasters/slideMaster1.xml", ooxml.Relationship{Type: relTheme, Target: "../theme/theme1.xml"})
	pkg.AddPart("ppt/slideMasters/slideMaster1.xml", ctSlideMaster, []byte(slideMasterXML))
	pkg.Relate("ppt/slideLayouts/slideLayout1.xml", ooxml.Relationship{Type: relSlideMaster, Target: "../slideMasters/slideMaster1.xml"})
	pkg.AddPart("ppt/slideLayouts/slideLayout1.xml", ctSlideLayout, []byte(slideLayoutXML))
	pkg.AddPart("ppt/theme/theme1.xml", ctTheme, themeXML(d.Theme))

	sw := &slideWriter{pkg: pkg, theme: d.Theme}
	for i, s := range d.Slides {
		name := fmt.Sprintf("ppt/slides/slide%d.xml", i+1)
		data, err := sw.slideXML(name, s)
		if err != nil {
			return fmt.Errorf("pptx: slide %d: %w", i+1, err)
		}
		pkg.AddPart(name, ctSlide, data)
		pkg.Relate(name, ooxml.Relationship{Type: relSlideLayout, Target: "../slideLayouts/slideLayout1.xml"})
	}

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

func presentationXML(size geo.Size, masterID string, slideIDs []string) []byte {
	b := newXMLBuilder()
	b.raw(`<p:presentation` + nsDecls + `>`)
	b.f(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="%s"/></p:sldMasterIdLst>`, masterID)
	if len(slideIDs) > 0 {
		b.raw(`<p:sldIdLst>`)
		for i, id := range slideIDs {
			b.f(`<p:sldId id="%d" r:id="%s"/>`, 256+i, id)
		}
		b.raw(`</p:sldIdLst>`)
	}
	b.f(`<p:sldSz cx="%d" cy="%d"/>`, geo.EMU(size.W), geo.EMU(size.H))
	b.f(`<p:notesSz cx="%d" cy="%d"/>`, geo.EMU(size.H), geo.EMU(size.W))
	b.raw(`</p:presentation>`)
	return b.bytes()
}
