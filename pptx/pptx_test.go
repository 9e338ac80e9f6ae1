package pptx

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/geo"
)

func testDeck() *doc.Document {
	accent := doc.RGB(0x33, 0x66, 0x99)
	return &doc.Document{
		Kind:     doc.KindDeck,
		Info:     doc.Info{Title: "Quarterly", Author: "amy"},
		Theme:    doc.Theme{Font: "Arial", Accent: &accent},
		PageSize: geo.Size{W: 960, H: 540},
		Slides: []*doc.Slide{
			{Frames: []doc.Frame{
				&doc.TextFrame{
					Box:         geo.NewRect(40, 40, 880, 100),
					SizePt:      28,
					LineSpacing: 1.2,
					Paragraphs: []doc.Paragraph{
						{Runs: []doc.Run{{Text: "Results", Bold: true}}, Align: doc.AlignCenter},
						{Runs: []doc.Run{{Text: "up\ndown"}}},
						{Runs: []doc.Run{{Text: "docs", Link: "https://example.com/docs"}}, Bullet: true},
					},
				},
				&doc.ImageFrame{
					Box:   geo.NewRect(40, 160, 300, 200),
					Image: doc.Image{Data: []byte{0x89, 'P', 'N', 'G'}, MIME: "image/png", Alt: "chart"},
				},
				&doc.TableFrame{
					Box:    geo.NewRect(400, 160, 400, 200),
					SizePt: 12,
					Table: doc.Table{
						HeaderRows: 1,
						Rows: [][]doc.Cell{
							{{Paragraphs: []doc.Paragraph{doc.Plain("Region")}}, {Paragraphs: []doc.Paragraph{doc.Plain("Total")}}},
							{{Paragraphs: []doc.Paragraph{doc.Plain("EMEA")}}, {Paragraphs: []doc.Paragraph{doc.Plain("42")}}},
						},
					},
				},
			}},
		},
	}
}

func writeDeck(t *testing.T, d *doc.Document) *zip.Reader {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(d, &buf, Config{Deterministic: true}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reading container failed: %v", err)
	}
	return zr
}

func entry(t *testing.T, zr *zip.Reader, name string) string {
	t.Helper()
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s failed: %v", name, err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s failed: %v", name, err)
		}
		return string(data)
	}
	t.Fatalf("entry %s not found", name)
	return ""
}

func TestWriteRejectsNonDecks(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&doc.Document{Kind: doc.KindDoc}, &buf, Config{}); err != ErrNotDeck {
		t.Fatalf("err = %v, want ErrNotDeck", err)
	}
}

func TestWritePackageShape(t *testing.T) {
	zr := writeDeck(t, testDeck())
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/_rels/slide1.xml.rels",
		"ppt/media/image1.png",
		"docProps/core.xml",
		"docProps/app.xml",
	} {
		entry(t, zr, name)
	}
	pres := entry(t, zr, "ppt/presentation.xml")
	if !strings.Contains(pres, `<p:sldSz cx="12192000" cy="6858000"/>`) {
		t.Fatalf("slide size wrong:\n%s", pres)
	}
	if !strings.Contains(pres, `<p:sldId id="256"`) {
		t.Fatalf("slide id list missing:\n%s", pres)
	}
}

func TestSlideMarkup(t *testing.T) {
	zr := writeDeck(t, testDeck())
	slide := entry(t, zr, "ppt/slides/slide1.xml")

	for _, want := range []string{
		`sz="2800"`,
		`b="1"`,
		`algn="ctr"`,
		`<a:t>Results</a:t>`,
		`<a:t>up</a:t>`,
		`<a:br/>`,
		`<a:t>down</a:t>`,
		`<a:buChar char="&#8226;"/>`,
		`<a:latin typeface="Arial"/>`,
		`<a:lnSpc><a:spcPct val="120000"/></a:lnSpc>`,
		`descr="chart"`,
		`<a:blip r:embed=`,
		`<a:gridCol w="2540000"/>`,
		`<a:tblPr firstRow="1"`,
		`<a:t>EMEA</a:t>`,
	} {
		if !strings.Contains(slide, want) {
			t.Fatalf("slide markup missing %q:\n%s", want, slide)
		}
	}
	if strings.Contains(slide, "\ndown") {
		t.Fatal("raw newline leaked into run text")
	}
}

func TestHyperlinkRelIsExternal(t *testing.T) {
	zr := writeDeck(t, testDeck())
	rels := entry(t, zr, "ppt/slides/_rels/slide1.xml.rels")
	if !strings.Contains(rels, `Target="https://example.com/docs" TargetMode="External"`) {
		t.Fatalf("hyperlink rel wrong:\n%s", rels)
	}
}

func TestThemeCarriesAccentAndFont(t *testing.T) {
	zr := writeDeck(t, testDeck())
	theme := entry(t, zr, "ppt/theme/theme1.xml")
	if !strings.Contains(theme, `<a:accent1><a:srgbClr val="336699"/></a:accent1>`) {
		t.Fatalf("accent not injected:\n%s", theme)
	}
	if !strings.Contains(theme, `<a:minorFont><a:latin typeface="Arial"/>`) {
		t.Fatalf("font not injected:\n%s", theme)
	}
}

func TestDeterministicBytes(t *testing.T) {
	var a, b bytes.Buffer
	if err := Write(testDeck(), &a, Config{Deterministic: true}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := Write(testDeck(), &b, Config{Deterministic: true}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("identical decks produced different bytes")
	}
}

func TestInvalidFrameBounds(t *testing.T) {
	d := testDeck()
	d.Slides[0].Frames = append(d.Slides[0].Frames, &doc.TextFrame{Box: geo.NewRect(0, 0, -5, 10), SizePt: 12})
	var buf bytes.Buffer
	if err := Write(d, &buf, Config{}); err == nil {
		t.Fatal("expected error for invalid frame bounds")
	}
}
