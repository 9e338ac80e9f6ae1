package render

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/wudi/docsmith/builder"
	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/fonts"
	"github.com/wudi/docsmith/geo"
)

func testDeck(t *testing.T) *doc.Document {
	t.Helper()
	b := builder.NewDeck(fonts.NewRegistry())
	b.AddSlide().
		AddTextBox(geo.NewRect(40, 40, 400, 80), "Quarterly Review", &builder.TextOptions{SizePt: 28}).
		AddTextBox(geo.NewRect(40, 140, 400, 200), "Revenue grew in every region.", nil).
		Finish()
	b.AddSlide().
		AddTextBox(geo.NewRect(40, 40, 400, 80), "Appendix", nil).
		Finish()
	d, err := b.Build()
	if err != nil {
		t.Fatalf("building deck failed: %v", err)
	}
	return d
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding test image failed: %v", err)
	}
	return buf.Bytes()
}

func TestPDFDeck(t *testing.T) {
	r := New(fonts.NewRegistry())
	var buf bytes.Buffer
	if err := r.PDF(testDeck(t), &buf); err != nil {
		t.Fatalf("PDF failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF: %q", buf.Bytes()[:8])
	}
}

func TestPNGPage(t *testing.T) {
	r := New(fonts.NewRegistry())
	var buf bytes.Buffer
	if err := r.PNG(testDeck(t), 1, 1, &buf); err != nil {
		t.Fatalf("PNG failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG")
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("decoding output failed: %v", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		t.Fatalf("empty raster %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSVGPage(t *testing.T) {
	r := New(fonts.NewRegistry())
	var buf bytes.Buffer
	if err := r.SVG(testDeck(t), 0, &buf); err != nil {
		t.Fatalf("SVG failed: %v", err)
	}
	if !strings.Contains(buf.String(), "<svg") {
		t.Fatalf("output has no <svg element")
	}
}

func TestPageOutOfRange(t *testing.T) {
	r := New(fonts.NewRegistry())
	var buf bytes.Buffer
	if err := r.PNG(testDeck(t), 7, 1, &buf); err == nil {
		t.Fatal("expected error for page beyond the deck")
	}
	if err := r.SVG(testDeck(t), -1, &buf); err == nil {
		t.Fatal("expected error for negative page")
	}
}

func TestFlowPageBreak(t *testing.T) {
	d := &doc.Document{
		Kind:     doc.KindDoc,
		PageSize: geo.Size{W: 612, H: 792},
		Body: []doc.BodyBlock{
			{Paragraph: &doc.Paragraph{Runs: []doc.Run{{Text: "Summary"}}, Heading: 1}},
			{Paragraph: ptr(doc.Plain("Before the break."))},
			{PageBreak: true},
			{Paragraph: ptr(doc.Plain("After the break."))},
		},
	}
	r := New(fonts.NewRegistry())
	n, err := r.PageCount(d)
	if err != nil {
		t.Fatalf("PageCount failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("PageCount = %d, want 2", n)
	}
}

func TestFlowOverflowsToNewPage(t *testing.T) {
	body := []doc.BodyBlock{}
	for i := 0; i < 60; i++ {
		body = append(body, doc.BodyBlock{Paragraph: ptr(doc.Plain("line of body text"))})
	}
	d := &doc.Document{
		Kind:     doc.KindDoc,
		PageSize: geo.Size{W: 612, H: 360},
		Body:     body,
	}
	r := New(fonts.NewRegistry())
	n, err := r.PageCount(d)
	if err != nil {
		t.Fatalf("PageCount failed: %v", err)
	}
	if n < 2 {
		t.Fatalf("PageCount = %d, want spill onto further pages", n)
	}
	var buf bytes.Buffer
	if err := r.PDF(d, &buf); err != nil {
		t.Fatalf("PDF of flowed document failed: %v", err)
	}
}

func TestFlowImageAndTable(t *testing.T) {
	tbl := doc.Table{
		Borders:    true,
		HeaderRows: 1,
		Rows: [][]doc.Cell{
			{{Paragraphs: []doc.Paragraph{doc.Plain("Region")}}, {Paragraphs: []doc.Paragraph{doc.Plain("Total")}}},
			{{Paragraphs: []doc.Paragraph{doc.Plain("EMEA")}}, {Paragraphs: []doc.Paragraph{doc.Plain("23")}}},
		},
	}
	d := &doc.Document{
		Kind:     doc.KindDoc,
		PageSize: geo.Size{W: 612, H: 792},
		Body: []doc.BodyBlock{
			{Image: &doc.Image{Data: pngBytes(t, 120, 60), MIME: "image/png"}},
			{Table: &tbl},
		},
	}
	r := New(fonts.NewRegistry())
	pages, err := r.pages(d)
	if err != nil {
		t.Fatalf("flow failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if got := len(pages[0].Frames); got != 2 {
		t.Fatalf("got %d frames, want 2", got)
	}
	img, ok := pages[0].Frames[0].(*doc.ImageFrame)
	if !ok {
		t.Fatalf("frame 0 is %T, want image", pages[0].Frames[0])
	}
	if img.Box.W <= 0 || img.Box.H <= 0 {
		t.Fatalf("image frame has no extent: %+v", img.Box)
	}
	var buf bytes.Buffer
	if err := r.PNG(d, 0, 1, &buf); err != nil {
		t.Fatalf("PNG of flowed page failed: %v", err)
	}
}

func ptr(p doc.Paragraph) *doc.Paragraph { return &p }

func TestRenderColors(t *testing.T) {
	red := doc.RGB(0xCC, 0x22, 0x22)
	grey := doc.RGB(0xEE, 0xEE, 0xEE)
	navy := doc.RGB(0x10, 0x20, 0x60)
	d := &doc.Document{
		Kind:     doc.KindDeck,
		Theme:    doc.Theme{Color: &navy},
		PageSize: geo.Size{W: 960, H: 540},
		Slides: []*doc.Slide{{
			Fill: &grey,
			Frames: []doc.Frame{
				&doc.TextFrame{
					Box:  geo.NewRect(40, 40, 400, 120),
					Fill: &grey,
					Paragraphs: []doc.Paragraph{{Runs: []doc.Run{
						{Text: "warning", Color: &red, Bold: true},
						{Text: " details"},
					}}},
					SizePt: 18,
				},
				&doc.TableFrame{
					Box: geo.NewRect(40, 200, 400, 80),
					Table: doc.Table{
						Borders: true,
						Rows: [][]doc.Cell{
							{{Paragraphs: []doc.Paragraph{doc.Plain("a")}, Fill: &grey}, {Paragraphs: []doc.Paragraph{doc.Plain("b")}}},
						},
					},
					SizePt: 12,
				},
			},
		}},
	}
	r := New(fonts.NewRegistry())
	var buf bytes.Buffer
	if err := r.PNG(d, 0, 1, &buf); err != nil {
		t.Fatalf("PNG of filled slide failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding output failed: %v", err)
	}
	// The slide background must come out grey, not white.
	got := img.At(img.Bounds().Dx()/2, img.Bounds().Dy()-2)
	cr, cg, cb, _ := got.RGBA()
	if cr>>8 > 0xF8 && cg>>8 > 0xF8 && cb>>8 > 0xF8 {
		t.Fatalf("background pixel %v looks unfilled", got)
	}
}
