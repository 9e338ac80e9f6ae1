package builder

import (
	"errors"
	"strings"
	"testing"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/textfit"
)

func TestDeckBuilderBasics(t *testing.T) {
	d, err := NewDeck(nil).
		SetInfo(doc.Info{Title: "Quarterly", Author: "ops"}).
		SetTheme(doc.Theme{Font: "Arial"}).
		AddSlide().
		AddTextBox(geo.NewRect(40, 40, 400, 80), "Hello there", nil).
		Finish().
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if d.Kind != doc.KindDeck || d.ID == "" {
		t.Fatalf("document header wrong: %+v", d)
	}
	if len(d.Slides) != 1 || len(d.Slides[0].Frames) != 1 {
		t.Fatalf("deck shape wrong: %+v", d.Slides)
	}

	tf, ok := d.Slides[0].Frames[0].(*doc.TextFrame)
	if !ok {
		t.Fatalf("frame is %T", d.Slides[0].Frames[0])
	}
	if tf.Font != "Arial" {
		t.Fatalf("theme font not applied: %q", tf.Font)
	}
	if tf.Fit == nil || !tf.Fit.Fits || tf.SizePt != DefaultTextSizePt {
		t.Fatalf("short text should fit at the requested size: %+v", tf.Fit)
	}
}

func TestDeckBuilderShrinksLongText(t *testing.T) {
	long := strings.Repeat("a string of words that keeps going ", 30)
	d, err := NewDeck(nil).
		AddSlide().
		AddTextBox(geo.NewRect(0, 0, 220, 90), long, nil).
		Finish().
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	tf := d.Slides[0].TextFrames()[0]
	if tf.SizePt >= DefaultTextSizePt {
		t.Fatalf("long text did not shrink: %v", tf.SizePt)
	}
	if tf.SizePt < textfit.DefaultMinSizePt {
		t.Fatalf("size %v fell below the floor", tf.SizePt)
	}
	if tf.Fit == nil || tf.Fit.Lines < 2 {
		t.Fatalf("fit summary wrong: %+v", tf.Fit)
	}
}

func TestDeckBuilderFitNone(t *testing.T) {
	long := strings.Repeat("word ", 200)
	d, err := NewDeck(nil).
		AddSlide().
		AddTextBox(geo.NewRect(0, 0, 100, 40), long, &TextOptions{Fit: FitNone, SizePt: 20}).
		Finish().
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	tf := d.Slides[0].TextFrames()[0]
	if tf.SizePt != 20 || tf.AutoFit || tf.Fit != nil {
		t.Fatalf("FitNone frame altered: %+v", tf)
	}
}

func TestDeckBuilderRejectsDegenerateBox(t *testing.T) {
	_, err := NewDeck(nil).
		AddSlide().
		AddTextBox(geo.NewRect(0, 0, 0, 50), "x", nil).
		Finish().
		Build()
	if !errors.Is(err, textfit.ErrInvalidBox) {
		t.Fatalf("got %v, want ErrInvalidBox", err)
	}

	// The first error sticks even if later calls succeed.
	b := NewDeck(nil)
	b.AddSlide().
		AddTextBox(geo.NewRect(0, 0, -5, 50), "bad", nil).
		AddTextBox(geo.NewRect(0, 0, 200, 50), "good", nil)
	if _, err := b.Build(); !errors.Is(err, textfit.ErrInvalidBox) {
		t.Fatalf("sticky error lost: %v", err)
	}
}

func TestAddMarkdownSlide(t *testing.T) {
	d, err := NewDeck(nil).
		AddMarkdownSlide("# The Title\n\n- point one\n- point two\n").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(d.Slides) != 1 {
		t.Fatalf("got %d slides", len(d.Slides))
	}
	frames := d.Slides[0].TextFrames()
	if len(frames) != 2 {
		t.Fatalf("want title and body frames, got %d", len(frames))
	}
	title, body := frames[0], frames[1]
	if title.Paragraphs[0].Heading != 1 || title.Paragraphs[0].Text() != "The Title" {
		t.Fatalf("title frame = %+v", title.Paragraphs)
	}
	if len(body.Paragraphs) != 2 || !body.Paragraphs[0].Bullet {
		t.Fatalf("body frame = %+v", body.Paragraphs)
	}
	if body.Box.Y <= title.Box.Bottom() {
		t.Fatal("body frame overlaps the title frame")
	}
}

func TestAddTableFitsCells(t *testing.T) {
	cell := func(text string) doc.Cell {
		return doc.Cell{Paragraphs: []doc.Paragraph{doc.Plain(text)}}
	}
	header := doc.RGB(0xEE, 0xEE, 0xEE)
	d, err := NewDeck(nil).
		AddSlide().
		AddTable(geo.NewRect(40, 40, 400, 120), doc.Table{
			Rows: [][]doc.Cell{
				{cell("Name"), cell("Value")},
				{cell("first row with a fairly long description in it"), cell("1")},
			},
		}, &TableOptions{HeaderRows: 1, HeaderFill: &header, Borders: true}).
		Finish().
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	frame, ok := d.Slides[0].Frames[0].(*doc.TableFrame)
	if !ok {
		t.Fatalf("frame is %T", d.Slides[0].Frames[0])
	}
	if frame.SizePt > DefaultTableSizePt || frame.SizePt < textfit.DefaultMinSizePt {
		t.Fatalf("table size %v out of range", frame.SizePt)
	}
	if frame.Table.HeaderRows != 1 || !frame.Table.Borders {
		t.Fatalf("table options lost: %+v", frame.Table)
	}
	for _, c := range frame.Table.Rows[0] {
		if c.Fill == nil {
			t.Fatal("header fill not applied")
		}
	}
	if frame.Table.Rows[1][0].Fill != nil {
		t.Fatal("body row should not get the header fill")
	}
}

func TestAddImageValidation(t *testing.T) {
	_, err := NewDeck(nil).
		AddSlide().
		AddImage(geo.NewRect(0, 0, 100, 100), doc.Image{}).
		Finish().
		Build()
	if err == nil {
		t.Fatal("expected error for empty image")
	}

	d, err := NewDeck(nil).
		AddSlide().
		AddImage(geo.NewRect(0, 0, 100, 100), doc.Image{Data: []byte{0x89}, MIME: "image/png", Alt: "chart"}).
		Finish().
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	img, ok := d.Slides[0].Frames[0].(*doc.ImageFrame)
	if !ok || img.Image.Alt != "chart" {
		t.Fatalf("image frame = %+v", d.Slides[0].Frames[0])
	}
}

func TestResume(t *testing.T) {
	d, err := NewDeck(nil).AddSlide().Finish().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	b, err := Resume(d, nil)
	if err != nil {
		t.Fatalf("Resume failed: %v", err)
	}
	d2, err := b.AddSlide().Finish().Build()
	if err != nil {
		t.Fatalf("Build after resume failed: %v", err)
	}
	if len(d2.Slides) != 2 {
		t.Fatalf("got %d slides after resume, want 2", len(d2.Slides))
	}
	if d2.ID != d.ID {
		t.Fatal("resume must keep the document identity")
	}

	if _, err := Resume(nil, nil); err == nil {
		t.Fatal("expected error resuming nil document")
	}
	word, _ := NewDoc().Build()
	if _, err := Resume(word, nil); err == nil {
		t.Fatal("expected error resuming a word document as a deck")
	}
}

