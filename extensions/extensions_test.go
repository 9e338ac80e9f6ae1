package extensions

import (
	"context"
	"testing"

	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/geo"
)

func sampleDeck() *doc.Document {
	return &doc.Document{
		Kind:     doc.KindDeck,
		Info:     doc.Info{Title: "T", Author: "A"},
		PageSize: geo.Size{W: 960, H: 540},
		Slides: []*doc.Slide{
			{Frames: []doc.Frame{
				&doc.TextFrame{
					ID:     "title",
					Box:    geo.NewRect(40, 40, 880, 80),
					SizePt: 28,
					Paragraphs: []doc.Paragraph{
						{Runs: []doc.Run{{Text: "one "}, {Text: ""}, {Text: "two"}, {Text: " bold", Bold: true}}},
					},
					Fit: &doc.FitSummary{SizePt: 8, Lines: 9, Height: 120, Fits: false},
				},
				&doc.ImageFrame{Box: geo.NewRect(40, 140, 200, 150), Image: doc.Image{Data: []byte{1}, MIME: "image/png"}},
				&doc.TableFrame{
					Box:    geo.NewRect(300, 140, 400, 150),
					SizePt: 12,
					Table: doc.Table{Rows: [][]doc.Cell{
						{{Paragraphs: []doc.Paragraph{doc.Plain("a")}}, {Paragraphs: []doc.Paragraph{doc.Plain("b")}}},
						{{Paragraphs: []doc.Paragraph{doc.Plain("c")}}},
					}},
				},
			}},
		},
	}
}

func TestDeckInspector(t *testing.T) {
	report, err := (&DeckInspector{}).Inspect(context.Background(), sampleDeck())
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if report.SlideCount != 1 || report.FrameCount != 3 {
		t.Fatalf("counts wrong: %+v", report)
	}
	if report.TextCount != 1 || report.ImageCount != 1 || report.TableCount != 1 {
		t.Fatalf("frame kinds wrong: %+v", report)
	}
	if report.WordCount != 3 {
		t.Fatalf("word count = %d, want 3", report.WordCount)
	}
	if len(report.Overflows) != 1 || report.Overflows[0].FrameID != "title" {
		t.Fatalf("overflow detection wrong: %+v", report.Overflows)
	}
	if report.Metadata["Title"] != "T" {
		t.Fatalf("metadata missing: %+v", report.Metadata)
	}
}

func TestRunCoalescer(t *testing.T) {
	d := sampleDeck()
	report, err := (&RunCoalescer{}).Normalize(context.Background(), d)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if report.RunsMerged != 1 || report.RunsDropped != 1 {
		t.Fatalf("report = %+v", report)
	}
	runs := d.Slides[0].TextFrames()[0].Paragraphs[0].Runs
	if len(runs) != 2 || runs[0].Text != "one two" || runs[1].Text != " bold" {
		t.Fatalf("runs = %+v", runs)
	}
}

func TestThemeTransformerOverride(t *testing.T) {
	d := sampleDeck()
	d.Slides[0].TextFrames()[0].Font = "Papyrus"
	tr := &ThemeTransformer{Theme: doc.Theme{Font: "Arial"}, Override: true}
	if err := tr.Transform(context.Background(), d); err != nil {
		t.Fatalf("Transform failed: %v", err)
	}
	if d.Theme.Font != "Arial" {
		t.Fatalf("theme not stamped: %+v", d.Theme)
	}
	if d.Slides[0].TextFrames()[0].Font != "" {
		t.Fatal("frame font not cleared")
	}
}

func TestDeckValidator(t *testing.T) {
	d := sampleDeck()
	d.Slides[0].Frames = append(d.Slides[0].Frames, &doc.TextFrame{Box: geo.NewRect(900, 500, 200, 100), SizePt: 12})
	report, err := (&DeckValidator{}).Validate(context.Background(), d)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !report.Valid {
		t.Fatalf("structural errors unexpected: %+v", report.Errors)
	}
	codes := map[string]bool{}
	for _, w := range report.Warnings {
		codes[w.Code] = true
	}
	for _, want := range []string{"overflow", "ragged-table", "off-canvas"} {
		if !codes[want] {
			t.Fatalf("missing warning %q in %+v", want, report.Warnings)
		}
	}
}

func TestDeckValidatorErrors(t *testing.T) {
	d := sampleDeck()
	d.Slides[0].Frames[0].(*doc.TextFrame).SizePt = 0
	report, err := (&DeckValidator{}).Validate(context.Background(), d)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if report.Valid || len(report.Errors) == 0 {
		t.Fatalf("expected font-size error: %+v", report)
	}
}

func TestHubOrdering(t *testing.T) {
	hub := NewHub()
	if err := hub.Register(&DeckValidator{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := hub.Register(&RunCoalescer{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := hub.Register(&DeckInspector{}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := hub.Execute(context.Background(), sampleDeck()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := len(hub.Extensions(PhaseNormalize)); got != 1 {
		t.Fatalf("normalize extensions = %d", got)
	}
}
