package textfit

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/wudi/docsmith/doc"
)

// gridMeasurer measures every rune at a fixed fraction of the font
// size, like the fallback path of the font registry.
type gridMeasurer struct{ em float64 }

func (g gridMeasurer) Measure(text, family string, sizePt float64, bold, italic bool) float64 {
	return g.em * sizePt * float64(len([]rune(text)))
}

func testBox(w, h float64, text string) TextBox {
	return TextBox{Width: w, Height: h, Font: "Sans", Paragraphs: doc.ParagraphsFromText(text)}
}

func TestEvaluateMonotonicShrink(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	box := testBox(200, 100, strings.Repeat("lorem ipsum dolor sit amet ", 8))

	prev := -1.0
	for size := 18.0; size >= 8; size-- {
		res, err := Evaluate(box, size, 1.2, m)
		if err != nil {
			t.Fatalf("Evaluate at %v failed: %v", size, err)
		}
		if prev >= 0 && res.Height > prev {
			t.Fatalf("height grew from %v to %v when size dropped to %v", prev, res.Height, size)
		}
		prev = res.Height
	}
}

func TestFindFittingSizeIdempotent(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	box := testBox(150, 60, "some body text that needs a couple of lines to lay out")

	a, err := FindFittingSize(box, 18, Options{}, m)
	if err != nil {
		t.Fatalf("first search failed: %v", err)
	}
	b, err := FindFittingSize(box, 18, Options{}, m)
	if err != nil {
		t.Fatalf("second search failed: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs produced different outcomes:\n%+v\n%+v", a, b)
	}
}

func TestFloorRespected(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	box := testBox(40, 10, strings.Repeat("overflowing content ", 40))

	out, err := FindFittingSize(box, 44, Options{MinSizePt: 8, StepPt: 1}, m)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if out.SizePt < 8 {
		t.Fatalf("size %v below the floor", out.SizePt)
	}
	if out.SizePt != 8 {
		t.Fatalf("pathological text should land on the floor, got %v", out.SizePt)
	}
	if out.Fits {
		t.Fatal("text cannot fit this box, Fits must be false")
	}
}

func TestUnbreakableWordPlacedAlone(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	const word = "Pneumonoultramicroscopicsilicovolcanoconiosis"
	box := testBox(100, 5, word)

	lines, err := Wrap(box, 18, m)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want the word alone on 1", len(lines))
	}
	if lines[0].Text() != word {
		t.Fatalf("line text = %q", lines[0].Text())
	}
	if lines[0].Width <= box.Width {
		t.Fatal("unbreakable word should overflow horizontally")
	}

	out, err := FindFittingSize(box, 18, Options{}, m)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(out.Lines) != 1 || out.Fits {
		t.Fatalf("want one overflowing line with Fits=false, got %d lines, fits=%v", len(out.Lines), out.Fits)
	}
}

func TestShortTextKeepsRequestedSize(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	box := testBox(8*72, 72, "Hi")

	out, err := FindFittingSize(box, 18, Options{}, m)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if out.SizePt != 18 {
		t.Fatalf("no shrink was needed, got %v", out.SizePt)
	}
	if !out.Fits || len(out.Lines) != 1 {
		t.Fatalf("want a single fitting line, got fits=%v lines=%d", out.Fits, len(out.Lines))
	}
	if out.Evaluations != 1 {
		t.Fatalf("fitting text should need one trial, took %d", out.Evaluations)
	}
}

func TestExplicitBreaksPreserved(t *testing.T) {
	m := gridMeasurer{em: 0.5}

	box := testBox(8*72, 200, "Line one\nLine two")
	lines, err := Wrap(box, 12, m)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if len(lines) < 2 {
		t.Fatalf("explicit break collapsed, got %d lines", len(lines))
	}
	if lines[0].Text() != "Line one" || lines[1].Text() != "Line two" {
		t.Fatalf("lines = %q, %q", lines[0].Text(), lines[1].Text())
	}

	// A newline inside a single run forces the same break.
	inRun := TextBox{Width: 8 * 72, Height: 200, Font: "Sans",
		Paragraphs: []doc.Paragraph{{Runs: []doc.Run{{Text: "Line one\nLine two"}}}}}
	lines, err = Wrap(inRun, 12, m)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("in-run newline produced %d lines, want 2", len(lines))
	}
}

func TestBlankParagraphKeepsItsLine(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	box := testBox(300, 300, "above\n\nbelow")

	lines, err := Wrap(box, 12, m)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 with the blank preserved", len(lines))
	}
	if lines[1].Text() != "" {
		t.Fatalf("middle line = %q, want empty", lines[1].Text())
	}
}

func TestWrapPreservesStyles(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	box := TextBox{Width: 60, Height: 300, Font: "Sans", Paragraphs: []doc.Paragraph{{
		Runs: []doc.Run{
			{Text: "plain "},
			{Text: "bold text here", Bold: true},
		},
	}}}

	lines, err := Wrap(box, 10, m)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	var sawBold, sawPlain bool
	for _, ln := range lines {
		for _, r := range ln.Runs {
			if r.Bold {
				sawBold = true
			} else {
				sawPlain = true
			}
			if r.Text == "" {
				t.Fatal("empty run emitted")
			}
		}
	}
	if !sawBold || !sawPlain {
		t.Fatalf("styles lost in wrap: bold=%v plain=%v", sawBold, sawPlain)
	}
}

func TestGluedRunsStayWordAtomic(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	// "hel" + "lo" glued across a style change must not grow a space.
	box := TextBox{Width: 300, Height: 300, Font: "Sans", Paragraphs: []doc.Paragraph{{
		Runs: []doc.Run{{Text: "hel"}, {Text: "lo", Bold: true}, {Text: " world"}},
	}}}

	lines, err := Wrap(box, 10, m)
	if err != nil {
		t.Fatalf("Wrap failed: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if got := lines[0].Text(); got != "hello world" {
		t.Fatalf("line text = %q, want %q", got, "hello world")
	}
}

func TestInvalidBoxFailsFast(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	for _, box := range []TextBox{
		{Width: 0, Height: 100},
		{Width: 100, Height: -1},
		{Width: 10, Height: 10, Padding: 6},
	} {
		if _, err := Evaluate(box, 12, 1.2, m); !errors.Is(err, ErrInvalidBox) {
			t.Fatalf("box %+v: got %v, want ErrInvalidBox", box, err)
		}
		if _, err := FindFittingSize(box, 12, Options{}, m); !errors.Is(err, ErrInvalidBox) {
			t.Fatalf("box %+v: search got %v, want ErrInvalidBox", box, err)
		}
	}

	good := testBox(100, 100, "x")
	if _, err := FindFittingSize(good, 0, Options{}, m); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("zero requested size: got %v, want ErrInvalidSize", err)
	}
	if _, err := FindFittingSize(good, 12, Options{StepPt: -1}, m); !errors.Is(err, ErrInvalidSize) {
		t.Fatalf("negative step: got %v, want ErrInvalidSize", err)
	}
}

func TestRequestedBelowFloorClampsUp(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	box := testBox(300, 300, "tiny")

	out, err := FindFittingSize(box, 4, Options{MinSizePt: 8}, m)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if out.SizePt != 8 {
		t.Fatalf("requested size below the floor should evaluate at the floor, got %v", out.SizePt)
	}
}

func TestCoarseStepLandsOnFloor(t *testing.T) {
	m := gridMeasurer{em: 0.5}
	box := testBox(40, 10, strings.Repeat("dense ", 50))

	out, err := FindFittingSize(box, 18, Options{MinSizePt: 8, StepPt: 4}, m)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	// 18 -> 14 -> 10 -> clamped final trial at 8.
	if out.SizePt != 8 {
		t.Fatalf("final trial should clamp to the floor, got %v", out.SizePt)
	}
	if out.Evaluations != 4 {
		t.Fatalf("got %d evaluations, want 4", out.Evaluations)
	}
}
