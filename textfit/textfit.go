// Package textfit implements auto-fit text layout for generated
// documents: greedy word wrapping into a target box and a descending
// font-size search that shrinks text until it fits, floor-clamped to a
// minimum readable size.
//
// The chain is measurer -> wrapper -> evaluator -> search. All
// computation is request-scoped and purely in-memory; overflow at the
// floor size is reported, never raised as an error.
package textfit

import (
	"errors"
	"strings"

	"github.com/wudi/docsmith/doc"
)

// Defaults used when Options fields are zero.
const (
	DefaultMinSizePt   = 8.0
	DefaultStepPt      = 1.0
	DefaultLineSpacing = 1.2
)

var (
	// ErrInvalidBox reports zero or negative box dimensions, or padding
	// that consumes the whole box. This is a caller bug, surfaced fast.
	ErrInvalidBox = errors.New("invalid box dimensions")

	// ErrInvalidSize reports a non-positive font size or search step.
	ErrInvalidSize = errors.New("invalid font size parameters")
)

// Measurer measures the rendered width of styled text in points.
// Implementations must be deterministic for a given tuple; fonts.Registry
// satisfies this interface.
type Measurer interface {
	Measure(text, family string, sizePt float64, bold, italic bool) float64
}

// TextBox is one layout target: the box extent plus paragraph content
// and the families to measure it with.
type TextBox struct {
	Width   float64
	Height  float64
	Padding float64

	Font     string
	MonoFont string

	Paragraphs []doc.Paragraph
}

func (b TextBox) validate() error {
	if b.Width <= 0 || b.Height <= 0 || b.Padding < 0 {
		return ErrInvalidBox
	}
	if b.Width-2*b.Padding <= 0 {
		return ErrInvalidBox
	}
	return nil
}

// contentWidth is the wrap width after padding.
func (b TextBox) contentWidth() float64 { return b.Width - 2*b.Padding }

// family picks the measuring family for a run.
func (b TextBox) family(r doc.Run) string {
	if r.Mono && b.MonoFont != "" {
		return b.MonoFont
	}
	return b.Font
}

// Line is one wrapped output line. Runs carry the original styling;
// Width is the measured line width including inter-word spaces.
type Line struct {
	Runs  []doc.Run
	Width float64
}

// Text returns the concatenated line text.
func (l Line) Text() string {
	var b strings.Builder
	for _, r := range l.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// FitResult is the outcome of evaluating one candidate size. Lines are
// returned whether or not the text fits so callers can fall back to
// the overflowing layout.
type FitResult struct {
	SizePt float64
	Lines  []Line
	Height float64
	Fits   bool
}

// Outcome is the final result of the size search: the chosen size, the
// lines wrapped at that size, and whether they fit the box.
type Outcome struct {
	SizePt      float64
	Lines       []Line
	Height      float64
	Fits        bool
	Evaluations int
}

// Summary converts the outcome to the form recorded on frames.
func (o Outcome) Summary() doc.FitSummary {
	return doc.FitSummary{SizePt: o.SizePt, Lines: len(o.Lines), Height: o.Height, Fits: o.Fits}
}

// Options tunes the size search. Zero fields take the package
// defaults; negative fields are rejected.
type Options struct {
	MinSizePt   float64
	StepPt      float64
	LineSpacing float64
}

func (o Options) withDefaults() Options {
	if o.MinSizePt == 0 {
		o.MinSizePt = DefaultMinSizePt
	}
	if o.StepPt == 0 {
		o.StepPt = DefaultStepPt
	}
	if o.LineSpacing == 0 {
		o.LineSpacing = DefaultLineSpacing
	}
	return o
}
