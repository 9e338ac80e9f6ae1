package builder

import (
	"github.com/wudi/docsmith/doc"
	"github.com/wudi/docsmith/geo"
	"github.com/wudi/docsmith/textfit"
)

// Builder defaults. Requested sizes follow the usual deck conventions:
// large titles, 18pt body, 8pt floor.
const (
	DefaultFont        = "Calibri"
	DefaultMonoFont    = "Consolas"
	DefaultTextSizePt  = 18.0
	DefaultTitleSizePt = 28.0
	DefaultTableSizePt = 12.0
)

// DefaultSlideSize is a 16:9 slide (13.333in x 7.5in).
var DefaultSlideSize = geo.Size{W: 960, H: 540}

// DefaultPageSize is US Letter.
var DefaultPageSize = geo.Size{W: 612, H: 792}

// FitMode selects how a text frame resolves its font size.
type FitMode string

const (
	// FitShrink runs the descending size search (the default).
	FitShrink FitMode = "shrink"
	// FitNone keeps the requested size even when text overflows.
	FitNone FitMode = "none"
)

// TextOptions configures one text frame. Zero fields take the deck
// theme and package defaults.
type TextOptions struct {
	Font        string
	SizePt      float64
	MinSizePt   float64
	StepPt      float64
	LineSpacing float64
	Padding     float64
	Fit         FitMode
	Align       doc.Alignment
	Fill        *doc.Color
}

func resolveText(opts *TextOptions, theme doc.Theme) TextOptions {
	var o TextOptions
	if opts != nil {
		o = *opts
	}
	if o.Font == "" {
		o.Font = theme.Font
	}
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.SizePt == 0 {
		o.SizePt = DefaultTextSizePt
	}
	if o.MinSizePt == 0 {
		o.MinSizePt = textfit.DefaultMinSizePt
	}
	if o.StepPt == 0 {
		o.StepPt = textfit.DefaultStepPt
	}
	if o.LineSpacing == 0 {
		o.LineSpacing = textfit.DefaultLineSpacing
	}
	if o.Fit == "" {
		o.Fit = FitShrink
	}
	return o
}

// TableOptions configures one table frame.
type TableOptions struct {
	Font       string
	SizePt     float64
	MinSizePt  float64
	HeaderRows int
	Borders    bool
	HeaderFill *doc.Color
}

func resolveTable(opts *TableOptions, theme doc.Theme) TableOptions {
	var o TableOptions
	if opts != nil {
		o = *opts
	}
	if o.Font == "" {
		o.Font = theme.Font
	}
	if o.Font == "" {
		o.Font = DefaultFont
	}
	if o.SizePt == 0 {
		o.SizePt = DefaultTableSizePt
	}
	if o.MinSizePt == 0 {
		o.MinSizePt = textfit.DefaultMinSizePt
	}
	return o
}
