package extensions

import (
	"fmt"
	"strings"

	"github.com/wudi/docsmith/doc"
)

// DeckInspector implements a simple document inspector.
type DeckInspector struct{}

func (i *DeckInspector) Name() string  { return "DeckInspector" }
func (i *DeckInspector) Phase() Phase  { return PhaseInspect }
func (i *DeckInspector) Priority() int { return 100 }
func (i *DeckInspector) Execute(ctx Context, d *doc.Document) error {
	_, err := i.Inspect(ctx, d)
	return err
}

func (i *DeckInspector) Inspect(ctx Context, d *doc.Document) (*InspectionReport, error) {
	report := &InspectionReport{
		SlideCount: len(d.Slides),
		Metadata:   make(map[string]interface{}),
	}
	if d.Info.Title != "" {
		report.Metadata["Title"] = d.Info.Title
	}
	if d.Info.Author != "" {
		report.Metadata["Author"] = d.Info.Author
	}

	for si, s := range d.Slides {
		report.FrameCount += len(s.Frames)
		for fi, f := range s.Frames {
			switch fr := f.(type) {
			case *doc.TextFrame:
				report.TextCount++
				for _, p := range fr.Paragraphs {
					report.WordCount += len(strings.Fields(p.Text()))
				}
				if fr.Fit != nil && !fr.Fit.Fits {
					report.Overflows = append(report.Overflows, Overflow{
						Slide:    si,
						Frame:    fi,
						FrameID:  fr.ID,
						SizePt:   fr.Fit.SizePt,
						HeightPt: fr.Fit.Height,
						BoxPt:    fr.Box.H,
					})
				}
			case *doc.ImageFrame:
				report.ImageCount++
			case *doc.TableFrame:
				report.TableCount++
			}
		}
	}
	return report, nil
}

// RunCoalescer merges adjacent runs with identical styling and drops
// empty ones, shrinking handles and serialized markup.
type RunCoalescer struct{}

func (c *RunCoalescer) Name() string  { return "RunCoalescer" }
func (c *RunCoalescer) Phase() Phase  { return PhaseNormalize }
func (c *RunCoalescer) Priority() int { return 100 }
func (c *RunCoalescer) Execute(ctx Context, d *doc.Document) error {
	_, err := c.Normalize(ctx, d)
	return err
}

func (c *RunCoalescer) Normalize(ctx Context, d *doc.Document) (*NormalizationReport, error) {
	report := &NormalizationReport{}

	for si, s := range d.Slides {
		for fi, f := range s.Frames {
			tf, ok := f.(*doc.TextFrame)
			if !ok {
				continue
			}
			for pi := range tf.Paragraphs {
				out, merged, dropped := coalesce(tf.Paragraphs[pi].Runs)
				if merged == 0 && dropped == 0 {
					continue
				}
				tf.Paragraphs[pi].Runs = out
				report.RunsMerged += merged
				report.RunsDropped += dropped
				report.Actions = append(report.Actions, NormalizationAction{
					Type:        "CoalesceRuns",
					Description: fmt.Sprintf("merged %d and dropped %d runs in paragraph %d", merged, dropped, pi),
					Slide:       si,
					Frame:       fi,
				})
			}
		}
	}
	for bi := range d.Body {
		if p := d.Body[bi].Paragraph; p != nil {
			out, merged, dropped := coalesce(p.Runs)
			if merged == 0 && dropped == 0 {
				continue
			}
			p.Runs = out
			report.RunsMerged += merged
			report.RunsDropped += dropped
		}
	}
	return report, nil
}

func coalesce(runs []doc.Run) (out []doc.Run, merged, dropped int) {
	for _, r := range runs {
		if r.Text == "" {
			dropped++
			continue
		}
		if n := len(out); n > 0 && out[n-1].SameStyle(r) {
			out[n-1].Text += r.Text
			merged++
			continue
		}
		out = append(out, r)
	}
	return out, merged, dropped
}

// ThemeTransformer stamps a theme onto the document. With Override set
// it also clears per-frame font choices so the theme takes effect
// everywhere.
type ThemeTransformer struct {
	Theme    doc.Theme
	Override bool
}

func (t *ThemeTransformer) Name() string  { return "ThemeTransformer" }
func (t *ThemeTransformer) Phase() Phase  { return PhaseTransform }
func (t *ThemeTransformer) Priority() int { return 100 }

func (t *ThemeTransformer) Execute(ctx Context, d *doc.Document) error {
	return t.Transform(ctx, d)
}

func (t *ThemeTransformer) Transform(ctx Context, d *doc.Document) error {
	d.Theme = t.Theme
	if !t.Override {
		return nil
	}
	for _, s := range d.Slides {
		for _, f := range s.Frames {
			switch fr := f.(type) {
			case *doc.TextFrame:
				fr.Font = ""
			case *doc.TableFrame:
				fr.Font = ""
			}
		}
	}
	return nil
}

// DeckValidator checks structural rules: frames must sit on the
// canvas, sizes must be positive, and fitted text should not overflow.
type DeckValidator struct{}

func (v *DeckValidator) Name() string  { return "DeckValidator" }
func (v *DeckValidator) Phase() Phase  { return PhaseValidate }
func (v *DeckValidator) Priority() int { return 100 }
func (v *DeckValidator) Execute(ctx Context, d *doc.Document) error {
	_, err := v.Validate(ctx, d)
	return err
}

func (v *DeckValidator) Validate(ctx Context, d *doc.Document) (*ValidationReport, error) {
	report := &ValidationReport{Valid: true}
	fail := func(code, msg, loc string) {
		report.Valid = false
		report.Errors = append(report.Errors, ValidationError{Code: code, Message: msg, Location: loc})
	}
	warn := func(code, msg, loc string) {
		report.Warnings = append(report.Warnings, ValidationWarning{Code: code, Message: msg, Location: loc})
	}

	if !d.PageSize.Valid() {
		fail("page-size", fmt.Sprintf("page size %+v is not positive", d.PageSize), "document")
	}
	if d.Kind == doc.KindDeck && len(d.Slides) == 0 {
		warn("empty-deck", "deck has no slides", "document")
	}

	for si, s := range d.Slides {
		for fi, f := range s.Frames {
			loc := fmt.Sprintf("slide %d, frame %d", si+1, fi+1)
			box := f.Bounds()
			if !box.Valid() {
				fail("frame-bounds", fmt.Sprintf("frame box %+v is not positive", box), loc)
				continue
			}
			if d.PageSize.Valid() &&
				(box.X < 0 || box.Y < 0 || box.Right() > d.PageSize.W || box.Bottom() > d.PageSize.H) {
				warn("off-canvas", "frame extends beyond the slide", loc)
			}
			switch fr := f.(type) {
			case *doc.TextFrame:
				if fr.SizePt <= 0 {
					fail("font-size", fmt.Sprintf("font size %.1f is not positive", fr.SizePt), loc)
				}
				if fr.Fit != nil && !fr.Fit.Fits {
					warn("overflow", fmt.Sprintf("text needs %.1fpt of %.1fpt at the minimum size", fr.Fit.Height, box.H), loc)
				}
			case *doc.TableFrame:
				cols := fr.Table.Columns()
				for ri, row := range fr.Table.Rows {
					if len(row) != cols {
						warn("ragged-table", fmt.Sprintf("row %d has %d of %d cells", ri+1, len(row), cols), loc)
					}
				}
			}
		}
	}
	return report, nil
}
