package doc

import (
	"encoding/json"
	"fmt"

	"github.com/wudi/docsmith/geo"
)

// FitSummary records the outcome of the auto-fit search for a frame.
type FitSummary struct {
	SizePt float64 `json:"size_pt"`
	Lines  int     `json:"lines"`
	Height float64 `json:"height"`
	Fits   bool    `json:"fits"`
}

// Frame is a positioned element on a slide.
type Frame interface {
	Bounds() geo.Rect
	frameKind() string
}

// TextFrame is a positioned text box. SizePt is the resolved font size
// after auto-fitting; Fit records how the resolution went.
type TextFrame struct {
	ID          string      `json:"id,omitempty"`
	Box         geo.Rect    `json:"box"`
	Paragraphs  []Paragraph `json:"paragraphs"`
	Font        string      `json:"font,omitempty"`
	SizePt      float64     `json:"size_pt"`
	MinSizePt   float64     `json:"min_size_pt,omitempty"`
	LineSpacing float64     `json:"line_spacing,omitempty"`
	Padding     float64     `json:"padding,omitempty"`
	AutoFit     bool        `json:"auto_fit,omitempty"`
	Fill        *Color      `json:"fill,omitempty"`
	Fit         *FitSummary `json:"fit,omitempty"`
}

func (f *TextFrame) Bounds() geo.Rect  { return f.Box }
func (f *TextFrame) frameKind() string { return "text" }

// Image is embedded image bytes plus the metadata serializers need.
type Image struct {
	Data []byte `json:"data"`
	MIME string `json:"mime"`
	Alt  string `json:"alt,omitempty"`
}

// ImageFrame positions an image on a slide.
type ImageFrame struct {
	ID    string   `json:"id,omitempty"`
	Box   geo.Rect `json:"box"`
	Image Image    `json:"image"`
}

func (f *ImageFrame) Bounds() geo.Rect  { return f.Box }
func (f *ImageFrame) frameKind() string { return "image" }

// Cell is one table cell.
type Cell struct {
	Paragraphs []Paragraph `json:"paragraphs"`
	Fill       *Color      `json:"fill,omitempty"`
}

// Table is column geometry plus cell rows. Zero ColWidths means an
// equal split of the available width.
type Table struct {
	ColWidths  []float64 `json:"col_widths,omitempty"`
	Rows       [][]Cell  `json:"rows"`
	HeaderRows int       `json:"header_rows,omitempty"`
	Borders    bool      `json:"borders,omitempty"`
}

// Columns returns the column count, taken from the widest row.
func (t Table) Columns() int {
	n := len(t.ColWidths)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}

// SplitWidths resolves column widths against an available span.
// Explicit widths are honored in points, unset columns share the
// remainder, and the whole set is scaled down when it overflows.
func (t Table) SplitWidths(total float64) []float64 {
	n := t.Columns()
	if n == 0 || total <= 0 {
		return nil
	}
	widths := make([]float64, n)
	remaining := total
	unset := 0
	for i := 0; i < n; i++ {
		if i < len(t.ColWidths) && t.ColWidths[i] > 0 {
			widths[i] = t.ColWidths[i]
			remaining -= widths[i]
		} else {
			unset++
		}
	}
	if unset > 0 {
		share := remaining / float64(unset)
		if share <= 0 {
			share = total / float64(n)
		}
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	var sum float64
	for _, w := range widths {
		sum += w
	}
	if sum > total {
		for i := range widths {
			widths[i] *= total / sum
		}
	}
	return widths
}

// TableFrame positions a table on a slide. Text in cells is auto-fit
// per cell using SizePt/MinSizePt.
type TableFrame struct {
	ID        string   `json:"id,omitempty"`
	Box       geo.Rect `json:"box"`
	Table     Table    `json:"table"`
	Font      string   `json:"font,omitempty"`
	SizePt    float64  `json:"size_pt"`
	MinSizePt float64  `json:"min_size_pt,omitempty"`
}

func (f *TableFrame) Bounds() geo.Rect  { return f.Box }
func (f *TableFrame) frameKind() string { return "table" }

// Slide is an ordered frame list. Order is z-order; later frames draw
// on top.
type Slide struct {
	ID     string  `json:"id,omitempty"`
	Fill   *Color  `json:"fill,omitempty"`
	Frames []Frame `json:"frames"`
}

// TextFrames returns the slide's text frames in z-order.
func (s *Slide) TextFrames() []*TextFrame {
	var out []*TextFrame
	for _, f := range s.Frames {
		if tf, ok := f.(*TextFrame); ok {
			out = append(out, tf)
		}
	}
	return out
}

// frameEnvelope tags frames for JSON so handles survive the interface
// round trip.
type frameEnvelope struct {
	Type  string          `json:"type"`
	Frame json.RawMessage `json:"frame"`
}

type slideJSON struct {
	ID     string          `json:"id,omitempty"`
	Fill   *Color          `json:"fill,omitempty"`
	Frames []frameEnvelope `json:"frames"`
}

// MarshalJSON encodes frames as {type, frame} envelopes.
func (s *Slide) MarshalJSON() ([]byte, error) {
	out := slideJSON{ID: s.ID, Fill: s.Fill, Frames: make([]frameEnvelope, 0, len(s.Frames))}
	for _, f := range s.Frames {
		raw, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		out.Frames = append(out.Frames, frameEnvelope{Type: f.frameKind(), Frame: raw})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes {type, frame} envelopes back into concrete
// frames.
func (s *Slide) UnmarshalJSON(data []byte) error {
	var in slideJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.ID = in.ID
	s.Fill = in.Fill
	s.Frames = make([]Frame, 0, len(in.Frames))
	for _, env := range in.Frames {
		var f Frame
		switch env.Type {
		case "text":
			f = &TextFrame{}
		case "image":
			f = &ImageFrame{}
		case "table":
			f = &TableFrame{}
		default:
			return fmt.Errorf("unknown frame type %q", env.Type)
		}
		if err := json.Unmarshal(env.Frame, f); err != nil {
			return fmt.Errorf("decode %s frame: %w", env.Type, err)
		}
		s.Frames = append(s.Frames, f)
	}
	return nil
}
