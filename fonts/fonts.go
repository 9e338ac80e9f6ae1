// Package fonts loads TrueType/OpenType faces and measures styled text
// for the layout engine. Measurement is deterministic for a given
// (text, family, size, style) tuple: registered faces are measured by
// shaping, unknown families take a fixed-width fallback estimate.
package fonts

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	gofont "github.com/go-text/typesetting/font"
	"github.com/mattn/go-runewidth"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// fallbackEmPerCell is the width estimate per character cell when no
// face metrics are available.
const fallbackEmPerCell = 0.6

// Style selects a variant within a family.
type Style struct {
	Bold   bool
	Italic bool
}

// Face is one parsed font variant. The raw bytes are retained so the
// renderer can load the same face it was measured with.
type Face struct {
	Family string
	Style  Style
	Data   []byte

	shaped     *gofont.Face
	unitsPerEm sfnt.Units
	ascent     float64 // 1/1000 em
	descent    float64 // 1/1000 em, positive down
}

// Ascent returns the face ascent in points at sizePt.
func (f *Face) Ascent(sizePt float64) float64 { return f.ascent * sizePt / 1000 }

// Descent returns the face descent in points at sizePt, positive.
func (f *Face) Descent(sizePt float64) float64 { return f.descent * sizePt / 1000 }

type faceKey struct {
	family string
	style  Style
}

// Registry maps font families to parsed faces and measures text runs.
// The zero value is usable: with nothing registered every measurement
// takes the fallback path. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	faces map[faceKey]*Face
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry { return &Registry{} }

// Register parses TrueType/OpenType data and stores it under family
// and style, replacing any existing face.
func (r *Registry) Register(family string, style Style, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("register %s: font data is empty", family)
	}
	parsed, err := sfnt.Parse(data)
	if err != nil {
		return fmt.Errorf("register %s: parse font: %w", family, err)
	}
	unitsPerEm := parsed.UnitsPerEm()
	if unitsPerEm == 0 {
		return fmt.Errorf("register %s: invalid unitsPerEm", family)
	}
	shaped, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("register %s: parse for shaping: %w", family, err)
	}

	buf := &sfnt.Buffer{}
	ppem := fixed.Int26_6(unitsPerEm << 6)
	metrics, err := parsed.Metrics(buf, ppem, xfont.HintingNone)
	if err != nil {
		return fmt.Errorf("register %s: read metrics: %w", family, err)
	}

	face := &Face{
		Family:     family,
		Style:      style,
		Data:       data,
		shaped:     shaped,
		unitsPerEm: unitsPerEm,
		ascent:     scaleFixed(metrics.Ascent, unitsPerEm),
		descent:    scaleFixed(metrics.Descent, unitsPerEm),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.faces == nil {
		r.faces = make(map[faceKey]*Face)
	}
	r.faces[faceKey{family: normalize(family), style: style}] = face
	return nil
}

// RegisterFile reads path and registers its contents.
func (r *Registry) RegisterFile(family string, style Style, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("register %s: %w", family, err)
	}
	return r.Register(family, style, data)
}

// Lookup returns the face for family and style. A missing variant
// substitutes the family's regular face; a missing family returns nil.
func (r *Registry) Lookup(family string, style Style) *Face {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := faceKey{family: normalize(family), style: style}
	if f, ok := r.faces[key]; ok {
		return f
	}
	if f, ok := r.faces[faceKey{family: key.family}]; ok {
		return f
	}
	return nil
}

// Has reports whether any variant of family is registered.
func (r *Registry) Has(family string) bool {
	return r.Lookup(family, Style{}) != nil
}

// Families returns the registered family names, deduplicated.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool, len(r.faces))
	var out []string
	for _, f := range r.faces {
		if !seen[f.Family] {
			seen[f.Family] = true
			out = append(out, f.Family)
		}
	}
	return out
}

// Measure returns the rendered width of text in points at sizePt.
// Registered faces are measured by shaping; anything else falls back
// to FallbackWidth. Measurement never fails: a missing face is a
// silent substitution, not an error.
func (r *Registry) Measure(text, family string, sizePt float64, bold, italic bool) float64 {
	if text == "" || sizePt <= 0 {
		return 0
	}
	if f := r.Lookup(family, Style{Bold: bold, Italic: italic}); f != nil {
		if w, ok := shapeWidth(f.shaped, text, sizePt); ok {
			return w
		}
	}
	return FallbackWidth(text, sizePt)
}

// LineHeight returns the face's natural line height (ascent plus
// descent) in points at sizePt, or sizePt itself when the family is
// unknown.
func (r *Registry) LineHeight(family string, sizePt float64) float64 {
	f := r.Lookup(family, Style{})
	if f == nil {
		return sizePt
	}
	return f.Ascent(sizePt) + f.Descent(sizePt)
}

// FallbackWidth estimates text width without font metrics: 0.6 em per
// character cell, with double-width runes counting as two cells.
func FallbackWidth(text string, sizePt float64) float64 {
	return float64(runewidth.StringWidth(text)) * fallbackEmPerCell * sizePt
}

func normalize(family string) string {
	return strings.ToLower(strings.TrimSpace(family))
}

func scaleFixed(val fixed.Int26_6, unitsPerEm sfnt.Units) float64 {
	return float64(val) * 1000.0 / (64.0 * float64(unitsPerEm))
}
