// Package geo provides the geometric primitives shared by the layout,
// serialization and rendering packages: points, sizes, rectangles and
// affine transforms, all expressed in typographic points.
package geo

import "math"

const (
	// PointsPerInch is the typographic point density of an inch.
	PointsPerInch = 72.0

	// EMUPerPoint converts points to English Metric Units, the native
	// length unit of OOXML drawing geometry (914400 per inch).
	EMUPerPoint = 12700

	millimetersPerInch = 25.4
)

// Inches converts a length in inches to points.
func Inches(v float64) float64 { return v * PointsPerInch }

// Millimeters converts a length in millimeters to points.
func Millimeters(v float64) float64 { return v * PointsPerInch / millimetersPerInch }

// ToMillimeters converts a length in points to millimeters.
func ToMillimeters(pt float64) float64 { return pt * millimetersPerInch / PointsPerInch }

// EMU converts a length in points to English Metric Units, rounded to
// the nearest unit.
func EMU(pt float64) int64 { return int64(math.Round(pt * EMUPerPoint)) }

// FromEMU converts English Metric Units to points.
func FromEMU(v int64) float64 { return float64(v) / EMUPerPoint }

// Point is a position in point units.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair in point units.
type Size struct {
	W float64
	H float64
}

// Valid reports whether both dimensions are strictly positive.
func (s Size) Valid() bool { return s.W > 0 && s.H > 0 }

// Rect is an axis-aligned rectangle with its origin at the top-left
// corner, extending W to the right and H downward.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// NewRect returns the rectangle with origin (x, y) and extent (w, h).
func NewRect(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// Valid reports whether the rectangle has strictly positive extent.
func (r Rect) Valid() bool { return r.W > 0 && r.H > 0 }

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Size returns the rectangle extent.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Inset shrinks the rectangle by d on every side. Insets larger than
// half an extent collapse that extent to zero rather than going
// negative.
func (r Rect) Inset(d float64) Rect {
	out := Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
	if out.W < 0 {
		out.X = r.X + r.W/2
		out.W = 0
	}
	if out.H < 0 {
		out.Y = r.Y + r.H/2
		out.H = 0
	}
	return out
}

// Contains reports whether p lies inside the rectangle, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}
