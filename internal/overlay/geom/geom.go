// internal/overlay/geom/geom.go
package geom

import "math"

// Space identifies the coordinate system a rectangle or point is expressed in.
// Viewport coordinates are relative to the visible window and shift with
// scrolling; document coordinates include the scroll offset and are stable.
type Space int

const (
	// Viewport space: relative to the visible window.
	Viewport Space = iota
	// Document space: viewport coordinates plus the current scroll offset.
	Document
)

func (s Space) String() string {
	if s == Document {
		return "document"
	}
	return "viewport"
}

// Point is a position in 2D space.
type Point struct {
	X, Y float64
}

// Add returns the point translated by other.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Dist calculates the Euclidean distance between p and other.
func (p Point) Dist(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Size is a width/height pair with no position.
type Size struct {
	Width, Height float64
}

// Offset is a scroll displacement applied when converting between spaces.
type Offset struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle tagged with its coordinate space.
// It is a pure value: construct it once and derive everything else through
// accessors. Equality is structural (==).
type Rect struct {
	Space  Space
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NewRect builds a rectangle in the given space.
func NewRect(space Space, left, top, width, height float64) Rect {
	return Rect{Space: space, Left: left, Top: top, Width: width, Height: height}
}

// Right returns the right edge coordinate.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the bottom edge coordinate.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// CenterX returns the horizontal midpoint.
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point { return Point{X: r.CenterX(), Y: r.CenterY()} }

// TopLeft returns the origin corner.
func (r Rect) TopLeft() Point { return Point{X: r.Left, Y: r.Top} }

// Size returns the dimensions with no position.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// IsDegenerate reports whether the rectangle has no usable area.
// Degenerate rectangles are excluded from relation classification and
// skim layout.
func (r Rect) IsDegenerate() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether inner lies entirely within r, flush edges
// included. Both rectangles must share a coordinate space.
func (r Rect) Contains(inner Rect) bool {
	if r.Space != inner.Space {
		return false
	}
	return inner.Left >= r.Left && inner.Top >= r.Top &&
		inner.Right() <= r.Right() && inner.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p falls inside the rectangle.
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

// ToDocument converts a viewport-space rectangle into document space by
// adding the scroll offset. This is the single sanctioned conversion between
// the two spaces; a rectangle already in document space passes through
// unchanged.
func (r Rect) ToDocument(scroll Offset) Rect {
	if r.Space == Document {
		return r
	}
	return Rect{
		Space:  Document,
		Left:   r.Left + scroll.X,
		Top:    r.Top + scroll.Y,
		Width:  r.Width,
		Height: r.Height,
	}
}

// ToViewport converts a document-space rectangle back into viewport space by
// subtracting the scroll offset.
func (r Rect) ToViewport(scroll Offset) Rect {
	if r.Space == Viewport {
		return r
	}
	return Rect{
		Space:  Viewport,
		Left:   r.Left - scroll.X,
		Top:    r.Top - scroll.Y,
		Width:  r.Width,
		Height: r.Height,
	}
}

// Interval is a 1D projection of a rectangle on one axis.
type Interval struct {
	Start, End float64
}

// Length returns the extent of the interval.
func (iv Interval) Length() float64 { return iv.End - iv.Start }

// Mid returns the midpoint of the interval.
func (iv Interval) Mid() float64 { return (iv.Start + iv.End) / 2 }

// IsEmpty reports whether the interval covers nothing.
func (iv Interval) IsEmpty() bool { return iv.End <= iv.Start }

// SpanX returns the horizontal projection of the rectangle.
func (r Rect) SpanX() Interval { return Interval{Start: r.Left, End: r.Right()} }

// SpanY returns the vertical projection of the rectangle.
func (r Rect) SpanY() Interval { return Interval{Start: r.Top, End: r.Bottom()} }

// Intersect returns the shared sub-interval of two projections. The result
// is empty when the projections do not overlap.
func (iv Interval) Intersect(other Interval) Interval {
	return Interval{
		Start: math.Max(iv.Start, other.Start),
		End:   math.Min(iv.End, other.End),
	}
}
