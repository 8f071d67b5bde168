// internal/overlay/measure/measure.go
package measure

import (
	"math"
	"strconv"

	"github.com/xkilldash9x/lens-cli/internal/overlay/geom"
	"github.com/xkilldash9x/lens-cli/internal/overlay/relation"
)

// Line thickness of the emitted segments, in overlay pixels.
const strokeWidth = 1.0

// Length of the dashed guide stubs drawn flush with each rectangle's
// facing edge.
const guideOverhang = 4.0

// SegmentKind distinguishes solid measurement lines from dashed guides.
type SegmentKind int

const (
	// Line is a solid segment connecting two facing edges; its length is
	// the measured gap.
	Line SegmentKind = iota
	// Guide is a short dashed segment flush with a rectangle edge. Guides
	// anchor the measurement visually and never imply a gap themselves.
	Guide
)

// Segment is a thin rectangle in overlay (document) space.
type Segment struct {
	Kind SegmentKind
	Rect geom.Rect
}

// Label is a numeric annotation anchored at a point in overlay space.
type Label struct {
	Text   string
	Anchor geom.Point
}

// Set is everything the measurement layer draws for one relation set.
type Set struct {
	Segments []Segment
	Labels   []Label
}

// IsEmpty reports whether the set draws nothing.
func (s Set) IsEmpty() bool {
	return len(s.Segments) == 0 && len(s.Labels) == 0
}

// gapText renders a pixel distance as a rounded integer label. Negative and
// zero gaps are rendered as-is; suppression is the caller's call.
func gapText(px float64) string {
	return strconv.Itoa(int(math.Round(px))) + "px"
}

// Render turns a classified relation set into segments and labels. The
// input rectangles are document-space; the output is document-space overlay
// geometry ready for the renderer.
func Render(rels []relation.Relation) Set {
	var out Set
	for _, r := range rels {
		switch r.Kind {
		case relation.Contains:
			renderContainment(&out, r.Outer(), r.Inner())
		case relation.Adjacent:
			renderAdjacency(&out, r)
		}
	}
	return out
}

// renderContainment emits four segment+label pairs, one per edge gap
// between the inner and outer rectangle.
func renderContainment(out *Set, outer, inner geom.Rect) {
	cx := inner.CenterX()
	cy := inner.CenterY()

	edges := []struct {
		gap float64
		seg geom.Rect
	}{
		// Top: vertical line from outer.top to inner.top at inner's center X.
		{inner.Top - outer.Top, vline(outer.Space, cx, outer.Top, inner.Top)},
		// Bottom: inner.bottom down to outer.bottom.
		{outer.Bottom() - inner.Bottom(), vline(outer.Space, cx, inner.Bottom(), outer.Bottom())},
		// Left: horizontal line from outer.left to inner.left at center Y.
		{inner.Left - outer.Left, hline(outer.Space, outer.Left, inner.Left, cy)},
		// Right: inner.right out to outer.right.
		{outer.Right() - inner.Right(), hline(outer.Space, inner.Right(), outer.Right(), cy)},
	}

	for _, e := range edges {
		out.Segments = append(out.Segments, Segment{Kind: Line, Rect: e.seg})
		out.Labels = append(out.Labels, Label{
			Text:   gapText(e.gap),
			Anchor: e.seg.Center(),
		})
	}
}

// renderAdjacency emits one solid connecting segment with a midpoint label,
// plus two dashed guides flush with the facing edges spanning the overlap
// interval.
func renderAdjacency(out *Set, r relation.Relation) {
	src, tgt := r.Source, r.Target
	mid := r.Overlap.Mid()

	var seg geom.Rect
	var nearEdge, farEdge float64

	if r.Axis == relation.Vertical {
		if r.Side == relation.Above {
			nearEdge, farEdge = src.Bottom(), tgt.Top
		} else {
			nearEdge, farEdge = tgt.Bottom(), src.Top
		}
		seg = vline(src.Space, mid, nearEdge, farEdge)
		out.Segments = append(out.Segments,
			Segment{Kind: Guide, Rect: hline(src.Space, r.Overlap.Start-guideOverhang, r.Overlap.End+guideOverhang, nearEdge)},
			Segment{Kind: Guide, Rect: hline(src.Space, r.Overlap.Start-guideOverhang, r.Overlap.End+guideOverhang, farEdge)},
		)
	} else {
		if r.Side == relation.LeftOf {
			nearEdge, farEdge = src.Right(), tgt.Left
		} else {
			nearEdge, farEdge = tgt.Right(), src.Left
		}
		seg = hline(src.Space, nearEdge, farEdge, mid)
		out.Segments = append(out.Segments,
			Segment{Kind: Guide, Rect: vline(src.Space, nearEdge, r.Overlap.Start-guideOverhang, r.Overlap.End+guideOverhang)},
			Segment{Kind: Guide, Rect: vline(src.Space, farEdge, r.Overlap.Start-guideOverhang, r.Overlap.End+guideOverhang)},
		)
	}

	out.Segments = append(out.Segments, Segment{Kind: Line, Rect: seg})
	out.Labels = append(out.Labels, Label{Text: gapText(r.Gap), Anchor: seg.Center()})
}

// vline builds a 1px-wide vertical segment at x spanning [y0, y1].
func vline(space geom.Space, x, y0, y1 float64) geom.Rect {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return geom.NewRect(space, x-strokeWidth/2, y0, strokeWidth, y1-y0)
}

// hline builds a 1px-tall horizontal segment at y spanning [x0, x1].
func hline(space geom.Space, x0, x1, y float64) geom.Rect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	return geom.NewRect(space, x0, y-strokeWidth/2, x1-x0, strokeWidth)
}
