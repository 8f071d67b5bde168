// internal/overlay/relation/relation.go
package relation

import "github.com/xkilldash9x/lens-cli/internal/overlay/geom"

// Kind discriminates the variants of a spatial relation.
type Kind int

const (
	// Contains: one rectangle lies entirely within the other.
	Contains Kind = iota
	// Adjacent: the rectangles are disjoint on one axis with projected
	// overlap on the other.
	Adjacent
)

// Axis is the axis along which an adjacency gap is measured.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// Side is the position of the source relative to the target for an
// adjacency relation.
type Side int

const (
	Above Side = iota
	Below
	LeftOf
	RightOf
)

func (s Side) String() string {
	switch s {
	case Above:
		return "above"
	case Below:
		return "below"
	case LeftOf:
		return "left-of"
	default:
		return "right-of"
	}
}

// Relation is one classified spatial relationship between a source and a
// target rectangle. Source and Target are always the rectangles as passed
// to Classify.
//
// For Adjacent, Gap is the signed distance between the facing edges and
// Overlap is the shared cross-axis interval used to center the measurement
// line. For Contains, use Outer and Inner to recover which rectangle
// encloses the other.
type Relation struct {
	Kind    Kind
	Source  geom.Rect
	Target  geom.Rect
	Axis    Axis
	Side    Side
	Gap     float64
	Overlap geom.Interval
}

// Outer returns the enclosing rectangle of a Contains relation.
func (r Relation) Outer() geom.Rect {
	if r.Source.Contains(r.Target) {
		return r.Source
	}
	return r.Target
}

// Inner returns the enclosed rectangle of a Contains relation.
func (r Relation) Inner() geom.Rect {
	if r.Source.Contains(r.Target) {
		return r.Target
	}
	return r.Source
}

// Classify determines the spatial relations between two document-space
// rectangles. It returns zero, one, or two relations:
//
//   - a single Contains relation when either rectangle fully encloses the
//     other (flush edges included); containment always wins over adjacency;
//   - up to two Adjacent relations, one per axis, when the rectangles are
//     disjoint on that axis and their projections overlap on the other.
//     Diagonal placement with both axis overlaps legitimately yields both;
//   - nothing for diagonal placement with no axis overlap, for degenerate
//     rectangles, or for mismatched coordinate spaces.
func Classify(source, target geom.Rect) []Relation {
	if source.IsDegenerate() || target.IsDegenerate() {
		return nil
	}
	if source.Space != target.Space {
		return nil
	}

	if target.Contains(source) || source.Contains(target) {
		return []Relation{{Kind: Contains, Source: source, Target: target}}
	}

	isAbove := source.Bottom() < target.Top
	isBelow := source.Top > target.Bottom()
	isLeftOf := source.Right() < target.Left
	isRightOf := source.Left > target.Right()

	overlapX := source.SpanX().Intersect(target.SpanX())
	overlapY := source.SpanY().Intersect(target.SpanY())

	var rels []Relation

	if (isAbove || isBelow) && !overlapX.IsEmpty() {
		r := Relation{Kind: Adjacent, Source: source, Target: target, Axis: Vertical, Overlap: overlapX}
		if isAbove {
			r.Side = Above
			r.Gap = target.Top - source.Bottom()
		} else {
			r.Side = Below
			r.Gap = source.Top - target.Bottom()
		}
		rels = append(rels, r)
	}

	if (isLeftOf || isRightOf) && !overlapY.IsEmpty() {
		r := Relation{Kind: Adjacent, Source: source, Target: target, Axis: Horizontal, Overlap: overlapY}
		if isLeftOf {
			r.Side = LeftOf
			r.Gap = target.Left - source.Right()
		} else {
			r.Side = RightOf
			r.Gap = source.Left - target.Right()
		}
		rels = append(rels, r)
	}

	return rels
}
