// internal/overlay/relation/relation_test.go
package relation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/lens-cli/internal/overlay/geom"
	"github.com/xkilldash9x/lens-cli/internal/overlay/relation"
)

func docRect(left, top, width, height float64) geom.Rect {
	return geom.NewRect(geom.Document, left, top, width, height)
}

func TestClassify_ContainmentTakesPrecedence(t *testing.T) {
	outer := docRect(0, 0, 100, 100)
	inner := docRect(20, 20, 40, 40)

	// Both argument orders must report containment, never adjacency.
	for _, pair := range [][2]geom.Rect{{inner, outer}, {outer, inner}} {
		rels := relation.Classify(pair[0], pair[1])
		require.Len(t, rels, 1)
		assert.Equal(t, relation.Contains, rels[0].Kind)
		assert.Equal(t, outer, rels[0].Outer())
		assert.Equal(t, inner, rels[0].Inner())
	}
}

func TestClassify_FlushEdgesStillContainment(t *testing.T) {
	outer := docRect(0, 0, 100, 100)
	// Inner shares the outer's left and top edges: zero-gap containment.
	inner := docRect(0, 0, 100, 50)

	rels := relation.Classify(inner, outer)
	require.Len(t, rels, 1)
	assert.Equal(t, relation.Contains, rels[0].Kind)
}

func TestClassify_VerticalAdjacency(t *testing.T) {
	// Source sits fully above the target with complete X overlap.
	source := docRect(0, 0, 100, 20)
	target := docRect(0, 40, 100, 20)

	rels := relation.Classify(source, target)
	require.Len(t, rels, 1)

	r := rels[0]
	assert.Equal(t, relation.Adjacent, r.Kind)
	assert.Equal(t, relation.Vertical, r.Axis)
	assert.Equal(t, relation.Above, r.Side)
	// Gap is the distance between the facing edges: 40 - 20 = 20.
	assert.Equal(t, 20.0, r.Gap)
	// The anchor midpoint is the center of the overlapping X interval.
	assert.Equal(t, 50.0, r.Overlap.Mid())
}

func TestClassify_AdjacencySymmetry(t *testing.T) {
	a := docRect(0, 0, 100, 20)
	b := docRect(10, 50, 100, 20)

	forward := relation.Classify(a, b)
	reverse := relation.Classify(b, a)
	require.Len(t, forward, 1)
	require.Len(t, reverse, 1)

	assert.Equal(t, relation.Above, forward[0].Side)
	assert.Equal(t, relation.Below, reverse[0].Side)
	// Same gap magnitude either way.
	assert.Equal(t, forward[0].Gap, reverse[0].Gap)
	assert.Equal(t, forward[0].Overlap, reverse[0].Overlap)
}

func TestClassify_HorizontalAdjacency(t *testing.T) {
	source := docRect(0, 0, 30, 100)
	target := docRect(50, 20, 30, 100)

	rels := relation.Classify(source, target)
	require.Len(t, rels, 1)

	r := rels[0]
	assert.Equal(t, relation.Horizontal, r.Axis)
	assert.Equal(t, relation.LeftOf, r.Side)
	assert.Equal(t, 20.0, r.Gap)
	// Overlapping Y interval is [20, 100].
	assert.Equal(t, geom.Interval{Start: 20, End: 100}, r.Overlap)
}

func TestClassify_ReturnsSetNotSingleValue(t *testing.T) {
	// The classifier's contract is a set of relations. A wide bar above a
	// tall bar yields exactly the vertical member; the result is a slice a
	// caller ranges over, never a single scalar.
	src := docRect(0, 0, 200, 20)
	tgt := docRect(50, 50, 20, 200)

	rels := relation.Classify(src, tgt)
	require.Len(t, rels, 1)
	assert.Equal(t, relation.Vertical, rels[0].Axis)
	assert.Equal(t, 30.0, rels[0].Gap)
	// Overlap interval is the tall bar's X span, clipped by the wide one.
	assert.Equal(t, geom.Interval{Start: 50, End: 70}, rels[0].Overlap)
}

func TestClassify_NoRelationForDiagonalWithoutOverlap(t *testing.T) {
	a := docRect(0, 0, 10, 10)
	b := docRect(50, 50, 10, 10)

	assert.Empty(t, relation.Classify(a, b))
	assert.Empty(t, relation.Classify(b, a))
}

func TestClassify_DegenerateRectsExcluded(t *testing.T) {
	ok := docRect(0, 0, 10, 10)
	flat := docRect(0, 40, 10, 0)

	assert.Empty(t, relation.Classify(ok, flat))
	assert.Empty(t, relation.Classify(flat, ok))
}

func TestClassify_SpaceMismatchIsNoRelation(t *testing.T) {
	doc := docRect(0, 0, 10, 10)
	vp := geom.NewRect(geom.Viewport, 0, 40, 10, 10)

	assert.Empty(t, relation.Classify(doc, vp))
}
