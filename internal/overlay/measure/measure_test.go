// internal/overlay/measure/measure_test.go
package measure_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/lens-cli/api/schemas"
	"github.com/xkilldash9x/lens-cli/internal/overlay/geom"
	"github.com/xkilldash9x/lens-cli/internal/overlay/measure"
	"github.com/xkilldash9x/lens-cli/internal/overlay/relation"
)

func docRect(left, top, width, height float64) geom.Rect {
	return geom.NewRect(geom.Document, left, top, width, height)
}

func countKind(segs []measure.Segment, kind measure.SegmentKind) int {
	n := 0
	for _, s := range segs {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func TestRender_Containment(t *testing.T) {
	outer := docRect(0, 0, 100, 100)
	inner := docRect(20, 30, 40, 40)

	set := measure.Render(relation.Classify(inner, outer))

	// One solid segment and one label per edge.
	require.Len(t, set.Segments, 4)
	require.Len(t, set.Labels, 4)
	assert.Equal(t, 4, countKind(set.Segments, measure.Line))

	// Gaps: top 30, bottom 30, left 20, right 40, all rounded integers.
	texts := make([]string, 0, 4)
	for _, l := range set.Labels {
		texts = append(texts, l.Text)
	}
	assert.ElementsMatch(t, []string{"30px", "30px", "20px", "40px"}, texts)

	// Each label sits at the midpoint of its segment.
	for i, l := range set.Labels {
		assert.Equal(t, set.Segments[i].Rect.Center(), l.Anchor)
	}
}

func TestRender_VerticalAdjacency(t *testing.T) {
	// Source above target, full X overlap: the worked example from the
	// engine's contract. Gap 20, anchor x=50, anchor y=30.
	source := docRect(0, 0, 100, 20)
	target := docRect(0, 40, 100, 20)

	set := measure.Render(relation.Classify(source, target))

	require.Len(t, set.Labels, 1)
	assert.Equal(t, "20px", set.Labels[0].Text)
	assert.InDelta(t, 50.0, set.Labels[0].Anchor.X, 0.6)
	assert.InDelta(t, 30.0, set.Labels[0].Anchor.Y, 0.6)

	// One solid connector plus two dashed guides flush with the facing
	// edges.
	assert.Equal(t, 1, countKind(set.Segments, measure.Line))
	assert.Equal(t, 2, countKind(set.Segments, measure.Guide))

	// The connector spans exactly the gap between the facing edges.
	var line measure.Segment
	for _, s := range set.Segments {
		if s.Kind == measure.Line {
			line = s
		}
	}
	assert.InDelta(t, 20.0, line.Rect.Top, 0.01)
	assert.InDelta(t, 40.0, line.Rect.Bottom(), 0.01)
}

func TestRender_HorizontalAdjacencyGuidesSpanOverlap(t *testing.T) {
	source := docRect(0, 10, 30, 80)
	target := docRect(50, 40, 30, 100)

	set := measure.Render(relation.Classify(source, target))
	require.Equal(t, 2, countKind(set.Segments, measure.Guide))

	// Guides are vertical stubs at the facing edges (x=30 and x=50),
	// covering the Y overlap [40, 90] with a small overhang.
	for _, s := range set.Segments {
		if s.Kind != measure.Guide {
			continue
		}
		assert.Less(t, s.Rect.Width, s.Rect.Height, "guides run along the cross axis")
		assert.LessOrEqual(t, s.Rect.Top, 40.0)
		assert.GreaterOrEqual(t, s.Rect.Bottom(), 90.0)
	}
}

func TestRender_ZeroGapStillRendered(t *testing.T) {
	// Flush adjacency is not containment and not suppressed: the renderer
	// reports the zero gap as-is.
	source := docRect(0, 0, 100, 20)
	target := docRect(0, 20, 100, 20)

	rels := relation.Classify(source, target)
	// bottom(20) < top(20) is false, so strict adjacency does not hold for
	// touching rects; emulate the relation directly to pin the renderer's
	// zero-gap behavior.
	if len(rels) == 0 {
		rels = []relation.Relation{{
			Kind:    relation.Adjacent,
			Source:  source,
			Target:  target,
			Axis:    relation.Vertical,
			Side:    relation.Above,
			Gap:     0,
			Overlap: geom.Interval{Start: 0, End: 100},
		}}
	}

	set := measure.Render(rels)
	require.Len(t, set.Labels, 1)
	assert.Equal(t, "0px", set.Labels[0].Text)
}

func TestRender_EmptyRelationSet(t *testing.T) {
	set := measure.Render(nil)
	assert.True(t, set.IsEmpty())
}

func TestRender_Deterministic(t *testing.T) {
	rels := relation.Classify(docRect(0, 0, 50, 50), docRect(0, 80, 50, 50))
	a := measure.Render(rels)
	b := measure.Render(rels)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("render not deterministic (-first +second):\n%s", diff)
	}
}

func TestPairCache(t *testing.T) {
	var c measure.PairCache

	// First observation always reports a change.
	assert.True(t, c.Changed(schemas.NodeID(1), schemas.NodeID(2)))
	// The identical pair is a cache hit: no re-render.
	assert.False(t, c.Changed(schemas.NodeID(1), schemas.NodeID(2)))
	// Any component changing invalidates.
	assert.True(t, c.Changed(schemas.NodeID(1), schemas.NodeID(3)))
	assert.True(t, c.Changed(schemas.NodeID(4), schemas.NodeID(3)))

	c.Reset()
	assert.True(t, c.Changed(schemas.NodeID(4), schemas.NodeID(3)))
}
