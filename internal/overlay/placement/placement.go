// internal/overlay/placement/placement.go
package placement

import (
	"math"

	"github.com/xkilldash9x/lens-cli/internal/overlay/geom"
)

// Side names the edge of the target the panel is attached to.
type Side int

const (
	SideNone Side = iota
	SideRight
	SideLeft
	SideBottom
	SideTop
)

func (s Side) String() string {
	switch s {
	case SideRight:
		return "right"
	case SideLeft:
		return "left"
	case SideBottom:
		return "bottom"
	case SideTop:
		return "top"
	default:
		return "none"
	}
}

// candidateOrder is the fixed priority used when no remembered side fits.
var candidateOrder = [4]Side{SideRight, SideLeft, SideBottom, SideTop}

// Candidate is a concrete panel position attached to one side of the
// target.
type Candidate struct {
	Side Side
	Left float64
	Top  float64
}

// Memory carries the last chosen side across placements. Consulting it
// first keeps the panel on the same side of the target under small pointer
// jitter instead of hopping between sides.
type Memory struct {
	LastSide Side
}

// Reset forgets the remembered side. Called on selection change, mode
// switch, and deactivation.
func (m *Memory) Reset() {
	m.LastSide = SideNone
}

// Plan chooses where to put a panel of the given size relative to a target
// rectangle. target and viewport must share a coordinate space; the result
// is in that same space.
//
// Decision order: the remembered side if it still fully fits, then the
// first fully-fitting candidate in right/left/bottom/top priority, then the
// least-bad overflow (the candidate maximizing its minimum slack to the
// viewport edges). The chosen position is finally clamped to keep the whole
// panel inside the viewport with the given margin, even if that
// reintroduces overlap with the target. Memory is updated with the side of
// the position actually used, classified after clamping.
func Plan(target geom.Rect, panel geom.Size, viewport geom.Rect, gap, margin float64, mem *Memory) Candidate {
	candidates := buildCandidates(target, panel, gap)

	chosen := Candidate{Side: SideNone}

	if mem != nil && mem.LastSide != SideNone {
		prev := candidates[mem.LastSide]
		if fits(prev, panel, viewport) {
			chosen = prev
		}
	}

	if chosen.Side == SideNone {
		for _, side := range candidateOrder {
			if fits(candidates[side], panel, viewport) {
				chosen = candidates[side]
				break
			}
		}
	}

	if chosen.Side == SideNone {
		// Nothing fits. Degrade deterministically: keep the candidate
		// whose worst viewport-edge slack is best. Slack may be negative;
		// it is only a score here.
		best := math.Inf(-1)
		for _, side := range candidateOrder {
			c := candidates[side]
			if s := minSlack(c, panel, viewport); s > best {
				best = s
				chosen = c
			}
		}
	}

	chosen = clamp(chosen, panel, viewport, margin)
	chosen.Side = classifySide(chosen, target, panel)

	if mem != nil {
		mem.LastSide = chosen.Side
	}
	return chosen
}

// buildCandidates computes the four attachment positions.
func buildCandidates(target geom.Rect, panel geom.Size, gap float64) map[Side]Candidate {
	return map[Side]Candidate{
		SideRight:  {Side: SideRight, Left: target.Right() + gap, Top: target.Top},
		SideLeft:   {Side: SideLeft, Left: target.Left - panel.Width - gap, Top: target.Top},
		SideBottom: {Side: SideBottom, Left: target.Left, Top: target.Bottom() + gap},
		SideTop:    {Side: SideTop, Left: target.Left, Top: target.Top - panel.Height - gap},
	}
}

// fits reports whether the panel at c lies entirely within the viewport.
func fits(c Candidate, panel geom.Size, viewport geom.Rect) bool {
	return c.Left >= viewport.Left &&
		c.Top >= viewport.Top &&
		c.Left+panel.Width <= viewport.Right() &&
		c.Top+panel.Height <= viewport.Bottom()
}

// minSlack returns the smallest distance from the panel to any viewport
// edge. Negative when the panel overflows that edge.
func minSlack(c Candidate, panel geom.Size, viewport geom.Rect) float64 {
	slacks := [4]float64{
		c.Left - viewport.Left,
		c.Top - viewport.Top,
		viewport.Right() - (c.Left + panel.Width),
		viewport.Bottom() - (c.Top + panel.Height),
	}
	min := slacks[0]
	for _, s := range slacks[1:] {
		if s < min {
			min = s
		}
	}
	return min
}

// clamp translates the candidate so the panel stays inside the viewport
// with the given margin on every edge. When the panel plus margins exceeds
// the viewport, the top-left edges win.
func clamp(c Candidate, panel geom.Size, viewport geom.Rect, margin float64) Candidate {
	maxLeft := viewport.Right() - panel.Width - margin
	maxTop := viewport.Bottom() - panel.Height - margin

	c.Left = math.Min(c.Left, maxLeft)
	c.Top = math.Min(c.Top, maxTop)
	c.Left = math.Max(c.Left, viewport.Left+margin)
	c.Top = math.Max(c.Top, viewport.Top+margin)
	return c
}

// classifySide re-derives the side from the final position, so stickiness
// follows where the panel actually ended up rather than where it was aimed.
func classifySide(c Candidate, target geom.Rect, panel geom.Size) Side {
	switch {
	case c.Left >= target.Right():
		return SideRight
	case c.Left+panel.Width <= target.Left:
		return SideLeft
	case c.Top >= target.Bottom():
		return SideBottom
	case c.Top+panel.Height <= target.Top:
		return SideTop
	default:
		// Clamping pushed the panel over the target; keep the aimed side.
		return c.Side
	}
}
