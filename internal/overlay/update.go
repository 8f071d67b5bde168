// internal/overlay/update.go
package overlay

import (
	"fmt"
	"math"

	"github.com/xkilldash9x/lens-cli/api/schemas"
	"github.com/xkilldash9x/lens-cli/internal/overlay/geom"
	"github.com/xkilldash9x/lens-cli/internal/overlay/measure"
	"github.com/xkilldash9x/lens-cli/internal/overlay/placement"
	"github.com/xkilldash9x/lens-cli/internal/overlay/relation"
	"github.com/xkilldash9x/lens-cli/internal/overlay/skim"
)

// Vertical offset of the highlight caption above the element's top edge.
const highlightLabelLift = 18.0

// TooltipRow is one resolved display row of the tooltip panel. The
// inspector composes rows from the style resolver; absent values simply
// never become rows.
type TooltipRow struct {
	Label  string
	Value  string
	Swatch string
}

// Frame is one resolved snapshot of everything an inspect-mode update
// needs. The inspector gathers it from the collaborators; the engine does
// pure geometry on it.
type Frame struct {
	// Target is the element under the pointer (or the pinned element when
	// a pin is active). TargetOK is false when the element has vanished
	// from the tree.
	Target   schemas.ElementInfo
	TargetOK bool

	// Hover is the second element hovered while a pin is active.
	Hover   schemas.ElementInfo
	HoverOK bool

	// Rows is the tooltip panel content.
	Rows []TooltipRow

	Viewport schemas.ViewportSize
	Scroll   schemas.ScrollOffset
}

// Update recomputes the inspect-mode overlay for one frame: highlight,
// tooltip placement, and (when pinned) the measurement between the pinned
// element and the hovered one. It returns the draw commands to apply; an
// empty result means nothing changed.
//
// All failure modes degrade to clearing the affected layers; Update never
// reports an error.
func (e *Engine) Update(frame Frame) []schemas.DrawCommand {
	if !e.active || e.mode != ModeInspect {
		return nil
	}

	scroll := geom.Offset{X: frame.Scroll.X, Y: frame.Scroll.Y}
	targetVP := elementRect(frame.Target)

	// A vanished or degenerate target falls back to "no selection" rather
	// than drawing stale geometry.
	if !frame.TargetOK || targetVP.IsDegenerate() {
		e.selection = Selection{}
		e.resetCaches()
		return clearAll()
	}

	e.selection.Current = frame.Target.Node

	var cmds []schemas.DrawCommand
	cmds = append(cmds, e.highlightCommands(frame.Target, scroll)...)
	cmds = append(cmds, e.tooltipCommands(targetVP, frame, scroll)...)
	cmds = append(cmds, e.measureCommands(frame, scroll)...)
	return cmds
}

// highlightCommands keeps the highlight rectangle and its caption in sync
// with the target.
func (e *Engine) highlightCommands(target schemas.ElementInfo, scroll geom.Offset) []schemas.DrawCommand {
	doc := elementRect(target).ToDocument(scroll)

	caption := fmt.Sprintf("%s %d×%d",
		target.Tag,
		int(math.Round(doc.Width)),
		int(math.Round(doc.Height)),
	)

	return []schemas.DrawCommand{
		clearLayer(schemas.LayerHighlight),
		{
			Op:    schemas.OpRect,
			Layer: schemas.LayerHighlight,
			Left:  doc.Left, Top: doc.Top, Width: doc.Width, Height: doc.Height,
		},
		{
			Op:    schemas.OpLabel,
			Layer: schemas.LayerHighlight,
			Left:  doc.Left, Top: doc.Top - highlightLabelLift,
			Text: caption,
		},
	}
}

// tooltipCommands plans the panel position in viewport space and emits the
// panel plus its rows in document space.
func (e *Engine) tooltipCommands(targetVP geom.Rect, frame Frame, scroll geom.Offset) []schemas.DrawCommand {
	viewport := geom.NewRect(geom.Viewport, 0, 0, frame.Viewport.Width, frame.Viewport.Height)

	candidate := placement.Plan(
		targetVP,
		e.params.PanelSize,
		viewport,
		e.params.TooltipGap,
		e.params.ClampMargin,
		&e.placeMem,
	)

	panelVP := geom.NewRect(geom.Viewport, candidate.Left, candidate.Top,
		e.params.PanelSize.Width, e.params.PanelSize.Height)
	panel := panelVP.ToDocument(scroll)

	cmds := []schemas.DrawCommand{
		clearLayer(schemas.LayerTooltip),
		{
			Op:    schemas.OpRect,
			Layer: schemas.LayerTooltip,
			Left:  panel.Left, Top: panel.Top, Width: panel.Width, Height: panel.Height,
		},
	}

	// Rows stack inside the panel; the renderer owns fonts and padding,
	// the engine owns order and position.
	const rowHeight = 22.0
	const rowInset = 12.0
	for i, row := range frame.Rows {
		cmds = append(cmds, schemas.DrawCommand{
			Op:     schemas.OpLabel,
			Layer:  schemas.LayerTooltip,
			Left:   panel.Left + rowInset,
			Top:    panel.Top + rowInset + float64(i)*rowHeight,
			Text:   row.Label + ": " + row.Value,
			Swatch: row.Swatch,
		})
	}
	return cmds
}

// measureCommands renders the measurement between the pinned element and
// the hovered one. The pair cache guarantees at most one render per
// distinct (source, target) pair, so repeated pointer events inside the
// same element never flicker the layer.
func (e *Engine) measureCommands(frame Frame, scroll geom.Offset) []schemas.DrawCommand {
	if !e.selection.IsPinned() || !frame.HoverOK {
		return nil
	}
	if frame.Hover.Node == e.selection.Pinned {
		return nil
	}
	if !e.pairCache.Changed(e.selection.Pinned, frame.Hover.Node) {
		return nil
	}

	source := elementRect(frame.Target).ToDocument(scroll)
	target := elementRect(frame.Hover).ToDocument(scroll)

	set := measure.Render(relation.Classify(source, target))

	cmds := []schemas.DrawCommand{clearLayer(schemas.LayerMeasure)}
	for _, seg := range set.Segments {
		cmds = append(cmds, schemas.DrawCommand{
			Op:     schemas.OpLine,
			Layer:  schemas.LayerMeasure,
			Left:   seg.Rect.Left,
			Top:    seg.Rect.Top,
			Width:  seg.Rect.Width,
			Height: seg.Rect.Height,
			Dashed: seg.Kind == measure.Guide,
		})
	}
	for _, label := range set.Labels {
		cmds = append(cmds, schemas.DrawCommand{
			Op:    schemas.OpLabel,
			Layer: schemas.LayerMeasure,
			Left:  label.Anchor.X,
			Top:   label.Anchor.Y,
			Text:  label.Text,
		})
	}
	return cmds
}

// SkimUpdate recomputes the skim annotation layer over the given visible
// elements. Outside skim mode it is a no-op.
func (e *Engine) SkimUpdate(elements []schemas.ElementInfo, scroll schemas.ScrollOffset, lookup skim.StyleLookup) []schemas.DrawCommand {
	if !e.active || e.mode != ModeSkim {
		return nil
	}

	labels := skim.Layout(elements, geom.Offset{X: scroll.X, Y: scroll.Y}, &e.skimCfg, lookup)

	cmds := []schemas.DrawCommand{clearLayer(schemas.LayerSkim)}
	for _, l := range labels {
		cmds = append(cmds, schemas.DrawCommand{
			Op:     schemas.OpLabel,
			Layer:  schemas.LayerSkim,
			Left:   l.Position.X,
			Top:    l.Position.Y,
			Text:   l.Text,
			Swatch: l.Swatch,
		})
	}
	return cmds
}

// Degrade clears whatever the active mode has on screen. The inspector
// calls it when a frame's inputs could not be resolved, so a failure shows
// nothing instead of stale geometry.
func (e *Engine) Degrade() []schemas.DrawCommand {
	if !e.active {
		return nil
	}
	switch e.mode {
	case ModeInspect:
		e.selection = Selection{}
		e.resetCaches()
		return clearAll()
	case ModeSkim:
		return []schemas.DrawCommand{clearLayer(schemas.LayerSkim)}
	default:
		return nil
	}
}

// elementRect lifts the walker's viewport-space box into a tagged
// rectangle.
func elementRect(el schemas.ElementInfo) geom.Rect {
	return geom.NewRect(geom.Viewport, el.Left, el.Top, el.Width, el.Height)
}
