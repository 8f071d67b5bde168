// internal/overlay/engine.go

// Package overlay implements the spatial overlay engine: the geometry and
// state logic deciding what the inspector draws and where. The engine holds
// no connection to the page; callers feed it resolved geometry and apply
// the draw commands it returns through a Renderer.
package overlay

import (
	"go.uber.org/zap"

	"github.com/xkilldash9x/lens-cli/api/schemas"
	"github.com/xkilldash9x/lens-cli/internal/overlay/geom"
	"github.com/xkilldash9x/lens-cli/internal/overlay/measure"
	"github.com/xkilldash9x/lens-cli/internal/overlay/placement"
	"github.com/xkilldash9x/lens-cli/internal/overlay/skim"
)

// Mode is the engine's interaction mode. Exactly one is active.
type Mode int

const (
	// ModeInspect: hover highlights an element and shows its tooltip;
	// pinning arms measurements against a second hovered element.
	ModeInspect Mode = iota
	// ModeEdit: overlays are hidden; pointer events route to the
	// editability predicate.
	ModeEdit
	// ModeSkim: batch property labels over all visible elements.
	ModeSkim
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeSkim:
		return "skim"
	default:
		return "inspect"
	}
}

// ParseMode maps a mode name to its value.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "inspect":
		return ModeInspect, true
	case "edit":
		return ModeEdit, true
	case "skim":
		return ModeSkim, true
	default:
		return ModeInspect, false
	}
}

// Params are the fixed layout constants of the engine.
type Params struct {
	// TooltipGap separates the panel from the target rectangle.
	TooltipGap float64
	// ClampMargin keeps the clamped panel away from the viewport edges.
	ClampMargin float64
	// PanelSize is the tooltip panel's footprint.
	PanelSize geom.Size
}

// DefaultParams mirror the values the in-page panel is styled with.
func DefaultParams() Params {
	return Params{
		TooltipGap:  16,
		ClampMargin: 16,
		PanelSize:   geom.Size{Width: 280, Height: 200},
	}
}

// Selection tracks the current and pinned element.
type Selection struct {
	Current schemas.NodeID
	Pinned  schemas.NodeID
}

// IsPinned reports whether a pin is active.
func (s Selection) IsPinned() bool { return s.Pinned != schemas.NodeNone }

// Engine owns all overlay state: mode, selection, the placement memory,
// the measurement pair cache, and the skim property set. One instance is
// constructed per activation and discarded on deactivation; nothing here is
// process-global.
//
// The engine is not safe for concurrent use. The inspector drives it from
// a single event loop; see the scheduler for the coalescing discipline.
type Engine struct {
	log    *zap.Logger
	params Params

	active    bool
	mode      Mode
	selection Selection

	placeMem  placement.Memory
	pairCache measure.PairCache
	skimCfg   skim.Config
}

// NewEngine builds an inactive engine with the given layout constants.
func NewEngine(params Params, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		log:    log.With(zap.String("component", "overlay_engine")),
		params: params,
	}
}

// Mode returns the active mode.
func (e *Engine) Mode() Mode { return e.mode }

// Selection returns the current selection state.
func (e *Engine) Selection() Selection { return e.selection }

// Active reports whether the engine is between Activate and Deactivate.
func (e *Engine) Active() bool { return e.active }

// SkimProperties returns the IDs of the selected skim descriptors.
func (e *Engine) SkimProperties() []string {
	sel := e.skimCfg.Selected()
	ids := make([]string, len(sel))
	for i, d := range sel {
		ids[i] = d.ID
	}
	return ids
}

// Activate readies the engine in inspect mode. The returned commands clear
// every overlay layer so activation always starts from a blank slate.
func (e *Engine) Activate() []schemas.DrawCommand {
	e.active = true
	e.mode = ModeInspect
	e.selection = Selection{}
	e.resetCaches()
	e.skimCfg.Clear()
	return clearAll()
}

// Deactivate tears the overlay down and forgets all state.
func (e *Engine) Deactivate() []schemas.DrawCommand {
	e.active = false
	e.selection = Selection{}
	e.resetCaches()
	e.skimCfg.Clear()
	return clearAll()
}

// SetMode switches the interaction mode. Transitions are total: any mode
// may move to any other, and every transition clears all visible artifacts
// before the new mode takes over. Entering skim un-pins and default-selects
// a property when none is picked.
func (e *Engine) SetMode(next Mode) []schemas.DrawCommand {
	prev := e.mode
	e.mode = next
	e.resetCaches()

	if next == ModeSkim {
		// Pinning is mutually exclusive with skim.
		e.selection.Pinned = schemas.NodeNone
		if e.skimCfg.IsEmpty() {
			if d, ok := skim.LookupDescriptor(skim.DefaultDescriptorID); ok {
				e.skimCfg.Add(d)
			}
		}
	}

	e.log.Debug("mode switched",
		zap.String("from", prev.String()),
		zap.String("to", next.String()),
	)
	return clearAll()
}

// SetSkimProperties replaces the skim selection with the given descriptor
// IDs, honoring the capacity bound. Unknown IDs are skipped; IDs beyond the
// cap are rejected. It returns the IDs actually selected.
func (e *Engine) SetSkimProperties(ids []string) []string {
	e.skimCfg.Clear()
	for _, id := range ids {
		d, ok := skim.LookupDescriptor(id)
		if !ok {
			e.log.Warn("unknown skim property", zap.String("id", id))
			continue
		}
		if !e.skimCfg.Add(d) {
			e.log.Warn("skim property rejected, capacity reached", zap.String("id", id))
		}
	}
	return e.SkimProperties()
}

// AddSkimProperty selects one more descriptor, reporting whether it was
// accepted. A 4th concurrent property is always rejected.
func (e *Engine) AddSkimProperty(id string) bool {
	d, ok := skim.LookupDescriptor(id)
	if !ok {
		return false
	}
	return e.skimCfg.Add(d)
}

// Select makes node the current selection, clearing any pin. Caches reset
// so the next placement and measurement start fresh.
func (e *Engine) Select(node schemas.NodeID) {
	e.selection = Selection{Current: node}
	e.resetCaches()
}

// Pin pins the node, arming measurement mode. Pinning is ignored in skim
// mode.
func (e *Engine) Pin(node schemas.NodeID) {
	if e.mode == ModeSkim {
		return
	}
	e.selection.Current = node
	e.selection.Pinned = node
	e.resetCaches()
}

// Unpin releases the pin and its measurement artifacts.
func (e *Engine) Unpin() []schemas.DrawCommand {
	e.selection.Pinned = schemas.NodeNone
	e.pairCache.Reset()
	return []schemas.DrawCommand{clearLayer(schemas.LayerMeasure)}
}

// resetCaches forgets placement stickiness and the measurement pair.
func (e *Engine) resetCaches() {
	e.placeMem.Reset()
	e.pairCache.Reset()
}

func clearLayer(layer schemas.Layer) schemas.DrawCommand {
	return schemas.DrawCommand{Op: schemas.OpClear, Layer: layer}
}

func clearAll() []schemas.DrawCommand {
	return []schemas.DrawCommand{
		clearLayer(schemas.LayerTooltip),
		clearLayer(schemas.LayerHighlight),
		clearLayer(schemas.LayerMeasure),
		clearLayer(schemas.LayerSkim),
	}
}
