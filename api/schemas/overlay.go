// api/schemas/overlay.go
package schemas

// NodeID identifies a single element in the inspected page. It is opaque to
// the overlay engine; the Render-Tree Walker defines what it maps to (for
// the CDP walker it is an id interned by the injected page agent).
type NodeID int64

// NodeNone is the zero NodeID, meaning "no element".
const NodeNone NodeID = 0

// Layer names one of the independently clearable overlay surfaces.
type Layer string

const (
	LayerHighlight Layer = "highlight"
	LayerMeasure   Layer = "measure"
	LayerTooltip   Layer = "tooltip"
	LayerSkim      Layer = "skim"
)

// DrawOp is the kind of a single draw command.
type DrawOp string

const (
	OpRect  DrawOp = "rect"
	OpLine  DrawOp = "line"
	OpLabel DrawOp = "label"
	OpClear DrawOp = "clear"
)

// DrawCommand is one instruction for the Renderer. Geometry is always
// document-space; the renderer owns any viewport translation it needs.
type DrawCommand struct {
	Op    DrawOp `json:"op"`
	Layer Layer  `json:"layer"`

	// Rect/line geometry. Unused for OpClear.
	Left   float64 `json:"left,omitempty"`
	Top    float64 `json:"top,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Label payload.
	Text string `json:"text,omitempty"`
	// Swatch is a CSS color rendered as a small indicator next to the
	// label text. Empty means no swatch.
	Swatch string `json:"swatch,omitempty"`

	// Dashed marks guide lines.
	Dashed bool `json:"dashed,omitempty"`
}

// PointerEvent is a pointer position report from the page, in viewport
// coordinates.
type PointerEvent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScrollOffset is the page's current scroll displacement.
type ScrollOffset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ViewportSize is the visible window size in CSS pixels.
type ViewportSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ElementInfo is the walker's description of one element, as consumed by
// the skim layout engine and the highlight synchronizer.
type ElementInfo struct {
	Node NodeID `json:"node"`
	// Tag is the lowercased element tag name.
	Tag string `json:"tag"`
	// Viewport-space bounding box.
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	// Hidden reports display:none / visibility:hidden.
	Hidden bool `json:"hidden"`
	// HasText reports direct (non-descendant) text content.
	HasText bool `json:"hasText"`
	// OverlayOwned marks nodes belonging to the inspector's own overlay.
	OverlayOwned bool `json:"overlayOwned"`
}
