// api/schemas/interfaces.go
package schemas

import "context"

// StyleResolver resolves style values for elements in the inspected page.
// A missing or unresolvable value is reported as ("", nil), never an error;
// errors are reserved for transport failures.
type StyleResolver interface {
	// Resolve returns the computed value of a CSS property, or "" when the
	// property has no computed value for the element.
	Resolve(ctx context.Context, node NodeID, property string) (string, error)
	// Authored returns the value as written in the matching source rule,
	// distinct from the computed value, or "" when none exists.
	Authored(ctx context.Context, node NodeID, property string) (string, error)
}

// TreeWalker queries the inspected page's render tree. All rectangles it
// returns are viewport-space; callers convert to document space before any
// geometry work.
type TreeWalker interface {
	// BoundingRect returns the element's border-box in viewport
	// coordinates. ok is false when the element has left the tree.
	BoundingRect(ctx context.Context, node NodeID) (ElementInfo, bool, error)
	// ScrollOffset returns the page's current scroll displacement.
	ScrollOffset(ctx context.Context) (ScrollOffset, error)
	// Viewport returns the visible window size.
	Viewport(ctx context.Context) (ViewportSize, error)
	// ElementAtPoint hit-tests a viewport coordinate. NodeNone means no
	// element (or only overlay-owned elements) at that point.
	ElementAtPoint(ctx context.Context, x, y float64) (NodeID, error)
	// VisibleElements enumerates elements for batch skim layout,
	// excluding overlay-owned nodes.
	VisibleElements(ctx context.Context) ([]ElementInfo, error)
	// Ancestors returns up to maxDepth ancestors of node, nearest first.
	Ancestors(ctx context.Context, node NodeID, maxDepth int) ([]ElementInfo, error)
}

// Renderer accepts draw commands for the overlay surfaces. Implementations
// must apply a batch atomically enough that a cleared layer never shows
// stale artifacts alongside new ones.
type Renderer interface {
	Apply(ctx context.Context, commands []DrawCommand) error
}
