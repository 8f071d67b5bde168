// internal/browser/walker.go
package browser

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/lens-cli/api/schemas"
)

// Walker implements schemas.TreeWalker by querying the injected page agent.
type Walker struct {
	runner scriptRunner
	// maxVisible bounds one batch enumeration pass.
	maxVisible int
}

var _ schemas.TreeWalker = (*Walker)(nil)

// NewWalker builds a walker over the given session.
func NewWalker(s *Session, maxVisible int) *Walker {
	return &Walker{runner: s, maxVisible: maxVisible}
}

func (w *Walker) BoundingRect(ctx context.Context, node schemas.NodeID) (schemas.ElementInfo, bool, error) {
	var info *schemas.ElementInfo
	expr := fmt.Sprintf("window.__lensAgent.rect(%d)", node)
	if err := w.runner.eval(ctx, expr, &info); err != nil {
		return schemas.ElementInfo{}, false, fmt.Errorf("rect query failed: %w", err)
	}
	if info == nil {
		// The element has left the tree.
		return schemas.ElementInfo{}, false, nil
	}
	return *info, true, nil
}

func (w *Walker) ScrollOffset(ctx context.Context) (schemas.ScrollOffset, error) {
	var offset schemas.ScrollOffset
	if err := w.runner.eval(ctx, "window.__lensAgent.scroll()", &offset); err != nil {
		return schemas.ScrollOffset{}, fmt.Errorf("scroll query failed: %w", err)
	}
	return offset, nil
}

func (w *Walker) Viewport(ctx context.Context) (schemas.ViewportSize, error) {
	var size schemas.ViewportSize
	if err := w.runner.eval(ctx, "window.__lensAgent.viewport()", &size); err != nil {
		return schemas.ViewportSize{}, fmt.Errorf("viewport query failed: %w", err)
	}
	return size, nil
}

func (w *Walker) ElementAtPoint(ctx context.Context, x, y float64) (schemas.NodeID, error) {
	var node schemas.NodeID
	expr := fmt.Sprintf("window.__lensAgent.hitTest(%g, %g)", x, y)
	if err := w.runner.eval(ctx, expr, &node); err != nil {
		return schemas.NodeNone, fmt.Errorf("hit test failed: %w", err)
	}
	return node, nil
}

func (w *Walker) VisibleElements(ctx context.Context) ([]schemas.ElementInfo, error) {
	var elements []schemas.ElementInfo
	expr := fmt.Sprintf("window.__lensAgent.visible(%d)", w.maxVisible)
	if err := w.runner.eval(ctx, expr, &elements); err != nil {
		return nil, fmt.Errorf("visible element query failed: %w", err)
	}
	return elements, nil
}

func (w *Walker) Ancestors(ctx context.Context, node schemas.NodeID, maxDepth int) ([]schemas.ElementInfo, error) {
	var ancestors []schemas.ElementInfo
	expr := fmt.Sprintf("window.__lensAgent.ancestors(%d, %d)", node, maxDepth)
	if err := w.runner.eval(ctx, expr, &ancestors); err != nil {
		return nil, fmt.Errorf("ancestor query failed: %w", err)
	}
	return ancestors, nil
}

// ShallowHTML returns the element's own open and close tags with no
// descendants, for markup level checks like editability.
func (w *Walker) ShallowHTML(ctx context.Context, node schemas.NodeID) (string, error) {
	var markup string
	expr := fmt.Sprintf("window.__lensAgent.shallowHTML(%d)", node)
	if err := w.runner.eval(ctx, expr, &markup); err != nil {
		return "", fmt.Errorf("markup query failed: %w", err)
	}
	return markup, nil
}
