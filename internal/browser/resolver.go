// internal/browser/resolver.go
package browser

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xkilldash9x/lens-cli/api/schemas"
)

// Resolver implements schemas.StyleResolver through the page agent.
type Resolver struct {
	runner scriptRunner
}

var _ schemas.StyleResolver = (*Resolver)(nil)

// NewResolver builds a style resolver over the given session.
func NewResolver(s *Session) *Resolver {
	return &Resolver{runner: s}
}

// Resolve returns the computed value of a CSS property, or "" when the
// element is gone or the property resolves to nothing.
func (r *Resolver) Resolve(ctx context.Context, node schemas.NodeID, property string) (string, error) {
	return r.query(ctx, "computed", node, property)
}

// Authored returns the value written in the element's inline style, or ""
// when none exists.
func (r *Resolver) Authored(ctx context.Context, node schemas.NodeID, property string) (string, error) {
	return r.query(ctx, "authored", node, property)
}

func (r *Resolver) query(ctx context.Context, fn string, node schemas.NodeID, property string) (string, error) {
	var value string
	expr := fmt.Sprintf("window.__lensAgent.%s(%d, %s)", fn, node, strconv.Quote(property))
	if err := r.runner.eval(ctx, expr, &value); err != nil {
		return "", fmt.Errorf("style query %s(%q) failed: %w", fn, property, err)
	}
	return value, nil
}
