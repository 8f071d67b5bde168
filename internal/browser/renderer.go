// internal/browser/renderer.go
package browser

import (
	"context"
	"fmt"

	"github.com/xkilldash9x/lens-cli/api/schemas"
)

// Renderer implements schemas.Renderer by shipping draw command batches to
// the page agent. One batch is one agent call, so a clear and the commands
// that follow it land in the same script evaluation and never tear.
type Renderer struct {
	runner scriptRunner
}

var _ schemas.Renderer = (*Renderer)(nil)

// NewRenderer builds a renderer over the given session.
func NewRenderer(s *Session) *Renderer {
	return &Renderer{runner: s}
}

// Apply ships one draw command batch to the page.
func (r *Renderer) Apply(ctx context.Context, commands []schemas.DrawCommand) error {
	if len(commands) == 0 {
		return nil
	}
	payload, err := json.Marshal(commands)
	if err != nil {
		return fmt.Errorf("failed to marshal draw commands: %w", err)
	}
	expr := fmt.Sprintf("window.__lensAgent.apply(%s)", payload)
	if err := r.runner.eval(ctx, expr, nil); err != nil {
		return fmt.Errorf("failed to apply draw commands: %w", err)
	}
	return nil
}
