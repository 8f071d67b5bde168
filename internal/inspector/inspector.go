// File: internal/inspector/inspector.go
// Description: Drives one inspect session. It is injected with the overlay
// engine and the page collaborators via interfaces, making it decoupled and
// testable.

package inspector

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/lens-cli/api/schemas"
	"github.com/xkilldash9x/lens-cli/internal/browser"
	"github.com/xkilldash9x/lens-cli/internal/config"
	"github.com/xkilldash9x/lens-cli/internal/overlay"
	"github.com/xkilldash9x/lens-cli/internal/overlay/skim"
)

// EditChecker reports whether an element (or a near ancestor) accepts text
// edits. The browser walker implements it.
type EditChecker interface {
	IsEditable(ctx context.Context, node schemas.NodeID) (bool, error)
}

// tooltipProperties are the style rows the tooltip always shows.
var tooltipProperties = []string{
	"display", "position", "color", "background-color", "font-size",
}

// pinnedProperties are the extra rows shown in the full presentation while
// an element is pinned.
var pinnedProperties = []string{
	"margin", "padding", "font-family", "border-radius",
}

// colorProperties get a swatch next to their value.
var colorProperties = map[string]bool{
	"color":            true,
	"background-color": true,
}

// Controller runs the inspect session event loop. All engine access happens
// under its mutex; collaborator I/O runs outside it.
type Controller struct {
	cfg      *config.Config
	logger   *zap.Logger
	engine   *overlay.Engine
	walker   schemas.TreeWalker
	resolver schemas.StyleResolver
	renderer schemas.Renderer
	editable EditChecker
	events   <-chan browser.PageEvent

	frames    overlay.Coalescer
	skimFlush *overlay.Throttler

	mu      sync.Mutex
	pointer schemas.PointerEvent
}

// New creates a Controller with its dependencies provided as interfaces.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	engine *overlay.Engine,
	walker schemas.TreeWalker,
	resolver schemas.StyleResolver,
	renderer schemas.Renderer,
	editable EditChecker,
	events <-chan browser.PageEvent,
) (*Controller, error) {
	if cfg == nil || logger == nil || engine == nil ||
		walker == nil || resolver == nil || renderer == nil || events == nil {
		return nil, fmt.Errorf("cannot initialize inspector with nil dependencies")
	}
	return &Controller{
		cfg:      cfg,
		logger:   logger.With(zap.String("component", "inspector")),
		engine:   engine,
		walker:   walker,
		resolver: resolver,
		renderer: renderer,
		editable: editable,
		events:   events,
	}, nil
}

// Run activates the overlay and processes page events until the context is
// cancelled or the event stream closes.
func (c *Controller) Run(ctx context.Context) error {
	c.skimFlush = overlay.NewThrottler(c.cfg.Overlay().SkimThrottle, func() {
		c.frames.Submit(ctx, c.skimRelayout)
	})
	defer c.skimFlush.Cancel()
	defer c.frames.Stop()

	c.mu.Lock()
	cmds := c.engine.Activate()
	if mode, ok := overlay.ParseMode(c.cfg.Inspect().Mode); ok && mode != overlay.ModeInspect {
		cmds = c.engine.SetMode(mode)
	}
	if props := c.cfg.Inspect().SkimProperties; len(props) > 0 {
		c.engine.SetSkimProperties(props)
	}
	c.mu.Unlock()
	if err := c.renderer.Apply(ctx, cmds); err != nil {
		return fmt.Errorf("failed to initialize overlay: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.eventLoop(gctx)
	})
	err := g.Wait()

	// Best effort teardown against the page; the session may already be
	// gone.
	c.mu.Lock()
	teardown := c.engine.Deactivate()
	c.mu.Unlock()
	if applyErr := c.renderer.Apply(context.WithoutCancel(ctx), teardown); applyErr != nil {
		c.logger.Debug("Overlay teardown failed.", zap.Error(applyErr))
	}
	return err
}

// eventLoop is the single consumer of the page event stream.
func (c *Controller) eventLoop(ctx context.Context) error {
	c.logger.Info("Inspector event loop started.")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-c.events:
			if !ok {
				c.logger.Info("Page event stream closed.")
				return nil
			}
			c.handleEvent(ctx, ev)
		}
	}
}

func (c *Controller) handleEvent(ctx context.Context, ev browser.PageEvent) {
	switch ev.Kind {
	case "pointer":
		c.mu.Lock()
		c.pointer = schemas.PointerEvent{X: ev.X, Y: ev.Y}
		mode := c.engine.Mode()
		c.mu.Unlock()
		if mode == overlay.ModeInspect {
			c.frames.Submit(ctx, c.inspectFrame)
		}
	case "click":
		c.handleClick(ctx, ev)
	case "key":
		c.handleKey(ctx, ev.Key)
	case "scroll", "resize":
		c.mu.Lock()
		mode := c.engine.Mode()
		c.mu.Unlock()
		switch mode {
		case overlay.ModeInspect:
			c.frames.Submit(ctx, c.inspectFrame)
		case overlay.ModeSkim:
			c.skimFlush.Trigger()
		}
	default:
		c.logger.Debug("Ignoring unknown page event.", zap.String("kind", ev.Kind))
	}
}

// handleClick toggles the pin in inspect mode and probes editability in
// edit mode.
func (c *Controller) handleClick(ctx context.Context, ev browser.PageEvent) {
	c.mu.Lock()
	mode := c.engine.Mode()
	c.mu.Unlock()

	switch mode {
	case overlay.ModeInspect:
		node, err := c.walker.ElementAtPoint(ctx, ev.X, ev.Y)
		if err != nil {
			c.logger.Warn("Hit test failed on click.", zap.Error(err))
			return
		}
		if node == schemas.NodeNone {
			return
		}
		c.mu.Lock()
		sel := c.engine.Selection()
		var cmds []schemas.DrawCommand
		if sel.IsPinned() && sel.Pinned == node {
			cmds = c.engine.Unpin()
		} else {
			c.engine.Pin(node)
		}
		c.mu.Unlock()
		c.apply(ctx, cmds)
		c.frames.Submit(ctx, c.inspectFrame)

	case overlay.ModeEdit:
		if c.editable == nil {
			return
		}
		node, err := c.walker.ElementAtPoint(ctx, ev.X, ev.Y)
		if err != nil || node == schemas.NodeNone {
			return
		}
		editable, err := c.editable.IsEditable(ctx, node)
		if err != nil {
			c.logger.Warn("Editability check failed.", zap.Error(err))
			return
		}
		c.logger.Info("Edit probe.",
			zap.Int64("node", int64(node)),
			zap.Bool("editable", editable),
		)
	}
}

// handleKey maps keyboard shortcuts: i/e/s switch modes, Escape unpins,
// digits toggle skim properties.
func (c *Controller) handleKey(ctx context.Context, key string) {
	switch key {
	case "i":
		c.switchMode(ctx, overlay.ModeInspect)
	case "e":
		c.switchMode(ctx, overlay.ModeEdit)
	case "s":
		c.switchMode(ctx, overlay.ModeSkim)
	case "Escape":
		c.mu.Lock()
		cmds := c.engine.Unpin()
		c.mu.Unlock()
		c.apply(ctx, cmds)
		c.frames.Submit(ctx, c.inspectFrame)
	default:
		c.handleSkimDigit(ctx, key)
	}
}

// handleSkimDigit toggles the Nth builtin property while in skim mode.
func (c *Controller) handleSkimDigit(ctx context.Context, key string) {
	c.mu.Lock()
	mode := c.engine.Mode()
	c.mu.Unlock()
	if mode != overlay.ModeSkim {
		return
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 {
		return
	}
	descriptors := skim.Descriptors()
	if n > len(descriptors) {
		return
	}
	id := descriptors[n-1].ID

	c.mu.Lock()
	if accepted := c.engine.AddSkimProperty(id); !accepted {
		c.logger.Debug("Skim property not added.", zap.String("id", id))
	}
	c.mu.Unlock()
	c.skimFlush.Trigger()
}

// switchMode performs a mode transition and kicks the new mode's first
// layout pass.
func (c *Controller) switchMode(ctx context.Context, next overlay.Mode) {
	c.frames.Stop()
	c.skimFlush.Cancel()

	c.mu.Lock()
	cmds := c.engine.SetMode(next)
	c.mu.Unlock()
	c.apply(ctx, cmds)

	switch next {
	case overlay.ModeInspect:
		c.frames.Submit(ctx, c.inspectFrame)
	case overlay.ModeSkim:
		c.frames.Submit(ctx, c.skimRelayout)
	}
}

// inspectFrame gathers one frame's geometry from the collaborators and
// applies the engine's draw commands. It runs on the coalescer goroutine.
func (c *Controller) inspectFrame(ctx context.Context) {
	c.mu.Lock()
	pointer := c.pointer
	sel := c.engine.Selection()
	c.mu.Unlock()

	scroll, err := c.walker.ScrollOffset(ctx)
	if err != nil {
		c.frameFailed(ctx, err)
		return
	}
	viewport, err := c.walker.Viewport(ctx)
	if err != nil {
		c.frameFailed(ctx, err)
		return
	}

	frame := overlay.Frame{Viewport: viewport, Scroll: scroll}

	// The pinned element is the target; otherwise the element under the
	// pointer is.
	targetNode := sel.Pinned
	if targetNode == schemas.NodeNone {
		targetNode, err = c.walker.ElementAtPoint(ctx, pointer.X, pointer.Y)
		if err != nil {
			c.frameFailed(ctx, err)
			return
		}
	}
	if targetNode != schemas.NodeNone {
		info, ok, err := c.walker.BoundingRect(ctx, targetNode)
		if err != nil {
			c.frameFailed(ctx, err)
			return
		}
		frame.Target = info
		frame.TargetOK = ok
	}

	if frame.TargetOK {
		frame.Rows = c.tooltipRows(ctx, frame.Target.Node, sel.IsPinned())
	}

	// While pinned, the hovered element is the measurement counterpart.
	if sel.IsPinned() {
		hoverNode, err := c.walker.ElementAtPoint(ctx, pointer.X, pointer.Y)
		if err == nil && hoverNode != schemas.NodeNone {
			info, ok, err := c.walker.BoundingRect(ctx, hoverNode)
			if err == nil && ok {
				frame.Hover = info
				frame.HoverOK = true
			}
		}
	}

	c.mu.Lock()
	cmds := c.engine.Update(frame)
	c.mu.Unlock()
	c.apply(ctx, cmds)
}

// tooltipRows resolves the tooltip's style rows. Unresolvable values drop
// out silently; only transport failures are logged.
func (c *Controller) tooltipRows(ctx context.Context, node schemas.NodeID, pinned bool) []overlay.TooltipRow {
	props := tooltipProperties
	if pinned {
		props = append(append([]string{}, tooltipProperties...), pinnedProperties...)
	}

	var rows []overlay.TooltipRow
	for _, prop := range props {
		value, err := c.resolver.Resolve(ctx, node, prop)
		if err != nil {
			c.logger.Debug("Style resolution failed.", zap.String("property", prop), zap.Error(err))
			continue
		}
		if value == "" {
			continue
		}
		row := overlay.TooltipRow{Label: prop, Value: value}
		if colorProperties[prop] {
			row.Swatch = value
		}
		// The pinned panel marks values the element sets inline, so a
		// computed value can be traced back to its authored source.
		if pinned {
			authored, err := c.resolver.Authored(ctx, node, prop)
			if err != nil {
				c.logger.Debug("Authored style lookup failed.", zap.String("property", prop), zap.Error(err))
			} else if authored != "" {
				if authored == value {
					row.Value = value + " (inline)"
				} else {
					row.Value = value + " (inline: " + authored + ")"
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// skimRelayout recomputes the skim annotation layer.
func (c *Controller) skimRelayout(ctx context.Context) {
	elements, err := c.walker.VisibleElements(ctx)
	if err != nil {
		c.frameFailed(ctx, err)
		return
	}
	scroll, err := c.walker.ScrollOffset(ctx)
	if err != nil {
		c.frameFailed(ctx, err)
		return
	}

	lookup := func(node schemas.NodeID, property string) string {
		value, err := c.resolver.Resolve(ctx, node, property)
		if err != nil {
			return ""
		}
		return value
	}

	c.mu.Lock()
	cmds := c.engine.SkimUpdate(elements, scroll, lookup)
	c.mu.Unlock()
	c.apply(ctx, cmds)
}

// frameFailed degrades a failed frame to a cleared overlay rather than
// leaving stale geometry on screen.
func (c *Controller) frameFailed(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}
	c.logger.Warn("Frame update failed; clearing overlay.", zap.Error(err))
	c.mu.Lock()
	cmds := c.engine.Degrade()
	c.mu.Unlock()
	c.apply(ctx, cmds)
}

func (c *Controller) apply(ctx context.Context, cmds []schemas.DrawCommand) {
	if len(cmds) == 0 {
		return
	}
	if err := c.renderer.Apply(ctx, cmds); err != nil && ctx.Err() == nil {
		c.logger.Warn("Failed to apply draw commands.", zap.Error(err))
	}
}
