// internal/browser/walker_test.go
package browser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/lens-cli/api/schemas"
)

// fakeRunner satisfies scriptRunner with canned JSON responses keyed by the
// evaluated expression.
type fakeRunner struct {
	responses map[string]string
	err       error
	calls     []string
}

func (f *fakeRunner) eval(_ context.Context, expr string, out interface{}) error {
	f.calls = append(f.calls, expr)
	if f.err != nil {
		return f.err
	}
	resp, ok := f.responses[expr]
	if !ok {
		resp = "null"
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(resp), out)
}

func TestWalkerBoundingRect(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"window.__lensAgent.rect(7)": `{"node":7,"tag":"div","left":10,"top":20,"width":100,"height":50,"hasText":true}`,
	}}
	w := &Walker{runner: runner, maxVisible: 200}

	info, ok, err := w.BoundingRect(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, schemas.NodeID(7), info.Node)
	assert.Equal(t, "div", info.Tag)
	assert.Equal(t, 100.0, info.Width)
	assert.True(t, info.HasText)
}

func TestWalkerBoundingRectVanishedNode(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"window.__lensAgent.rect(9)": "null",
	}}
	w := &Walker{runner: runner, maxVisible: 200}

	_, ok, err := w.BoundingRect(context.Background(), 9)
	require.NoError(t, err)
	assert.False(t, ok, "a disconnected element reports ok=false, not an error")
}

func TestWalkerBoundingRectTransportError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("target closed")}
	w := &Walker{runner: runner, maxVisible: 200}

	_, _, err := w.BoundingRect(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rect query failed")
}

func TestWalkerElementAtPoint(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"window.__lensAgent.hitTest(120, 45.5)": "3",
	}}
	w := &Walker{runner: runner, maxVisible: 200}

	node, err := w.ElementAtPoint(context.Background(), 120, 45.5)
	require.NoError(t, err)
	assert.Equal(t, schemas.NodeID(3), node)
}

func TestWalkerElementAtPointNothingHit(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"window.__lensAgent.hitTest(0, 0)": "0",
	}}
	w := &Walker{runner: runner, maxVisible: 200}

	node, err := w.ElementAtPoint(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, schemas.NodeNone, node)
}

func TestWalkerScrollAndViewport(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"window.__lensAgent.scroll()":   `{"x":0,"y":340}`,
		"window.__lensAgent.viewport()": `{"width":1280,"height":720}`,
	}}
	w := &Walker{runner: runner, maxVisible: 200}

	scroll, err := w.ScrollOffset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 340.0, scroll.Y)

	vp, err := w.Viewport(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1280.0, vp.Width)
}

func TestWalkerVisibleElementsUsesConfiguredCap(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"window.__lensAgent.visible(50)": `[{"node":1,"tag":"p"},{"node":2,"tag":"div"}]`,
	}}
	w := &Walker{runner: runner, maxVisible: 50}

	elements, err := w.VisibleElements(context.Background())
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Equal(t, "p", elements[0].Tag)
}

func TestWalkerAncestors(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		"window.__lensAgent.ancestors(4, 5)": `[{"node":3,"tag":"section"},{"node":2,"tag":"main"}]`,
	}}
	w := &Walker{runner: runner, maxVisible: 200}

	ancestors, err := w.Ancestors(context.Background(), 4, 5)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, "section", ancestors[0].Tag, "nearest ancestor first")
}

func TestResolverQueries(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{
		`window.__lensAgent.computed(5, "color")`:  `"rgb(20, 20, 20)"`,
		`window.__lensAgent.authored(5, "margin")`: `""`,
	}}
	r := &Resolver{runner: runner}

	value, err := r.Resolve(context.Background(), 5, "color")
	require.NoError(t, err)
	assert.Equal(t, "rgb(20, 20, 20)", value)

	value, err = r.Authored(context.Background(), 5, "margin")
	require.NoError(t, err)
	assert.Empty(t, value, "missing authored value is empty, not an error")
}

func TestRendererAppliesBatchAsOneCall(t *testing.T) {
	runner := &fakeRunner{responses: map[string]string{}}
	r := &Renderer{runner: runner}

	cmds := []schemas.DrawCommand{
		{Op: schemas.OpClear, Layer: schemas.LayerHighlight},
		{Op: schemas.OpRect, Layer: schemas.LayerHighlight, Left: 1, Top: 2, Width: 3, Height: 4},
	}
	require.NoError(t, r.Apply(context.Background(), cmds))

	require.Len(t, runner.calls, 1, "one batch must be one agent call")
	assert.Contains(t, runner.calls[0], "window.__lensAgent.apply([")
	assert.Contains(t, runner.calls[0], `"op":"clear"`)
	assert.Contains(t, runner.calls[0], `"op":"rect"`)
}

func TestRendererSkipsEmptyBatch(t *testing.T) {
	runner := &fakeRunner{}
	r := &Renderer{runner: runner}

	require.NoError(t, r.Apply(context.Background(), nil))
	assert.Empty(t, runner.calls)
}
