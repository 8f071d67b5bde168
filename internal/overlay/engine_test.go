// internal/overlay/engine_test.go
package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/lens-cli/api/schemas"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(DefaultParams(), zap.NewNop())
}

// Every layer must be cleared by the returned commands, in any order.
func assertClearsAllLayers(t *testing.T, cmds []schemas.DrawCommand) {
	t.Helper()
	cleared := map[schemas.Layer]bool{}
	for _, c := range cmds {
		if c.Op == schemas.OpClear {
			cleared[c.Layer] = true
		}
	}
	for _, layer := range []schemas.Layer{
		schemas.LayerHighlight, schemas.LayerTooltip,
		schemas.LayerMeasure, schemas.LayerSkim,
	} {
		assert.True(t, cleared[layer], "layer %q not cleared", layer)
	}
}

func TestActivateStartsInInspectWithBlankSlate(t *testing.T) {
	e := newTestEngine(t)

	cmds := e.Activate()

	assert.True(t, e.Active())
	assert.Equal(t, ModeInspect, e.Mode())
	assert.False(t, e.Selection().IsPinned())
	assertClearsAllLayers(t, cmds)
}

func TestDeactivateForgetsEverything(t *testing.T) {
	e := newTestEngine(t)
	e.Activate()
	e.Pin(schemas.NodeID(7))
	e.SetSkimProperties([]string{"margin"})

	cmds := e.Deactivate()

	assert.False(t, e.Active())
	assert.False(t, e.Selection().IsPinned())
	assertClearsAllLayers(t, cmds)

	// Re-activation starts from defaults again.
	e.Activate()
	assert.Empty(t, e.SkimProperties())
}

func TestSetModeTransitionsAreTotal(t *testing.T) {
	modes := []Mode{ModeInspect, ModeEdit, ModeSkim}
	for _, from := range modes {
		for _, to := range modes {
			e := newTestEngine(t)
			e.Activate()
			e.SetMode(from)

			cmds := e.SetMode(to)

			assert.Equal(t, to, e.Mode(), "%s -> %s", from, to)
			assertClearsAllLayers(t, cmds)
		}
	}
}

func TestEnteringSkimUnpinsAndDefaultSelects(t *testing.T) {
	e := newTestEngine(t)
	e.Activate()
	e.Pin(schemas.NodeID(42))
	require.True(t, e.Selection().IsPinned())

	e.SetMode(ModeSkim)

	assert.False(t, e.Selection().IsPinned())
	assert.Equal(t, []string{"size"}, e.SkimProperties())
}

func TestEnteringSkimKeepsExplicitSelection(t *testing.T) {
	e := newTestEngine(t)
	e.Activate()
	e.SetSkimProperties([]string{"margin", "padding"})

	e.SetMode(ModeSkim)

	assert.Equal(t, []string{"margin", "padding"}, e.SkimProperties())
}

func TestSetSkimPropertiesHonorsCapacityAndUnknowns(t *testing.T) {
	e := newTestEngine(t)
	e.Activate()

	got := e.SetSkimProperties([]string{"size", "margin", "bogus", "padding", "color"})

	// Three real descriptors fit; the unknown is skipped; the fourth real
	// one is rejected.
	assert.Equal(t, []string{"size", "margin", "padding"}, got)
	assert.False(t, e.AddSkimProperty("color"))
}

func TestPinIgnoredInSkimMode(t *testing.T) {
	e := newTestEngine(t)
	e.Activate()
	e.SetMode(ModeSkim)

	e.Pin(schemas.NodeID(3))

	assert.False(t, e.Selection().IsPinned())
}

func TestUnpinClearsOnlyMeasureLayer(t *testing.T) {
	e := newTestEngine(t)
	e.Activate()
	e.Pin(schemas.NodeID(3))

	cmds := e.Unpin()

	require.Len(t, cmds, 1)
	assert.Equal(t, schemas.OpClear, cmds[0].Op)
	assert.Equal(t, schemas.LayerMeasure, cmds[0].Layer)
	assert.False(t, e.Selection().IsPinned())
}

func TestSelectClearsPin(t *testing.T) {
	e := newTestEngine(t)
	e.Activate()
	e.Pin(schemas.NodeID(3))

	e.Select(schemas.NodeID(9))

	assert.Equal(t, schemas.NodeID(9), e.Selection().Current)
	assert.False(t, e.Selection().IsPinned())
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"inspect", ModeInspect, true},
		{"edit", ModeEdit, true},
		{"skim", ModeSkim, true},
		{"banana", ModeInspect, false},
		{"", ModeInspect, false},
	}
	for _, tc := range cases {
		got, ok := ParseMode(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}
