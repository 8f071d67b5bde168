// internal/overlay/skim/skim_test.go
package skim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xkilldash9x/lens-cli/api/schemas"
	"github.com/xkilldash9x/lens-cli/internal/overlay/geom"
	"github.com/xkilldash9x/lens-cli/internal/overlay/skim"
)

func mustDescriptor(t *testing.T, id string) skim.Descriptor {
	t.Helper()
	d, ok := skim.LookupDescriptor(id)
	require.True(t, ok, "unknown descriptor %q", id)
	return d
}

func TestConfigCapacity(t *testing.T) {
	var cfg skim.Config

	assert.True(t, cfg.Add(mustDescriptor(t, "size")))
	assert.True(t, cfg.Add(mustDescriptor(t, "margin")))
	assert.True(t, cfg.Add(mustDescriptor(t, "padding")))

	// The 4th selection is rejected and the set stays at 3.
	assert.False(t, cfg.Add(mustDescriptor(t, "color")))
	assert.Len(t, cfg.Selected(), 3)

	// Duplicates are rejected too.
	cfg.Remove("padding")
	assert.False(t, cfg.Add(mustDescriptor(t, "size")))
	assert.Len(t, cfg.Selected(), 2)
}

func element(node schemas.NodeID, tag string, left, top, w, h float64) schemas.ElementInfo {
	return schemas.ElementInfo{Node: node, Tag: tag, Left: left, Top: top, Width: w, Height: h}
}

func TestLayout_SizeLabels(t *testing.T) {
	var cfg skim.Config
	cfg.Add(mustDescriptor(t, "size"))

	elements := []schemas.ElementInfo{
		element(1, "div", 10, 20, 100.4, 50.6),
		element(2, "p", 10, 100, 200, 30),
	}

	labels := skim.Layout(elements, geom.Offset{}, &cfg, nil)
	require.Len(t, labels, 2)

	// Dimensions are rounded to integers.
	assert.Equal(t, "size 100×51", labels[0].Text)
	assert.Equal(t, geom.Point{X: 10, Y: 20}, labels[0].Position)
	assert.Equal(t, "size 200×30", labels[1].Text)
}

func TestLayout_AnchorsAreDocumentSpace(t *testing.T) {
	var cfg skim.Config
	cfg.Add(mustDescriptor(t, "size"))

	elements := []schemas.ElementInfo{element(1, "div", 10, 20, 50, 50)}
	labels := skim.Layout(elements, geom.Offset{X: 0, Y: 300}, &cfg, nil)

	require.Len(t, labels, 1)
	// Viewport top 20 plus scroll 300.
	assert.Equal(t, geom.Point{X: 10, Y: 320}, labels[0].Position)
}

func TestLayout_SkipsDegenerateHiddenAndOverlayNodes(t *testing.T) {
	var cfg skim.Config
	cfg.Add(mustDescriptor(t, "size"))

	hidden := element(2, "div", 0, 60, 50, 50)
	hidden.Hidden = true
	owned := element(3, "div", 0, 120, 50, 50)
	owned.OverlayOwned = true

	elements := []schemas.ElementInfo{
		element(1, "div", 0, 0, 0, 50), // zero width
		hidden,
		owned,
		element(4, "div", 0, 180, 50, 50),
	}

	labels := skim.Layout(elements, geom.Offset{}, &cfg, nil)
	require.Len(t, labels, 1)
	assert.Equal(t, schemas.NodeID(4), labels[0].Node)
}

func TestLayout_TextGating(t *testing.T) {
	var cfg skim.Config
	cfg.Add(mustDescriptor(t, "font-size"))

	lookup := func(node schemas.NodeID, property string) string {
		return "14px"
	}

	wrapper := element(1, "div", 0, 0, 100, 100) // structural, no text
	textDiv := element(2, "div", 0, 110, 100, 20)
	textDiv.HasText = true
	para := element(3, "p", 0, 140, 100, 20) // text-bearing tag

	labels := skim.Layout([]schemas.ElementInfo{wrapper, textDiv, para}, geom.Offset{}, &cfg, lookup)

	// The bare wrapper is never labeled with font properties; the div with
	// direct text and the paragraph are.
	require.Len(t, labels, 2)
	assert.Equal(t, schemas.NodeID(2), labels[0].Node)
	assert.Equal(t, schemas.NodeID(3), labels[1].Node)
	assert.Equal(t, "fs 14px", labels[0].Text)
}

func TestLayout_SentinelValuesSuppressed(t *testing.T) {
	var cfg skim.Config
	cfg.Add(mustDescriptor(t, "margin"))
	cfg.Add(mustDescriptor(t, "background"))

	values := map[schemas.NodeID]map[string]string{
		1: {"margin": "0px", "background-color": "rgba(0, 0, 0, 0)"},
		2: {"margin": "8px", "background-color": "transparent"},
		3: {"margin": "auto", "background-color": "rgb(255, 0, 0)"},
	}
	lookup := func(node schemas.NodeID, property string) string {
		return values[node][property]
	}

	elements := []schemas.ElementInfo{
		element(1, "div", 0, 0, 50, 50),
		element(2, "div", 0, 60, 50, 50),
		element(3, "div", 0, 120, 50, 50),
	}

	labels := skim.Layout(elements, geom.Offset{}, &cfg, lookup)

	// Element 1: both values are sentinels -> no label at all.
	// Element 2: only the margin survives.
	// Element 3: only the background survives, with a swatch.
	require.Len(t, labels, 2)
	assert.Equal(t, schemas.NodeID(2), labels[0].Node)
	assert.Equal(t, "m 8px", labels[0].Text)
	assert.Empty(t, labels[0].Swatch)

	assert.Equal(t, schemas.NodeID(3), labels[1].Node)
	assert.Equal(t, "bg rgb(255, 0, 0)", labels[1].Text)
	assert.Equal(t, "rgb(255, 0, 0)", labels[1].Swatch)
}

func TestLayout_MultiplePropertiesJoined(t *testing.T) {
	var cfg skim.Config
	cfg.Add(mustDescriptor(t, "size"))
	cfg.Add(mustDescriptor(t, "padding"))

	lookup := func(node schemas.NodeID, property string) string {
		return "12px"
	}

	labels := skim.Layout([]schemas.ElementInfo{element(1, "div", 0, 0, 40, 40)}, geom.Offset{}, &cfg, lookup)
	require.Len(t, labels, 1)
	assert.Equal(t, "size 40×40 · p 12px", labels[0].Text)
}

func TestLayout_EmptyConfigProducesNothing(t *testing.T) {
	var cfg skim.Config
	labels := skim.Layout([]schemas.ElementInfo{element(1, "div", 0, 0, 40, 40)}, geom.Offset{}, &cfg, nil)
	assert.Empty(t, labels)
}

func TestDefaultDescriptorExists(t *testing.T) {
	_, ok := skim.LookupDescriptor(skim.DefaultDescriptorID)
	assert.True(t, ok)
}
