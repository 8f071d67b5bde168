// internal/overlay/skim/skim.go
package skim

import (
	"fmt"
	"math"
	"strings"

	"github.com/xkilldash9x/lens-cli/api/schemas"
	"github.com/xkilldash9x/lens-cli/internal/overlay/geom"
)

// MaxProperties caps how many property descriptors skim mode annotates at
// once. Adding beyond the cap is rejected, not truncated.
const MaxProperties = 3

// labelDelimiter separates the surviving property fragments of one label.
const labelDelimiter = " · "

// SourceKind discriminates where a property's value comes from.
type SourceKind int

const (
	// SourceRect: the value is derived from the element's bounding box.
	SourceRect SourceKind = iota
	// SourceStyle: the value is a resolved style property.
	SourceStyle
)

// PropertySource is the closed variant selecting a value source. Key is a
// box dimension name for SourceRect and a CSS property name for
// SourceStyle.
type PropertySource struct {
	Kind SourceKind
	Key  string
}

// RectSource builds a bounding-box property source.
func RectSource(key string) PropertySource {
	return PropertySource{Kind: SourceRect, Key: key}
}

// StyleSource builds a computed-style property source.
func StyleSource(property string) PropertySource {
	return PropertySource{Kind: SourceStyle, Key: property}
}

// Descriptor describes one annotatable property.
type Descriptor struct {
	ID         string
	Source     PropertySource
	ShortLabel string
	// TextGated descriptors only apply to text-bearing elements; font
	// properties on a purely structural wrapper would mislabel it.
	TextGated bool
	// Color marks properties whose value is rendered with a swatch.
	Color bool
}

// Builtin descriptors, keyed by ID. Size is the default selection when
// skim mode is entered with nothing picked.
var builtins = []Descriptor{
	{ID: "size", Source: RectSource("size"), ShortLabel: "size"},
	{ID: "margin", Source: StyleSource("margin"), ShortLabel: "m"},
	{ID: "padding", Source: StyleSource("padding"), ShortLabel: "p"},
	{ID: "color", Source: StyleSource("color"), ShortLabel: "color", TextGated: true, Color: true},
	{ID: "background", Source: StyleSource("background-color"), ShortLabel: "bg", Color: true},
	{ID: "font-size", Source: StyleSource("font-size"), ShortLabel: "fs", TextGated: true},
	{ID: "font-family", Source: StyleSource("font-family"), ShortLabel: "font", TextGated: true},
	{ID: "border-radius", Source: StyleSource("border-radius"), ShortLabel: "r"},
}

// DefaultDescriptorID is selected when skim mode starts empty.
const DefaultDescriptorID = "size"

// LookupDescriptor finds a builtin descriptor by ID.
func LookupDescriptor(id string) (Descriptor, bool) {
	for _, d := range builtins {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Descriptors returns the builtin descriptor set.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(builtins))
	copy(out, builtins)
	return out
}

// Config is the capacity-bounded set of selected property descriptors.
type Config struct {
	selected []Descriptor
}

// Add selects a descriptor. It reports false when the set is full
// (MaxProperties) or the descriptor is already selected; the set is left
// unchanged in both cases.
func (c *Config) Add(d Descriptor) bool {
	if len(c.selected) >= MaxProperties {
		return false
	}
	for _, s := range c.selected {
		if s.ID == d.ID {
			return false
		}
	}
	c.selected = append(c.selected, d)
	return true
}

// Remove unselects a descriptor by ID.
func (c *Config) Remove(id string) {
	for i, s := range c.selected {
		if s.ID == id {
			c.selected = append(c.selected[:i], c.selected[i+1:]...)
			return
		}
	}
}

// Clear unselects everything.
func (c *Config) Clear() {
	c.selected = nil
}

// Selected returns the currently selected descriptors in selection order.
func (c *Config) Selected() []Descriptor {
	out := make([]Descriptor, len(c.selected))
	copy(out, c.selected)
	return out
}

// IsEmpty reports whether nothing is selected.
func (c *Config) IsEmpty() bool { return len(c.selected) == 0 }

// StyleLookup resolves a computed style value for an element. Empty string
// means the value is absent.
type StyleLookup func(node schemas.NodeID, property string) string

// LabelPlacement is one computed skim annotation, anchored at the
// element's top-left corner in document coordinates.
type LabelPlacement struct {
	Node     schemas.NodeID
	Text     string
	Position geom.Point
	// Swatch is the first color value contributing to the label, shown as
	// a small indicator. Empty when no color property survived.
	Swatch string
}

// textBearingTags are elements whose purpose is text; text-gated
// descriptors apply to them unconditionally.
var textBearingTags = map[string]bool{
	"p": true, "span": true, "a": true, "li": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"label": true, "button": true, "strong": true, "em": true, "b": true,
	"i": true, "code": true, "pre": true, "blockquote": true, "figcaption": true,
}

// isTextBearing decides whether text-gated descriptors apply: either the
// tag itself is text-bearing, or a generic container has direct text
// content.
func isTextBearing(el schemas.ElementInfo) bool {
	if textBearingTags[el.Tag] {
		return true
	}
	return el.HasText
}

// sentinelValues are resolved style values that carry no information worth
// annotating. They suppress the property fragment, not the whole label.
func isSentinel(value string) bool {
	switch v := strings.TrimSpace(strings.ToLower(value)); v {
	case "", "auto", "none", "normal", "0", "0px", "transparent", "rgba(0, 0, 0, 0)":
		return true
	default:
		return false
	}
}

// Layout batch-computes annotation labels for the visible elements.
// Elements with degenerate rects, hidden elements, and the inspector's own
// overlay nodes are skipped. An element whose every selected property was
// filtered out produces no label at all.
//
// Element rects arrive viewport-space; the scroll offset converts the
// anchors to document space so labels stay put under scrolling.
func Layout(elements []schemas.ElementInfo, scroll geom.Offset, cfg *Config, lookup StyleLookup) []LabelPlacement {
	selected := cfg.Selected()
	if len(selected) == 0 {
		return nil
	}

	var out []LabelPlacement
	for _, el := range elements {
		rect := geom.NewRect(geom.Viewport, el.Left, el.Top, el.Width, el.Height)
		if el.Hidden || el.OverlayOwned || rect.IsDegenerate() {
			continue
		}

		var parts []string
		swatch := ""
		for _, d := range selected {
			if d.TextGated && !isTextBearing(el) {
				continue
			}
			value := resolveValue(d, el, lookup)
			if isSentinel(value) {
				continue
			}
			if d.Color && swatch == "" {
				swatch = value
			}
			parts = append(parts, d.ShortLabel+" "+value)
		}

		if len(parts) == 0 {
			continue
		}

		doc := rect.ToDocument(scroll)
		out = append(out, LabelPlacement{
			Node:     el.Node,
			Text:     strings.Join(parts, labelDelimiter),
			Position: doc.TopLeft(),
			Swatch:   swatch,
		})
	}
	return out
}

// resolveValue produces the display value for one descriptor. Rect
// dimensions are rounded and unit-suffixed; style values come back verbatim
// from the lookup.
func resolveValue(d Descriptor, el schemas.ElementInfo, lookup StyleLookup) string {
	if d.Source.Kind == SourceStyle {
		if lookup == nil {
			return ""
		}
		return lookup(el.Node, d.Source.Key)
	}

	switch d.Source.Key {
	case "size":
		return fmt.Sprintf("%d×%d", roundPx(el.Width), roundPx(el.Height))
	case "width":
		return fmt.Sprintf("%dpx", roundPx(el.Width))
	case "height":
		return fmt.Sprintf("%dpx", roundPx(el.Height))
	default:
		return ""
	}
}

func roundPx(v float64) int {
	return int(math.Round(v))
}
