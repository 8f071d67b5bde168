// internal/overlay/measure/cache.go
package measure

import "github.com/xkilldash9x/lens-cli/api/schemas"

// PairCache remembers the last (source, target) identity pair a measurement
// was rendered for. Repeated pointer events for the same pair are frequent;
// without the cache every one of them would clear and redraw an identical
// measurement layer, which flickers.
type PairCache struct {
	valid  bool
	source schemas.NodeID
	target schemas.NodeID
}

// Changed records the pair and reports whether it differs from the last
// recorded one. The first call after construction or Reset always reports
// true.
func (c *PairCache) Changed(source, target schemas.NodeID) bool {
	if c.valid && c.source == source && c.target == target {
		return false
	}
	c.valid = true
	c.source = source
	c.target = target
	return true
}

// Reset forgets the recorded pair. Called on selection change, mode switch,
// and deactivation.
func (c *PairCache) Reset() {
	c.valid = false
	c.source = schemas.NodeNone
	c.target = schemas.NodeNone
}
