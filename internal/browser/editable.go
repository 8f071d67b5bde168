// internal/browser/editable.go
package browser

import (
	"context"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/xkilldash9x/lens-cli/api/schemas"
)

// EditableScanDepth is how many ancestors the editability check climbs. A
// click deep inside a rich text editor still lands on the editable host
// within a few levels; past that the page is treated as read only at that
// point.
const EditableScanDepth = 5

// editableTags are elements that accept text input natively.
var editableTags = map[atom.Atom]bool{
	atom.Input:    true,
	atom.Textarea: true,
	atom.Select:   true,
}

// markupEditable parses one element's shallow markup and reports whether it
// accepts edits: a native form control, or a contenteditable host.
func markupEditable(markup string) bool {
	if strings.TrimSpace(markup) == "" {
		return false
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return false
	}
	for _, n := range nodes {
		if n.Type != html.ElementNode {
			continue
		}
		if editableTags[n.DataAtom] {
			// Disabled and readonly controls don't take input.
			if hasAttr(n, "disabled") || hasAttr(n, "readonly") {
				continue
			}
			return true
		}
		if v, ok := attr(n, "contenteditable"); ok && !strings.EqualFold(v, "false") {
			return true
		}
	}
	return false
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := attr(n, name)
	return ok
}

// IsEditable reports whether the element, or any ancestor within
// EditableScanDepth, accepts text edits. Walker failures degrade to "not
// editable" rather than erroring the event loop.
func (w *Walker) IsEditable(ctx context.Context, node schemas.NodeID) (bool, error) {
	markup, err := w.ShallowHTML(ctx, node)
	if err != nil {
		return false, err
	}
	if markupEditable(markup) {
		return true, nil
	}

	ancestors, err := w.Ancestors(ctx, node, EditableScanDepth)
	if err != nil {
		return false, err
	}
	for _, anc := range ancestors {
		markup, err := w.ShallowHTML(ctx, anc.Node)
		if err != nil {
			return false, err
		}
		if markupEditable(markup) {
			return true, nil
		}
	}
	return false, nil
}
