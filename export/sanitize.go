package export

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-policydoc/dom"
)

// sanitizedClone deep-copies source and prepares the copy for a surface
// that carries none of the host stylesheet: every class reference is
// dropped and elements without an inline color get color.
func sanitizedClone(source *html.Node, color string) *html.Node {
	clone := dom.Clone(source)
	sanitize(clone, color)
	return clone
}

func sanitize(n *html.Node, color string) {
	dom.Walk(n, func(node *html.Node) bool {
		if node.Type != html.ElementNode {
			return true
		}
		dom.RemoveAttr(node, "class")
		if _, ok := dom.StyleProperty(node, "color"); !ok {
			dom.SetStyleProperty(node, "color", color)
		}
		return true
	})
}
