// Package dom provides the small set of tree operations the editor and the
// export pipeline need on top of golang.org/x/net/html: lookup by id, deep
// clone, attribute and inline style editing, and serialization.
package dom

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element creates an element node with the given attributes.
func Element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     append([]html.Attribute(nil), attrs...),
	}
}

// Text creates a text node.
func Text(value string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: value}
}

// A builds an attribute.
func A(key, value string) html.Attribute {
	return html.Attribute{Key: key, Val: value}
}

// Append adds children to parent in order.
func Append(parent *html.Node, children ...*html.Node) *html.Node {
	for _, child := range children {
		if child == nil {
			continue
		}
		parent.AppendChild(child)
	}
	return parent
}

// FindByID returns the first element in document order whose id matches.
func FindByID(root *html.Node, id string) *html.Node {
	if root == nil || id == "" {
		return nil
	}
	var found *html.Node
	Walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode {
			if v, ok := Attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// FindAll returns every element matching pred in document order.
func FindAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// Clone deep-copies n. The copy has no parent or siblings.
func Clone(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	out := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(Clone(c))
	}
	return out
}

// Attr returns the value of key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces key on n.
func SetAttr(n *html.Node, key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr drops key from n.
func RemoveAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			continue
		}
		kept = append(kept, attr)
	}
	n.Attr = kept
}

// TextContent concatenates the text of n and its descendants.
func TextContent(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		return true
	})
	return b.String()
}

// SetTextContent replaces the children of n with a single text node.
func SetTextContent(n *html.Node, value string) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	if value != "" {
		n.AppendChild(Text(value))
	}
}

// OuterHTML renders n including its own tag.
func OuterHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
