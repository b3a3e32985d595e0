package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Declaration is one inline style property.
type Declaration struct {
	Property string
	Value    string
}

// ParseStyle splits an inline style attribute into declarations, keeping
// their order. Property names are lower-cased.
func ParseStyle(style string) []Declaration {
	var out []Declaration
	for _, part := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}
		out = append(out, Declaration{Property: name, Value: value})
	}
	return out
}

// FormatStyle joins declarations back into an inline style attribute.
func FormatStyle(decls []Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		parts = append(parts, decl.Property+": "+decl.Value)
	}
	return strings.Join(parts, "; ")
}

// StyleProperty reads one property from the inline style of n. A property
// with an empty value counts as unset.
func StyleProperty(n *html.Node, property string) (string, bool) {
	raw, ok := Attr(n, "style")
	if !ok {
		return "", false
	}
	property = strings.ToLower(property)
	value, found := "", false
	for _, decl := range ParseStyle(raw) {
		if decl.Property == property && decl.Value != "" {
			value, found = decl.Value, true
		}
	}
	return value, found
}

// SetStyleProperty sets one inline style property on n.
func SetStyleProperty(n *html.Node, property, value string) {
	raw, _ := Attr(n, "style")
	decls := ParseStyle(raw)
	property = strings.ToLower(property)
	replaced := false
	for i := range decls {
		if decls[i].Property == property {
			decls[i].Value = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, Declaration{Property: property, Value: value})
	}
	SetAttr(n, "style", FormatStyle(decls))
}
