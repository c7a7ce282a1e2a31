// Package h is a small Go DSL for composing the friend zone pages.
// Each element, attribute and text node is a function returning an [H] node
// backed by gomponents.
//
// Example:
//
//	h.Div(
//		h.Class("friend-count"),
//		h.Textf("Friend count %d", n),
//	)
package h

import (
	"io"

	g "maragu.dev/gomponents"
	gc "maragu.dev/gomponents/components"
)

// H represents a DOM node.
type H interface {
	Render(w io.Writer) error
}

// Text creates a text node that renders the escaped string t.
func Text(t string) H {
	return g.Text(t)
}

// Textf creates a text node that renders the interpolated and escaped string format.
func Textf(format string, a ...any) H {
	return g.Textf(format, a...)
}

// Raw creates a text node that renders s unescaped.
func Raw(s string) H {
	return g.Raw(s)
}

// Rawf creates a text node that renders the interpolated string format unescaped.
func Rawf(format string, a ...any) H {
	return g.Rawf(format, a...)
}

// Attr creates an attribute node with a name and an optional value.
// Use this if no convenience creator exists in the h package.
func Attr(name string, value ...string) H {
	return g.Attr(name, value...)
}

// El creates an element node with the given tag name.
func El(name string, children ...H) H {
	return g.El(name, retype(children)...)
}

// If returns n when condition holds and nil otherwise. Nil nodes render nothing.
func If(condition bool, n H) H {
	if condition {
		return n
	}
	return nil
}

// Group renders children without a wrapping element.
func Group(children ...H) H {
	return g.Group(retype(children))
}

// HTML5Props defines properties for HTML5 pages. Title is always set,
// Description and Language only if non-empty.
type HTML5Props struct {
	Title       string
	Description string
	Language    string
	Head        []H
	Body        []H
	HTMLAttrs   []H
}

// HTML5 document template.
func HTML5(p HTML5Props) H {
	return gc.HTML5(gc.HTML5Props{
		Title:       p.Title,
		Description: p.Description,
		Language:    p.Language,
		Head:        retype(p.Head),
		Body:        retype(p.Body),
		HTMLAttrs:   retype(p.HTMLAttrs),
	})
}

func retype(nodes []H) []g.Node {
	out := make([]g.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
