// Package htmltree provides the small tree walks the deck parser needs
// on parsed HTML: sibling scans bounded by a heading, descendant
// lookups, text and attribute access. Everything operates on plain
// *html.Node values so the walks can be unit-tested against synthetic
// trees.
package htmltree

import (
	"strings"

	"golang.org/x/net/html"
)

// IsElement reports whether n is an element node with the given tag.
func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Text returns the concatenated text content of n's subtree.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return b.String()
}

// NextElementSibling returns the first element node following n among
// its siblings.
func NextElementSibling(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// SiblingsUntil collects the element siblings following n, stopping
// before the first one with the given tag. An empty stopTag collects
// all following element siblings.
func SiblingsUntil(n *html.Node, stopTag string) []*html.Node {
	var out []*html.Node
	for s := NextElementSibling(n); s != nil; s = NextElementSibling(s) {
		if stopTag != "" && IsElement(s, stopTag) {
			break
		}
		out = append(out, s)
	}
	return out
}

// Find returns the first node in n's subtree (n included) matching
// pred, in depth-first order.
func Find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if pred(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m := Find(c, pred); m != nil {
			return m
		}
	}
	return nil
}

// FindAll returns every node in n's subtree matching pred, in
// depth-first order.
func FindAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

// FirstAnchorAfter walks the element siblings following n and returns
// the first anchor found in any of their subtrees. This is the shape
// of both the commander lookup and the back-face lookup on card pages,
// where the reference sits some siblings after its heading.
func FirstAnchorAfter(n *html.Node) *html.Node {
	for s := NextElementSibling(n); s != nil; s = NextElementSibling(s) {
		if a := Find(s, func(m *html.Node) bool { return IsElement(m, "a") }); a != nil {
			return a
		}
	}
	return nil
}
