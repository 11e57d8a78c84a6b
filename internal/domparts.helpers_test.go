package internal

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseInto parses markup into a detached holder element.
func parseInto(t *testing.T, markup string) *html.Node {
	t.Helper()
	nodes, err := ParseFragment(markup)
	require.NoError(t, err)
	holder := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		holder.AppendChild(n)
	}
	return holder
}

func children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, c)
	}
	return out
}

func roots(t *testing.T, markup string) []*html.Node {
	t.Helper()
	return children(parseInto(t, markup))
}

func innerHTML(t *testing.T, n *html.Node) string {
	t.Helper()
	s, err := InnerHTML(n)
	require.NoError(t, err)
	return s
}

func textNodes(data ...string) []*html.Node {
	out := make([]*html.Node, len(data))
	for i, d := range data {
		out[i] = &html.Node{Type: html.TextNode, Data: d}
	}
	return out
}

func groupsOf(nodes ...*html.Node) []Group {
	out := make([]Group, len(nodes))
	for i, n := range nodes {
		out[i] = Group{n}
	}
	return out
}
