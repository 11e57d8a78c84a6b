package domparts

import (
	"testing"

	"github.com/itsatony/go-domparts/internal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(append([]Option{WithLogger(zap.NewNop())}, opts...)...)
	require.NoError(t, err)
	return e
}

func newBody() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: atom.Body.String(), DataAtom: atom.Body}
}

// mount parses server markup into a fresh body, as a browser would.
func mount(t *testing.T, markup string) *html.Node {
	t.Helper()
	nodes, err := internal.ParseFragment(markup)
	require.NoError(t, err)
	body := newBody()
	for _, n := range nodes {
		body.AppendChild(n)
	}
	return body
}

func inner(t *testing.T, n *html.Node) string {
	t.Helper()
	s, err := internal.InnerHTML(n)
	require.NoError(t, err)
	return s
}

func strip(t *testing.T, markup string) string {
	t.Helper()
	s, err := StripMarkers(markup)
	require.NoError(t, err)
	return s
}

// visible returns the container's markup without part markers.
func visible(t *testing.T, n *html.Node) string {
	t.Helper()
	return strip(t, inner(t, n))
}

func findAll(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Type == html.ElementNode && n.Data == tag && n != root {
			out = append(out, n)
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return out
}

func find(t *testing.T, root *html.Node, tag string) *html.Node {
	t.Helper()
	all := findAll(root, tag)
	require.NotEmpty(t, all, "no <%s> element", tag)
	return all[0]
}

func attr(n *html.Node, key string) (string, bool) {
	return internal.GetAttr(n, key)
}
