package domparts

import (
	"github.com/itsatony/go-domparts/internal"
	"golang.org/x/net/html"
)

// StripMarkers removes marker comments and marker attributes from markup.
// The result is re-rendered, so client and server output of the same
// template strip to identical strings.
func StripMarkers(markup string) (string, error) {
	nodes, err := internal.ParseFragment(markup)
	if err != nil {
		return "", NewRenderError(ErrMsgParseMarkupFailed, err)
	}
	holder := &html.Node{Type: html.ElementNode, Data: internal.TagTemplate}
	for _, n := range nodes {
		holder.AppendChild(n)
	}
	stripNode(holder)
	return internal.InnerHTML(holder)
}

func stripNode(root *html.Node) {
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode && len(n.Attr) > 0 {
			kept := n.Attr[:0]
			for _, a := range n.Attr {
				if a.Namespace != "" || !internal.IsMarkerAttr(a.Key) {
					kept = append(kept, a)
				}
			}
			n.Attr = kept
		}

		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.CommentNode && internal.ParseComment(c.Data).Kind != internal.MarkerNone {
				n.RemoveChild(c)
			} else {
				stack = append(stack, c)
			}
			c = next
		}
	}
}

// Region describes one marker region found in markup.
type Region struct {
	Marker      string // start marker data
	Scope       bool   // template scope rather than a child region
	Index       int    // placeholder index, -1 for scopes
	Depth       int    // scope nesting depth of the start marker
	Nodes       int    // nodes strictly between the markers
	Closed      bool   // a matching end marker exists
	PreRendered bool   // the region holds content
}

// InspectRegions lists the marker regions of markup, outer elements before
// their descendants, and reports which of them already hold content.
func InspectRegions(markup string) ([]Region, error) {
	nodes, err := internal.ParseFragment(markup)
	if err != nil {
		return nil, NewRenderError(ErrMsgParseMarkupFailed, err)
	}
	holder := &html.Node{Type: html.ElementNode, Data: internal.TagTemplate}
	for _, n := range nodes {
		holder.AppendChild(n)
	}

	type item struct {
		n     *html.Node
		depth int
	}
	var regions []Region
	stack := []item{{n: holder}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var children []*html.Node
		for c := it.n.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		depth := it.depth
		var pending []item
		for _, c := range children {
			if c.Type == html.CommentNode {
				m := internal.ParseComment(c.Data)
				switch m.Kind {
				case internal.MarkerScopeStart, internal.MarkerPartStart:
					if m.Kind == internal.MarkerScopeStart {
						depth++
					}
					region := internal.CollectRegionNodes(c)
					closed := internal.FindRegionEnd(c) != nil
					inner := len(region) - 1
					if closed {
						inner--
					}
					regions = append(regions, Region{
						Marker:      c.Data,
						Scope:       m.Kind == internal.MarkerScopeStart,
						Index:       m.Index,
						Depth:       depth,
						Nodes:       inner,
						Closed:      closed,
						PreRendered: internal.IsPreRendered(c),
					})
				case internal.MarkerScopeEnd:
					depth--
				}
				continue
			}
			pending = append(pending, item{n: c, depth: depth})
		}
		for i := len(pending) - 1; i >= 0; i-- {
			stack = append(stack, pending[i])
		}
	}
	return regions, nil
}
