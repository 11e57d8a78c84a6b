package internal

import (
	"golang.org/x/net/html"
)

// FindRegionEnd walks forward from a start marker to its matching end marker.
// Start markers with the same data nest; the scan counts them so an inner
// region with the same literal name does not close the outer one.
// Returns nil when the region is not closed.
func FindRegionEnd(start *html.Node) *html.Node {
	if start == nil || start.Type != html.CommentNode {
		return nil
	}
	open, closing := start.Data, CloseMarker(start.Data)
	depth := 1
	for n := start.NextSibling; n != nil; n = n.NextSibling {
		if n.Type != html.CommentNode {
			continue
		}
		switch n.Data {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return n
			}
		}
	}
	return nil
}

// CollectRegionNodes returns the start marker, every sibling up to the
// matching end marker, and the end marker. An unclosed region yields only
// the start marker.
func CollectRegionNodes(start *html.Node) []*html.Node {
	if start == nil {
		return nil
	}
	end := FindRegionEnd(start)
	if end == nil {
		return []*html.Node{start}
	}
	nodes := []*html.Node{start}
	for n := start.NextSibling; n != nil; n = n.NextSibling {
		nodes = append(nodes, n)
		if n == end {
			break
		}
	}
	return nodes
}

// IsPreRendered reports whether a marker region holds content beyond its two
// markers, meaning it was rendered on the server.
func IsPreRendered(start *html.Node) bool {
	return len(CollectRegionNodes(start)) > 2
}

// RegionContent returns the nodes strictly between a start marker and end.
func RegionContent(start, end *html.Node) []*html.Node {
	var nodes []*html.Node
	for n := start.NextSibling; n != nil && n != end; n = n.NextSibling {
		nodes = append(nodes, n)
	}
	return nodes
}

// SplitGroups splits region content into list entries: each scope region
// becomes one group, any other node a group of its own.
func SplitGroups(nodes []*html.Node) []Group {
	var groups []Group
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if n.Type == html.CommentNode && n.Data == ScopeMarker {
			end := FindRegionEnd(n)
			g := Group{n}
			for i+1 < len(nodes) && end != nil {
				i++
				g = append(g, nodes[i])
				if nodes[i] == end {
					break
				}
			}
			groups = append(groups, g)
			continue
		}
		groups = append(groups, Group{n})
	}
	return groups
}

// IsScopeGroup reports whether g is a complete scope region.
func IsScopeGroup(g Group) bool {
	if len(g) < 2 {
		return false
	}
	first, last := g[0], g[len(g)-1]
	return first.Type == html.CommentNode && first.Data == ScopeMarker &&
		last.Type == html.CommentNode && last.Data == ScopeEndMarker
}

// CheckScopeClosed returns a ShapeError unless the parsed roots open and
// close the template scope at the top level. An element left open in the
// template swallows the end marker.
func CheckScopeClosed(roots []*html.Node) error {
	if !IsScopeGroup(Group(roots)) {
		return NewShapeError(ErrMsgScopeUnclosed, 1, 0, -1)
	}
	return nil
}

// FindScope returns the first top-level scope region among parent's children.
func FindScope(parent *html.Node) Group {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.CommentNode && c.Data == ScopeMarker {
			g := Group(CollectRegionNodes(c))
			if IsScopeGroup(g) {
				return g
			}
			return nil
		}
	}
	return nil
}
