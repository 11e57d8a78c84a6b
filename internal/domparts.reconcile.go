package internal

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Group is a contiguous run of sibling nodes rendered for one list entry.
// A template instance is a single group, its scope markers included.
type Group []*html.Node

// First returns the first node of the group or nil.
func (g Group) First() *html.Node {
	if len(g) == 0 {
		return nil
	}
	return g[0]
}

// Same reports whether two groups are the same entry. A group is identified
// by its first node: entries may grow or shrink internally between renders,
// and that content is owned by the entry's own parts.
func (g Group) Same(other Group) bool {
	return len(g) > 0 && len(other) > 0 && g[0] == other[0]
}

// Reconcile converges the live region ending before anchor from old to next,
// position by position: missing old entries are inserted before the anchor,
// missing next entries are removed, identical entries are kept and differing
// entries are replaced wholesale. It never recurses into entries; nested
// parts own their own content. Nodes retained in next are never removed.
// Returns next, which becomes the old list of the following call.
func (d *Document) Reconcile(parent *html.Node, old, next []Group, anchor *html.Node) []Group {
	if anchor != nil && anchor.Parent != nil {
		parent = anchor.Parent
	}

	retained := make(map[*html.Node]struct{})
	for _, g := range next {
		for _, n := range g {
			retained[n] = struct{}{}
		}
	}

	max := len(old)
	if len(next) > max {
		max = len(next)
	}
	for i := 0; i < max; i++ {
		switch {
		case i >= len(old):
			d.insertGroup(parent, next[i], anchor)
		case i >= len(next):
			d.removeGroup(parent, old[i], retained)
		case old[i].Same(next[i]):
			continue
		default:
			ref := old[i].First()
			if ref == nil || ref.Parent != parent {
				if ref != nil {
					d.logger.Warn(LogMsgReconcileMissingRef, nodeFields(ref, OpInsert)...)
				}
				ref = anchor
			}
			d.insertGroup(parent, next[i], ref)
			d.removeGroup(parent, old[i], retained)
		}
	}
	return next
}

// ReconcileNodes is Reconcile over single-node entries.
func (d *Document) ReconcileNodes(parent *html.Node, old, next []*html.Node, anchor *html.Node) []*html.Node {
	og := make([]Group, len(old))
	for i, n := range old {
		og[i] = Group{n}
	}
	ng := make([]Group, len(next))
	for i, n := range next {
		ng[i] = Group{n}
	}
	d.Reconcile(parent, og, ng, anchor)
	return next
}

func (d *Document) insertGroup(parent *html.Node, g Group, ref *html.Node) {
	for _, n := range g {
		if n == ref {
			ref = n.NextSibling
			continue
		}
		if ref != nil && ref.Parent != parent {
			d.logger.Warn(LogMsgReconcileMissingRef, nodeFields(ref, OpInsert)...)
			ref = nil
		}
		if err := d.InsertBefore(parent, n, ref); err != nil {
			d.logger.Warn(LogMsgReconcileNotChild, nodeFields(n, OpInsert)...)
		}
	}
}

func (d *Document) removeGroup(parent *html.Node, g Group, retained map[*html.Node]struct{}) {
	for _, n := range g {
		if _, keep := retained[n]; keep {
			continue
		}
		if err := d.Remove(parent, n); err != nil {
			d.logger.Warn(LogMsgReconcileNotChild, nodeFields(n, OpRemove)...)
		}
	}
}

// RemoveGroups removes every node of the given groups from the DOM.
func (d *Document) RemoveGroups(parent *html.Node, groups []Group) {
	for _, g := range groups {
		d.removeGroup(parent, g, nil)
	}
}

func nodeFields(n *html.Node, op string) []zap.Field {
	return []zap.Field{
		zap.String(LogFieldOperation, op),
		zap.Uint32(LogFieldNodeType, uint32(n.Type)),
		zap.String(LogFieldNodeData, n.Data),
	}
}
