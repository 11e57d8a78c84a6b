package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func dataOf(nodes []*html.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Data
	}
	return out
}

func newParent(nodes ...*html.Node) *html.Node {
	parent := &html.Node{Type: html.ElementNode, Data: "ul"}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return parent
}

func TestReconcile_RemoveMiddle(t *testing.T) {
	nodes := textNodes("a", "b", "c")
	parent := newParent(nodes...)
	doc := NewDocument(nil)

	doc.Reconcile(parent, groupsOf(nodes...), groupsOf(nodes[0], nodes[2]), nil)

	assert.Equal(t, []string{"a", "c"}, dataOf(children(parent)))
	assert.Same(t, nodes[2], parent.LastChild)
	assert.Equal(t, 1, doc.Stats().Removed)
}

func TestReconcile_AppendBeforeAnchor(t *testing.T) {
	a := textNodes("a")[0]
	end := &html.Node{Type: html.CommentNode, Data: "/dom-part-0"}
	parent := newParent(a, end)
	b := textNodes("b")[0]
	doc := NewDocument(nil)

	doc.Reconcile(parent, groupsOf(a), groupsOf(a, b), end)

	assert.Equal(t, []string{"a", "b", "/dom-part-0"}, dataOf(children(parent)))
	assert.Equal(t, 1, doc.Stats().Inserted)
	assert.Equal(t, 0, doc.Stats().Removed)
}

func TestReconcile_ReplaceKeepsPosition(t *testing.T) {
	nodes := textNodes("a", "b", "c")
	parent := newParent(nodes...)
	x := textNodes("x")[0]
	doc := NewDocument(nil)

	doc.Reconcile(parent, groupsOf(nodes...), groupsOf(nodes[0], x, nodes[2]), nil)

	assert.Equal(t, []string{"a", "x", "c"}, dataOf(children(parent)))
	assert.Equal(t, 2, doc.Stats().Structural())
}

func TestReconcile_SameEntriesNoMutations(t *testing.T) {
	nodes := textNodes("a", "b")
	parent := newParent(nodes...)
	doc := NewDocument(nil)

	next := doc.Reconcile(parent, groupsOf(nodes...), groupsOf(nodes...), nil)

	assert.Len(t, next, 2)
	assert.Equal(t, MutationStats{}, doc.Stats())
}

func TestReconcile_GroupIdentifiedByFirstNode(t *testing.T) {
	nodes := textNodes("start", "inner", "end")
	parent := newParent(nodes...)
	doc := NewDocument(nil)

	old := []Group{{nodes[0], nodes[2]}}
	next := []Group{{nodes[0], nodes[1], nodes[2]}}
	doc.Reconcile(parent, old, next, nil)

	assert.Equal(t, MutationStats{}, doc.Stats())
	assert.Equal(t, []string{"start", "inner", "end"}, dataOf(children(parent)))
}

func TestReconcile_MultiNodeGroupsMoveTogether(t *testing.T) {
	nodes := textNodes("a1", "a2", "b1", "b2")
	parent := newParent(nodes...)
	doc := NewDocument(nil)

	a := Group{nodes[0], nodes[1]}
	b := Group{nodes[2], nodes[3]}
	doc.Reconcile(parent, []Group{a, b}, []Group{b}, nil)

	assert.Equal(t, []string{"b1", "b2"}, dataOf(children(parent)))
}

func TestReconcile_ClearAll(t *testing.T) {
	nodes := textNodes("a", "b")
	parent := newParent(nodes...)
	doc := NewDocument(nil)

	doc.Reconcile(parent, groupsOf(nodes...), nil, nil)

	assert.Nil(t, parent.FirstChild)
	assert.Equal(t, 2, doc.Stats().Removed)
}

func TestReconcileNodes(t *testing.T) {
	end := &html.Node{Type: html.CommentNode, Data: "end"}
	parent := newParent(end)
	doc := NewDocument(nil)

	content := doc.ReconcileNodes(parent, nil, textNodes("x", "y"), end)
	assert.Equal(t, []string{"x", "y", "end"}, dataOf(children(parent)))

	content = doc.ReconcileNodes(parent, content, textNodes("z"), end)
	assert.Len(t, content, 1)
	assert.Equal(t, []string{"z", "end"}, dataOf(children(parent)))
}

func TestRemoveGroups(t *testing.T) {
	nodes := textNodes("a", "b", "c")
	parent := newParent(nodes...)
	doc := NewDocument(nil)

	doc.RemoveGroups(parent, []Group{{nodes[0], nodes[1]}})

	assert.Equal(t, []string{"c"}, dataOf(children(parent)))
}

func TestGroup_Same(t *testing.T) {
	n := textNodes("a", "b")
	assert.True(t, Group{n[0]}.Same(Group{n[0], n[1]}))
	assert.False(t, Group{n[0]}.Same(Group{n[1]}))
	assert.False(t, Group{}.Same(Group{}))
	assert.Nil(t, Group{}.First())
}
