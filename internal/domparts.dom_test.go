package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

func TestDocument_ParseAndClone(t *testing.T) {
	doc := NewDocument(zap.NewNop())

	nodes, err := doc.ParseHTML("<p>a</p><p>b</p>")
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, 2, doc.Stats().Created)

	clones := doc.CloneNodes(nodes)
	require.Len(t, clones, 2)
	assert.NotSame(t, nodes[0], clones[0])
	assert.Equal(t, "a", clones[0].FirstChild.Data)
	assert.Equal(t, 6, doc.Stats().Created)

	doc.ResetStats()
	assert.Equal(t, MutationStats{}, doc.Stats())
}

func TestDocument_ParseHTML_TableContent(t *testing.T) {
	nodes, err := ParseFragment("<tr><td>1</td></tr>")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "tr", nodes[0].Data)
}

func TestDocument_InsertAndRemove(t *testing.T) {
	doc := NewDocument(nil)
	parent := newParent()
	other := newParent()
	a := doc.NewElement("li")
	b := doc.CreateText("b")

	require.NoError(t, doc.InsertBefore(parent, a, nil))
	require.NoError(t, doc.InsertBefore(parent, b, a))
	assert.Equal(t, []string{"b", "li"}, dataOf(children(parent)))

	assert.Error(t, doc.InsertBefore(parent, doc.CreateComment("c"), other))
	assert.Error(t, doc.Remove(other, a))

	require.NoError(t, doc.Remove(parent, a))
	stats := doc.Stats()
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Removed)
	assert.Equal(t, 1, stats.RemovedElements)
}

func TestDocument_InsertMovesAttachedNode(t *testing.T) {
	doc := NewDocument(nil)
	first := newParent()
	second := newParent()
	n := doc.CreateText("x")
	require.NoError(t, doc.InsertBefore(first, n, nil))
	require.NoError(t, doc.InsertBefore(second, n, nil))

	assert.Nil(t, first.FirstChild)
	assert.Same(t, second, n.Parent)
}

func TestDocument_Attributes(t *testing.T) {
	doc := NewDocument(nil)
	el := doc.NewElement("p")

	doc.SetAttr(el, "class", "a")
	doc.SetAttr(el, "id", "x")
	doc.SetAttr(el, "class", "b")
	v, ok := GetAttr(el, "class")
	assert.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, "class", el.Attr[0].Key)

	assert.True(t, doc.RemoveAttr(el, "class"))
	assert.False(t, doc.RemoveAttr(el, "class"))
	_, ok = GetAttr(el, "class")
	assert.False(t, ok)

	stats := doc.Stats()
	assert.Equal(t, 3, stats.AttrWrites)
	assert.Equal(t, 1, stats.AttrRemovals)
}

func TestDocument_TextContent(t *testing.T) {
	doc := NewDocument(nil)
	el := doc.NewElement("textarea")

	doc.SetTextContent(el, "one")
	text := el.FirstChild
	doc.SetTextContent(el, "two")
	doc.SetTextContent(el, "two")

	assert.Same(t, text, el.FirstChild)
	assert.Equal(t, "two", TextContent(el))
	assert.Equal(t, 1, doc.Stats().TextWrites)
}

func TestDocument_Properties(t *testing.T) {
	doc := NewDocument(nil)
	el := doc.NewElement("input")

	_, ok := doc.Property(el, "value")
	assert.False(t, ok)

	doc.SetProperty(el, "value", 42)
	v, ok := doc.Property(el, "value")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Empty(t, el.Attr)
}

func TestDocument_Listeners(t *testing.T) {
	doc := NewDocument(nil)
	el := doc.NewElement("button")
	var got []string
	id := doc.AddEventListener(el, "click", func(ev *Event) {
		got = append(got, ev.Type)
		assert.Same(t, el, ev.Target)
	})
	doc.AddEventListener(el, "input", func(*Event) { got = append(got, "input") })

	assert.Equal(t, 1, doc.ListenerCount(el, "click"))
	assert.Equal(t, 1, doc.Dispatch(el, "click", nil))
	assert.Equal(t, []string{"click"}, got)

	doc.RemoveEventListener(el, id)
	doc.RemoveEventListener(el, ListenerID(999))
	assert.Equal(t, 0, doc.ListenerCount(el, "click"))
	assert.Equal(t, 0, doc.Dispatch(el, "click", nil))
	assert.Equal(t, 1, doc.ListenerCount(el, "input"))
}

func TestDocument_Observer(t *testing.T) {
	doc := NewDocument(nil)
	var ops []string
	doc.SetObserver(func(op string) { ops = append(ops, op) })

	parent := newParent()
	n := doc.CreateText("x")
	require.NoError(t, doc.InsertBefore(parent, n, nil))
	doc.SetText(n, "y")
	require.NoError(t, doc.Remove(parent, n))

	assert.Equal(t, []string{OpCreate, OpInsert, OpSetText, OpRemove}, ops)
}

func TestRenderNodes(t *testing.T) {
	nodes := []*html.Node{
		{Type: html.TextNode, Data: "a<b"},
		{Type: html.CommentNode, Data: "c"},
	}
	s, err := RenderNodes(nodes)
	require.NoError(t, err)
	assert.Equal(t, "a&lt;b<!--c-->", s)

	holder := parseInto(t, "<p>x</p>")
	assert.Equal(t, "<p>x</p>", innerHTML(t, holder))
}
