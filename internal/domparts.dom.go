package internal

import (
	"bytes"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Event is delivered to listeners bound with event attribute parts.
type Event struct {
	Type   string
	Target *html.Node
	Detail any
}

// Listener handles a dispatched event.
type Listener func(*Event)

// ListenerID identifies an attached listener for later removal.
type ListenerID uint64

type listenerEntry struct {
	id        ListenerID
	eventType string
	fn        Listener
}

// MutationStats counts DOM mutations performed through a Document.
type MutationStats struct {
	Created         int
	Inserted        int
	Removed         int
	RemovedElements int
	AttrWrites      int
	AttrRemovals    int
	TextWrites      int
}

// Structural returns the number of node insertions and removals.
func (s MutationStats) Structural() int {
	return s.Inserted + s.Removed
}

// Document owns an html.Node tree's out-of-markup state: properties, event
// listeners and mutation accounting. All engine mutations go through it.
// A Document is not safe for concurrent use.
type Document struct {
	logger     *zap.Logger
	properties map[*html.Node]map[string]any
	listeners  map[*html.Node][]listenerEntry
	nextID     ListenerID
	stats      MutationStats
	observer   func(op string)
}

// NewDocument creates an empty document
func NewDocument(logger *zap.Logger) *Document {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgDocumentCreated)
	return &Document{
		logger:     logger,
		properties: make(map[*html.Node]map[string]any),
		listeners:  make(map[*html.Node][]listenerEntry),
	}
}

// SetObserver installs a callback invoked once per mutation with its operation name.
func (d *Document) SetObserver(fn func(op string)) {
	d.observer = fn
}

// Logger returns the document logger
func (d *Document) Logger() *zap.Logger {
	return d.logger
}

// Stats returns the mutation counters accumulated so far.
func (d *Document) Stats() MutationStats {
	return d.stats
}

// ResetStats zeroes the mutation counters.
func (d *Document) ResetStats() {
	d.stats = MutationStats{}
}

func (d *Document) record(op string) {
	if d.observer != nil {
		d.observer(op)
	}
}

// NewElement creates a detached element node.
func (d *Document) NewElement(tag string) *html.Node {
	d.stats.Created++
	d.record(OpCreate)
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// CreateText creates a detached text node.
func (d *Document) CreateText(data string) *html.Node {
	d.stats.Created++
	d.record(OpCreate)
	return &html.Node{Type: html.TextNode, Data: data}
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(data string) *html.Node {
	d.stats.Created++
	d.record(OpCreate)
	return &html.Node{Type: html.CommentNode, Data: data}
}

// CloneNodes deep-copies a list of sibling roots into detached nodes.
func (d *Document) CloneNodes(nodes []*html.Node) []*html.Node {
	out := make([]*html.Node, len(nodes))
	for i, n := range nodes {
		out[i] = d.cloneNode(n)
	}
	return out
}

func (d *Document) cloneNode(n *html.Node) *html.Node {
	d.stats.Created++
	d.record(OpCreate)
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(d.cloneNode(ch))
	}
	return c
}

// fragmentContext parses fragments in template insertion mode so table
// rows, cells and options are accepted at the top level.
func fragmentContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: TagTemplate, DataAtom: atom.Template}
}

// ParseFragment parses markup into detached sibling nodes without counting
// them as document mutations. Used for cached fragments.
func ParseFragment(markup string) ([]*html.Node, error) {
	return html.ParseFragment(strings.NewReader(markup), fragmentContext())
}

// ParseHTML parses markup into detached nodes owned by this document.
func (d *Document) ParseHTML(markup string) ([]*html.Node, error) {
	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	d.stats.Created += len(nodes)
	for range nodes {
		d.record(OpCreate)
	}
	return nodes, nil
}

// InsertBefore inserts n into parent before ref; a nil ref appends. An
// attached n is moved. Returns an error when ref is not a child of parent.
func (d *Document) InsertBefore(parent, n, ref *html.Node) error {
	if ref != nil && ref.Parent != parent {
		return NewShapeError(ErrMsgNotChild, 0, 0, -1)
	}
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
	parent.InsertBefore(n, ref)
	d.stats.Inserted++
	d.record(OpInsert)
	return nil
}

// Remove detaches n from parent. A node that is not a child of parent is
// reported with an error and left alone.
func (d *Document) Remove(parent, n *html.Node) error {
	if n == nil || parent == nil || n.Parent != parent {
		return NewShapeError(ErrMsgNotChild, 0, 0, -1)
	}
	parent.RemoveChild(n)
	d.stats.Removed++
	if n.Type == html.ElementNode {
		d.stats.RemovedElements++
	}
	d.record(OpRemove)
	return nil
}

// ReplaceChildren removes every child of parent and appends nodes.
func (d *Document) ReplaceChildren(parent *html.Node, nodes []*html.Node) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		_ = d.Remove(parent, c)
		c = next
	}
	for _, n := range nodes {
		_ = d.InsertBefore(parent, n, nil)
	}
}

// GetAttr returns the value of an attribute.
func GetAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr writes an attribute, appending it when absent.
func (d *Document) SetAttr(n *html.Node, key, val string) {
	d.stats.AttrWrites++
	d.record(OpSetAttr)
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr removes an attribute if present. Returns whether it was present.
func (d *Document) RemoveAttr(n *html.Node, key string) bool {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.stats.AttrRemovals++
			d.record(OpRemoveAttr)
			return true
		}
	}
	return false
}

// SetText replaces the character data of a text node.
func (d *Document) SetText(n *html.Node, data string) {
	n.Data = data
	d.stats.TextWrites++
	d.record(OpSetText)
}

// TextContent returns the concatenated data of n's text children.
func TextContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// SetTextContent makes text the only child of n, reusing a lone text child.
func (d *Document) SetTextContent(n *html.Node, text string) {
	if c := n.FirstChild; c != nil && c == n.LastChild && c.Type == html.TextNode {
		if c.Data != text {
			d.SetText(c, text)
		}
		return
	}
	d.ReplaceChildren(n, []*html.Node{d.CreateText(text)})
}

// SetProperty assigns a property on a node. Properties never reach markup.
func (d *Document) SetProperty(n *html.Node, name string, value any) {
	props, ok := d.properties[n]
	if !ok {
		props = make(map[string]any)
		d.properties[n] = props
	}
	props[name] = value
}

// Property returns a property previously assigned with SetProperty.
func (d *Document) Property(n *html.Node, name string) (any, bool) {
	v, ok := d.properties[n][name]
	return v, ok
}

// AddEventListener attaches fn for eventType on n.
func (d *Document) AddEventListener(n *html.Node, eventType string, fn Listener) ListenerID {
	d.nextID++
	d.listeners[n] = append(d.listeners[n], listenerEntry{id: d.nextID, eventType: eventType, fn: fn})
	return d.nextID
}

// RemoveEventListener detaches a listener. Unknown ids are ignored.
func (d *Document) RemoveEventListener(n *html.Node, id ListenerID) {
	entries := d.listeners[n]
	for i, e := range entries {
		if e.id == id {
			d.listeners[n] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(d.listeners[n]) == 0 {
		delete(d.listeners, n)
	}
}

// ListenerCount returns the number of listeners for eventType on n.
func (d *Document) ListenerCount(n *html.Node, eventType string) int {
	count := 0
	for _, e := range d.listeners[n] {
		if e.eventType == eventType {
			count++
		}
	}
	return count
}

// Dispatch invokes the listeners for eventType on n and returns how many ran.
func (d *Document) Dispatch(n *html.Node, eventType string, detail any) int {
	entries := append([]listenerEntry(nil), d.listeners[n]...)
	ev := &Event{Type: eventType, Target: n, Detail: detail}
	ran := 0
	for _, e := range entries {
		if e.eventType == eventType {
			e.fn(ev)
			ran++
		}
	}
	return ran
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// RenderNodes serializes a list of sibling nodes.
func RenderNodes(nodes []*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
